package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/woodpecker/attempt"
	"github.com/woodpecker/orient"
	"github.com/woodpecker/render"
)

// snapshots writes a PNG of every frame into dir.
type snapshots struct {
	attempt.NopListener
	dir      string
	cellSize float32
	size     int // pixels, 0 for the rendered size
	o        func() orient.Orientation
	log      *log.Logger
	n        int
}

func (s *snapshots) OnFrame(f attempt.Frame) {
	s.n++
	img, err := render.Board(f.Board, s.o(), s.cellSize, f.Highlight()...)
	if err != nil {
		s.log.WithError(err).Warn("cannot render frame")
		return
	}
	var out image.Image = img
	if s.size > 0 {
		out = render.Thumbnail(img, s.size)
	}
	filename := filepath.Join(s.dir, fmt.Sprintf("%s-%d-%04d.png", f.Puzzle, f.Epoch, s.n))
	file, err := os.Create(filename)
	if err != nil {
		s.log.WithError(err).Warn("cannot write frame")
		return
	}
	defer file.Close()
	if err := render.WritePNG(file, out); err != nil {
		s.log.WithError(err).WithField("file", filename).Warn("cannot write frame")
	}
}

// Package render draws board snapshots as images. Squares are placed with the
// same geometry gesture resolution uses, so a picture and a drop agree on
// which square is where.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"github.com/woodpecker/game"
	"github.com/woodpecker/move"
	"github.com/woodpecker/orient"
)

// Palette.
var (
	Light    = color.RGBA{0xf0, 0xd9, 0xb5, 0xff}
	Dark     = color.RGBA{0xb5, 0x88, 0x63, 0xff}
	Marked   = color.RGBA{0xcd, 0xd2, 0x6a, 0xff}
	WhiteInk = color.RGBA{0xff, 0xff, 0xff, 0xff}
	BlackInk = color.RGBA{0x10, 0x10, 0x10, 0xff}
)

const (
	// MinCellSize is the smallest cell a letter still fits in.
	MinCellSize = 8
	fontRatio   = 0.7
)

var (
	parseOnce sync.Once
	regular   *truetype.Font
	parseErr  error
)

func goFont() (*truetype.Font, error) {
	parseOnce.Do(func() {
		regular, parseErr = truetype.Parse(goregular.TTF)
	})
	return regular, errors.WithStack(parseErr)
}

// Board draws b as seen from o, with cells of cellSize pixels. The squares in
// highlight are tinted.
func Board(b game.BoardPosition, o orient.Orientation, cellSize float32, highlight ...move.Square) (*image.RGBA, error) {
	if cellSize < MinCellSize {
		return nil, errors.Wrapf(orient.ErrInvalidCellSize, "%v", cellSize)
	}
	f, err := goFont()
	if err != nil {
		return nil, err
	}
	cell := int(cellSize)
	side := cell * move.ColNum
	img := image.NewRGBA(image.Rect(0, 0, side, side))

	marked := make(map[move.Square]bool, len(highlight))
	for _, sq := range highlight {
		marked[sq] = true
	}

	size := float64(cellSize) * fontRatio
	face := truetype.NewFace(f, &truetype.Options{Size: size})
	defer face.Close()

	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(f)
	c.SetFontSize(size)
	c.SetClip(img.Bounds())
	c.SetDst(img)
	c.SetHinting(font.HintingFull)

	for sq := move.Square(0); sq < move.RowNum*move.ColNum; sq++ {
		p, err := orient.Locate(sq, o, float32(cell))
		if err != nil {
			return nil, err
		}
		r := image.Rect(int(p.X), int(p.Y), int(p.X)+cell, int(p.Y)+cell)
		fill := Dark
		if (sq.File()+sq.Rank())%2 == 1 {
			fill = Light
		}
		if marked[sq] {
			fill = Marked
		}
		draw.Draw(img, r, image.NewUniform(fill), image.Point{}, draw.Src)

		piece, ok := b[sq]
		if !ok {
			continue
		}
		letter := piece.Letter()
		w := font.MeasureString(face, letter)
		m := face.Metrics()
		x := fixed.I(r.Min.X) + (fixed.I(cell)-w)/2
		y := fixed.I(r.Min.Y) + (fixed.I(cell)+m.Ascent-m.Descent)/2

		fg, shadow := BlackInk, WhiteInk
		if piece.Color == game.White {
			fg, shadow = WhiteInk, BlackInk
		}
		c.SetSrc(image.NewUniform(shadow))
		if _, err := c.DrawString(letter, fixed.Point26_6{X: x + fixed.I(1), Y: y + fixed.I(1)}); err != nil {
			return nil, errors.WithStack(err)
		}
		c.SetSrc(image.NewUniform(fg))
		if _, err := c.DrawString(letter, fixed.Point26_6{X: x, Y: y}); err != nil {
			return nil, errors.WithStack(err)
		}
	}
	return img, nil
}

// Thumbnail scales img down to a square of side pixels.
func Thumbnail(img image.Image, side int) *image.RGBA {
	bounds := image.Rect(0, 0, side, side)
	retVal := image.NewRGBA(bounds)
	xdraw.ApproxBiLinear.Scale(retVal, bounds, img, img.Bounds(), draw.Over, nil)
	return retVal
}

func WritePNG(w io.Writer, img image.Image) error {
	return errors.WithStack(png.Encode(w, img))
}

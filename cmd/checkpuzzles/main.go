// This package checks a puzzle library: every record must satisfy the puzzle
// invariants and its solution must be playable to the end by the attempt machine.
// With -graph it also writes the attempt transition table as DOT.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/woodpecker/attempt"
	"github.com/woodpecker/move"
	"github.com/woodpecker/puzzle"
	"github.com/woodpecker/supply"
)

var (
	libraryPath = flag.String("library", "", "puzzle library (JSON array of records) to check")
	graphPath   = flag.String("graph", "", "write the attempt transition graph in DOT to this file")
	logLevel    = flag.String("log_level", "warning", "log level")
)

func main() {
	flag.Parse()

	lvl, err := log.ParseLevel(*logLevel)
	if err != nil {
		log.Fatal(err)
	}
	log.SetLevel(lvl)

	if *graphPath != "" {
		dot, err := attempt.Graph()
		if err != nil {
			log.Fatal(err)
		}
		if err := os.WriteFile(*graphPath, []byte(dot), 0644); err != nil {
			log.Fatal(err)
		}
	}
	if *libraryPath == "" {
		if *graphPath == "" {
			flag.Usage()
			os.Exit(2)
		}
		return
	}

	lib, err := supply.LoadLibrary(*libraryPath)
	if err != nil {
		log.Fatal(err)
	}
	if bad := check(os.Stdout, lib, log.StandardLogger()); bad > 0 {
		fmt.Printf("%d of %d puzzles are broken\n", bad, lib.Len())
		os.Exit(1)
	}
	fmt.Printf("all %d puzzles are fine\n", lib.Len())
}

// check verifies every puzzle of lib and returns how many are broken.
func check(w io.Writer, lib *supply.Library, l *log.Logger) (bad int) {
	entries := lib.Entries()
	for _, e := range entries {
		p, err := lib.Fetch(context.Background(), e.ID)
		if err == nil {
			err = puzzle.Verify(p, puzzle.Chess)
		}
		if err == nil {
			err = rehearse(p, l)
		}
		if err != nil {
			bad++
			fmt.Fprintf(w, "%s: %v\n", e.ID, err)
		}
	}
	for _, tc := range supply.ThemeCounts(entries) {
		fmt.Fprintf(w, "%-30s %d\n", tc.Theme, tc.Count)
	}
	return bad
}

type outcome struct {
	attempt.NopListener
	c *attempt.Completion
}

func (o *outcome) OnComplete(c attempt.Completion) { o.c = &c }

// rehearse plays the solution as the user on a machine driven by virtual time.
func rehearse(p *puzzle.Puzzle, l *log.Logger) error {
	clock := attempt.NewManualClock(time.Unix(0, 0))
	res := &outcome{}
	m := attempt.New(attempt.DefaultConfig(), clock, attempt.WithLogger(l), attempt.WithListener(res))
	if err := m.Load(p); err != nil {
		return err
	}
	for steps := 0; res.c == nil; steps++ {
		if steps > 4*len(p.Solution)+4 {
			return errors.Errorf("stuck in %v", m.State())
		}
		if !m.Accepting() {
			if clock.Drain(1) == 0 {
				return errors.Errorf("stuck in %v with nothing scheduled", m.State())
			}
			continue
		}
		idx := m.Cursor().MoveIndex
		mv, err := move.Decode(p.Solution[idx])
		if err != nil {
			return err
		}
		r, err := m.Submit(mv)
		if err != nil {
			return err
		}
		if !r.Valid {
			return errors.WithMessagef(r.Reason, "solution[%d] %v rejected", idx, mv)
		}
	}
	if res.c.Outcome != attempt.Solved {
		return errors.Errorf("attempt ended %v", res.c.Outcome)
	}
	return nil
}

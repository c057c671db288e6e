package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woodpecker/puzzle"
	"github.com/woodpecker/supply"
)

const library = `[
  {"id": "mate", "fen": "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1", "solution": ["a1a8"], "theme": "Back rank"},
  {"id": "long", "fen": "4k3/8/8/3p4/4P3/8/8/R3K3 w - - 0 1", "solution": ["e4d5", "e8d7", "a1a7"], "theme": "Pawn grab"},
  {"id": "typo", "fen": "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1", "solution": ["a1a9"]},
  {"id": "illegal", "fen": "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1", "solution": ["a1a7", "a1a2"]}
]`

func quietLogger() *log.Logger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}

func TestRehearse(t *testing.T) {
	p := &puzzle.Puzzle{
		ID:          "two",
		FEN:         "4k3/8/8/3p4/4P3/8/8/R3K3 w - - 0 1",
		WhiteToMove: true,
		Solution:    []string{"e4d5", "e8d7", "a1a7"},
	}
	require.NoError(t, rehearse(p, quietLogger()))
}

func TestCheck(t *testing.T) {
	lib, err := supply.ReadLibrary(strings.NewReader(library))
	require.NoError(t, err)

	var out bytes.Buffer
	bad := check(&out, lib, quietLogger())
	assert.Equal(t, 2, bad)
	assert.Contains(t, out.String(), "typo:")
	assert.Contains(t, out.String(), "illegal:")
	assert.NotContains(t, out.String(), "mate:")
	assert.NotContains(t, out.String(), "long:")
	assert.Contains(t, out.String(), "Back rank")
}

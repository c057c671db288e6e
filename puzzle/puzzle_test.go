package puzzle

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woodpecker/game"
	"github.com/woodpecker/move"
)

const start = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func TestVerify(t *testing.T) {
	p := &Puzzle{ID: "a", FEN: start, WhiteToMove: true, Solution: []string{"e2e4", "e7e5", "g1f3"}}
	require.NoError(t, Verify(p, Chess))
}

func TestVerifyCollectsEveryProblem(t *testing.T) {
	p := &Puzzle{FEN: start, WhiteToMove: false, Solution: []string{"e2e4", "zz", "e7e5q5"}}
	err := Verify(p, Chess)
	require.Error(t, err)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	// empty id, two bad moves and the side mismatch
	assert.Len(t, merr.Errors, 4)
	assert.True(t, errors.Is(err, move.ErrMalformedMove))
}

func TestVerifyIllegalReplay(t *testing.T) {
	p := &Puzzle{ID: "x", FEN: start, WhiteToMove: true, Solution: []string{"e2e4", "e2e4"}}
	err := Verify(p, Chess)
	require.Error(t, err)
	assert.True(t, errors.Is(err, game.ErrIllegalMove))
	assert.Contains(t, err.Error(), "solution[1]")
}

func TestVerifyEmptySolution(t *testing.T) {
	err := Verify(&Puzzle{ID: "x", FEN: start, WhiteToMove: true}, Chess)
	assert.Contains(t, err.Error(), "empty solution")
}

func TestSideToMove(t *testing.T) {
	white, err := SideToMove(start)
	require.NoError(t, err)
	assert.True(t, white)

	white, err = SideToMove("8/8/8/8/8/8/8/8 b - - 0 1")
	require.NoError(t, err)
	assert.False(t, white)

	_, err = SideToMove("8/8/8/8/8/8/8/8")
	assert.True(t, errors.Is(err, game.ErrInvalidPosition))
}

func TestCategory(t *testing.T) {
	assert.Equal(t, Uncategorized, (&Puzzle{}).Category())
	assert.Equal(t, "fork", (&Puzzle{Themes: []string{"fork", "short"}}).Category())
	assert.Equal(t, "mateIn2", (&Puzzle{Theme: "mateIn2", Themes: []string{"fork"}}).Category())
	assert.Equal(t, game.Black, (&Puzzle{}).UserColor())
}

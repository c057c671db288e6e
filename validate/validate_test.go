package validate

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woodpecker/game"
	"github.com/woodpecker/move"
)

func position(t *testing.T, fen string) *game.Chess {
	t.Helper()
	p, err := game.New(fen)
	require.NoError(t, err)
	return p
}

func TestScenarioHappyPath(t *testing.T) {
	solution := []string{"e2e4", "e7e5", "g1f3"}
	pos := position(t, "")

	res, err := Validate(pos, move.MustDecode("e2e4"), solution, 0)
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.False(t, res.Complete)
	require.NotNil(t, res.Next)
	assert.Equal(t, "e7e5", res.Next.String())

	for _, s := range solution[:2] {
		_, err = pos.Apply(move.MustDecode(s))
		require.NoError(t, err)
	}
	res, err = Validate(pos, move.MustDecode("g1f3"), solution, 2)
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.True(t, res.Complete)
	assert.Nil(t, res.Next)
}

func TestScenarioWrongMove(t *testing.T) {
	res, err := Validate(position(t, ""), move.MustDecode("d2d4"), []string{"e2e4", "e7e5", "g1f3"}, 0)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.False(t, res.Complete)
	assert.Nil(t, res.Next)
	assert.True(t, errors.Is(res.Reason, ErrSolutionMismatch))
}

func TestScenarioPromotionMismatch(t *testing.T) {
	pos := position(t, "8/4P3/8/8/8/8/k7/4K3 w - - 0 1")
	solution := []string{"e7e8q"}

	res, err := Validate(pos, move.MustDecode("e7e8r"), solution, 0)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.True(t, errors.Is(res.Reason, ErrSolutionMismatch))

	res, err = Validate(pos, move.MustDecode("e7e8q"), solution, 0)
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.True(t, res.Complete)
}

func TestPinnedSolutionMoveRejected(t *testing.T) {
	// the knight is pinned to its king, so the "solution" move is illegal
	pos := position(t, "k3r3/8/8/8/8/8/4N3/4K3 w - - 0 1")
	res, err := Validate(pos, move.MustDecode("e2c3"), []string{"e2c3"}, 0)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.True(t, errors.Is(res.Reason, ErrIllegalMove))
}

func TestDeterministic(t *testing.T) {
	pos := position(t, "")
	fen := pos.String()
	solution := []string{"e2e4", "e7e5"}
	first, err := Validate(pos, move.MustDecode("e2e4"), solution, 0)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Validate(pos, move.MustDecode("e2e4"), solution, 0)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, fen, pos.String(), "validation must not touch the live position")
}

func TestEffect(t *testing.T) {
	pos := position(t, "4k3/8/8/3p4/4P3/8/8/R3K3 w - - 0 1")
	res, err := Validate(pos, move.MustDecode("e4d5"), []string{"e4d5"}, 0)
	require.NoError(t, err)
	assert.True(t, res.Effect.Capture)

	res, err = Validate(pos, move.MustDecode("a1a8"), []string{"a1a8"}, 0)
	require.NoError(t, err)
	assert.True(t, res.Effect.Check)
}

func TestBadInput(t *testing.T) {
	pos := position(t, "")
	_, err := Validate(pos, move.MustDecode("e2e4"), []string{"e2e4"}, 1)
	assert.Error(t, err)
	_, err = Validate(pos, move.MustDecode("e2e4"), nil, 0)
	assert.Error(t, err)

	_, err = Validate(pos, move.MustDecode("e2e4"), []string{"e2-e4"}, 0)
	assert.True(t, errors.Is(err, move.ErrMalformedMove))

	_, err = Validate(pos, move.MustDecode("e2e4"), []string{"e2e4", "bogus"}, 0)
	assert.True(t, errors.Is(err, move.ErrMalformedMove))
}

func TestForced(t *testing.T) {
	pos := position(t, "")
	_, err := pos.Apply(move.MustDecode("e2e4"))
	require.NoError(t, err)

	m, res, err := Forced(pos, []string{"e2e4", "e7e5", "g1f3"}, 1)
	require.NoError(t, err)
	assert.Equal(t, "e7e5", m.String())
	assert.True(t, res.Valid)
	assert.Equal(t, "g1f3", res.Next.String())

	_, res, err = Forced(pos, []string{"e2e4", "e7e4"}, 1)
	require.NoError(t, err)
	assert.False(t, res.Valid)
}

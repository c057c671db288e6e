// Package validate checks a proposed move against a puzzle's solution.
package validate

import (
	"github.com/pkg/errors"

	"github.com/woodpecker/game"
	"github.com/woodpecker/move"
)

var (
	// ErrIllegalMove is the reason given when the oracle rejects the move.
	ErrIllegalMove = game.ErrIllegalMove
	// ErrSolutionMismatch is the reason given when the move is legal but not the expected one.
	ErrSolutionMismatch = errors.New("move does not match solution")
)

// Result of validating a single move.
type Result struct {
	Valid    bool
	Complete bool
	// Next is the reply the opponent must play. Nil when the move was
	// invalid or completed the puzzle.
	Next *move.Move
	// Reason is ErrIllegalMove or ErrSolutionMismatch for invalid moves.
	// Both are treated the same by the user interface.
	Reason error
	// Effect of the move on a trial copy of the position.
	Effect game.Effect
}

// Validate decides whether m, played in pos, is solution[index]. pos is never
// modified; the move is tried on a clone.
//
// The returned error is reserved for bad inputs: an index outside the
// solution, or a solution entry that does not decode.
func Validate(pos game.Position, m move.Move, solution []string, index int) (Result, error) {
	if index < 0 || index >= len(solution) {
		return Result{}, errors.Errorf("move index %d outside solution of length %d", index, len(solution))
	}
	want, err := move.Decode(solution[index])
	if err != nil {
		return Result{}, errors.WithMessagef(err, "solution[%d]", index)
	}

	trial := pos.Clone()
	eff, err := trial.Apply(m)
	if err != nil {
		if errors.Is(err, game.ErrIllegalMove) {
			return Result{Reason: err}, nil
		}
		return Result{}, err
	}
	if move.Encode(m) != move.Encode(want) {
		return Result{Reason: errors.Wrapf(ErrSolutionMismatch, "played %v, want %v", m, want)}, nil
	}

	retVal := Result{Valid: true, Effect: eff}
	if index == len(solution)-1 {
		retVal.Complete = true
		return retVal, nil
	}
	next, err := move.Decode(solution[index+1])
	if err != nil {
		return Result{}, errors.WithMessagef(err, "solution[%d]", index+1)
	}
	retVal.Next = &next
	return retVal, nil
}

// Forced validates the solution's own move at index. Opponent replies and
// demonstrations go through here so they obey the same checks as the user.
func Forced(pos game.Position, solution []string, index int) (move.Move, Result, error) {
	if index < 0 || index >= len(solution) {
		return move.Move{}, Result{}, errors.Errorf("move index %d outside solution of length %d", index, len(solution))
	}
	m, err := move.Decode(solution[index])
	if err != nil {
		return move.Move{}, Result{}, errors.WithMessagef(err, "solution[%d]", index)
	}
	res, err := Validate(pos, m, solution, index)
	return m, res, err
}

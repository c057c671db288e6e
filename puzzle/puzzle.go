// Package puzzle holds the puzzle record handed from the supply to the trainer.
package puzzle

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/woodpecker/game"
	"github.com/woodpecker/move"
)

// Uncategorized is the theme of puzzles that come without one.
const Uncategorized = "Uncategorized"

// Puzzle is read only once loaded, except for Attempts which the session owns.
type Puzzle struct {
	ID          string   `json:"id"`
	FEN         string   `json:"fen"`
	WhiteToMove bool     `json:"white_to_move"`
	Solution    []string `json:"solution"`
	Theme       string   `json:"theme,omitempty"`
	Themes      []string `json:"themes,omitempty"`
	Rating      int      `json:"rating,omitempty"`

	Attempts int `json:"attempts,omitempty"`
}

// Category returns the theme, or Uncategorized.
func (p *Puzzle) Category() string {
	if p.Theme != "" {
		return p.Theme
	}
	if len(p.Themes) > 0 {
		return p.Themes[0]
	}
	return Uncategorized
}

// UserColor is the side the user plays.
func (p *Puzzle) UserColor() game.Color {
	if p.WhiteToMove {
		return game.White
	}
	return game.Black
}

func (p *Puzzle) String() string {
	return fmt.Sprintf("%s (%s, %d moves)", p.ID, p.Category(), len(p.Solution))
}

// SideToMove reads the active colour field of a FEN.
func SideToMove(fen string) (white bool, err error) {
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return false, errors.Wrapf(game.ErrInvalidPosition, "%q", fen)
	}
	switch fields[1] {
	case "w":
		return true, nil
	case "b":
		return false, nil
	}
	return false, errors.Wrapf(game.ErrInvalidPosition, "active colour %q", fields[1])
}

// NewPosition builds an oracle for a FEN.
type NewPosition func(fen string) (game.Position, error)

// Chess is the NewPosition backed by the default oracle.
func Chess(fen string) (game.Position, error) { return game.New(fen) }

// Verify checks the puzzle's invariants and reports every violation it finds.
// Replaying the solution through the oracle proves both legality and that the
// sides alternate.
func Verify(p *Puzzle, newPos NewPosition) error {
	var errs error
	if p.ID == "" {
		errs = multierror.Append(errs, errors.New("empty id"))
	}
	if len(p.Solution) == 0 {
		errs = multierror.Append(errs, errors.New("empty solution"))
	}
	moves := make([]move.Move, 0, len(p.Solution))
	for i, s := range p.Solution {
		m, err := move.Decode(s)
		if err != nil {
			errs = multierror.Append(errs, errors.WithMessagef(err, "solution[%d]", i))
			continue
		}
		moves = append(moves, m)
	}
	white, err := SideToMove(p.FEN)
	if err != nil {
		errs = multierror.Append(errs, err)
	} else if white != p.WhiteToMove {
		errs = multierror.Append(errs, errors.Errorf("side to move is %v in the position but %v in the record", colorName(white), colorName(p.WhiteToMove)))
	}
	if errs != nil {
		return errs
	}

	pos, err := newPos(p.FEN)
	if err != nil {
		return err
	}
	turn := pos.Turn()
	for i, m := range moves {
		if _, err := pos.Apply(m); err != nil {
			return errors.WithMessagef(err, "solution[%d]", i)
		}
		if pos.Turn() == turn {
			return errors.Errorf("solution[%d] did not pass the move to the other side", i)
		}
		turn = pos.Turn()
	}
	return nil
}

func colorName(white bool) string {
	if white {
		return "white"
	}
	return "black"
}

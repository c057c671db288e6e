package game

import (
	"github.com/pkg/errors"

	"github.com/woodpecker/move"
)

var (
	ErrIllegalMove     = errors.New("illegal move")
	ErrInvalidPosition = errors.New("invalid position")
)

// Color of a side or a piece.
type Color int8

const (
	NoColor Color = iota
	White
	Black
)

func (c Color) Other() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	}
	return NoColor
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return "none"
}

// Effect describes what an applied move did.
type Effect struct {
	Capture bool
	Check   bool
	Mate    bool
}

// Position is the board-position oracle. It knows the rules of chess; callers
// only ask it questions and hand it moves.
type Position interface {
	// Apply plays m. It returns ErrIllegalMove and leaves the position
	// untouched when m is not legal.
	Apply(m move.Move) (Effect, error)
	LegalMoves() []move.Move
	InCheck() bool
	Turn() Color

	// String returns the position in FEN.
	String() string
	// Board returns a fresh snapshot of the pieces.
	Board() BoardPosition
	// Clone returns an independent copy.
	Clone() Position
}

// IsLegal reports whether m is among the legal moves of p.
func IsLegal(p Position, m move.Move) bool {
	for _, l := range p.LegalMoves() {
		if l == m {
			return true
		}
	}
	return false
}

// NeedsPromotion reports whether a move from one square to another is only
// legal with a promotion piece.
func NeedsPromotion(p Position, from, to move.Square) bool {
	for _, l := range p.LegalMoves() {
		if l.From == from && l.To == to && l.Promotion != move.NoPromotion {
			return true
		}
	}
	return false
}

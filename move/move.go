// Package move converts between compact move notation ("e2e4", "e7e8q")
// and structured moves.
package move

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrMalformedMove is returned when a string is not valid compact notation.
var ErrMalformedMove = errors.New("malformed move")

// Promotion is the piece a pawn promotes to.
type Promotion byte

const (
	NoPromotion Promotion = 0
	Queen       Promotion = 'q'
	Rook        Promotion = 'r'
	Bishop      Promotion = 'b'
	Knight      Promotion = 'n'
)

// ParsePromotion parses a single promotion letter. Upper case letters are rejected.
func ParsePromotion(c byte) (Promotion, error) {
	switch p := Promotion(c); p {
	case Queen, Rook, Bishop, Knight:
		return p, nil
	}
	return NoPromotion, errors.Wrapf(ErrMalformedMove, "bad promotion %q", c)
}

func (p Promotion) String() string {
	if p == NoPromotion {
		return ""
	}
	return string(byte(p))
}

// Move is a move request: origin, destination and an optional promotion.
type Move struct {
	From      Square
	To        Square
	Promotion Promotion
}

// Decode parses compact notation. The string must be exactly 4 or 5
// characters: two square names and an optional promotion letter.
func Decode(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return Move{}, errors.Wrapf(ErrMalformedMove, "%q: want 4 or 5 characters", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return Move{}, errors.Wrapf(ErrMalformedMove, "%q: %v", s, err)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, errors.Wrapf(ErrMalformedMove, "%q: %v", s, err)
	}
	m := Move{From: from, To: to}
	if len(s) == 5 {
		if m.Promotion, err = ParsePromotion(s[4]); err != nil {
			return Move{}, errors.WithMessagef(err, "%q", s)
		}
	}
	return m, nil
}

// MustDecode is like Decode but panics on malformed input. Meant for literals.
func MustDecode(s string) Move {
	m, err := Decode(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Encode is the inverse of Decode.
func Encode(m Move) string { return m.String() }

func (m Move) String() string {
	var b strings.Builder
	b.Grow(5)
	b.WriteString(m.From.String())
	b.WriteString(m.To.String())
	b.WriteString(m.Promotion.String())
	return b.String()
}

// IsNull reports whether the move starts and ends on the same square.
func (m Move) IsNull() bool { return m.From == m.To }

// Valid reports whether both squares are on the board.
func (m Move) Valid() bool { return m.From.Valid() && m.To.Valid() }

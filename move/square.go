package move

import "github.com/pkg/errors"

const (
	RowNum = 8
	ColNum = 8
)

// Square is a board square. a1 is 0, b1 is 1 and h8 is 63.
type Square int8

// NoSquare is returned alongside errors.
const NoSquare Square = -1

// ErrInvalidSquare is returned when a square name is not [a-h][1-8].
var ErrInvalidSquare = errors.New("invalid square")

// NewSquare builds a square from zero based file and rank indices.
func NewSquare(file, rank int) Square {
	if file < 0 || file >= ColNum || rank < 0 || rank >= RowNum {
		return NoSquare
	}
	return Square(rank*ColNum + file)
}

// ParseSquare parses an algebraic square name such as "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, errors.Wrapf(ErrInvalidSquare, "%q", s)
	}
	f, r := s[0], s[1]
	if f < 'a' || f > 'h' || r < '1' || r > '8' {
		return NoSquare, errors.Wrapf(ErrInvalidSquare, "%q", s)
	}
	return NewSquare(int(f-'a'), int(r-'1')), nil
}

// File returns the file index, 0 for the a-file.
func (s Square) File() int { return int(s) % ColNum }

// Rank returns the rank index, 0 for the first rank.
func (s Square) Rank() int { return int(s) / ColNum }

func (s Square) Valid() bool { return s >= 0 && s < RowNum*ColNum }

func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return string([]byte{byte('a' + s.File()), byte('1' + s.Rank())})
}

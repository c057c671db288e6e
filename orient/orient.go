// Package orient maps board squares to screen coordinates and back.
//
// Coordinates are in the board's own frame: (0,0) is the top left corner of
// the drawn board and y grows downwards.
package orient

import (
	"strings"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"github.com/woodpecker/move"
)

var (
	ErrInvalidSquare   = move.ErrInvalidSquare
	ErrInvalidCellSize = errors.New("cell size must be positive")
)

// Orientation says which colour is drawn at the bottom of the board.
type Orientation int8

const (
	WhiteBottom Orientation = iota
	BlackBottom
)

func (o Orientation) String() string {
	switch o {
	case WhiteBottom:
		return "white-bottom"
	case BlackBottom:
		return "black-bottom"
	}
	return "UNKNOWN ORIENTATION"
}

// Parse accepts "white", "black" and the String forms.
func Parse(s string) (Orientation, error) {
	switch strings.ToLower(s) {
	case "white", "white-bottom", "w":
		return WhiteBottom, nil
	case "black", "black-bottom", "b":
		return BlackBottom, nil
	}
	return WhiteBottom, errors.Errorf("unknown orientation %q", s)
}

// Flip returns the opposite orientation.
func Flip(o Orientation) Orientation {
	if o == BlackBottom {
		return WhiteBottom
	}
	return BlackBottom
}

// Point is a position on the drawn board.
type Point struct {
	X, Y float32
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// SquareToPoint returns the top left corner of the named square's cell.
func SquareToPoint(name string, o Orientation, cellSize float32) (Point, error) {
	sq, err := move.ParseSquare(name)
	if err != nil {
		return Point{}, err
	}
	return Locate(sq, o, cellSize)
}

// Locate is SquareToPoint for an already parsed square.
func Locate(sq move.Square, o Orientation, cellSize float32) (Point, error) {
	if !(cellSize > 0) {
		return Point{}, errors.Wrapf(ErrInvalidCellSize, "%v", cellSize)
	}
	if !sq.Valid() {
		return Point{}, errors.Wrapf(ErrInvalidSquare, "%d", int(sq))
	}
	col, row := sq.File(), move.RowNum-1-sq.Rank()
	if o == BlackBottom {
		col, row = move.ColNum-1-sq.File(), sq.Rank()
	}
	return Point{X: float32(col) * cellSize, Y: float32(row) * cellSize}, nil
}

// Center returns the centre of the square's cell.
func Center(sq move.Square, o Orientation, cellSize float32) (Point, error) {
	p, err := Locate(sq, o, cellSize)
	if err != nil {
		return Point{}, err
	}
	half := cellSize / 2
	return p.Add(Point{half, half}), nil
}

// PointToSquare returns the square under p. Points off the board snap to the
// nearest edge square, so any point resolves to a square.
func PointToSquare(p Point, o Orientation, cellSize float32) (move.Square, error) {
	if !(cellSize > 0) {
		return move.NoSquare, errors.Wrapf(ErrInvalidCellSize, "%v", cellSize)
	}
	col, row := cell(p.X, cellSize, move.ColNum), cell(p.Y, cellSize, move.RowNum)
	if o == BlackBottom {
		return move.NewSquare(move.ColNum-1-col, row), nil
	}
	return move.NewSquare(col, move.RowNum-1-row), nil
}

// cell clamps v into [0, n*size) and returns its cell index.
func cell(v, size float32, n int) int {
	switch {
	case math32.IsNaN(v) || v < 0:
		return 0
	case v >= float32(n)*size:
		return n - 1
	}
	i := int(math32.Floor(v / size))
	if i >= n {
		i = n - 1
	}
	return i
}

// Resolve turns a drag that started on origin and was released at release
// into a destination square. ok is false when the piece was dropped back on
// its own square.
func Resolve(origin move.Square, release Point, o Orientation, cellSize float32) (to move.Square, ok bool, err error) {
	if to, err = PointToSquare(release, o, cellSize); err != nil {
		return move.NoSquare, false, err
	}
	return to, to != origin, nil
}

// Path returns the centres of the two cells, for animating a move from one
// square to the other.
func Path(from, to move.Square, o Orientation, cellSize float32) (start, end Point, err error) {
	if start, err = Center(from, o, cellSize); err != nil {
		return
	}
	end, err = Center(to, o, cellSize)
	return
}

package game

import (
	"strings"

	"github.com/notnil/chess"

	"github.com/woodpecker/move"
)

// Kind of piece.
type Kind int8

const (
	NoKind Kind = iota
	King
	Queen
	Rook
	Bishop
	Knight
	Pawn
)

// Piece on a square.
type Piece struct {
	Kind  Kind
	Color Color
}

// Letter returns the FEN letter of the piece, upper case for white.
func (p Piece) Letter() string {
	l := [...]string{"", "k", "q", "r", "b", "n", "p"}[p.Kind]
	if p.Color == White {
		return strings.ToUpper(l)
	}
	return l
}

// BoardPosition maps occupied squares to their pieces. Empty squares are absent.
type BoardPosition map[move.Square]Piece

// Letters returns the board as eight strings, rank 8 first, '.' for empty squares.
func (b BoardPosition) Letters() []string {
	rows := make([]string, 0, move.RowNum)
	for r := move.RowNum - 1; r >= 0; r-- {
		var sb strings.Builder
		for f := 0; f < move.ColNum; f++ {
			if p, ok := b[move.NewSquare(f, r)]; ok {
				sb.WriteString(p.Letter())
			} else {
				sb.WriteByte('.')
			}
		}
		rows = append(rows, sb.String())
	}
	return rows
}

func (c *Chess) Board() BoardPosition {
	m := c.g.Position().Board().SquareMap()
	retVal := make(BoardPosition, len(m))
	for sq, p := range m {
		if p == chess.NoPiece {
			continue
		}
		retVal[move.Square(sq)] = Piece{Kind: kindOf(p.Type()), Color: colorOf(p.Color())}
	}
	return retVal
}

func kindOf(pt chess.PieceType) Kind {
	switch pt {
	case chess.King:
		return King
	case chess.Queen:
		return Queen
	case chess.Rook:
		return Rook
	case chess.Bishop:
		return Bishop
	case chess.Knight:
		return Knight
	case chess.Pawn:
		return Pawn
	}
	return NoKind
}

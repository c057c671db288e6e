package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/woodpecker/game"
	"github.com/woodpecker/move"
	"github.com/woodpecker/orient"
)

// Terminal cells per board square.
const (
	cellW = 5
	cellH = 2
)

var (
	lightStyle  = lipgloss.NewStyle().Background(lipgloss.Color("180"))
	darkStyle   = lipgloss.NewStyle().Background(lipgloss.Color("137"))
	markStyle   = lipgloss.NewStyle().Background(lipgloss.Color("143"))
	pickStyle   = lipgloss.NewStyle().Background(lipgloss.Color("74"))
	checkStyle  = lipgloss.NewStyle().Background(lipgloss.Color("167"))
	whiteInk    = lipgloss.Color("231")
	blackInk    = lipgloss.Color("16")
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	goodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	badStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	boardStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
)

// board is what the terminal shows of a position.
type board struct {
	pieces    game.BoardPosition
	o         orient.Orientation
	highlight []move.Square
	picked    move.Square
	check     move.Square
}

// squareAt returns the square drawn at the given row and column of the grid.
// It goes through the same geometry as gesture resolution.
func (b board) squareAt(row, col int, cellSize float32) move.Square {
	p := orient.Point{X: (float32(col) + 0.5) * cellSize, Y: (float32(row) + 0.5) * cellSize}
	sq, _ := orient.PointToSquare(p, b.o, cellSize)
	return sq
}

func (b board) style(sq move.Square) lipgloss.Style {
	switch {
	case sq == b.picked:
		return pickStyle
	case sq == b.check:
		return checkStyle
	}
	for _, h := range b.highlight {
		if h == sq {
			return markStyle
		}
	}
	if (sq.File()+sq.Rank())%2 == 1 {
		return lightStyle
	}
	return darkStyle
}

func (b board) View(cellSize float32) string {
	var s strings.Builder
	for row := 0; row < move.RowNum; row++ {
		cells := make([]string, move.ColNum)
		for col := 0; col < move.ColNum; col++ {
			sq := b.squareAt(row, col, cellSize)
			st := b.style(sq).Width(cellW).Height(cellH).Align(lipgloss.Center, lipgloss.Center)
			var text string
			if p, ok := b.pieces[sq]; ok {
				text = p.Letter()
				ink := blackInk
				if p.Color == game.White {
					ink = whiteInk
				}
				st = st.Foreground(ink).Bold(true)
			}
			cells[col] = st.Render(text)
		}
		s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		if row < move.RowNum-1 {
			s.WriteByte('\n')
		}
	}
	return boardStyle.Render(s.String())
}

// point converts a terminal position relative to the board's top left cell
// into board coordinates.
func point(x, y int, cellSize float32) orient.Point {
	return orient.Point{
		X: (float32(x) + 0.5) * cellSize / cellW,
		Y: (float32(y) + 0.5) * cellSize / cellH,
	}
}

// kingInCheck returns the square of the king of the side in check, or NoSquare.
func kingInCheck(pieces game.BoardPosition, inCheck bool, turn game.Color) move.Square {
	if !inCheck {
		return move.NoSquare
	}
	for sq, p := range pieces {
		if p.Kind == game.King && p.Color == turn {
			return sq
		}
	}
	return move.NoSquare
}

package game

import (
	"strings"

	"github.com/notnil/chess"
	"github.com/pkg/errors"

	"github.com/woodpecker/move"
)

// Chess is a Position backed by github.com/notnil/chess.
type Chess struct {
	g     *chess.Game
	check bool
}

// New returns a position set up from fen. An empty fen is the standard
// starting position.
func New(fen string) (*Chess, error) {
	if fen == "" {
		return &Chess{g: chess.NewGame()}, nil
	}
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidPosition, "%q: %v", fen, err)
	}
	g := chess.NewGame(opt)
	return &Chess{g: g, check: sideToMoveAttacked(g.Position())}, nil
}

// FromPGN replays the first plies half moves of a PGN game and returns the
// resulting position.
func FromPGN(pgn string, plies int) (*Chess, error) {
	opt, err := chess.PGN(strings.NewReader(pgn))
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidPosition, "pgn: %v", err)
	}
	src := chess.NewGame(opt)
	positions := src.Positions()
	if plies < 0 || plies >= len(positions) {
		return nil, errors.Wrapf(ErrInvalidPosition, "ply %d out of range, game has %d moves", plies, len(positions)-1)
	}
	return New(positions[plies].String())
}

func (c *Chess) Apply(m move.Move) (Effect, error) {
	cm := c.find(m)
	if cm == nil {
		return Effect{}, errors.Wrapf(ErrIllegalMove, "%v in %v", m, c)
	}
	if err := c.g.Move(cm); err != nil {
		return Effect{}, errors.Wrapf(ErrIllegalMove, "%v: %v", m, err)
	}
	eff := Effect{
		Capture: cm.HasTag(chess.Capture) || cm.HasTag(chess.EnPassant),
		Check:   cm.HasTag(chess.Check),
		Mate:    c.g.Method() == chess.Checkmate,
	}
	c.check = eff.Check
	return eff, nil
}

func (c *Chess) LegalMoves() []move.Move {
	valid := c.g.ValidMoves()
	retVal := make([]move.Move, 0, len(valid))
	for _, cm := range valid {
		retVal = append(retVal, fromChess(cm))
	}
	return retVal
}

func (c *Chess) InCheck() bool { return c.check }

func (c *Chess) Turn() Color { return colorOf(c.g.Position().Turn()) }

func (c *Chess) String() string { return c.g.Position().String() }

func (c *Chess) Clone() Position {
	retVal, err := New(c.String())
	if err != nil {
		// the FEN came from the engine itself
		panic(err)
	}
	return retVal
}

// Outcome reports whether the game is over and who won. NoColor is a draw.
func (c *Chess) Outcome() (ended bool, winner Color) {
	switch c.g.Outcome() {
	case chess.WhiteWon:
		return true, White
	case chess.BlackWon:
		return true, Black
	case chess.Draw:
		return true, NoColor
	}
	return false, NoColor
}

func (c *Chess) find(m move.Move) *chess.Move {
	for _, cm := range c.g.ValidMoves() {
		if fromChess(cm) == m {
			return cm
		}
	}
	return nil
}

func fromChess(cm *chess.Move) move.Move {
	return move.Move{
		From:      move.Square(cm.S1()),
		To:        move.Square(cm.S2()),
		Promotion: promotionOf(cm.Promo()),
	}
}

func promotionOf(pt chess.PieceType) move.Promotion {
	switch pt {
	case chess.Queen:
		return move.Queen
	case chess.Rook:
		return move.Rook
	case chess.Bishop:
		return move.Bishop
	case chess.Knight:
		return move.Knight
	}
	return move.NoPromotion
}

func colorOf(c chess.Color) Color {
	switch c {
	case chess.White:
		return White
	case chess.Black:
		return Black
	}
	return NoColor
}

// sideToMoveAttacked hands the move to the other side and looks for a move
// that lands on the king of the side to move.
func sideToMoveAttacked(pos *chess.Position) bool {
	fields := strings.Fields(pos.String())
	if len(fields) < 4 {
		return false
	}
	us := pos.Turn()
	if us == chess.White {
		fields[1] = "b"
	} else {
		fields[1] = "w"
	}
	fields[3] = "-"
	opt, err := chess.FEN(strings.Join(fields, " "))
	if err != nil {
		return false
	}
	flipped := chess.NewGame(opt)
	board := flipped.Position().Board()
	for _, cm := range flipped.ValidMoves() {
		p := board.Piece(cm.S2())
		if p.Type() == chess.King && p.Color() == us {
			return true
		}
	}
	return false
}

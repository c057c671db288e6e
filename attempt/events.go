package attempt

import (
	"time"

	"github.com/woodpecker/game"
	"github.com/woodpecker/move"
	"github.com/woodpecker/puzzle"
)

// Actor says who put a move on the board.
type Actor uint8

const (
	Nobody Actor = iota // the start position of a load or a reset
	User
	Opponent
	Demo
)

func (a Actor) String() string {
	return [...]string{"setup", "user", "opponent", "demo"}[a]
}

// Outcome of a finished attempt.
type Outcome uint8

const (
	Solved Outcome = iota + 1
	Missed         // wrong move, solution demonstrated
	Revealed       // the user asked for the solution
	Broken         // the puzzle's own solution could not be played
)

func (o Outcome) String() string {
	switch o {
	case Solved:
		return "solved"
	case Missed:
		return "missed"
	case Revealed:
		return "revealed"
	case Broken:
		return "broken"
	}
	return "unfinished"
}

// Frame is a board snapshot after the position changed.
type Frame struct {
	Puzzle string
	Epoch  Epoch
	Board  game.BoardPosition
	FEN    string
	// Move is nil when the board was set to the start position.
	Move    *move.Move
	By      Actor
	Effect  game.Effect
	Sound   Sound
	InCheck bool
}

// Highlight returns the squares to mark, the last move's origin and destination.
func (f Frame) Highlight() []move.Square {
	if f.Move == nil {
		return nil
	}
	return []move.Square{f.Move.From, f.Move.To}
}

// Status is sent whenever the state, the transition state or the setup state changes.
type Status struct {
	Puzzle     string
	Epoch      Epoch
	State      State
	Transition TransitionState
	Setup      SetupState
}

// Cue is feedback not tied to a board change: success and failure.
type Cue struct {
	Puzzle string
	Sound  Sound
}

// Completion is sent once per attempt, after the hand-off pause.
type Completion struct {
	Puzzle   *puzzle.Puzzle
	Outcome  Outcome
	Duration time.Duration
	// FailedAt is the solution index of the wrong move, or -1.
	FailedAt int
}

// Listener receives everything the Machine has to say. Calls happen on the
// machine's thread while it is in a consistent state; listeners must not call
// back into the Machine synchronously.
type Listener interface {
	OnFrame(Frame)
	OnStatus(Status)
	OnCue(Cue)
	OnComplete(Completion)
}

// NopListener ignores everything. Embed it to implement part of Listener.
type NopListener struct{}

func (NopListener) OnFrame(Frame) {}
func (NopListener) OnStatus(Status) {}
func (NopListener) OnCue(Cue) {}
func (NopListener) OnComplete(Completion) {}

// Listeners fans out to several listeners in order.
type Listeners []Listener

func (ls Listeners) OnFrame(f Frame) {
	for _, l := range ls {
		l.OnFrame(f)
	}
}

func (ls Listeners) OnStatus(s Status) {
	for _, l := range ls {
		l.OnStatus(s)
	}
}

func (ls Listeners) OnCue(c Cue) {
	for _, l := range ls {
		l.OnCue(c)
	}
}

func (ls Listeners) OnComplete(c Completion) {
	for _, l := range ls {
		l.OnComplete(c)
	}
}

package attempt

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrBadTransition is returned by Next for a trigger the state does not accept.
var ErrBadTransition = errors.New("bad transition")

// Phase is the tag of State.
type Phase uint8

const (
	Setup Phase = iota
	AwaitingUser
	OpponentReplying
	Succeeded
	Failed
	Replaying
)

func (p Phase) String() string {
	switch p {
	case Setup:
		return "Setup"
	case AwaitingUser:
		return "AwaitingUser"
	case OpponentReplying:
		return "OpponentReplying"
	case Succeeded:
		return "Succeeded"
	case Failed:
		return "Failed"
	case Replaying:
		return "Replaying"
	}
	return "UNKNOWN PHASE"
}

// State of one puzzle attempt.
//
// Index depends on the phase. In AwaitingUser, OpponentReplying and Succeeded
// it is the number of solution moves on the board. In Failed it is the move
// the user got wrong. In Replaying it is the next demonstration move.
type State struct {
	Phase Phase
	Index int
}

func (s State) String() string {
	switch s.Phase {
	case Failed, Replaying:
		return fmt.Sprintf("%v(%d)", s.Phase, s.Index)
	}
	return s.Phase.String()
}

// Transition is the coarse state shown to the user.
func (s State) Transition() TransitionState {
	switch s.Phase {
	case Setup:
		return Loading
	case Succeeded:
		return Transitioning
	case Failed:
		return Resetting
	case Replaying:
		return AutoSolving
	}
	return Stable
}

// TransitionState drives overlays and whether input is accepted.
type TransitionState uint8

const (
	Stable TransitionState = iota
	Transitioning
	Loading
	Resetting
	AutoSolving
)

func (t TransitionState) String() string {
	switch t {
	case Stable:
		return "STABLE"
	case Transitioning:
		return "TRANSITIONING"
	case Loading:
		return "LOADING"
	case Resetting:
		return "RESETTING"
	case AutoSolving:
		return "AUTO_SOLVING"
	}
	return "UNKNOWN TRANSITION STATE"
}

// SetupState tracks putting a puzzle's starting position on the board.
type SetupState uint8

const (
	PreSetup SetupState = iota
	SetupInProgress
	SetupComplete
)

func (s SetupState) String() string {
	switch s {
	case PreSetup:
		return "PRE_SETUP"
	case SetupInProgress:
		return "SETUP_IN_PROGRESS"
	case SetupComplete:
		return "SETUP_COMPLETE"
	}
	return "UNKNOWN SETUP STATE"
}

// Trigger is an input to the transition function.
type Trigger uint8

const (
	Loaded    Trigger = iota // a puzzle's start position is on the board
	Matched                  // the user played the expected move, more to come
	Completed                // the last solution move was played
	Replied                  // the opponent's forced reply was played
	Rejected                 // wrong move, or the user asked for the solution
	Reset                    // the board went back to the start for the demonstration
	ReplayStep               // one demonstration move was played
	Handoff                  // the attempt is over, waiting for the next puzzle
)

var triggerNames = [...]string{"loaded", "matched", "completed", "replied", "rejected", "reset", "replay step", "handoff"}

func (t Trigger) String() string {
	if int(t) < len(triggerNames) {
		return triggerNames[t]
	}
	return "UNKNOWN TRIGGER"
}

// Next is the transition function. It has no side effects.
func Next(s State, t Trigger) (State, error) {
	switch {
	case t == Loaded:
		// a new load supersedes whatever was going on
		return State{Phase: AwaitingUser}, nil
	case s.Phase == AwaitingUser && t == Matched:
		return State{Phase: OpponentReplying, Index: s.Index + 1}, nil
	case (s.Phase == AwaitingUser || s.Phase == OpponentReplying) && t == Completed:
		return State{Phase: Succeeded, Index: s.Index + 1}, nil
	case s.Phase == AwaitingUser && t == Rejected:
		return State{Phase: Failed, Index: s.Index}, nil
	case s.Phase == OpponentReplying && t == Replied:
		return State{Phase: AwaitingUser, Index: s.Index + 1}, nil
	case s.Phase == Failed && t == Reset:
		return State{Phase: Replaying}, nil
	case s.Phase == Replaying && t == ReplayStep:
		return State{Phase: Replaying, Index: s.Index + 1}, nil
	case t == Handoff && s.Phase != Setup && s.Phase != AwaitingUser:
		return State{Phase: Setup}, nil
	}
	return s, errors.Wrapf(ErrBadTransition, "%v on %v", t, s)
}

// Edge is one row of the transition table.
type Edge struct {
	From    Phase
	Trigger Trigger
	To      Phase
}

// Table lists every legal transition between phases.
func Table() []Edge {
	var retVal []Edge
	for from := Setup; from <= Replaying; from++ {
		for t := Loaded; t <= Handoff; t++ {
			if to, err := Next(State{Phase: from}, t); err == nil {
				retVal = append(retVal, Edge{From: from, Trigger: t, To: to.Phase})
			}
		}
	}
	return retVal
}

package attempt

import "github.com/woodpecker/game"

// Sound is the feedback category of an event. The same category drives sound
// and haptics.
type Sound uint8

const (
	NoSound Sound = iota
	MoveSound
	CaptureSound
	CheckSound
	SuccessSound
	FailureSound
)

func (s Sound) String() string {
	switch s {
	case NoSound:
		return ""
	case MoveSound:
		return "move"
	case CaptureSound:
		return "capture"
	case CheckSound:
		return "check"
	case SuccessSound:
		return "success"
	case FailureSound:
		return "failure"
	}
	return "UNKNOWN SOUND"
}

// SoundOf picks the category of an applied move. A capture that also checks
// sounds like a capture.
func SoundOf(e game.Effect) Sound {
	switch {
	case e.Capture:
		return CaptureSound
	case e.Check:
		return CheckSound
	}
	return MoveSound
}

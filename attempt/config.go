package attempt

import "time"

// Config holds the pacing of an attempt. Every pause is a scheduled task, the
// machine never sleeps.
type Config struct {
	// OpponentDelay is the wait between a correct user move and the forced reply.
	OpponentDelay time.Duration `json:"opponent_delay"`
	// FailurePause is the wait between a wrong move and resetting the board.
	FailurePause time.Duration `json:"failure_pause"`
	// ReplayDelay paces the demonstration, including before its first move.
	ReplayDelay time.Duration `json:"replay_delay"`
	// NextPuzzleDelay is the wait after the demonstration before hand-off.
	NextPuzzleDelay time.Duration `json:"next_puzzle_delay"`
	// SuccessPause is the wait after the final correct move before hand-off.
	SuccessPause time.Duration `json:"success_pause"`
}

func DefaultConfig() Config {
	return Config{
		OpponentDelay:   500 * time.Millisecond,
		FailurePause:    500 * time.Millisecond,
		ReplayDelay:     1000 * time.Millisecond,
		NextPuzzleDelay: 2000 * time.Millisecond,
		SuccessPause:    500 * time.Millisecond,
	}
}

func (c Config) IsValid() bool {
	return c.OpponentDelay >= 0 && c.FailurePause >= 0 && c.ReplayDelay >= 0 &&
		c.NextPuzzleDelay >= 0 && c.SuccessPause >= 0
}

package attempt

import (
	"github.com/pkg/errors"
)

// ErrStaleAttempt is reported when a scheduled task outlives its puzzle.
var ErrStaleAttempt = errors.New("stale attempt")

// Epoch numbers the puzzle loads of a Machine. Every load starts a new epoch,
// which invalidates all tasks scheduled under the previous one.
type Epoch uint64

const noEpoch Epoch = 0

func (e Epoch) isValid() bool { return e != noEpoch }

func (e Epoch) next() Epoch { return e + 1 }

// token is captured when a task is scheduled and checked when it fires.
type token struct {
	epoch  Epoch
	puzzle string
}

func (t token) check(epoch Epoch, puzzle string) error {
	if !t.epoch.isValid() || t.epoch != epoch || t.puzzle != puzzle {
		return errors.Wrapf(ErrStaleAttempt, "task for %q (epoch %d), live %q (epoch %d)", t.puzzle, t.epoch, puzzle, epoch)
	}
	return nil
}

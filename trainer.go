// Package woodpecker runs puzzle training sessions: it pulls puzzles from a
// supply, drives an attempt on each, and keeps the score.
package woodpecker

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/woodpecker/attempt"
	"github.com/woodpecker/move"
	"github.com/woodpecker/orient"
	"github.com/woodpecker/puzzle"
	"github.com/woodpecker/supply"
	"github.com/woodpecker/validate"
)

// Option configures a Trainer.
type Option func(*Trainer)

func WithLogger(l *log.Logger) Option { return func(t *Trainer) { t.log = l } }

// WithListener adds a listener for the events of every attempt.
func WithListener(l attempt.Listener) Option {
	return func(t *Trainer) { t.listeners = append(t.listeners, l) }
}

func WithStats(s *Stats) Option { return func(t *Trainer) { t.stats = s } }

// Trainer is a training session.
//
// Like the Machine it drives, a Trainer is confined to its scheduler's thread:
// Start, Submit, Drop, Reveal and Flip must be called from there. Puzzles are
// fetched on another goroutine and loaded back on the scheduler.
type Trainer struct {
	Config
	id        uuid.UUID
	sched     attempt.Scheduler
	supply    supply.Supply
	machine   *attempt.Machine
	stats     *Stats
	listeners attempt.Listeners
	log       *log.Logger

	ctx      context.Context
	cancel   context.CancelFunc
	fetches  sync.WaitGroup
	fetching bool
	served   int
	flipped  bool

	done     chan struct{}
	doneOnce sync.Once
	err      error
}

// New creates a Trainer. It panics on an invalid config.
func New(conf Config, sup supply.Supply, sched attempt.Scheduler, opts ...Option) *Trainer {
	if !conf.IsValid() {
		panic("Config is not valid. Unable to proceed")
	}
	t := &Trainer{
		Config: conf,
		id:     uuid.New(),
		sched:  sched,
		supply: sup,
		log:    log.StandardLogger(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.stats == nil {
		t.stats = NewStats()
	}
	t.machine = attempt.New(conf.Attempt, sched, attempt.WithLogger(t.log), attempt.WithListener(t))
	return t
}

func (t *Trainer) ID() string                { return t.id.String() }
func (t *Trainer) Stats() *Stats             { return t.stats }
func (t *Trainer) Machine() *attempt.Machine { return t.machine }
func (t *Trainer) Puzzle() *puzzle.Puzzle    { return t.machine.Puzzle() }

// Served is the number of puzzles loaded so far.
func (t *Trainer) Served() int { return t.served }

// Done is closed when the session is over.
func (t *Trainer) Done() <-chan struct{} { return t.done }

// Err is the reason the session ended, nil when the supply ran out.
func (t *Trainer) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Start requests the first puzzle. Stats are loaded from StatsFile when it exists.
func (t *Trainer) Start(ctx context.Context) {
	t.ctx, t.cancel = context.WithCancel(ctx)
	if t.StatsFile != "" {
		if err := t.stats.LoadFile(t.StatsFile); err != nil && !os.IsNotExist(errors.Cause(err)) {
			t.logger().WithError(err).Warn("could not load stats")
		}
	}
	t.logger().Info("session started")
	t.next()
}

// Orientation is how the current puzzle is shown.
func (t *Trainer) Orientation() orient.Orientation {
	o := t.OrientationFor(t.machine.Puzzle())
	if t.flipped {
		o = orient.Flip(o)
	}
	return o
}

// Flip turns the board around for the rest of the session.
func (t *Trainer) Flip() orient.Orientation {
	t.flipped = !t.flipped
	return t.Orientation()
}

func (t *Trainer) Submit(mv move.Move) (validate.Result, error) { return t.machine.Submit(mv) }

// Drop resolves a drag gesture in the current orientation.
func (t *Trainer) Drop(origin move.Square, release orient.Point) (validate.Result, error) {
	return t.machine.Drop(origin, release, t.Orientation(), t.CellSize)
}

func (t *Trainer) Reveal() error { return t.machine.Reveal() }

// Close ends the session, saves the stats if configured and closes the supply.
// A fetch still in flight is cancelled and waited for first.
func (t *Trainer) Close() error {
	t.end(nil)
	if t.cancel != nil {
		t.cancel()
	}
	t.fetches.Wait()
	var errs error
	if t.StatsFile != "" {
		if err := t.stats.SaveFile(t.StatsFile); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	if c, ok := t.supply.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs
}

// next fetches the next puzzle off the scheduler thread and loads it back on it.
func (t *Trainer) next() {
	if t.fetching || t.over() {
		return
	}
	if t.SessionSize > 0 && t.served >= t.SessionSize {
		t.logger().Info("session size reached")
		t.end(nil)
		return
	}
	t.fetching = true
	if t.ctx == nil {
		t.ctx, t.cancel = context.WithCancel(context.Background())
	}
	ctx := t.ctx
	t.fetches.Add(1)
	go func() {
		defer t.fetches.Done()
		p, err := t.supply.Next(ctx)
		t.sched.After(0, func() {
			t.fetching = false
			t.load(p, err)
		})
	}()
}

func (t *Trainer) load(p *puzzle.Puzzle, err error) {
	if t.over() {
		return
	}
	switch {
	case errors.Is(err, supply.ErrSessionExhausted):
		t.logger().WithField("summary", t.stats.Summary().String()).Info("session finished")
		t.end(nil)
		return
	case err != nil:
		t.logger().WithError(err).Error("no puzzle")
		t.end(err)
		return
	}

	t.served++
	if err := t.machine.Load(p); err != nil {
		t.logger().WithError(err).WithField("puzzle", p.ID).Warn("skipping puzzle")
		t.OnComplete(attempt.Completion{Puzzle: p, Outcome: attempt.Broken, FailedAt: -1})
	}
}

func (t *Trainer) over() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

func (t *Trainer) end(err error) {
	t.doneOnce.Do(func() {
		t.err = err
		close(t.done)
	})
}

func (t *Trainer) OnFrame(f attempt.Frame)   { t.listeners.OnFrame(f) }
func (t *Trainer) OnStatus(s attempt.Status) { t.listeners.OnStatus(s) }
func (t *Trainer) OnCue(c attempt.Cue)       { t.listeners.OnCue(c) }

// OnComplete records the attempt and moves on to the next puzzle.
func (t *Trainer) OnComplete(c attempt.Completion) {
	t.stats.Record(c)
	t.listeners.OnComplete(c)
	t.next()
}

func (t *Trainer) logger() *log.Entry {
	return t.log.WithField("session", t.id.String()).WithField("name", t.Name)
}

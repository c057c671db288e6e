// Package attempt drives a single puzzle attempt: setup, user moves, forced
// replies, success, and the reset-and-demonstrate flow after a mistake.
package attempt

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/woodpecker/game"
	"github.com/woodpecker/move"
	"github.com/woodpecker/orient"
	"github.com/woodpecker/puzzle"
	"github.com/woodpecker/validate"
)

var (
	// ErrNotAccepting is returned for input that arrives while it is not the
	// user's turn. The input is dropped.
	ErrNotAccepting = errors.New("not accepting moves")
	// ErrNullMove is returned for a move that ends on its own square. It is
	// ignored and never counts as a mistake.
	ErrNullMove = errors.New("null move")
)

// Cursor is the progress through the loaded puzzle's solution.
type Cursor struct {
	Puzzle    *puzzle.Puzzle
	MoveIndex int
}

// UserTurn is derived from the parity of MoveIndex: the user plays the even moves.
func (c Cursor) UserTurn() bool { return c.MoveIndex%2 == 0 }

// Option configures a Machine.
type Option func(*Machine)

func WithLogger(l *log.Logger) Option { return func(m *Machine) { m.log = l } }

func WithListener(l Listener) Option { return func(m *Machine) { m.listener = l } }

// WithPositions replaces the oracle constructor.
func WithPositions(f puzzle.NewPosition) Option { return func(m *Machine) { m.newPos = f } }

// Machine is the puzzle attempt state machine. It is not safe for concurrent
// use: all calls and all scheduled tasks run on the scheduler's thread.
type Machine struct {
	Config
	sched    Scheduler
	newPos   puzzle.NewPosition
	listener Listener
	log      *log.Logger

	puzzle   *puzzle.Puzzle
	pos      game.Position
	state    State
	setup    SetupState
	epoch    Epoch
	failedAt int
	outcome  Outcome
	started  time.Time
}

// New creates a Machine. It panics on an invalid config.
func New(conf Config, sched Scheduler, opts ...Option) *Machine {
	if !conf.IsValid() {
		panic("attempt config is not valid. Unable to proceed")
	}
	m := &Machine{
		Config:   conf,
		sched:    sched,
		newPos:   puzzle.Chess,
		listener: NopListener{},
		log:      log.StandardLogger(),
		failedAt: -1,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Machine) State() State                { return m.state }
func (m *Machine) Transition() TransitionState { return m.state.Transition() }
func (m *Machine) Setup() SetupState           { return m.setup }
func (m *Machine) Epoch() Epoch                { return m.epoch }
func (m *Machine) Puzzle() *puzzle.Puzzle      { return m.puzzle }

// Accepting reports whether user moves are taken right now.
func (m *Machine) Accepting() bool { return m.puzzle != nil && m.state.Phase == AwaitingUser }

func (m *Machine) Cursor() Cursor {
	c := Cursor{Puzzle: m.puzzle}
	switch m.state.Phase {
	case AwaitingUser, OpponentReplying, Succeeded:
		c.MoveIndex = m.state.Index
	case Failed, Replaying:
		c.MoveIndex = m.failedAt
	}
	return c
}

// Position returns a copy of the live position, nil before the first load.
func (m *Machine) Position() game.Position {
	if m.pos == nil {
		return nil
	}
	return m.pos.Clone()
}

// Load puts p on the board and starts a new attempt. Any task scheduled for
// an earlier attempt becomes stale.
func (m *Machine) Load(p *puzzle.Puzzle) error {
	if p == nil || len(p.Solution) == 0 {
		return errors.New("puzzle without a solution")
	}
	prev := m.setup
	m.setup = SetupInProgress
	m.status()

	pos, err := m.newPos(p.FEN)
	if err != nil {
		// The previous attempt, if any, is still live.
		m.setup = prev
		m.status()
		return errors.WithMessagef(err, "loading puzzle %s", p.ID)
	}

	m.epoch = m.epoch.next()
	m.puzzle = p
	m.pos = pos
	m.failedAt = -1
	m.outcome = 0
	m.started = m.sched.Now()
	m.transit(Loaded)
	m.setup = SetupComplete
	m.logger().WithField("moves", len(p.Solution)).Debug("puzzle loaded")

	m.frame(nil, Nobody, game.Effect{}, NoSound)
	m.status()
	return nil
}

// Submit plays a user move.
//
// Input is only taken in AwaitingUser; anything else returns ErrNotAccepting
// and changes nothing. A wrong move is not an error: the Result says so and
// the machine starts the demonstration.
func (m *Machine) Submit(mv move.Move) (validate.Result, error) {
	if !m.Accepting() {
		return validate.Result{}, errors.Wrapf(ErrNotAccepting, "in %v", m.state)
	}
	if mv.IsNull() {
		return validate.Result{}, ErrNullMove
	}

	res, err := validate.Validate(m.pos, mv, m.puzzle.Solution, m.state.Index)
	if err != nil {
		m.logger().WithError(err).WithField("move", mv.String()).Error("validation failed")
		res = validate.Result{Reason: err}
	}
	if !res.Valid {
		m.logger().WithField("move", mv.String()).WithField("reason", res.Reason).Info("wrong move")
		m.puzzle.Attempts++
		m.fail(Missed)
		return res, nil
	}

	if !m.commit(mv, User) {
		return validate.Result{Reason: game.ErrIllegalMove}, nil
	}
	if res.Complete {
		m.succeed()
		return res, nil
	}
	m.transit(Matched)
	m.status()
	m.schedule(m.OpponentDelay, "opponent reply", m.reply)
	return res, nil
}

// Drop is the gesture entry point: a piece picked up on origin was released
// at release. Drops back onto the origin square are ignored. A pawn dropped
// on the last rank promotes to a queen.
func (m *Machine) Drop(origin move.Square, release orient.Point, o orient.Orientation, cellSize float32) (validate.Result, error) {
	if !m.Accepting() {
		return validate.Result{}, errors.Wrapf(ErrNotAccepting, "in %v", m.state)
	}
	to, ok, err := orient.Resolve(origin, release, o, cellSize)
	if err != nil {
		return validate.Result{}, err
	}
	if !ok {
		return validate.Result{}, ErrNullMove
	}
	mv := move.Move{From: origin, To: to}
	if game.NeedsPromotion(m.pos, origin, to) {
		mv.Promotion = move.Queen
	}
	return m.Submit(mv)
}

// Reveal gives up on the puzzle and demonstrates the solution.
func (m *Machine) Reveal() error {
	if !m.Accepting() {
		return errors.Wrapf(ErrNotAccepting, "in %v", m.state)
	}
	m.logger().Info("solution requested")
	m.fail(Revealed)
	return nil
}

// reply plays the opponent's forced move.
func (m *Machine) reply() {
	idx := m.state.Index
	mv, res, err := validate.Forced(m.pos, m.puzzle.Solution, idx)
	if err == nil && !res.Valid {
		err = res.Reason
	}
	if err != nil {
		m.logger().WithError(err).WithField("index", idx).Error("opponent reply is not playable")
		m.finish(Broken)
		return
	}
	if !m.commit(mv, Opponent) {
		m.finish(Broken)
		return
	}
	if res.Complete {
		m.succeed()
		return
	}
	m.transit(Replied)
	m.status()
}

func (m *Machine) succeed() {
	m.outcome = Solved
	m.transit(Completed)
	m.cue(SuccessSound)
	m.status()
	m.schedule(m.SuccessPause, "hand-off", m.handoff)
}

func (m *Machine) fail(outcome Outcome) {
	m.outcome = outcome
	m.failedAt = m.state.Index
	m.transit(Rejected)
	if outcome == Missed {
		m.cue(FailureSound)
	}
	m.status()
	m.schedule(m.FailurePause, "reset", m.reset)
}

// reset puts the start position back for the demonstration.
func (m *Machine) reset() {
	pos, err := m.newPos(m.puzzle.FEN)
	if err != nil {
		m.logger().WithError(err).Error("cannot reset puzzle")
		m.finish(Broken)
		return
	}
	m.pos = pos
	m.transit(Reset)
	m.frame(nil, Nobody, game.Effect{}, NoSound)
	m.status()
	m.schedule(m.ReplayDelay, "demonstration", m.demonstrate)
}

// demonstrate plays the next solution move on the private replay cursor.
func (m *Machine) demonstrate() {
	idx := m.state.Index
	mv, res, err := validate.Forced(m.pos, m.puzzle.Solution, idx)
	if err == nil && !res.Valid {
		err = res.Reason
	}
	if err != nil {
		m.logger().WithError(err).WithField("index", idx).Error("solution is not playable")
		m.finish(Broken)
		return
	}
	if !m.commit(mv, Demo) {
		m.finish(Broken)
		return
	}
	m.transit(ReplayStep)
	m.status()
	if res.Complete {
		m.schedule(m.NextPuzzleDelay, "hand-off", m.handoff)
		return
	}
	m.schedule(m.ReplayDelay, "demonstration", m.demonstrate)
}

func (m *Machine) handoff() { m.finish(m.outcome) }

func (m *Machine) finish(outcome Outcome) {
	m.outcome = outcome
	m.transit(Handoff)
	m.setup = PreSetup
	m.status()
	failedAt := -1
	if outcome == Missed {
		failedAt = m.failedAt
	}
	m.logger().WithField("outcome", outcome.String()).Info("attempt finished")
	m.listener.OnComplete(Completion{
		Puzzle:   m.puzzle,
		Outcome:  outcome,
		Duration: m.sched.Now().Sub(m.started),
		FailedAt: failedAt,
	})
}

// commit applies an already validated move to the live position.
func (m *Machine) commit(mv move.Move, by Actor) bool {
	eff, err := m.pos.Apply(mv)
	if err != nil {
		m.logger().WithError(err).WithField("move", mv.String()).Error("validated move rejected by the board")
		return false
	}
	m.frame(&mv, by, eff, SoundOf(eff))
	return true
}

// schedule runs f after d unless a newer puzzle has been loaded by then.
func (m *Machine) schedule(d time.Duration, what string, f func()) {
	tok := token{epoch: m.epoch, puzzle: m.puzzle.ID}
	m.sched.After(d, func() {
		var live string
		if m.puzzle != nil {
			live = m.puzzle.ID
		}
		if err := tok.check(m.epoch, live); err != nil {
			m.log.WithError(err).WithField("task", what).Debug("dropped")
			return
		}
		f()
	})
}

func (m *Machine) transit(t Trigger) {
	next, err := Next(m.state, t)
	if err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
	m.state = next
}

func (m *Machine) frame(mv *move.Move, by Actor, eff game.Effect, s Sound) {
	m.listener.OnFrame(Frame{
		Puzzle:  m.puzzle.ID,
		Epoch:   m.epoch,
		Board:   m.pos.Board(),
		FEN:     m.pos.String(),
		Move:    mv,
		By:      by,
		Effect:  eff,
		Sound:   s,
		InCheck: m.pos.InCheck(),
	})
}

func (m *Machine) status() {
	s := Status{Epoch: m.epoch, State: m.state, Transition: m.state.Transition(), Setup: m.setup}
	if m.puzzle != nil {
		s.Puzzle = m.puzzle.ID
	}
	m.listener.OnStatus(s)
}

func (m *Machine) cue(s Sound) {
	m.listener.OnCue(Cue{Puzzle: m.puzzle.ID, Sound: s})
}

func (m *Machine) logger() *log.Entry {
	e := m.log.WithField("epoch", m.epoch)
	if m.puzzle != nil {
		e = e.WithField("puzzle", m.puzzle.ID)
	}
	return e.WithField("state", m.state.String())
}

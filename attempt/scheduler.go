package attempt

import (
	"context"
	"sync"
	"time"
)

// Scheduler runs deferred continuations. Continuations must run on the same
// logical thread as every other call into a Machine.
type Scheduler interface {
	After(d time.Duration, f func())
	Now() time.Time
}

// Loop is a Scheduler backed by real timers. Timers post their continuation
// to a channel and Run executes them one at a time.
type Loop struct {
	tasks chan func()
	done  chan struct{}
	once  sync.Once
}

func NewLoop(buffer int) *Loop {
	return &Loop{
		tasks: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

func (l *Loop) After(d time.Duration, f func()) {
	time.AfterFunc(d, func() { l.Post(f) })
}

func (l *Loop) Now() time.Time { return time.Now() }

// Post queues f. It returns false if the loop has stopped.
func (l *Loop) Post(f func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.tasks <- f:
		return true
	case <-l.done:
		return false
	}
}

// Do runs f on the loop and waits for it. It must not be called from the loop itself.
func (l *Loop) Do(ctx context.Context, f func()) error {
	finished := make(chan struct{})
	if !l.Post(func() { f(); close(finished) }) {
		return context.Canceled
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return context.Canceled
	}
}

// Run executes posted tasks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f := <-l.tasks:
			f()
		}
	}
}

// ManualClock is a Scheduler with virtual time. Nothing runs until Advance is
// called; callbacks run on the caller's goroutine.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []timer
}

type timer struct {
	at  time.Time
	seq uint64
	f   func()
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) After(d time.Duration, f func()) {
	c.mu.Lock()
	c.seq++
	c.timers = append(c.timers, timer{at: c.now.Add(d), seq: c.seq, f: f})
	c.mu.Unlock()
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Pending returns the number of timers that have not fired.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// Advance moves the clock forward by d, firing due timers in order, including
// timers scheduled by the callbacks themselves. It returns how many fired.
func (c *ManualClock) Advance(d time.Duration) (fired int) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()
	for {
		t, ok := c.pop(target)
		if !ok {
			return fired
		}
		t.f()
		fired++
	}
}

// Drain fires timers until none are left or limit callbacks ran.
func (c *ManualClock) Drain(limit int) (fired int) {
	for fired < limit {
		c.mu.Lock()
		i := c.earliest()
		if i < 0 {
			c.mu.Unlock()
			return fired
		}
		at := c.timers[i].at
		c.mu.Unlock()
		t, ok := c.pop(at)
		if !ok {
			return fired
		}
		t.f()
		fired++
	}
	return fired
}

// pop removes the earliest timer due at or before target. When there is none
// the clock moves to target.
func (c *ManualClock) pop(target time.Time) (timer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.earliest()
	if i < 0 || c.timers[i].at.After(target) {
		if target.After(c.now) {
			c.now = target
		}
		return timer{}, false
	}
	t := c.timers[i]
	c.timers = append(c.timers[:i], c.timers[i+1:]...)
	if t.at.After(c.now) {
		c.now = t.at
	}
	return t, true
}

func (c *ManualClock) earliest() int {
	best := -1
	for i, t := range c.timers {
		if best < 0 || t.at.Before(c.timers[best].at) || (t.at.Equal(c.timers[best].at) && t.seq < c.timers[best].seq) {
			best = i
		}
	}
	return best
}

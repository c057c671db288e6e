// Package supply hands out puzzles: by id through a read-through cache, or
// one after the other from a shuffled session queue.
package supply

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"

	"github.com/woodpecker/puzzle"
)

// MaxSessionPuzzles caps the session queue unless WithLimit says otherwise.
const MaxSessionPuzzles = 200

var (
	ErrNotFound         = errors.New("puzzle not found")
	ErrSessionExhausted = errors.New("no more puzzles in session")
)

// Supply is what the trainer consumes.
type Supply interface {
	Puzzle(ctx context.Context, id string) (*puzzle.Puzzle, error)
	Next(ctx context.Context) (*puzzle.Puzzle, error)
}

// Fetcher loads a puzzle from its source of truth.
type Fetcher interface {
	Fetch(ctx context.Context, id string) (*puzzle.Puzzle, error)
}

// Option configures a Store.
type Option func(*Store)

func WithLogger(l *log.Logger) Option { return func(s *Store) { s.log = l } }

// WithSeed fixes the shuffle of the session queue.
func WithSeed(seed uint64) Option { return func(s *Store) { s.rand = rand.New(rand.NewSource(seed)) } }

// WithLimit caps the session queue. Zero or less means no cap.
func WithLimit(n int) Option { return func(s *Store) { s.limit = n } }

// WithVerifier makes the Store check every fetched puzzle against the oracle
// and refuse the ones that break their invariants.
func WithVerifier(f puzzle.NewPosition) Option { return func(s *Store) { s.verify = f } }

// Store is a read-through cache in front of a Fetcher, plus the session queue.
type Store struct {
	cache  Cache
	fetch  Fetcher
	log    *log.Logger
	rand   *rand.Rand
	limit  int
	verify puzzle.NewPosition

	mu     sync.Mutex
	queue  []string
	themes map[string]string
	total  int

	pending sync.WaitGroup
}

func NewStore(cache Cache, fetch Fetcher, opts ...Option) *Store {
	s := &Store{
		cache:  cache,
		fetch:  fetch,
		log:    log.StandardLogger(),
		rand:   rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
		limit:  MaxSessionPuzzles,
		themes: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Begin starts a session over the given entries: they are shuffled and capped
// at the limit. It returns the session length.
func (s *Store) Begin(entries []Entry) int {
	ids := make([]string, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		if _, ok := seen[e.ID]; ok || e.ID == "" {
			continue
		}
		seen[e.ID] = struct{}{}
		ids = append(ids, e.ID)
		if e.Theme != "" {
			s.themes[e.ID] = e.Theme
		}
	}
	for i := len(ids) - 1; i > 0; i-- {
		j := s.rand.Intn(i + 1)
		ids[i], ids[j] = ids[j], ids[i]
	}
	if s.limit > 0 && len(ids) > s.limit {
		ids = ids[:s.limit]
	}
	s.queue = ids
	s.total = len(ids)
	s.log.WithField("puzzles", len(ids)).Info("session started")
	return len(ids)
}

// Remaining is the number of ids not yet handed out.
func (s *Store) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Len is the session length given to Begin after shuffling and capping.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// Next returns the next puzzle of the session. Puzzles that cannot be loaded
// are skipped. ErrSessionExhausted ends the session.
func (s *Store) Next(ctx context.Context) (*puzzle.Puzzle, error) {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return nil, ErrSessionExhausted
		}
		id := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		p, err := s.Puzzle(ctx, id)
		if err == nil {
			return p, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.log.WithField("puzzle", id).WithError(err).Warn("skipping puzzle")
	}
}

// Puzzle returns the puzzle with the given id, from the cache when possible.
// A fetched puzzle is written to the cache in the background; a failed write
// is logged and otherwise ignored.
func (s *Store) Puzzle(ctx context.Context, id string) (*puzzle.Puzzle, error) {
	p, err := s.cache.Get(ctx, id)
	switch {
	case err == nil:
		s.log.WithField("puzzle", id).Debug("cache hit")
		return s.decorate(p), nil
	case !errors.Is(err, ErrNotFound):
		s.log.WithField("puzzle", id).WithError(err).Warn("cache read failed")
	}

	if p, err = s.fetch.Fetch(ctx, id); err != nil {
		return nil, errors.WithMessagef(err, "fetching %s", id)
	}
	if s.verify != nil {
		if err := puzzle.Verify(p, s.verify); err != nil {
			return nil, errors.WithMessagef(err, "puzzle %s", id)
		}
	}

	rec := *p
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.cache.Put(context.Background(), &rec); err != nil {
			s.log.WithField("puzzle", rec.ID).WithError(err).Warn("cache write failed")
		}
	}()
	return s.decorate(p), nil
}

func (s *Store) decorate(p *puzzle.Puzzle) *puzzle.Puzzle {
	if p.Theme != "" {
		return p
	}
	s.mu.Lock()
	p.Theme = s.themes[p.ID]
	s.mu.Unlock()
	return p
}

// Wait blocks until background cache writes are done.
func (s *Store) Wait() { s.pending.Wait() }

// Close waits for background writes and closes the cache and the fetcher if
// they hold resources.
func (s *Store) Close() error {
	s.Wait()
	var errs error
	if err := s.cache.Close(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if c, ok := s.fetch.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs
}

package supply

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woodpecker/puzzle"
)

func quietLogger() *log.Logger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}

type fakeFetcher struct {
	mu      sync.Mutex
	m       map[string]puzzle.Puzzle
	calls   map[string]int
	closeFn func() error
}

func newFakeFetcher(ps ...puzzle.Puzzle) *fakeFetcher {
	f := &fakeFetcher{m: make(map[string]puzzle.Puzzle), calls: make(map[string]int)}
	for _, p := range ps {
		f.m[p.ID] = p
	}
	return f
}

func (f *fakeFetcher) Fetch(ctx context.Context, id string) (*puzzle.Puzzle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[id]++
	p, ok := f.m[id]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "%s", id)
	}
	return &p, nil
}

func (f *fakeFetcher) Close() error {
	if f.closeFn != nil {
		return f.closeFn()
	}
	return nil
}

func (f *fakeFetcher) count(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}

type brokenCache struct{ *MemCache }

func (c *brokenCache) Put(ctx context.Context, p *puzzle.Puzzle) error {
	return errors.New("disk full")
}

func (c *brokenCache) Close() error { return errors.New("close failed") }

func fixture(id string) puzzle.Puzzle {
	return puzzle.Puzzle{
		ID:          id,
		FEN:         "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1",
		WhiteToMove: true,
		Solution:    []string{"a1a8"},
	}
}

func TestStoreReadThrough(t *testing.T) {
	ctx := context.Background()
	cache := NewMemCache()
	f := newFakeFetcher(fixture("abc"))
	s := NewStore(cache, f, WithLogger(quietLogger()))

	p, err := s.Puzzle(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", p.ID)
	s.Wait()

	cached, err := cache.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, p.Solution, cached.Solution)

	_, err = s.Puzzle(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, 1, f.count("abc"), "second read must be served by the cache")

	_, err = s.Puzzle(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestStoreCacheWriteFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	f := newFakeFetcher(fixture("abc"))
	s := NewStore(&brokenCache{NewMemCache()}, f, WithLogger(quietLogger()))

	p, err := s.Puzzle(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", p.ID)
	s.Wait()

	err = s.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "close failed")
}

func TestStoreVerifier(t *testing.T) {
	bad := fixture("bad")
	bad.Solution = []string{"a1a9"}
	s := NewStore(NewMemCache(), newFakeFetcher(bad, fixture("good")), WithLogger(quietLogger()), WithVerifier(puzzle.Chess))

	_, err := s.Puzzle(context.Background(), "bad")
	assert.Error(t, err)
	_, err = s.Puzzle(context.Background(), "good")
	assert.NoError(t, err)
}

func TestSessionQueue(t *testing.T) {
	ctx := context.Background()
	f := newFakeFetcher(fixture("a"), fixture("c"))
	s := NewStore(NewMemCache(), f, WithLogger(quietLogger()), WithSeed(7))

	n := s.Begin([]Entry{{ID: "a", Theme: "Mate in 1"}, {ID: "b"}, {ID: "c"}, {ID: "a"}, {ID: ""}})
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, s.Len())

	var got []string
	for {
		p, err := s.Next(ctx)
		if errors.Is(err, ErrSessionExhausted) {
			break
		}
		require.NoError(t, err)
		got = append(got, p.ID)
		if p.ID == "a" {
			assert.Equal(t, "Mate in 1", p.Category())
		}
	}
	assert.ElementsMatch(t, []string{"a", "c"}, got, "b cannot be fetched and is skipped")
	assert.Equal(t, 0, s.Remaining())
	s.Wait()
}

func TestSessionShuffle(t *testing.T) {
	var entries []Entry
	for i := 0; i < 50; i++ {
		entries = append(entries, Entry{ID: string(rune('A' + i))})
	}
	order := func(seed uint64, limit int) []string {
		s := NewStore(NewMemCache(), newFakeFetcher(), WithLogger(quietLogger()), WithSeed(seed), WithLimit(limit))
		s.Begin(entries)
		s.mu.Lock()
		defer s.mu.Unlock()
		return append([]string(nil), s.queue...)
	}

	a, b := order(1, 0), order(1, 0)
	assert.Equal(t, a, b, "same seed, same order")
	assert.ElementsMatch(t, IDs(entries), a)
	assert.NotEqual(t, IDs(entries), a)

	assert.Len(t, order(1, 10), 10)
	assert.Len(t, order(1, MaxSessionPuzzles), 50)
}

func TestSessionCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewStore(NewMemCache(), ctxFetcher{}, WithLogger(quietLogger()))
	s.Begin([]Entry{{ID: "a"}, {ID: "b"}})
	_, err := s.Next(ctx)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	assert.Equal(t, 1, s.Remaining())
}

type ctxFetcher struct{}

func (ctxFetcher) Fetch(ctx context.Context, id string) (*puzzle.Puzzle, error) {
	return nil, ctx.Err()
}

func TestStoreCloseClosesFetcher(t *testing.T) {
	f := newFakeFetcher()
	f.closeFn = func() error { return errors.New("fetcher close") }
	s := NewStore(NewMemCache(), f, WithLogger(quietLogger()))
	err := s.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetcher close")
}

package supply

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/woodpecker/puzzle"
)

// Cache stores puzzle records by id. Get returns ErrNotFound on a miss.
type Cache interface {
	Get(ctx context.Context, id string) (*puzzle.Puzzle, error)
	Put(ctx context.Context, p *puzzle.Puzzle) error
	IDs(ctx context.Context) ([]string, error)
	Clear(ctx context.Context) error
	Close() error
}

// MemCache keeps records in memory.
type MemCache struct {
	mu sync.RWMutex
	m  map[string]puzzle.Puzzle
}

func NewMemCache() *MemCache { return &MemCache{m: make(map[string]puzzle.Puzzle)} }

func (c *MemCache) Get(ctx context.Context, id string) (*puzzle.Puzzle, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.m[id]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "%s", id)
	}
	return &p, nil
}

func (c *MemCache) Put(ctx context.Context, p *puzzle.Puzzle) error {
	if p.ID == "" {
		return errors.New("cannot cache a puzzle without id")
	}
	rec := *p
	rec.Attempts = 0
	c.mu.Lock()
	c.m[p.ID] = rec
	c.mu.Unlock()
	return nil
}

func (c *MemCache) IDs(ctx context.Context) ([]string, error) {
	c.mu.RLock()
	retVal := make([]string, 0, len(c.m))
	for id := range c.m {
		retVal = append(retVal, id)
	}
	c.mu.RUnlock()
	sort.Strings(retVal)
	return retVal, nil
}

func (c *MemCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.m = make(map[string]puzzle.Puzzle)
	c.mu.Unlock()
	return nil
}

func (c *MemCache) Close() error { return nil }

package supply

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/woodpecker/puzzle"
)

// Library serves puzzles from a local JSON array of records.
type Library struct {
	order []string
	m     map[string]puzzle.Puzzle
}

// LoadLibrary reads a library file.
func LoadLibrary(path string) (*Library, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()
	return ReadLibrary(f)
}

// ReadLibrary decodes a JSON array of puzzle records. The side to move is
// taken from each FEN.
func ReadLibrary(r io.Reader) (*Library, error) {
	var recs []puzzle.Puzzle
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, errors.Wrap(err, "decoding library")
	}
	l := &Library{m: make(map[string]puzzle.Puzzle, len(recs))}
	for i, p := range recs {
		if p.ID == "" {
			return nil, errors.Errorf("library record %d has no id", i)
		}
		if _, ok := l.m[p.ID]; ok {
			return nil, errors.Errorf("duplicate puzzle %s in library", p.ID)
		}
		white, err := puzzle.SideToMove(p.FEN)
		if err != nil {
			return nil, errors.WithMessagef(err, "puzzle %s", p.ID)
		}
		p.WhiteToMove = white
		l.m[p.ID] = p
		l.order = append(l.order, p.ID)
	}
	return l, nil
}

func (l *Library) Fetch(ctx context.Context, id string) (*puzzle.Puzzle, error) {
	p, ok := l.m[id]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "%s", id)
	}
	p.Solution = append([]string(nil), p.Solution...)
	return &p, nil
}

// Entries lists the library in file order.
func (l *Library) Entries() []Entry {
	retVal := make([]Entry, 0, len(l.order))
	for _, id := range l.order {
		retVal = append(retVal, Entry{ID: id, Theme: l.m[id].Theme})
	}
	return retVal
}

func (l *Library) Len() int { return len(l.order) }

package woodpecker

import (
	"encoding/gob"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/woodpecker/attempt"
)

// Stats accumulates the results of a session. It is safe for concurrent use.
type Stats struct {
	mu  sync.Mutex
	rec record
}

// record is the persisted part of Stats.
type record struct {
	Solved   int
	Missed   int
	Revealed int
	Broken   int

	Themes     map[string]ThemeStats
	SolveTimes []time.Duration
}

// ThemeStats is the tally of one theme.
type ThemeStats struct {
	Attempted int
	Solved    int
}

func NewStats() *Stats {
	return &Stats{rec: record{Themes: make(map[string]ThemeStats)}}
}

// Record adds a finished attempt. Broken puzzles are counted apart and do not
// count as attempted.
func (s *Stats) Record(c attempt.Completion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec.Themes == nil {
		s.rec.Themes = make(map[string]ThemeStats)
	}
	if c.Outcome == attempt.Broken {
		s.rec.Broken++
		return
	}
	var theme string
	if c.Puzzle != nil {
		theme = c.Puzzle.Category()
	}
	ts := s.rec.Themes[theme]
	ts.Attempted++
	switch c.Outcome {
	case attempt.Solved:
		s.rec.Solved++
		ts.Solved++
		s.rec.SolveTimes = append(s.rec.SolveTimes, c.Duration)
	case attempt.Missed:
		s.rec.Missed++
	case attempt.Revealed:
		s.rec.Revealed++
	}
	s.rec.Themes[theme] = ts
}

// Summary is a snapshot of Stats.
type Summary struct {
	Attempted   int
	Solved      int
	Missed      int
	Revealed    int
	Broken      int
	SuccessRate float64
	MeanSolve   time.Duration
	StdDevSolve time.Duration
}

func (s Summary) String() string {
	return fmt.Sprintf("%d/%d solved (%.0f%%), %d missed, %d revealed, mean %v ± %v",
		s.Solved, s.Attempted, s.SuccessRate*100, s.Missed, s.Revealed,
		s.MeanSolve.Round(time.Millisecond), s.StdDevSolve.Round(time.Millisecond))
}

func (s *Stats) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	retVal := Summary{
		Solved:   s.rec.Solved,
		Missed:   s.rec.Missed,
		Revealed: s.rec.Revealed,
		Broken:   s.rec.Broken,
	}
	retVal.Attempted = retVal.Solved + retVal.Missed + retVal.Revealed
	if retVal.Attempted > 0 {
		retVal.SuccessRate = float64(retVal.Solved) / float64(retVal.Attempted)
	}
	if len(s.rec.SolveTimes) == 0 {
		return retVal
	}
	xs := make([]float64, len(s.rec.SolveTimes))
	for i, d := range s.rec.SolveTimes {
		xs[i] = d.Seconds()
	}
	mean, std := stat.MeanStdDev(xs, nil)
	retVal.MeanSolve = seconds(mean)
	retVal.StdDevSolve = seconds(std)
	return retVal
}

func seconds(f float64) time.Duration {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return time.Duration(f * float64(time.Second))
}

// ThemeCount is the tally of one theme, by name.
type ThemeCount struct {
	Theme string
	ThemeStats
}

// Themes returns the per-theme tallies, most attempted first.
func (s *Stats) Themes() []ThemeCount {
	s.mu.Lock()
	retVal := make([]ThemeCount, 0, len(s.rec.Themes))
	for k, v := range s.rec.Themes {
		retVal = append(retVal, ThemeCount{Theme: k, ThemeStats: v})
	}
	s.mu.Unlock()
	sort.Slice(retVal, func(i, j int) bool {
		if retVal[i].Attempted != retVal[j].Attempted {
			return retVal[i].Attempted > retVal[j].Attempted
		}
		return retVal[i].Theme < retVal[j].Theme
	})
	return retVal
}

func (s *Stats) Reset() {
	s.mu.Lock()
	s.rec = record{Themes: make(map[string]ThemeStats)}
	s.mu.Unlock()
}

// Save writes the stats in gob encoding.
func (s *Stats) Save(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return errors.WithStack(gob.NewEncoder(w).Encode(&s.rec))
}

// Load replaces the stats with the ones read from r.
func (s *Stats) Load(r io.Reader) error {
	var rec record
	if err := gob.NewDecoder(r).Decode(&rec); err != nil {
		return errors.WithMessage(err, "decoding stats")
	}
	if rec.Themes == nil {
		rec.Themes = make(map[string]ThemeStats)
	}
	s.mu.Lock()
	s.rec = rec
	s.mu.Unlock()
	return nil
}

// SaveFile saves the stats into filename.
func (s *Stats) SaveFile(filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := s.Save(f); err != nil {
		f.Close()
		return err
	}
	return errors.WithStack(f.Close())
}

// LoadFile loads the stats from filename.
func (s *Stats) LoadFile(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()
	return s.Load(f)
}

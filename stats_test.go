package woodpecker

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woodpecker/attempt"
	"github.com/woodpecker/puzzle"
)

func completion(theme string, o attempt.Outcome, d time.Duration) attempt.Completion {
	return attempt.Completion{Puzzle: &puzzle.Puzzle{ID: theme, Theme: theme}, Outcome: o, Duration: d, FailedAt: -1}
}

func TestStatsSummary(t *testing.T) {
	s := NewStats()
	assert.Equal(t, Summary{}, s.Summary())

	s.Record(completion("Forks", attempt.Solved, time.Second))
	s.Record(completion("Forks", attempt.Solved, 3*time.Second))
	s.Record(completion("Pins", attempt.Missed, 10*time.Second))
	s.Record(completion("Pins", attempt.Revealed, 0))
	s.Record(completion("", attempt.Broken, 0))

	sum := s.Summary()
	assert.Equal(t, 4, sum.Attempted)
	assert.Equal(t, 2, sum.Solved)
	assert.Equal(t, 1, sum.Missed)
	assert.Equal(t, 1, sum.Revealed)
	assert.Equal(t, 1, sum.Broken)
	assert.Equal(t, 0.5, sum.SuccessRate)
	assert.Equal(t, 2*time.Second, sum.MeanSolve)
	assert.InDelta(t, 1.41421356, sum.StdDevSolve.Seconds(), 1e-6)
	assert.Contains(t, sum.String(), "2/4 solved (50%)")

	assert.Equal(t, []ThemeCount{
		{Theme: "Forks", ThemeStats: ThemeStats{Attempted: 2, Solved: 2}},
		{Theme: "Pins", ThemeStats: ThemeStats{Attempted: 2}},
	}, s.Themes())

	s.Reset()
	assert.Equal(t, Summary{}, s.Summary())
	assert.Empty(t, s.Themes())
}

func TestStatsSingleSolve(t *testing.T) {
	s := NewStats()
	s.Record(completion("", attempt.Solved, 1500*time.Millisecond))
	sum := s.Summary()
	assert.Equal(t, 1500*time.Millisecond, sum.MeanSolve)
	assert.Equal(t, time.Duration(0), sum.StdDevSolve)
	assert.Equal(t, puzzle.Uncategorized, s.Themes()[0].Theme)
}

func TestStatsSaveLoad(t *testing.T) {
	s := NewStats()
	s.Record(completion("Forks", attempt.Solved, time.Second))
	s.Record(completion("Pins", attempt.Missed, time.Second))

	var buf bytes.Buffer
	require.NoError(t, s.Save(&buf))
	loaded := NewStats()
	require.NoError(t, loaded.Load(&buf))
	assert.Equal(t, s.Summary(), loaded.Summary())
	assert.Equal(t, s.Themes(), loaded.Themes())

	assert.Error(t, loaded.Load(bytes.NewReader([]byte("garbage"))))

	filename := filepath.Join(t.TempDir(), "stats.gob")
	require.NoError(t, s.SaveFile(filename))
	fromFile := NewStats()
	require.NoError(t, fromFile.LoadFile(filename))
	assert.Equal(t, s.Summary(), fromFile.Summary())
}

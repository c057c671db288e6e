package woodpecker

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woodpecker/orient"
	"github.com/woodpecker/puzzle"
)

func TestConfigIsValid(t *testing.T) {
	assert.True(t, DefaultConfig().IsValid())

	for name, mutate := range map[string]func(*Config){
		"orientation":  func(c *Config) { c.Orientation = "up" },
		"cell size":    func(c *Config) { c.CellSize = 0 },
		"session size": func(c *Config) { c.SessionSize = -1 },
		"log level":    func(c *Config) { c.LogLevel = "loud" },
		"delay":        func(c *Config) { c.Attempt.ReplayDelay = -time.Second },
	} {
		c := DefaultConfig()
		mutate(&c)
		assert.False(t, c.IsValid(), name)
	}
}

func TestOrientationFor(t *testing.T) {
	white := &puzzle.Puzzle{WhiteToMove: true}
	black := &puzzle.Puzzle{}

	c := DefaultConfig()
	assert.Equal(t, orient.WhiteBottom, c.OrientationFor(white))
	assert.Equal(t, orient.BlackBottom, c.OrientationFor(black))
	assert.Equal(t, orient.WhiteBottom, c.OrientationFor(nil))

	c.Orientation = White
	assert.Equal(t, orient.WhiteBottom, c.OrientationFor(black))
	c.Orientation = Black
	assert.Equal(t, orient.BlackBottom, c.OrientationFor(white))
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(filename, []byte(`{"orientation": "black", "session_size": 20, "attempt": {"replay_delay": 250000000}}`), 0644))

	c, err := LoadConfig(filename)
	require.NoError(t, err)
	assert.Equal(t, Black, c.Orientation)
	assert.Equal(t, 20, c.SessionSize)
	assert.Equal(t, 250*time.Millisecond, c.Attempt.ReplayDelay)
	assert.Equal(t, DefaultConfig().Attempt.OpponentDelay, c.Attempt.OpponentDelay)
	assert.Equal(t, float32(64), c.CellSize)

	require.NoError(t, os.WriteFile(filename, []byte(`{"cell_size": -1}`), 0644))
	_, err = LoadConfig(filename)
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLogger(&buf, "info", log.Fields{"app": "woodpecker"})
	require.NoError(t, err)
	l.Debug("hidden")
	l.WithField("puzzle", "abc").Info("loaded")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "woodpecker", entry["app"])
	assert.Equal(t, "abc", entry["puzzle"])
	assert.Equal(t, "loaded", entry["msg"])
	assert.Equal(t, "info", entry["level"])

	_, err = NewLogger(&buf, "loud", nil)
	assert.Error(t, err)
}

package woodpecker

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/woodpecker/attempt"
	"github.com/woodpecker/orient"
	"github.com/woodpecker/puzzle"
)

// Orientation settings. Auto puts the side to move at the bottom.
const (
	Auto  = "auto"
	White = "white"
	Black = "black"
)

// Config for a training session.
// It holds the pacing of every attempt as well as how the board is shown to the user.
type Config struct {
	Name        string         `json:"name"`
	Attempt     attempt.Config `json:"attempt"`
	Orientation string         `json:"orientation"`
	CellSize    float32        `json:"cell_size"`
	// maximum number of puzzles in a session, 0 for the whole supply
	SessionSize int    `json:"session_size"`
	LogLevel    string `json:"log_level"`
	// where session statistics are kept between runs, empty to not keep them
	StatsFile string `json:"stats_file,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Name:        "woodpecker",
		Attempt:     attempt.DefaultConfig(),
		Orientation: Auto,
		CellSize:    64,
		LogLevel:    "info",
	}
}

func (c Config) IsValid() bool {
	if !c.Attempt.IsValid() || !(c.CellSize > 0) || c.SessionSize < 0 {
		return false
	}
	switch c.Orientation {
	case Auto, White, Black:
	default:
		return false
	}
	_, err := log.ParseLevel(c.LogLevel)
	return err == nil
}

// OrientationFor returns the orientation p is shown in.
func (c Config) OrientationFor(p *puzzle.Puzzle) orient.Orientation {
	switch c.Orientation {
	case White:
		return orient.WhiteBottom
	case Black:
		return orient.BlackBottom
	}
	if p != nil && !p.WhiteToMove {
		return orient.BlackBottom
	}
	return orient.WhiteBottom
}

// LoadConfig reads a JSON config. Fields missing from the file keep their defaults.
func LoadConfig(filename string) (Config, error) {
	conf := DefaultConfig()
	b, err := os.ReadFile(filename)
	if err != nil {
		return conf, errors.WithStack(err)
	}
	if err := json.Unmarshal(b, &conf); err != nil {
		return conf, errors.Wrapf(err, "parsing %s", filename)
	}
	if !conf.IsValid() {
		return conf, errors.Errorf("%s: invalid config", filename)
	}
	return conf, nil
}

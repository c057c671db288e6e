// This package is the terminal puzzle trainer. Puzzles come from a collection
// of Lichess training links or from a local library; moves are played by
// dragging pieces with the mouse or by typing them.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	woodpecker "github.com/woodpecker"
	"github.com/woodpecker/puzzle"
	"github.com/woodpecker/supply"
)

var (
	collectionPath = flag.String("collection", "", "puzzle collection, text or JSON, fetched from Lichess")
	libraryPath    = flag.String("library", "", "local puzzle library (JSON array of records)")
	cachePath      = flag.String("cache", "", "sqlite database caching fetched puzzles")
	configPath     = flag.String("config", "", "JSON config file")
	sessionSize    = flag.Int("session", -1, "maximum number of puzzles, 0 for all (overrides the config)")
	seed           = flag.Uint64("seed", 0, "shuffle seed, 0 for a random one")
	snapshotDir    = flag.String("snapshots", "", "write a PNG of every position into this directory")
	snapshotSize   = flag.Int("snapshot_size", 0, "side of the snapshots in pixels, 0 for 8 cells")
	logPath        = flag.String("log", "", "log file, none when empty")
	logLevel       = flag.String("log_level", "", "log level (overrides the config)")
)

func main() {
	flag.Parse()

	conf := woodpecker.DefaultConfig()
	if *configPath != "" {
		var err error
		if conf, err = woodpecker.LoadConfig(*configPath); err != nil {
			log.Fatal(err)
		}
	}
	if *sessionSize >= 0 {
		conf.SessionSize = *sessionSize
	}
	if *logLevel != "" {
		conf.LogLevel = *logLevel
	}
	if !conf.IsValid() {
		log.Fatal("invalid configuration")
	}

	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		logOut = f
	}
	logger, err := woodpecker.NewLogger(logOut, conf.LogLevel, log.Fields{"app": conf.Name})
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, err := openStore(ctx, conf, logger)
	if err != nil {
		log.Fatal(err)
	}

	m := newModel(ctx)
	sched := &programScheduler{}
	opts := []woodpecker.Option{woodpecker.WithLogger(logger), woodpecker.WithListener(m)}
	var shots *snapshots
	if *snapshotDir != "" {
		if err := os.MkdirAll(*snapshotDir, 0755); err != nil {
			log.Fatal(err)
		}
		shots = &snapshots{dir: *snapshotDir, cellSize: conf.CellSize, size: *snapshotSize, log: logger}
		opts = append(opts, woodpecker.WithListener(shots))
	}
	tr := woodpecker.New(conf, store, sched, opts...)
	m.trainer = tr
	if shots != nil {
		shots.o = tr.Orientation
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	sched.attach(p.Send)
	go func() {
		<-tr.Done()
		p.Send(doneMsg{})
	}()

	_, runErr := p.Run()
	if err := tr.Close(); err != nil {
		logger.WithError(err).Error("closing the session")
	}
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		log.Fatal(runErr)
	}
	if err := tr.Err(); err != nil {
		log.Fatal(err)
	}
	fmt.Println(tr.Stats().Summary())
	for _, tc := range tr.Stats().Themes() {
		fmt.Printf("  %-30s %d/%d\n", tc.Theme, tc.Solved, tc.Attempted)
	}
}

func openStore(ctx context.Context, conf woodpecker.Config, logger *log.Logger) (*supply.Store, error) {
	var cache supply.Cache = supply.NewMemCache()
	if *cachePath != "" {
		c, err := supply.OpenSQLite(ctx, *cachePath)
		if err != nil {
			return nil, err
		}
		cache = c
	}

	var fetch supply.Fetcher = supply.NewLichess()
	var entries []supply.Entry
	if *libraryPath != "" {
		lib, err := supply.LoadLibrary(*libraryPath)
		if err != nil {
			return nil, err
		}
		fetch = lib
		entries = lib.Entries()
	}
	if *collectionPath != "" {
		f, err := os.Open(*collectionPath)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		defer f.Close()
		if entries, err = supply.ParseCollection(f); err != nil {
			return nil, err
		}
	}
	if len(entries) == 0 {
		return nil, errors.New("no puzzles: pass -collection or -library")
	}

	opts := []supply.Option{supply.WithLogger(logger), supply.WithVerifier(puzzle.Chess)}
	if conf.SessionSize > 0 {
		opts = append(opts, supply.WithLimit(conf.SessionSize))
	}
	if *seed != 0 {
		opts = append(opts, supply.WithSeed(*seed))
	}
	store := supply.NewStore(cache, fetch, opts...)
	store.Begin(entries)
	return store, nil
}

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"nasin/internal/sched"
	"nasin/internal/storage"
)

// app is everything one command invocation works with.
type app struct {
	cfg         sched.Config
	logger      *log.Logger
	sched       *sched.Scheduler
	historyPath string
}

// openApp resolves configuration, opens the task document and loads the
// scheduler. With quiet set, log output is discarded.
func openApp(quiet bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel, quiet)
	if err != nil {
		return nil, err
	}

	dir, err := resolveDataDir(cfg)
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(dir)
	if err != nil {
		return nil, err
	}
	logger.Debug("opened task file", "path", store.Path)

	s, err := sched.Load(store, sched.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, sched: s}
	if cfg.History {
		a.historyPath = historyPath(cfg, dir)
		if err := s.EnableHistory(a.historyPath); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *app) Close() {
	if err := a.sched.Close(); err != nil {
		a.logger.Warn("close history", "err", err)
	}
}

func loadConfig() (sched.Config, error) {
	path := configPath
	if path == "" {
		p, err := storage.ConfigPath()
		if err != nil {
			return sched.Config{}, err
		}
		path = p
	}

	cfg, err := sched.LoadConfig(storage.ExpandPath(path))
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

func newLogger(level string, quiet bool) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	var w io.Writer = os.Stderr
	if quiet {
		w = io.Discard
	}
	return log.NewWithOptions(w, log.Options{
		Level:  lvl,
		Prefix: storage.AppName,
	}), nil
}

func resolveDataDir(cfg sched.Config) (string, error) {
	if cfg.DataDir != "" {
		return storage.ExpandPath(cfg.DataDir), nil
	}
	return storage.DataDir()
}

func historyPath(cfg sched.Config, dir string) string {
	if cfg.HistoryFile != "" {
		return storage.ExpandPath(cfg.HistoryFile)
	}
	return filepath.Join(dir, "history.csv")
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aoc-runner/aoc22/internal/aoc"
	"github.com/aoc-runner/aoc22/internal/config"
	"github.com/aoc-runner/aoc22/internal/input"
	"github.com/aoc-runner/aoc22/internal/runner"
	"github.com/aoc-runner/aoc22/internal/solution"
	"github.com/aoc-runner/aoc22/internal/store"
)

// app is the wiring shared by every subcommand.
type app struct {
	cfg      *config.Config
	registry *solution.Registry
	client   *aoc.Client
	loader   *input.Loader
	store    *store.AnswerStore
	runner   *runner.Runner
}

func newApp(cfg *config.Config, withStore bool) (*app, error) {
	a := &app{
		cfg:      cfg,
		registry: solution.Default(),
		client: aoc.NewClient(aoc.Options{
			BaseURL:   cfg.Fetch.BaseURL,
			Year:      cfg.Year,
			Session:   cfg.Session,
			UserAgent: cfg.Fetch.UserAgent,
			Interval:  cfg.Fetch.Interval,
			Burst:     cfg.Fetch.Burst,
			Timeout:   cfg.Fetch.Timeout,
		}),
	}

	var fetcher input.Fetcher
	if cfg.Fetch.Online {
		fetcher = a.client
	}

	loader, err := input.NewLoader(cfg.InputDir, cfg.InputPattern, fetcher)
	if err != nil {
		return nil, err
	}
	a.loader = loader

	var opts []runner.Option
	opts = append(opts, runner.WithWorkers(cfg.Workers))

	if withStore && cfg.Record {
		if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0700); err != nil {
			return nil, fmt.Errorf("failed to create data dir: %w", err)
		}
		a.store, err = store.Open(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open answer store: %w", err)
		}
		opts = append(opts, runner.WithRecorder(a.store))
	}

	a.runner = runner.New(a.registry, a.loader, opts...)
	return a, nil
}

func (a *app) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

func parseDay(s string) (int, error) {
	day, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid day %q", s)
	}
	if err := solution.ValidateDay(day); err != nil {
		return 0, err
	}
	return day, nil
}

// parsePart accepts 1, 2, p1 and p2.
func parsePart(s string) (int, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "p")
	part, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid part %q", s)
	}
	if err := solution.ValidatePart(part); err != nil {
		return 0, err
	}
	return part, nil
}

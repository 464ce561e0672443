// Package runner loads puzzle inputs, runs solutions and reports the answers.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aoc-runner/aoc22/internal/input"
	"github.com/aoc-runner/aoc22/internal/logger"
	"github.com/aoc-runner/aoc22/internal/solution"
	"github.com/aoc-runner/aoc22/internal/store"
)

type InputSource interface {
	Load(ctx context.Context, day int) (string, error)
}

type Recorder interface {
	Record(ctx context.Context, a store.Answer) (*store.Answer, error)
}

type Result struct {
	Day      int           `json:"day"`
	Part     int           `json:"part"`
	Answer   string        `json:"answer,omitempty"`
	Duration time.Duration `json:"duration_ns"`
	Err      error         `json:"-"`
}

func (r Result) Failed() bool {
	return r.Err != nil
}

type Runner struct {
	registry *solution.Registry
	inputs   InputSource
	recorder Recorder
	workers  int
	log      *slog.Logger
}

type Option func(*Runner)

// WithRecorder stores every successful answer.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

func New(registry *solution.Registry, inputs InputSource, opts ...Option) *Runner {
	r := &Runner{
		registry: registry,
		inputs:   inputs,
		workers:  4,
		log:      logger.ForComponent("runner"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run solves the given parts of one day, or both parts when none are given.
// The input is loaded once and fully read before any part runs. A failure to
// load the input, or an unknown day, is returned as an error; a failing part
// is reported in its Result so the other part still runs.
func (r *Runner) Run(ctx context.Context, day int, parts ...int) ([]Result, error) {
	if err := solution.ValidateDay(day); err != nil {
		return nil, err
	}
	if _, ok := r.registry.Get(day); !ok {
		return nil, fmt.Errorf("%w %d", solution.ErrUnknownDay, day)
	}
	if len(parts) == 0 {
		parts = []int{1, 2}
	}
	for _, p := range parts {
		if err := solution.ValidatePart(p); err != nil {
			return nil, err
		}
	}

	text, err := r.inputs.Load(ctx, day)
	if err != nil {
		return nil, err
	}
	hash := input.Fingerprint(text)

	results := make([]Result, 0, len(parts))
	for _, part := range parts {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		start := time.Now()
		answer, err := r.registry.Solve(day, part, text)
		res := Result{Day: day, Part: part, Answer: answer, Duration: time.Since(start), Err: err}

		if err != nil {
			r.log.Warn("part failed", "day", day, "part", part, "error", err)
		} else {
			r.log.Debug("part solved", "day", day, "part", part, "answer", answer, "duration", res.Duration)
			r.record(ctx, res, hash)
		}

		results = append(results, res)
	}

	return results, nil
}

func (r *Runner) record(ctx context.Context, res Result, hash string) {
	if r.recorder == nil {
		return
	}

	_, err := r.recorder.Record(ctx, store.Answer{
		Day:       res.Day,
		Part:      res.Part,
		Value:     res.Answer,
		Duration:  res.Duration,
		InputHash: hash,
	})
	if err != nil {
		r.log.Warn("failed to record answer", "day", res.Day, "part", res.Part, "error", err)
	}
}

// RunAll runs several days concurrently. Results come back ordered by day and
// part; errors from individual days are joined.
func (r *Runner) RunAll(ctx context.Context, days []int) ([]Result, error) {
	perDay := make([][]Result, len(days))
	errs := make([]error, len(days))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, day := range days {
		g.Go(func() error {
			res, err := r.Run(gctx, day)
			perDay[i] = res
			if err != nil {
				errs[i] = fmt.Errorf("day %d: %w", day, err)
			}
			return nil
		})
	}
	g.Wait()

	var results []Result
	for _, res := range perDay {
		results = append(results, res...)
	}
	slices.SortStableFunc(results, func(a, b Result) int {
		if a.Day != b.Day {
			return a.Day - b.Day
		}
		return a.Part - b.Part
	})

	return results, errors.Join(errs...)
}

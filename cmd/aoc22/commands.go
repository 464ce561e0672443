package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aoc-runner/aoc22/internal/daemon"
	"github.com/aoc-runner/aoc22/internal/logger"
	"github.com/aoc-runner/aoc22/internal/rpc"
	"github.com/aoc-runner/aoc22/internal/runner"
	"github.com/aoc-runner/aoc22/internal/watcher"
	"github.com/aoc-runner/aoc22/pkg/protocol"
)

var errPartsFailed = errors.New("one or more parts failed")

var (
	runAll    bool
	runRemote bool

	fetchForce bool

	historyLimit int

	serveStdio bool
)

var runCmd = &cobra.Command{
	Use:   "run [day] [part]",
	Short: "Run a day's solution (both parts unless a part is given)",
	Long: `Runs a solution against its puzzle input and prints the answers.

Without a day, or with --all, every registered day is run concurrently.
The part may be given as 1, 2, p1 or p2.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runSolutions,
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <day>",
	Short: "Download and cache the puzzle input for a day",
	Args:  cobra.ExactArgs(1),
	RunE:  fetchInput,
}

var submitCmd = &cobra.Command{
	Use:   "submit <day> <part> [answer]",
	Short: "Submit an answer to adventofcode.com",
	Long: `Submits an answer for a day and part. When the answer is omitted it is
computed from the local input first.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: submitAnswer,
}

var inputPathCmd = &cobra.Command{
	Use:   "input-path <day>",
	Short: "Print the path of the input file for a day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := parseDay(args[0])
		if err != nil {
			return err
		}
		a, err := newApp(cfg, false)
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Fprintln(cmd.OutOrStdout(), a.loader.Path(day))
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered solutions and available inputs",
	Args:  cobra.NoArgs,
	RunE:  listDays,
}

var historyCmd = &cobra.Command{
	Use:   "history [day]",
	Short: "Show previously computed answers",
	Args:  cobra.MaximumNArgs(1),
	RunE:  showHistory,
}

var watchCmd = &cobra.Command{
	Use:   "watch [day...]",
	Short: "Re-run solutions whenever their input files change",
	RunE:  watchInputs,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve solutions over JSON-RPC",
	Long: `Serves the aoc/solve, aoc/days, aoc/history and health methods.

By default a daemon listens on a unix socket (see socket_path in the config).
With --stdio a single session is served on stdin/stdout using Content-Length
framing.`,
	Args: cobra.NoArgs,
	RunE: serve,
}

func init() {
	runCmd.Flags().BoolVarP(&runAll, "all", "a", false, "Run every registered day")
	runCmd.Flags().BoolVar(&runRemote, "remote", false, "Ask a running daemon instead of solving locally")
	fetchCmd.Flags().BoolVarP(&fetchForce, "force", "f", false, "Overwrite an existing cached input")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of answers to show")
	serveCmd.Flags().BoolVar(&serveStdio, "stdio", false, "Serve one session on stdin/stdout")
}

func runSolutions(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	day, part, err := runTarget(args, runAll)
	if err != nil {
		return err
	}

	if runRemote {
		if day == 0 {
			return errors.New("--remote needs a day")
		}
		return runOnDaemon(ctx, cmd, day, part)
	}

	a, err := newApp(cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	var results []runner.Result
	switch {
	case day == 0:
		results, err = a.runner.RunAll(ctx, a.registry.Days())
	case part == 0:
		results, err = a.runner.Run(ctx, day)
	default:
		results, err = a.runner.Run(ctx, day, part)
	}

	runner.Report(cmd.OutOrStdout(), results)
	if err != nil {
		return err
	}
	return failedErr(results)
}

// runTarget resolves the day and part arguments of run. Day 0 means every
// registered day; part 0 means both parts.
func runTarget(args []string, all bool) (day, part int, err error) {
	if all {
		if len(args) > 0 {
			return 0, 0, errors.New("--all runs every day and part; drop the day and part arguments")
		}
		return 0, 0, nil
	}
	if len(args) > 0 {
		if day, err = parseDay(args[0]); err != nil {
			return 0, 0, err
		}
	}
	if len(args) > 1 {
		if part, err = parsePart(args[1]); err != nil {
			return 0, 0, err
		}
	}
	return day, part, nil
}

func runOnDaemon(ctx context.Context, cmd *cobra.Command, day, part int) error {
	client, err := daemon.Dial(ctx, cfg.SocketPath)
	if err != nil {
		return err
	}
	defer client.Close()

	res, err := client.Solve(ctx, protocol.SolveParams{Day: day, Part: part})
	if err != nil {
		return err
	}

	results := make([]runner.Result, 0, len(res.Results))
	for _, r := range res.Results {
		result := runner.Result{Day: r.Day, Part: r.Part, Answer: r.Answer, Duration: time.Duration(r.DurationNS)}
		if r.Error != "" {
			result.Err = errors.New(r.Error)
		}
		results = append(results, result)
	}

	runner.Report(cmd.OutOrStdout(), results)
	return failedErr(results)
}

func failedErr(results []runner.Result) error {
	for _, r := range results {
		if r.Failed() {
			return errPartsFailed
		}
	}
	return nil
}

func fetchInput(cmd *cobra.Command, args []string) error {
	day, err := parseDay(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(cfg, false)
	if err != nil {
		return err
	}
	defer a.Close()

	content, err := a.client.FetchInput(cmd.Context(), day)
	if err != nil {
		return err
	}
	if err := a.loader.Save(day, content, fetchForce); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Saved input to %s\n", a.loader.Path(day))
	return nil
}

func submitAnswer(cmd *cobra.Command, args []string) error {
	day, err := parseDay(args[0])
	if err != nil {
		return err
	}
	part, err := parsePart(args[1])
	if err != nil {
		return err
	}

	a, err := newApp(cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	var answer string
	if len(args) == 3 {
		answer = args[2]
	} else {
		results, err := a.runner.Run(cmd.Context(), day, part)
		if err != nil {
			return err
		}
		if results[0].Failed() {
			return results[0].Err
		}
		answer = results[0].Answer
	}

	res, err := a.client.Submit(cmd.Context(), day, part, answer)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Day %d Part %d: submitted %s -> %s\n", day, part, answer, res.Verdict)
	return nil
}

func listDays(cmd *cobra.Command, args []string) error {
	a, err := newApp(cfg, false)
	if err != nil {
		return err
	}
	defer a.Close()

	available, err := a.loader.Available()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, day := range a.registry.Days() {
		s, _ := a.registry.Get(day)
		status := "missing"
		if slices.Contains(available, day) {
			status = a.loader.Path(day)
		}
		fmt.Fprintf(out, "Day %2d  %-24s input: %s\n", day, s.Title(), status)
	}
	return nil
}

func showHistory(cmd *cobra.Command, args []string) error {
	day := 0
	if len(args) == 1 {
		var err error
		if day, err = parseDay(args[0]); err != nil {
			return err
		}
	}

	a, err := newApp(cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.store == nil {
		return rpc.ErrNoHistory
	}

	answers, err := a.store.History(cmd.Context(), day, historyLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(answers) == 0 {
		fmt.Fprintln(out, "No answers recorded yet")
		return nil
	}
	for _, ans := range answers {
		fmt.Fprintf(out, "%s  Day %d Part %d: %s (%s, input %s)\n",
			ans.CreatedAt.Local().Format(time.DateTime), ans.Day, ans.Part, ans.Value, ans.Duration, ans.InputHash)
	}
	return nil
}

func watchInputs(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logger.ForComponent("watch")

	a, err := newApp(cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	days := a.registry.Days()
	if len(args) > 0 {
		days = days[:0:0]
		for _, arg := range args {
			day, err := parseDay(arg)
			if err != nil {
				return err
			}
			days = append(days, day)
		}
	}

	out := cmd.OutOrStdout()
	rerun := func(changed []int) {
		for _, day := range changed {
			if !slices.Contains(days, day) {
				continue
			}
			if _, ok := a.registry.Get(day); !ok {
				log.Debug("no solution for changed input", "day", day)
				continue
			}
			results, err := a.runner.Run(ctx, day)
			if err != nil {
				log.Warn("run failed", "day", day, "error", err)
				continue
			}
			runner.Report(out, results)
		}
	}

	if err := os.MkdirAll(a.loader.Dir(), 0755); err != nil {
		return err
	}

	w, err := watcher.New(cfg.Watcher, a.loader.DayFromPath, rerun)
	if err != nil {
		return err
	}
	if err := w.AddRoot(a.loader.Dir()); err != nil {
		w.Stop()
		return err
	}

	rerun(days)

	if err := w.Start(ctx); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s for changes (Ctrl-C to stop)\n", strings.Join(w.Roots(), ", "))

	<-ctx.Done()
	return w.Stop()
}

func serve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	var history rpc.HistorySource
	if a.store != nil {
		history = a.store
	}
	svc := rpc.NewService(a.registry, a.runner, a.loader, history)

	if serveStdio {
		conn := svc.ServeConn(ctx, rpc.NewStream(rpc.Stdio(os.Stdin, os.Stdout)))
		select {
		case <-ctx.Done():
			return conn.Close()
		case <-conn.DisconnectNotify():
			return nil
		}
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}
	return daemon.New(cfg.SocketPath, cfg.PIDPath, svc).Serve(ctx)
}

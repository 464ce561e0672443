package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aoc-runner/aoc22/internal/config"
	"github.com/aoc-runner/aoc22/internal/logger"
)

var (
	// Global flags
	configPath string
	logLevel   string
	inputDir   string
	noRecord   bool
	online     bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "aoc22",
	Short: "Advent of Code 2022 runner",
	Long: `aoc22 runs Advent of Code 2022 solutions against puzzle inputs.

Inputs are read from resources/day<N>.txt by default. With AOC_SESSION set and
online fetching enabled, missing inputs are downloaded and cached.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Resolve(configPath)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if flags.Changed("input-dir") {
			cfg.InputDir = inputDir
		}
		if flags.Changed("online") {
			cfg.Fetch.Online = online
		}
		if noRecord {
			cfg.Record = false
		}

		level, err := logger.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		logCfg := logger.DefaultConfig()
		logCfg.Level = level
		logCfg.Format = cfg.LogFormat
		logger.Init(logCfg)

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&inputDir, "input-dir", "", "Directory holding puzzle inputs (default: resources)")
	rootCmd.PersistentFlags().BoolVar(&noRecord, "no-record", false, "Do not store answers in the history database")
	rootCmd.PersistentFlags().BoolVar(&online, "online", false, "Fetch missing inputs from adventofcode.com")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(inputPathCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

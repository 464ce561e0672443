package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/aoc-runner/aoc22/internal/watcher"
)

type FetchConfig struct {
	Online    bool          `yaml:"online"`
	BaseURL   string        `yaml:"base_url"`
	UserAgent string        `yaml:"user_agent"`
	Interval  time.Duration `yaml:"interval"`
	Burst     int           `yaml:"burst"`
	Timeout   time.Duration `yaml:"timeout"`
}

type Config struct {
	Year         int                   `yaml:"year"`
	InputDir     string                `yaml:"input_dir"`
	InputPattern string                `yaml:"input_pattern"`
	DataDir      string                `yaml:"data_dir"`
	DatabasePath string                `yaml:"db_path"`
	SocketPath   string                `yaml:"socket_path"`
	PIDPath      string                `yaml:"pid_path"`
	LogLevel     string                `yaml:"log_level"`
	LogFormat    string                `yaml:"log_format"`
	Workers      int                   `yaml:"workers"`
	Record       bool                  `yaml:"record"`
	Fetch        FetchConfig           `yaml:"fetch"`
	Watcher      watcher.WatcherConfig `yaml:"watcher"`

	// Session is the adventofcode.com session cookie. It is only read from
	// the environment so it never ends up in a checked-in config file.
	Session string `yaml:"-"`
}

func Load() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".aoc22")

	return &Config{
		Year:         2022,
		InputDir:     "resources",
		InputPattern: "day%d.txt",
		DataDir:      dataDir,
		DatabasePath: filepath.Join(dataDir, "answers.db"),
		SocketPath:   filepath.Join(dataDir, "aoc22.sock"),
		PIDPath:      filepath.Join(dataDir, "aoc22.pid"),
		LogLevel:     "info",
		LogFormat:    "text",
		Workers:      4,
		Record:       true,
		Fetch: FetchConfig{
			Online:    false,
			BaseURL:   "https://adventofcode.com",
			UserAgent: "aoc22-go-runner",
			Interval:  3 * time.Second,
			Burst:     1,
			Timeout:   30 * time.Second,
		},
		Watcher: watcher.DefaultWatcherConfig(),
	}
}

// Resolve builds the effective configuration: defaults, then the YAML file at
// path (if any), then .env in the working directory, then AOC_* variables.
func Resolve(path string) (*Config, error) {
	cfg := Load()

	if path != "" {
		if err := cfg.MergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return nil
}

func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		if !ok {
			return "", false
		}
		v = strings.TrimSpace(v)
		return v, v != ""
	}

	if v, ok := get("AOC_SESSION"); ok {
		c.Session = v
	}
	if v, ok := get("AOC_INPUT_DIR"); ok {
		c.InputDir = v
	}
	if v, ok := get("AOC_DB_PATH"); ok {
		c.DatabasePath = v
	}
	if v, ok := get("AOC_LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := get("AOC_LOG_FORMAT"); ok {
		c.LogFormat = v
	}
	if v, ok := get("AOC_YEAR"); ok {
		year, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid AOC_YEAR %q: %w", v, err)
		}
		c.Year = year
	}
	if v, ok := get("AOC_ONLINE"); ok {
		online, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid AOC_ONLINE %q: %w", v, err)
		}
		c.Fetch.Online = online
	}

	return nil
}

func (c *Config) EnsureDirectories() error {
	return os.MkdirAll(c.DataDir, 0700)
}

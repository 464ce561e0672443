// Package input locates, reads and caches puzzle inputs.
package input

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aoc-runner/aoc22/internal/logger"
)

var ErrInputExists = errors.New("input already exists")

var dayVerb = regexp.MustCompile(`%0?[0-9]*d`)

type Fetcher interface {
	FetchInput(ctx context.Context, day int) (string, error)
}

type Loader struct {
	dir     string
	pattern string
	fetcher Fetcher
}

// NewLoader reads inputs named by pattern (a Printf format with one integer
// verb, e.g. "day%d.txt") inside dir. A nil fetcher disables online fetching.
func NewLoader(dir, pattern string, fetcher Fetcher) (*Loader, error) {
	if len(dayVerb.FindAllString(pattern, -1)) != 1 {
		return nil, fmt.Errorf("input pattern %q must contain exactly one %%d verb", pattern)
	}
	return &Loader{dir: dir, pattern: pattern, fetcher: fetcher}, nil
}

func (l *Loader) Dir() string {
	return l.dir
}

func (l *Loader) Path(day int) string {
	return filepath.Join(l.dir, fmt.Sprintf(l.pattern, day))
}

// DayFromPath is the inverse of Path, matched on the base name only.
func (l *Loader) DayFromPath(path string) (int, bool) {
	base := filepath.Base(path)

	loc := dayVerb.FindStringIndex(l.pattern)
	prefix, suffix := l.pattern[:loc[0]], l.pattern[loc[1]:]
	if !strings.HasPrefix(base, prefix) || !strings.HasSuffix(base, suffix) || len(base) <= len(prefix)+len(suffix) {
		return 0, false
	}

	day, err := strconv.Atoi(base[len(prefix) : len(base)-len(suffix)])
	if err != nil || day < 1 || day > 25 {
		return 0, false
	}
	if fmt.Sprintf(l.pattern, day) != base {
		return 0, false
	}
	return day, true
}

// Available lists the days that have an input file on disk, ascending.
func (l *Loader) Available() ([]int, error) {
	glob := dayVerb.ReplaceAllString(l.pattern, "*")

	matches, err := doublestar.Glob(os.DirFS(l.dir), glob)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list inputs in %s: %w", l.dir, err)
	}

	days := make([]int, 0, len(matches))
	for _, m := range matches {
		if day, ok := l.DayFromPath(m); ok && !slices.Contains(days, day) {
			days = append(days, day)
		}
	}
	slices.Sort(days)
	return days, nil
}

// Load returns the input for day as UTF-8 text. A missing file is fetched and
// cached when the loader has a fetcher; otherwise the error wraps
// fs.ErrNotExist.
func (l *Loader) Load(ctx context.Context, day int) (string, error) {
	path := l.Path(day)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && l.fetcher != nil {
		logger.ForComponent("input").Info("input missing, fetching", "day", day, "path", path)

		content, ferr := l.fetcher.FetchInput(ctx, day)
		if ferr != nil {
			return "", fmt.Errorf("failed to fetch input for day %d: %w", day, ferr)
		}
		if serr := l.Save(day, content, false); serr != nil {
			return "", serr
		}
		data = []byte(content)
		return NormalizeToUTF8(data, DetectEncoding(data)), nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input for day %d: %w", day, err)
	}

	return NormalizeToUTF8(data, DetectEncoding(data)), nil
}

func (l *Loader) Save(day int, content string, force bool) error {
	path := l.Path(day)

	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return fmt.Errorf("failed to create input dir: %w", err)
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w at %s (use --force to overwrite)", ErrInputExists, path)
		}
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write input: %w", err)
	}
	return nil
}

// Fingerprint identifies an input's content in the answer history.
func Fingerprint(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:8])
}

package input

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeFetcher struct {
	content string
	err     error
	calls   int
}

func (f *fakeFetcher) FetchInput(ctx context.Context, day int) (string, error) {
	f.calls++
	return f.content, f.err
}

func newTestLoader(t *testing.T, pattern string, fetcher Fetcher) *Loader {
	t.Helper()
	l, err := NewLoader(t.TempDir(), pattern, fetcher)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	return l
}

func TestNewLoaderRejectsBadPattern(t *testing.T) {
	for _, pattern := range []string{"input.txt", "day%d-%d.txt"} {
		if _, err := NewLoader("resources", pattern, nil); err == nil {
			t.Errorf("expected error for pattern %q", pattern)
		}
	}
}

func TestPath(t *testing.T) {
	l, err := NewLoader("resources", "day%d.txt", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := l.Path(1), filepath.Join("resources", "day1.txt"); got != want {
		t.Errorf("Path(1) = %q, want %q", got, want)
	}

	padded, err := NewLoader("inputs", "day%02d.txt", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := padded.Path(12), filepath.Join("inputs", "day12.txt"); got != want {
		t.Errorf("Path(12) = %q, want %q", got, want)
	}
	if got, want := padded.Path(3), filepath.Join("inputs", "day03.txt"); got != want {
		t.Errorf("Path(3) = %q, want %q", got, want)
	}
}

func TestDayFromPath(t *testing.T) {
	l, _ := NewLoader("resources", "day%02d.txt", nil)

	tests := []struct {
		path string
		day  int
		ok   bool
	}{
		{"resources/day01.txt", 1, true},
		{"/abs/day25.txt", 25, true},
		{"day1.txt", 0, false},
		{"day26.txt", 0, false},
		{"dayxx.txt", 0, false},
		{"day01.txt.swp", 0, false},
		{"notes.md", 0, false},
	}

	for _, tt := range tests {
		day, ok := l.DayFromPath(tt.path)
		if day != tt.day || ok != tt.ok {
			t.Errorf("DayFromPath(%q) = (%d, %v), want (%d, %v)", tt.path, day, ok, tt.day, tt.ok)
		}
	}
}

func TestAvailable(t *testing.T) {
	l := newTestLoader(t, "day%d.txt", nil)

	for _, name := range []string{"day3.txt", "day1.txt", "day10.txt", "readme.txt", "day1.txt.bak"} {
		if err := os.WriteFile(filepath.Join(l.Dir(), name), []byte("1"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	days, err := l.Available()
	if err != nil {
		t.Fatalf("Available: %v", err)
	}
	if diff := cmp.Diff([]int{1, 3, 10}, days); diff != "" {
		t.Errorf("Available mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingWithoutFetcher(t *testing.T) {
	l := newTestLoader(t, "day%d.txt", nil)

	_, err := l.Load(context.Background(), 1)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestLoadFetchesAndCaches(t *testing.T) {
	fetcher := &fakeFetcher{content: "1\n2\n\n3\n"}
	l := newTestLoader(t, "day%d.txt", fetcher)

	got, err := l.Load(context.Background(), 1)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != fetcher.content {
		t.Errorf("Load = %q, want fetched content", got)
	}

	if _, err := l.Load(context.Background(), 1); err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if fetcher.calls != 1 {
		t.Errorf("fetcher called %d times, want 1 (second load should hit the cache)", fetcher.calls)
	}
}

func TestLoadFetchError(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("offline")}
	l := newTestLoader(t, "day%d.txt", fetcher)

	if _, err := l.Load(context.Background(), 2); err == nil {
		t.Fatal("expected fetch error")
	}
	if _, err := os.Stat(l.Path(2)); !errors.Is(err, fs.ErrNotExist) {
		t.Error("failed fetch must not leave an input file behind")
	}
}

func TestLoadNormalisesEncoding(t *testing.T) {
	l := newTestLoader(t, "day%d.txt", nil)

	utf16le := []byte{0xFF, 0xFE, '4', 0, '2', 0, '\n', 0}
	if err := os.WriteFile(l.Path(1), utf16le, 0644); err != nil {
		t.Fatal(err)
	}
	withBOM := append([]byte{0xEF, 0xBB, 0xBF}, []byte("7\n")...)
	if err := os.WriteFile(l.Path(2), withBOM, 0644); err != nil {
		t.Fatal(err)
	}

	got, err := l.Load(context.Background(), 1)
	if err != nil || got != "42\n" {
		t.Errorf("Load(utf-16le) = %q, %v; want \"42\\n\"", got, err)
	}
	got, err = l.Load(context.Background(), 2)
	if err != nil || got != "7\n" {
		t.Errorf("Load(utf-8 bom) = %q, %v; want \"7\\n\"", got, err)
	}
}

func TestSave(t *testing.T) {
	l := newTestLoader(t, "day%d.txt", nil)

	if err := l.Save(4, "1", false); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := l.Save(4, "2", false); !errors.Is(err, ErrInputExists) {
		t.Errorf("expected ErrInputExists, got %v", err)
	}
	if err := l.Save(4, "2", true); err != nil {
		t.Fatalf("forced Save: %v", err)
	}

	data, err := os.ReadFile(l.Path(4))
	if err != nil || string(data) != "2" {
		t.Errorf("file content = %q, %v; want \"2\"", data, err)
	}
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("1\n2")
	if len(a) != 16 {
		t.Errorf("fingerprint length = %d, want 16", len(a))
	}
	if a != Fingerprint("1\n2") {
		t.Error("fingerprint must be deterministic")
	}
	if a == Fingerprint("1\n3") {
		t.Error("different content should produce different fingerprints")
	}
}

func TestLoadNormalisesFetchedContent(t *testing.T) {
	fetcher := &fakeFetcher{content: "\xEF\xBB\xBF100\n200\n"}
	l := newTestLoader(t, "day%d.txt", fetcher)

	first, err := l.Load(context.Background(), 1)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cached, err := l.Load(context.Background(), 1)
	if err != nil {
		t.Fatalf("cached Load: %v", err)
	}

	if first != "100\n200\n" {
		t.Errorf("fetched Load = %q, want BOM stripped", first)
	}
	if first != cached {
		t.Errorf("fetched and cached loads differ: %q vs %q", first, cached)
	}
}

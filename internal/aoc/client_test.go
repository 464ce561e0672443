package aoc

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	return newThrottledTestServer(t, 0, handler)
}

func newThrottledTestServer(t *testing.T, interval time.Duration, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Options{
		BaseURL:   srv.URL,
		Year:      2022,
		Session:   "secret",
		UserAgent: "aoc22-test",
		Interval:  interval,
		Timeout:   5 * time.Second,
	})
}

func TestFetchInput(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2022/day/1/input" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		cookie, err := r.Cookie("session")
		if err != nil || cookie.Value != "secret" {
			t.Errorf("missing session cookie: %v", err)
		}
		if ua := r.Header.Get("User-Agent"); ua != "aoc22-test" {
			t.Errorf("User-Agent = %q", ua)
		}
		w.Write([]byte("1\n2\n\n3\n"))
	})

	got, err := c.FetchInput(context.Background(), 1)
	if err != nil {
		t.Fatalf("FetchInput: %v", err)
	}
	if got != "1\n2\n\n3\n" {
		t.Errorf("FetchInput = %q", got)
	}
}

func TestFetchInputStatusError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Please log in", http.StatusBadRequest)
	})

	_, err := c.FetchInput(context.Background(), 1)
	var serr *StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if serr.StatusCode != http.StatusBadRequest || serr.Body != "Please log in" {
		t.Errorf("unexpected status error %+v", serr)
	}
}

func TestMissingSession(t *testing.T) {
	c := NewClient(Options{BaseURL: "http://127.0.0.1:0", Year: 2022})

	if _, err := c.FetchInput(context.Background(), 1); !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
}

func TestSubmit(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/2022/day/1/answer" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if r.PostForm.Get("level") != "2" || r.PostForm.Get("answer") != "45000" {
			t.Errorf("unexpected form %v", r.PostForm)
		}
		w.Write([]byte("<article><p>That's the right answer! You are one gold star closer.</p></article>"))
	})

	res, err := c.Submit(context.Background(), 1, 2, "45000")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Verdict != VerdictCorrect {
		t.Errorf("Verdict = %s, want %s", res.Verdict, VerdictCorrect)
	}

	if _, err := c.Submit(context.Background(), 1, 3, "1"); err == nil {
		t.Error("expected error for part 3")
	}
}

func TestParseVerdict(t *testing.T) {
	tests := map[string]Verdict{
		"That's not the right answer; your answer is too low.": VerdictIncorrect,
		"You gave an answer too recently; wait 5m.":            VerdictTooSoon,
		"You don't seem to be solving the right level.":        VerdictWrongLevel,
		"<html>something else</html>":                          VerdictUnknown,
	}
	for body, want := range tests {
		if got := ParseVerdict(body); got != want {
			t.Errorf("ParseVerdict(%q) = %s, want %s", body, got, want)
		}
	}
}

func TestRateLimiterHonoursContext(t *testing.T) {
	calls := 0
	c := newThrottledTestServer(t, time.Hour, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte("ok"))
	})

	if _, err := c.FetchInput(context.Background(), 1); err != nil {
		t.Fatalf("first fetch: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := c.FetchInput(ctx, 1); err == nil {
		t.Error("second fetch should be throttled until the context expires")
	}
	if calls != 1 {
		t.Errorf("server saw %d calls, want 1", calls)
	}
}

// Package aoc talks to adventofcode.com: it downloads puzzle inputs and
// submits answers using the account's session cookie.
package aoc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/aoc-runner/aoc22/internal/logger"
)

var ErrNoSession = errors.New("AOC_SESSION is not set; copy the 'session' cookie from adventofcode.com")

type Options struct {
	BaseURL   string
	Year      int
	Session   string
	UserAgent string
	Interval  time.Duration
	Burst     int
	Timeout   time.Duration
}

type Client struct {
	baseURL   string
	year      int
	session   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
}

func NewClient(opts Options) *Client {
	limit := rate.Inf
	if opts.Interval > 0 {
		limit = rate.Every(opts.Interval)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		year:      opts.Year,
		session:   opts.Session,
		userAgent: opts.UserAgent,
		http:      &http.Client{Timeout: opts.Timeout},
		limiter:   rate.NewLimiter(limit, burst),
	}
}

func (c *Client) FetchInput(ctx context.Context, day int) (string, error) {
	endpoint := fmt.Sprintf("%s/%d/day/%d/input", c.baseURL, c.year, day)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	return c.do(req)
}

type Verdict string

const (
	VerdictCorrect    Verdict = "correct"
	VerdictIncorrect  Verdict = "incorrect"
	VerdictTooSoon    Verdict = "too-soon"
	VerdictWrongLevel Verdict = "wrong-level"
	VerdictUnknown    Verdict = "unknown"
)

type SubmitResult struct {
	Verdict Verdict
	Body    string
}

func (c *Client) Submit(ctx context.Context, day, part int, answer string) (*SubmitResult, error) {
	if part != 1 && part != 2 {
		return nil, fmt.Errorf("part must be 1 or 2 (got %d)", part)
	}

	endpoint := fmt.Sprintf("%s/%d/day/%d/answer", c.baseURL, c.year, day)
	form := url.Values{
		"level":  {strconv.Itoa(part)},
		"answer": {answer},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	return &SubmitResult{Verdict: ParseVerdict(body), Body: body}, nil
}

// ParseVerdict reads the outcome from the answer page text.
func ParseVerdict(body string) Verdict {
	switch {
	case strings.Contains(body, "That's the right answer"):
		return VerdictCorrect
	case strings.Contains(body, "That's not the right answer"):
		return VerdictIncorrect
	case strings.Contains(body, "You gave an answer too recently"):
		return VerdictTooSoon
	case strings.Contains(body, "You don't seem to be solving the right level"):
		return VerdictWrongLevel
	default:
		return VerdictUnknown
	}
}

func (c *Client) do(req *http.Request) (string, error) {
	if c.session == "" {
		return "", ErrNoSession
	}

	if err := c.limiter.Wait(req.Context()); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	req.Header.Set("Cookie", "session="+c.session)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	logger.ForComponent("aoc").Debug("request", "method", req.Method, "url", req.URL.String())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return string(body), nil
}

type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

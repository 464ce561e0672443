package solution

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type stubSolution struct {
	day int
}

func (s stubSolution) Day() int                           { return s.day }
func (s stubSolution) Title() string                      { return "stub" }
func (s stubSolution) Part1(input string) (string, error) { return "p1:" + input, nil }
func (s stubSolution) Part2(string) (string, error)       { return "", ErrNotImplemented }

func TestDefaultRegistersDayOne(t *testing.T) {
	r := Default()

	s, ok := r.Get(1)
	if !ok {
		t.Fatal("day 1 should be registered")
	}
	if s.Title() != "Calorie Counting" {
		t.Errorf("unexpected title %q", s.Title())
	}
	if diff := cmp.Diff([]int{1}, r.Days()); diff != "" {
		t.Errorf("Days() mismatch (-want +got):\n%s", diff)
	}
}

func TestRegisterRejectsDuplicatesAndBadDays(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(stubSolution{day: 3}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(stubSolution{day: 3}); err == nil {
		t.Error("expected error registering day 3 twice")
	}
	if err := r.Register(stubSolution{day: 0}); err == nil {
		t.Error("expected error registering day 0")
	}
	if err := r.Register(stubSolution{day: 26}); err == nil {
		t.Error("expected error registering day 26")
	}
}

func TestDaysSorted(t *testing.T) {
	r := NewRegistry()
	for _, d := range []int{12, 2, 7} {
		if err := r.Register(stubSolution{day: d}); err != nil {
			t.Fatalf("Register(%d): %v", d, err)
		}
	}
	if diff := cmp.Diff([]int{2, 7, 12}, r.Days()); diff != "" {
		t.Errorf("Days() mismatch (-want +got):\n%s", diff)
	}
}

func TestSolve(t *testing.T) {
	r := Default()
	input := "1000\n2000\n3000\n\n4000\n\n5000\n6000\n\n7000\n8000\n9000\n\n10000"

	tests := []struct {
		part int
		want string
	}{
		{1, "24000"},
		{2, "45000"},
	}

	for _, tt := range tests {
		got, err := r.Solve(1, tt.part, input)
		if err != nil {
			t.Fatalf("Solve(1, %d): %v", tt.part, err)
		}
		if got != tt.want {
			t.Errorf("Solve(1, %d) = %q, want %q", tt.part, got, tt.want)
		}
	}
}

func TestSolveErrors(t *testing.T) {
	r := Default()

	if _, err := r.Solve(9, 1, ""); !errors.Is(err, ErrUnknownDay) {
		t.Errorf("expected ErrUnknownDay, got %v", err)
	}
	if _, err := r.Solve(1, 3, ""); !errors.Is(err, ErrInvalidPart) {
		t.Errorf("expected ErrInvalidPart, got %v", err)
	}
	if _, err := r.Solve(1, 1, "12\nx"); err == nil {
		t.Error("expected parse error for malformed input")
	}
}

func TestClassify(t *testing.T) {
	r := Default()

	_, err := r.Solve(1, 1, "12\nx")
	if got := Classify(1, 1, err); got.Code != CodeMalformedInput {
		t.Errorf("malformed input code = %d, want %d", got.Code, CodeMalformedInput)
	}

	_, err = r.Solve(4, 1, "")
	if got := Classify(4, 1, err); got.Code != CodeMethodNotFound {
		t.Errorf("unknown day code = %d, want %d", got.Code, CodeMethodNotFound)
	}

	_, err = r.Solve(1, 5, "")
	if got := Classify(1, 5, err); got.Code != CodeInvalidParams {
		t.Errorf("invalid part code = %d, want %d", got.Code, CodeInvalidParams)
	}

	if got := Classify(1, 2, errors.New("boom")); got.Code != CodeInternal {
		t.Errorf("generic error code = %d, want %d", got.Code, CodeInternal)
	}
}

func TestValidatePart(t *testing.T) {
	for _, p := range []int{1, 2} {
		if err := ValidatePart(p); err != nil {
			t.Errorf("ValidatePart(%d): %v", p, err)
		}
	}
	if err := ValidatePart(0); !errors.Is(err, ErrInvalidPart) {
		t.Errorf("ValidatePart(0) = %v, want ErrInvalidPart", err)
	}
}

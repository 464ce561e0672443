package solution

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	ErrUnknownDay     = errors.New("no solution registered for day")
	ErrInvalidPart    = errors.New("part must be 1 or 2")
	ErrNotImplemented = errors.New("part not implemented")
)

type Solution interface {
	Day() int
	Title() string
	Part1(input string) (string, error)
	Part2(input string) (string, error)
}

type Registry struct {
	mu        sync.RWMutex
	solutions map[int]Solution
}

func NewRegistry() *Registry {
	return &Registry{
		solutions: make(map[int]Solution),
	}
}

// Default returns a registry holding every implemented day.
func Default() *Registry {
	r := NewRegistry()
	for _, s := range []Solution{Day01{}} {
		if err := r.Register(s); err != nil {
			panic(err)
		}
	}
	return r
}

func (r *Registry) Register(s Solution) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	day := s.Day()
	if err := ValidateDay(day); err != nil {
		return err
	}
	if _, exists := r.solutions[day]; exists {
		return fmt.Errorf("solution already registered: day %d", day)
	}

	r.solutions[day] = s
	return nil
}

func (r *Registry) Get(day int) (Solution, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.solutions[day]
	return s, ok
}

func (r *Registry) Solve(day, part int, input string) (string, error) {
	s, ok := r.Get(day)
	if !ok {
		return "", fmt.Errorf("%w %d", ErrUnknownDay, day)
	}

	switch part {
	case 1:
		return s.Part1(input)
	case 2:
		return s.Part2(input)
	default:
		return "", fmt.Errorf("%w (got %d)", ErrInvalidPart, part)
	}
}

func (r *Registry) Days() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	days := make([]int, 0, len(r.solutions))
	for day := range r.solutions {
		days = append(days, day)
	}
	slices.Sort(days)
	return days
}

func ValidateDay(day int) error {
	if day < 1 || day > 25 {
		return fmt.Errorf("day must be in 1..=25 (got %d)", day)
	}
	return nil
}

func ValidatePart(part int) error {
	if part != 1 && part != 2 {
		return fmt.Errorf("%w (got %d)", ErrInvalidPart, part)
	}
	return nil
}

package solution

import (
	"errors"
	"fmt"

	"github.com/aoc-runner/aoc22/internal/calories"
)

// JSON-RPC error codes used when a solve request fails.
const (
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternal       = -32603
	CodeMalformedInput = -32001
)

type SolutionError struct {
	Code    int
	Message string
}

func (e *SolutionError) Error() string {
	return e.Message
}

func NewUnknownDayError(day int) *SolutionError {
	return &SolutionError{
		Code:    CodeMethodNotFound,
		Message: fmt.Sprintf("No solution for day %d", day),
	}
}

// Classify maps a solve failure onto a SolutionError with a stable code.
func Classify(day, part int, err error) *SolutionError {
	var serr *SolutionError
	var perr *calories.ParseError

	switch {
	case errors.As(err, &serr):
		return serr
	case errors.Is(err, ErrUnknownDay):
		return NewUnknownDayError(day)
	case errors.Is(err, ErrInvalidPart):
		return &SolutionError{Code: CodeInvalidParams, Message: err.Error()}
	case errors.As(err, &perr):
		return &SolutionError{
			Code:    CodeMalformedInput,
			Message: fmt.Sprintf("Malformed input for day %d: %v", day, perr),
		}
	default:
		return &SolutionError{
			Code:    CodeInternal,
			Message: fmt.Sprintf("Error solving day %d part %d: %v", day, part, err),
		}
	}
}

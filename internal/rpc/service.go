// Package rpc exposes the puzzle solutions as a JSON-RPC 2.0 service.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/aoc-runner/aoc22/internal/logger"
	"github.com/aoc-runner/aoc22/internal/runner"
	"github.com/aoc-runner/aoc22/internal/solution"
	"github.com/aoc-runner/aoc22/internal/store"
	"github.com/aoc-runner/aoc22/pkg/protocol"
)

var log = logger.ForComponent("rpc")

var ErrNoHistory = errors.New("answer history is disabled")

type InputCatalog interface {
	Available() ([]int, error)
}

type HistorySource interface {
	History(ctx context.Context, day, limit int) ([]store.Answer, error)
}

type Service struct {
	registry  *solution.Registry
	runner    *runner.Runner
	inputs    InputCatalog
	history   HistorySource
	startTime time.Time
}

// NewService wires the handler. history may be nil, in which case
// aoc/history fails with ErrNoHistory.
func NewService(registry *solution.Registry, r *runner.Runner, inputs InputCatalog, history HistorySource) *Service {
	return &Service{
		registry:  registry,
		runner:    r,
		inputs:    inputs,
		history:   history,
		startTime: time.Now(),
	}
}

func (s *Service) Handler() jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(s.handle)
}

// ServeConn answers requests on rwc until the peer disconnects or ctx ends.
func (s *Service) ServeConn(ctx context.Context, rwc jsonrpc2.ObjectStream) *jsonrpc2.Conn {
	return jsonrpc2.NewConn(ctx, rwc, s.Handler())
}

func (s *Service) handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
	log.Debug("request", "method", req.Method)

	switch req.Method {
	case protocol.MethodSolve:
		var params protocol.SolveParams
		if err := decodeParams(req, &params); err != nil {
			return nil, err
		}
		return s.solve(ctx, params)

	case protocol.MethodDays:
		return s.days()

	case protocol.MethodHistory:
		var params protocol.HistoryParams
		if err := decodeParams(req, &params); err != nil {
			return nil, err
		}
		return s.historyFor(ctx, params)

	case protocol.MethodHealth:
		return protocol.HealthResult{
			Status: "healthy",
			Uptime: int64(time.Since(s.startTime).Seconds()),
		}, nil

	default:
		return nil, &jsonrpc2.Error{
			Code:    jsonrpc2.CodeMethodNotFound,
			Message: fmt.Sprintf("Method not found: %s", req.Method),
		}
	}
}

func decodeParams(req *jsonrpc2.Request, v any) error {
	if req.Params == nil {
		return nil
	}
	if err := json.Unmarshal(*req.Params, v); err != nil {
		return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
	}
	return nil
}

func (s *Service) solve(ctx context.Context, params protocol.SolveParams) (*protocol.SolveResult, error) {
	if err := solution.ValidateDay(params.Day); err != nil {
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
	}

	parts := []int{1, 2}
	if params.Part != 0 {
		if err := solution.ValidatePart(params.Part); err != nil {
			return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
		}
		parts = []int{params.Part}
	}

	if params.Input != nil {
		return s.solveText(params.Day, parts, *params.Input)
	}

	results, err := s.runner.Run(ctx, params.Day, parts...)
	if err != nil {
		return nil, toRPCError(params.Day, params.Part, err)
	}

	out := &protocol.SolveResult{Results: make([]protocol.PartResult, 0, len(results))}
	for _, r := range results {
		pr := protocol.PartResult{Day: r.Day, Part: r.Part, Answer: r.Answer, DurationNS: int64(r.Duration)}
		if r.Err != nil {
			pr.Error = r.Err.Error()
		}
		out.Results = append(out.Results, pr)
	}
	return out, nil
}

func (s *Service) solveText(day int, parts []int, text string) (*protocol.SolveResult, error) {
	out := &protocol.SolveResult{Results: make([]protocol.PartResult, 0, len(parts))}

	for _, part := range parts {
		start := time.Now()
		answer, err := s.registry.Solve(day, part, text)
		if err != nil {
			return nil, toRPCError(day, part, err)
		}
		out.Results = append(out.Results, protocol.PartResult{
			Day:        day,
			Part:       part,
			Answer:     answer,
			DurationNS: int64(time.Since(start)),
		})
	}

	return out, nil
}

func (s *Service) days() (*protocol.DaysResult, error) {
	res := &protocol.DaysResult{Registered: s.registry.Days(), Available: []int{}}

	if s.inputs != nil {
		available, err := s.inputs.Available()
		if err != nil {
			return nil, toRPCError(0, 0, err)
		}
		if available != nil {
			res.Available = available
		}
	}

	return res, nil
}

func (s *Service) historyFor(ctx context.Context, params protocol.HistoryParams) (*protocol.HistoryResult, error) {
	if s.history == nil {
		return nil, toRPCError(params.Day, 0, ErrNoHistory)
	}

	answers, err := s.history.History(ctx, params.Day, params.Limit)
	if err != nil {
		return nil, toRPCError(params.Day, 0, err)
	}

	res := &protocol.HistoryResult{Answers: make([]protocol.AnswerInfo, 0, len(answers))}
	for _, a := range answers {
		res.Answers = append(res.Answers, protocol.AnswerInfo{
			Day:        a.Day,
			Part:       a.Part,
			Answer:     a.Value,
			DurationNS: int64(a.Duration),
			InputHash:  a.InputHash,
			CreatedAt:  a.CreatedAt,
		})
	}
	return res, nil
}

func toRPCError(day, part int, err error) *jsonrpc2.Error {
	serr := solution.Classify(day, part, err)
	return &jsonrpc2.Error{Code: int64(serr.Code), Message: serr.Message}
}

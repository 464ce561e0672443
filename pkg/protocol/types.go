// Package protocol holds the JSON-RPC method names, params and results served
// by aoc22.
package protocol

import "time"

const (
	MethodSolve   = "aoc/solve"
	MethodDays    = "aoc/days"
	MethodHistory = "aoc/history"
	MethodHealth  = "health"
)

// SolveParams selects a day and part. Part 0 runs both parts. When Input is
// set it is solved directly instead of loading the day's input file, and the
// answer is not recorded.
type SolveParams struct {
	Day   int     `json:"day"`
	Part  int     `json:"part,omitempty"`
	Input *string `json:"input,omitempty"`
}

type PartResult struct {
	Day        int    `json:"day"`
	Part       int    `json:"part"`
	Answer     string `json:"answer,omitempty"`
	DurationNS int64  `json:"duration_ns"`
	Error      string `json:"error,omitempty"`
}

type SolveResult struct {
	Results []PartResult `json:"results"`
}

type DaysResult struct {
	Registered []int `json:"registered"`
	Available  []int `json:"available"`
}

type HistoryParams struct {
	Day   int `json:"day,omitempty"`
	Limit int `json:"limit,omitempty"`
}

type AnswerInfo struct {
	Day        int       `json:"day"`
	Part       int       `json:"part"`
	Answer     string    `json:"answer"`
	DurationNS int64     `json:"duration_ns"`
	InputHash  string    `json:"input_hash"`
	CreatedAt  time.Time `json:"created_at"`
}

type HistoryResult struct {
	Answers []AnswerInfo `json:"answers"`
}

type HealthResult struct {
	Status string `json:"status"`
	Uptime int64  `json:"uptime"`
}

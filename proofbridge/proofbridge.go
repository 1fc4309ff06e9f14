// Package proofbridge defines the optional Proof Execution Bridge
// collaborator: a stateless, timeout-capped call to an
// external SMT or proof engine. Nothing in the core depends on a
// bridge being present; this package exists so a caller wiring a real
// prover has a stable contract to implement against, and ships a mock
// implementation for tests and offline demos.
package proofbridge

import (
	"context"
	"time"

	"github.com/endomorphosis/deonticrag/deontic"
)

// Status is the outcome of one proof attempt.
type Status string

const (
	Success     Status = "success"
	Failure     Status = "failure"
	Timeout     Status = "timeout"
	Error       Status = "error"
	Unsupported Status = "unsupported"
)

// Result is the outcome returned by Executor.Prove.
type Result struct {
	Status        Status
	Output        string
	ExecutionTime time.Duration
	Errors        []string
}

// Executor proves a single formula using a named external prover
// (e.g. "z3", "cvc5", "coq"). Invocation is stateless: no Executor
// implementation may retain state across calls keyed by formula.
type Executor interface {
	Prove(ctx context.Context, formula deontic.Formula, prover string) (Result, error)
}

// Mock is a stateless Executor that never contacts an external
// process: every formula reports Unsupported (or Timeout when ctx is
// already done), letting callers exercise
// the bridge's call shape end-to-end without a real prover installed.
type Mock struct{}

// NewMock constructs the stateless mock Executor.
func NewMock() *Mock { return &Mock{} }

func (m *Mock) Prove(ctx context.Context, formula deontic.Formula, prover string) (Result, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return Result{Status: Timeout, ExecutionTime: time.Since(start)}, nil
	}
	return Result{
		Status:        Unsupported,
		Output:        "no proof backend configured for " + prover,
		ExecutionTime: time.Since(start),
	}, nil
}

// Package execeng runs a candidate program against a problem's test
// cases concurrently, enforces the time limit and judges each case's
// output through a comparison policy.
package execeng

import (
	"time"

	"github.com/google/uuid"

	"github.com/programme-lv/ojtool/compare"
)

// Invocation is the candidate program: an executable plus arguments.
// The engine never interprets it, it just spawns the process once per
// test case with the case's input on stdin.
type Invocation struct {
	Cmd  string
	Args []string
}

// Config tunes one run.
type Config struct {
	// MaxParallel bounds concurrently running cases. Zero means
	// one per available CPU.
	MaxParallel int

	// TimeLimit is the per-case wall clock budget. Zero means use
	// the problem's own limit, falling back to 10s when the problem
	// carries none.
	TimeLimit time.Duration

	// MemoryLimitMiB, when nonzero, flags cases whose peak resident
	// set exceeded it. Measurement is best effort (rusage); exceeding
	// the limit yields a runtime-error verdict like a judge's MLE.
	MemoryLimitMiB int

	// StopOnFirstFailure stops starting new cases once a failure is
	// seen. Already running cases finish; skipped cases are marked,
	// not dropped, so the summary always covers every case.
	StopOnFirstFailure bool

	// Comparer judges output equivalence. Defaults to compare.Exact.
	Comparer compare.Comparer
}

// ExecutionResult is the immutable outcome of one case in one run.
type ExecutionResult struct {
	CaseIndex int
	Verdict   compare.Verdict
	Skipped   bool // case never started due to early exit

	Output   []byte // captured stdout
	Stderr   []byte // captured stderr, truncated to a preview
	Elapsed  time.Duration
	MemKiB   int64 // peak resident set size, 0 when not measurable
	ExitCode int
}

// RunSummary is the complete outcome of a run: one result per test
// case, in case index order regardless of completion order.
type RunSummary struct {
	RunID   uuid.UUID
	Results []ExecutionResult
}

// Verdict is the run's overall verdict: the first non-accepted
// verdict in case index order, or Accepted when every executed case
// passed. Skipped cases are not counted against the run.
func (s *RunSummary) Verdict() compare.Verdict {
	for _, r := range s.Results {
		if r.Skipped {
			continue
		}
		if !r.Verdict.Passing() {
			return r.Verdict
		}
	}
	return compare.Accepted
}

// Passed reports whether every executed case was accepted and none
// were skipped.
func (s *RunSummary) Passed() bool {
	for _, r := range s.Results {
		if r.Skipped || !r.Verdict.Passing() {
			return false
		}
	}
	return true
}

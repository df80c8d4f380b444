// Package judge defines the data model shared by all judge-site
// backends and the registry that picks a backend for a problem URL.
package judge

import "time"

// Problem is one judge problem: its canonical URL, resource limits
// and the ordered sample test cases scraped from the problem page.
// A Problem is immutable once produced by a backend; refreshing a
// problem produces a new value.
type Problem struct {
	URL   string // canonical problem URL, identity of the problem
	Title string

	TimeLimitMs    int // wall clock, milliseconds
	MemoryLimitMiB int

	Cases []TestCase // contiguous, index order, never reordered
}

// TestCase is a single sample input with an optional expected answer.
// Interactive problems have input-only cases: Answer stays nil and
// judging them requires an external checker.
type TestCase struct {
	Input  []byte
	Answer []byte // nil when the case is input-only
	Label  string // human label from the page, e.g. "Sample 1"
}

// HasAnswer reports whether the case carries an expected output.
func (tc TestCase) HasAnswer() bool {
	return tc.Answer != nil
}

// SubmissionHandle identifies a submission accepted by a judge so its
// status can be polled later.
type SubmissionHandle struct {
	ServiceID string // backend that accepted the submission
	StatusURL string // page to poll
	ID        string // site-specific submission id, may be empty
}

// SubmissionStatus is the judge-side state of a submission.
type SubmissionStatus string

const (
	StatusPending            SubmissionStatus = "pending"
	StatusAccepted           SubmissionStatus = "accepted"
	StatusWrongAnswer        SubmissionStatus = "wrong_answer"
	StatusTimeLimitExceeded  SubmissionStatus = "time_limit_exceeded"
	StatusRuntimeError       SubmissionStatus = "runtime_error"
	StatusCompileError       SubmissionStatus = "compile_error"
	StatusInternalJudgeError SubmissionStatus = "internal_judge_error"
)

// Final reports whether the judge will not change this status anymore.
func (s SubmissionStatus) Final() bool {
	return s != StatusPending
}

// Submission pairs a handle with the time it was accepted.
type Submission struct {
	Handle      SubmissionHandle
	SubmittedAt time.Time
}

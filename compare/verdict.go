// Package compare judges output equivalence between a program's
// actual output and a test case's expected answer, under pluggable
// comparison policies.
package compare

// Verdict is the judged outcome of one test case.
type Verdict string

const (
	Accepted          Verdict = "AC"
	WrongAnswer       Verdict = "WA"
	TimeLimitExceeded Verdict = "TLE"
	RuntimeError      Verdict = "RE"
	// PresentationError means the output is correct except for
	// trailing whitespace or newlines. Only exact mode reports it.
	PresentationError Verdict = "PE"
)

// Display returns the conventional long name of the verdict.
func (v Verdict) Display() string {
	switch v {
	case Accepted:
		return "Accepted"
	case WrongAnswer:
		return "Wrong Answer"
	case TimeLimitExceeded:
		return "Time Limit Exceeded"
	case RuntimeError:
		return "Runtime Error"
	case PresentationError:
		return "Presentation Error"
	}
	return string(v)
}

// Passing reports whether the verdict counts as a pass.
func (v Verdict) Passing() bool {
	return v == Accepted
}

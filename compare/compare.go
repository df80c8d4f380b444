package compare

import (
	"bytes"
	"context"
	"strconv"
	"strings"
)

// Case carries everything a policy may need to judge one test case.
// Expected may be nil for input-only cases; only the external checker
// policy can judge those.
type Case struct {
	Input    []byte
	Expected []byte
	Actual   []byte
}

// Comparer is one output-equivalence policy. Implementations return
// Accepted, WrongAnswer or PresentationError; resource verdicts
// (TLE, RE) are decided by the execution engine before comparison.
type Comparer interface {
	Compare(ctx context.Context, c Case) (Verdict, error)
}

// Exact compares byte-for-byte after normalizing the trailing
// newline. A mismatch that disappears once trailing whitespace is
// stripped from every line is reported as PresentationError.
type Exact struct{}

func (Exact) Compare(_ context.Context, c Case) (Verdict, error) {
	exp := normalizeTrailingNewline(c.Expected)
	act := normalizeTrailingNewline(c.Actual)
	if bytes.Equal(exp, act) {
		return Accepted, nil
	}
	if bytes.Equal(stripTrailingSpace(exp), stripTrailingSpace(act)) {
		return PresentationError, nil
	}
	return WrongAnswer, nil
}

// Tolerant tokenizes both outputs on whitespace. Numeric tokens must
// agree within Eps, absolute or relative; everything else must match
// exactly. A token-count mismatch is a wrong answer.
type Tolerant struct {
	Eps float64
}

func (t Tolerant) Compare(_ context.Context, c Case) (Verdict, error) {
	expTokens := strings.Fields(string(c.Expected))
	actTokens := strings.Fields(string(c.Actual))
	if len(expTokens) != len(actTokens) {
		return WrongAnswer, nil
	}
	for i := range expTokens {
		if !t.tokensMatch(expTokens[i], actTokens[i]) {
			return WrongAnswer, nil
		}
	}
	return Accepted, nil
}

func (t Tolerant) tokensMatch(exp, act string) bool {
	expF, expErr := strconv.ParseFloat(exp, 64)
	actF, actErr := strconv.ParseFloat(act, 64)
	if expErr != nil || actErr != nil {
		return exp == act
	}
	diff := expF - actF
	if diff < 0 {
		diff = -diff
	}
	if diff <= t.Eps {
		return true
	}
	mag := expF
	if mag < 0 {
		mag = -mag
	}
	return diff <= t.Eps*mag
}

// normalizeTrailingNewline ensures non-empty output ends with exactly
// one newline so a missing final newline alone never fails a case.
func normalizeTrailingNewline(b []byte) []byte {
	trimmed := bytes.TrimRight(b, "\n")
	if len(trimmed) == 0 {
		return []byte{}
	}
	return append(append([]byte{}, trimmed...), '\n')
}

func stripTrailingSpace(b []byte) []byte {
	lines := bytes.Split(b, []byte("\n"))
	for i := range lines {
		lines[i] = bytes.TrimRight(lines[i], " \t\r")
	}
	joined := bytes.Join(lines, []byte("\n"))
	return bytes.TrimRight(joined, "\n")
}

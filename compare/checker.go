package compare

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Checker delegates judging to an external checker program, for
// problems where no single expected output exists (interactive,
// multiple valid answers). The checker is invoked as
//
//	<cmd> <input-file> <expected-file> <actual-file>
//
// and its exit status maps to the verdict: 0 is Accepted, any other
// exit code is WrongAnswer. Failing to launch the checker at all is a
// real error, not a verdict.
type Checker struct {
	Cmd  string
	Args []string // extra args placed before the three file paths
}

func (ch Checker) Compare(ctx context.Context, c Case) (Verdict, error) {
	dir, err := os.MkdirTemp("", "ojtool-checker-")
	if err != nil {
		return WrongAnswer, fmt.Errorf("failed to create checker workspace: %w", err)
	}
	defer os.RemoveAll(dir)

	inPath := filepath.Join(dir, "case.in")
	expPath := filepath.Join(dir, "case.ans")
	actPath := filepath.Join(dir, "case.out")
	for _, f := range []struct {
		path string
		data []byte
	}{
		{inPath, c.Input},
		{expPath, c.Expected},
		{actPath, c.Actual},
	} {
		if err := os.WriteFile(f.path, f.data, 0644); err != nil {
			return WrongAnswer, fmt.Errorf("failed to write checker file: %w", err)
		}
	}

	args := append(append([]string{}, ch.Args...), inPath, expPath, actPath)
	cmd := exec.CommandContext(ctx, ch.Cmd, args...)
	err = cmd.Run()
	if err == nil {
		return Accepted, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return WrongAnswer, nil
	}
	return WrongAnswer, fmt.Errorf("failed to run checker %s: %w", ch.Cmd, err)
}

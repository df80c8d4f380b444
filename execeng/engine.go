package execeng

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/programme-lv/ojtool/compare"
	"github.com/programme-lv/ojtool/judge"
	"github.com/programme-lv/ojtool/logger"
)

// ErrRunCancelled is returned when the run's context is cancelled
// before every case finished. Partial results are discarded: callers
// get either a complete summary or this error, never a short one.
var ErrRunCancelled = errors.New("run cancelled before all cases finished")

const stderrPreviewLimit = 4096

// Run executes the candidate program against every test case of the
// problem and returns a complete, index-ordered summary.
//
// The time limit is wall clock, not CPU time: without a sandbox the
// engine cannot meter CPU fairly, and wall clock matches what a user
// watching the terminal experiences.
func Run(ctx context.Context, inv Invocation, problem *judge.Problem, cfg Config) (*RunSummary, error) {
	if len(problem.Cases) == 0 {
		return nil, fmt.Errorf("problem %s has no test cases", problem.URL)
	}
	cfg = withDefaults(cfg, problem)

	runID := uuid.New()
	// every log line below this point carries the run id, including
	// ones written through the context by helpers
	ctx = logger.WithRunID(ctx, runID.String())
	log := logger.ForComponent(ctx, "execeng")
	log.Info("starting run",
		"cmd", inv.Cmd,
		"cases", len(problem.Cases),
		"time_limit", cfg.TimeLimit,
		"max_parallel", cfg.MaxParallel)

	sem := semaphore.NewWeighted(int64(cfg.MaxParallel))
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []ExecutionResult
		failed  atomic.Bool
	)

	for i := range problem.Cases {
		if ctx.Err() != nil {
			break
		}
		// cooperative early exit: running cases finish, new ones
		// are recorded as skipped
		if cfg.StopOnFirstFailure && failed.Load() {
			mu.Lock()
			results = append(results, ExecutionResult{
				CaseIndex: i,
				Skipped:   true,
			})
			mu.Unlock()
			continue
		}

		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(idx int, tc judge.TestCase) {
			defer wg.Done()
			defer sem.Release(1)

			res := runCase(ctx, inv, idx, tc, cfg)
			if res.Verdict != compare.Accepted {
				failed.Store(true)
			}
			mu.Lock()
			results = append(results, res)
			mu.Unlock()

			log.Debug("case finished",
				"case", idx,
				"verdict", string(res.Verdict),
				"elapsed", res.Elapsed)
		}(i, problem.Cases[i])
	}

	wg.Wait()

	if ctx.Err() != nil {
		log.Warn("run cancelled", "completed_cases", len(results))
		return nil, ErrRunCancelled
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].CaseIndex < results[j].CaseIndex
	})
	summary := &RunSummary{RunID: runID, Results: results}
	log.Info("run finished", "verdict", summary.Verdict().Display())
	return summary, nil
}

func withDefaults(cfg Config, problem *judge.Problem) Config {
	if cfg.MaxParallel <= 0 {
		cfg.MaxParallel = runtime.GOMAXPROCS(0)
	}
	if cfg.TimeLimit <= 0 {
		if problem.TimeLimitMs > 0 {
			cfg.TimeLimit = time.Duration(problem.TimeLimitMs) * time.Millisecond
		} else {
			cfg.TimeLimit = 10 * time.Second
		}
	}
	if cfg.Comparer == nil {
		cfg.Comparer = compare.Exact{}
	}
	return cfg
}

// runCase spawns the program for one case. An execution failure is a
// verdict, never an error: every started case yields exactly one
// result.
func runCase(parent context.Context, inv Invocation, idx int, tc judge.TestCase, cfg Config) ExecutionResult {
	res := ExecutionResult{CaseIndex: idx}

	ctx, cancel := context.WithTimeout(parent, cfg.TimeLimit)
	defer cancel()

	cmd := exec.CommandContext(ctx, inv.Cmd, inv.Args...)
	setupProcessGroup(cmd)
	cmd.Stdin = bytes.NewReader(tc.Input)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// give the process a moment to die after the kill before Wait
	// gives up on its pipes
	cmd.WaitDelay = time.Second

	start := time.Now()
	err := cmd.Run()
	res.Elapsed = time.Since(start)
	res.Output = stdout.Bytes()
	res.Stderr = truncate(stderr.Bytes(), stderrPreviewLimit)
	res.MemKiB = peakMemKiB(cmd)

	// the deadline alone is not enough: the process may have finished
	// right before the timer fired
	if err != nil && ctx.Err() == context.DeadlineExceeded && parent.Err() == nil {
		res.Verdict = compare.TimeLimitExceeded
		return res
	}
	if parent.Err() != nil {
		// run-level cancellation; result is discarded by Run
		res.Verdict = compare.RuntimeError
		return res
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		}
		res.Verdict = compare.RuntimeError
		return res
	}
	if cfg.MemoryLimitMiB > 0 && res.MemKiB > int64(cfg.MemoryLimitMiB)*1024 {
		res.Verdict = compare.RuntimeError
		return res
	}

	if tc.HasAnswer() || isChecker(cfg.Comparer) {
		verdict, cmpErr := cfg.Comparer.Compare(parent, compare.Case{
			Input:    tc.Input,
			Expected: tc.Answer,
			Actual:   res.Output,
		})
		if cmpErr != nil {
			// a broken checker must not masquerade as a judged WA
			res.Verdict = compare.RuntimeError
			res.Stderr = append(res.Stderr, []byte("\ncomparator: "+cmpErr.Error())...)
			return res
		}
		res.Verdict = verdict
		return res
	}

	// input-only case without a checker: running it without crashing
	// is all that can be judged
	res.Verdict = compare.Accepted
	return res
}

func isChecker(c compare.Comparer) bool {
	_, ok := c.(compare.Checker)
	return ok
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}

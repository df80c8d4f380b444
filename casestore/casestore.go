// Package casestore persists scraped test cases on disk: one
// directory per problem holding a problem.toml manifest and a tests/
// directory with zero-padded input/answer file pairs, so ordinary
// lexical sort lists cases in index order.
package casestore

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/programme-lv/ojtool/judge"
)

const (
	manifestFilename = "problem.toml"
	testsDirname     = "tests"
	inputExt         = ".in"
	answerExt        = ".ans"
)

// Store is an on-disk test case store rooted at a directory.
// Saves for the same problem identity must not run concurrently;
// callers serialize them.
type Store struct {
	root string
}

func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the store's base directory.
func (s *Store) Root() string {
	return s.root
}

// ProblemDir returns the directory that holds (or would hold) the
// cases of the problem identified by rawURL.
func (s *Store) ProblemDir(rawURL string) string {
	return filepath.Join(s.root, problemKey(rawURL))
}

// problemKey derives a filesystem-safe directory name from a problem
// URL: the meaningful tail of the path plus a short hash of the full
// URL so distinct problems never collide.
func problemKey(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	short := hex.EncodeToString(sum[:4])

	u, err := url.Parse(rawURL)
	if err != nil {
		return short
	}
	segs := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
	tail := ""
	if len(segs) > 0 {
		tail = segs[len(segs)-1]
	}
	tail = sanitize(tail)
	if tail == "" {
		return short
	}
	return tail + "-" + short
}

func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "._")
}

func caseBasename(index int) string {
	return fmt.Sprintf("%03d", index)
}

// Save writes the problem's cases and manifest. The write is atomic:
// everything goes into a temp directory that is renamed over the old
// one, so a crash mid-write never leaves partial cases visible.
//
// Consistency guard: when the store already holds cases for this
// problem and the new case count is smaller, the old cases are kept
// unless force is set. A transient scrape that returned fewer cases
// than exist must not destroy good data.
func (s *Store) Save(problem *judge.Problem, force bool) error {
	log := slog.Default().With("module", "casestore")
	dir := s.ProblemDir(problem.URL)

	if !force {
		if old, err := s.readManifest(dir); err == nil {
			if len(problem.Cases) < old.CaseCount {
				return ErrCaseCountDecreased(len(problem.Cases), old.CaseCount)
			}
		}
	}

	tmp, err := os.MkdirTemp(s.root, ".tmp-save-")
	if os.IsNotExist(err) {
		if mkErr := os.MkdirAll(s.root, 0755); mkErr != nil {
			return fmt.Errorf("failed to create store root: %w", mkErr)
		}
		tmp, err = os.MkdirTemp(s.root, ".tmp-save-")
	}
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	if err := writeProblemDir(tmp, problem); err != nil {
		return err
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove previous problem directory: %w", err)
	}
	if err := os.Rename(tmp, dir); err != nil {
		return fmt.Errorf("failed to move problem directory into place: %w", err)
	}
	log.Info("saved problem cases", "url", problem.URL, "dir", dir, "cases", len(problem.Cases))
	return nil
}

func writeProblemDir(dir string, problem *judge.Problem) error {
	manifest, err := encodeManifest(problem)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, manifestFilename), manifest, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", manifestFilename, err)
	}

	testsDir := filepath.Join(dir, testsDirname)
	if err := os.Mkdir(testsDir, 0755); err != nil {
		return fmt.Errorf("failed to create tests directory: %w", err)
	}
	for i, tc := range problem.Cases {
		base := caseBasename(i)
		inPath := filepath.Join(testsDir, base+inputExt)
		if err := os.WriteFile(inPath, tc.Input, 0644); err != nil {
			return fmt.Errorf("failed to write input file %s: %w", inPath, err)
		}
		if tc.HasAnswer() {
			ansPath := filepath.Join(testsDir, base+answerExt)
			if err := os.WriteFile(ansPath, tc.Answer, 0644); err != nil {
				return fmt.Errorf("failed to write answer file %s: %w", ansPath, err)
			}
		}
	}
	return nil
}

// Load reads a previously saved problem back from disk. A missing
// directory yields a cases-not-found error; a manifest whose case
// count disagrees with the files on disk is reported as corruption.
func (s *Store) Load(rawURL string) (*judge.Problem, error) {
	dir := s.ProblemDir(rawURL)
	m, err := s.readManifest(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCasesNotFound(rawURL)
		}
		return nil, err
	}

	cases, err := readTestsDir(filepath.Join(dir, testsDirname), m)
	if err != nil {
		return nil, err
	}
	if len(cases) != m.CaseCount {
		return nil, fmt.Errorf("store corrupt for %s: manifest says %d cases, found %d",
			rawURL, m.CaseCount, len(cases))
	}

	return &judge.Problem{
		URL:            m.URL,
		Title:          m.Title,
		TimeLimitMs:    m.TimeLimitMs,
		MemoryLimitMiB: m.MemoryLimitMiB,
		Cases:          cases,
	}, nil
}

func readTestsDir(testsDir string, m *manifest) ([]judge.TestCase, error) {
	entries, err := os.ReadDir(testsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read tests directory: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	byBase := make(map[string]*judge.TestCase)
	order := []string{}
	for _, e := range entries {
		name := e.Name()
		ext := filepath.Ext(name)
		base := strings.TrimSuffix(name, ext)
		if ext != inputExt && ext != answerExt {
			continue
		}
		tc, ok := byBase[base]
		if !ok {
			tc = &judge.TestCase{}
			byBase[base] = tc
			order = append(order, base)
		}
		data, err := os.ReadFile(filepath.Join(testsDir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read case file %s: %w", name, err)
		}
		if ext == inputExt {
			tc.Input = data
		} else {
			tc.Answer = data
		}
	}

	cases := make([]judge.TestCase, 0, len(order))
	for i, base := range order {
		tc := byBase[base]
		if i < len(m.CaseLabels) {
			tc.Label = m.CaseLabels[i]
		}
		cases = append(cases, *tc)
	}
	return cases, nil
}

// Saved reports whether the store holds cases for rawURL, and when
// they were fetched.
func (s *Store) Saved(rawURL string) (bool, time.Time) {
	m, err := s.readManifest(s.ProblemDir(rawURL))
	if err != nil {
		return false, time.Time{}
	}
	return true, m.FetchedAt
}

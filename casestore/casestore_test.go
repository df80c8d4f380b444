package casestore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/programme-lv/ojtool/casestore"
	"github.com/programme-lv/ojtool/judge"
	"github.com/programme-lv/ojtool/srvcerror"
)

const problemURL = "https://atcoder.jp/contests/abc123/tasks/abc123_a"

func sampleProblem(nCases int) *judge.Problem {
	p := &judge.Problem{
		URL:            problemURL,
		Title:          "A - Example",
		TimeLimitMs:    2000,
		MemoryLimitMiB: 1024,
	}
	for i := 0; i < nCases; i++ {
		p.Cases = append(p.Cases, judge.TestCase{
			Input:  []byte("3\n1 2 3\n"),
			Answer: []byte("6\n"),
			Label:  "Sample " + string(rune('1'+i)),
		})
	}
	return p
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := casestore.NewStore(t.TempDir())

	// binary-unsafe content: tabs, trailing spaces, no final newline
	problem := sampleProblem(0)
	problem.Cases = []judge.TestCase{
		{Input: []byte("a\tb  \n  c\n"), Answer: []byte("x \t\n"), Label: "Sample 1"},
		{Input: []byte("no trailing newline"), Answer: []byte("ok\n"), Label: "Sample 2"},
	}

	require.NoError(t, store.Save(problem, false))

	loaded, err := store.Load(problemURL)
	require.NoError(t, err)
	assert.Equal(t, problem.URL, loaded.URL)
	assert.Equal(t, problem.Title, loaded.Title)
	assert.Equal(t, problem.TimeLimitMs, loaded.TimeLimitMs)
	assert.Equal(t, problem.MemoryLimitMiB, loaded.MemoryLimitMiB)
	require.Equal(t, len(problem.Cases), len(loaded.Cases))
	for i := range problem.Cases {
		assert.Equal(t, problem.Cases[i].Input, loaded.Cases[i].Input, "case %d input", i)
		assert.Equal(t, problem.Cases[i].Answer, loaded.Cases[i].Answer, "case %d answer", i)
		assert.Equal(t, problem.Cases[i].Label, loaded.Cases[i].Label, "case %d label", i)
	}
}

func TestCaseFilesSortInIndexOrder(t *testing.T) {
	store := casestore.NewStore(t.TempDir())
	problem := sampleProblem(0)
	for i := 0; i < 12; i++ {
		problem.Cases = append(problem.Cases, judge.TestCase{
			Input:  []byte{byte('0' + i%10), '\n'},
			Answer: []byte("y\n"),
		})
	}
	require.NoError(t, store.Save(problem, false))

	entries, err := os.ReadDir(filepath.Join(store.ProblemDir(problemURL), "tests"))
	require.NoError(t, err)
	// ReadDir returns lexical order; the first pair must be case 0,
	// the last pair case 11, with zero padding keeping 10 after 9
	require.Equal(t, 24, len(entries))
	assert.Equal(t, "000.ans", entries[0].Name())
	assert.Equal(t, "000.in", entries[1].Name())
	assert.Equal(t, "011.in", entries[23].Name())

	loaded, err := store.Load(problemURL)
	require.NoError(t, err)
	for i, tc := range loaded.Cases {
		assert.Equal(t, byte('0'+i%10), tc.Input[0], "case %d out of order", i)
	}
}

func TestInputOnlyCaseHasNoAnswerFile(t *testing.T) {
	store := casestore.NewStore(t.TempDir())
	problem := sampleProblem(0)
	problem.Cases = []judge.TestCase{{Input: []byte("interactive\n")}}

	require.NoError(t, store.Save(problem, false))

	loaded, err := store.Load(problemURL)
	require.NoError(t, err)
	require.Equal(t, 1, len(loaded.Cases))
	assert.False(t, loaded.Cases[0].HasAnswer())
}

func TestConsistencyGuardKeepsOldCases(t *testing.T) {
	store := casestore.NewStore(t.TempDir())

	require.NoError(t, store.Save(sampleProblem(3), false))

	// a transient scrape came back with fewer cases
	err := store.Save(sampleProblem(2), false)
	require.Error(t, err)
	assert.True(t, srvcerror.HasCode(err, casestore.ErrCodeCaseCountDecreased))

	loaded, err := store.Load(problemURL)
	require.NoError(t, err)
	assert.Equal(t, 3, len(loaded.Cases))
}

func TestForceRefreshOverwrites(t *testing.T) {
	store := casestore.NewStore(t.TempDir())

	require.NoError(t, store.Save(sampleProblem(3), false))
	require.NoError(t, store.Save(sampleProblem(2), true))

	loaded, err := store.Load(problemURL)
	require.NoError(t, err)
	assert.Equal(t, 2, len(loaded.Cases))
}

func TestSavedReportsPresenceAndFetchTime(t *testing.T) {
	store := casestore.NewStore(t.TempDir())

	ok, _ := store.Saved(problemURL)
	assert.False(t, ok)

	require.NoError(t, store.Save(sampleProblem(2), false))

	ok, fetched := store.Saved(problemURL)
	assert.True(t, ok)
	assert.False(t, fetched.IsZero())
}

func TestLoadMissingProblem(t *testing.T) {
	store := casestore.NewStore(t.TempDir())
	_, err := store.Load("https://atcoder.jp/contests/xyz/tasks/xyz_a")
	require.Error(t, err)
	assert.True(t, srvcerror.HasCode(err, casestore.ErrCodeCasesNotFound))
}

func TestDistinctURLsGetDistinctDirs(t *testing.T) {
	store := casestore.NewStore(t.TempDir())
	a := store.ProblemDir("https://atcoder.jp/contests/abc001/tasks/abc001_a")
	b := store.ProblemDir("https://atcoder.jp/contests/abc002/tasks/abc001_a")
	assert.NotEqual(t, a, b)
}

func TestArchiveRoundTrip(t *testing.T) {
	store := casestore.NewStore(t.TempDir())
	problem := sampleProblem(2)
	require.NoError(t, store.Save(problem, false))

	archivePath := filepath.Join(t.TempDir(), "abc123_a.tar.zst")
	require.NoError(t, store.ExportArchive(problemURL, archivePath))

	other := casestore.NewStore(t.TempDir())
	require.NoError(t, other.ImportArchive(problemURL, archivePath))

	loaded, err := other.Load(problemURL)
	require.NoError(t, err)
	assert.Equal(t, 2, len(loaded.Cases))
	assert.Equal(t, problem.Cases[0].Input, loaded.Cases[0].Input)
}

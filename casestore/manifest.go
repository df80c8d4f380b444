package casestore

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/programme-lv/ojtool/judge"
)

// manifest is the problem.toml payload: enough metadata to rebuild
// the Problem on load and to run consistency checks against a fresh
// scrape.
type manifest struct {
	URL            string    `toml:"url"`
	Title          string    `toml:"title"`
	TimeLimitMs    int       `toml:"time_limit_ms"`
	MemoryLimitMiB int       `toml:"memory_limit_mib"`
	CaseCount      int       `toml:"case_count"`
	CaseLabels     []string  `toml:"case_labels"`
	FetchedAt      time.Time `toml:"fetched_at"`
}

func encodeManifest(problem *judge.Problem) ([]byte, error) {
	labels := make([]string, 0, len(problem.Cases))
	for _, tc := range problem.Cases {
		labels = append(labels, tc.Label)
	}
	m := manifest{
		URL:            problem.URL,
		Title:          problem.Title,
		TimeLimitMs:    problem.TimeLimitMs,
		MemoryLimitMiB: problem.MemoryLimitMiB,
		CaseCount:      len(problem.Cases),
		CaseLabels:     labels,
		FetchedAt:      time.Now().UTC(),
	}

	buf := bytes.NewBuffer(make([]byte, 0))
	err := toml.NewEncoder(buf).
		SetTablesInline(false).
		SetIndentTables(true).Encode(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode the problem.toml: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Store) readManifest(dir string) (*manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFilename))
	if err != nil {
		return nil, err
	}
	var m manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", manifestFilename, err)
	}
	return &m, nil
}

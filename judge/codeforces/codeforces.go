// Package codeforces implements the judge backend for codeforces.com.
package codeforces

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/programme-lv/ojtool/httpc"
	"github.com/programme-lv/ojtool/judge"
)

const host = "codeforces.com"

// Pattern matches both URL shapes Codeforces uses for problems:
// /contest/<id>/problem/<idx> and /problemset/problem/<id>/<idx>.
func Pattern() judge.Pattern {
	return judge.Pattern{Host: host}
}

type Service struct {
	logger *slog.Logger
}

func New() *Service {
	return &Service{logger: slog.Default().With("module", "codeforces")}
}

func (s *Service) ID() string { return "codeforces" }

var (
	contestProblemRe = regexp.MustCompile(`^/contest/(\d+)/problem/([A-Za-z]\d?)/?$`)
	problemsetRe     = regexp.MustCompile(`^/problemset/problem/(\d+)/([A-Za-z]\d?)/?$`)
)

// problemCode extracts the "1234A" style code used by the submit form.
func problemCode(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	for _, re := range []*regexp.Regexp{contestProblemRe, problemsetRe} {
		if m := re.FindStringSubmatch(u.Path); m != nil {
			return m[1] + strings.ToUpper(m[2]), nil
		}
	}
	return "", fmt.Errorf("not a codeforces problem url: %s", rawURL)
}

func (s *Service) FetchProblem(ctx context.Context, rawURL string, client httpc.Client) (*judge.Problem, error) {
	if _, err := problemCode(rawURL); err != nil {
		return nil, judge.ErrScrapeFormat("unexpected codeforces problem url shape").SetDebug(err)
	}

	resp, err := client.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, judge.ErrScrapeFormat("codeforces page is not parseable html").SetDebug(err)
	}

	statement := doc.Find("div.problem-statement")
	if statement.Length() == 0 {
		return nil, judge.ErrScrapeFormat("codeforces problem statement container missing")
	}

	title := strings.TrimSpace(statement.Find("div.title").First().Text())

	timeLimitMs, err := parseTimeLimit(statement)
	if err != nil {
		return nil, err
	}
	memLimitMiB, err := parseMemoryLimit(statement)
	if err != nil {
		return nil, err
	}

	cases, err := parseSampleTests(statement)
	if err != nil {
		return nil, err
	}

	return &judge.Problem{
		URL:            resp.FinalURL,
		Title:          title,
		TimeLimitMs:    timeLimitMs,
		MemoryLimitMiB: memLimitMiB,
		Cases:          cases,
	}, nil
}

var (
	timeLimitRe = regexp.MustCompile(`([\d.]+)\s*seconds?`)
	memLimitRe  = regexp.MustCompile(`(\d+)\s*megabytes`)
)

func parseTimeLimit(statement *goquery.Selection) (int, error) {
	div := statement.Find("div.time-limit").First()
	if div.Length() == 0 {
		return 0, judge.ErrScrapeFormat("codeforces time-limit block missing")
	}
	m := timeLimitRe.FindStringSubmatch(div.Text())
	if m == nil {
		return 0, judge.ErrScrapeFormat("codeforces time limit text not recognized")
	}
	sec, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, judge.ErrScrapeFormat("codeforces time limit not numeric").SetDebug(err)
	}
	return int(sec * 1000), nil
}

func parseMemoryLimit(statement *goquery.Selection) (int, error) {
	div := statement.Find("div.memory-limit").First()
	if div.Length() == 0 {
		return 0, judge.ErrScrapeFormat("codeforces memory-limit block missing")
	}
	m := memLimitRe.FindStringSubmatch(div.Text())
	if m == nil {
		return 0, judge.ErrScrapeFormat("codeforces memory limit text not recognized")
	}
	mib, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, judge.ErrScrapeFormat("codeforces memory limit not numeric").SetDebug(err)
	}
	return mib, nil
}

func parseSampleTests(statement *goquery.Selection) ([]judge.TestCase, error) {
	sampleTest := statement.Find("div.sample-test").First()
	if sampleTest.Length() == 0 {
		return nil, judge.ErrScrapeFormat("codeforces sample-test block missing")
	}

	inputs := sampleTest.Find("div.input pre")
	outputs := sampleTest.Find("div.output pre")
	if inputs.Length() == 0 {
		return nil, judge.ErrScrapeFormat("no sample inputs inside codeforces sample-test block")
	}
	if inputs.Length() != outputs.Length() {
		return nil, judge.ErrScrapeFormat(fmt.Sprintf(
			"codeforces sample count mismatch: %d inputs, %d outputs",
			inputs.Length(), outputs.Length()))
	}

	cases := make([]judge.TestCase, 0, inputs.Length())
	for i := 0; i < inputs.Length(); i++ {
		cases = append(cases, judge.TestCase{
			Input:  preText(inputs.Eq(i)),
			Answer: preText(outputs.Eq(i)),
			Label:  fmt.Sprintf("Sample %d", i+1),
		})
	}
	return cases, nil
}

// preText extracts sample text from a pre block. Newer Codeforces
// pages wrap every line in its own div for highlighting; when those
// are present the text must be reassembled line by line, otherwise
// goquery would concatenate the lines without separators.
func preText(pre *goquery.Selection) []byte {
	lineDivs := pre.ChildrenFiltered("div")
	if lineDivs.Length() == 0 {
		return []byte(pre.Text())
	}
	var b strings.Builder
	lineDivs.Each(func(_ int, line *goquery.Selection) {
		b.WriteString(line.Text())
		b.WriteString("\n")
	})
	return []byte(b.String())
}

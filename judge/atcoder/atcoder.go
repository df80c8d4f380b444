// Package atcoder implements the judge backend for atcoder.jp.
package atcoder

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

const host = "atcoder.jp"

// Pattern matches AtCoder task URLs like
// https://atcoder.jp/contests/abc123/tasks/abc123_a
func Pattern() judge.Pattern {
	return judge.Pattern{Host: host, PathPrefix: "/contests/"}
}

type Service struct {
	logger *slog.Logger
}

func New() *Service {
	return &Service{logger: slog.Default().With("module", "atcoder")}
}

func (s *Service) ID() string { return "atcoder" }

var taskURLRe = regexp.MustCompile(`^/contests/([^/]+)/tasks/([^/]+)/?$`)

// splitTaskURL extracts (contest, task screen name) from a task URL.
func splitTaskURL(rawURL string) (contest, task string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	m := taskURLRe.FindStringSubmatch(u.Path)
	if m == nil {
		return "", "", fmt.Errorf("not an atcoder task url: %s", rawURL)
	}
	return m[1], m[2], nil
}

func (s *Service) FetchProblem(ctx context.Context, rawURL string, client httpc.Client) (*judge.Problem, error) {
	contest, task, err := splitTaskURL(rawURL)
	if err != nil {
		return nil, judge.ErrScrapeFormat("unexpected atcoder task url shape").SetDebug(err)
	}
	canonical := fmt.Sprintf("https://%s/contests/%s/tasks/%s", host, contest, task)

	resp, err := client.Get(ctx, canonical)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, judge.ErrScrapeFormat("atcoder page is not parseable html").SetDebug(err)
	}

	statement := doc.Find("#task-statement")
	if statement.Length() == 0 {
		return nil, judge.ErrScrapeFormat("atcoder task statement container missing")
	}

	title := strings.TrimSpace(doc.Find("span.h2").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").Text())
	}

	timeLimitMs, err := parseTimeLimit(doc)
	if err != nil {
		return nil, err
	}
	memLimitMiB := parseMemoryLimit(doc, s.logger)

	cases, err := parseSampleCases(statement)
	if err != nil {
		return nil, err
	}

	return &judge.Problem{
		URL:            canonical,
		Title:          title,
		TimeLimitMs:    timeLimitMs,
		MemoryLimitMiB: memLimitMiB,
		Cases:          cases,
	}, nil
}

var timeLimitRe = regexp.MustCompile(`Time Limit:\s*([\d.]+)\s*(m?sec)`)

func parseTimeLimit(doc *goquery.Document) (int, error) {
	text := doc.Find("p").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		return strings.Contains(sel.Text(), "Time Limit")
	}).First().Text()
	m := timeLimitRe.FindStringSubmatch(text)
	if m == nil {
		return 0, judge.ErrScrapeFormat("atcoder time limit line missing")
	}
	val, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, judge.ErrScrapeFormat("atcoder time limit not numeric").SetDebug(err)
	}
	if m[2] == "msec" {
		return int(val), nil
	}
	return int(val * 1000), nil
}

// sampleHeaderRe accepts both English and Japanese sample headers.
var sampleHeaderRe = regexp.MustCompile(`^(Sample (Input|Output)\s*(\d*)|(入力例|出力例)\s*(\d*))`)

// parseSampleCases walks the statement's h3 headers looking for
// sample sections and pairs each input with the output of the same
// ordinal. English sections are preferred when the page carries both
// languages, to avoid doubling every case.
func parseSampleCases(statement *goquery.Selection) ([]judge.TestCase, error) {
	scope := statement.Find("span.lang-en")
	if scope.Length() == 0 {
		scope = statement
	}

	type sample struct {
		label string
		data  []byte
	}
	var inputs, outputs []sample

	scope.Find("h3").Each(func(_ int, h *goquery.Selection) {
		header := strings.TrimSpace(h.Text())
		m := sampleHeaderRe.FindStringSubmatch(header)
		if m == nil {
			return
		}
		pre := h.Parent().Find("pre").First()
		if pre.Length() == 0 {
			// some layouts put the pre after the h3, not inside the
			// same section
			pre = h.NextAllFiltered("pre").First()
		}
		if pre.Length() == 0 {
			return
		}
		data := []byte(pre.Text())
		num := m[3]
		if num == "" {
			num = m[5]
		}
		isInput := strings.HasPrefix(header, "Sample Input") || strings.HasPrefix(header, "入力例")
		if isInput {
			inputs = append(inputs, sample{label: sampleLabel(num, len(inputs)+1), data: data})
		} else {
			outputs = append(outputs, sample{data: data})
		}
	})

	if len(inputs) == 0 {
		return nil, judge.ErrScrapeFormat("no sample input sections found on atcoder page")
	}

	cases := make([]judge.TestCase, 0, len(inputs))
	for i, in := range inputs {
		tc := judge.TestCase{
			Input: in.data,
			Label: in.label,
		}
		if i < len(outputs) {
			tc.Answer = outputs[i].data
		}
		cases = append(cases, tc)
	}
	return cases, nil
}

// sampleLabel keeps the site's own numbering, which can start above 1
// on pages with a shared sample section.
func sampleLabel(scraped string, fallback int) string {
	if scraped != "" {
		return "Sample " + scraped
	}
	return fmt.Sprintf("Sample %d", fallback)
}

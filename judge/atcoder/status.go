package atcoder

import (
	"bytes"
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/programme-lv/ojtool/httpc"
	"github.com/programme-lv/ojtool/judge"
)

func (s *Service) SubmissionStatus(ctx context.Context, handle judge.SubmissionHandle, client httpc.Client) (judge.SubmissionStatus, error) {
	resp, err := client.Get(ctx, handle.StatusURL)
	if err != nil {
		return judge.StatusPending, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return judge.StatusPending, judge.ErrScrapeFormat("atcoder status page is not parseable html").SetDebug(err)
	}

	// newest submission is the first row of the submissions table
	row := doc.Find("table tbody tr").First()
	if row.Length() == 0 {
		return judge.StatusPending, judge.ErrScrapeFormat("no submission rows on atcoder status page")
	}
	label := strings.TrimSpace(row.Find("span.label").First().Text())
	if label == "" {
		return judge.StatusPending, judge.ErrScrapeFormat("verdict label missing from atcoder submission row")
	}
	return mapStatusLabel(label), nil
}

// mapStatusLabel converts AtCoder's verdict abbreviations. Unknown
// labels are treated as pending so pollers keep waiting instead of
// misreporting.
func mapStatusLabel(label string) judge.SubmissionStatus {
	// judging in progress shows e.g. "3/12" or "WJ"
	if strings.Contains(label, "/") {
		return judge.StatusPending
	}
	switch label {
	case "AC":
		return judge.StatusAccepted
	case "WA":
		return judge.StatusWrongAnswer
	case "TLE":
		return judge.StatusTimeLimitExceeded
	case "RE":
		return judge.StatusRuntimeError
	case "CE":
		return judge.StatusCompileError
	case "IE":
		return judge.StatusInternalJudgeError
	case "WJ", "WR":
		return judge.StatusPending
	}
	return judge.StatusPending
}

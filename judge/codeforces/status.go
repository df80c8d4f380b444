package codeforces

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
		return judge.StatusPending, judge.ErrScrapeFormat("codeforces status page is not parseable html").SetDebug(err)
	}

	wrapper := doc.Find("span.submissionVerdictWrapper").First()
	if wrapper.Length() == 0 {
		return judge.StatusPending, judge.ErrScrapeFormat("verdict wrapper missing from codeforces status page")
	}
	verdict, ok := wrapper.Attr("submissionverdict")
	if !ok {
		return judge.StatusPending, judge.ErrScrapeFormat("submissionverdict attribute missing from codeforces status row")
	}
	return mapVerdict(verdict), nil
}

func mapVerdict(verdict string) judge.SubmissionStatus {
	switch strings.ToUpper(verdict) {
	case "OK":
		return judge.StatusAccepted
	case "WRONG_ANSWER":
		return judge.StatusWrongAnswer
	case "TIME_LIMIT_EXCEEDED":
		return judge.StatusTimeLimitExceeded
	case "RUNTIME_ERROR", "MEMORY_LIMIT_EXCEEDED":
		return judge.StatusRuntimeError
	case "COMPILATION_ERROR":
		return judge.StatusCompileError
	case "CRASHED", "FAILED", "REJECTED":
		return judge.StatusInternalJudgeError
	case "TESTING", "SUBMITTED", "":
		return judge.StatusPending
	}
	return judge.StatusPending
}

package codeforces

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/programme-lv/ojtool/httpc"
	"github.com/programme-lv/ojtool/judge"
)

const submitPageURL = "https://codeforces.com/problemset/submit"

func (s *Service) Submit(ctx context.Context, rawURL string, code []byte, language string, client httpc.Client) (*judge.SubmissionHandle, error) {
	probCode, err := problemCode(rawURL)
	if err != nil {
		return nil, judge.ErrScrapeFormat("unexpected codeforces problem url shape").SetDebug(err)
	}

	resp, err := client.Get(ctx, submitPageURL)
	if err != nil {
		return nil, err
	}
	token, err := scrapeCSRFToken(resp.Body)
	if err != nil {
		return nil, err
	}

	// Codeforces' submit form is multipart
	fields := map[string]string{
		"csrf_token":           token,
		"action":               "submitSolutionFormSubmitted",
		"submittedProblemCode": probCode,
		"programTypeId":        language,
		"source":               string(code),
		"tabSize":              "4",
	}
	postResp, err := client.PostMultipart(ctx, submitPageURL+"?csrf_token="+token, fields)
	if err != nil {
		return nil, err
	}
	if !strings.Contains(postResp.FinalURL, "/status") && !strings.Contains(postResp.FinalURL, "/my") {
		return nil, judge.ErrScrapeFormat("codeforces did not redirect to the status page after posting").
			SetDebug(fmt.Errorf("landed on %s", postResp.FinalURL))
	}

	return &judge.SubmissionHandle{
		ServiceID: s.ID(),
		StatusURL: "https://codeforces.com/problemset/status?my=on",
	}, nil
}

func scrapeCSRFToken(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", judge.ErrScrapeFormat("codeforces submit page is not parseable html").SetDebug(err)
	}
	token, ok := doc.Find(`input[name="csrf_token"]`).First().Attr("value")
	if !ok || token == "" {
		// also present as a meta tag on some layouts
		token, ok = doc.Find(`meta[name="X-Csrf-Token"]`).First().Attr("content")
	}
	if !ok || token == "" {
		return "", judge.ErrScrapeFormat("csrf token missing from codeforces submit page")
	}
	return token, nil
}

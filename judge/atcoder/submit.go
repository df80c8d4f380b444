package atcoder

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/programme-lv/ojtool/httpc"
	"github.com/programme-lv/ojtool/judge"
)

func (s *Service) Submit(ctx context.Context, rawURL string, code []byte, language string, client httpc.Client) (*judge.SubmissionHandle, error) {
	contest, task, err := splitTaskURL(rawURL)
	if err != nil {
		return nil, judge.ErrScrapeFormat("unexpected atcoder task url shape").SetDebug(err)
	}
	submitURL := fmt.Sprintf("https://%s/contests/%s/submit", host, contest)

	// the CSRF token must come from the submit form of the live
	// session; posting without it is rejected
	resp, err := client.Get(ctx, submitURL)
	if err != nil {
		return nil, err
	}
	token, err := scrapeCSRFToken(resp.Body)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("data.TaskScreenName", task)
	form.Set("data.LanguageId", language)
	form.Set("sourceCode", string(code))
	form.Set("csrf_token", token)

	postResp, err := client.PostForm(ctx, submitURL, form)
	if err != nil {
		return nil, err
	}
	if !strings.Contains(postResp.FinalURL, "/submissions") {
		return nil, judge.ErrScrapeFormat("atcoder did not redirect to submissions after posting").
			SetDebug(fmt.Errorf("landed on %s", postResp.FinalURL))
	}

	return &judge.SubmissionHandle{
		ServiceID: s.ID(),
		StatusURL: fmt.Sprintf("https://%s/contests/%s/submissions/me", host, contest),
	}, nil
}

func scrapeCSRFToken(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", judge.ErrScrapeFormat("atcoder submit page is not parseable html").SetDebug(err)
	}
	token, ok := doc.Find(`input[name="csrf_token"]`).First().Attr("value")
	if !ok || token == "" {
		return "", judge.ErrScrapeFormat("csrf token input missing from atcoder submit form")
	}
	return token, nil
}

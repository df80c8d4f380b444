package codeforces

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/programme-lv/ojtool/httpc"
	"github.com/programme-lv/ojtool/judge"
)

// Login posts the credentials to the /enter form. Codeforces answers
// a rejected login by re-rendering the form, so staying on /enter
// after the post means the credentials were refused.
func (s *Service) Login(ctx context.Context, username, password string, client httpc.Client) error {
	enterURL := fmt.Sprintf("https://%s/enter", host)

	resp, err := client.Get(ctx, enterURL)
	if err != nil {
		return err
	}
	token, err := scrapeCSRFToken(resp.Body)
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set("handleOrEmail", username)
	form.Set("password", password)
	form.Set("action", "enter")
	form.Set("remember", "on")
	form.Set("csrf_token", token)

	postResp, err := client.PostForm(ctx, enterURL, form)
	if err != nil {
		return err
	}
	if strings.Contains(postResp.FinalURL, "/enter") {
		return judge.ErrLoginRejected(s.ID())
	}

	s.logger.Info("logged in", "user", username)
	return nil
}

package atcoder

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/programme-lv/ojtool/httpc"
	"github.com/programme-lv/ojtool/judge"
)

// Login posts the credentials to the login form. The login form
// carries the same CSRF token input as the submit form. A rejected
// login re-renders the form instead of redirecting away from it.
func (s *Service) Login(ctx context.Context, username, password string, client httpc.Client) error {
	loginURL := fmt.Sprintf("https://%s/login", host)

	resp, err := client.Get(ctx, loginURL)
	if err != nil {
		return err
	}
	token, err := scrapeCSRFToken(resp.Body)
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	form.Set("csrf_token", token)

	postResp, err := client.PostForm(ctx, loginURL, form)
	if err != nil {
		return err
	}
	if strings.Contains(postResp.FinalURL, "/login") {
		return judge.ErrLoginRejected(s.ID())
	}

	s.logger.Info("logged in", "user", username)
	return nil
}

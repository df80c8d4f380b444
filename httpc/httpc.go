// Package httpc provides the HTTP capability that judge backends are
// handed at call time: an authenticated cookie session with per-host
// rate limiting and bounded retry on transport failures.
package httpc

import (
	"context"
	"net/url"
)

// Response is the decoded outcome of a request. FinalURL differs from
// the requested URL when the site redirected, e.g. to a login page.
type Response struct {
	Body       []byte
	StatusCode int
	FinalURL   string
}

// Client is the capability judge backends receive. It is injected
// into every Service call so sessions and credentials stay under the
// caller's control.
type Client interface {
	Get(ctx context.Context, url string) (*Response, error)
	PostForm(ctx context.Context, url string, form url.Values) (*Response, error)
	PostMultipart(ctx context.Context, url string, fields map[string]string) (*Response, error)
}

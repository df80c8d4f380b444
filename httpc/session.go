package httpc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultMinRequestGap = 1 * time.Second
	defaultMaxRetries    = 3
	maxBodySize          = 8 << 20 // 8 MiB, problem pages are far smaller
)

// Session is a cookie-jar backed Client. Requests to the same host
// are serialized with a minimum inter-request gap so scraping never
// hammers a judge site. Transport failures are retried with
// exponential backoff; HTTP error statuses are not retried.
type Session struct {
	httpClient *http.Client
	jar        *cookiejar.Jar
	logger     *slog.Logger

	minGap     time.Duration
	maxRetries uint64

	mu       sync.Mutex
	lastReq  map[string]time.Time // per host
	hostLock map[string]*sync.Mutex
}

type SessionOption func(*Session)

// WithMinRequestGap overrides the minimum delay between two requests
// to the same host.
func WithMinRequestGap(d time.Duration) SessionOption {
	return func(s *Session) { s.minGap = d }
}

func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

func NewSession(opts ...SessionOption) (*Session, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	s := &Session{
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
		jar:        jar,
		logger:     slog.Default().With("module", "httpc"),
		minGap:     defaultMinRequestGap,
		maxRetries: defaultMaxRetries,
		lastReq:    make(map[string]time.Time),
		hostLock:   make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SetCookies seeds the jar, e.g. with cookies restored from disk.
func (s *Session) SetCookies(u *url.URL, cookies []*http.Cookie) {
	s.jar.SetCookies(u, cookies)
}

// Cookies returns the cookies currently held for u.
func (s *Session) Cookies(u *url.URL) []*http.Cookie {
	return s.jar.Cookies(u)
}

func (s *Session) Get(ctx context.Context, rawURL string) (*Response, error) {
	return s.do(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	}, rawURL)
}

func (s *Session) PostForm(ctx context.Context, rawURL string, form url.Values) (*Response, error) {
	return s.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL,
			strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	}, rawURL)
}

func (s *Session) PostMultipart(ctx context.Context, rawURL string, fields map[string]string) (*Response, error) {
	return s.do(ctx, func() (*http.Request, error) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		for k, v := range fields {
			if err := w.WriteField(k, v); err != nil {
				return nil, fmt.Errorf("failed to write multipart field %q: %w", k, err)
			}
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, &buf)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", w.FormDataContentType())
		return req, nil
	}, rawURL)
}

func (s *Session) do(ctx context.Context, build func() (*http.Request, error), rawURL string) (*Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, ErrNetwork().SetDebug(fmt.Errorf("invalid url %q: %w", rawURL, err))
	}

	lock := s.lockForHost(u.Host)
	lock.Lock()
	defer lock.Unlock()

	if err := s.waitRequestGap(ctx, u.Host); err != nil {
		return nil, err
	}

	var resp *Response
	op := func() error {
		req, err := build()
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", "ojtool/1.0")

		httpResp, err := s.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			s.logger.Warn("request failed, will retry", "url", rawURL, "error", err)
			return err // retryable transport failure
		}
		defer httpResp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodySize))
		if err != nil {
			return err
		}
		resp = &Response{
			Body:       body,
			StatusCode: httpResp.StatusCode,
			FinalURL:   httpResp.Request.URL.String(),
		}
		return nil
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), s.maxRetries), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ErrNetwork().SetDebug(err)
	}

	s.mu.Lock()
	s.lastReq[u.Host] = time.Now()
	s.mu.Unlock()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrAuthentication().SetDebug(
			fmt.Errorf("status %d from %s", resp.StatusCode, resp.FinalURL))
	}
	if resp.StatusCode >= 500 {
		return nil, ErrNetwork().SetDebug(
			fmt.Errorf("status %d from %s", resp.StatusCode, resp.FinalURL))
	}
	if resp.StatusCode >= 400 {
		return nil, ErrHTTPStatus(resp.StatusCode).SetDebug(
			fmt.Errorf("status %d from %s", resp.StatusCode, resp.FinalURL))
	}
	return resp, nil
}

func (s *Session) lockForHost(host string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.hostLock[host]; !ok {
		s.hostLock[host] = &sync.Mutex{}
	}
	return s.hostLock[host]
}

func (s *Session) waitRequestGap(ctx context.Context, host string) error {
	s.mu.Lock()
	last, ok := s.lastReq[host]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	wait := s.minGap - time.Since(last)
	if wait <= 0 {
		return nil
	}
	select {
	case <-time.After(wait):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package judge

import (
	"context"

	"github.com/programme-lv/ojtool/httpc"
)

// Service is the capability set every judge-site backend implements.
// The HTTP client is injected into every call so credentials and
// cookie state stay with the caller, never inside the backend.
type Service interface {
	// ID is a short stable backend name, e.g. "atcoder".
	ID() string

	// FetchProblem scrapes the problem page(s) behind url into a
	// Problem. A structural parse failure is reported as a
	// scrape-format error, distinct from network failures, so the
	// caller can tell "site redesigned" from "network down".
	FetchProblem(ctx context.Context, url string, client httpc.Client) (*Problem, error)

	// Submit posts code to the judge. Backends must scrape and forward
	// the site's CSRF token; a missing token is a scrape-format error,
	// never silently skipped.
	Submit(ctx context.Context, url string, code []byte, language string, client httpc.Client) (*SubmissionHandle, error)

	// SubmissionStatus polls the status of an earlier submission.
	// It performs a single poll; pacing between polls is the
	// caller's job (see PollStatus).
	SubmissionStatus(ctx context.Context, handle SubmissionHandle, client httpc.Client) (SubmissionStatus, error)
}

// Authenticator is implemented by backends that can establish an
// authenticated session from site credentials. The resulting session
// cookies land in the injected client's jar, so a later Submit with
// the same client is authenticated.
type Authenticator interface {
	Login(ctx context.Context, username, password string, client httpc.Client) error
}

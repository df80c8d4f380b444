package httpc

import (
	"fmt"

	"github.com/programme-lv/ojtool/srvcerror"
)

const ErrCodeNetwork = "network_error"

func ErrNetwork() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeNetwork,
		"network request failed, check connectivity and retry",
	)
}

const ErrCodeHTTPStatus = "unexpected_http_status"

// ErrHTTPStatus covers client-error statuses that are neither an
// auth failure nor a server fault, e.g. a 404 for a deleted problem.
// Keeping it distinct stops backends from blaming their own parsers
// for a page that was never there.
func ErrHTTPStatus(status int) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeHTTPStatus,
		fmt.Sprintf("judge site answered with HTTP %d, check the url", status),
	)
}

const ErrCodeAuthentication = "authentication_failed"

func ErrAuthentication() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeAuthentication,
		"session is invalid or expired, log in again",
	)
}

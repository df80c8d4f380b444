package judge

import (
	"net/url"
	"strings"
)

// Pattern matches problem URLs by host and an optional path prefix.
// Matching never touches the network: resolution must work offline.
type Pattern struct {
	Host       string // exact host, or a suffix when it starts with "."
	PathPrefix string // optional, "" matches any path
}

func (p Pattern) matches(u *url.URL) bool {
	host := u.Hostname()
	if strings.HasPrefix(p.Host, ".") {
		if host != strings.TrimPrefix(p.Host, ".") && !strings.HasSuffix(host, p.Host) {
			return false
		}
	} else if host != p.Host {
		return false
	}
	if p.PathPrefix != "" && !strings.HasPrefix(u.Path, p.PathPrefix) {
		return false
	}
	return true
}

type registration struct {
	pattern Pattern
	service Service
}

// Registry maps URL patterns to judge backends. The set of backends
// is closed and compiled in; there is no runtime plugin discovery, so
// all scraping logic stays auditable.
type Registry struct {
	entries []registration
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a (pattern, backend) pair. Resolution follows
// registration order, so register more specific patterns first.
func (r *Registry) Register(pattern Pattern, service Service) {
	r.entries = append(r.entries, registration{pattern: pattern, service: service})
}

// Resolve returns the first registered backend whose pattern matches
// rawURL, or an unsupported-site error when none does.
func (r *Registry) Resolve(rawURL string) (Service, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, ErrUnsupportedSite(rawURL).SetDebug(err)
	}
	for _, e := range r.entries {
		if e.pattern.matches(u) {
			return e.service, nil
		}
	}
	return nil, ErrUnsupportedSite(rawURL)
}

// Services returns the registered backends in registration order.
func (r *Registry) Services() []Service {
	out := make([]Service, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.service)
	}
	return out
}

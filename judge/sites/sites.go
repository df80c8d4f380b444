// Package sites assembles the compiled-in registry of judge
// backends. The set is closed on purpose: every scraper that can
// touch a network session is in this repository and auditable.
package sites

import (
	"github.com/programme-lv/ojtool/judge"
	"github.com/programme-lv/ojtool/judge/atcoder"
	"github.com/programme-lv/ojtool/judge/codeforces"
)

// DefaultRegistry returns the registry with all known backends,
// more specific URL patterns first.
func DefaultRegistry() *judge.Registry {
	r := judge.NewRegistry()
	r.Register(atcoder.Pattern(), atcoder.New())
	r.Register(codeforces.Pattern(), codeforces.New())
	return r
}

package httpc

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// storedCookie is the on-disk form of a session cookie. Only fields
// needed to resume a judge session survive the round trip.
type storedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Domain  string    `json:"domain"`
	Path    string    `json:"path"`
	Expires time.Time `json:"expires,omitempty"`
	Secure  bool      `json:"secure"`
}

type cookieFile struct {
	Sites map[string][]storedCookie `json:"sites"` // keyed by origin URL
}

// SaveCookies persists cookies for the given origins so a later
// invocation can reuse the judge session without logging in again.
func (s *Session) SaveCookies(path string, origins []string) error {
	f := cookieFile{Sites: make(map[string][]storedCookie)}
	for _, origin := range origins {
		u, err := url.Parse(origin)
		if err != nil {
			return fmt.Errorf("invalid origin %q: %w", origin, err)
		}
		for _, c := range s.jar.Cookies(u) {
			f.Sites[origin] = append(f.Sites[origin], storedCookie{
				Name:    c.Name,
				Value:   c.Value,
				Domain:  u.Hostname(),
				Path:    "/",
				Expires: c.Expires,
				Secure:  c.Secure,
			})
		}
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cookie file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create cookie directory: %w", err)
	}
	// cookies are credentials, keep them owner-readable only
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write cookie file: %w", err)
	}
	return nil
}

// LoadCookies restores previously saved cookies into the session jar.
// A missing file is not an error: the session simply starts clean.
func (s *Session) LoadCookies(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cookie file: %w", err)
	}
	var f cookieFile
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to decode cookie file: %w", err)
	}
	for origin, cookies := range f.Sites {
		u, err := url.Parse(origin)
		if err != nil {
			continue
		}
		hc := make([]*http.Cookie, 0, len(cookies))
		for _, c := range cookies {
			hc = append(hc, &http.Cookie{
				Name:    c.Name,
				Value:   c.Value,
				Path:    c.Path,
				Domain:  c.Domain,
				Expires: c.Expires,
				Secure:  c.Secure,
			})
		}
		s.jar.SetCookies(u, hc)
	}
	return nil
}

// Package langs holds the hardcoded list of programming languages
// the tool knows how to submit, with the language id each judge site
// expects in its submit form.
package langs

// Language maps a friendly id to site-specific submit ids.
type Language struct {
	ID       string // friendly id used on the command line
	FullName string

	// submit-form language ids, keyed by judge backend id; a backend
	// missing from the map does not accept this language via ojtool
	SiteIDs map[string]string
}

// getHardcodedLanguageList returns the known languages. Site ids
// change when judges rotate compiler versions; keeping the table in
// one place makes those bumps one-line changes.
func getHardcodedLanguageList() []Language {
	return []Language{
		{
			ID:       "cpp",
			FullName: "C++ 20 (gcc)",
			SiteIDs: map[string]string{
				"atcoder":    "5001",
				"codeforces": "89",
			},
		},
		{
			ID:       "python3",
			FullName: "Python 3 (CPython)",
			SiteIDs: map[string]string{
				"atcoder":    "5055",
				"codeforces": "31",
			},
		},
		{
			ID:       "pypy3",
			FullName: "Python 3 (PyPy)",
			SiteIDs: map[string]string{
				"atcoder":    "5078",
				"codeforces": "41",
			},
		},
		{
			ID:       "go",
			FullName: "Go",
			SiteIDs: map[string]string{
				"atcoder":    "5002",
				"codeforces": "32",
			},
		},
		{
			ID:       "rust",
			FullName: "Rust",
			SiteIDs: map[string]string{
				"atcoder":    "5054",
				"codeforces": "75",
			},
		},
		{
			ID:       "java",
			FullName: "Java",
			SiteIDs: map[string]string{
				"atcoder":    "5005",
				"codeforces": "87",
			},
		},
	}
}

// List returns every known language.
func List() []Language {
	return getHardcodedLanguageList()
}

// SiteLanguageID translates a friendly language id into the id the
// given backend's submit form expects. When langID is not a known
// friendly id it is returned unchanged, so users can always pass a
// raw site id directly.
func SiteLanguageID(serviceID, langID string) (string, error) {
	for _, lang := range getHardcodedLanguageList() {
		if lang.ID != langID {
			continue
		}
		siteID, ok := lang.SiteIDs[serviceID]
		if !ok {
			return "", ErrLangNotOnSite(langID, serviceID)
		}
		return siteID, nil
	}
	return langID, nil
}

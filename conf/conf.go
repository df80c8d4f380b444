// Package conf reads tool configuration from environment variables.
// The CLI loads a .env file first, so these double as .env keys.
package conf

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// GetCaseStoreRootFromEnv returns the directory holding downloaded
// test cases. Defaults to ./testcases next to where the tool runs.
func GetCaseStoreRootFromEnv() string {
	if root := os.Getenv("OJTOOL_CASE_DIR"); root != "" {
		return root
	}
	return "testcases"
}

// GetCookieFilePathFromEnv returns where judge session cookies are
// persisted between invocations.
func GetCookieFilePathFromEnv() string {
	if path := os.Getenv("OJTOOL_COOKIE_FILE"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ojtool-cookies.json"
	}
	return filepath.Join(home, ".config", "ojtool", "cookies.json")
}

// JudgeCredentialEnvKeys returns the env variable names holding the
// credentials for a judge backend, e.g. OJTOOL_ATCODER_USERNAME and
// OJTOOL_ATCODER_PASSWORD for "atcoder".
func JudgeCredentialEnvKeys(serviceID string) (userKey, passKey string) {
	site := strings.ToUpper(serviceID)
	return "OJTOOL_" + site + "_USERNAME", "OJTOOL_" + site + "_PASSWORD"
}

// GetJudgeCredentialsFromEnv returns the username and password stored
// for a judge backend. Empty strings mean not configured.
func GetJudgeCredentialsFromEnv(serviceID string) (username, password string) {
	userKey, passKey := JudgeCredentialEnvKeys(serviceID)
	return os.Getenv(userKey), os.Getenv(passKey)
}

// GetRequestGapFromEnv returns the minimum delay between requests to
// the same judge host. Zero means use the built-in default.
func GetRequestGapFromEnv() time.Duration {
	v := os.Getenv("OJTOOL_REQUEST_GAP")
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}

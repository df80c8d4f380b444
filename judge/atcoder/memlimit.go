package atcoder

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// AtCoder has shipped the memory limit in several markup shapes over
// the years, and some archived contests omit it entirely. The parser
// tries each known location, sanity-checks candidates against the
// range judges actually use, and falls back to the platform default
// rather than failing the whole fetch over a missing limit.
const defaultMemoryLimitMiB = 256

var (
	memLimitLineRe  = regexp.MustCompile(`Memory Limit:\s*(\d+(?:\.\d+)?)\s*([KMGT]?B)`)
	memLimitTableRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([KMGT]?B)`)
)

func parseMemoryLimit(doc *goquery.Document, logger *slog.Logger) int {
	// the usual place: the limits paragraph under the title
	text := doc.Find("p").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		return strings.Contains(sel.Text(), "Memory Limit") ||
			strings.Contains(sel.Text(), "メモリ制限")
	}).First().Text()
	if mib, ok := parseMemoryValue(memLimitLineRe.FindStringSubmatch(text)); ok {
		return mib
	}

	// older pages put limits in a table row
	var fromTable int
	doc.Find("th").EachWithBreak(func(_ int, th *goquery.Selection) bool {
		header := strings.TrimSpace(th.Text())
		if header != "Memory Limit" && header != "メモリ制限" {
			return true
		}
		td := th.Next()
		if mib, ok := parseMemoryValue(memLimitTableRe.FindStringSubmatch(td.Text())); ok {
			fromTable = mib
			return false
		}
		return true
	})
	if fromTable != 0 {
		return fromTable
	}

	logger.Warn("memory limit not found on atcoder page, using default",
		"default_mib", defaultMemoryLimitMiB)
	return defaultMemoryLimitMiB
}

// parseMemoryValue converts a regex match into MiB, rejecting values
// outside the range real judges use (64 MiB to 8 GiB) so stray
// numbers elsewhere in the statement are never mistaken for a limit.
func parseMemoryValue(m []string) (int, bool) {
	if m == nil {
		return 0, false
	}
	val, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	switch strings.ToUpper(m[2]) {
	case "B":
		val /= 1024 * 1024
	case "KB":
		val /= 1024
	case "MB":
		// AtCoder writes MB but means MiB
	case "GB":
		val *= 1024
	case "TB":
		val *= 1024 * 1024
	}
	if val < 64 || val > 8192 {
		return 0, false
	}
	return int(val), true
}

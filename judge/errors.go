package judge

import (
	"fmt"

	"github.com/programme-lv/ojtool/srvcerror"
)

const ErrCodeUnsupportedSite = "unsupported_site"

func ErrUnsupportedSite(url string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeUnsupportedSite,
		fmt.Sprintf("no judge backend recognizes the url %s", url),
	)
}

const ErrCodeLoginRejected = "login_rejected"

func ErrLoginRejected(site string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeLoginRejected,
		fmt.Sprintf("%s rejected the credentials, check username and password", site),
	)
}

const ErrCodeScrapeFormat = "scrape_format_changed"

// ErrScrapeFormat reports that an expected structural marker is
// missing from a judge page. This means the site changed its markup,
// not that the network failed or that the problem has no samples.
func ErrScrapeFormat(detail string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeScrapeFormat,
		fmt.Sprintf("judge page format not recognized (%s), the backend may need an update", detail),
	)
}

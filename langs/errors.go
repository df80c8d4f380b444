package langs

import (
	"fmt"

	"github.com/programme-lv/ojtool/srvcerror"
)

const ErrCodeLangNotOnSite = "language_not_available_on_site"

func ErrLangNotOnSite(langID, serviceID string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeLangNotOnSite,
		fmt.Sprintf("language %s has no known submit id on %s, pass the site's raw language id", langID, serviceID),
	)
}

package casestore

import (
	"fmt"

	"github.com/programme-lv/ojtool/srvcerror"
)

const ErrCodeCasesNotFound = "cases_not_found"

func ErrCasesNotFound(url string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeCasesNotFound,
		fmt.Sprintf("no stored test cases for %s, download them first", url),
	)
}

const ErrCodeCaseCountDecreased = "case_count_decreased"

// ErrCaseCountDecreased guards against a transient scrape clobbering
// a fuller set of stored cases.
func ErrCaseCountDecreased(got, stored int) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeCaseCountDecreased,
		fmt.Sprintf("scrape returned %d cases but %d are stored, pass force to overwrite", got, stored),
	)
}

// Package bibliography finds the reference list of a proposal, splits it
// into entries and checks them against APA 7.
package bibliography

import (
	"strconv"
	"time"

	"github.com/hyperifyio/proposalcheck/internal/document"
)

// Result is the outcome of the bibliography checks.
type Result struct {
	Found          bool     `json:"found"`
	ReferenceCount int      `json:"referenceCount"`
	Errors         []Issue  `json:"errors"`
	Warnings       []Issue  `json:"warnings"`
	Findings       []string `json:"findings"`
}

// Options tune the checks. Now supplies the clock for recency; nil means
// time.Now.
type Options struct {
	Now func() time.Time
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Check locates, segments and validates the bibliography of fullText. A
// missing section or an empty entry list is recorded as a single error and
// stops this branch only.
func Check(fullText string, opts Options) Result {
	res := Result{Errors: []Issue{}, Warnings: []Issue{}, Findings: []string{}}

	section, ok := Locate(fullText)
	if !ok {
		res.Errors = append(res.Errors, Issue{
			Severity: SeverityError,
			Message:  `לא נמצא קטע ביבליוגרפיה במסמך. ודא שיש כותרת "ביבליוגרפיה" או "רשימת מקורות" או "References"`,
		})
		return res
	}
	res.Found = true
	res.Findings = append(res.Findings, "נמצא קטע ביבליוגרפיה")

	refs := Segment(section)
	res.ReferenceCount = len(refs)
	res.Findings = append(res.Findings, "נמצאו "+strconv.Itoa(len(refs))+" רשומות ביבליוגרפיות")
	if len(refs) == 0 {
		res.Errors = append(res.Errors, Issue{
			Severity: SeverityError,
			Message:  "לא נמצאו רשומות ביבליוגרפיות. ודא שכל רשומה מופרדת בשורה חדשה",
		})
		return res
	}

	for i, ref := range refs {
		if document.Len(ref) < MinEntryChars {
			continue
		}
		errs, warns := Validate(ref, i+1)
		res.Errors = append(res.Errors, errs...)
		res.Warnings = append(res.Warnings, warns...)
	}

	CheckOrder(refs, &res)
	CheckCorpus(refs, opts.now(), &res)
	return res
}

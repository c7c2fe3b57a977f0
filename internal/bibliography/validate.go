package bibliography

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hyperifyio/proposalcheck/internal/document"
)

// Severity of a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one style violation. Ref is the 1-based ordinal of the entry it
// was raised for, or 0 for section-level issues.
type Issue struct {
	Severity Severity `json:"severity"`
	Ref      int      `json:"ref"`
	Message  string   `json:"message"`
}

func (i Issue) String() string { return i.Message }

// MinEntryChars is the length below which an entry is treated as
// segmentation noise and not validated.
const MinEntryChars = 10

var (
	yearRe        = regexp.MustCompile(`\((\d{4}[a-z]?)\)`)
	bareYearRe    = regexp.MustCompile(`\d{4}`)
	trailingURLRe = regexp.MustCompile(`https?://\S+$`)
	latinStartRe  = regexp.MustCompile(`^[A-Z]`)
	authorRe      = regexp.MustCompile(`^[A-Z][a-z]+,\s*[A-Z]\.`)
	journalRe     = regexp.MustCompile(`(?i)journal|review|quarterly|bulletin`)
	doiLabelRe    = regexp.MustCompile(`(?i)doi:?\s*10\.`)
	etAlRe        = regexp.MustCompile(`(?i)et al\.?`)
	retrievedRe   = regexp.MustCompile(`(?i)retrieved from`)
	afterYearRe   = regexp.MustCompile(`\)\.\s*`)
)

// Validate checks one entry against the APA 7 rules and returns the errors
// and warnings it raises, each tagged with ordinal.
func Validate(ref string, ordinal int) (errs []Issue, warns []Issue) {
	preview := document.Prefix(ref, 50)
	if document.Len(ref) > 50 {
		preview += "..."
	}
	errorf := func(msg string) {
		errs = append(errs, Issue{Severity: SeverityError, Ref: ordinal, Message: format(ordinal, msg, preview)})
	}
	warnf := func(msg string) {
		warns = append(warns, Issue{Severity: SeverityWarning, Ref: ordinal, Message: format(ordinal, msg, preview)})
	}

	// year in parentheses
	if m := yearRe.FindStringSubmatch(ref); m == nil {
		if bareYearRe.MatchString(ref) {
			errorf("השנה צריכה להופיע בסוגריים עגולים, לדוגמה: (2024)")
		} else {
			errorf("לא נמצאה שנת פרסום")
		}
	} else {
		year, _ := strconv.Atoi(m[1][:4])
		if year < 1900 || year > 2030 {
			warnf("שנה לא סבירה (" + strconv.Itoa(year) + ")")
		}
	}

	// terminal period, waived for a trailing URL
	trimmed := strings.TrimSpace(ref)
	if !strings.HasSuffix(trimmed, ".") && !trailingURLRe.MatchString(ref) {
		warnf("חסרה נקודה בסוף הרשומה")
	}

	latin := latinStartRe.MatchString(ref)
	if latin {
		authorPart := ref
		if loc := openYearRe.FindStringIndex(ref); loc != nil {
			authorPart = ref[:loc[0]]
		}
		if authorPart != "" {
			if !authorRe.MatchString(strings.TrimSpace(authorPart)) {
				warnf("ודא פורמט מחבר תקין: שם משפחה, א. ת.")
			}
			if strings.Count(authorPart, ",") > 1 &&
				!strings.Contains(authorPart, "&") && !strings.Contains(authorPart, "et al") {
				warnf("כשיש מספר מחברים, יש להשתמש ב-& לפני המחבר האחרון")
			}
		}
	}

	if latin && !strings.Contains(strings.ToLower(ref), "doi") && !strings.Contains(ref, "http") {
		if journalRe.MatchString(ref) {
			warnf("מאמר בכתב עת - ודא שנכלל DOI אם זמין (APA7)")
		}
	}

	if doiLabelRe.MatchString(ref) {
		errorf("ב-APA7 יש לכתוב DOI בפורמט: https://doi.org/10.xxxx (ולא doi: 10.xxxx)")
	}

	if etAlRe.MatchString(ref) {
		warnf("ב-APA7 יש לרשום את כל המחברים ברשימת המקורות (עד 20). השימוש ב-et al. הוא רק בגוף הטקסט")
	}

	if retrievedRe.MatchString(ref) {
		warnf(`ב-APA7 לא משתמשים ב-"Retrieved from" - פשוט כתוב את הכתובת`)
	}

	if latin {
		if loc := afterYearRe.FindStringIndex(ref); loc != nil {
			if document.Len(strings.TrimSpace(ref[loc[1]:])) < 3 {
				errorf("ייתכן שחסרה כותרת אחרי השנה")
			}
		}
	}
	return errs, warns
}

func format(ordinal int, msg, preview string) string {
	return "רשומה " + strconv.Itoa(ordinal) + ": " + msg + ` - "` + preview + `"`
}

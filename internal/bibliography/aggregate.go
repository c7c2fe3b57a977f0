package bibliography

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

var (
	hebrewStartRe = regexp.MustCompile(`^[\x{0590}-\x{05FF}]`)
	leadYearRe    = regexp.MustCompile(`\((\d{4})`)
)

// maxListedInversions is the largest number of out-of-order entries that is
// reported by ordinal; above it a single error is raised instead.
const maxListedInversions = 3

// CheckOrder compares every entry with its predecessor after Unicode case
// folding and records the ordinals that sort before the previous entry.
func CheckOrder(refs []string, res *Result) {
	if len(refs) < 2 {
		return
	}
	fold := cases.Fold()
	var inversions []int
	prev := fold.String(strings.TrimSpace(refs[0]))
	for i := 1; i < len(refs); i++ {
		cur := fold.String(strings.TrimSpace(refs[i]))
		if cur < prev {
			inversions = append(inversions, i+1)
		}
		prev = cur
	}
	switch {
	case len(inversions) == 0:
		res.Findings = append(res.Findings, "הרשומות מסודרות בסדר אלפביתי - תקין")
	case len(inversions) <= maxListedInversions:
		nums := make([]string, len(inversions))
		for i, n := range inversions {
			nums[i] = strconv.Itoa(n)
		}
		res.Warnings = append(res.Warnings, Issue{
			Severity: SeverityWarning,
			Message:  "רשומות שייתכן ואינן בסדר אלפביתי: מספרי רשומות " + strings.Join(nums, ", "),
		})
	default:
		res.Errors = append(res.Errors, Issue{
			Severity: SeverityError,
			Message:  "הביבליוגרפיה אינה מסודרת בסדר אלפביתי. יש לסדר את הרשומות לפי שם המשפחה של המחבר הראשון",
		})
	}
}

// CheckCorpus runs the whole-list checks: source count, Hebrew/English mix
// and recency relative to now.
func CheckCorpus(refs []string, now time.Time, res *Result) {
	n := len(refs)
	switch {
	case n < 5:
		res.Warnings = append(res.Warnings, sectionWarning("מספר המקורות נמוך ("+strconv.Itoa(n)+"). בדרך כלל הצעת מחקר לתואר ראשון כוללת לפחות 10-15 מקורות"))
	case n < 10:
		res.Warnings = append(res.Warnings, sectionWarning("מספר המקורות סביר ("+strconv.Itoa(n)+") אך מומלץ לשאוף ל-15+ מקורות"))
	default:
		res.Findings = append(res.Findings, "מספר מקורות תקין: "+strconv.Itoa(n))
	}

	hebrew, english := 0, 0
	for _, r := range refs {
		r = strings.TrimSpace(r)
		switch {
		case latinStartRe.MatchString(r):
			english++
		case hebrewStartRe.MatchString(r):
			hebrew++
		}
	}
	if hebrew > 0 && english > 0 {
		res.Findings = append(res.Findings, "נמצאו מקורות בעברית ("+strconv.Itoa(hebrew)+") ובאנגלית ("+strconv.Itoa(english)+") - מגוון תקין")
	} else if english == 0 && hebrew > 0 {
		res.Warnings = append(res.Warnings, sectionWarning("כל המקורות בעברית. מומלץ לכלול גם מקורות באנגלית"))
	}

	current := now.Year()
	old, recent := 0, 0
	for _, r := range refs {
		m := leadYearRe.FindStringSubmatch(r)
		if m == nil {
			continue
		}
		year, _ := strconv.Atoi(m[1])
		if year < current-15 {
			old++
		}
		if year > current-5 && year <= current {
			recent++
		}
	}
	if 2*old > n {
		res.Warnings = append(res.Warnings, sectionWarning("חלק ניכר מהמקורות ישנים (מעל 15 שנה). מומלץ לעדכן עם מחקרים עדכניים יותר"))
	}
	if recent >= 3 {
		res.Findings = append(res.Findings, "נמצאו "+strconv.Itoa(recent)+" מקורות עדכניים (5 שנים אחרונות)")
	} else {
		res.Warnings = append(res.Warnings, sectionWarning("מומלץ לכלול יותר מקורות עדכניים (מ-5 השנים האחרונות)"))
	}
}

func sectionWarning(msg string) Issue {
	return Issue{Severity: SeverityWarning, Message: msg}
}

// Package coverpage scans the front of a proposal for the metadata a cover
// page must carry: student, advisor and date, plus optional title and
// institution markers.
package coverpage

import (
	"strings"

	"github.com/hyperifyio/proposalcheck/internal/document"
	"github.com/hyperifyio/proposalcheck/internal/match"
)

// WindowChars is the size of the text prefix treated as the cover page.
const WindowChars = 800

// Result is the outcome of the cover page scan.
type Result struct {
	Valid    bool     `json:"valid"`
	Findings []string `json:"findings"`
	Missing  []string `json:"missing"`
}

var (
	studentLabels = match.Res(
		`שם\s*(ה)?סטודנט(ית)?[\s:]+(.+)`,
		`הוגש\s*על\s*ידי[\s:]+(.+)`,
		`מגיש(ה|ת)?[\s:]+(.+)`,
		`נכתב\s*על\s*ידי[\s:]+(.+)`,
		`שם\s*(ה)?תלמיד(ה)?[\s:]+(.+)`,
	)

	// A line made only of Hebrew letters and spaces. This also accepts short
	// headings and captions; it is kept as a last resort for unlabeled names.
	bareName = match.Re(`^[א-ת\s]{4,30}$`)

	advisorLabels = match.Res(
		`מנח(ה|את)[\s:]+(.+)`,
		`בהנחיית[\s:]+(.+)`,
		`מרצ(ה|את?)[\s:]+(.+)`,
		`בהדרכת[\s:]+(.+)`,
		`מנחה\s*אקדמי(ת)?[\s:]+(.+)`,
		`(דר|ד"ר|פרופ|פרופ')[\s'.]+[א-ת\s]+`,
	)

	datePatterns = match.Res(
		`\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}`,
		`\d{4}`,
		`(ינואר|פברואר|מרץ|אפריל|מאי|יוני|יולי|אוגוסט|ספטמבר|אוקטובר|נובמבר|דצמבר)\s*\d{4}`,
		`(?i)(January|February|March|April|May|June|July|August|September|October|November|December)\s*\d{4}`,
		`תש[א-ת]"[א-ת]`,
		`סמסטר\s*[אב]`,
	)

	institutionPatterns = match.Res(
		`אוניברסיט`,
		`מכלל`,
		`קולג`,
		`המחלקה ל`,
		`בית הספר ל`,
		`הפקולטה ל`,
		`החוג ל`,
	)
)

// Analyze runs every cover page check independently. Valid is true only when
// student, advisor and date were all detected.
func Analyze(doc document.Document) Result {
	res := Result{Valid: true, Findings: []string{}, Missing: []string{}}
	window := document.Prefix(doc.FullText, WindowChars)

	if len(doc.Blocks) > 0 {
		first := doc.Blocks[0]
		if first.Level == document.Title || first.Level == document.H1 {
			title := document.Prefix(strings.TrimSpace(first.Text), 60)
			res.Findings = append(res.Findings, `נמצא כותרת/שם עבודה: "`+title+`"`)
		}
	}

	if studentLabels.Any(window) {
		res.Findings = append(res.Findings, "נמצא שם סטודנט/ית")
	} else if name, ok := findBareName(window); ok {
		res.Findings = append(res.Findings, `ייתכן ונמצא שם (לא בפורמט מובנה): "`+name+`"`)
	} else {
		res.Missing = append(res.Missing, "שם הסטודנט/ית - לא נמצא בדף השער")
		res.Valid = false
	}

	if advisorLabels.Any(window) {
		res.Findings = append(res.Findings, "נמצא שם מנחה")
	} else {
		res.Missing = append(res.Missing, "שם המנחה - לא נמצא בדף השער")
		res.Valid = false
	}

	if datePatterns.Any(window) {
		res.Findings = append(res.Findings, "נמצא תאריך")
	} else {
		res.Missing = append(res.Missing, "תאריך - לא נמצא בדף השער")
		res.Valid = false
	}

	if institutionPatterns.Any(window) {
		res.Findings = append(res.Findings, "נמצא שם מוסד אקדמי")
	}

	return res
}

func findBareName(window string) (string, bool) {
	for _, line := range strings.Split(window, "\n") {
		s := strings.TrimSpace(line)
		if document.Len(s) <= 3 {
			continue
		}
		if _, ok := bareName.Match(s); ok {
			return s, true
		}
	}
	return "", false
}

// Package structure checks that a proposal contains the four required
// chapters in their expected order.
package structure

import (
	"sort"
	"strconv"

	"github.com/hyperifyio/proposalcheck/internal/document"
	"github.com/hyperifyio/proposalcheck/internal/match"
)

// RequiredChapter names one entry of the fixed chapter taxonomy.
type RequiredChapter struct {
	Name     string
	Number   int
	Patterns match.Family
}

// Required is the chapter taxonomy in expected document order.
var Required = []RequiredChapter{
	{
		Name:     "מבוא",
		Number:   1,
		Patterns: match.Res(`מבוא`, `הקדמה`, `פרק\s*1`, `(?i)chapter\s*1`, `(?i)introduction`),
	},
	{
		Name:     "סקירת ספרות",
		Number:   2,
		Patterns: match.Res(`סקירת\s*ספרות`, `סקירה\s*ספרותית`, `רקע\s*תיאורטי`, `פרק\s*2`, `(?i)chapter\s*2`, `(?i)literature\s*review`),
	},
	{
		Name:     "מתודולוגיה / השיטה",
		Number:   3,
		Patterns: match.Res(`מתודולוגי`, `השיטה`, `שיטת\s*המחקר`, `מערך\s*המחקר`, `פרק\s*3`, `(?i)chapter\s*3`, `(?i)method`),
	},
	{
		Name:     "ביבליוגרפיה",
		Number:   4,
		Patterns: match.Res(`ביבליוגרפי`, `רשימת\s*מקורות`, `מקורות`, `(?i)references`, `(?i)bibliography`),
	},
}

var numberedHeading = match.Res(`^\d+[.)]`, `^פרק\s*\d+`)

// FoundChapter records how a required chapter was located. HeadingText is
// empty when the chapter was only found in the body text. BlockIndex is the
// position of the matching block, or -1 when no single block matched.
type FoundChapter struct {
	Name        string `json:"name"`
	Number      int    `json:"number"`
	HeadingText string `json:"headingText"`
	BlockIndex  int    `json:"blockIndex"`
}

// Result is the outcome of the structure check.
type Result struct {
	Valid         bool           `json:"valid"`
	Findings      []string       `json:"findings"`
	Missing       []string       `json:"missing"`
	ChaptersFound []FoundChapter `json:"chaptersFound"`
}

// Analyze resolves each required chapter against the headings first and the
// full text second, then checks ordering and heading numbering.
func Analyze(doc document.Document) Result {
	res := Result{Valid: true, Findings: []string{}, Missing: []string{}, ChaptersFound: []FoundChapter{}}

	headings := doc.Headings()
	texts := make([]string, len(headings))
	for i, h := range headings {
		texts[i] = h.Text
	}

	for _, rc := range Required {
		label := "פרק " + strconv.Itoa(rc.Number) + " (" + rc.Name + ")"
		if idx, _, ok := rc.Patterns.FirstIn(texts); ok {
			heading := texts[idx]
			res.Findings = append(res.Findings, label+` - נמצא כ: "`+heading+`"`)
			res.ChaptersFound = append(res.ChaptersFound, FoundChapter{Name: rc.Name, Number: rc.Number, HeadingText: heading, BlockIndex: headings[idx].Index})
			continue
		}
		if rc.Patterns.Any(doc.FullText) {
			res.Findings = append(res.Findings, label+" - נמצא בטקסט אך לא מסומן ככותרת. מומלץ להגדיר ככותרת (Heading)")
			res.ChaptersFound = append(res.ChaptersFound, FoundChapter{Name: rc.Name, Number: rc.Number, BlockIndex: firstBlock(doc, rc.Patterns)})
			continue
		}
		res.Missing = append(res.Missing, label+" - לא נמצא")
		res.Valid = false
	}

	sortByPosition(res.ChaptersFound)
	if len(res.ChaptersFound) >= 2 {
		if inOrder(res.ChaptersFound) {
			res.Findings = append(res.Findings, "סדר הפרקים תקין")
		} else {
			res.Findings = append(res.Findings, "שים לב: סדר הפרקים אינו כמצופה")
			res.Valid = false
		}
	}

	numbered := 0
	for _, t := range texts {
		if numberedHeading.Any(t) {
			numbered++
		}
	}
	if numbered > 0 {
		res.Findings = append(res.Findings, "נמצא מספור בכותרות ("+strconv.Itoa(numbered)+" כותרות ממוספרות)")
	} else {
		res.Findings = append(res.Findings, "הערה: לא נמצא מספור מפורש בכותרות הפרקים")
	}
	return res
}

func firstBlock(doc document.Document, f match.Family) int {
	for _, b := range doc.Blocks {
		if f.Any(b.Text) {
			return b.Index
		}
	}
	return -1
}

// sortByPosition orders chapters as they appear in the document. Chapters
// without a block position keep their taxonomy order after located ones.
func sortByPosition(found []FoundChapter) {
	sort.SliceStable(found, func(i, j int) bool {
		a, b := found[i].BlockIndex, found[j].BlockIndex
		switch {
		case a < 0 && b < 0:
			return false
		case a < 0:
			return false
		case b < 0:
			return true
		}
		return a < b
	})
}

// inOrder checks that located chapters never step back in the taxonomy.
func inOrder(found []FoundChapter) bool {
	prev := 0
	for _, fc := range found {
		if fc.BlockIndex < 0 {
			continue
		}
		if fc.Number < prev {
			return false
		}
		prev = fc.Number
	}
	return true
}

// Package summary turns the individual check results into an approval
// verdict.
package summary

import (
	"github.com/hyperifyio/proposalcheck/internal/bibliography"
	"github.com/hyperifyio/proposalcheck/internal/coverpage"
	"github.com/hyperifyio/proposalcheck/internal/structure"
)

// Issue texts and verdict messages.
const (
	IssueCoverPage    = "דף השער חסר פרטים"
	IssueStructure    = "מבנה הפרקים אינו תקין"
	IssueBibliography = "נמצאו שגיאות רבות בביבליוגרפיה"

	TextBlocking = "יש לתקן את הבעיות שצוינו לעיל ולהגיש מחדש לבדיקה."
	TextTooMany  = "נמצאו מספר נושאים לתיקון. יש לבצע את התיקונים המבוקשים ולהגיש מחדש."
	TextApproved = "הצעת המחקר מאושרת. ניתן להתקדם להגשת מדריך ראיון. בהצלחה!"
)

// MaxBibliographyErrors is the number of bibliography errors tolerated
// before they become a summary issue.
const MaxBibliographyErrors = 5

// maxIssues is the largest issue count that can still be approved when no
// issue is blocking.
const maxIssues = 3

// Final is the overall verdict.
type Final struct {
	Approved bool     `json:"approved"`
	Text     string   `json:"text"`
	Issues   []string `json:"issues"`
}

// Generate applies the decision table. Only an invalid chapter structure
// blocks approval by itself.
func Generate(cover coverpage.Result, chapters structure.Result, apa bibliography.Result) Final {
	issues := []string{}
	blocking := false

	if !cover.Valid {
		issues = append(issues, IssueCoverPage)
	}
	if !chapters.Valid {
		issues = append(issues, IssueStructure)
		blocking = true
	}
	if len(apa.Errors) > MaxBibliographyErrors {
		issues = append(issues, IssueBibliography)
	}

	switch {
	case blocking:
		return Final{Approved: false, Text: TextBlocking, Issues: issues}
	case len(issues) > maxIssues:
		return Final{Approved: false, Text: TextTooMany, Issues: issues}
	default:
		return Final{Approved: true, Text: TextApproved, Issues: issues}
	}
}

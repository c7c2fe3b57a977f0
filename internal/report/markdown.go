// Package report renders check results as Markdown, JSON, PDF or XLSX.
package report

import (
	"strconv"
	"strings"

	"github.com/hyperifyio/proposalcheck/internal/audit"
	"github.com/hyperifyio/proposalcheck/internal/bibliography"
	"github.com/hyperifyio/proposalcheck/internal/review"
)

// Markdown renders res as a Hebrew Markdown report followed by the run
// footer.
func Markdown(res audit.Result, meta Meta) string {
	var b strings.Builder
	b.WriteString("# דוח בדיקת הצעת מחקר\n\n")
	if res.Error {
		b.WriteString("**")
		b.WriteString(res.Message)
		b.WriteString("**\n")
		appendFooter(&b, meta)
		return b.String()
	}

	if s := res.Summary; s != nil {
		b.WriteString("## סיכום\n\n")
		if s.Approved {
			b.WriteString("**מאושר** - ")
		} else {
			b.WriteString("**לא מאושר** - ")
		}
		b.WriteString(s.Text)
		b.WriteString("\n\n")
		bullets(&b, s.Issues)
	}

	if c := res.CoverPage; c != nil {
		b.WriteString("## דף שער\n\n")
		bullets(&b, c.Findings)
		prefixed(&b, "חסר: ", c.Missing)
	}

	if ch := res.Chapters; ch != nil {
		b.WriteString("## מבנה פרקים\n\n")
		bullets(&b, ch.Findings)
		prefixed(&b, "חסר: ", ch.Missing)
	}

	if a := res.APA; a != nil {
		b.WriteString("## ביבליוגרפיה (APA 7)\n\n")
		b.WriteString("מספר רשומות: ")
		b.WriteString(strconv.Itoa(a.ReferenceCount))
		b.WriteString("\n\n")
		bullets(&b, a.Findings)
		issues(&b, "### שגיאות", a.Errors)
		issues(&b, "### אזהרות", a.Warnings)
	}

	if cr := res.ContentReview; cr != nil {
		b.WriteString("## סקירת תוכן\n\n")
		if !cr.Available {
			b.WriteString(cr.Message)
			b.WriteString("\n\n")
		}
		if m := cr.Methodology; m != nil {
			methodology(&b, m)
		}
		for _, ch := range cr.Chapters {
			b.WriteString("### ")
			b.WriteString(ch.Title)
			b.WriteString("\n\n")
			if ch.WritingQuality != "" || ch.AcademicLevel != "" {
				b.WriteString("איכות כתיבה: ")
				b.WriteString(orDash(ch.WritingQuality))
				b.WriteString(" | רמה אקדמית: ")
				b.WriteString(orDash(ch.AcademicLevel))
				b.WriteString("\n\n")
			}
			comments(&b, ch.Comments)
		}
	}

	appendFooter(&b, meta)
	return b.String()
}

func methodology(b *strings.Builder, m *review.MethodologyReview) {
	b.WriteString("### סקירה מעמיקה: ")
	b.WriteString(m.Title)
	b.WriteString("\n\n")
	if m.OverallAssessment != "" {
		b.WriteString(m.OverallAssessment)
		b.WriteString("\n\n")
	}
	if m.Clarity != "" || m.Completeness != "" {
		b.WriteString("בהירות: ")
		b.WriteString(orDash(m.Clarity))
		b.WriteString(" | שלמות: ")
		b.WriteString(orDash(m.Completeness))
		b.WriteString("\n\n")
	}
	comments(b, m.Comments)
	prefixed(b, "להרחבה: ", m.NeedsExpansion)
	prefixed(b, "ניתן להסיר: ", m.CanBeRemoved)
}

func comments(b *strings.Builder, list []review.Comment) {
	if len(list) == 0 {
		return
	}
	for _, c := range list {
		b.WriteString("- [")
		b.WriteString(c.Type)
		if c.Priority != "" {
			b.WriteString("/")
			b.WriteString(c.Priority)
		}
		b.WriteString("] ")
		if c.Category != "" {
			b.WriteString(c.Category)
			b.WriteString(": ")
		}
		b.WriteString(oneLine(c.Text))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func issues(b *strings.Builder, heading string, list []bibliography.Issue) {
	if len(list) == 0 {
		return
	}
	b.WriteString(heading)
	b.WriteString("\n\n")
	for _, is := range list {
		b.WriteString("- ")
		b.WriteString(is.Message)
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func bullets(b *strings.Builder, list []string) {
	prefixed(b, "", list)
}

func prefixed(b *strings.Builder, prefix string, list []string) {
	if len(list) == 0 {
		return
	}
	for _, s := range list {
		b.WriteString("- ")
		b.WriteString(prefix)
		b.WriteString(s)
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

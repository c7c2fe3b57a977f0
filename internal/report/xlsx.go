package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/hyperifyio/proposalcheck/internal/audit"
	"github.com/hyperifyio/proposalcheck/internal/bibliography"
)

// Sheet names of the XLSX report.
const (
	SheetSummary = "Summary"
	SheetIssues  = "Issues"
	SheetReview  = "Review"
)

// XLSX writes res as a workbook with a summary sheet, one row per finding
// or issue, and one row per review comment.
func XLSX(w io.Writer, res audit.Result, meta Meta) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return err
	}
	for _, name := range []string{SheetIssues, SheetReview} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	summaryRows := [][]any{
		{"run_id", meta.RunID},
		{"source", meta.Source},
		{"sha256", meta.SHA256},
		{"generated_at", meta.GeneratedAt.Format("2006-01-02T15:04:05Z07:00")},
	}
	if res.Error {
		summaryRows = append(summaryRows, []any{"error", res.Message})
	}
	if s := res.Summary; s != nil {
		summaryRows = append(summaryRows, []any{"approved", s.Approved}, []any{"summary", s.Text})
		for _, is := range s.Issues {
			summaryRows = append(summaryRows, []any{"issue", is})
		}
	}
	if err := writeRows(f, SheetSummary, summaryRows); err != nil {
		return err
	}

	issueRows := [][]any{{"section", "severity", "ref", "message"}}
	if c := res.CoverPage; c != nil {
		issueRows = appendStrings(issueRows, "coverPage", "finding", c.Findings)
		issueRows = appendStrings(issueRows, "coverPage", "missing", c.Missing)
	}
	if ch := res.Chapters; ch != nil {
		issueRows = appendStrings(issueRows, "chapters", "finding", ch.Findings)
		issueRows = appendStrings(issueRows, "chapters", "missing", ch.Missing)
	}
	if a := res.APA; a != nil {
		issueRows = appendStrings(issueRows, "apa", "finding", a.Findings)
		issueRows = appendIssues(issueRows, a.Errors)
		issueRows = appendIssues(issueRows, a.Warnings)
	}
	if err := writeRows(f, SheetIssues, issueRows); err != nil {
		return err
	}

	reviewRows := [][]any{{"chapter", "kind", "type", "category", "priority", "text"}}
	if cr := res.ContentReview; cr != nil {
		if !cr.Available {
			reviewRows = append(reviewRows, []any{"", "unavailable", "", "", "", cr.Message})
		}
		if m := cr.Methodology; m != nil {
			reviewRows = append(reviewRows, []any{m.Title, "methodology", "assessment", "", "", m.OverallAssessment})
			for _, c := range m.Comments {
				reviewRows = append(reviewRows, []any{m.Title, "methodology", c.Type, c.Category, c.Priority, c.Text})
			}
		}
		for _, ch := range cr.Chapters {
			for _, c := range ch.Comments {
				reviewRows = append(reviewRows, []any{ch.Title, "chapter", c.Type, c.Category, c.Priority, c.Text})
			}
		}
	}
	if err := writeRows(f, SheetReview, reviewRows); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func appendStrings(rows [][]any, section, kind string, list []string) [][]any {
	for _, s := range list {
		rows = append(rows, []any{section, kind, "", s})
	}
	return rows
}

func appendIssues(rows [][]any, list []bibliography.Issue) [][]any {
	for _, is := range list {
		ref := any("")
		if is.Ref > 0 {
			ref = is.Ref
		}
		rows = append(rows, []any{"apa", string(is.Severity), ref, is.Message})
	}
	return rows
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

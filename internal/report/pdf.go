package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFOptions configure PDF rendering. FontPath names a TrueType font with
// Hebrew glyphs; without it the core Helvetica font is used and characters
// outside cp1252 cannot be shown.
type PDFOptions struct {
	FontPath string
}

const pdfFamily = "report"

// PDF renders a Markdown report produced by Markdown into w. Headings get a
// larger bold size; every other line is a wrapped paragraph.
func PDF(w io.Writer, markdown string, opts PDFOptions) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	family := "Helvetica"
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	bold := "B"
	if strings.TrimSpace(opts.FontPath) != "" {
		pdf.AddUTF8Font(pdfFamily, "", opts.FontPath)
		family = pdfFamily
		translate = func(s string) string { return s }
		bold = ""
		pdf.RTL()
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("load pdf font: %w", err)
	}
	pdf.SetFont(family, "", 11)
	pdf.AddPage()
	align := "L"
	if family == pdfFamily {
		align = "R"
	}

	scanner := bufio.NewScanner(strings.NewReader(markdown))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		s := strings.TrimSpace(scanner.Text())
		switch {
		case s == "":
			pdf.Ln(3)
		case s == "---":
			pdf.Ln(2)
			pdf.SetFont(family, "", 8)
		case strings.HasPrefix(s, "#"):
			i := 0
			for i < len(s) && s[i] == '#' {
				i++
			}
			text := strings.TrimSpace(s[i:])
			if text == "" {
				continue
			}
			size := 16.0
			if i == 2 {
				size = 13.0
			} else if i > 2 {
				size = 12.0
			}
			pdf.SetFont(family, bold, size)
			pdf.CellFormat(0, 8, translate(text), "", 1, align, false, 0, "")
			pdf.SetFont(family, "", 11)
		default:
			pdf.MultiCell(0, 5, translate(strings.ReplaceAll(s, "**", "")), "", align, false)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return pdf.Output(w)
}

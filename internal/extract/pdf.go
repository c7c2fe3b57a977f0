package extract

import (
	"bytes"
	"fmt"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/hyperifyio/proposalcheck/internal/document"
)

// PDF extracts the plain text of every page. PDF text carries no heading
// styles, so the result has body blocks only.
type PDF struct{}

func (PDF) Extract(data []byte) (document.Document, error) {
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return document.Document{}, fmt.Errorf("open pdf: %w", err)
	}
	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, strings.TrimRight(text, "\n"))
	}
	return document.FromText(strings.Join(pages, "\n")), nil
}

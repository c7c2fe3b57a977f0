package extract

import (
	"strings"

	"github.com/hyperifyio/proposalcheck/internal/document"
)

// Text treats every line as a body block. Plain text carries no heading
// levels, so structure checks rely on full-text matching.
type Text struct{}

func (Text) Extract(data []byte) (document.Document, error) {
	s := strings.TrimPrefix(string(data), "\ufeff")
	return document.FromText(s), nil
}

package report

import (
	"encoding/json"
	"io"

	"github.com/hyperifyio/proposalcheck/internal/audit"
)

// JSON writes res as indented JSON.
func JSON(w io.Writer, res audit.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(res)
}

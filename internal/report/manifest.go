package report

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hyperifyio/proposalcheck/internal/document"
)

// Meta captures run details that make a report traceable to its input and
// configuration.
type Meta struct {
	RunID         string    `json:"run_id"`
	Source        string    `json:"source"`
	SHA256        string    `json:"sha256"`
	Chars         int       `json:"chars"`
	Model         string    `json:"model"`
	LLMBaseURL    string    `json:"llm_base_url"`
	ReviewEnabled bool      `json:"review_enabled"`
	LLMCache      bool      `json:"llm_cache"`
	Version       string    `json:"version,omitempty"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// NewMeta starts a Meta for doc read from source, with a fresh run ID.
func NewMeta(source string, doc document.Document, now time.Time) Meta {
	return Meta{
		RunID:       uuid.NewString(),
		Source:      source,
		SHA256:      computeSHA256Hex(doc.FullText),
		Chars:       document.Len(doc.FullText),
		GeneratedAt: now.UTC(),
	}
}

func computeSHA256Hex(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

// appendFooter appends a compact run record to a Markdown report.
func appendFooter(b *strings.Builder, meta Meta) {
	b.WriteString("\n---\n")
	b.WriteString("run=")
	b.WriteString(meta.RunID)
	b.WriteString("; source=")
	b.WriteString(strings.TrimSpace(meta.Source))
	b.WriteString("; sha256=")
	b.WriteString(meta.SHA256)
	b.WriteString("; chars=")
	b.WriteString(strconv.Itoa(meta.Chars))
	if meta.ReviewEnabled {
		b.WriteString("; model=")
		b.WriteString(strings.TrimSpace(meta.Model))
		b.WriteString("; llm_base_url=")
		b.WriteString(strings.TrimSpace(meta.LLMBaseURL))
		b.WriteString("; llm_cache=")
		b.WriteString(strconv.FormatBool(meta.LLMCache))
	}
	if meta.Version != "" {
		b.WriteString("; version=")
		b.WriteString(meta.Version)
	}
	b.WriteString("; generated=")
	b.WriteString(meta.GeneratedAt.UTC().Format(time.RFC3339))
	b.WriteString("\n")
}

// MarshalManifest encodes the machine-readable sidecar written next to file
// reports.
func MarshalManifest(meta Meta) ([]byte, error) {
	return json.MarshalIndent(struct {
		Meta Meta `json:"meta"`
	}{Meta: meta}, "", "  ")
}

// UnmarshalManifest decodes a sidecar written by MarshalManifest.
func UnmarshalManifest(b []byte) (Meta, error) {
	var side struct {
		Meta *Meta `json:"meta"`
	}
	if err := json.Unmarshal(b, &side); err != nil {
		return Meta{}, err
	}
	if side.Meta == nil {
		return Meta{}, errors.New("manifest: missing meta object")
	}
	return *side.Meta, nil
}

// SidecarPath returns the manifest path for a report written to outputPath.
func SidecarPath(outputPath string) string {
	return outputPath + ".manifest.json"
}

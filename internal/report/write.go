package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperifyio/proposalcheck/internal/audit"
)

// Format is an output format.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
	FormatPDF      Format = "pdf"
	FormatXLSX     Format = "xlsx"
)

// ErrUnknownFormat is returned for output paths whose extension has no writer.
var ErrUnknownFormat = errors.New("unknown report format")

// FormatFor picks the output format from path. "-" means JSON on stdout.
func FormatFor(path string) (Format, error) {
	if path == "-" {
		return FormatJSON, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return FormatMarkdown, nil
	case ".json":
		return FormatJSON, nil
	case ".pdf":
		return FormatPDF, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Options configure Render and WriteFile.
type Options struct {
	PDF PDFOptions
}

// Render writes res to w in format.
func Render(w io.Writer, format Format, res audit.Result, meta Meta, opts Options) error {
	switch format {
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(res, meta))
		return err
	case FormatJSON:
		return JSON(w, res)
	case FormatPDF:
		return PDF(w, Markdown(res, meta), opts.PDF)
	case FormatXLSX:
		return XLSX(w, res, meta)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteFile renders res to path, choosing the format by extension, and
// writes the manifest sidecar next to it. Path "-" writes JSON to stdout
// without a sidecar.
func WriteFile(path string, res audit.Result, meta Meta, opts Options) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	if path == "-" {
		return Render(os.Stdout, format, res, meta, opts)
	}
	var buf bytes.Buffer
	if err := Render(&buf, format, res, meta, opts); err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	side, err := MarshalManifest(meta)
	if err != nil {
		return err
	}
	if err := os.WriteFile(SidecarPath(path), side, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// Package extract turns proposal files into the block model the checks
// consume: ordered paragraphs with their heading level.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperifyio/proposalcheck/internal/document"
)

// ErrUnsupportedFormat is returned for files whose extension has no adapter.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// MaxInputBytes bounds the size of a document read by the adapters.
const MaxInputBytes = 32 << 20

// Extractor converts raw document bytes into a Document.
type Extractor interface {
	Extract(data []byte) (document.Document, error)
}

// SupportedExtensions lists the file extensions with an adapter.
var SupportedExtensions = map[string]bool{
	".docx":     true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".txt":      true,
}

// ForFile returns the adapter for filename based on its extension.
func ForFile(filename string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".docx":
		return DOCX{}, nil
	case ".md", ".markdown":
		return Markdown{}, nil
	case ".html", ".htm":
		return HTML{}, nil
	case ".pdf":
		return PDF{}, nil
	case ".txt":
		return Text{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// IsSupported reports whether filename has an adapter.
func IsSupported(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// FromReader reads r fully and extracts it with the adapter for filename.
func FromReader(r io.Reader, filename string) (document.Document, error) {
	ex, err := ForFile(filename)
	if err != nil {
		return document.Document{}, err
	}
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, MaxInputBytes+1))
	if err != nil {
		return document.Document{}, fmt.Errorf("read %s: %w", filename, err)
	}
	if n > MaxInputBytes {
		return document.Document{}, fmt.Errorf("read %s: document exceeds %d bytes", filename, MaxInputBytes)
	}
	doc, err := ex.Extract(buf.Bytes())
	if err != nil {
		return document.Document{}, fmt.Errorf("extract %s: %w", filename, err)
	}
	return doc, nil
}

// FromFile opens path and extracts it.
func FromFile(path string) (document.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return document.Document{}, err
	}
	defer f.Close()
	return FromReader(f, filepath.Base(path))
}

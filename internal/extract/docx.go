package extract

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/hyperifyio/proposalcheck/internal/document"
)

// DOCX maps Word paragraph styles to heading levels. Empty paragraphs are
// kept as empty blocks so that blank lines survive in the full text.
type DOCX struct{}

var headingStyleRe = regexp.MustCompile(`(?i)^(?:heading|כותרת)\s*([1-6])$`)

func (DOCX) Extract(data []byte) (document.Document, error) {
	parsed, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return document.Document{}, fmt.Errorf("parse docx: %w", err)
	}
	var blocks []document.Block
	for _, item := range parsed.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		blocks = append(blocks, document.Block{
			Text:  paragraphText(para),
			Level: styleLevel(para),
		})
	}
	return document.New(blocks), nil
}

func styleLevel(para *docx.Paragraph) document.HeadingLevel {
	if para.Properties == nil || para.Properties.Style == nil {
		return document.None
	}
	style := strings.TrimSpace(para.Properties.Style.Val)
	if strings.EqualFold(style, "Title") || style == "כותרת" {
		return document.Title
	}
	if m := headingStyleRe.FindStringSubmatch(style); m != nil {
		depth, _ := strconv.Atoi(m[1])
		return document.HeadingFromDepth(depth)
	}
	return document.None
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return buf.String()
}

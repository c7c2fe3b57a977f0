package extract

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/hyperifyio/proposalcheck/internal/document"
)

// Markdown maps ATX and setext headings to heading blocks by depth. Every
// other top-level block contributes one body block per source line, and a
// blank body block between blocks keeps paragraph breaks in the full text.
type Markdown struct{}

func (Markdown) Extract(data []byte) (document.Document, error) {
	src := bytes.TrimPrefix(data, []byte("\ufeff"))
	root := goldmark.New().Parser().Parse(text.NewReader(src))

	var blocks []document.Block
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			blocks = append(blocks, document.Block{
				Text:  strings.TrimSpace(inlineText(h, src)),
				Level: document.HeadingFromDepth(h.Level),
			})
			continue
		}
		if len(blocks) > 0 && !blocks[len(blocks)-1].Level.IsHeading() {
			blocks = append(blocks, document.Block{})
		}
		for _, line := range strings.Split(blockText(n, src), "\n") {
			if t := strings.TrimSpace(line); t != "" {
				blocks = append(blocks, document.Block{Text: t})
			}
		}
	}
	return document.New(blocks), nil
}

// blockText returns the text of a block node, one line per source line or
// list item.
func blockText(n ast.Node, src []byte) string {
	switch n.Kind() {
	case ast.KindList:
		var items []string
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			items = append(items, blockText(c, src))
		}
		return strings.Join(items, "\n")
	case ast.KindListItem, ast.KindBlockquote:
		var parts []string
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			parts = append(parts, blockText(c, src))
		}
		return strings.Join(parts, "\n")
	case ast.KindFencedCodeBlock, ast.KindCodeBlock, ast.KindHTMLBlock:
		var buf bytes.Buffer
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
		return buf.String()
	}
	return inlineText(n, src)
}

// inlineText flattens the inline children of n, turning soft and hard line
// breaks into newlines.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(t.Value)
		case *ast.AutoLink:
			buf.Write(t.URL(src))
		default:
			buf.WriteString(inlineText(c, src))
		}
	}
	return buf.String()
}

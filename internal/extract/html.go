package extract

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/hyperifyio/proposalcheck/internal/document"
)

// HTML maps h1..h6 to heading blocks and paragraphs, list items, table cells
// and preformatted text to body blocks. Content is taken from <main>, then
// <article>, then <body>; navigation and consent banners are skipped.
type HTML struct{}

func (HTML) Extract(data []byte) (document.Document, error) {
	node, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return document.Document{}, fmt.Errorf("parse html: %w", err)
	}
	content := findFirst(node, "main")
	if content == nil {
		content = findFirst(node, "article")
	}
	if content == nil {
		content = findFirst(node, "body")
	}
	if content == nil {
		content = node
	}
	var blocks []document.Block
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if isBoilerplateContainer(n) {
				return
			}
			name := strings.ToLower(n.Data)
			switch name {
			case "script", "style", "noscript", "nav", "footer", "aside", "iframe":
				return
			case "h1", "h2", "h3", "h4", "h5", "h6":
				level := document.HeadingFromDepth(int(name[1] - '0'))
				blocks = append(blocks, document.Block{Text: collapseSpaces(textContent(n)), Level: level})
				return
			case "p", "li", "td", "th", "blockquote", "pre", "dd", "dt":
				for _, line := range strings.Split(textContent(n), "\n") {
					if t := collapseSpaces(line); t != "" {
						blocks = append(blocks, document.Block{Text: t})
					}
				}
				return
			}
		}
		if n.Type == html.TextNode {
			if t := collapseSpaces(n.Data); t != "" {
				blocks = append(blocks, document.Block{Text: t})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(content)
	return document.New(blocks), nil
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, tag) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if f := findFirst(c, tag); f != nil {
			return f
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
		case n.Type == html.ElementNode && strings.EqualFold(n.Data, "br"):
			b.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return b.String()
}

// isBoilerplateContainer returns true if the element looks like a cookie or
// consent banner.
func isBoilerplateContainer(n *html.Node) bool {
	for _, attr := range n.Attr {
		key := strings.ToLower(attr.Key)
		if key != "id" && key != "class" && key != "role" && key != "aria-label" {
			continue
		}
		val := strings.ToLower(attr.Val)
		for _, marker := range []string{"cookie", "consent", "gdpr"} {
			if strings.Contains(val, marker) {
				return true
			}
		}
	}
	return false
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

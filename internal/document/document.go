package document

import (
	"strings"
)

// HeadingLevel tags a block as body text or as a section title.
type HeadingLevel int

const (
	// None marks ordinary body text.
	None HeadingLevel = iota
	// Title is the document-title style used on cover pages.
	Title
	H1
	H2
	H3
	H4
	H5
	H6
)

// HeadingFromDepth maps a 1-based heading depth (h1..h6) to a HeadingLevel.
// Depths outside 1..6 are clamped.
func HeadingFromDepth(depth int) HeadingLevel {
	if depth <= 0 {
		return None
	}
	if depth > 6 {
		depth = 6
	}
	return H1 + HeadingLevel(depth-1)
}

func (l HeadingLevel) String() string {
	switch l {
	case None:
		return "none"
	case Title:
		return "title"
	case H1, H2, H3, H4, H5, H6:
		return "h" + string(rune('1'+int(l-H1)))
	}
	return "unknown"
}

// IsHeading reports whether the level is anything other than body text.
func (l HeadingLevel) IsHeading() bool { return l != None }

// Block is one paragraph of the source document.
type Block struct {
	Text  string       `json:"text"`
	Level HeadingLevel `json:"headingLevel"`
	Index int          `json:"index"`
}

// Heading is the derived view of a block whose level is not None.
type Heading struct {
	Text  string
	Level HeadingLevel
	Index int
}

// Chapter is a heading plus all body text up to the next heading.
type Chapter struct {
	Title      string
	Level      HeadingLevel
	Content    string
	StartIndex int
}

// Document is the adapter output consumed by every analyzer: the ordered
// blocks plus the full concatenated text.
type Document struct {
	Blocks   []Block
	FullText string
}

// New builds a Document from blocks, numbering them and deriving the full
// text by joining block text with newlines.
func New(blocks []Block) Document {
	out := make([]Block, len(blocks))
	lines := make([]string, len(blocks))
	for i, b := range blocks {
		b.Index = i
		out[i] = b
		lines[i] = b.Text
	}
	return Document{Blocks: out, FullText: strings.Join(lines, "\n")}
}

// FromText splits plain text into body blocks, one per line. No headings are
// inferred; structure checks then fall back to full-text matching.
func FromText(text string) Document {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	blocks := make([]Block, 0, len(lines))
	for _, l := range lines {
		blocks = append(blocks, Block{Text: l})
	}
	d := New(blocks)
	d.FullText = text
	return d
}

// Headings returns every heading block with its text trimmed, in block order.
func (d Document) Headings() []Heading {
	var out []Heading
	for _, b := range d.Blocks {
		if !b.Level.IsHeading() {
			continue
		}
		out = append(out, Heading{Text: strings.TrimSpace(b.Text), Level: b.Level, Index: b.Index})
	}
	return out
}

// Chapters groups body blocks under the nearest preceding non-empty heading.
// Body text before the first heading belongs to no chapter.
func (d Document) Chapters() []Chapter {
	var (
		out []Chapter
		cur *Chapter
	)
	for _, b := range d.Blocks {
		text := strings.TrimSpace(b.Text)
		if b.Level.IsHeading() && text != "" {
			if cur != nil {
				out = append(out, *cur)
			}
			cur = &Chapter{Title: text, Level: b.Level, StartIndex: b.Index}
			continue
		}
		if cur != nil && text != "" {
			cur.Content += text + "\n"
		}
	}
	if cur != nil {
		out = append(out, *cur)
	}
	return out
}

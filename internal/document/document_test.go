package document

import (
	"strings"
	"testing"
)

func TestChaptersGroupsBodyUnderHeadings(t *testing.T) {
	d := New([]Block{
		{Text: "cover line"},
		{Text: "מבוא", Level: H1},
		{Text: "  first paragraph  "},
		{Text: ""},
		{Text: "second paragraph"},
		{Text: "   ", Level: H2},
		{Text: "still intro"},
		{Text: "שיטת המחקר", Level: H1},
		{Text: "method body"},
	})
	chs := d.Chapters()
	if len(chs) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(chs))
	}
	if chs[0].Title != "מבוא" || chs[0].StartIndex != 1 {
		t.Fatalf("unexpected first chapter: %+v", chs[0])
	}
	if chs[0].Content != "first paragraph\nsecond paragraph\nstill intro\n" {
		t.Fatalf("unexpected content %q", chs[0].Content)
	}
	if chs[1].Content != "method body\n" {
		t.Fatalf("unexpected second content %q", chs[1].Content)
	}
}

func TestHeadingsTrimAndKeepOrder(t *testing.T) {
	d := New([]Block{
		{Text: " Title ", Level: Title},
		{Text: "body"},
		{Text: "1. Introduction ", Level: H2},
	})
	hs := d.Headings()
	if len(hs) != 2 {
		t.Fatalf("expected 2 headings, got %d", len(hs))
	}
	if hs[0].Text != "Title" || hs[1].Text != "1. Introduction" || hs[1].Index != 2 {
		t.Fatalf("unexpected headings: %+v", hs)
	}
}

func TestNewJoinsFullText(t *testing.T) {
	d := New([]Block{{Text: "a"}, {Text: "b"}})
	if d.FullText != "a\nb" {
		t.Fatalf("full text %q", d.FullText)
	}
	if d.Blocks[1].Index != 1 {
		t.Fatalf("index not assigned")
	}
}

func TestHeadingFromDepth(t *testing.T) {
	if HeadingFromDepth(0) != None || HeadingFromDepth(1) != H1 || HeadingFromDepth(9) != H6 {
		t.Fatalf("unexpected depth mapping")
	}
	if H3.String() != "h3" || Title.String() != "title" {
		t.Fatalf("unexpected names %s %s", H3, Title)
	}
}

func TestRuneWindows(t *testing.T) {
	s := "שלום עולם"
	if Prefix(s, 4) != "שלום" {
		t.Fatalf("prefix %q", Prefix(s, 4))
	}
	if Suffix(s, 4) != "עולם" {
		t.Fatalf("suffix %q", Suffix(s, 4))
	}
	if Prefix(s, 100) != s || Suffix(s, 100) != s {
		t.Fatalf("over-long windows must return input")
	}
	long := strings.Repeat("א", 10) + strings.Repeat("ב", 10)
	got := HeadTail(long, 12, 3, "|")
	if got != "אאא|בבב" {
		t.Fatalf("head/tail %q", got)
	}
	if HeadTail("short", 12, 3, "|") != "short" {
		t.Fatalf("short input must pass through")
	}
}

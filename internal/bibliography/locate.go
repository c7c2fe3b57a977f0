package bibliography

import (
	"regexp"
	"strings"

	"github.com/hyperifyio/proposalcheck/internal/match"
)

var (
	sectionRe = regexp.MustCompile(`(?i)(?:ביבליוגרפיה|רשימת\s*מקורות|מקורות|references|bibliography)\s*\n([\s\S]+)$`)

	sectionMarkers = match.Exact{"ביבליוגרפיה", "רשימת מקורות", "references", "bibliography", "מקורות"}
)

// Locate returns the text following the bibliography marker. The primary
// strategy takes the first marker word followed by a line break; the fallback
// walks lines backwards looking for a line that is exactly a marker. An empty
// section counts as not found.
func Locate(fullText string) (string, bool) {
	if m := sectionRe.FindStringSubmatch(fullText); m != nil {
		s := strings.TrimSpace(m[1])
		return s, s != ""
	}
	lines := strings.Split(fullText, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if _, ok := sectionMarkers.Match(lines[i]); ok {
			s := strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
			return s, s != ""
		}
	}
	return "", false
}

package bibliography

import (
	"regexp"
	"strings"
)

// segmenter states
type segState int

const (
	// betweenEntries: the buffer is empty, the next non-blank line opens an entry.
	betweenEntries segState = iota
	// accumulating: lines are being joined into the current entry.
	accumulating
)

var (
	entryStartRe = regexp.MustCompile(`^[A-Z\x{0590}-\x{05FF}]`)
	openYearRe   = regexp.MustCompile(`\(\d{4}`)
)

// startsNewEntry is the single transition rule out of accumulating: a line
// opens a new entry when it begins with an uppercase Latin or Hebrew letter
// and carries a parenthesized year.
func startsNewEntry(line string) bool {
	return entryStartRe.MatchString(line) && openYearRe.MatchString(line)
}

// Segment splits a bibliography section into entries. Blank lines always end
// an entry; wrapped lines are joined with a single space unless they look
// like the start of a new entry. It prefers merging two entries over
// splitting one.
func Segment(section string) []string {
	var (
		out   []string
		buf   strings.Builder
		state = betweenEntries
	)
	commit := func() {
		if s := strings.TrimSpace(buf.String()); s != "" {
			out = append(out, s)
		}
		buf.Reset()
		state = betweenEntries
	}

	for _, raw := range strings.Split(section, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			if state == accumulating {
				commit()
			}
			continue
		}
		switch state {
		case betweenEntries:
			buf.WriteString(line)
			state = accumulating
		case accumulating:
			if startsNewEntry(line) {
				commit()
				buf.WriteString(line)
				state = accumulating
				continue
			}
			buf.WriteByte(' ')
			buf.WriteString(line)
		}
	}
	commit()
	return out
}

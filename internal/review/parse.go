package review

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/hyperifyio/proposalcheck/internal/document"
)

// RawFallbackChars bounds the raw model text kept when an answer is not JSON.
const RawFallbackChars = 1000

var fenceRe = regexp.MustCompile("```json\\s*|```\\s*")

// Answer is the outcome of decoding one model answer. Exactly one of Parsed
// or Raw is meaningful: Parsed holds the decoded value when OK, Raw the first
// RawFallbackChars characters of the answer otherwise.
type Answer[T any] struct {
	Parsed T
	Raw    string
	OK     bool
}

// stripFences removes markdown code fences the model often wraps JSON in.
func stripFences(s string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(s, ""))
}

// decode parses text as a JSON T after stripping code fences. It never
// fails: undecodable answers become a raw fallback.
func decode[T any](text string) Answer[T] {
	var v T
	if err := json.Unmarshal([]byte(stripFences(text)), &v); err != nil {
		return Answer[T]{Raw: document.Prefix(text, RawFallbackChars)}
	}
	return Answer[T]{Parsed: v, OK: true}
}

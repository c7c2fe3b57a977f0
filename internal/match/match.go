// Package match implements ordered pattern families: a named check owns a
// list of recognizers evaluated in order, and the first one that matches
// wins. Finding nothing is a normal outcome, not an error.
package match

import (
	"regexp"
	"strings"
)

// Matcher recognizes one surface pattern in a piece of text.
type Matcher interface {
	// Match returns the matched span and true, or "" and false.
	Match(text string) (string, bool)
}

// Regexp is a Matcher backed by a compiled regular expression.
type Regexp struct {
	re *regexp.Regexp
}

// Re compiles pattern and panics on a malformed expression, like
// regexp.MustCompile. Intended for package-level pattern tables.
func Re(pattern string) Regexp {
	return Regexp{re: regexp.MustCompile(pattern)}
}

func (r Regexp) Match(text string) (string, bool) {
	loc := r.re.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	return text[loc[0]:loc[1]], true
}

func (r Regexp) String() string { return r.re.String() }

// Exact matches text that equals one of the listed words after trimming and
// lowercasing.
type Exact []string

func (e Exact) Match(text string) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	for _, w := range e {
		if t == w {
			return w, true
		}
	}
	return "", false
}

// Family is an ordered list of matchers.
type Family []Matcher

// Res builds a Family of regular expressions in the given order.
func Res(patterns ...string) Family {
	f := make(Family, 0, len(patterns))
	for _, p := range patterns {
		f = append(f, Re(p))
	}
	return f
}

// First evaluates the family in order against text and reports the first hit.
func (f Family) First(text string) (Hit, bool) {
	for i, m := range f {
		if span, ok := m.Match(text); ok {
			return Hit{Pattern: i, Span: span}, true
		}
	}
	return Hit{}, false
}

// Any reports whether some matcher in the family matches text.
func (f Family) Any(text string) bool {
	_, ok := f.First(text)
	return ok
}

// Hit describes a successful family match.
type Hit struct {
	// Pattern is the index of the matcher that fired.
	Pattern int
	// Span is the matched text.
	Span string
}

// FirstIn scans items in order and, for each, the family in order; the
// first (item, pattern) pair that matches wins. It returns the index of the
// winning item.
func (f Family) FirstIn(items []string) (int, Hit, bool) {
	for i, it := range items {
		if h, ok := f.First(it); ok {
			return i, h, true
		}
	}
	return -1, Hit{}, false
}

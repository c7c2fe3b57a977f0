package document

import "unicode/utf8"

// Len returns the length of s in characters (runes), which is the unit every
// window and threshold in the analyzers is expressed in.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

// Prefix returns the first n characters of s, never splitting a UTF-8 rune.
func Prefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// Suffix returns the last n characters of s.
func Suffix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	total := utf8.RuneCountInString(s)
	if n >= total {
		return s
	}
	skip := total - n
	count := 0
	for i := range s {
		if count == skip {
			return s[i:]
		}
		count++
	}
	return ""
}

// HeadTail keeps s intact when it has at most limit characters; otherwise it
// returns the first and last half characters joined by sep.
func HeadTail(s string, limit, half int, sep string) string {
	if Len(s) <= limit {
		return s
	}
	return Prefix(s, half) + sep + Suffix(s, half)
}

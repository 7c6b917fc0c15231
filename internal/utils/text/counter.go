// Package text provides utilities for text processing and analysis.
// It includes character and word counting plus positional chunking used to keep
// text under the input limits of summarization providers.
package text

import "strings"

// CountRunes counts the number of Unicode characters (runes) in the given text.
// Multi-byte characters count once, so limits expressed in characters behave the
// same for ASCII and non-ASCII documents.
//
// Examples:
//
//	CountRunes("hello")     // returns 5
//	CountRunes("héllo")     // returns 5
//	CountRunes("")          // returns 0
func CountRunes(text string) int {
	return len([]rune(text))
}

// CountWords counts whitespace-delimited tokens in text.
//
//	CountWords("  New line\there. ") // returns 3
func CountWords(text string) int {
	return len(strings.Fields(text))
}

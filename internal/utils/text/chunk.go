package text

import "unicode/utf8"

// Chunk splits text into contiguous, non-overlapping pieces of at most size
// characters (runes), left to right. Concatenating the result reproduces text
// exactly and only the last piece may be shorter than size.
//
// Boundaries are purely positional: a piece may end in the middle of a word
// or sentence.
//
// Empty text yields no chunks. A non-positive size yields the whole text as a
// single chunk.
func Chunk(text string, size int) []string {
	if text == "" {
		return nil
	}
	if size <= 0 {
		return []string{text}
	}

	chunks := make([]string, 0, utf8.RuneCountInString(text)/size+1)
	start, runes := 0, 0
	for i := range text {
		if runes == size {
			chunks = append(chunks, text[start:i])
			start, runes = i, 0
		}
		runes++
	}
	return append(chunks, text[start:])
}

package bullet

import "regexp"

// Segmenter splits a summary into sentence fragments.
type Segmenter interface {
	Segment(summary string) []string
}

// sentenceBoundary matches a period followed by a space or a newline.
var sentenceBoundary = regexp.MustCompile(`\. |\.\n`)

// RegexSegmenter splits on ". " and ".\n". The separator's period is
// consumed, so only the final fragment keeps a trailing period.
type RegexSegmenter struct{}

// Segment implements Segmenter.
func (RegexSegmenter) Segment(summary string) []string {
	return sentenceBoundary.Split(summary, -1)
}

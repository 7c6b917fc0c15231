// Package compare computes line-level differences between two documents.
package compare

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"docdiff/internal/domain/entity"
)

// Engine reduces a unified line diff of two documents to its added and
// removed lines. It keeps no state and is safe for concurrent use.
type Engine struct{}

// NewEngine creates a diff engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Diff compares the old and new line sequences and returns the lines that
// differ. Removed lines of a replaced block precede the added ones, matching
// unified diff output order. Context lines and headers never appear.
//
// Both sequences are joined with "\n" and split again before diffing, so
// lines that themselves contain line breaks are compared line by line.
func (e *Engine) Diff(oldLines, newLines []entity.Line) entity.ChangeSet {
	a := normalize(oldLines)
	b := normalize(newLines)

	var changes entity.ChangeSet
	for _, op := range difflib.NewMatcher(a, b).GetOpCodes() {
		switch op.Tag {
		case 'd':
			changes = appendTagged(changes, entity.Removed, a[op.I1:op.I2])
		case 'i':
			changes = appendTagged(changes, entity.Added, b[op.J1:op.J2])
		case 'r':
			changes = appendTagged(changes, entity.Removed, a[op.I1:op.I2])
			changes = appendTagged(changes, entity.Added, b[op.J1:op.J2])
		}
	}
	return changes
}

func appendTagged(changes entity.ChangeSet, tag entity.ChangeTag, lines []string) entity.ChangeSet {
	for _, l := range lines {
		changes = append(changes, entity.TaggedLine{Tag: tag, Text: l})
	}
	return changes
}

// normalize joins lines with "\n" and re-splits them. A single trailing line
// break does not produce an extra empty line and empty input yields no lines.
func normalize(lines []entity.Line) []string {
	joined := strings.Join(lines, "\n")
	if joined == "" {
		return nil
	}
	joined = strings.ReplaceAll(joined, "\r\n", "\n")
	joined = strings.ReplaceAll(joined, "\r", "\n")
	joined = strings.TrimSuffix(joined, "\n")
	return strings.Split(joined, "\n")
}

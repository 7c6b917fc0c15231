// Package entity defines the core domain entities of a document comparison run.
// It contains the line-level change model produced by diffing two documents,
// the rendered bullet list, and the domain-specific errors.
package entity

import "strings"

// Line is one unit of document content as produced by a text extractor.
type Line = string

// ChangeTag marks whether a line was added to or removed from a document.
type ChangeTag string

const (
	// Added marks a line present in the new document but not in the old one.
	Added ChangeTag = "added"
	// Removed marks a line present in the old document but not in the new one.
	Removed ChangeTag = "removed"
)

// Marker returns the unified diff marker for the tag ("+" or "-").
func (t ChangeTag) Marker() string {
	switch t {
	case Added:
		return "+"
	case Removed:
		return "-"
	default:
		return ""
	}
}

// TaggedLine is a single differing line together with its change tag.
type TaggedLine struct {
	Tag  ChangeTag
	Text string
}

// String renders the line in unified diff notation, e.g. "+New line here.".
func (l TaggedLine) String() string {
	return l.Tag.Marker() + l.Text
}

// ChangeSet is the ordered list of added and removed lines between two documents.
// The order follows the diff algorithm's output, not document order.
type ChangeSet []TaggedLine

// IsEmpty reports whether the change set contains no lines.
func (c ChangeSet) IsEmpty() bool {
	return len(c) == 0
}

// Count returns the number of lines carrying the given tag.
func (c ChangeSet) Count(tag ChangeTag) int {
	n := 0
	for _, l := range c {
		if l.Tag == tag {
			n++
		}
	}
	return n
}

// Text flattens the change set into one blob by joining the line texts with
// a single space. Tags are not part of the blob.
func (c ChangeSet) Text() string {
	if len(c) == 0 {
		return ""
	}
	parts := make([]string, len(c))
	for i, l := range c {
		parts[i] = l.Text
	}
	return strings.Join(parts, " ")
}

// Lines renders every tagged line in unified diff notation.
func (c ChangeSet) Lines() []string {
	out := make([]string, len(c))
	for i, l := range c {
		out[i] = l.String()
	}
	return out
}

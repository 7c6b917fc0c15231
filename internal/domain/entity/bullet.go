package entity

import "strings"

// DefaultBulletMarker prefixes each rendered bullet.
const DefaultBulletMarker = "- "

// BulletList is an ordered sequence of unique, non-trivial sentence fragments.
type BulletList struct {
	Items  []string
	Marker string
}

// Len returns the number of bullets.
func (b BulletList) Len() int {
	return len(b.Items)
}

// Render returns the list as one string with one marked bullet per line.
func (b BulletList) Render() string {
	marker := b.Marker
	if marker == "" {
		marker = DefaultBulletMarker
	}
	var sb strings.Builder
	for i, item := range b.Items {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(marker)
		sb.WriteString(item)
	}
	return sb.String()
}

// Package bullet turns a summary into a deduplicated bullet list.
package bullet

import (
	"fmt"
	"strings"

	"docdiff/internal/config"
	"docdiff/internal/domain/entity"
)

// Order controls the order of rendered bullets.
type Order string

const (
	// OrderStable keeps the first occurrence order of fragments.
	OrderStable Order = config.OrderStable
	// OrderSet emits fragments in map iteration order, which is unspecified.
	OrderSet Order = config.OrderSet
)

// ParseOrder validates an order name. Empty selects OrderStable.
func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(s)) {
	case "", OrderStable:
		return OrderStable, nil
	case OrderSet:
		return OrderSet, nil
	default:
		return "", fmt.Errorf("%w: bullet order %q (want %s or %s)", entity.ErrInvalidInput, s, OrderStable, OrderSet)
	}
}

// minFragmentLength is the shortest trimmed fragment kept; shorter ones are noise.
const minFragmentLength = 4

// Formatter splits, deduplicates and filters summary sentences.
type Formatter struct {
	segmenter Segmenter
	order     Order
	marker    string
}

// NewFormatter creates a Formatter. A nil segmenter selects RegexSegmenter and
// an empty marker selects entity.DefaultBulletMarker.
func NewFormatter(segmenter Segmenter, order Order, marker string) *Formatter {
	if segmenter == nil {
		segmenter = RegexSegmenter{}
	}
	if marker == "" {
		marker = entity.DefaultBulletMarker
	}
	return &Formatter{segmenter: segmenter, order: order, marker: marker}
}

// NewFormatterFromConfig creates a Formatter with the default segmenter.
func NewFormatterFromConfig(cfg config.BulletConfig) (*Formatter, error) {
	order, err := ParseOrder(cfg.Order)
	if err != nil {
		return nil, err
	}
	return NewFormatter(nil, order, cfg.Marker), nil
}

// Format returns the bullet list for summary.
//
// Fragments are deduplicated by exact text before trimming; fragments whose
// trimmed length is three characters or less are dropped. Surviving fragments
// are trimmed.
func (f *Formatter) Format(summary string) entity.BulletList {
	fragments := f.unique(f.segmenter.Segment(summary))

	items := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		trimmed := strings.TrimSpace(fragment)
		if len([]rune(trimmed)) < minFragmentLength {
			continue
		}
		items = append(items, trimmed)
	}

	return entity.BulletList{Items: items, Marker: f.marker}
}

func (f *Formatter) unique(fragments []string) []string {
	if f.order == OrderSet {
		set := make(map[string]struct{}, len(fragments))
		for _, fragment := range fragments {
			set[fragment] = struct{}{}
		}
		out := make([]string, 0, len(set))
		for fragment := range set {
			out = append(out, fragment)
		}
		return out
	}

	seen := make(map[string]struct{}, len(fragments))
	out := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		if _, ok := seen[fragment]; ok {
			continue
		}
		seen[fragment] = struct{}{}
		out = append(out, fragment)
	}
	return out
}

package extractor

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"docdiff/internal/domain/entity"
)

// Feed handles RSS, Atom and JSON feed snapshots. The feed title and
// description come first, then each item's title and text content.
type Feed struct{}

// Extract implements Extractor.
func (f *Feed) Extract(r io.Reader) ([]entity.Line, error) {
	feed, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	var lines []entity.Line
	lines = appendLines(lines, feed.Title)
	lines = appendLines(lines, htmlText(feed.Description))

	for _, item := range feed.Items {
		lines = appendLines(lines, item.Title)

		// Content preferred, Description otherwise
		content := item.Content
		if content == "" {
			content = item.Description
		}
		lines = appendLines(lines, htmlText(content))
	}
	return lines, nil
}

// htmlText strips markup from an HTML fragment.
func htmlText(fragment string) string {
	if !strings.Contains(fragment, "<") {
		return fragment
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	return strings.Join(blockLines(doc.Selection), "\n")
}

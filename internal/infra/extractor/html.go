package extractor

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"docdiff/internal/domain/entity"
)

// blockSelector lists the elements whose text becomes one line each.
const blockSelector = "h1, h2, h3, h4, h5, h6, p, li, pre, blockquote, td, th, dt, dd, figcaption"

// HTML handles HTML files. Readability isolates the main content first; when
// it fails or finds nothing, the whole body is used.
type HTML struct{}

// Extract implements Extractor.
func (h *HTML) Extract(r io.Reader) ([]entity.Line, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read html: %w", err)
	}

	if article, err := readability.FromReader(bytes.NewReader(data), nil); err == nil && article.Content != "" {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content)); err == nil {
			if lines := blockLines(doc.Selection); len(lines) > 0 {
				return lines, nil
			}
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, noscript, template").Remove()

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}
	return blockLines(body), nil
}

// blockLines emits one line per innermost block element under sel, or the
// plain text lines of sel when it has no block elements.
func blockLines(sel *goquery.Selection) []entity.Line {
	var lines []entity.Line

	blocks := sel.Find(blockSelector)
	if blocks.Length() == 0 {
		return appendLines(lines, sel.Text())
	}

	blocks.Each(func(_ int, s *goquery.Selection) {
		if s.Find(blockSelector).Length() > 0 {
			return
		}
		if goquery.NodeName(s) == "pre" {
			lines = appendLines(lines, s.Text())
			return
		}
		if text := strings.Join(strings.Fields(s.Text()), " "); text != "" {
			lines = append(lines, text)
		}
	})
	return lines
}

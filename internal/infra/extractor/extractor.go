// Package extractor turns source documents into ordered, non-empty lines.
// Any failure here is fatal for a comparison run and is reported as an
// entity.ExtractionError.
package extractor

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"docdiff/internal/domain/entity"
)

// Extractor converts one document stream into lines.
type Extractor interface {
	Extract(r io.Reader) ([]entity.Line, error)
}

// Document formats.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatDOCX     = "docx"
	FormatPDF      = "pdf"
	FormatFeed     = "feed"
)

// SupportedExtensions maps file extensions to formats.
var SupportedExtensions = map[string]string{
	".txt":      FormatText,
	".text":     FormatText,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
	".html":     FormatHTML,
	".htm":      FormatHTML,
	".docx":     FormatDOCX,
	".pdf":      FormatPDF,
	".rss":      FormatFeed,
	".atom":     FormatFeed,
	".xml":      FormatFeed,
}

// Document is the extracted content of one file.
type Document struct {
	Path   string
	Format string
	Lines  []entity.Line
}

// ForFile returns the extractor and format name for a filename.
func ForFile(filename string) (Extractor, string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	format, ok := SupportedExtensions[ext]
	if !ok {
		return nil, "", fmt.Errorf("%w: %q", entity.ErrUnsupportedFormat, ext)
	}
	return forFormat(format), format, nil
}

func forFormat(format string) Extractor {
	switch format {
	case FormatText:
		return &Text{}
	case FormatMarkdown:
		return &Markdown{}
	case FormatHTML:
		return &HTML{}
	case FormatDOCX:
		return &DOCX{}
	case FormatPDF:
		return &PDF{}
	default:
		return &Feed{}
	}
}

// ExtractFile reads path with the extractor matching its extension.
func ExtractFile(path string) (*Document, error) {
	ex, format, err := ForFile(path)
	if err != nil {
		return nil, entity.NewExtractionError(path, err)
	}

	f, err := os.Open(path) // #nosec G304 -- path is supplied by the operator
	if err != nil {
		return nil, entity.NewExtractionError(path, err)
	}
	defer func() { _ = f.Close() }()

	lines, err := ex.Extract(f)
	if err != nil {
		return nil, entity.NewExtractionError(path, err)
	}

	return &Document{Path: path, Format: format, Lines: lines}, nil
}

// appendLines splits s on newlines and appends every line that is not blank.
func appendLines(lines []entity.Line, s string) []entity.Line {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// Text handles plain text files.
type Text struct{}

// Extract implements Extractor.
func (t *Text) Extract(r io.Reader) ([]entity.Line, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []entity.Line
	for scanner.Scan() {
		lines = appendLines(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	return lines, nil
}

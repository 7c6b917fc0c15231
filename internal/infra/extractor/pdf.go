package extractor

import (
	"bytes"
	"fmt"
	"io"

	pdflib "github.com/ledongthuc/pdf"

	"docdiff/internal/domain/entity"
)

// PDF handles PDF files page by page.
type PDF struct{}

// Extract implements Extractor.
func (p *PDF) Extract(r io.Reader) (lines []entity.Line, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	// ledongthuc/pdf panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			lines, err = nil, fmt.Errorf("parse pdf: %v", rec)
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse pdf: %w", err)
	}

	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("pdf page %d: %w", i, err)
		}
		lines = appendLines(lines, text)
	}
	return lines, nil
}

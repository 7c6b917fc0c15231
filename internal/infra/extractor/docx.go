package extractor

import (
	"bytes"
	"fmt"
	"io"

	"github.com/fumiama/go-docx"

	"docdiff/internal/domain/entity"
)

// DOCX handles .docx files. Every paragraph with text becomes one line.
type DOCX struct{}

// Extract implements Extractor.
func (d *DOCX) Extract(r io.Reader) ([]entity.Line, error) {
	// go-docx needs a ReaderAt+size.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}

	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var lines []entity.Line
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		if text := paragraphText(para); text != "" {
			lines = append(lines, text)
		}
	}
	return lines, nil
}

// paragraphText joins the text of a paragraph's runs, including runs inside
// hyperlinks. Tabs and line breaks keep their characters.
func paragraphText(para *docx.Paragraph) string {
	var buf bytes.Buffer
	for _, child := range para.Children {
		switch c := child.(type) {
		case *docx.Run:
			writeRun(&buf, c)
		case *docx.Hyperlink:
			// go-docx writes link text as instrText; Word uses w:t runs.
			if len(c.Run.Children) == 0 {
				buf.WriteString(c.Run.InstrText)
				continue
			}
			writeRun(&buf, &c.Run)
		}
	}
	return buf.String()
}

func writeRun(buf *bytes.Buffer, run *docx.Run) {
	for _, rc := range run.Children {
		switch c := rc.(type) {
		case *docx.Text:
			buf.WriteString(c.Text)
		case *docx.Tab:
			buf.WriteByte('\t')
		case *docx.BarterRabbet:
			buf.WriteByte('\n')
		}
	}
}

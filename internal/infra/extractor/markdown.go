package extractor

import (
	"bytes"
	"fmt"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"docdiff/internal/domain/entity"
)

// Markdown handles Markdown files using goldmark. Markup is stripped; each
// source line of a paragraph, heading, list item or code block becomes a line.
type Markdown struct{}

// Extract implements Extractor.
func (m *Markdown) Extract(r io.Reader) ([]entity.Line, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var lines []entity.Line
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindParagraph, ast.KindHeading, ast.KindTextBlock:
			lines = appendLines(lines, inlineText(n, src))
			return ast.WalkSkipChildren, nil
		case ast.KindFencedCodeBlock, ast.KindCodeBlock:
			segments := n.Lines()
			for i := 0; i < segments.Len(); i++ {
				seg := segments.At(i)
				lines = appendLines(lines, string(seg.Value(src)))
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk markdown: %w", err)
	}
	return lines, nil
}

// inlineText gets the plain text of a node's inline children, with line
// breaks kept as newlines.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(src))
			if node.HardLineBreak() || node.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(node.Value)
		default:
			buf.WriteString(inlineText(c, src))
		}
	}
	return buf.String()
}

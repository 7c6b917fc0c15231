package extractor

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/fumiama/go-docx"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docdiff/internal/domain/entity"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		filename   string
		wantFormat string
		wantErr    bool
	}{
		{filename: "notes.txt", wantFormat: FormatText},
		{filename: "README.MD", wantFormat: FormatMarkdown},
		{filename: "page.htm", wantFormat: FormatHTML},
		{filename: "contract.docx", wantFormat: FormatDOCX},
		{filename: "report.pdf", wantFormat: FormatPDF},
		{filename: "feed.atom", wantFormat: FormatFeed},
		{filename: "sheet.odt", wantErr: true},
		{filename: "Makefile", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			ex, format, err := ForFile(tt.filename)
			if tt.wantErr {
				assert.ErrorIs(t, err, entity.ErrUnsupportedFormat)
				assert.Nil(t, ex)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, ex)
			assert.Equal(t, tt.wantFormat, format)
		})
	}
}

func TestText_Extract(t *testing.T) {
	input := "Hello world.\r\n\r\n   \nNew line here.\n\tindented line\n"

	lines, err := (&Text{}).Extract(strings.NewReader(input))
	require.NoError(t, err)

	want := []entity.Line{"Hello world.", "New line here.", "\tindented line"}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
	}
}

func TestMarkdown_Extract(t *testing.T) {
	input := strings.Join([]string{
		"# Release notes",
		"",
		"The **parser** now handles `tabs`.",
		"Second line of the paragraph.",
		"",
		"- first item",
		"- [linked item](https://example.com)",
		"",
		"```",
		"go test ./...",
		"```",
		"",
	}, "\n")

	lines, err := (&Markdown{}).Extract(strings.NewReader(input))
	require.NoError(t, err)

	want := []entity.Line{
		"Release notes",
		"The parser now handles tabs.",
		"Second line of the paragraph.",
		"first item",
		"linked item",
		"go test ./...",
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
	}
}

func TestDOCX_Extract(t *testing.T) {
	w := docx.New().WithDefaultTheme()
	w.AddParagraph().AddText("First paragraph.")
	w.AddParagraph()
	w.AddParagraph().AddText("Second paragraph.")

	var buf bytes.Buffer
	_, err := w.WriteTo(&buf)
	require.NoError(t, err)

	lines, err := (&DOCX{}).Extract(&buf)
	require.NoError(t, err)
	assert.Equal(t, []entity.Line{"First paragraph.", "Second paragraph."}, lines)
}

func TestDOCX_ExtractParagraphText(t *testing.T) {
	w := docx.New().WithDefaultTheme()
	p := w.AddParagraph()
	p.AddText("See ")
	p.AddLink("the terms", "https://example.com/terms")
	p.AddText(" for details.")
	w.AddParagraph().AddText("Name\tValue")
	w.AddParagraph().AddText("   ")

	var buf bytes.Buffer
	_, err := w.WriteTo(&buf)
	require.NoError(t, err)

	lines, err := (&DOCX{}).Extract(&buf)
	require.NoError(t, err)
	assert.Equal(t, []entity.Line{"See the terms for details.", "Name\tValue", "   "}, lines)
}

func TestDOCX_ExtractCorrupt(t *testing.T) {
	_, err := (&DOCX{}).Extract(strings.NewReader("not a zip archive"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse docx")
}

func TestPDF_ExtractCorrupt(t *testing.T) {
	_, err := (&PDF{}).Extract(strings.NewReader("%PDF-1.4\nthis is not a real pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse pdf")
}

func TestHTML_Extract(t *testing.T) {
	input := `<!DOCTYPE html>
<html>
<head><title>Changelog</title><style>p { color: red; }</style></head>
<body>
  <nav><a href="/">Home</a></nav>
  <article>
    <h1>Version 2.0</h1>
    <p>The configuration loader now reads YAML files from the working directory and falls back to environment variables when no file is present.</p>
    <p>Logging switched to structured JSON output so that entries can be collected by the platform log pipeline without extra parsing rules.</p>
    <ul><li>Removed the legacy XML exporter.</li></ul>
  </article>
  <script>console.log("ignored")</script>
</body>
</html>`

	lines, err := (&HTML{}).Extract(strings.NewReader(input))
	require.NoError(t, err)

	assert.Contains(t, lines, "The configuration loader now reads YAML files from the working directory and falls back to environment variables when no file is present.")
	assert.Contains(t, lines, "Logging switched to structured JSON output so that entries can be collected by the platform log pipeline without extra parsing rules.")
	for _, line := range lines {
		assert.NotContains(t, line, "console.log")
		assert.NotContains(t, line, "color: red")
	}
}

func TestBlockLines(t *testing.T) {
	doc := mustDocument(t, `<body>
<h2>Title</h2>
<ul><li><p>Nested   paragraph</p></li><li>Plain item</li></ul>
<pre>line one
line two</pre>
<table><tr><td>cell</td></tr></table>
</body>`)

	want := []entity.Line{"Title", "Nested paragraph", "Plain item", "line one", "line two", "cell"}
	if diff := cmp.Diff(want, blockLines(doc.Find("body"))); diff != "" {
		t.Errorf("blockLines() mismatch (-want +got):\n%s", diff)
	}
}

func TestBlockLines_NoBlocks(t *testing.T) {
	doc := mustDocument(t, "<body>just text\nsecond line</body>")
	assert.Equal(t, []entity.Line{"just text", "second line"}, blockLines(doc.Find("body")))
}

func TestFeed_Extract(t *testing.T) {
	input := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Project updates</title>
  <description>Weekly changes</description>
  <item>
    <title>Release 1.1</title>
    <description><![CDATA[<p>Added export.</p><p>Fixed login.</p>]]></description>
  </item>
  <item>
    <title>Release 1.2</title>
    <description>Plain description</description>
  </item>
</channel>
</rss>`

	lines, err := (&Feed{}).Extract(strings.NewReader(input))
	require.NoError(t, err)

	want := []entity.Line{
		"Project updates",
		"Weekly changes",
		"Release 1.1",
		"Added export.",
		"Fixed login.",
		"Release 1.2",
		"Plain description",
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
	}
}

func TestFeed_ExtractInvalid(t *testing.T) {
	_, err := (&Feed{}).Extract(strings.NewReader("plain text, not a feed"))
	assert.Error(t, err)
}

func TestExtractFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("Hello world.\n\nNew line here.\n"), 0o600))

	doc, err := ExtractFile(path)
	require.NoError(t, err)
	assert.Equal(t, FormatText, doc.Format)
	assert.Equal(t, path, doc.Path)
	assert.Equal(t, []entity.Line{"Hello world.", "New line here."}, doc.Lines)
}

func TestExtractFile_Errors(t *testing.T) {
	dir := t.TempDir()
	corrupt := filepath.Join(dir, "broken.docx")
	require.NoError(t, os.WriteFile(corrupt, []byte("garbage"), 0o600))

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.txt"), wantErr: os.ErrNotExist},
		{name: "unsupported format", path: filepath.Join(dir, "doc.odt"), wantErr: entity.ErrUnsupportedFormat},
		{name: "corrupt docx", path: corrupt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractFile(tt.path)
			require.Error(t, err)
			assert.ErrorIs(t, err, entity.ErrExtraction)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}

			var extractionErr *entity.ExtractionError
			require.ErrorAs(t, err, &extractionErr)
			assert.Equal(t, tt.path, extractionErr.Path)
		})
	}
}

func mustDocument(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

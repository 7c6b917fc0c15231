package extractor

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docdiff/internal/domain/entity"
	"docdiff/internal/infra/fetcher"
)

type stubFetcher struct {
	resp *fetcher.Response
	err  error
	urls []string
}

func (s *stubFetcher) Fetch(_ context.Context, u string) (*fetcher.Response, error) {
	s.urls = append(s.urls, u)
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func response(t *testing.T, rawURL, contentType, body string) *fetcher.Response {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	return &fetcher.Response{URL: u, ContentType: contentType, Body: []byte(body)}
}

func TestSources_Local(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("# Title\n\nBody text.\n"), 0o600))
	remote := &stubFetcher{}

	doc, err := Sources{Remote: remote}.Extract(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, doc.Format)
	assert.Equal(t, []entity.Line{"Title", "Body text."}, doc.Lines)
	assert.Empty(t, remote.urls)
}

func TestSources_Remote(t *testing.T) {
	remote := &stubFetcher{resp: response(t, "https://example.com/notes.md", "text/plain", "# Title\n\nBody text.\n")}

	doc, err := Sources{Remote: remote}.Extract(context.Background(), "https://example.com/notes.md")

	require.NoError(t, err)
	assert.Equal(t, "https://example.com/notes.md", doc.Path)
	assert.Equal(t, FormatMarkdown, doc.Format, "generic media type defers to the extension")
	assert.Equal(t, []entity.Line{"Title", "Body text."}, doc.Lines)
	assert.Equal(t, []string{"https://example.com/notes.md"}, remote.urls)
}

func TestSources_RemoteErrors(t *testing.T) {
	const location = "https://example.com/terms"

	tests := []struct {
		name    string
		sources Sources
		wantErr error
	}{
		{
			name:    "remote disabled",
			sources: Sources{},
			wantErr: entity.ErrUnsupportedFormat,
		},
		{
			name:    "download failure",
			sources: Sources{Remote: &stubFetcher{err: fetcher.ErrBodyTooLarge}},
			wantErr: fetcher.ErrBodyTooLarge,
		},
		{
			name:    "unsupported content",
			sources: Sources{Remote: &stubFetcher{resp: response(t, location, "image/png", "png")}},
			wantErr: entity.ErrUnsupportedFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.sources.Extract(context.Background(), location)
			require.Error(t, err)
			assert.ErrorIs(t, err, entity.ErrExtraction)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSources_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Sources{}.Extract(ctx, "doc.txt")

	assert.True(t, errors.Is(err, context.Canceled))
	assert.ErrorIs(t, err, entity.ErrExtraction)
}

func TestForContent(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		file        string
		wantFormat  string
		wantErr     bool
	}{
		{name: "html", contentType: "text/html; charset=utf-8", file: "/", wantFormat: FormatHTML},
		{name: "media type wins over extension", contentType: "application/pdf", file: "/download.php", wantFormat: FormatPDF},
		{name: "docx", contentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", wantFormat: FormatDOCX},
		{name: "rss", contentType: "application/rss+xml", wantFormat: FormatFeed},
		{name: "plain text with extension", contentType: "text/plain", file: "/README.md", wantFormat: FormatMarkdown},
		{name: "octet stream with extension", contentType: "application/octet-stream", file: "/a.docx", wantFormat: FormatDOCX},
		{name: "generic xml", contentType: "application/xml", file: "/feed", wantFormat: FormatFeed},
		{name: "plain text", contentType: "text/plain", file: "/terms", wantFormat: FormatText},
		{name: "missing content type", contentType: "", file: "/page.htm", wantFormat: FormatHTML},
		{name: "binary", contentType: "application/octet-stream", file: "/blob", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex, format, err := ForContent(tt.contentType, tt.file)
			if tt.wantErr {
				assert.ErrorIs(t, err, entity.ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, ex)
			assert.Equal(t, tt.wantFormat, format)
		})
	}
}

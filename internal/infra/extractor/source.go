package extractor

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path"
	"strings"

	"docdiff/internal/domain/entity"
	"docdiff/internal/infra/fetcher"
)

// Fetcher downloads a remote document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetcher.Response, error)
}

// Sources resolves document locations: local paths are read from disk and
// http(s) URLs are downloaded through Remote. The zero value reads local
// files only.
type Sources struct {
	Remote Fetcher
}

// Extract reads the document at location.
func (s Sources) Extract(ctx context.Context, location string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, entity.NewExtractionError(location, err)
	}
	if !fetcher.IsRemote(location) {
		return ExtractFile(location)
	}
	if s.Remote == nil {
		return nil, entity.NewExtractionError(location,
			fmt.Errorf("%w: remote documents are not enabled", entity.ErrUnsupportedFormat))
	}

	resp, err := s.Remote.Fetch(ctx, location)
	if err != nil {
		return nil, entity.NewExtractionError(location, err)
	}

	name := ""
	if resp.URL != nil {
		name = resp.URL.Path
	}
	ex, format, err := ForContent(resp.ContentType, name)
	if err != nil {
		return nil, entity.NewExtractionError(location, err)
	}

	lines, err := ex.Extract(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, entity.NewExtractionError(location, err)
	}

	return &Document{Path: location, Format: format, Lines: lines}, nil
}

// SupportedContentTypes maps media types to formats.
var SupportedContentTypes = map[string]string{
	"text/html":             FormatHTML,
	"application/xhtml+xml": FormatHTML,
	"text/markdown":         FormatMarkdown,
	"text/x-markdown":       FormatMarkdown,
	"application/pdf":       FormatPDF,
	"application/rss+xml":   FormatFeed,
	"application/atom+xml":  FormatFeed,
	"application/feed+json": FormatFeed,

	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": FormatDOCX,
}

// ForContent picks the extractor for a downloaded document. A specific media
// type wins; generic ones (text/plain, XML, octet-stream) defer to the
// extension of name and then fall back to text or feed.
func ForContent(contentType, name string) (Extractor, string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = ""
	}
	mediaType = strings.ToLower(mediaType)

	if format, ok := SupportedContentTypes[mediaType]; ok {
		return forFormat(format), format, nil
	}
	if format, ok := SupportedExtensions[strings.ToLower(path.Ext(name))]; ok {
		return forFormat(format), format, nil
	}

	switch {
	case mediaType == "application/xml" || mediaType == "text/xml":
		return forFormat(FormatFeed), FormatFeed, nil
	case strings.HasPrefix(mediaType, "text/"):
		return forFormat(FormatText), FormatText, nil
	default:
		return nil, "", fmt.Errorf("%w: content type %q", entity.ErrUnsupportedFormat, contentType)
	}
}

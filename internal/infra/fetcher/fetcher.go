// Package fetcher downloads documents given as http(s) URLs so they can be
// compared like local files.
package fetcher

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"docdiff/internal/resilience/circuitbreaker"
)

// Sentinel errors returned by Fetch.
var (
	// ErrInvalidURL indicates the URL is malformed or uses an unsupported scheme.
	ErrInvalidURL = errors.New("invalid URL or unsupported scheme")

	// ErrPrivateIP indicates the URL resolves to a private IP address.
	ErrPrivateIP = errors.New("private IP access denied (SSRF prevention)")

	// ErrTooManyRedirects indicates the redirect chain exceeded the configured maximum.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge indicates the response body exceeded the size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTimeout indicates the download did not finish within the timeout.
	ErrTimeout = errors.New("content fetch timeout")
)

// UserAgent identifies docdiff to remote servers.
const UserAgent = "docdiff/1.0"

// Response is a downloaded document.
type Response struct {
	// URL is the final URL after redirects.
	URL         *url.URL
	ContentType string
	Body        []byte
}

// HTTPFetcher downloads documents with SSRF checks, size limits and a
// circuit breaker. It is safe for concurrent use.
type HTTPFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	config         Config
}

// New creates an HTTPFetcher with the given limits.
func New(config Config) *HTTPFetcher {
	f := &HTTPFetcher{
		circuitBreaker: circuitbreaker.New(circuitbreaker.Config{
			Name:             "document-fetch",
			MaxRequests:      5,
			Interval:         60 * time.Second,
			Timeout:          60 * time.Second,
			FailureThreshold: 0.6,
			MinRequests:      5,
		}),
		config: config,
	}

	f.client = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > f.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			if err := validateURL(req.URL.String(), f.config.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}

	return f
}

// Fetch downloads the document at urlStr.
//
// The URL and every redirect target are validated first. Non-200 responses,
// oversized bodies and timeouts are errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, urlStr string) (*Response, error) {
	if err := validateURL(urlStr, f.config.DenyPrivateIPs); err != nil {
		return nil, err
	}

	return circuitbreaker.Do(f.circuitBreaker, func() (*Response, error) {
		return f.doFetch(ctx, urlStr)
	})
}

func (f *HTTPFetcher) doFetch(ctx context.Context, urlStr string) (*Response, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", UserAgent)

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w: request exceeded %v", ErrTimeout, f.config.Timeout)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Err != nil && (errors.Is(urlErr.Err, ErrTooManyRedirects) ||
			errors.Is(urlErr.Err, ErrPrivateIP) || errors.Is(urlErr.Err, ErrInvalidURL)) {
			return nil, urlErr.Err
		}
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > f.config.MaxBodySize {
		return nil, fmt.Errorf("%w: response exceeds limit %d bytes", ErrBodyTooLarge, f.config.MaxBodySize)
	}

	finalURL := req.URL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL
	}

	slog.DebugContext(ctx, "document downloaded",
		slog.String("url", finalURL.String()),
		slog.String("content_type", resp.Header.Get("Content-Type")),
		slog.Int("bytes", len(body)),
		slog.Duration("duration", time.Since(start)))

	return &Response{
		URL:         finalURL,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

package fetcher

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docdiff/internal/config"
	"docdiff/internal/resilience/circuitbreaker"
)

// localConfig allows the loopback httptest server.
func localConfig() Config {
	cfg := DefaultConfig()
	cfg.DenyPrivateIPs = false
	return cfg
}

func TestFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<p>Hello</p>"))
	}))
	defer server.Close()

	resp, err := New(localConfig()).Fetch(context.Background(), server.URL+"/page.html")

	require.NoError(t, err)
	assert.Equal(t, "<p>Hello</p>", string(resp.Body))
	assert.Equal(t, "text/html; charset=utf-8", resp.ContentType)
	assert.Equal(t, "/page.html", resp.URL.Path)
}

func TestFetch_InvalidURL(t *testing.T) {
	f := New(localConfig())

	tests := []struct {
		name string
		url  string
	}{
		{name: "malformed URL", url: "http://example .com/article"},
		{name: "file scheme", url: "file:///etc/passwd"},
		{name: "ftp scheme", url: "ftp://example.com/file.txt"},
		{name: "empty hostname", url: "http:///path"},
		{name: "empty URL", url: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Fetch(context.Background(), tt.url)
			assert.ErrorIs(t, err, ErrInvalidURL)
		})
	}
}

func TestFetch_PrivateIPDenied(t *testing.T) {
	f := New(DefaultConfig())

	for _, u := range []string{
		"http://127.0.0.1/doc.txt",
		"http://10.0.0.1/doc.txt",
		"http://192.168.1.1/doc.txt",
		"http://172.16.0.1/doc.txt",
		"http://169.254.169.254/latest/meta-data",
		"http://[::1]/doc.txt",
	} {
		t.Run(u, func(t *testing.T) {
			_, err := f.Fetch(context.Background(), u)
			assert.ErrorIs(t, err, ErrPrivateIP)
		})
	}
}

func TestFetch_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := New(localConfig()).Fetch(context.Background(), server.URL)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 503")
}

func TestFetch_BodyTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 2048)))
	}))
	defer server.Close()

	cfg := localConfig()
	cfg.MaxBodySize = 1024

	_, err := New(cfg).Fetch(context.Background(), server.URL)
	assert.ErrorIs(t, err, ErrBodyTooLarge)
}

func TestFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	cfg := localConfig()
	cfg.Timeout = 50 * time.Millisecond

	_, err := New(cfg).Fetch(context.Background(), server.URL)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestFetch_Redirects(t *testing.T) {
	var hops atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/final" {
			_, _ = w.Write([]byte("done"))
			return
		}
		hops.Add(1)
		if r.URL.Path == "/loop" {
			http.Redirect(w, r, "/loop", http.StatusFound)
			return
		}
		http.Redirect(w, r, "/final", http.StatusFound)
	}))
	defer server.Close()

	t.Run("followed", func(t *testing.T) {
		resp, err := New(localConfig()).Fetch(context.Background(), server.URL+"/start")
		require.NoError(t, err)
		assert.Equal(t, "done", string(resp.Body))
		assert.Equal(t, "/final", resp.URL.Path)
	})

	t.Run("too many", func(t *testing.T) {
		cfg := localConfig()
		cfg.MaxRedirects = 2
		_, err := New(cfg).Fetch(context.Background(), server.URL+"/loop")
		assert.ErrorIs(t, err, ErrTooManyRedirects)
	})
}

func TestFetch_CircuitBreakerOpens(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	f := New(localConfig())
	for range 5 {
		_, err := f.Fetch(context.Background(), server.URL)
		require.Error(t, err)
	}

	_, err := f.Fetch(context.Background(), server.URL)
	assert.True(t, circuitbreaker.IsOpenError(err), "got %v", err)
	assert.Equal(t, int32(5), calls.Load())
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://example.com/a.html"))
	assert.True(t, IsRemote("HTTP://example.com"))
	assert.False(t, IsRemote("docs/http.txt"))
	assert.False(t, IsRemote("/tmp/a.docx"))
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip   string
		want bool
	}{
		{ip: "127.0.0.1", want: true},
		{ip: "10.1.2.3", want: true},
		{ip: "172.31.255.255", want: true},
		{ip: "192.168.0.10", want: true},
		{ip: "169.254.1.1", want: true},
		{ip: "::1", want: true},
		{ip: "fd00::1", want: true},
		{ip: "fe80::1", want: true},
		{ip: "8.8.8.8", want: false},
		{ip: "172.32.0.1", want: false},
		{ip: "2001:4860:4860::8888", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			assert.Equal(t, tt.want, isPrivateIP(net.ParseIP(tt.ip)))
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "zero redirects", mutate: func(c *Config) { c.MaxRedirects = 0 }},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }, wantErr: "timeout must be positive"},
		{name: "small body", mutate: func(c *Config) { c.MaxBodySize = 512 }, wantErr: "max body size"},
		{name: "huge body", mutate: func(c *Config) { c.MaxBodySize = 200 * 1024 * 1024 }, wantErr: "max body size"},
		{name: "negative redirects", mutate: func(c *Config) { c.MaxRedirects = -1 }, wantErr: "max redirects"},
		{name: "many redirects", mutate: func(c *Config) { c.MaxRedirects = 11 }, wantErr: "max redirects"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFromConfig(t *testing.T) {
	got := FromConfig(config.Default().Fetch)
	assert.Equal(t, DefaultConfig(), got)
}

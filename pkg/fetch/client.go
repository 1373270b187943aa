package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/opencontainers/go-digest"
)

var (
	// ErrNetwork is returned when the connection fails or the body cannot be read in full.
	ErrNetwork = errors.New("network error")

	// ErrStatus is returned when the server answers with a non-2xx status.
	ErrStatus = errors.New("unexpected status")
)

// Options configures a [Client].
type Options struct {
	Proxy       *Proxy       // Optional proxy; nil connects directly
	Credentials *Credentials // Optional proxy credentials
	Logger      *log.Logger  // Optional; defaults to log.Default()
	UserAgent   string       // Optional User-Agent header
}

// Client downloads remote files.
type Client struct {
	http      *http.Client
	logger    *log.Logger
	proxy     *Proxy
	userAgent string
}

// Download describes a completed download.
type Download struct {
	URL    string        // Source URL
	Path   string        // Destination path
	Size   int64         // Bytes written
	Digest digest.Digest // sha256 of the body
}

// NewClient creates a Client. It fails only when opts.Proxy is invalid.
func NewClient(opts Options) (*Client, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	if opts.Proxy != nil {
		if err := opts.Proxy.Validate(); err != nil {
			return nil, err
		}
		transport.Proxy = http.ProxyURL(opts.Proxy.URL(opts.Credentials))
	}

	return &Client{
		http:      &http.Client{Transport: transport},
		logger:    logger,
		proxy:     opts.Proxy,
		userAgent: opts.UserAgent,
	}, nil
}

// Download fetches url and writes the full body to dest, replacing any existing file.
// On error dest is left untouched and no staging file remains.
func (c *Client) Download(ctx context.Context, url, dest string) (*Download, error) {
	body, err := c.open(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return nil, err
	}
	staging := dest + "." + uuid.NewString() + ".part"
	f, err := os.Create(staging)
	if err != nil {
		return nil, err
	}

	digester := digest.Canonical.Digester()
	n, err := io.Copy(io.MultiWriter(f, digester.Hash()), body)
	if err != nil {
		err = fmt.Errorf("%w: reading %s: %w", ErrNetwork, url, err)
	} else if body.expected >= 0 && n != body.expected {
		err = fmt.Errorf("%w: truncated body from %s (%d of %d bytes)", ErrNetwork, url, n, body.expected)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		if rerr := os.Remove(dest); rerr != nil && !os.IsNotExist(rerr) {
			err = rerr
		}
	}
	if err == nil {
		err = os.Rename(staging, dest)
	}
	if err != nil {
		_ = os.Remove(staging)
		return nil, err
	}

	d := &Download{URL: url, Path: dest, Size: n, Digest: digester.Digest()}
	c.logger.Debug("downloaded", "url", url, "bytes", n, "digest", d.Digest)
	return d, nil
}

type responseBody struct {
	io.ReadCloser
	expected int64
}

func (c *Client) open(ctx context.Context, url string) (*responseBody, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.proxy != nil {
		c.logger.Info("Using proxy", "proxy", c.proxy.String())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("%w from %s", err, url)
	}
	return &responseBody{ReadCloser: resp.Body, expected: resp.ContentLength}, nil
}

func checkStatus(code int) error {
	if code >= 200 && code < 300 {
		return nil
	}
	return fmt.Errorf("%w: %d %s", ErrStatus, code, http.StatusText(code))
}

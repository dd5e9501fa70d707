package strapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Keenwby/polaris-youth-platform/pkg/logger"
)

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 512
)

// Config holds the static settings of a content API client.
type Config struct {
	APIURL        string // e.g. http://localhost:1337/api
	MediaURL      string // e.g. http://localhost:1337, prefixed to relative media paths
	Token         string // API token; sent as a bearer token when non-empty
	Timeout       time.Duration
	PopulateStyle PopulateStyle
}

// DefaultConfig points at a CMS running locally on its default port.
func DefaultConfig() Config {
	return Config{
		APIURL:   "http://localhost:1337/api",
		MediaURL: "http://localhost:1337",
		Timeout:  defaultTimeout,
	}
}

// Getter is the read side of the client, used by the generic fetch helpers.
type Getter interface {
	Get(ctx context.Context, resourcePath string, opts FetchOptions, out any) error
}

// Client talks to the content API over HTTP. It holds no per-request state
// and is safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTransport sets the round tripper of the underlying HTTP client.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Transport = rt
		c.httpClient = &hc
	}
}

// WithLogger sets the logger used for failed requests.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a new content API client
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	cfg.MediaURL = strings.TrimRight(cfg.MediaURL, "/")

	c := &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Get()
	}
	return c
}

// Config returns the client configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// WithToken returns a copy of the client that authenticates with token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.cfg.Token = token
	return &cp
}

// URL builds <APIURL>/<resourcePath><query> for a read.
func (c *Client) URL(resourcePath string, opts FetchOptions) string {
	return c.cfg.APIURL + "/" + strings.Trim(resourcePath, "/") + BuildQueryStringStyle(opts, c.cfg.PopulateStyle)
}

// MediaURL resolves a media path against the configured media base.
func (c *Client) MediaURL(url string) string {
	return MediaURL(c.cfg.MediaURL, url)
}

// Get fetches resourcePath with opts and decodes the JSON body into out.
func (c *Client) Get(ctx context.Context, resourcePath string, opts FetchOptions, out any) error {
	if strings.Trim(resourcePath, "/") == "" {
		return ErrEmptyResource
	}
	return c.do(ctx, http.MethodGet, c.URL(resourcePath, opts), nil, out)
}

// FetchRaw returns the response body of a read untouched.
func (c *Client) FetchRaw(ctx context.Context, resourcePath string, opts FetchOptions) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.Get(ctx, resourcePath, opts, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Do sends body as JSON to <APIURL>/<path> and decodes the response into out.
// Either may be nil.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	path = strings.Trim(path, "/")
	if path == "" {
		return ErrEmptyResource
	}
	return c.do(ctx, method, c.cfg.APIURL+"/"+path, body, out)
}

// Create calls POST /<collection> with {"data": data}.
func (c *Client) Create(ctx context.Context, collection string, data, out any) error {
	return c.Do(ctx, http.MethodPost, collection, map[string]any{"data": data}, out)
}

// Update calls PUT /<path> with {"data": data}.
func (c *Client) Update(ctx context.Context, path string, data, out any) error {
	return c.Do(ctx, http.MethodPut, path, map[string]any{"data": data}, out)
}

func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	log := logger.WithTraceID(ctx, c.logger)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("cms request failed", "method", method, "url", url, "error", err)
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		te := &TransportError{
			StatusCode: resp.StatusCode,
			StatusText: statusText(resp),
			Method:     method,
			URL:        url,
			Body:       string(snippet),
		}
		log.Error("cms request failed", "method", method, "url", url, "status", resp.StatusCode)
		return te
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding error: %w", err)
	}
	return nil
}

// statusText returns the reason phrase, e.g. "Not Found" from "404 Not Found".
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// FetchCollection reads a collection type, e.g. "activities".
func FetchCollection[T any](ctx context.Context, g Getter, collection string, opts FetchOptions) (*Response[[]Entity[T]], error) {
	var resp Response[[]Entity[T]]
	if err := g.Get(ctx, collection, opts, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchSingle reads one entry of a collection by id. Filters and pagination
// do not apply and are dropped.
func FetchSingle[T any](ctx context.Context, g Getter, collection string, id any, opts FetchOptions) (*Response[*Entity[T]], error) {
	var resp Response[*Entity[T]]
	path := strings.Trim(collection, "/") + "/" + fmt.Sprint(id)
	if err := g.Get(ctx, path, opts.single(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchSingleType reads a single type such as "home-page" or "site-setting".
// Filters and pagination do not apply and are dropped.
func FetchSingleType[T any](ctx context.Context, g Getter, name string, opts FetchOptions) (*Response[*Entity[T]], error) {
	var resp Response[*Entity[T]]
	if err := g.Get(ctx, name, opts.single(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

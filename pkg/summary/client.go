package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orbitdash/pkg/buildinfo"
	"github.com/matzehuels/orbitdash/pkg/cache"
	"github.com/matzehuels/orbitdash/pkg/errors"
	"github.com/matzehuels/orbitdash/pkg/httputil"
	"github.com/matzehuels/orbitdash/pkg/observability"
)

// DefaultBaseURL is the REST summary endpoint of the English Wikipedia.
const DefaultBaseURL = "https://en.wikipedia.org/api/rest_v1/page/summary"

const (
	defaultTTL     = 24 * time.Hour
	defaultTimeout = 10 * time.Second
)

// Options configures a Client. Zero fields take defaults.
type Options struct {
	BaseURL string
	TTL     time.Duration
	Timeout time.Duration
	Logger  *log.Logger
}

// Client fetches summaries over HTTP.
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	ttl     time.Duration
	baseURL string
	logger  *log.Logger
	retry   func(context.Context, func() error) error
}

// NewClient creates a Client caching responses in backend under the
// "summary:" namespace. A nil backend disables caching.
func NewClient(backend cache.Cache, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Client{
		http:    &http.Client{Timeout: opts.Timeout},
		cache:   cache.Namespace(backend, "summary:"),
		ttl:     opts.TTL,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		logger:  opts.Logger,
		retry:   httputil.RetryWithBackoff,
	}
}

// page is the subset of the REST summary response we use.
type page struct {
	Title     string `json:"title"`
	Extract   string `json:"extract"`
	Thumbnail struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
	OriginalImage struct {
		Source string `json:"source"`
	} `json:"originalimage"`
}

// Fetch returns the summary for year, from cache when possible.
//
// Returns:
//   - a ready Summary on success (Extract may be empty)
//   - [ErrNotFound] if no page exists
//   - [ErrNetwork] for HTTP failures (timeout, 5xx, etc.)
func (c *Client) Fetch(ctx context.Context, year int) (Summary, error) {
	title := Title(year)
	var p page
	if err := c.cached(ctx, title, &p, func() error {
		return c.get(ctx, c.baseURL+"/"+url.PathEscape(title), &p)
	}); err != nil {
		c.logger.Debug("summary fetch failed", "year", year, "err", err)
		return Failed(year), err
	}

	s := Summary{Year: year, Title: p.Title, Extract: p.Extract, State: StateReady}
	if s.Title == "" {
		s.Title = title
	}
	s.ImageURL = p.Thumbnail.Source
	if s.ImageURL == "" {
		s.ImageURL = p.OriginalImage.Source
	}
	return s, nil
}

// cached retrieves v from cache or runs fetch with retries and caches the
// result.
func (c *Client) cached(ctx context.Context, key string, v any, fetch func() error) error {
	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		if json.Unmarshal(data, v) == nil {
			c.logger.Debug("summary cache hit", "key", key)
			return nil
		}
	}
	if err := c.retry(ctx, fetch); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
			c.logger.Warn("summary cache write failed", "key", key, "err", err)
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, rawURL string, v any) error {
	body, err := c.doRequest(ctx, rawURL)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("decode summary: %w", err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	host, path := req.URL.Host, req.URL.Path
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		rl := &errors.RateLimitedError{RetryAfter: retryAfter, Message: resp.Status}
		return httputil.Retryable(fmt.Errorf("%w: %w", ErrNetwork, rl))
	case code >= 500:
		return httputil.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

var _ Fetcher = (*Client)(nil)

// Package fetch talks to the remote time service.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-retryablehttp"

	"clickclock/internal/timeinfo"
)

// maxBody bounds how much of a response is read.
const maxBody = 1 << 20

type Client struct {
	base    string
	http    *retryablehttp.Client
	timeout time.Duration
	logger  *log.Logger
}

type Option func(*Client)

// WithRetries sets how many times a failed request is retried. Only
// connection errors and 5xx responses are retried.
func WithRetries(n int) Option {
	return func(c *Client) { c.http.RetryMax = n }
}

func WithRetryWait(lo, hi time.Duration) Option {
	return func(c *Client) {
		c.http.RetryWaitMin = lo
		c.http.RetryWaitMax = hi
	}
}

// WithTimeout bounds a single Fetch, retries included.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func New(baseURL string, opts ...Option) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	c := &Client{
		base:    strings.TrimRight(baseURL, "/"),
		http:    rc,
		timeout: 10 * time.Second,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	rc.Logger = leveled{c.logger}
	return c
}

// URL returns the request URL for city.
func (c *Client) URL(city string) string {
	q := url.Values{"city": {city}}
	return c.base + "/time?" + q.Encode()
}

// Fetch requests the current time in city and returns the raw body of a 2xx
// response.
func (c *Client) Fetch(ctx context.Context, city string) ([]byte, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, ErrEmptyCity
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.URL(city), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("fetching time", "city", city)
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("time request failed", "city", city, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrRemoteFetchFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrRemoteFetchFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("time service error", "city", city, "status", resp.StatusCode)
		return nil, &RemoteError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}

// Lookup fetches and parses the time in city.
func (c *Client) Lookup(ctx context.Context, city string) (timeinfo.Result, error) {
	body, err := c.Fetch(ctx, city)
	if err != nil {
		return timeinfo.Result{}, err
	}
	r, err := timeinfo.Parse(body)
	if err != nil {
		c.logger.Warn("bad time payload", "city", city, "err", err)
		return timeinfo.Result{}, err
	}
	return r, nil
}

// leveled adapts a charm logger to retryablehttp.LeveledLogger.
type leveled struct {
	l *log.Logger
}

func (a leveled) Error(msg string, kv ...interface{}) { a.l.Error(msg, kv...) }
func (a leveled) Info(msg string, kv ...interface{})  { a.l.Debug(msg, kv...) }
func (a leveled) Debug(msg string, kv ...interface{}) { a.l.Debug(msg, kv...) }
func (a leveled) Warn(msg string, kv ...interface{})  { a.l.Warn(msg, kv...) }

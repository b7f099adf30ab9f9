package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/reel/internal/domain"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "reel/0.1"
	maxBodySize      = 10 << 20
)

// ErrResponseTooLarge reports a body over the client's size limit
var ErrResponseTooLarge = errors.New("response too large")

// Response is a completed HTTP exchange
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// IsSuccess returns true for 2xx status codes
func (r Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client performs cancellable GET requests, completing on a background goroutine
type Client struct {
	http      *http.Client
	userAgent string
	maxBody   int64
	logger    *slog.Logger
}

// NewClient creates a new HTTP client with the given request timeout
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
		maxBody:   maxBodySize,
		logger:    logger,
	}
}

// Get starts a GET request for u. The completion receives either the response
// or a transport error; it runs on its own goroutine. Cancelling the returned
// task aborts the request, and the completion then receives the context error.
func (c *Client) Get(u *url.URL, completion func(Response, error)) domain.Task {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		defer cancel()
		resp, err := c.do(ctx, u)
		completion(resp, err)
	}()

	return domain.TaskFunc(cancel)
}

// do performs the request and reads the body
func (c *Client) do(ctx context.Context, u *url.URL) (Response, error) {
	if u == nil {
		return Response{}, fmt.Errorf("nil request url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Response{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			c.logger.Debug("request cancelled", "host", u.Host, "path", u.Path)
		} else {
			c.logger.Warn("request failed", "host", u.Host, "path", u.Path, "error", err)
		}
		return Response{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return Response{}, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > c.maxBody {
		c.logger.Warn("response too large", "host", u.Host, "path", u.Path, "limit", c.maxBody)
		return Response{}, fmt.Errorf("%w: over %d bytes", ErrResponseTooLarge, c.maxBody)
	}

	c.logger.Debug("request complete",
		"host", u.Host,
		"path", u.Path,
		"status", resp.StatusCode,
		"bytes", len(body),
		"elapsed", time.Since(start),
	)

	return Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

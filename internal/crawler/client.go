package crawler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrNotFound is returned when the service reports that a result id does not exist.
var ErrNotFound = errors.New("result not found")

// ResultsFetcher is the read side the poller depends on.
// It is implemented by *Client and can be faked in tests.
type ResultsFetcher interface {
	FetchResults(ctx context.Context) ([]Result, error)
}

// Service is the full set of remote operations used by the UI and CLI.
type Service interface {
	ResultsFetcher
	FetchResult(ctx context.Context, id int64) (Result, error)
	Submit(ctx context.Context, rawURL string) (Result, error)
	Requeue(ctx context.Context, id int64) (Result, error)
	Delete(ctx context.Context, id int64) error
	DeleteBulk(ctx context.Context, ids []int64) (BulkDeleteResponse, error)
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// Client talks to the crawl service HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	limiter   *rate.Limiter
	logger    *zap.Logger
}

// ClientOptions tune a Client. The zero value is usable.
type ClientOptions struct {
	Timeout time.Duration
	// SubmitRate caps mutating requests per second; zero uses the default,
	// negative disables limiting.
	SubmitRate  float64
	SubmitBurst int
	Logger      *zap.Logger
}

const (
	DefaultAPIURL      = "http://127.0.0.1:8080"
	defaultUserAgent   = "crawlboard/0.1"
	defaultTimeout     = 10 * time.Second
	defaultSubmitRate  = 2
	defaultSubmitBurst = 4
)

// NewClient builds a Client for the service rooted at apiURL.
func NewClient(apiURL string, opts ClientOptions) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
		logger:    logger.Named("crawler"),
	}
	switch {
	case opts.SubmitRate < 0:
	case opts.SubmitRate == 0:
		c.limiter = rate.NewLimiter(defaultSubmitRate, defaultSubmitBurst)
	default:
		burst := opts.SubmitBurst
		if burst <= 0 {
			burst = defaultSubmitBurst
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.SubmitRate), burst)
	}
	return c, nil
}

// BaseURL returns the normalized service root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Ping checks that the service answers on /ping.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodGet, "/ping", nil, nil)
}

// FetchResults retrieves the full result set. No filtering or paging happens
// server-side.
func (c *Client) FetchResults(ctx context.Context) ([]Result, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Result
	if err := c.do(ctx, http.MethodGet, "/urls", nil, &payload); err != nil {
		return nil, err
	}
	for i := range payload {
		payload[i] = payload[i].Normalize()
	}
	return payload, nil
}

// FetchResult retrieves a single result by id.
func (c *Client) FetchResult(ctx context.Context, id int64) (Result, error) {
	if c == nil {
		return Result{}, fmt.Errorf("client is nil")
	}
	var payload Result
	if err := c.do(ctx, http.MethodGet, idPath(id), nil, &payload); err != nil {
		return Result{}, err
	}
	return payload.Normalize(), nil
}

// Submit validates rawURL and queues it for crawling.
func (c *Client) Submit(ctx context.Context, rawURL string) (Result, error) {
	if c == nil {
		return Result{}, fmt.Errorf("client is nil")
	}
	target, err := ValidateURL(rawURL)
	if err != nil {
		return Result{}, err
	}
	var payload Result
	if err := c.do(ctx, http.MethodPost, "/urls", SubmitRequest{Url: target}, &payload); err != nil {
		return Result{}, err
	}
	return payload.Normalize(), nil
}

// Requeue resets a result to the queued state so the service crawls it again.
func (c *Client) Requeue(ctx context.Context, id int64) (Result, error) {
	if c == nil {
		return Result{}, fmt.Errorf("client is nil")
	}
	var payload RequeueResponse
	if err := c.do(ctx, http.MethodPut, idPath(id), nil, &payload); err != nil {
		return Result{}, err
	}
	return payload.Result.Normalize(), nil
}

// Delete removes a single result.
func (c *Client) Delete(ctx context.Context, id int64) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodDelete, idPath(id), nil, nil)
}

// DeleteBulk removes several results in one request.
func (c *Client) DeleteBulk(ctx context.Context, ids []int64) (BulkDeleteResponse, error) {
	if c == nil {
		return BulkDeleteResponse{}, fmt.Errorf("client is nil")
	}
	if len(ids) == 0 {
		return BulkDeleteResponse{}, fmt.Errorf("no ids provided")
	}
	var payload BulkDeleteResponse
	if err := c.do(ctx, http.MethodDelete, "/urls", ids, &payload); err != nil {
		return BulkDeleteResponse{}, err
	}
	return payload, nil
}

func idPath(id int64) string {
	return "/urls/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	if method != http.MethodGet && c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("request complete",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)

	if resp.StatusCode >= 400 {
		return statusError(method, path, resp)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func statusError(method, path string, resp *http.Response) error {
	detail := ""
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var apiErr apiError
	if json.Unmarshal(raw, &apiErr) == nil && strings.TrimSpace(apiErr.Error) != "" {
		detail = ": " + strings.TrimSpace(apiErr.Error)
	}
	err := fmt.Errorf("api %s %s returned status %d%s", method, path, resp.StatusCode, detail)
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = DefaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", apiURL)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

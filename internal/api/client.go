package api

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

	"github.com/google/uuid"

	"vantage/internal/source"
)

// Fetcher defines the read interface used by the poller and UI.
// It is implemented by *Client and can be stubbed in tests.
type Fetcher interface {
	FetchPods(ctx context.Context) ([]Pod, error)
	FetchJobs(ctx context.Context) ([]JobRun, error)
	FetchJob(ctx context.Context, name string) (*JobRun, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client talks to the platform HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	streaming *http.Client
	token     string
	userAgent string
}

const (
	defaultUserAgent = "vantage/0.1"
	requestTimeout   = 5 * time.Second
)

// NewClient builds a Client for the given base URL. A bare host:port is
// treated as http.
func NewClient(apiURL, token string) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		// Log streams stay open until cancelled, so no timeout here.
		streaming: &http.Client{},
		token:     token,
		userAgent: defaultUserAgent,
	}, nil
}

// FetchPods retrieves the current pod inventory.
func (c *Client) FetchPods(ctx context.Context) ([]Pod, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload PodListResponse
	if err := c.do(ctx, http.MethodGet, "/api/pods", &payload); err != nil {
		return nil, err
	}
	return payload.Pods, nil
}

// FetchJobs retrieves the current job runs.
func (c *Client) FetchJobs(ctx context.Context) ([]JobRun, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload JobListResponse
	if err := c.do(ctx, http.MethodGet, "/api/jobs", &payload); err != nil {
		return nil, err
	}
	return payload.Jobs, nil
}

// FetchJob retrieves a single job run by name.
func (c *Client) FetchJob(ctx context.Context, name string) (*JobRun, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("job name required")
	}
	var payload JobRun
	if err := c.do(ctx, http.MethodGet, "/api/jobs/"+url.PathEscape(name), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// LogStreamQuery configures a live log stream request.
type LogStreamQuery struct {
	Follow    bool
	TailLines int
}

func (q LogStreamQuery) values() url.Values {
	values := url.Values{}
	if q.Follow {
		values.Set("follow", "1")
	}
	if q.TailLines > 0 {
		values.Set("tail", strconv.Itoa(q.TailLines))
	}
	return values
}

// OpenPodLogStream opens the live log stream for a pod. The returned body is
// read incrementally by the caller; cancelling ctx or closing the body aborts
// the transfer.
func (c *Client) OpenPodLogStream(ctx context.Context, name string, query LogStreamQuery) (io.ReadCloser, error) {
	return c.openLogStream(ctx, "/api/pods/"+url.PathEscape(name)+"/logs", query, name)
}

// OpenJobLogStream opens the live log stream for a job run.
func (c *Client) OpenJobLogStream(ctx context.Context, name string, query LogStreamQuery) (io.ReadCloser, error) {
	return c.openLogStream(ctx, "/api/jobs/"+url.PathEscape(name)+"/logs", query, name)
}

func (c *Client) openLogStream(ctx context.Context, path string, query LogStreamQuery, name string) (io.ReadCloser, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("target name required")
	}
	rel := &url.URL{Path: path, RawQuery: query.values().Encode()}
	endpoint := c.baseURL.ResolveReference(rel)
	return source.OpenHTTP(ctx, endpoint.String(), source.HTTPOptions{
		Token:     c.token,
		UserAgent: c.userAgent,
		Client:    c.streaming,
		Header:    http.Header{"X-Request-Id": []string{uuid.NewString()}},
	})
}

func (c *Client) do(ctx context.Context, method, path string, dest any) error {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", rel.String(), resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		return nil, fmt.Errorf("api url required")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", apiURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

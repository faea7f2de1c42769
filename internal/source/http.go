package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTPOptions configure a streaming request.
type HTTPOptions struct {
	Token     string // bearer token, optional
	UserAgent string
	Client    *http.Client // defaults to a client without timeout; follow mode blocks until cancelled
	Header    http.Header  // extra headers, optional
}

const errorBodyLimit = 4 * 1024

// OpenHTTP issues a streaming GET and returns the response body for
// incremental reading. The request stays bound to ctx, so cancelling the
// context aborts the transfer and unblocks a pending read. Non-success
// statuses are reported as an error and no body is returned.
func OpenHTTP(ctx context.Context, rawURL string, opts HTTPOptions) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create stream request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")
	if opts.UserAgent != "" {
		req.Header.Set("User-Agent", opts.UserAgent)
	}
	if opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.Token)
	}
	for key, values := range opts.Header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	client := opts.Client
	if client == nil {
		// No timeout: the stream stays open until the caller cancels.
		client = &http.Client{}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}
	if resp.StatusCode >= 400 {
		defer func() { _ = resp.Body.Close() }()
		return nil, fmt.Errorf("open stream: %s", errorDetail(resp))
	}
	return resp.Body, nil
}

// errorDetail extracts a server-provided detail message from an error
// response body, falling back to a generic status message when the body is
// not JSON or carries no detail.
func errorDetail(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))

	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if detail := strings.TrimSpace(payload.Detail); detail != "" {
			return detail
		}
	}
	return fmt.Sprintf("endpoint returned status %d", resp.StatusCode)
}

// Package slack implements the minimal Slack Web API surface slackmoji
// needs: the paged custom-emoji listing, image downloads, and the
// rate-limited emoji.add endpoint used for uploads and aliases.
package slack

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Options configures a Client.
type Options struct {
	// Token is the workspace API token attached to every call.
	Token string
	// Workspace is the workspace subdomain, e.g. "acme" for acme.slack.com.
	Workspace string
	// BaseURL overrides the workspace-derived API base URL when set.
	// Intended for tests.
	BaseURL string
	// HTTPClient overrides the HTTP client. Defaults to a client with a
	// 5-minute overall timeout (downloads can be large).
	HTTPClient *http.Client
}

// Client issues requests against one workspace's Slack API.
// It is safe for concurrent use, though slackmoji itself processes emoji
// strictly one at a time.
type Client struct {
	httpClient *http.Client
	token      string
	baseURL    string

	// sleep is the suspension primitive used for rate-limit backoff and
	// the post-call cool-down. Swapped out in tests.
	sleep    func(ctx context.Context, d time.Duration) error
	cooldown time.Duration
}

// New creates a Client for the workspace described by opts.
func New(opts Options) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.slack.com/api", opts.Workspace)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Minute}
	}
	return &Client{
		httpClient: httpClient,
		token:      opts.Token,
		baseURL:    baseURL,
		sleep:      sleepContext,
		cooldown:   time.Second,
	}
}

// apiURL returns the full URL for an API endpoint name.
func (c *Client) apiURL(endpoint string) string {
	return c.baseURL + "/" + endpoint
}

// Download fetches the image at url and returns its body for streaming.
// The caller must close the returned reader.
func (c *Client) Download(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request for %s: %w", url, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}
	return resp.Body, nil
}

// sleepContext blocks for d or until the context is canceled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

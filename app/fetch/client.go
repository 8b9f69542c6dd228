// Package fetch performs outbound HTTP requests through a CORS-bypassing
// relay, so that browser-restricted feed and article URLs can be retrieved
// from a single origin.
package fetch

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
)

type Client struct {
	client   *resty.Client
	proxyURL string
}

// NewClient builds a relay-backed fetcher. proxyURL is the relay prefix the
// url-encoded target is appended to, e.g. "https://api.allorigins.win/raw?url=".
// No automatic retries: a failed cycle is only repeated by the next
// aggregation round or a manual refresh.
func NewClient(proxyURL, userAgent string, timeout time.Duration) *Client {
	return &Client{
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", userAgent),
		proxyURL: proxyURL,
	}
}

// Get retrieves the raw body of targetURL through the relay. Any non-2xx
// status or transport error is returned as an error.
func (c *Client) Get(ctx context.Context, targetURL string) ([]byte, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		Get(c.proxyURL + url.QueryEscape(targetURL))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", targetURL, err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode(), targetURL)
	}

	return resp.Body(), nil
}

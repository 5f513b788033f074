package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTP fetches pages over plain HTTP. Good enough for retailers that
// render prices server-side; JS-heavy pages need the browser fetcher.
type HTTP struct {
	client   *resty.Client
	detector *BlockDetector
}

// NewHTTP creates an HTTP fetcher with the given user agent and timeout.
func NewHTTP(userAgent string, timeout time.Duration) *HTTP {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", userAgent)
	client.SetHeader("Accept", "text/html,application/xhtml+xml")

	return &HTTP{
		client:   client,
		detector: NewBlockDetector(),
	}
}

// Fetch retrieves the page body, failing on transport errors, non-2xx
// statuses and recognizable block pages.
func (h *HTTP) Fetch(ctx context.Context, url string) (string, error) {
	resp, err := h.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %v", url, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("fetch %s: status %d", url, resp.StatusCode())
	}

	body := resp.String()
	if blocked, kind := h.detector.Detect(body); blocked {
		return "", fmt.Errorf("fetch %s: blocked page (%s)", url, kind)
	}
	return body, nil
}

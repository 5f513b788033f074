// Package fetch retrieves raw page content for the tracker. A fetch
// failure is an expected per-retailer condition; the caller skips the
// retailer for the current run and retries on the next schedule.
package fetch

import "context"

// Fetcher retrieves the content behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// DefaultUserAgent mirrors a polite self-identifying bot UA.
const DefaultUserAgent = "Mozilla/5.0 (compatible; PriceWatchBot/1.0; +https://example.local)"

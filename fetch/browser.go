package fetch

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// Browser fetches pages through headless Chromium for retailers that
// only render prices client-side.
type Browser struct {
	browser  *rod.Browser
	detector *BlockDetector
}

// NewBrowser launches headless Chromium and connects to it. The CHROME_BIN
// environment variable overrides binary auto-detection (system Chromium
// in Docker, downloaded browser locally).
func NewBrowser() (*Browser, error) {
	l := launcher.New().
		Headless(true).
		NoSandbox(true).
		Leakless(false)

	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		l = l.Bin(bin)
	} else if _, err := os.Stat("/usr/bin/chromium-browser"); err == nil {
		l = l.Bin("/usr/bin/chromium-browser")
		log.Printf("Using system Chromium")
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %v", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %v", err)
	}

	return &Browser{
		browser:  browser,
		detector: NewBlockDetector(),
	}, nil
}

// Fetch loads the page, waits for it to settle and returns the rendered
// HTML.
func (b *Browser) Fetch(ctx context.Context, url string) (string, error) {
	var html string
	err := rod.Try(func() {
		page := b.browser.Context(ctx).MustPage(url)
		defer page.MustClose()

		page.MustWaitLoad()
		page.MustWaitStable()
		html = page.MustHTML()
	})
	if err != nil {
		return "", fmt.Errorf("fetch %s: %v", url, err)
	}

	if blocked, kind := b.detector.Detect(html); blocked {
		return "", fmt.Errorf("fetch %s: blocked page (%s)", url, kind)
	}
	return html, nil
}

// Close shuts the browser down.
func (b *Browser) Close() {
	if b.browser != nil {
		_ = b.browser.Close()
	}
}

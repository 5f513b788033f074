package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// productPage is long enough not to trip the empty-page heuristic.
const productPage = `<html><body><h1>Widget Pro</h1><div class="price">$1,199.99</div><p>Free shipping on all orders.</p></body></html>`

func TestHTTPFetch(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(productPage))
	}))
	defer srv.Close()

	f := NewHTTP("test-agent/1.0", 5*time.Second)
	body, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if body != productPage {
		t.Errorf("body = %q", body)
	}
	if gotUA != "test-agent/1.0" {
		t.Errorf("User-Agent = %q, want test-agent/1.0", gotUA)
	}
}

func TestHTTPFetchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewHTTP(DefaultUserAgent, 5*time.Second)
	if _, err := f.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected an error for a 500 response")
	} else if !strings.Contains(err.Error(), "status 500") {
		t.Errorf("err = %v, want it to mention status 500", err)
	}
}

func TestHTTPFetchBlockedPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat(" ", 60) + "Please complete this CAPTCHA to continue"))
	}))
	defer srv.Close()

	f := NewHTTP(DefaultUserAgent, 5*time.Second)
	_, err := f.Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected an error for a captcha page")
	}
	if !strings.Contains(err.Error(), "captcha") {
		t.Errorf("err = %v, want it to mention captcha", err)
	}
}

func TestHTTPFetchCanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	f := NewHTTP(DefaultUserAgent, 5*time.Second)
	if _, err := f.Fetch(ctx, srv.URL); err == nil {
		t.Fatal("expected an error for a canceled context")
	}
}

func TestBlockDetector(t *testing.T) {
	bd := NewBlockDetector()

	tests := []struct {
		name    string
		content string
		blocked bool
		kind    string
	}{
		{"product page", productPage, false, ""},
		{"near empty", "<html></html>", true, "empty_page"},
		{"captcha", pad("Verify you are human by completing the CAPTCHA"), true, "captcha"},
		{"cloudflare interstitial", pad("Checking your browser before accessing the site"), true, "captcha"},
		{"bot wall", pad("Access Denied: automated requests are not permitted here"), true, "bot_wall"},
		{"rate limited", pad("429 Too Many Requests, slow down and try again later"), true, "rate_limited"},
		{"outage page", pad("503 Service Unavailable, please try again shortly"), true, "blocked"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			blocked, kind := bd.Detect(tc.content)
			if blocked != tc.blocked || kind != tc.kind {
				t.Errorf("Detect() = (%v, %q), want (%v, %q)", blocked, kind, tc.blocked, tc.kind)
			}
		})
	}
}

func pad(s string) string {
	return s + strings.Repeat(".", 60)
}

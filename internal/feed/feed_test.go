package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Search results</title>
    <item>
      <title>RELIANCE posts record quarterly profit</title>
      <link>https://example.com/a</link>
      <pubDate>Wed, 19 Aug 2026 09:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Analysts split on RELIANCE outlook</title>
      <link>https://example.com/b</link>
      <pubDate>Thu, 20 Aug 2026 11:30:00 GMT</pubDate>
    </item>
    <item>
      <link>https://example.com/c</link>
    </item>
  </channel>
</rss>`

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchParsesEntriesInFeedOrder(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, sampleRSS)
	})

	f := NewFetcher(srv.URL)
	entries, err := f.Fetch(context.Background(), "RELIANCE")
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0].Title != "RELIANCE posts record quarterly profit" {
		t.Errorf("entries[0].Title: got %q", entries[0].Title)
	}
	if entries[1].Link != "https://example.com/b" {
		t.Errorf("entries[1].Link: got %q", entries[1].Link)
	}
	if entries[0].Published == nil {
		t.Fatal("entries[0].Published should be set")
	}
	want := time.Date(2026, 8, 19, 9, 0, 0, 0, time.UTC)
	if !entries[0].Published.Equal(want) {
		t.Errorf("entries[0].Published: got %v, want %v", entries[0].Published, want)
	}

	// Third item omits title and pubDate: both stay unset, no defaulting
	// at this layer.
	if entries[2].Title != "" {
		t.Errorf("entries[2].Title: got %q, want empty", entries[2].Title)
	}
	if entries[2].Published != nil {
		t.Errorf("entries[2].Published: got %v, want nil", entries[2].Published)
	}
}

func TestFetchBuildsSearchURL(t *testing.T) {
	var gotPath string
	var gotQuery url.Values
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		fmt.Fprint(w, sampleRSS)
	})

	f := NewFetcher(srv.URL, WithWindowDays(7), WithLocale("en-IN", "IN"))
	if _, err := f.Fetch(context.Background(), "M&M"); err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	if gotPath != "/rss/search" {
		t.Errorf("path: got %q, want /rss/search", gotPath)
	}
	if q := gotQuery.Get("q"); q != "MandM when:7d" {
		t.Errorf("q: got %q, want %q", q, "MandM when:7d")
	}
	if hl := gotQuery.Get("hl"); hl != "en-IN" {
		t.Errorf("hl: got %q", hl)
	}
	if gl := gotQuery.Get("gl"); gl != "IN" {
		t.Errorf("gl: got %q", gl)
	}
	if ceid := gotQuery.Get("ceid"); ceid != "IN:en" {
		t.Errorf("ceid: got %q", ceid)
	}
}

func TestFetchMalformedFeed(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "this is not a feed document")
	})

	f := NewFetcher(srv.URL)
	_, err := f.Fetch(context.Background(), "TCS")
	if !errors.Is(err, ErrFeedUnavailable) {
		t.Fatalf("got %v, want ErrFeedUnavailable", err)
	}
}

func TestFetchUnreachableSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	f := NewFetcher(srv.URL)
	_, err := f.Fetch(context.Background(), "TCS")
	if !errors.Is(err, ErrFeedUnavailable) {
		t.Fatalf("got %v, want ErrFeedUnavailable", err)
	}
}

func TestFetchHTTPError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	})

	f := NewFetcher(srv.URL)
	_, err := f.Fetch(context.Background(), "TCS")
	if !errors.Is(err, ErrFeedUnavailable) {
		t.Fatalf("got %v, want ErrFeedUnavailable", err)
	}
}

func TestCEIDDerivation(t *testing.T) {
	tests := []struct {
		language, region, want string
	}{
		{"en-IN", "IN", "IN:en"},
		{"en-US", "US", "US:en"},
		{"en", "IN", "IN:en"},
	}
	for _, tt := range tests {
		f := NewFetcher("https://news.google.com", WithLocale(tt.language, tt.region))
		if got := f.ceid(); got != tt.want {
			t.Errorf("ceid(%q, %q) = %q, want %q", tt.language, tt.region, got, tt.want)
		}
	}
}

func TestRateLimiterAllowsBurst(t *testing.T) {
	rl := NewRateLimiter(3, time.Second)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := rl.Wait(ctx); err != nil {
			t.Fatalf("Wait() #%d failed: %v", i, err)
		}
	}
}

func TestRateLimiterCancelledContext(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour) // 1 token, very slow refill.
	ctx := context.Background()

	if err := rl.Wait(ctx); err != nil {
		t.Fatalf("first Wait() failed: %v", err)
	}

	ctx2, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := rl.Wait(ctx2); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestQueryContainsWindow(t *testing.T) {
	f := NewFetcher("https://news.google.com", WithWindowDays(3))
	u := f.searchURL("TCS")
	if !strings.Contains(u, url.QueryEscape("when:3d")) && !strings.Contains(u, "when%3A3d") {
		t.Errorf("search URL missing recency window: %s", u)
	}
}

// Package feed fetches and parses the news syndication feed for a symbol.
package feed

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/seenimoa/equitybrief/pkg/utils"
)

// ErrFeedUnavailable is returned when the feed source is unreachable or the
// returned document is malformed. It is the only request-fatal error in the
// news path.
var ErrFeedUnavailable = errors.New("feed: source unavailable")

// Entry is one raw item read from the feed, pre-extraction. Title and Link
// may be empty; Published is nil when the feed omits a timestamp. Entries
// carry no uniqueness guarantee and are kept in feed-native order.
type Entry struct {
	Title     string
	Link      string
	Published *time.Time
}

// Fetcher retrieves recent news entries for a symbol from a Google News
// style RSS search endpoint restricted to a trailing recency window.
type Fetcher struct {
	baseURL    string
	windowDays int
	language   string
	region     string
	parser     *gofeed.Parser
	limiter    *RateLimiter
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithWindowDays sets the trailing recency window in days.
func WithWindowDays(days int) Option {
	return func(f *Fetcher) { f.windowDays = days }
}

// WithLocale sets the feed language (e.g. "en-IN") and region (e.g. "IN").
func WithLocale(language, region string) Option {
	return func(f *Fetcher) { f.language = language; f.region = region }
}

// NewFetcher creates a feed fetcher against the given base URL
// (e.g. "https://news.google.com").
func NewFetcher(baseURL string, opts ...Option) *Fetcher {
	f := &Fetcher{
		baseURL:    strings.TrimRight(baseURL, "/"),
		windowDays: 7,
		language:   "en-IN",
		region:     "IN",
		parser:     gofeed.NewParser(),
		limiter:    NewRateLimiter(2, time.Second), // conservative: 2 req/s
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves the feed entries for a symbol in feed-native order.
// A single attempt is made; any transport or parse failure is reported as
// ErrFeedUnavailable.
func (f *Fetcher) Fetch(ctx context.Context, symbol string) ([]Entry, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}

	feedURL := f.searchURL(utils.SearchQuery(symbol))
	parsed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrFeedUnavailable, feedURL, err)
	}

	entries := make([]Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		e := Entry{
			Title: strings.TrimSpace(item.Title),
			Link:  item.Link,
		}
		if item.PublishedParsed != nil {
			t := item.PublishedParsed.UTC()
			e.Published = &t
		} else if item.Published != "" {
			if t, ok := utils.ParseFeedTime(item.Published); ok {
				e.Published = &t
			}
		}
		entries = append(entries, e)
	}

	return entries, nil
}

// searchURL builds the provider search URL for a query, restricted to the
// trailing recency window with fixed language and region parameters.
func (f *Fetcher) searchURL(query string) string {
	q := url.QueryEscape(fmt.Sprintf("%s when:%dd", query, f.windowDays))
	return fmt.Sprintf("%s/rss/search?q=%s&hl=%s&gl=%s&ceid=%s",
		f.baseURL, q, f.language, f.region, f.ceid())
}

// ceid derives the country:language edition parameter, e.g. "IN:en".
func (f *Fetcher) ceid() string {
	lang := f.language
	if i := strings.IndexByte(lang, '-'); i > 0 {
		lang = lang[:i]
	}
	return f.region + ":" + lang
}

// Package extract downloads a web page and extracts its main body text.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoContent is returned when the page yields no usable body text.
var ErrNoContent = errors.New("extract: no article content")

// defaultUserAgent is sent with article downloads; some publishers reject
// requests without a browser user agent.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// boilerplateSelector matches elements stripped before text collection.
const boilerplateSelector = "script, style, noscript, iframe, svg, nav, header, footer, aside, form, figure"

// Extractor fetches article pages and strips boilerplate to recover the
// main body text. Extraction is best-effort: callers treat any error as a
// soft failure and fall back to title-based text.
type Extractor struct {
	client   *http.Client
	maxBytes int64
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Extractor) { e.client = client }
}

// WithMaxBytes caps how much of the page body is read.
func WithMaxBytes(n int64) Option {
	return func(e *Extractor) { e.maxBytes = n }
}

// NewExtractor creates an article extractor. The timeout bounds each page
// download so one slow article cannot stall a whole request.
func NewExtractor(timeout time.Duration, opts ...Option) *Extractor {
	e := &Extractor{
		client:   &http.Client{Timeout: timeout},
		maxBytes: 2 << 20, // 2 MiB of HTML is plenty for any article
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract downloads the page at link and returns its main body text.
// The error is informational; the caller substitutes empty text and
// continues.
func (e *Extractor) Extract(ctx context.Context, link string) (string, error) {
	if strings.TrimSpace(link) == "" {
		return "", fmt.Errorf("extract: empty link")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("extract: create request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "text/html, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("extract: download %s: %w", link, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("extract: download %s: HTTP %d", link, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, e.maxBytes))
	if err != nil {
		return "", fmt.Errorf("extract: parse %s: %w", link, err)
	}

	text := bodyText(doc)
	if text == "" {
		return "", fmt.Errorf("%w: %s", ErrNoContent, link)
	}
	return text, nil
}

// bodyText strips boilerplate elements and joins the paragraph text of the
// page. <article> paragraphs are preferred; pages without an article
// element fall back to all body paragraphs.
func bodyText(doc *goquery.Document) string {
	doc.Find(boilerplateSelector).Remove()

	scope := doc.Find("article")
	if scope.Length() == 0 {
		scope = doc.Find("body")
	}

	var paras []string
	scope.Find("p").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			paras = append(paras, t)
		}
	})

	return strings.TrimSpace(strings.Join(paras, "\n\n"))
}

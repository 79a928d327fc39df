// Package pipeline orchestrates the news enrichment flow: feed fetch,
// article extraction, sentiment classification, summarization, assembly
// and ordering.
//
// Only a feed-level failure aborts a request. Every downstream failure
// degrades to a default value or entry omission, so the caller always gets
// a best-effort (possibly partial or empty) list once the feed was read.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/equitybrief/internal/feed"
	"github.com/seenimoa/equitybrief/internal/logger"
	"github.com/seenimoa/equitybrief/pkg/models"
	"github.com/seenimoa/equitybrief/pkg/utils"
)

// noTitle substitutes for entries whose feed omits a title.
const noTitle = "No Title"

// FeedSource fetches raw feed entries for a symbol.
type FeedSource interface {
	Fetch(ctx context.Context, symbol string) ([]feed.Entry, error)
}

// Extractor recovers the main body text of an article page.
type Extractor interface {
	Extract(ctx context.Context, link string) (string, error)
}

// Classifier returns a raw sentiment label for a text.
type Classifier interface {
	Classify(ctx context.Context, text string) (string, error)
}

// Summarizer generates an abstractive summary of a text.
type Summarizer interface {
	Summarize(ctx context.Context, text string, minLen, maxLen int) (string, error)
}

// Config holds the pipeline tuning knobs.
type Config struct {
	// MaxEntries bounds how many feed entries are attempted per request.
	MaxEntries int
	// MinArticleChars is the usefulness threshold: extracted text at or
	// below this length is discarded in favor of the title.
	MinArticleChars int
	// SummaryMinLen and SummaryMaxLen bound the generated summary length.
	SummaryMinLen int
	SummaryMaxLen int
	// RequestTimeout bounds the whole pipeline run. On expiry the entries
	// that completed are returned rather than failing the request.
	RequestTimeout time.Duration
	// StageTimeout bounds each individual extraction or model call.
	StageTimeout time.Duration
}

// DefaultConfig returns the pipeline defaults.
func DefaultConfig() Config {
	return Config{
		MaxEntries:      3,
		MinArticleChars: 100,
		SummaryMinLen:   25,
		SummaryMaxLen:   80,
		RequestTimeout:  60 * time.Second,
		StageTimeout:    15 * time.Second,
	}
}

// Pipeline assembles enriched news items for a symbol.
type Pipeline struct {
	feed       FeedSource
	extractor  Extractor
	classifier Classifier
	summarizer Summarizer
	cfg        Config
}

// New creates a pipeline over the given collaborators. The classifier and
// summarizer are process-wide singletons shared read-only across requests.
func New(src FeedSource, ex Extractor, cl Classifier, su Summarizer, cfg Config) *Pipeline {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 3
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	if cfg.StageTimeout <= 0 {
		cfg.StageTimeout = 15 * time.Second
	}
	return &Pipeline{
		feed:       src,
		extractor:  ex,
		classifier: cl,
		summarizer: su,
		cfg:        cfg,
	}
}

// LatestNews fetches, enriches and orders recent news for a symbol.
//
// The returned slice is sorted by publish time descending (ties keep feed
// order) and holds at most MaxEntries items; it may be shorter or empty
// when entries were skipped or the feed had nothing; both are valid
// non-error outcomes. The only error returned is a feed-level failure,
// which wraps feed.ErrFeedUnavailable.
func (p *Pipeline) LatestNews(ctx context.Context, symbol string) ([]models.NewsItem, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.RequestTimeout)
	defer cancel()

	entries, err := p.feed.Fetch(ctx, symbol)
	if err != nil {
		feedFailures.Inc()
		return nil, fmt.Errorf("news for %s: %w", symbol, err)
	}

	if len(entries) > p.cfg.MaxEntries {
		entries = entries[:p.cfg.MaxEntries]
	}

	// Fan out per entry, bounded by the entry budget. Results are placed
	// by feed index so the stable sort below sees feed order for ties,
	// regardless of completion order.
	results := make([]*models.NewsItem, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.MaxEntries)
	for i, entry := range entries {
		g.Go(func() error {
			if item, ok := p.processEntry(gctx, symbol, entry); ok {
				results[i] = item
				entriesIncluded.Inc()
			} else {
				entriesSkipped.Inc()
			}
			return nil
		})
	}
	g.Wait() //nolint:errcheck // per-entry failures never surface as errors

	items := make([]models.NewsItem, 0, len(results))
	for _, r := range results {
		if r != nil {
			items = append(items, *r)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Published.After(items[j].Published)
	})

	return items, nil
}

// processEntry turns one raw feed entry into a NewsItem. The second return
// is false when the entry must be skipped; a skipped entry never fails the
// batch.
func (p *Pipeline) processEntry(ctx context.Context, symbol string, entry feed.Entry) (*models.NewsItem, bool) {
	log := logger.Log.WithField("symbol", symbol).WithField("link", entry.Link)

	if ctx.Err() != nil {
		log.Warn("skipping entry: request budget exhausted")
		return nil, false
	}

	title := entry.Title
	if title == "" {
		title = noTitle
	}

	published := utils.NowUTC()
	if entry.Published != nil {
		published = entry.Published.UTC()
	}

	textToUse := p.resolveText(ctx, log, title, entry.Link)

	// Classification and summarization are independent per entry: each
	// applies its own fallback and neither can fail the other.
	var (
		wg        sync.WaitGroup
		sentiment = models.SentimentNeutral
		summary   = title
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		cctx, cancel := context.WithTimeout(ctx, p.cfg.StageTimeout)
		defer cancel()
		raw, err := p.classifier.Classify(cctx, textToUse)
		if err != nil {
			classificationFailures.Inc()
			log.WithError(err).Warn("classification failed, defaulting to NEUTRAL")
			return
		}
		sentiment = models.ParseSentiment(raw)
	}()
	go func() {
		defer wg.Done()
		sctx, cancel := context.WithTimeout(ctx, p.cfg.StageTimeout)
		defer cancel()
		s, err := p.summarizer.Summarize(sctx, textToUse, p.cfg.SummaryMinLen, p.cfg.SummaryMaxLen)
		if err != nil {
			summarizationFailures.Inc()
			log.WithError(err).Warn("summarization failed, using title as summary")
			return
		}
		summary = s
	}()
	wg.Wait()

	// The request budget ran out while this entry was in flight; its model
	// calls were cut short, so drop it instead of returning degraded data.
	if ctx.Err() != nil {
		log.Warn("skipping entry: request budget exhausted mid-processing")
		return nil, false
	}

	return &models.NewsItem{
		Title:     title,
		Summary:   summary,
		Sentiment: sentiment,
		Published: published,
		Link:      entry.Link,
	}, true
}

// resolveText selects the text fed to the models: the extracted article
// body when it clears the usefulness threshold, otherwise the title.
func (p *Pipeline) resolveText(ctx context.Context, log *logrus.Entry, title, link string) string {
	if link == "" {
		return title
	}

	ectx, cancel := context.WithTimeout(ctx, p.cfg.StageTimeout)
	defer cancel()

	fullText, err := p.extractor.Extract(ectx, link)
	if err != nil {
		extractionFailures.Inc()
		log.WithError(err).Warn("article extraction failed, falling back to title")
		return title
	}
	if len(fullText) <= p.cfg.MinArticleChars {
		return title
	}
	return fullText
}

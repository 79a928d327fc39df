package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline stage counters. Soft failures are expected in normal operation;
// these make the degradation rate observable.
var (
	feedFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "equitybrief_feed_failures_total",
		Help: "Feed fetches that failed and aborted the request.",
	})
	entriesIncluded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "equitybrief_news_entries_included_total",
		Help: "Feed entries enriched and included in a response.",
	})
	entriesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "equitybrief_news_entries_skipped_total",
		Help: "Feed entries skipped during processing.",
	})
	extractionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "equitybrief_article_extraction_failures_total",
		Help: "Article extractions that fell back to title text.",
	})
	classificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "equitybrief_classification_failures_total",
		Help: "Classifier calls that fell back to the NEUTRAL label.",
	})
	summarizationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "equitybrief_summarization_failures_total",
		Help: "Summarizer calls that fell back to the title.",
	})
)

package models

import (
	"strings"
	"time"
)

// Sentiment is the coarse polarity label attached to a news item.
// It is always one of the three constants below, never raw model output.
type Sentiment string

const (
	SentimentPositive Sentiment = "POSITIVE"
	SentimentNegative Sentiment = "NEGATIVE"
	SentimentNeutral  Sentiment = "NEUTRAL"
)

// ParseSentiment normalizes a raw classifier label to a Sentiment.
// Unknown or empty labels map to NEUTRAL.
func ParseSentiment(raw string) Sentiment {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "POSITIVE", "POS", "LABEL_1":
		return SentimentPositive
	case "NEGATIVE", "NEG", "LABEL_0":
		return SentimentNegative
	case "NEUTRAL":
		return SentimentNeutral
	default:
		return SentimentNeutral
	}
}

// NewsItem is one enriched news entry returned by the news endpoint.
// Title and Summary are always non-empty; Published is always populated.
type NewsItem struct {
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Sentiment Sentiment `json:"sentiment"`
	Published time.Time `json:"published"`
	Link      string    `json:"link"`
}

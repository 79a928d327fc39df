package utils

import (
	"time"
)

// feedTimeLayouts are the timestamp formats seen across syndication feeds,
// tried in order. RFC1123 variants dominate; RFC3339 covers Atom feeds.
var feedTimeLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	time.RFC822Z,
	time.RFC822,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseFeedTime parses a feed timestamp string, trying known layouts.
// The returned time is normalized to UTC so items from feeds with mixed
// time zones sort correctly.
func ParseFeedTime(s string) (time.Time, bool) {
	for _, layout := range feedTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// NowUTC returns the current instant in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// FormatISO formats a time as an ISO-8601 (RFC 3339) string in UTC.
func FormatISO(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

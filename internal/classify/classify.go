// Package classify tags free-text messages as leads, support requests or
// other, entirely in-process.
package classify

import (
	"strings"
)

// Separator delimits messages in a batch.
const Separator = "---"

// Bucket is the category assigned to a message.
type Bucket string

const (
	BucketLead    Bucket = "Lead"
	BucketSupport Bucket = "Support"
	BucketOther   Bucket = "Other"
)

// Priority is the urgency assigned to a message.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
)

// Item is one classified message. ID is 1-based in input order.
type Item struct {
	ID       int      `json:"id"`
	Text     string   `json:"text"`
	Bucket   Bucket   `json:"bucket"`
	Priority Priority `json:"priority"`
}

// rule maps a keyword set onto a bucket. Order matters: the first match wins.
type rule struct {
	bucket   Bucket
	keywords []string
}

var bucketRules = []rule{
	{bucket: BucketLead, keywords: []string{"demo", "meeting", "call", "schedule", "quote", "pricing"}},
	{bucket: BucketSupport, keywords: []string{"login", "cannot", "error", "bug", "issue", "fail", "down"}},
}

var urgentKeywords = []string{"cannot", "urgent", "error", "down", "asap"}

// Split breaks raw input on the separator, trims each segment and drops empty ones.
func Split(raw string) []string {
	parts := strings.Split(raw, Separator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// BucketOf returns the bucket for a single message.
func BucketOf(text string) Bucket {
	lower := strings.ToLower(text)
	for _, r := range bucketRules {
		if containsAny(lower, r.keywords) {
			return r.bucket
		}
	}
	return BucketOther
}

// PriorityOf returns the priority for a single message, independent of its bucket.
func PriorityOf(text string) Priority {
	if containsAny(strings.ToLower(text), urgentKeywords) {
		return PriorityHigh
	}
	return PriorityNormal
}

// Classify splits raw input and classifies every non-empty segment.
// It never returns nil, so an empty batch encodes as [].
func Classify(raw string) []Item {
	segments := Split(raw)
	items := make([]Item, 0, len(segments))
	for i, msg := range segments {
		items = append(items, Item{
			ID:       i + 1,
			Text:     msg,
			Bucket:   BucketOf(msg),
			Priority: PriorityOf(msg),
		})
	}
	return items
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

package sources

import "strings"

// maxSummaryLen caps feed-derived summaries. Score/stat summaries built by the
// sources themselves are not capped.
const maxSummaryLen = 500

// NewsItem is the normalized record every source produces. All fields carry
// defined zero defaults, so an item serialized to JSON and back is identical.
type NewsItem struct {
	Title       string         `json:"title"`
	URL         string         `json:"url"`
	Summary     string         `json:"summary"`
	Source      string         `json:"source"`
	PublishedAt string         `json:"published_at"` // ISO-8601, empty when unknown
	Score       int            `json:"score"`
	Extra       map[string]any `json:"extra"`
}

// NewItem builds a NewsItem with whitespace-trimmed title and summary.
func NewItem(title, url string) NewsItem {
	return NewsItem{
		Title: strings.TrimSpace(title),
		URL:   url,
		Extra: map[string]any{},
	}
}

// TruncateSummary trims s and cuts it at maxSummaryLen runes.
func TruncateSummary(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) > maxSummaryLen {
		return string(runes[:maxSummaryLen])
	}
	return s
}

package sources

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

const rssTimeout = 30 * time.Second

// RSSSource fetches any RSS/Atom feed and maps up to limit entries to
// NewsItems. Entries without a usable title are dropped.
type RSSSource struct {
	name    string
	feedURL string
	parser  *gofeed.Parser
}

// NewRSSSource creates a feed source with the given registered name and URL.
func NewRSSSource(name, feedURL string) *RSSSource {
	parser := gofeed.NewParser()
	parser.UserAgent = "NewsCollector/1.0"
	parser.Client = &http.Client{Timeout: rssTimeout}
	return &RSSSource{
		name:    name,
		feedURL: feedURL,
		parser:  parser,
	}
}

func (r *RSSSource) Fetch(ctx context.Context, limit int) ([]NewsItem, error) {
	limit = clampLimit(limit)

	feed, err := r.parser.ParseURLWithContext(r.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("rss %s: %w", r.name, err)
	}

	items := make([]NewsItem, 0, limit)
	for _, entry := range feed.Items {
		if len(items) >= limit {
			break
		}
		item, ok := r.convertEntry(entry)
		if !ok {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *RSSSource) convertEntry(entry *gofeed.Item) (NewsItem, bool) {
	item := NewItem(entry.Title, entry.Link)
	if item.Title == "" {
		return NewsItem{}, false
	}

	summary := entry.Description
	if summary == "" {
		summary = entry.Content
	}
	item.Summary = TruncateSummary(stripHTML(summary))
	item.Source = r.name

	if entry.PublishedParsed != nil {
		item.PublishedAt = entry.PublishedParsed.Format(time.RFC3339)
	} else if entry.UpdatedParsed != nil {
		item.PublishedAt = entry.UpdatedParsed.Format(time.RFC3339)
	}

	author := ""
	if len(entry.Authors) > 0 && entry.Authors[0] != nil {
		author = entry.Authors[0].Name
	}
	tags := entry.Categories
	if tags == nil {
		tags = []string{}
	}
	item.Extra = map[string]any{
		"author": author,
		"tags":   tags,
	}
	return item, true
}

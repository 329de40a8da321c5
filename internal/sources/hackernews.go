package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

const (
	hnDefaultBaseURL = "https://hacker-news.firebaseio.com/v0"
	hnConcurrency    = 5
	hnTimeout        = 15 * time.Second
)

// HackerNewsSource fetches top stories via the official Firebase API
// (free, no API key). It walks the topstories ID list and fetches each
// story's detail under a bounded semaphore; per-story failures are dropped
// silently rather than failing the batch.
type HackerNewsSource struct {
	name    string
	baseURL string
	client  *http.Client
}

// NewHackerNewsSource creates a Hacker News source.
func NewHackerNewsSource() *HackerNewsSource {
	return &HackerNewsSource{
		name:    "HackerNews",
		baseURL: hnDefaultBaseURL,
		client:  &http.Client{Timeout: hnTimeout},
	}
}

func (h *HackerNewsSource) Fetch(ctx context.Context, limit int) ([]NewsItem, error) {
	limit = clampLimit(limit)

	ids, err := h.fetchTopStoryIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("hackernews: top stories: %w", err)
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}

	// Indexed slots keep the topstories ranking order regardless of which
	// fetch finishes first.
	slots := make([]*NewsItem, len(ids))
	sem := make(chan struct{}, hnConcurrency)
	var wg sync.WaitGroup

	for i, id := range ids {
		wg.Add(1)
		go func(i, id int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			item, err := h.fetchStory(ctx, id)
			if err != nil {
				return
			}
			slots[i] = item
		}(i, id)
	}
	wg.Wait()

	items := make([]NewsItem, 0, len(ids))
	for _, it := range slots {
		if it != nil {
			items = append(items, *it)
		}
	}
	return items, nil
}

type hnStory struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Score       int    `json:"score"`
	Descendants int    `json:"descendants"`
	By          string `json:"by"`
	Time        int64  `json:"time"`
	Type        string `json:"type"`
}

func (h *HackerNewsSource) fetchTopStoryIDs(ctx context.Context) ([]int, error) {
	body, err := h.get(ctx, h.baseURL+"/topstories.json")
	if err != nil {
		return nil, err
	}
	var ids []int
	if err := json.Unmarshal(body, &ids); err != nil {
		return nil, fmt.Errorf("unmarshal id list: %w", err)
	}
	return ids, nil
}

func (h *HackerNewsSource) fetchStory(ctx context.Context, id int) (*NewsItem, error) {
	body, err := h.get(ctx, fmt.Sprintf("%s/item/%d.json", h.baseURL, id))
	if err != nil {
		return nil, err
	}

	var story hnStory
	if err := json.Unmarshal(body, &story); err != nil {
		return nil, fmt.Errorf("unmarshal story %d: %w", id, err)
	}
	if story.Type != "story" {
		return nil, fmt.Errorf("item %d is %q, not a story", id, story.Type)
	}

	hnURL := fmt.Sprintf("https://news.ycombinator.com/item?id=%d", id)
	url := story.URL
	if url == "" {
		// Ask HN / text posts have no external link.
		url = hnURL
	}

	publishedAt := ""
	if story.Time > 0 {
		publishedAt = time.Unix(story.Time, 0).Format(time.RFC3339)
	}

	item := NewItem(story.Title, url)
	item.Summary = fmt.Sprintf("Points: %d | Comments: %d", story.Score, story.Descendants)
	item.Source = h.name
	item.PublishedAt = publishedAt
	item.Score = story.Score
	item.Extra = map[string]any{
		"id":       id,
		"by":       story.By,
		"comments": story.Descendants,
		"hn_url":   hnURL,
	}
	return &item, nil
}

func (h *HackerNewsSource) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

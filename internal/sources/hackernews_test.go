package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newHNTestServer(t *testing.T, ids []int, stories map[int]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/topstories.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "[")
		for i, id := range ids {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, "%d", id)
		}
		fmt.Fprint(w, "]")
	})
	for id, body := range stories {
		body := body
		mux.HandleFunc(fmt.Sprintf("/item/%d.json", id), func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, body)
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHackerNewsFetch(t *testing.T) {
	srv := newHNTestServer(t, []int{101, 102, 103}, map[int]string{
		101: `{"id":101,"title":"First story","url":"https://example.com/a","score":250,"descendants":80,"by":"alice","time":1756100000,"type":"story"}`,
		102: `{"id":102,"title":"Job posting","type":"job"}`,
		103: `{"id":103,"title":"Ask HN: no link","score":40,"descendants":12,"by":"bob","time":1756100100,"type":"story"}`,
	})

	src := NewHackerNewsSource()
	src.baseURL = srv.URL

	items, err := src.Fetch(context.Background(), 10)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items (job dropped), got %d", len(items))
	}

	first := items[0]
	if first.Title != "First story" || first.URL != "https://example.com/a" {
		t.Errorf("unexpected first item: %+v", first)
	}
	if first.Score != 250 {
		t.Errorf("score = %d, want 250", first.Score)
	}
	if first.Summary != "Points: 250 | Comments: 80" {
		t.Errorf("summary = %q", first.Summary)
	}
	if first.Source != "HackerNews" {
		t.Errorf("source = %q", first.Source)
	}
	if first.PublishedAt == "" {
		t.Error("expected published_at to be set from story time")
	}
	if first.Extra["by"] != "alice" || first.Extra["comments"] != 80 {
		t.Errorf("unexpected extra: %+v", first.Extra)
	}

	// Ask HN posts link back to the discussion page.
	second := items[1]
	if second.URL != "https://news.ycombinator.com/item?id=103" {
		t.Errorf("expected HN discussion fallback URL, got %q", second.URL)
	}
}

func TestHackerNewsFetchPreservesRanking(t *testing.T) {
	ids := []int{1, 2, 3, 4, 5, 6, 7, 8}
	stories := make(map[int]string, len(ids))
	for _, id := range ids {
		stories[id] = fmt.Sprintf(`{"id":%d,"title":"story %d","url":"https://example.com/%d","score":%d,"type":"story"}`, id, id, id, id*10)
	}
	srv := newHNTestServer(t, ids, stories)

	src := NewHackerNewsSource()
	src.baseURL = srv.URL

	items, err := src.Fetch(context.Background(), len(ids))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != len(ids) {
		t.Fatalf("expected %d items, got %d", len(ids), len(items))
	}
	for i, item := range items {
		want := fmt.Sprintf("story %d", ids[i])
		if item.Title != want {
			t.Fatalf("item %d = %q, want %q (ranking order lost)", i, item.Title, want)
		}
	}
}

func TestHackerNewsFetchRespectsLimit(t *testing.T) {
	stories := map[int]string{
		1: `{"id":1,"title":"one","url":"https://example.com/1","type":"story"}`,
		2: `{"id":2,"title":"two","url":"https://example.com/2","type":"story"}`,
		3: `{"id":3,"title":"three","url":"https://example.com/3","type":"story"}`,
	}
	srv := newHNTestServer(t, []int{1, 2, 3}, stories)

	src := NewHackerNewsSource()
	src.baseURL = srv.URL

	items, err := src.Fetch(context.Background(), 2)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 items, got %d", len(items))
	}
}

func TestHackerNewsFetchDropsFailedStories(t *testing.T) {
	// ID 2 has no handler, so its detail fetch 404s; the batch still succeeds.
	srv := newHNTestServer(t, []int{1, 2}, map[int]string{
		1: `{"id":1,"title":"one","url":"https://example.com/1","type":"story"}`,
	})

	src := NewHackerNewsSource()
	src.baseURL = srv.URL

	items, err := src.Fetch(context.Background(), 10)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 1 || items[0].Title != "one" {
		t.Errorf("expected only the healthy story, got %+v", items)
	}
}

func TestHackerNewsFetchErrorOnBadIDList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	src := NewHackerNewsSource()
	src.baseURL = srv.URL

	if _, err := src.Fetch(context.Background(), 5); err == nil {
		t.Error("expected error when the id list is unavailable")
	}
}

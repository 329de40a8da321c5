package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const trendingPage = `<!DOCTYPE html>
<html><body>
<article class="Box-row">
  <h2><a href="/golang/go">golang / go</a></h2>
  <p>The Go programming language</p>
  <span itemprop="programmingLanguage">Go</span>
  <a href="/golang/go/stargazers">128,000</a>
  <span class="d-inline-block float-sm-right">350 stars today</span>
</article>
<article class="Box-row">
  <h2><a href="/rust-lang/rust"> rust-lang / rust </a></h2>
  <p>Empowering everyone</p>
  <a href="/rust-lang/rust/stargazers">99,500</a>
</article>
<article class="Box-row">
  <p>malformed row without a repo link</p>
</article>
</body></html>`

func newTrendingSource(t *testing.T, page string) *GitHubTrendingSource {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(page))
	}))
	t.Cleanup(srv.Close)

	src := NewGitHubTrendingSource()
	src.pageURL = srv.URL
	return src
}

func TestGitHubTrendingFetch(t *testing.T) {
	src := newTrendingSource(t, trendingPage)

	items, err := src.Fetch(context.Background(), 10)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 repos (malformed row skipped), got %d", len(items))
	}

	first := items[0]
	if first.Title != "golang / go" {
		t.Errorf("title = %q", first.Title)
	}
	if first.URL != "https://github.com/golang/go" {
		t.Errorf("url = %q", first.URL)
	}
	if first.Score != 128000 {
		t.Errorf("score = %d, want 128000", first.Score)
	}
	if first.Source != "GitHubTrending" {
		t.Errorf("source = %q", first.Source)
	}
	if !strings.Contains(first.Summary, "Language: Go") ||
		!strings.Contains(first.Summary, "Stars: 128000") ||
		!strings.Contains(first.Summary, "(350 stars today)") ||
		!strings.Contains(first.Summary, "- The Go programming language") {
		t.Errorf("summary = %q", first.Summary)
	}
	if first.PublishedAt == "" {
		t.Error("expected fetch-time published_at")
	}
	if first.Extra["language"] != "Go" || first.Extra["today_stars"] != "350 stars today" {
		t.Errorf("unexpected extra: %+v", first.Extra)
	}

	// No language span and no today-stars span on the second row.
	second := items[1]
	if second.Title != "rust-lang / rust" {
		t.Errorf("title = %q", second.Title)
	}
	if strings.Contains(second.Summary, "Language:") {
		t.Errorf("summary should omit missing language: %q", second.Summary)
	}
}

func TestGitHubTrendingFetchRespectsLimit(t *testing.T) {
	src := newTrendingSource(t, trendingPage)

	items, err := src.Fetch(context.Background(), 1)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("expected 1 item, got %d", len(items))
	}
}

func TestGitHubTrendingMissingStarsDefaultsToZero(t *testing.T) {
	page := `<article class="Box-row"><h2><a href="/a/b">a / b</a></h2></article>`
	src := newTrendingSource(t, page)

	items, err := src.Fetch(context.Background(), 5)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Score != 0 || !strings.Contains(items[0].Summary, "Stars: 0") {
		t.Errorf("expected zero-star fallback, got %+v", items[0])
	}
}

func TestGitHubTrendingCancelledContext(t *testing.T) {
	src := newTrendingSource(t, trendingPage)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Fetch(ctx, 5); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestGitHubTrendingContextCancelsInFlightRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte(trendingPage))
	}))
	t.Cleanup(srv.Close)

	src := NewGitHubTrendingSource()
	src.pageURL = srv.URL

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := src.Fetch(ctx, 5)
	if err == nil {
		t.Fatal("expected error when context expires mid-request")
	}
	if elapsed := time.Since(start); elapsed > 300*time.Millisecond {
		t.Errorf("fetch took %v, request was not aborted by the context", elapsed)
	}
}

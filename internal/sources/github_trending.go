package sources

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

const ghTrendingURL = "https://github.com/trending"

// GitHubTrendingSource scrapes the GitHub trending page for popular open
// source repositories. One malformed repo entry is skipped, not fatal to the
// page; the page has no intrinsic publish time, so items are stamped with the
// fetch time.
type GitHubTrendingSource struct {
	name    string
	pageURL string
	timeout time.Duration
}

// NewGitHubTrendingSource creates a GitHub trending source.
func NewGitHubTrendingSource() *GitHubTrendingSource {
	return &GitHubTrendingSource{
		name:    "GitHubTrending",
		pageURL: ghTrendingURL,
		timeout: 15 * time.Second,
	}
}

func (g *GitHubTrendingSource) Fetch(ctx context.Context, limit int) ([]NewsItem, error) {
	limit = clampLimit(limit)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// StdlibContext ties the underlying HTTP request to ctx, so cancellation
	// aborts an in-flight page fetch, not just the pre-visit check.
	c := colly.NewCollector(
		colly.UserAgent("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(g.timeout)

	items := make([]NewsItem, 0, limit)
	now := time.Now().Format(time.RFC3339)

	// The trending page markup shifts occasionally; parse best-effort and
	// skip entries missing the repo link.
	c.OnHTML("article.Box-row", func(e *colly.HTMLElement) {
		if len(items) >= limit {
			return
		}
		item, ok := g.parseRepoRow(e, now)
		if !ok {
			return
		}
		items = append(items, item)
	})

	if err := c.Visit(g.pageURL); err != nil {
		return nil, err
	}
	return items, nil
}

func (g *GitHubTrendingSource) parseRepoRow(e *colly.HTMLElement, fetchedAt string) (NewsItem, bool) {
	repoPath := strings.Trim(e.ChildAttr("h2 a", "href"), "/")
	if repoPath == "" {
		return NewsItem{}, false
	}

	repoURL := "https://github.com/" + repoPath
	repoName := strings.ReplaceAll(repoPath, "/", " / ")

	description := strings.TrimSpace(e.ChildText("p"))
	language := strings.TrimSpace(e.ChildText("[itemprop='programmingLanguage']"))

	starsText := strings.ReplaceAll(strings.TrimSpace(e.ChildText("a[href$='/stargazers']")), ",", "")
	if starsText == "" {
		starsText = "0"
	}
	stars, _ := strconv.Atoi(starsText)

	todayStars := strings.TrimSpace(e.ChildText("span.d-inline-block.float-sm-right"))

	var parts []string
	if language != "" {
		parts = append(parts, "Language: "+language)
	}
	parts = append(parts, "Stars: "+starsText)
	if todayStars != "" {
		parts = append(parts, "("+todayStars+")")
	}
	if description != "" {
		parts = append(parts, "- "+description)
	}

	item := NewItem(repoName, repoURL)
	item.Summary = strings.Join(parts, " ")
	item.Source = g.name
	item.PublishedAt = fetchedAt
	item.Score = stars
	item.Extra = map[string]any{
		"language":    language,
		"stars":       stars,
		"today_stars": todayStars,
		"description": description,
	}
	return item, true
}

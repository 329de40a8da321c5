package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1NY2/news-collector/internal/analyzer"
	"github.com/1NY2/news-collector/internal/sources"
)

func sampleAnalysis() *analyzer.AnalysisResult {
	return &analyzer.AnalysisResult{
		Summary:       "本周 AI 工具热度不减",
		Trends:        []string{"AI Agent", "边缘计算"},
		Opportunities: []string{"垂直领域 SaaS"},
		ProjectSuggestions: []analyzer.ProjectSuggestion{
			{
				Name:        "订阅管理器",
				Description: "跟踪 SaaS 订阅支出",
				TargetUsers: "独立开发者",
				TechStack:   []string{"Go", "SQLite"},
				Difficulty:  "简单",
				Reason:      "刚需且易实现",
				Priority:    5,
			},
		},
	}
}

func sampleItems() []sources.NewsItem {
	mk := func(title, url, source string) sources.NewsItem {
		it := sources.NewItem(title, url)
		it.Source = source
		return it
	}
	return []sources.NewsItem{
		mk("hn one", "https://x/1", "HackerNews"),
		mk("hn two", "https://x/2", "HackerNews"),
		mk("tc one", "https://x/3", "TechCrunch"),
	}
}

func TestRenderHTML(t *testing.T) {
	gen, err := NewGenerator(t.TempDir())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	html, err := gen.RenderHTML(sampleAnalysis(), sampleItems())
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}

	doc := string(html)
	for _, want := range []string{
		"科技周报",
		"本周 AI 工具热度不减",
		"AI Agent",
		"订阅管理器",
		"hn one",
		"https://x/3",
		"HackerNews",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("rendered report missing %q", want)
		}
	}
}

func TestGenerateHTMLWritesFile(t *testing.T) {
	dir := t.TempDir()
	gen, err := NewGenerator(dir)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	path, err := gen.GenerateHTML(sampleAnalysis(), sampleItems())
	if err != nil {
		t.Fatalf("GenerateHTML: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("report written outside output dir: %s", path)
	}
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "report_") || !strings.HasSuffix(base, ".html") {
		t.Errorf("unexpected report name %q", base)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(data), "科技周报") {
		t.Error("written file does not contain the rendered report")
	}
}

func TestNewGeneratorCreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "output")
	if _, err := NewGenerator(dir); err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("output dir not created: %v", err)
	}
}

func TestGroupBySource(t *testing.T) {
	groups := GroupBySource(sampleItems())
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	// Larger group first.
	if groups[0].Name != "HackerNews" || len(groups[0].Items) != 2 {
		t.Errorf("first group = %s (%d items)", groups[0].Name, len(groups[0].Items))
	}
	if groups[1].Name != "TechCrunch" || len(groups[1].Items) != 1 {
		t.Errorf("second group = %s (%d items)", groups[1].Name, len(groups[1].Items))
	}
	// Fetch order preserved inside a group.
	if groups[0].Items[0].Title != "hn one" || groups[0].Items[1].Title != "hn two" {
		t.Error("item order inside group changed")
	}
}

func TestGroupBySourceEmpty(t *testing.T) {
	if groups := GroupBySource(nil); len(groups) != 0 {
		t.Errorf("expected no groups, got %d", len(groups))
	}
}

func TestGenerateCard(t *testing.T) {
	dir := t.TempDir()
	gen, err := NewGenerator(dir)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	path, err := gen.GenerateCard(sampleAnalysis())
	if err != nil {
		t.Fatalf("GenerateCard: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat card: %v", err)
	}
	if info.Size() == 0 {
		t.Error("card file is empty")
	}
	if !strings.HasSuffix(path, ".png") {
		t.Errorf("unexpected card name %q", path)
	}
}

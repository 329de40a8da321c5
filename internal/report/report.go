// Package report renders the analysis result and collected news into an
// emailable HTML report, plus an optional PNG share card.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/1NY2/news-collector/internal/analyzer"
	"github.com/1NY2/news-collector/internal/sources"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

// SourceGroup is one source's items, for the per-source sections.
type SourceGroup struct {
	Name  string
	Items []sources.NewsItem
}

type templateData struct {
	Date       string
	Analysis   *analyzer.AnalysisResult
	Groups     []SourceGroup
	TotalItems int
}

// Generator renders reports into an output directory.
type Generator struct {
	outputDir string
	tmpl      *template.Template
}

// NewGenerator creates a generator writing into outputDir (created if
// missing).
func NewGenerator(outputDir string) (*Generator, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	tmpl, err := template.ParseFS(templateFS, "templates/report.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	return &Generator{outputDir: outputDir, tmpl: tmpl}, nil
}

// GenerateHTML renders the report and writes report_<timestamp>.html,
// returning its path.
func (g *Generator) GenerateHTML(analysis *analyzer.AnalysisResult, items []sources.NewsItem) (string, error) {
	html, err := g.RenderHTML(analysis, items)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("report_%s.html", time.Now().Format("20060102_150405"))
	path := filepath.Join(g.outputDir, name)
	if err := os.WriteFile(path, html, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// RenderHTML renders the report document without writing it, for embedding
// straight into an email body.
func (g *Generator) RenderHTML(analysis *analyzer.AnalysisResult, items []sources.NewsItem) ([]byte, error) {
	data := templateData{
		Date:       time.Now().Format("2006-01-02"),
		Analysis:   analysis,
		Groups:     GroupBySource(items),
		TotalItems: len(items),
	}

	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

// GroupBySource groups items by their Source field and sorts the groups by
// descending item count (presentation order, not contractual). Within a
// group the fetch order is preserved.
func GroupBySource(items []sources.NewsItem) []SourceGroup {
	index := make(map[string]int)
	var groups []SourceGroup
	for _, item := range items {
		i, ok := index[item.Source]
		if !ok {
			i = len(groups)
			index[item.Source] = i
			groups = append(groups, SourceGroup{Name: item.Source})
		}
		groups[i].Items = append(groups[i].Items, item)
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return len(groups[a].Items) > len(groups[b].Items)
	})
	return groups
}

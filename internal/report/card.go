package report

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fogleman/gg"

	"github.com/1NY2/news-collector/internal/analyzer"
)

// cardFonts are tried in order; rendering proceeds with gg's builtin font
// when none loads. CJK-capable fonts come first so Chinese summaries render.
var cardFonts = []string{
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/System/Library/Fonts/PingFang.ttc",
	"/System/Library/Fonts/Helvetica.ttc",
}

const (
	cardWidth  = 1080
	cardHeight = 1350
	cardMargin = 64.0
)

// GenerateCard renders a shareable PNG summary card (summary, trends, top
// project suggestions) and returns its path.
func (g *Generator) GenerateCard(analysis *analyzer.AnalysisResult) (string, error) {
	dc := gg.NewContext(cardWidth, cardHeight)

	// Background
	dc.SetRGB255(246, 248, 250)
	dc.Clear()

	y := cardMargin

	// Title bar
	dc.SetRGB255(9, 105, 218)
	dc.DrawRectangle(0, 0, cardWidth, 8)
	dc.Fill()

	loadCardFont(dc, 44)
	dc.SetRGB255(36, 41, 47)
	dc.DrawString("科技周报", cardMargin, y+44)
	loadCardFont(dc, 24)
	dc.SetRGB255(87, 96, 106)
	dc.DrawString(time.Now().Format("2006-01-02"), cardMargin, y+84)
	y += 140

	// Summary
	loadCardFont(dc, 26)
	dc.SetRGB255(36, 41, 47)
	dc.DrawStringWrapped(analysis.Summary, cardMargin, y, 0, 0,
		cardWidth-2*cardMargin, 1.5, gg.AlignLeft)
	y += measureWrappedHeight(dc, analysis.Summary, cardWidth-2*cardMargin, 1.5) + 48

	// Trend keywords
	if len(analysis.Trends) > 0 {
		loadCardFont(dc, 24)
		dc.SetRGB255(9, 105, 218)
		dc.DrawString("趋势: "+strings.Join(analysis.Trends, " · "), cardMargin, y)
		y += 56
	}

	// Top project suggestions
	loadCardFont(dc, 28)
	dc.SetRGB255(36, 41, 47)
	dc.DrawString("项目建议", cardMargin, y)
	y += 24

	suggestions := analysis.ProjectSuggestions
	if len(suggestions) > 3 {
		suggestions = suggestions[:3]
	}
	for i, proj := range suggestions {
		boxH := 96.0 + measureWrappedHeight(dc, proj.Description, cardWidth-2*cardMargin-48, 1.4)
		dc.SetRGB255(255, 255, 255)
		dc.DrawRoundedRectangle(cardMargin, y+16, cardWidth-2*cardMargin, boxH, 12)
		dc.Fill()

		loadCardFont(dc, 26)
		dc.SetRGB255(9, 105, 218)
		dc.DrawString(fmt.Sprintf("%d. %s（优先级 %d/5）", i+1, proj.Name, proj.Priority),
			cardMargin+24, y+60)

		loadCardFont(dc, 22)
		dc.SetRGB255(87, 96, 106)
		dc.DrawStringWrapped(proj.Description, cardMargin+24, y+80, 0, 0,
			cardWidth-2*cardMargin-48, 1.4, gg.AlignLeft)

		y += boxH + 24
		if y > cardHeight-160 {
			break
		}
	}

	// Footer
	loadCardFont(dc, 18)
	dc.SetRGB255(140, 149, 159)
	dc.DrawStringAnchored("news-collector", cardWidth/2, cardHeight-40, 0.5, 0.5)

	name := fmt.Sprintf("card_%s.png", time.Now().Format("20060102_150405"))
	path := filepath.Join(g.outputDir, name)
	if err := dc.SavePNG(path); err != nil {
		return "", fmt.Errorf("save card: %w", err)
	}
	return path, nil
}

func loadCardFont(dc *gg.Context, size float64) {
	for _, path := range cardFonts {
		if err := dc.LoadFontFace(path, size); err == nil {
			return
		}
	}
	// gg falls back to its builtin face
}

func measureWrappedHeight(dc *gg.Context, s string, width, lineSpacing float64) float64 {
	lines := dc.WordWrap(s, width)
	_, lineH := dc.MeasureString("衡")
	return float64(len(lines)) * lineH * lineSpacing
}

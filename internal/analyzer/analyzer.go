// Package analyzer turns a batch of news items into trend insights and
// indie-developer project suggestions via an LLM.
package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/1NY2/news-collector/internal/sources"
	"github.com/1NY2/news-collector/pkg/llm"
)

// ProjectSuggestion is one project idea for an independent developer.
type ProjectSuggestion struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	TargetUsers string   `json:"target_users"`
	TechStack   []string `json:"tech_stack"`
	Difficulty  string   `json:"difficulty"` // 简单 / 中等 / 困难
	Reason      string   `json:"reason"`
	Priority    int      `json:"priority"` // 1-5, 5 highest
}

// AnalysisResult is the structured output of one analysis pass.
type AnalysisResult struct {
	Summary            string              `json:"summary"`
	Trends             []string            `json:"trends"`
	Opportunities      []string            `json:"opportunities"`
	ProjectSuggestions []ProjectSuggestion `json:"project_suggestions"`
	RawResponse        string              `json:"raw_response,omitempty"`
	TokensUsed         int                 `json:"tokens_used,omitempty"`
	Cost               float64             `json:"cost,omitempty"`
}

// Analyzer drives the LLM analysis.
type Analyzer struct {
	client llm.Client
}

// New creates an analyzer with the given LLM client.
func New(client llm.Client) *Analyzer {
	return &Analyzer{client: client}
}

// Analyze summarizes the given items. An empty batch short-circuits without
// calling the model.
func (a *Analyzer) Analyze(ctx context.Context, items []sources.NewsItem) (*AnalysisResult, error) {
	if len(items) == 0 {
		return &AnalysisResult{
			Summary:            "没有可分析的新闻",
			Trends:             []string{},
			Opportunities:      []string{},
			ProjectSuggestions: []ProjectSuggestion{},
		}, nil
	}

	prompt := buildAnalysisPrompt(formatItemsForPrompt(items))

	resp, err := a.client.Generate(ctx, &llm.Request{
		Messages: []llm.Message{{Role: "user", Content: prompt}},
		JSONMode: true,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM analysis: %w", err)
	}

	result, err := parseResponse(resp.Content)
	if err != nil {
		return nil, err
	}
	result.TokensUsed = resp.TokensIn + resp.TokensOut
	result.Cost = resp.Cost
	return result, nil
}

// formatItemsForPrompt renders items as a numbered list; summaries are cut at
// 200 runes so a large batch still fits the context window.
func formatItemsForPrompt(items []sources.NewsItem) string {
	var sb strings.Builder
	for i, item := range items {
		fmt.Fprintf(&sb, "%d. [%s] %s\n", i+1, item.Source, item.Title)
		if item.Summary != "" {
			summary := []rune(item.Summary)
			if len(summary) > 200 {
				summary = summary[:200]
			}
			fmt.Fprintf(&sb, "   摘要: %s\n", string(summary))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func buildAnalysisPrompt(newsText string) string {
	return fmt.Sprintf(`你是一位资深的科技产品分析师和独立开发者顾问。请分析以下一周内的科技新闻，为独立开发者提供有价值的洞察和项目建议。

## 新闻列表
%s

## 分析要求
请从独立开发者的角度，分析这些新闻并提供：

1. **本周热点总结**（200字以内）：概括主要趋势和值得关注的方向

2. **趋势关键词**：提取3-5个热门技术/产品趋势关键词

3. **市场机会**：列出2-3个可能的市场机会

4. **项目建议**：推荐3-5个适合独立开发者的项目，每个项目包含：
   - 项目名称
   - 一句话描述
   - 目标用户群体
   - 推荐技术栈
   - 难度评估（简单/中等/困难）
   - 推荐理由
   - 优先级（1-5分）

## 输出格式
请严格按以下 JSON 格式输出（不要包含其他内容）：

{
  "summary": "本周热点总结...",
  "trends": ["趋势1", "趋势2", "趋势3"],
  "opportunities": ["机会1", "机会2"],
  "project_suggestions": [
    {
      "name": "项目名称",
      "description": "项目描述",
      "target_users": "目标用户",
      "tech_stack": ["技术1", "技术2"],
      "difficulty": "中等",
      "reason": "推荐理由",
      "priority": 4
    }
  ]
}`, newsText)
}

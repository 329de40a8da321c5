package analyzer

import (
	"encoding/json"
	"fmt"

	"github.com/1NY2/news-collector/pkg/llm"
)

// parseResponse decodes the model's JSON payload, tolerating a Markdown code
// fence around it. The raw text is kept on the result for debugging.
func parseResponse(content string) (*AnalysisResult, error) {
	var result AnalysisResult
	if err := json.Unmarshal([]byte(llm.ExtractJSON(content)), &result); err != nil {
		return nil, fmt.Errorf("parse analysis response: %w", err)
	}

	if result.Trends == nil {
		result.Trends = []string{}
	}
	if result.Opportunities == nil {
		result.Opportunities = []string{}
	}
	if result.ProjectSuggestions == nil {
		result.ProjectSuggestions = []ProjectSuggestion{}
	}
	result.RawResponse = content
	return &result, nil
}

package llm

// Token pricing per 1M tokens (USD) as of 2025. Qwen prices converted from
// DashScope's CNY list prices.
var pricing = map[string]modelPrice{
	// OpenAI
	"gpt-4o":      {Input: 2.50, Output: 10.00},
	"gpt-4o-mini": {Input: 0.15, Output: 0.60},

	// DashScope / Qwen (compatible mode)
	"qwen-max":   {Input: 1.60, Output: 6.40},
	"qwen-plus":  {Input: 0.40, Output: 1.20},
	"qwen-turbo": {Input: 0.05, Output: 0.20},
	"qwen-long":  {Input: 0.07, Output: 0.28},
}

type modelPrice struct {
	Input  float64 // per 1M input tokens
	Output float64 // per 1M output tokens
}

// EstimateCost returns the estimated cost in USD for the given model and
// token counts. Unknown models cost 0.
func EstimateCost(model string, tokensIn, tokensOut int) float64 {
	p, ok := pricing[model]
	if !ok {
		return 0
	}
	return (float64(tokensIn) * p.Input / 1_000_000) + (float64(tokensOut) * p.Output / 1_000_000)
}

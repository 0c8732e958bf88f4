package narrator

import (
	"fmt"
	"strings"

	"github.com/Durga-Talluri/cloudops-pro/pkg/tokenizer"
)

// SystemPrompt frames the model as a cost advisor.
const SystemPrompt = "You are a cloud cost optimization expert. Provide concise, actionable insights."

const topOptimizations = 3

// BuildPrompt renders the user prompt for in, using the whole cost trend.
func BuildPrompt(in Input) string {
	return buildPrompt(in, 0)
}

// fitPrompt drops the oldest trend points until the chat fits maxTokens.
// The newest point is always kept.
func fitPrompt(in Input, counter *tokenizer.Counter, maxTokens int) (string, int) {
	skip := 0
	for {
		prompt := buildPrompt(in, skip)
		tokens := counter.CountChat(chatMessages(prompt))
		if maxTokens <= 0 || tokens <= maxTokens || skip >= len(in.CostData)-1 {
			return prompt, tokens
		}
		skip++
	}
}

func buildPrompt(in Input, skip int) string {
	var current, savings float64
	if n := len(in.CostData); n > 0 {
		current = in.CostData[n-1].Cost
	}
	for _, o := range in.Optimizations {
		savings += o.Savings
	}

	trend := in.CostData
	if skip > 0 && skip < len(trend) {
		trend = trend[skip:]
	}

	var b strings.Builder
	b.WriteString("Analyze the following cloud infrastructure cost data and provide insights:\n\n")
	fmt.Fprintf(&b, "Current daily cost: $%.2f\n", current)
	fmt.Fprintf(&b, "Total potential savings: $%.2f/month\n\n", savings)

	fmt.Fprintf(&b, "Cost trend (last %d days):\n", len(trend))
	for _, p := range trend {
		fmt.Fprintf(&b, "- %s: $%.2f\n", p.Date, p.Cost)
	}

	b.WriteString("\nTop optimization opportunities:\n")
	for i, o := range in.Optimizations {
		if i == topOptimizations {
			break
		}
		fmt.Fprintf(&b, "- %s: $%.2f/month savings (%s impact)\n", o.Title, o.Savings, o.Impact)
	}

	b.WriteString("\nProvide 2-3 key insights and recommendations for cost optimization.")
	return b.String()
}

func chatMessages(prompt string) []tokenizer.Message {
	return []tokenizer.Message{
		{Role: "system", Content: SystemPrompt},
		{Role: "user", Content: prompt},
	}
}

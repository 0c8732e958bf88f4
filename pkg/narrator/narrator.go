// Package narrator turns cost data into short natural-language insights
// using an external chat model. Callers get text even when the model is
// unconfigured or failing.
package narrator

import (
	"context"
	"errors"

	"github.com/Durga-Talluri/cloudops-pro/pkg/model"
)

// ErrUnavailable means no model is configured.
var ErrUnavailable = errors.New("narrator unavailable")

// Fallback texts returned in place of insights.
const (
	FallbackUnconfigured = "AI insights unavailable - OpenAI API key not configured"
	FallbackFailedPrefix = "AI analysis temporarily unavailable: "
)

// Input is the data an insight is written about.
type Input struct {
	CostData      []model.CostDataPoint
	Optimizations []model.OptimizationSuggestion
}

// Narrator writes insight text for cost data.
type Narrator interface {
	Narrate(ctx context.Context, in Input) (string, error)
}

// Unavailable is the Narrator used when no credentials are configured.
type Unavailable struct{}

func (Unavailable) Narrate(context.Context, Input) (string, error) {
	return "", ErrUnavailable
}

// Insights runs n and maps every failure to a fallback string.
func Insights(ctx context.Context, n Narrator, in Input) string {
	if n == nil {
		return FallbackUnconfigured
	}
	text, err := n.Narrate(ctx, in)
	switch {
	case errors.Is(err, ErrUnavailable):
		return FallbackUnconfigured
	case err != nil:
		return FallbackFailedPrefix + err.Error()
	}
	return text
}

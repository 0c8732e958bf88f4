package model

import "time"

// Impact and effort levels used by optimization suggestions.
const (
	LevelHigh   = "high"
	LevelMedium = "medium"
	LevelLow    = "low"
)

// CostDataPoint is one day of spend. Predicted is nil when predictions are excluded.
type CostDataPoint struct {
	Date      string   `json:"date" yaml:"date"`
	Cost      float64  `json:"cost" yaml:"cost"`
	Predicted *float64 `json:"predicted,omitempty" yaml:"predicted"`
}

// OptimizationSuggestion is a recommended change with its estimated monthly savings.
type OptimizationSuggestion struct {
	ID          string  `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	Savings     float64 `json:"potential_savings" yaml:"potential_savings"`
	Impact      string  `json:"impact" yaml:"impact"`
	Category    string  `json:"category" yaml:"category"`
	Effort      string  `json:"implementation_effort" yaml:"implementation_effort"`
	Confidence  float64 `json:"confidence_score" yaml:"confidence_score"`
}

// CostAnalysisRequest selects the range and optional parts of a cost analysis.
type CostAnalysisRequest struct {
	TimeRange            string `json:"time_range"`
	IncludePredictions   bool   `json:"include_predictions"`
	IncludeOptimizations bool   `json:"include_optimizations"`
}

// CostAnalysis is the full AI cost dashboard payload.
type CostAnalysis struct {
	CostData                []CostDataPoint          `json:"cost_data"`
	CurrentCost             float64                  `json:"current_cost"`
	PreviousCost            float64                  `json:"previous_cost"`
	ChangePercent           float64                  `json:"change_percent"`
	TotalSavings            float64                  `json:"total_savings"`
	OptimizationSuggestions []OptimizationSuggestion `json:"optimization_suggestions"`
	AIInsights              string                   `json:"ai_insights"`
	LastUpdated             time.Time                `json:"last_updated"`
}

// CostSummary is the headline cost arithmetic.
type CostSummary struct {
	CurrentCost       float64 `json:"current_cost"`
	PreviousCost      float64 `json:"previous_cost"`
	Change            float64 `json:"change"`
	ChangePercent     float64 `json:"change_percent"`
	TotalSavings      float64 `json:"total_savings"`
	MonthlyProjection float64 `json:"monthly_projection"`
}

// CostPrediction is one forecast day.
type CostPrediction struct {
	Date          string  `json:"date"`
	PredictedCost float64 `json:"predicted_cost"`
	Confidence    float64 `json:"confidence"`
}

// CostForecast is the next-week forecast.
type CostForecast struct {
	Predictions      []CostPrediction `json:"predictions"`
	AverageDailyCost float64          `json:"average_daily_cost"`
	TotalWeeklyCost  float64          `json:"total_weekly_cost"`
	GeneratedAt      time.Time        `json:"generated_at"`
}

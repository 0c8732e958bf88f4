// Package costs generates the AI cost dashboard datasets: spend series,
// headline arithmetic, optimization suggestions and a next-week forecast.
package costs

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/Durga-Talluri/cloudops-pro/pkg/generator"
	"github.com/Durga-Talluri/cloudops-pro/pkg/model"
	"github.com/Durga-Talluri/cloudops-pro/pkg/narrator"
)

// Supported analysis ranges.
const (
	Range7d  = "7d"
	Range30d = "30d"
	Range90d = "90d"
)

// DefaultOptimizationLimit caps Optimizations when no limit is given.
const DefaultOptimizationLimit = 10

const (
	dateLayout   = "2006-01-02"
	baseDaily    = 2800
	forecastDays = 7
)

// seriesShape describes how a random range is synthesized.
type seriesShape struct {
	days                 int
	costLo, costHi       int
	predictLo, predictHi int
}

var shapes = map[string]seriesShape{
	Range30d: {days: 30, costLo: -200, costHi: 400, predictLo: -50, predictHi: 100},
	Range90d: {days: 90, costLo: -300, costHi: 500, predictLo: -100, predictHi: 150},
}

// NormalizeRange maps unknown ranges to the fixed seven-day series.
func NormalizeRange(r string) string {
	if _, ok := shapes[r]; ok {
		return r
	}
	return Range7d
}

// DefaultRequest is the analysis served when no parameters are given.
func DefaultRequest() model.CostAnalysisRequest {
	return model.CostAnalysisRequest{
		TimeRange:            Range7d,
		IncludePredictions:   true,
		IncludeOptimizations: true,
	}
}

// Service serves cost data built from a fixed history and a random source.
type Service struct {
	history       []model.CostDataPoint
	optimizations []model.OptimizationSuggestion
	rng           generator.Source
	narrator      narrator.Narrator
	now           func() time.Time
	logger        *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithNarrator sets the insight narrator. Without one, insights are the
// unconfigured fallback text.
func WithNarrator(n narrator.Narrator) Option {
	return func(s *Service) { s.narrator = n }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a cost service over the given fixtures.
func NewService(history []model.CostDataPoint, optimizations []model.OptimizationSuggestion, rng generator.Source, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		history:       history,
		optimizations: optimizations,
		rng:           rng,
		narrator:      narrator.Unavailable{},
		now:           time.Now,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Series returns the daily points for a range. Random ranges end yesterday.
// includePredictions only applies to random ranges; the fixed week always
// carries its predictions.
func (s *Service) Series(timeRange string, includePredictions bool) []model.CostDataPoint {
	shape, ok := shapes[timeRange]
	if !ok {
		return copyPoints(s.history)
	}

	start := s.now().AddDate(0, 0, -shape.days)
	points := make([]model.CostDataPoint, 0, shape.days)
	for i := range shape.days {
		cost := float64(baseDaily + s.rng.IntBetween(shape.costLo, shape.costHi))
		p := model.CostDataPoint{
			Date: start.AddDate(0, 0, i).Format(dateLayout),
			Cost: cost,
		}
		if includePredictions {
			predicted := cost + float64(s.rng.IntBetween(shape.predictLo, shape.predictHi))
			p.Predicted = &predicted
		}
		points = append(points, p)
	}
	return points
}

// Analyze builds the full dashboard analysis, including narrated insights.
func (s *Service) Analyze(ctx context.Context, req model.CostAnalysisRequest) model.CostAnalysis {
	timeRange := NormalizeRange(req.TimeRange)
	points := s.Series(timeRange, req.IncludePredictions)

	optimizations := []model.OptimizationSuggestion{}
	if req.IncludeOptimizations {
		optimizations = slices.Clone(s.optimizations)
	}

	current, previous := lastTwo(points)
	insights := narrator.Insights(ctx, s.narrator, narrator.Input{
		CostData:      points,
		Optimizations: optimizations,
	})
	s.logger.Debug("cost analysis generated",
		"time_range", timeRange,
		"points", len(points),
		"optimizations", len(optimizations),
	)

	return model.CostAnalysis{
		CostData:                points,
		CurrentCost:             current,
		PreviousCost:            previous,
		ChangePercent:           changePercent(current, previous),
		TotalSavings:            totalSavings(optimizations),
		OptimizationSuggestions: optimizations,
		AIInsights:              insights,
		LastUpdated:             s.now(),
	}
}

// Summary computes the headline figures from the fixed history.
func (s *Service) Summary() model.CostSummary {
	current, previous := lastTwo(s.history)
	return model.CostSummary{
		CurrentCost:       current,
		PreviousCost:      previous,
		Change:            current - previous,
		ChangePercent:     changePercent(current, previous),
		TotalSavings:      totalSavings(s.optimizations),
		MonthlyProjection: current * 30,
	}
}

// Optimizations filters suggestions by category (case-insensitive) and exact
// impact, sorted by savings with the largest first.
func (s *Service) Optimizations(category, impact string, limit int) []model.OptimizationSuggestion {
	out := make([]model.OptimizationSuggestion, 0, len(s.optimizations))
	for _, o := range s.optimizations {
		if category != "" && !strings.EqualFold(o.Category, category) {
			continue
		}
		if impact != "" && o.Impact != impact {
			continue
		}
		out = append(out, o)
	}
	slices.SortStableFunc(out, func(a, b model.OptimizationSuggestion) int {
		return cmp.Compare(b.Savings, a.Savings)
	})
	return out[:min(max(limit, 0), len(out))]
}

// PredictNextWeek forecasts the seven days after today from the latest cost,
// with a 2% daily upward trend and ±5% noise.
func (s *Service) PredictNextWeek() model.CostForecast {
	now := s.now()
	current, _ := lastTwo(s.history)

	predictions := make([]model.CostPrediction, 0, forecastDays)
	var total float64
	for i := range forecastDays {
		trend := 1 + float64(i)*0.02
		cost := generator.Round(current*trend*s.rng.Uniform(0.95, 1.05), 2)
		total += cost
		predictions = append(predictions, model.CostPrediction{
			Date:          now.AddDate(0, 0, i+1).Format(dateLayout),
			PredictedCost: cost,
			Confidence:    generator.Round(s.rng.Uniform(0.75, 0.95), 2),
		})
	}

	return model.CostForecast{
		Predictions:      predictions,
		AverageDailyCost: generator.Round(total/forecastDays, 2),
		TotalWeeklyCost:  generator.Round(total, 2),
		GeneratedAt:      now,
	}
}

func copyPoints(src []model.CostDataPoint) []model.CostDataPoint {
	out := make([]model.CostDataPoint, len(src))
	for i, p := range src {
		out[i] = model.CostDataPoint{Date: p.Date, Cost: p.Cost}
		if p.Predicted != nil {
			v := *p.Predicted
			out[i].Predicted = &v
		}
	}
	return out
}

// lastTwo returns the latest cost and the one before it. With a single point
// both are the same.
func lastTwo(points []model.CostDataPoint) (current, previous float64) {
	n := len(points)
	if n == 0 {
		return 0, 0
	}
	current = points[n-1].Cost
	previous = current
	if n > 1 {
		previous = points[n-2].Cost
	}
	return current, previous
}

func changePercent(current, previous float64) float64 {
	if previous <= 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

func totalSavings(optimizations []model.OptimizationSuggestion) float64 {
	var sum float64
	for _, o := range optimizations {
		sum += o.Savings
	}
	return sum
}

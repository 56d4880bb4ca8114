package engine

import (
	"fmt"
	"math"
	"time"

	"business-analytics-server/internal/analytics/domain"
	orderrepo "business-analytics-server/internal/order/repository"
)

// ratio returns numerator/denominator × 100, and exactly 0 when the
// denominator is 0. Division-by-zero-shaped inputs are not errors anywhere
// in the engine.
func ratio(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator * 100
}

// growthRate compares the recent half of a most-recent-first series against
// the older half: (avg(recent) − avg(older)) / avg(older) × 100, 0 when the
// older average is 0 or the series has fewer than two points.
func growthRate(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mid := len(values) / 2
	recent := mean(values[:mid])
	older := mean(values[mid:])
	if older == 0 {
		return 0
	}
	return (recent - older) / older * 100
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Confidence schedules per forecast variant. Confidence decreases per point
// and never drops below the floor.
const (
	additiveConfidenceFloor = 0.3
	additiveConfidenceStep  = 0.1
	compoundConfidenceFloor = 0.5
	compoundConfidenceStep  = 0.05
)

func confidence(point int, floor, step float64) float64 {
	c := 1 - step*float64(point)
	if c < floor {
		return floor
	}
	return c
}

// forecastAdditive extrapolates months points ahead of base using additive
// growth: point i is base × (1 + rate/100 × i). Negative values clamp to 0.
func forecastAdditive(base, rate float64, months int) []domain.TrendPoint {
	points := make([]domain.TrendPoint, 0, months)
	for i := 1; i <= months; i++ {
		v := base * (1 + rate/100*float64(i))
		if v < 0 {
			v = 0
		}
		points = append(points, domain.TrendPoint{
			Label:      fmt.Sprintf("+%dmo", i),
			Value:      round2(v),
			Confidence: confidence(i, additiveConfidenceFloor, additiveConfidenceStep),
		})
	}
	return points
}

// forecastCompound extrapolates months points ahead of base using compound
// growth: point i is base × (1 + rate/100)^i. Negative values clamp to 0.
func forecastCompound(base, rate float64, months int) []domain.TrendPoint {
	points := make([]domain.TrendPoint, 0, months)
	for i := 1; i <= months; i++ {
		v := base * math.Pow(1+rate/100, float64(i))
		if v < 0 {
			v = 0
		}
		points = append(points, domain.TrendPoint{
			Label:      fmt.Sprintf("+%dmo", i),
			Value:      round2(v),
			Confidence: confidence(i, compoundConfidenceFloor, compoundConfidenceStep),
		})
	}
	return points
}

// recentAverage returns the average of the recent half of a
// most-recent-first series, the base value for forecasts.
func recentAverage(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mid := len(values) / 2
	if mid == 0 {
		mid = 1
	}
	return mean(values[:mid])
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func daysSince(t time.Time) int {
	d := time.Since(t)
	if d < 0 {
		return 0
	}
	return int(d.Hours() / 24)
}

// revenueSeries extracts the revenue values from monthly metrics, keeping
// the most-recent-first order.
func revenueSeries(months []orderrepo.MonthMetric) []float64 {
	out := make([]float64, len(months))
	for i, m := range months {
		out[i] = m.Revenue
	}
	return out
}

// monthTrend converts monthly metrics into revenue trend points.
func monthTrend(months []orderrepo.MonthMetric) []domain.TrendPoint {
	out := make([]domain.TrendPoint, len(months))
	for i, m := range months {
		out[i] = domain.TrendPoint{Label: m.Month, Value: m.Revenue}
	}
	return out
}

// orderCountTrend converts monthly metrics into order-count trend points.
func orderCountTrend(months []orderrepo.MonthMetric) []domain.TrendPoint {
	out := make([]domain.TrendPoint, len(months))
	for i, m := range months {
		out[i] = domain.TrendPoint{Label: m.Month, Value: float64(m.Orders)}
	}
	return out
}

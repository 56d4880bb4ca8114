package repository

import (
	"context"

	"business-analytics-server/internal/analytics/filter"
)

// RepSales is one sales representative with their aggregated order totals.
type RepSales struct {
	RepID            string
	Name             string
	Region           string
	PerformanceScore float64
	Orders           int
	Revenue          float64
}

// Repository defines reads over sales representatives.
type Repository interface {
	// Performance returns every rep with their non-cancelled order totals
	// over the filtered order set, revenue descending. Reps without orders
	// appear with zero totals.
	Performance(ctx context.Context, ps filter.PredicateSet) ([]RepSales, error)
}

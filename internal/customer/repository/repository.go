package repository

import (
	"context"

	"business-analytics-server/internal/analytics/domain"
	"business-analytics-server/internal/analytics/filter"
)

// Stats holds headline customer aggregates. Averages are 0 when no rows match.
type Stats struct {
	TotalCustomers  int
	ActiveCustomers int
	Prospects       int
	AvgCLV          float64
	TotalSpent      float64
}

// TierCount is the number of customers and their accumulated spend per tier.
type TierCount struct {
	Tier       string
	Customers  int
	TotalSpent float64
}

// MonthCount is the number of customers acquired in one calendar month.
type MonthCount struct {
	Month string
	Count int
}

// ChurnRow carries the per-customer fields needed for churn-risk bucketing.
// DaysSinceLastOrder is computed against the current date in the store.
type ChurnRow struct {
	CustomerID         string
	Name               string
	Tier               string
	TotalSpent         float64
	DaysSinceLastOrder int
}

// UpdatableFields maps the allow-listed update keys to their columns. Keys
// outside this map must be rejected before UpdateFields is called.
var UpdatableFields = map[string]string{
	"name":         "name",
	"email":        "email",
	"company":      "company",
	"industry":     "industry",
	"location":     "location",
	"customerTier": "customer_tier",
	"status":       "status",
}

// Repository defines persistence and aggregate reads for customers.
type Repository interface {
	// GetByID returns the customer for id, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	// Search matches term against name, email, and company, case-insensitively.
	Search(ctx context.Context, term string, limit int) ([]domain.Customer, error)
	// List returns customers constrained by the predicate set.
	List(ctx context.Context, ps filter.PredicateSet, limit int) ([]domain.Customer, error)
	// UpdateFields applies an allow-listed field map to one row. Returns
	// false when no row matched the id. Callers validate keys against
	// UpdatableFields first.
	UpdateFields(ctx context.Context, id string, fields map[string]any) (bool, error)
	// Stats returns headline aggregates over the filtered customer set.
	Stats(ctx context.Context, ps filter.PredicateSet) (*Stats, error)
	// TierDistribution groups the filtered customers by tier.
	TierDistribution(ctx context.Context, ps filter.PredicateSet) ([]TierCount, error)
	// NewByMonth counts acquisitions per calendar month, most recent first.
	NewByMonth(ctx context.Context, ps filter.PredicateSet, months int) ([]MonthCount, error)
	// ChurnData returns per-customer recency rows for churn bucketing,
	// excluding customers who have never ordered.
	ChurnData(ctx context.Context, ps filter.PredicateSet) ([]ChurnRow, error)
}

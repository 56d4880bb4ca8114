package repository

import (
	"context"

	"business-analytics-server/internal/analytics/domain"
)

// Repository defines persistence for sales opportunities.
type Repository interface {
	// Create persists the opportunity. The opportunity must have ID set;
	// it is not assigned by this method.
	Create(ctx context.Context, o *domain.Opportunity) error
}

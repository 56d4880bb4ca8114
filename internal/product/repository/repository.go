package repository

import (
	"context"

	"business-analytics-server/internal/analytics/domain"
	"business-analytics-server/internal/analytics/filter"
)

// Repository defines reads over products. Products are never written by this core.
type Repository interface {
	// GetByID returns the product for id, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	// List returns products constrained by the predicate set, ordered by name.
	List(ctx context.Context, ps filter.PredicateSet, limit int) ([]domain.Product, error)
}

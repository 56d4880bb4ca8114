package repository

import (
	"context"

	"business-analytics-server/internal/identity/domain"
)

// Repository defines persistence for API users.
type Repository interface {
	// GetByEmail returns the user for email, or nil if not found.
	GetByEmail(ctx context.Context, email string) (*domain.APIUser, error)
	// GetByID returns the user for id, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.APIUser, error)
	// Create persists the user. The user must have ID set.
	Create(ctx context.Context, u *domain.APIUser) error
}

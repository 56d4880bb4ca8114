package repository

import (
	"context"
	"database/sql"

	"business-analytics-server/internal/analytics/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an opportunity repository backed by the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the opportunity to the database.
func (r *PostgresRepository) Create(ctx context.Context, o *domain.Opportunity) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO opportunities (id, customer_id, product_id, quantity, estimated_value, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		o.ID, o.CustomerID, o.ProductID, o.Quantity, o.EstimatedValue, o.Status, o.CreatedAt)
	return err
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"business-analytics-server/internal/analytics/domain"
	"business-analytics-server/internal/analytics/filter"
)

var filterCols = map[string]string{
	filter.KeyProductCategory: "p.category",
	filter.KeyStatus:          "p.status",
}

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a product repository backed by the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const productColumns = `p.id, p.name, p.category, p.subcategory, p.price, p.cost, p.sku, p.brand, p.status`

// GetByID returns the product for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Category, &p.Subcategory, &p.Price, &p.Cost, &p.SKU, &p.Brand, &p.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// List returns products constrained by the predicate set, ordered by name.
func (r *PostgresRepository) List(ctx context.Context, ps filter.PredicateSet, limit int) ([]domain.Product, error) {
	clause, args := ps.Where(filterCols, "", 1)
	q := `SELECT ` + productColumns + ` FROM products p`
	if clause != "" {
		q += " WHERE " + clause
	}
	q += fmt.Sprintf(" ORDER BY p.name LIMIT $%d", len(args)+1)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Subcategory, &p.Price, &p.Cost, &p.SKU, &p.Brand, &p.Status); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

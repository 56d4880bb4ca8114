package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"business-analytics-server/internal/analytics/filter"
)

var filterCols = map[string]string{
	filter.KeyProductCategory: "p.category",
	filter.KeyStatus:          "p.status",
}

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an inventory repository backed by the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Levels returns inventory rows joined to products, optionally limited to
// one warehouse.
func (r *PostgresRepository) Levels(ctx context.Context, ps filter.PredicateSet, warehouse string) ([]Level, error) {
	clause, args := ps.Where(filterCols, "", 1)
	q := `SELECT i.product_id, p.name, p.category, i.warehouse, i.quantity, i.reorder_level, i.last_updated
	FROM inventory i
	JOIN products p ON p.id = i.product_id`
	if clause != "" {
		q += " WHERE " + clause
	}
	if warehouse != "" {
		if clause == "" {
			q += fmt.Sprintf(" WHERE i.warehouse = $%d", len(args)+1)
		} else {
			q += fmt.Sprintf(" AND i.warehouse = $%d", len(args)+1)
		}
		args = append(args, warehouse)
	}
	q += " ORDER BY p.name, i.warehouse"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Level
	for rows.Next() {
		var l Level
		if err := rows.Scan(&l.ProductID, &l.Name, &l.Category, &l.Warehouse, &l.Quantity, &l.ReorderLevel, &l.LastUpdated); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Turnover returns per-product stock and units sold over the trailing window
// of the given length, ending now. Cancelled orders do not count as sales.
func (r *PostgresRepository) Turnover(ctx context.Context, ps filter.PredicateSet, windowDays int) ([]TurnoverRow, error) {
	clause, args := ps.Where(filterCols, "", 1)
	cutoffArg := len(args) + 1
	q := `SELECT p.id, p.name, stock.total, COALESCE(sold.units, 0)
	FROM products p
	JOIN (
		SELECT product_id, SUM(quantity) AS total FROM inventory GROUP BY product_id
	) stock ON stock.product_id = p.id
	LEFT JOIN (
		SELECT oi.product_id, SUM(oi.quantity) AS units
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.order_date >= $` + fmt.Sprint(cutoffArg) + ` AND o.status <> 'cancelled'
		GROUP BY oi.product_id
	) sold ON sold.product_id = p.id`
	if clause != "" {
		q += " WHERE " + clause
	}
	q += " ORDER BY p.name"
	args = append(args, time.Now().UTC().AddDate(0, 0, -windowDays))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TurnoverRow
	for rows.Next() {
		var t TurnoverRow
		if err := rows.Scan(&t.ProductID, &t.Name, &t.Stock, &t.UnitsSold); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpdateQuantity sets the quantity for one product+warehouse row and stamps
// last_updated. Returns false when the row does not exist. Single-statement
// write: a batch of calls is not atomic across rows.
func (r *PostgresRepository) UpdateQuantity(ctx context.Context, productID, warehouse string, quantity int) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE inventory SET quantity = $1, last_updated = $2 WHERE product_id = $3 AND warehouse = $4`,
		quantity, time.Now().UTC(), productID, warehouse)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

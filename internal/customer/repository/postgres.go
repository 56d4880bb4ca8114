package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"business-analytics-server/internal/analytics/domain"
	"business-analytics-server/internal/analytics/filter"
)

// filterCols maps filter keys to the columns customer-rooted queries bind
// them to. region and productCategory have no customer column and are
// skipped here.
var filterCols = map[string]string{
	filter.KeyCustomerTier: "c.customer_tier",
	filter.KeyIndustry:     "c.industry",
	filter.KeyStatus:       "c.status",
}

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a customer repository backed by the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const customerColumns = `c.id, c.name, c.email, c.company, c.industry, c.location,
	c.customer_tier, c.acquisition_date, c.total_spent, c.last_order_date, c.status`

// GetByID returns the customer for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers c WHERE c.id = $1`, id)
	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// Search matches term against name, email, and company, case-insensitively.
func (r *PostgresRepository) Search(ctx context.Context, term string, limit int) ([]domain.Customer, error) {
	pattern := "%" + term + "%"
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+customerColumns+` FROM customers c
		 WHERE c.name ILIKE $1 OR c.email ILIKE $1 OR c.company ILIKE $1
		 ORDER BY c.name LIMIT $2`, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCustomers(rows)
}

// List returns customers constrained by the predicate set, ordered by name.
func (r *PostgresRepository) List(ctx context.Context, ps filter.PredicateSet, limit int) ([]domain.Customer, error) {
	clause, args := ps.Where(filterCols, "", 1)
	q := `SELECT ` + customerColumns + ` FROM customers c`
	if clause != "" {
		q += " WHERE " + clause
	}
	q += fmt.Sprintf(" ORDER BY c.name LIMIT $%d", len(args)+1)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCustomers(rows)
}

// UpdateFields applies an allow-listed field map to one row. Returns false
// when no row matched the id.
func (r *PostgresRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) (bool, error) {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		if _, ok := UpdatableFields[key]; !ok {
			return false, fmt.Errorf("%w: field %q is not updatable", domain.ErrValidation, key)
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return false, fmt.Errorf("%w: no updatable fields given", domain.ErrValidation)
	}
	sort.Strings(keys)

	sets := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys)+1)
	for i, key := range keys {
		sets = append(sets, fmt.Sprintf("%s = $%d", UpdatableFields[key], i+1))
		args = append(args, fields[key])
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE customers SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args)),
		args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Stats returns headline aggregates over the filtered customer set.
// Aggregates coalesce to 0 when no rows match.
func (r *PostgresRepository) Stats(ctx context.Context, ps filter.PredicateSet) (*Stats, error) {
	clause, args := ps.Where(filterCols, "", 1)
	q := `SELECT COUNT(*),
		COUNT(*) FILTER (WHERE c.status = 'active'),
		COUNT(*) FILTER (WHERE c.status = 'prospect'),
		COALESCE(AVG(c.total_spent), 0),
		COALESCE(SUM(c.total_spent), 0)
	FROM customers c`
	if clause != "" {
		q += " WHERE " + clause
	}

	var s Stats
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(
		&s.TotalCustomers, &s.ActiveCustomers, &s.Prospects, &s.AvgCLV, &s.TotalSpent,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

// TierDistribution groups the filtered customers by tier, largest spend first.
func (r *PostgresRepository) TierDistribution(ctx context.Context, ps filter.PredicateSet) ([]TierCount, error) {
	clause, args := ps.Where(filterCols, "", 1)
	q := `SELECT c.customer_tier, COUNT(*), COALESCE(SUM(c.total_spent), 0) FROM customers c`
	if clause != "" {
		q += " WHERE " + clause
	}
	q += " GROUP BY c.customer_tier ORDER BY 3 DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TierCount
	for rows.Next() {
		var tc TierCount
		if err := rows.Scan(&tc.Tier, &tc.Customers, &tc.TotalSpent); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// NewByMonth counts acquisitions per calendar month, most recent first,
// capped to the given window.
func (r *PostgresRepository) NewByMonth(ctx context.Context, ps filter.PredicateSet, months int) ([]MonthCount, error) {
	clause, args := ps.Where(filterCols, "c.acquisition_date", 1)
	q := `SELECT to_char(date_trunc('month', c.acquisition_date), 'YYYY-MM') AS month, COUNT(*)
	FROM customers c
	WHERE c.acquisition_date IS NOT NULL`
	if clause != "" {
		q += " AND " + clause
	}
	q += fmt.Sprintf(" GROUP BY 1 ORDER BY 1 DESC LIMIT $%d", len(args)+1)
	args = append(args, months)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MonthCount
	for rows.Next() {
		var mc MonthCount
		if err := rows.Scan(&mc.Month, &mc.Count); err != nil {
			return nil, err
		}
		out = append(out, mc)
	}
	return out, rows.Err()
}

// ChurnData returns per-customer recency rows for churn bucketing, excluding
// customers who have never ordered.
func (r *PostgresRepository) ChurnData(ctx context.Context, ps filter.PredicateSet) ([]ChurnRow, error) {
	clause, args := ps.Where(filterCols, "", 1)
	q := `SELECT c.id, c.name, c.customer_tier, c.total_spent,
		(CURRENT_DATE - c.last_order_date)::int
	FROM customers c
	WHERE c.last_order_date IS NOT NULL`
	if clause != "" {
		q += " AND " + clause
	}
	q += " ORDER BY 5 DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ChurnRow
	for rows.Next() {
		var cr ChurnRow
		if err := rows.Scan(&cr.CustomerID, &cr.Name, &cr.Tier, &cr.TotalSpent, &cr.DaysSinceLastOrder); err != nil {
			return nil, err
		}
		out = append(out, cr)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	var c domain.Customer
	var acquisition, lastOrder sql.NullTime
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Company, &c.Industry, &c.Location,
		&c.Tier, &acquisition, &c.TotalSpent, &lastOrder, &c.Status); err != nil {
		return nil, err
	}
	if acquisition.Valid {
		c.AcquisitionDate = acquisition.Time
	}
	if lastOrder.Valid {
		t := lastOrder.Time
		c.LastOrderDate = &t
	}
	return &c, nil
}

func scanCustomers(rows *sql.Rows) ([]domain.Customer, error) {
	var out []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"business-analytics-server/internal/analytics/domain"
	"business-analytics-server/internal/analytics/filter"
)

// Order-rooted queries join customers, so all customer filter keys apply.
// status binds to the order status here, not the customer's.
var filterCols = map[string]string{
	filter.KeyCustomerTier: "c.customer_tier",
	filter.KeyIndustry:     "c.industry",
	filter.KeyRegion:       "o.region",
	filter.KeyStatus:       "o.status",
}

// Item-level queries additionally honor the product category.
var itemFilterCols = map[string]string{
	filter.KeyCustomerTier:    "c.customer_tier",
	filter.KeyIndustry:        "c.industry",
	filter.KeyRegion:          "o.region",
	filter.KeyStatus:          "o.status",
	filter.KeyProductCategory: "p.category",
}

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an order repository backed by the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// where renders the predicate set after a fixed base condition.
func where(base string, ps filter.PredicateSet, cols map[string]string) (string, []any) {
	clause, args := ps.Where(cols, "o.order_date", 1)
	if clause == "" {
		if base == "" {
			return "", nil
		}
		return " WHERE " + base, nil
	}
	if base == "" {
		return " WHERE " + clause, args
	}
	return " WHERE " + base + " AND " + clause, args
}

// Stats returns headline aggregates over the filtered order set. Revenue and
// the average order value exclude cancelled orders; status counts do not.
func (r *PostgresRepository) Stats(ctx context.Context, ps filter.PredicateSet) (*Stats, error) {
	clause, args := where("", ps, filterCols)
	q := `SELECT COUNT(*),
		COALESCE(SUM(o.total_amount) FILTER (WHERE o.status <> 'cancelled'), 0),
		COALESCE(AVG(o.total_amount) FILTER (WHERE o.status <> 'cancelled'), 0),
		COUNT(*) FILTER (WHERE o.status = 'delivered'),
		COUNT(*) FILTER (WHERE o.status = 'cancelled'),
		COUNT(*) FILTER (WHERE o.status = 'pending')
	FROM orders o
	JOIN customers c ON c.id = o.customer_id` + clause

	var s Stats
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(
		&s.TotalOrders, &s.TotalRevenue, &s.AvgOrderValue, &s.Delivered, &s.Cancelled, &s.Pending,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

// MonthlyRevenue buckets non-cancelled revenue by calendar month, most
// recent first, capped to the given window.
func (r *PostgresRepository) MonthlyRevenue(ctx context.Context, ps filter.PredicateSet, months int) ([]MonthMetric, error) {
	clause, args := where("o.status <> 'cancelled'", ps, filterCols)
	q := `SELECT to_char(date_trunc('month', o.order_date), 'YYYY-MM') AS month,
		COALESCE(SUM(o.total_amount), 0), COUNT(*)
	FROM orders o
	JOIN customers c ON c.id = o.customer_id` + clause +
		fmt.Sprintf(" GROUP BY 1 ORDER BY 1 DESC LIMIT $%d", len(args)+1)
	args = append(args, months)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MonthMetric
	for rows.Next() {
		var m MonthMetric
		if err := rows.Scan(&m.Month, &m.Revenue, &m.Orders); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// TopProducts ranks products by item revenue, descending, truncated to n.
func (r *PostgresRepository) TopProducts(ctx context.Context, ps filter.PredicateSet, n int) ([]ProductSales, error) {
	clause, args := where("o.status <> 'cancelled'", ps, itemFilterCols)
	q := `SELECT p.id, p.name, p.category,
		COALESCE(SUM(oi.quantity), 0), COALESCE(SUM(oi.total_price), 0)
	FROM order_items oi
	JOIN orders o ON o.id = oi.order_id
	JOIN customers c ON c.id = o.customer_id
	JOIN products p ON p.id = oi.product_id` + clause +
		fmt.Sprintf(" GROUP BY p.id, p.name, p.category ORDER BY 5 DESC LIMIT $%d", len(args)+1)
	args = append(args, n)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProductSales
	for rows.Next() {
		var p ProductSales
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Category, &p.Units, &p.Revenue); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// TopCustomers ranks customers by order revenue, descending, truncated to n.
func (r *PostgresRepository) TopCustomers(ctx context.Context, ps filter.PredicateSet, n int) ([]CustomerSales, error) {
	clause, args := where("o.status <> 'cancelled'", ps, filterCols)
	q := `SELECT c.id, c.name, c.customer_tier, COUNT(*), COALESCE(SUM(o.total_amount), 0)
	FROM orders o
	JOIN customers c ON c.id = o.customer_id` + clause +
		fmt.Sprintf(" GROUP BY c.id, c.name, c.customer_tier ORDER BY 5 DESC LIMIT $%d", len(args)+1)
	args = append(args, n)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CustomerSales
	for rows.Next() {
		var cs CustomerSales
		if err := rows.Scan(&cs.CustomerID, &cs.Name, &cs.Tier, &cs.Orders, &cs.Revenue); err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

// ByRegion groups non-cancelled orders by region, revenue descending.
func (r *PostgresRepository) ByRegion(ctx context.Context, ps filter.PredicateSet) ([]RegionSales, error) {
	clause, args := where("o.status <> 'cancelled'", ps, filterCols)
	q := `SELECT o.region, COUNT(*), COALESCE(SUM(o.total_amount), 0)
	FROM orders o
	JOIN customers c ON c.id = o.customer_id` + clause +
		" GROUP BY o.region ORDER BY 3 DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RegionSales
	for rows.Next() {
		var rs RegionSales
		if err := rows.Scan(&rs.Region, &rs.Orders, &rs.Revenue); err != nil {
			return nil, err
		}
		out = append(out, rs)
	}
	return out, rows.Err()
}

// ByStatus counts orders per status, including cancelled.
func (r *PostgresRepository) ByStatus(ctx context.Context, ps filter.PredicateSet) ([]GroupCount, error) {
	return r.groupBy(ctx, ps, "o.status")
}

// ByPaymentMethod groups non-cancelled orders by payment method.
func (r *PostgresRepository) ByPaymentMethod(ctx context.Context, ps filter.PredicateSet) ([]GroupCount, error) {
	clause, args := where("o.status <> 'cancelled'", ps, filterCols)
	q := `SELECT o.payment_method, COUNT(*), COALESCE(SUM(o.total_amount), 0)
	FROM orders o
	JOIN customers c ON c.id = o.customer_id` + clause +
		" GROUP BY o.payment_method ORDER BY 2 DESC"
	return r.scanGroups(ctx, q, args)
}

func (r *PostgresRepository) groupBy(ctx context.Context, ps filter.PredicateSet, col string) ([]GroupCount, error) {
	clause, args := where("", ps, filterCols)
	q := `SELECT ` + col + `, COUNT(*), COALESCE(SUM(o.total_amount), 0)
	FROM orders o
	JOIN customers c ON c.id = o.customer_id` + clause +
		" GROUP BY " + col + " ORDER BY 2 DESC"
	return r.scanGroups(ctx, q, args)
}

func (r *PostgresRepository) scanGroups(ctx context.Context, q string, args []any) ([]GroupCount, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GroupCount
	for rows.Next() {
		var g GroupCount
		if err := rows.Scan(&g.Key, &g.Orders, &g.Revenue); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// SegmentStats groups non-cancelled revenue by customer industry.
func (r *PostgresRepository) SegmentStats(ctx context.Context, ps filter.PredicateSet) ([]SegmentSales, error) {
	clause, args := where("o.status <> 'cancelled'", ps, filterCols)
	q := `SELECT c.industry, COUNT(DISTINCT c.id), COUNT(*), COALESCE(SUM(o.total_amount), 0)
	FROM orders o
	JOIN customers c ON c.id = o.customer_id` + clause +
		" GROUP BY c.industry ORDER BY 4 DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SegmentSales
	for rows.Next() {
		var s SegmentSales
		if err := rows.Scan(&s.Industry, &s.Customers, &s.Orders, &s.Revenue); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ProductPerformance returns per-product revenue, units, and accumulated
// unit cost over the filtered item set, revenue descending.
func (r *PostgresRepository) ProductPerformance(ctx context.Context, ps filter.PredicateSet) ([]ProductPerf, error) {
	clause, args := where("o.status <> 'cancelled'", ps, itemFilterCols)
	q := `SELECT p.id, p.name, p.category,
		COALESCE(SUM(oi.quantity), 0), COALESCE(SUM(oi.total_price), 0),
		COALESCE(SUM(oi.quantity * p.cost), 0)
	FROM order_items oi
	JOIN orders o ON o.id = oi.order_id
	JOIN customers c ON c.id = o.customer_id
	JOIN products p ON p.id = oi.product_id` + clause +
		" GROUP BY p.id, p.name, p.category ORDER BY 5 DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProductPerf
	for rows.Next() {
		var p ProductPerf
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Category, &p.Units, &p.Revenue, &p.Cost); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Financials returns non-cancelled revenue, accumulated item cost, and
// order count over the filtered set.
func (r *PostgresRepository) Financials(ctx context.Context, ps filter.PredicateSet) (*Financials, error) {
	clause, args := where("o.status <> 'cancelled'", ps, itemFilterCols)
	q := `SELECT COALESCE(SUM(per_order.amount), 0), COALESCE(SUM(per_order.cost), 0), COUNT(*)
	FROM (
		SELECT o.id, o.total_amount AS amount,
			COALESCE(SUM(oi.quantity * p.cost), 0) AS cost
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		LEFT JOIN order_items oi ON oi.order_id = o.id
		LEFT JOIN products p ON p.id = oi.product_id` + clause + `
		GROUP BY o.id, o.total_amount
	) AS per_order`

	var f Financials
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&f.Revenue, &f.Cost, &f.Orders); err != nil {
		return nil, err
	}
	return &f, nil
}

const orderColumns = `o.id, o.customer_id, o.order_date, o.status, o.total_amount,
	o.payment_method, COALESCE(o.sales_rep_id, ''), o.region`

// RecentByCustomer returns a customer's latest orders, newest first.
func (r *PostgresRepository) RecentByCustomer(ctx context.Context, customerID string, limit int) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders o WHERE o.customer_id = $1
		 ORDER BY o.order_date DESC LIMIT $2`, customerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

// List returns orders constrained by the predicate set, newest first.
func (r *PostgresRepository) List(ctx context.Context, ps filter.PredicateSet, limit int) ([]domain.Order, error) {
	clause, args := where("", ps, filterCols)
	q := `SELECT ` + orderColumns + ` FROM orders o
	JOIN customers c ON c.id = o.customer_id` + clause +
		fmt.Sprintf(" ORDER BY o.order_date DESC LIMIT $%d", len(args)+1)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func scanOrders(rows *sql.Rows) ([]domain.Order, error) {
	var out []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.OrderDate, &o.Status, &o.TotalAmount,
			&o.PaymentMethod, &o.SalesRepID, &o.Region); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

package repository

import (
	"context"
	"database/sql"

	"business-analytics-server/internal/analytics/filter"
)

var filterCols = map[string]string{
	filter.KeyRegion: "o.region",
	filter.KeyStatus: "o.status",
}

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a sales-rep repository backed by the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Performance returns every rep with their non-cancelled order totals over
// the filtered order set, revenue descending.
func (r *PostgresRepository) Performance(ctx context.Context, ps filter.PredicateSet) ([]RepSales, error) {
	clause, args := ps.Where(filterCols, "o.order_date", 1)
	join := `LEFT JOIN orders o ON o.sales_rep_id = sr.id AND o.status <> 'cancelled'`
	if clause != "" {
		join += " AND " + clause
	}
	q := `SELECT sr.id, sr.name, sr.region, sr.performance_score,
		COUNT(o.id), COALESCE(SUM(o.total_amount), 0)
	FROM sales_reps sr ` + join + `
	GROUP BY sr.id, sr.name, sr.region, sr.performance_score
	ORDER BY 6 DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RepSales
	for rows.Next() {
		var rs RepSales
		if err := rows.Scan(&rs.RepID, &rs.Name, &rs.Region, &rs.PerformanceScore, &rs.Orders, &rs.Revenue); err != nil {
			return nil, err
		}
		out = append(out, rs)
	}
	return out, rows.Err()
}

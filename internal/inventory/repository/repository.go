package repository

import (
	"context"
	"time"

	"business-analytics-server/internal/analytics/filter"
)

// Level is one inventory row joined to its product.
type Level struct {
	ProductID    string
	Name         string
	Category     string
	Warehouse    string
	Quantity     int
	ReorderLevel int
	LastUpdated  time.Time
}

// TurnoverRow carries the inputs for turnover classification: total stock
// across warehouses and units sold inside the sales window.
type TurnoverRow struct {
	ProductID string
	Name      string
	Stock     int
	UnitsSold int
}

// Repository defines reads and single-row writes over inventory.
type Repository interface {
	// Levels returns inventory rows joined to products, optionally limited
	// to one warehouse. Ordered by product name then warehouse.
	Levels(ctx context.Context, ps filter.PredicateSet, warehouse string) ([]Level, error)
	// Turnover returns per-product stock and units sold over the trailing
	// window of the given length, ending now.
	Turnover(ctx context.Context, ps filter.PredicateSet, windowDays int) ([]TurnoverRow, error)
	// UpdateQuantity sets the quantity for one product+warehouse row and
	// stamps last_updated. Returns false when the row does not exist.
	UpdateQuantity(ctx context.Context, productID, warehouse string, quantity int) (bool, error)
}

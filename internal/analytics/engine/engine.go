// Package engine implements the catalog of analytic operations. Each
// operation issues aggregate reads constrained by a compiled PredicateSet,
// derives secondary metrics, and returns the five-field AnalyticsResult
// envelope. Operations are read-only except for the record-management
// handlers (customer update, inventory update, opportunity creation).
package engine

import (
	customerrepo "business-analytics-server/internal/customer/repository"
	inventoryrepo "business-analytics-server/internal/inventory/repository"
	opportunityrepo "business-analytics-server/internal/opportunity/repository"
	orderrepo "business-analytics-server/internal/order/repository"
	productrepo "business-analytics-server/internal/product/repository"
	salesreprepo "business-analytics-server/internal/salesrep/repository"
)

// Trend windows and ranking caps shared across operations.
const (
	trendWindowLong  = 12 // months, revenue and forecast trends
	trendWindowShort = 6  // months, order-count trends
	defaultTopN      = 10
	defaultForecast  = 6 // months ahead
	turnoverWindow   = 30
	recentOrdersCap  = 10
	exportRowCap     = 1000
	searchRowCap     = 50
)

// Deps holds the repositories an Engine reads from and writes to.
type Deps struct {
	Customers     customerrepo.Repository
	Orders        orderrepo.Repository
	Products      productrepo.Repository
	Inventory     inventoryrepo.Repository
	Reps          salesreprepo.Repository
	Opportunities opportunityrepo.Repository
}

// Engine runs analytic operations against the store. Construct one at
// startup and share it; it holds no per-call state.
type Engine struct {
	deps Deps
}

// New returns an Engine using the given repositories.
func New(deps Deps) *Engine {
	return &Engine{deps: deps}
}

package repository

import (
	"context"

	"business-analytics-server/internal/analytics/domain"
	"business-analytics-server/internal/analytics/filter"
)

// Stats holds headline order aggregates over the filtered order set.
// Revenue figures exclude cancelled orders; counts by status do not.
type Stats struct {
	TotalOrders   int
	TotalRevenue  float64
	AvgOrderValue float64
	Delivered     int
	Cancelled     int
	Pending       int
}

// MonthMetric is revenue and order count for one calendar month.
type MonthMetric struct {
	Month   string
	Revenue float64
	Orders  int
}

// ProductSales is aggregated sales for one product.
type ProductSales struct {
	ProductID string
	Name      string
	Category  string
	Units     int
	Revenue   float64
}

// ProductPerf extends ProductSales with the accumulated unit cost, for
// profit and margin derivation.
type ProductPerf struct {
	ProductSales
	Cost float64
}

// CustomerSales is aggregated sales for one customer.
type CustomerSales struct {
	CustomerID string
	Name       string
	Tier       string
	Orders     int
	Revenue    float64
}

// RegionSales is aggregated sales for one region.
type RegionSales struct {
	Region  string
	Orders  int
	Revenue float64
}

// GroupCount is orders and revenue for one grouping value (status, payment method).
type GroupCount struct {
	Key     string
	Orders  int
	Revenue float64
}

// SegmentSales is aggregated sales for one customer industry segment.
type SegmentSales struct {
	Industry  string
	Customers int
	Orders    int
	Revenue   float64
}

// Financials holds the inputs for profit and margin derivation. Cost is the
// sum of item quantity × product unit cost over the filtered set.
type Financials struct {
	Revenue float64
	Cost    float64
	Orders  int
}

// Repository defines aggregate reads over orders and their items.
type Repository interface {
	// Stats returns headline aggregates over the filtered order set.
	Stats(ctx context.Context, ps filter.PredicateSet) (*Stats, error)
	// MonthlyRevenue buckets non-cancelled revenue by calendar month, most
	// recent first, capped to the given window.
	MonthlyRevenue(ctx context.Context, ps filter.PredicateSet, months int) ([]MonthMetric, error)
	// TopProducts ranks products by revenue, descending, truncated to n.
	TopProducts(ctx context.Context, ps filter.PredicateSet, n int) ([]ProductSales, error)
	// TopCustomers ranks customers by revenue, descending, truncated to n.
	TopCustomers(ctx context.Context, ps filter.PredicateSet, n int) ([]CustomerSales, error)
	// ByRegion groups non-cancelled orders by region, revenue descending.
	ByRegion(ctx context.Context, ps filter.PredicateSet) ([]RegionSales, error)
	// ByStatus counts orders per status, including cancelled.
	ByStatus(ctx context.Context, ps filter.PredicateSet) ([]GroupCount, error)
	// ByPaymentMethod groups non-cancelled orders by payment method.
	ByPaymentMethod(ctx context.Context, ps filter.PredicateSet) ([]GroupCount, error)
	// SegmentStats groups revenue by customer industry.
	SegmentStats(ctx context.Context, ps filter.PredicateSet) ([]SegmentSales, error)
	// ProductPerformance returns per-product revenue, units, and cost.
	ProductPerformance(ctx context.Context, ps filter.PredicateSet) ([]ProductPerf, error)
	// Financials returns revenue, accumulated cost, and order count.
	Financials(ctx context.Context, ps filter.PredicateSet) (*Financials, error)
	// RecentByCustomer returns a customer's latest orders, newest first.
	RecentByCustomer(ctx context.Context, customerID string, limit int) ([]domain.Order, error)
	// List returns orders constrained by the predicate set, newest first.
	List(ctx context.Context, ps filter.PredicateSet, limit int) ([]domain.Order, error)
}

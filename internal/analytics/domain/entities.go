// Package domain holds the business entities, the AnalyticsResult envelope,
// and the fixed-threshold classification buckets shared by every analytic
// operation.
package domain

import "time"

// CustomerTier enumerates customer tiers.
type CustomerTier string

const (
	TierBronze   CustomerTier = "bronze"
	TierSilver   CustomerTier = "silver"
	TierGold     CustomerTier = "gold"
	TierPlatinum CustomerTier = "platinum"
)

// CustomerStatus enumerates customer lifecycle states.
type CustomerStatus string

const (
	CustomerActive   CustomerStatus = "active"
	CustomerInactive CustomerStatus = "inactive"
	CustomerProspect CustomerStatus = "prospect"
)

// Customer is a customer row as read from the store.
type Customer struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Email           string         `json:"email"`
	Company         string         `json:"company"`
	Industry        string         `json:"industry"`
	Location        string         `json:"location"`
	Tier            CustomerTier   `json:"customerTier"`
	AcquisitionDate time.Time      `json:"acquisitionDate"`
	TotalSpent      float64        `json:"totalSpent"`
	LastOrderDate   *time.Time     `json:"lastOrderDate,omitempty"`
	Status          CustomerStatus `json:"status"`
}

// ProductStatus enumerates product lifecycle states.
type ProductStatus string

const (
	ProductActive       ProductStatus = "active"
	ProductDiscontinued ProductStatus = "discontinued"
	ProductOutOfStock   ProductStatus = "out_of_stock"
)

// Product is a product row. Read-only from this core's perspective.
type Product struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Category    string        `json:"category"`
	Subcategory string        `json:"subcategory"`
	Price       float64       `json:"price"`
	Cost        float64       `json:"cost"`
	SKU         string        `json:"sku"`
	Brand       string        `json:"brand"`
	Status      ProductStatus `json:"status"`
}

// OrderStatus enumerates order lifecycle states.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// Order is an order row, created by an external capture path and read by every analytic.
type Order struct {
	ID            string      `json:"id"`
	CustomerID    string      `json:"customerId"`
	OrderDate     time.Time   `json:"orderDate"`
	Status        OrderStatus `json:"status"`
	TotalAmount   float64     `json:"totalAmount"`
	PaymentMethod string      `json:"paymentMethod"`
	SalesRepID    string      `json:"salesRepId,omitempty"`
	Region        string      `json:"region"`
}

// OrderItem is a line item. TotalPrice = Quantity × UnitPrice is an upstream
// invariant; the core never recomputes it.
type OrderItem struct {
	ID         string  `json:"id"`
	OrderID    string  `json:"orderId"`
	ProductID  string  `json:"productId"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	TotalPrice float64 `json:"totalPrice"`
}

// InventoryRecord is one row per product+warehouse.
type InventoryRecord struct {
	ProductID    string    `json:"productId"`
	Warehouse    string    `json:"warehouse"`
	Quantity     int       `json:"quantity"`
	ReorderLevel int       `json:"reorderLevel"`
	LastUpdated  time.Time `json:"lastUpdated"`
}

// SalesRep is a sales representative row. Read-only.
type SalesRep struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Region           string  `json:"region"`
	PerformanceScore float64 `json:"performanceScore"`
}

// Opportunity is a sales opportunity created through create_sales_opportunity.
type Opportunity struct {
	ID             string    `json:"id"`
	CustomerID     string    `json:"customerId"`
	ProductID      string    `json:"productId"`
	Quantity       int       `json:"quantity"`
	EstimatedValue float64   `json:"estimatedValue"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

package domain

// Fixed-threshold categorical buckets. Thresholds are evaluated top to
// bottom, first match wins. Every component that reports one of these
// buckets must call these functions; no local copies.

// Stock status labels.
const (
	StockLow    = "Low Stock"
	StockMedium = "Medium Stock"
	StockHigh   = "High Stock"
)

// StockStatus buckets an inventory record: at or below the reorder level is
// low, at or below twice the reorder level is medium, above that is high.
func StockStatus(quantity, reorderLevel int) string {
	switch {
	case quantity <= reorderLevel:
		return StockLow
	case quantity <= 2*reorderLevel:
		return StockMedium
	default:
		return StockHigh
	}
}

// Churn risk labels. ChurnActive is not a risk bucket; customers in it are
// excluded from risk reports.
const (
	ChurnHigh   = "High Risk"
	ChurnMedium = "Medium Risk"
	ChurnLow    = "Low Risk"
	ChurnActive = "Active"
)

// ChurnRisk buckets a customer by days since their last order.
func ChurnRisk(daysSinceLastOrder int) string {
	switch {
	case daysSinceLastOrder > 90:
		return ChurnHigh
	case daysSinceLastOrder > 60:
		return ChurnMedium
	case daysSinceLastOrder > 30:
		return ChurnLow
	default:
		return ChurnActive
	}
}

// Turnover class labels.
const (
	TurnoverNoSales = "No Sales"
	TurnoverFast    = "Fast Moving"
	TurnoverNormal  = "Normal"
	TurnoverSlow    = "Slow Moving"
)

// TurnoverClass buckets a product by days-of-inventory over the sales
// window: currentStock / (unitsSold / windowDays). A product with no sales
// in the window is "No Sales" rather than a division by zero.
func TurnoverClass(currentStock, unitsSold, windowDays int) string {
	if unitsSold <= 0 {
		return TurnoverNoSales
	}
	daysOfInventory := float64(currentStock) / (float64(unitsSold) / float64(windowDays))
	switch {
	case daysOfInventory < 30:
		return TurnoverFast
	case daysOfInventory <= 90:
		return TurnoverNormal
	default:
		return TurnoverSlow
	}
}

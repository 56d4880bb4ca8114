package engine

import (
	"context"
	"fmt"

	"business-analytics-server/internal/analytics/domain"
	"business-analytics-server/internal/analytics/filter"
	inventoryrepo "business-analytics-server/internal/inventory/repository"
)

// levelRow is an inventory level with its stock bucket applied.
type levelRow struct {
	ProductID    string `json:"productId"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Warehouse    string `json:"warehouse"`
	Quantity     int    `json:"quantity"`
	ReorderLevel int    `json:"reorderLevel"`
	StockStatus  string `json:"stockStatus"`
}

// InventoryInsights implements get_inventory_insights: stock buckets across
// all warehouses plus turnover classes over the 30-day sales window.
func (e *Engine) InventoryInsights(ctx context.Context, ps filter.PredicateSet) (*domain.AnalyticsResult, error) {
	levels, err := e.deps.Inventory.Levels(ctx, ps, "")
	if err != nil {
		return nil, err
	}
	turnover, err := e.deps.Inventory.Turnover(ctx, ps, turnoverWindow)
	if err != nil {
		return nil, err
	}

	rows, buckets, lowStock := bucketLevels(levels)

	type turnoverClass struct {
		ProductID string `json:"productId"`
		Name      string `json:"name"`
		Stock     int    `json:"stock"`
		UnitsSold int    `json:"unitsSold"`
		Class     string `json:"class"`
	}
	classes := make([]turnoverClass, len(turnover))
	classCounts := map[string]int{}
	for i, t := range turnover {
		class := domain.TurnoverClass(t.Stock, t.UnitsSold, turnoverWindow)
		classes[i] = turnoverClass{
			ProductID: t.ProductID,
			Name:      t.Name,
			Stock:     t.Stock,
			UnitsSold: t.UnitsSold,
			Class:     class,
		}
		classCounts[class]++
	}

	res := domain.NewResult()
	res.Data = map[string]any{
		"levels":        rows,
		"stockBuckets":  buckets,
		"lowStockItems": lowStock,
		"turnover":      classes,
	}
	res.Metrics["inventoryRows"] = float64(len(rows))
	res.Metrics["lowStockItems"] = float64(len(lowStock))
	res.Metrics["fastMoving"] = float64(classCounts[domain.TurnoverFast])
	res.Metrics["slowMoving"] = float64(classCounts[domain.TurnoverSlow])
	res.Metrics["noSales"] = float64(classCounts[domain.TurnoverNoSales])

	if len(lowStock) > 0 {
		res.Insights = append(res.Insights,
			fmt.Sprintf("%d inventory rows are at or below reorder level", len(lowStock)))
		res.Recommendations = append(res.Recommendations,
			"Reorder low-stock items before they stock out")
	} else {
		res.Insights = append(res.Insights, "No inventory rows are below reorder level")
	}
	if classCounts[domain.TurnoverSlow]+classCounts[domain.TurnoverNoSales] > 0 {
		res.Insights = append(res.Insights,
			fmt.Sprintf("%d products are slow moving or without sales in the last %d days",
				classCounts[domain.TurnoverSlow]+classCounts[domain.TurnoverNoSales], turnoverWindow))
		res.Recommendations = append(res.Recommendations,
			"Consider promotions or markdowns for slow-moving stock")
	}
	return res, nil
}

// CheckInventoryLevels implements check_inventory_levels, optionally scoped
// to one warehouse.
func (e *Engine) CheckInventoryLevels(ctx context.Context, ps filter.PredicateSet, warehouse string) (*domain.AnalyticsResult, error) {
	levels, err := e.deps.Inventory.Levels(ctx, ps, warehouse)
	if err != nil {
		return nil, err
	}

	rows, buckets, lowStock := bucketLevels(levels)

	res := domain.NewResult()
	res.Data = map[string]any{
		"levels":        rows,
		"stockBuckets":  buckets,
		"lowStockItems": lowStock,
	}
	res.Metrics["inventoryRows"] = float64(len(rows))
	res.Metrics["lowStockItems"] = float64(len(lowStock))

	scope := "all warehouses"
	if warehouse != "" {
		scope = fmt.Sprintf("warehouse %s", warehouse)
	}
	res.Insights = append(res.Insights,
		fmt.Sprintf("%d inventory rows in %s, %d at or below reorder level",
			len(rows), scope, len(lowStock)))
	if len(lowStock) > 0 {
		res.Recommendations = append(res.Recommendations,
			"Reorder low-stock items before they stock out")
	}
	return res, nil
}

func bucketLevels(levels []inventoryrepo.Level) ([]levelRow, map[string]int, []levelRow) {
	rows := make([]levelRow, len(levels))
	buckets := map[string]int{}
	var lowStock []levelRow
	for i, l := range levels {
		status := domain.StockStatus(l.Quantity, l.ReorderLevel)
		rows[i] = levelRow{
			ProductID:    l.ProductID,
			Name:         l.Name,
			Category:     l.Category,
			Warehouse:    l.Warehouse,
			Quantity:     l.Quantity,
			ReorderLevel: l.ReorderLevel,
			StockStatus:  status,
		}
		buckets[status]++
		if status == domain.StockLow {
			lowStock = append(lowStock, rows[i])
		}
	}
	return rows, buckets, lowStock
}

// InventoryUpdate is one row of an update_inventory request.
type InventoryUpdate struct {
	ProductID string `json:"productId"`
	Warehouse string `json:"warehouse"`
	Quantity  int    `json:"quantity"`
}

// UpdateInventory implements update_inventory. Each row is written with its
// own statement; a missing row fails the call naming that row. Rows already
// written stay written, there is no cross-row atomicity.
func (e *Engine) UpdateInventory(ctx context.Context, updates []InventoryUpdate) (*domain.AnalyticsResult, error) {
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: updates must not be empty", domain.ErrValidation)
	}
	for i, u := range updates {
		if u.ProductID == "" || u.Warehouse == "" {
			return nil, fmt.Errorf("%w: update %d needs productId and warehouse", domain.ErrValidation, i)
		}
		if u.Quantity < 0 {
			return nil, fmt.Errorf("%w: update %d has negative quantity", domain.ErrValidation, i)
		}
	}

	applied := 0
	for _, u := range updates {
		ok, err := e.deps.Inventory.UpdateQuantity(ctx, u.ProductID, u.Warehouse, u.Quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: inventory row %s/%s (applied %d of %d updates)",
				domain.ErrNotFound, u.ProductID, u.Warehouse, applied, len(updates))
		}
		applied++
	}

	res := domain.NewResult()
	res.Data = map[string]any{
		"updated": updates,
	}
	res.Metrics["rowsUpdated"] = float64(applied)
	res.Insights = append(res.Insights,
		fmt.Sprintf("Updated %d inventory rows", applied))
	return res, nil
}

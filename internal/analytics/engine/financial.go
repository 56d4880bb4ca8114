package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"business-analytics-server/internal/analytics/domain"
	"business-analytics-server/internal/analytics/filter"
	"business-analytics-server/internal/export"
	inventoryrepo "business-analytics-server/internal/inventory/repository"
)

// FinancialSummary implements get_financial_summary: revenue, cost, profit,
// and margin with the 12-month revenue trend.
func (e *Engine) FinancialSummary(ctx context.Context, ps filter.PredicateSet) (*domain.AnalyticsResult, error) {
	fin, err := e.deps.Orders.Financials(ctx, ps)
	if err != nil {
		return nil, err
	}
	months, err := e.deps.Orders.MonthlyRevenue(ctx, ps, trendWindowLong)
	if err != nil {
		return nil, err
	}

	profit := fin.Revenue - fin.Cost
	margin := ratio(profit, fin.Revenue)

	res := domain.NewResult()
	res.Data = map[string]any{
		"revenue": round2(fin.Revenue),
		"cost":    round2(fin.Cost),
		"profit":  round2(profit),
		"orders":  fin.Orders,
	}
	res.Metrics["revenue"] = round2(fin.Revenue)
	res.Metrics["cost"] = round2(fin.Cost)
	res.Metrics["profit"] = round2(profit)
	res.Metrics["profitMargin"] = round2(margin)
	res.Trends["revenue"] = monthTrend(months)

	res.Insights = append(res.Insights,
		fmt.Sprintf("$%.2f revenue against $%.2f cost leaves $%.2f profit (%.1f%% margin)",
			fin.Revenue, fin.Cost, profit, margin))
	if margin < 20 && fin.Revenue > 0 {
		res.Recommendations = append(res.Recommendations,
			"Review pricing and supplier costs: margin is under 20%")
	} else {
		res.Recommendations = append(res.Recommendations,
			"Reinvest a portion of profit into top-performing categories")
	}
	return res, nil
}

// ProductPerformance implements get_product_performance: per-product
// revenue, units, profit, and margin with top and bottom performers called out.
func (e *Engine) ProductPerformance(ctx context.Context, ps filter.PredicateSet) (*domain.AnalyticsResult, error) {
	perf, err := e.deps.Orders.ProductPerformance(ctx, ps)
	if err != nil {
		return nil, err
	}

	type perfRow struct {
		ProductID string  `json:"productId"`
		Name      string  `json:"name"`
		Category  string  `json:"category"`
		Units     int     `json:"unitsSold"`
		Revenue   float64 `json:"revenue"`
		Profit    float64 `json:"profit"`
		Margin    float64 `json:"margin"`
	}
	rows := make([]perfRow, len(perf))
	for i, p := range perf {
		profit := p.Revenue - p.Cost
		rows[i] = perfRow{
			ProductID: p.ProductID,
			Name:      p.Name,
			Category:  p.Category,
			Units:     p.Units,
			Revenue:   p.Revenue,
			Profit:    round2(profit),
			Margin:    round2(ratio(profit, p.Revenue)),
		}
	}

	res := domain.NewResult()
	res.Data = rows
	res.Metrics["productsAnalyzed"] = float64(len(rows))

	if len(rows) > 0 {
		top := rows[0]
		bottom := rows[len(rows)-1]
		res.Metrics["topProductRevenue"] = top.Revenue
		res.Insights = append(res.Insights,
			fmt.Sprintf("%s is the top performer with $%.2f revenue at %.1f%% margin",
				top.Name, top.Revenue, top.Margin),
			fmt.Sprintf("%s is the weakest performer with $%.2f revenue",
				bottom.Name, bottom.Revenue))
		res.Recommendations = append(res.Recommendations,
			fmt.Sprintf("Feature %s in upcoming campaigns", top.Name))
		if bottom.Revenue == 0 {
			res.Recommendations = append(res.Recommendations,
				fmt.Sprintf("Evaluate discontinuing %s", bottom.Name))
		}
	} else {
		res.Insights = append(res.Insights, "No product sales match the current filters")
	}
	return res, nil
}

// CreateSalesOpportunity implements create_sales_opportunity. Both referenced
// ids are checked before the insert so a bad reference never writes a row.
func (e *Engine) CreateSalesOpportunity(ctx context.Context, customerID, productID string, quantity int, estimatedValue float64) (*domain.AnalyticsResult, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrValidation)
	}
	if estimatedValue < 0 {
		return nil, fmt.Errorf("%w: estimatedValue must not be negative", domain.ErrValidation)
	}

	customer, err := e.deps.Customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: customer %q", domain.ErrNotFound, customerID)
	}
	product, err := e.deps.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: product %q", domain.ErrNotFound, productID)
	}

	opp := &domain.Opportunity{
		ID:             uuid.NewString(),
		CustomerID:     customerID,
		ProductID:      productID,
		Quantity:       quantity,
		EstimatedValue: estimatedValue,
		Status:         "open",
		CreatedAt:      time.Now().UTC(),
	}
	if err := e.deps.Opportunities.Create(ctx, opp); err != nil {
		return nil, err
	}

	res := domain.NewResult()
	res.Data = opp
	res.Metrics["estimatedValue"] = estimatedValue
	res.Insights = append(res.Insights,
		fmt.Sprintf("Opportunity %s created for %s: %d × %s at $%.2f estimated",
			opp.ID, customer.Name, quantity, product.Name, estimatedValue))
	res.Recommendations = append(res.Recommendations,
		"Assign a sales rep to follow up within 48 hours")
	return res, nil
}

// Export data types accepted by ExportData.
const (
	ExportCustomers = "customers"
	ExportProducts  = "products"
	ExportOrders    = "orders"
	ExportInventory = "inventory"
)

// exportTable adapts a fetched dataset to the export formatter.
type exportTable struct {
	ds export.Dataset
}

func (t exportTable) Dataset() export.Dataset { return t.ds }

func (t exportTable) MarshalJSON() ([]byte, error) {
	type row map[string]string
	rows := make([]row, len(t.ds.Rows))
	for i, r := range t.ds.Rows {
		m := row{}
		for j, col := range t.ds.Columns {
			if j < len(r) {
				m[col] = r[j]
			}
		}
		rows[i] = m
	}
	return json.Marshal(rows)
}

// ExportData implements export_data: fetch up to exportRowCap rows of the
// requested dataset and render them in the requested format.
func (e *Engine) ExportData(ctx context.Context, ps filter.PredicateSet, dataType string, format export.Format) (*domain.AnalyticsResult, error) {
	var ds export.Dataset
	switch dataType {
	case ExportCustomers:
		customers, err := e.deps.Customers.List(ctx, ps, exportRowCap)
		if err != nil {
			return nil, err
		}
		ds = customerDataset(customers)
	case ExportProducts:
		products, err := e.deps.Products.List(ctx, ps, exportRowCap)
		if err != nil {
			return nil, err
		}
		ds = productDataset(products)
	case ExportOrders:
		orders, err := e.deps.Orders.List(ctx, ps, exportRowCap)
		if err != nil {
			return nil, err
		}
		ds = orderDataset(orders)
	case ExportInventory:
		levels, err := e.deps.Inventory.Levels(ctx, ps, "")
		if err != nil {
			return nil, err
		}
		ds = inventoryDataset(levels)
	default:
		return nil, fmt.Errorf("%w: unknown dataType %q", domain.ErrValidation, dataType)
	}

	rendered, err := export.Render(exportTable{ds: ds}, format)
	if err != nil {
		return nil, err
	}

	res := domain.NewResult()
	res.Data = rendered
	res.Metrics["rowsExported"] = float64(len(ds.Rows))
	res.Insights = append(res.Insights,
		fmt.Sprintf("Exported %d %s rows", len(ds.Rows), dataType))
	return res, nil
}

func customerDataset(customers []domain.Customer) export.Dataset {
	rows := make([][]string, len(customers))
	for i, c := range customers {
		lastOrder := ""
		if c.LastOrderDate != nil {
			lastOrder = c.LastOrderDate.Format("2006-01-02")
		}
		rows[i] = []string{
			c.ID, c.Name, c.Email, c.Company, c.Industry, c.Location,
			string(c.Tier), string(c.Status),
			strconv.FormatFloat(c.TotalSpent, 'f', 2, 64), lastOrder,
		}
	}
	return export.Dataset{
		Name: "customers",
		Columns: []string{"id", "name", "email", "company", "industry",
			"location", "customerTier", "status", "totalSpent", "lastOrderDate"},
		Rows: rows,
	}
}

func productDataset(products []domain.Product) export.Dataset {
	rows := make([][]string, len(products))
	for i, p := range products {
		rows[i] = []string{
			p.ID, p.Name, p.Category, p.Subcategory, p.SKU, p.Brand,
			strconv.FormatFloat(p.Price, 'f', 2, 64),
			strconv.FormatFloat(p.Cost, 'f', 2, 64),
			string(p.Status),
		}
	}
	return export.Dataset{
		Name: "products",
		Columns: []string{"id", "name", "category", "subcategory", "sku",
			"brand", "price", "cost", "status"},
		Rows: rows,
	}
}

func orderDataset(orders []domain.Order) export.Dataset {
	rows := make([][]string, len(orders))
	for i, o := range orders {
		rows[i] = []string{
			o.ID, o.CustomerID, o.OrderDate.Format("2006-01-02"),
			string(o.Status),
			strconv.FormatFloat(o.TotalAmount, 'f', 2, 64),
			o.PaymentMethod, o.Region,
		}
	}
	return export.Dataset{
		Name: "orders",
		Columns: []string{"id", "customerId", "orderDate", "status",
			"totalAmount", "paymentMethod", "region"},
		Rows: rows,
	}
}

func inventoryDataset(levels []inventoryrepo.Level) export.Dataset {
	rows := make([][]string, len(levels))
	for i, l := range levels {
		rows[i] = []string{
			l.ProductID, l.Name, l.Category, l.Warehouse,
			strconv.Itoa(l.Quantity), strconv.Itoa(l.ReorderLevel),
			domain.StockStatus(l.Quantity, l.ReorderLevel),
		}
	}
	return export.Dataset{
		Name: "inventory",
		Columns: []string{"productId", "name", "category", "warehouse",
			"quantity", "reorderLevel", "stockStatus"},
		Rows: rows,
	}
}

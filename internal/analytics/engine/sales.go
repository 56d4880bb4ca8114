package engine

import (
	"context"
	"fmt"

	"business-analytics-server/internal/analytics/domain"
	"business-analytics-server/internal/analytics/filter"
)

// SalesPerformance implements get_sales_performance: order totals, the
// 12-month revenue trend with growth, and per-rep revenue.
func (e *Engine) SalesPerformance(ctx context.Context, ps filter.PredicateSet) (*domain.AnalyticsResult, error) {
	stats, err := e.deps.Orders.Stats(ctx, ps)
	if err != nil {
		return nil, err
	}
	months, err := e.deps.Orders.MonthlyRevenue(ctx, ps, trendWindowLong)
	if err != nil {
		return nil, err
	}
	reps, err := e.deps.Reps.Performance(ctx, ps)
	if err != nil {
		return nil, err
	}

	growth := growthRate(revenueSeries(months))

	res := domain.NewResult()
	res.Data = map[string]any{
		"totals":         stats,
		"repPerformance": reps,
	}
	res.Metrics["totalOrders"] = float64(stats.TotalOrders)
	res.Metrics["totalRevenue"] = round2(stats.TotalRevenue)
	res.Metrics["avgOrderValue"] = round2(stats.AvgOrderValue)
	res.Metrics["fulfillmentRate"] = round2(ratio(float64(stats.Delivered), float64(stats.TotalOrders)))
	res.Metrics["cancellationRate"] = round2(ratio(float64(stats.Cancelled), float64(stats.TotalOrders)))
	res.Metrics["revenueGrowth"] = round2(growth)
	res.Trends["revenue"] = monthTrend(months)

	res.Insights = append(res.Insights,
		fmt.Sprintf("$%.2f revenue across %d orders (AOV $%.2f)",
			stats.TotalRevenue, stats.TotalOrders, stats.AvgOrderValue),
		fmt.Sprintf("Revenue growth is %+.1f%% comparing recent months to prior", growth),
	)
	if len(reps) > 0 {
		res.Insights = append(res.Insights,
			fmt.Sprintf("%s leads rep revenue with $%.2f", reps[0].Name, reps[0].Revenue))
	}

	res.Recommendations = append(res.Recommendations,
		"Share top-rep playbooks across the sales team",
	)
	if growth < 0 {
		res.Recommendations = append(res.Recommendations,
			"Investigate the revenue decline in recent months")
	} else {
		res.Recommendations = append(res.Recommendations,
			"Increase inventory for high-demand products ahead of continued growth")
	}
	if stats.Cancelled > 0 && ratio(float64(stats.Cancelled), float64(stats.TotalOrders)) > 10 {
		res.Recommendations = append(res.Recommendations,
			"Review order cancellation causes: rate exceeds 10%")
	}
	return res, nil
}

// PredictSalesTrends implements predict_sales_trends: 12-month revenue
// history plus an additive forecast of the requested length.
func (e *Engine) PredictSalesTrends(ctx context.Context, ps filter.PredicateSet, months int) (*domain.AnalyticsResult, error) {
	if months <= 0 {
		months = defaultForecast
	}
	history, err := e.deps.Orders.MonthlyRevenue(ctx, ps, trendWindowLong)
	if err != nil {
		return nil, err
	}

	series := revenueSeries(history)
	rate := growthRate(series)
	base := recentAverage(series)
	forecast := forecastAdditive(base, rate, months)

	res := domain.NewResult()
	res.Data = map[string]any{
		"history":  history,
		"forecast": forecast,
	}
	res.Metrics["growthRate"] = round2(rate)
	res.Metrics["forecastBase"] = round2(base)
	res.Metrics["forecastMonths"] = float64(months)
	res.Trends["revenue"] = monthTrend(history)
	res.Trends["forecast"] = forecast

	res.Insights = append(res.Insights,
		fmt.Sprintf("Projected %d months ahead from a $%.2f monthly base at %+.1f%% growth",
			months, base, rate))
	if len(forecast) > 0 {
		res.Insights = append(res.Insights,
			fmt.Sprintf("Month %d projection: $%.2f (confidence %.0f%%)",
				months, forecast[len(forecast)-1].Value, forecast[len(forecast)-1].Confidence*100))
	}

	if rate < 0 {
		res.Recommendations = append(res.Recommendations,
			"Plan demand-generation campaigns to counter the projected decline")
	} else {
		res.Recommendations = append(res.Recommendations,
			"Align staffing and stock levels with the projected growth")
	}
	return res, nil
}

// RevenueForecast implements get_revenue_forecast: the compounding variant
// of the forecast with its higher confidence floor.
func (e *Engine) RevenueForecast(ctx context.Context, ps filter.PredicateSet, months int) (*domain.AnalyticsResult, error) {
	if months <= 0 {
		months = defaultForecast
	}
	history, err := e.deps.Orders.MonthlyRevenue(ctx, ps, trendWindowLong)
	if err != nil {
		return nil, err
	}

	series := revenueSeries(history)
	rate := growthRate(series)
	base := recentAverage(series)
	forecast := forecastCompound(base, rate, months)

	projected := 0.0
	for _, p := range forecast {
		projected += p.Value
	}

	res := domain.NewResult()
	res.Data = map[string]any{
		"history":  history,
		"forecast": forecast,
	}
	res.Metrics["growthRate"] = round2(rate)
	res.Metrics["forecastBase"] = round2(base)
	res.Metrics["projectedRevenue"] = round2(projected)
	res.Trends["revenue"] = monthTrend(history)
	res.Trends["forecast"] = forecast

	res.Insights = append(res.Insights,
		fmt.Sprintf("Compounding at %+.1f%% monthly projects $%.2f over the next %d months",
			rate, projected, months))

	res.Recommendations = append(res.Recommendations,
		"Revisit the forecast monthly as new order data lands")
	return res, nil
}

// TopProducts implements identify_top_products.
func (e *Engine) TopProducts(ctx context.Context, ps filter.PredicateSet, limit int) (*domain.AnalyticsResult, error) {
	if limit <= 0 {
		limit = defaultTopN
	}
	products, err := e.deps.Orders.TopProducts(ctx, ps, limit)
	if err != nil {
		return nil, err
	}

	total := 0.0
	for _, p := range products {
		total += p.Revenue
	}

	type ranked struct {
		Rank      int     `json:"rank"`
		ProductID string  `json:"productId"`
		Name      string  `json:"name"`
		Category  string  `json:"category"`
		Units     int     `json:"unitsSold"`
		Revenue   float64 `json:"revenue"`
		Share     float64 `json:"revenueShare"`
	}
	rows := make([]ranked, len(products))
	for i, p := range products {
		rows[i] = ranked{
			Rank:      i + 1,
			ProductID: p.ProductID,
			Name:      p.Name,
			Category:  p.Category,
			Units:     p.Units,
			Revenue:   p.Revenue,
			Share:     round2(ratio(p.Revenue, total)),
		}
	}

	res := domain.NewResult()
	res.Data = rows
	res.Metrics["productsRanked"] = float64(len(rows))
	res.Metrics["rankedRevenue"] = round2(total)

	if len(rows) > 0 {
		res.Insights = append(res.Insights,
			fmt.Sprintf("%s leads with $%.2f (%.1f%% of ranked revenue)",
				rows[0].Name, rows[0].Revenue, rows[0].Share))
		res.Recommendations = append(res.Recommendations,
			"Keep top sellers stocked above their reorder levels")
	} else {
		res.Insights = append(res.Insights, "No product sales match the current filters")
	}
	return res, nil
}

// MarketSegments implements analyze_market_segments: revenue grouped by
// customer industry.
func (e *Engine) MarketSegments(ctx context.Context, ps filter.PredicateSet) (*domain.AnalyticsResult, error) {
	segments, err := e.deps.Orders.SegmentStats(ctx, ps)
	if err != nil {
		return nil, err
	}

	type segRow struct {
		Industry      string  `json:"industry"`
		Customers     int     `json:"customers"`
		Orders        int     `json:"orders"`
		Revenue       float64 `json:"revenue"`
		AvgOrderValue float64 `json:"avgOrderValue"`
		Share         float64 `json:"revenueShare"`
	}

	total := 0.0
	for _, s := range segments {
		total += s.Revenue
	}
	rows := make([]segRow, len(segments))
	for i, s := range segments {
		aov := 0.0
		if s.Orders > 0 {
			aov = s.Revenue / float64(s.Orders)
		}
		rows[i] = segRow{
			Industry:      s.Industry,
			Customers:     s.Customers,
			Orders:        s.Orders,
			Revenue:       s.Revenue,
			AvgOrderValue: round2(aov),
			Share:         round2(ratio(s.Revenue, total)),
		}
	}

	res := domain.NewResult()
	res.Data = rows
	res.Metrics["segments"] = float64(len(rows))
	res.Metrics["totalRevenue"] = round2(total)

	if len(rows) > 0 {
		res.Insights = append(res.Insights,
			fmt.Sprintf("%s is the top segment with $%.2f (%.1f%% of revenue)",
				rows[0].Industry, rows[0].Revenue, rows[0].Share))
		res.Recommendations = append(res.Recommendations,
			fmt.Sprintf("Build case studies and targeted campaigns for the %s segment", rows[0].Industry))
	} else {
		res.Insights = append(res.Insights, "No segment revenue matches the current filters")
	}
	return res, nil
}

// OrderAnalytics implements get_order_analytics: distributions by status and
// payment method plus the 6-month order-count trend.
func (e *Engine) OrderAnalytics(ctx context.Context, ps filter.PredicateSet) (*domain.AnalyticsResult, error) {
	stats, err := e.deps.Orders.Stats(ctx, ps)
	if err != nil {
		return nil, err
	}
	byStatus, err := e.deps.Orders.ByStatus(ctx, ps)
	if err != nil {
		return nil, err
	}
	byPayment, err := e.deps.Orders.ByPaymentMethod(ctx, ps)
	if err != nil {
		return nil, err
	}
	months, err := e.deps.Orders.MonthlyRevenue(ctx, ps, trendWindowShort)
	if err != nil {
		return nil, err
	}

	res := domain.NewResult()
	res.Data = map[string]any{
		"byStatus":        byStatus,
		"byPaymentMethod": byPayment,
	}
	res.Metrics["totalOrders"] = float64(stats.TotalOrders)
	res.Metrics["avgOrderValue"] = round2(stats.AvgOrderValue)
	res.Trends["orderCounts"] = orderCountTrend(months)

	res.Insights = append(res.Insights,
		fmt.Sprintf("%d orders with an average value of $%.2f", stats.TotalOrders, stats.AvgOrderValue))
	for _, g := range byStatus {
		if g.Key == string(domain.OrderPending) && g.Orders > 0 {
			res.Insights = append(res.Insights,
				fmt.Sprintf("%d orders are pending fulfillment", g.Orders))
			res.Recommendations = append(res.Recommendations,
				"Work down the pending order backlog")
		}
	}
	if len(byPayment) > 0 {
		res.Insights = append(res.Insights,
			fmt.Sprintf("%s is the most used payment method (%d orders)",
				byPayment[0].Key, byPayment[0].Orders))
	}
	res.Recommendations = append(res.Recommendations,
		"Monitor the order-count trend for seasonal dips")
	return res, nil
}

// GeographicSales implements analyze_geographic_sales.
func (e *Engine) GeographicSales(ctx context.Context, ps filter.PredicateSet) (*domain.AnalyticsResult, error) {
	regions, err := e.deps.Orders.ByRegion(ctx, ps)
	if err != nil {
		return nil, err
	}

	type regionRow struct {
		Region  string  `json:"region"`
		Orders  int     `json:"orders"`
		Revenue float64 `json:"revenue"`
		Share   float64 `json:"revenueShare"`
	}

	total := 0.0
	for _, r := range regions {
		total += r.Revenue
	}
	rows := make([]regionRow, len(regions))
	for i, r := range regions {
		rows[i] = regionRow{
			Region:  r.Region,
			Orders:  r.Orders,
			Revenue: r.Revenue,
			Share:   round2(ratio(r.Revenue, total)),
		}
	}

	res := domain.NewResult()
	res.Data = rows
	res.Metrics["regions"] = float64(len(rows))
	res.Metrics["totalRevenue"] = round2(total)

	if len(rows) > 0 {
		res.Insights = append(res.Insights,
			fmt.Sprintf("%s leads regional revenue with $%.2f (%.1f%%)",
				rows[0].Region, rows[0].Revenue, rows[0].Share))
		if len(rows) > 1 {
			last := rows[len(rows)-1]
			res.Recommendations = append(res.Recommendations,
				fmt.Sprintf("Evaluate expansion investment in the %s region", last.Region))
		}
	} else {
		res.Insights = append(res.Insights, "No regional sales match the current filters")
	}
	res.Recommendations = append(res.Recommendations,
		"Compare regional shares quarter over quarter")
	return res, nil
}

// OperationalMetrics implements get_operational_metrics: fulfillment health
// plus the low-stock count from inventory.
func (e *Engine) OperationalMetrics(ctx context.Context, ps filter.PredicateSet) (*domain.AnalyticsResult, error) {
	stats, err := e.deps.Orders.Stats(ctx, ps)
	if err != nil {
		return nil, err
	}
	byStatus, err := e.deps.Orders.ByStatus(ctx, ps)
	if err != nil {
		return nil, err
	}
	levels, err := e.deps.Inventory.Levels(ctx, ps, "")
	if err != nil {
		return nil, err
	}

	lowStock := 0
	for _, l := range levels {
		if domain.StockStatus(l.Quantity, l.ReorderLevel) == domain.StockLow {
			lowStock++
		}
	}

	res := domain.NewResult()
	res.Data = map[string]any{
		"statusDistribution": byStatus,
	}
	res.Metrics["totalOrders"] = float64(stats.TotalOrders)
	res.Metrics["fulfillmentRate"] = round2(ratio(float64(stats.Delivered), float64(stats.TotalOrders)))
	res.Metrics["pendingBacklog"] = float64(stats.Pending)
	res.Metrics["lowStockItems"] = float64(lowStock)

	res.Insights = append(res.Insights,
		fmt.Sprintf("Fulfillment rate is %.1f%% with %d orders pending",
			ratio(float64(stats.Delivered), float64(stats.TotalOrders)), stats.Pending))
	if lowStock > 0 {
		res.Insights = append(res.Insights,
			fmt.Sprintf("%d inventory rows are at or below reorder level", lowStock))
		res.Recommendations = append(res.Recommendations,
			"Raise purchase orders for low-stock items")
	}
	res.Recommendations = append(res.Recommendations,
		"Track fulfillment rate weekly against the 95% target")
	return res, nil
}

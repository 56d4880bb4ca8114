package engine

import (
	"context"
	"fmt"

	"business-analytics-server/internal/analytics/domain"
	"business-analytics-server/internal/analytics/filter"
	customerrepo "business-analytics-server/internal/customer/repository"
)

// CustomerAnalytics implements get_customer_analytics: headline customer
// aggregates, tier distribution, and the 12-month acquisition trend.
func (e *Engine) CustomerAnalytics(ctx context.Context, ps filter.PredicateSet) (*domain.AnalyticsResult, error) {
	stats, err := e.deps.Customers.Stats(ctx, ps)
	if err != nil {
		return nil, err
	}
	tiers, err := e.deps.Customers.TierDistribution(ctx, ps)
	if err != nil {
		return nil, err
	}
	acquisitions, err := e.deps.Customers.NewByMonth(ctx, ps, trendWindowLong)
	if err != nil {
		return nil, err
	}

	res := domain.NewResult()
	res.Data = map[string]any{
		"totals":           stats,
		"tierDistribution": tiers,
	}
	res.Metrics["totalCustomers"] = float64(stats.TotalCustomers)
	res.Metrics["activeCustomers"] = float64(stats.ActiveCustomers)
	res.Metrics["prospects"] = float64(stats.Prospects)
	res.Metrics["avgCLV"] = round2(stats.AvgCLV)
	res.Metrics["activeRate"] = round2(ratio(float64(stats.ActiveCustomers), float64(stats.TotalCustomers)))

	points := make([]domain.TrendPoint, len(acquisitions))
	for i, a := range acquisitions {
		points[i] = domain.TrendPoint{Label: a.Month, Value: float64(a.Count)}
	}
	res.Trends["newCustomers"] = points

	res.Insights = append(res.Insights,
		fmt.Sprintf("%d customers in scope, %d active (%.1f%%)",
			stats.TotalCustomers, stats.ActiveCustomers,
			ratio(float64(stats.ActiveCustomers), float64(stats.TotalCustomers))),
		fmt.Sprintf("Average customer lifetime value is $%.2f", stats.AvgCLV),
	)
	if len(tiers) > 0 {
		res.Insights = append(res.Insights,
			fmt.Sprintf("%s tier customers account for the largest share of spend ($%.2f)",
				tiers[0].Tier, tiers[0].TotalSpent))
	}

	res.Recommendations = append(res.Recommendations,
		"Launch a loyalty program targeting silver and gold tier customers",
		"Review onboarding flow for prospect-to-active conversion",
	)
	if stats.Prospects > stats.ActiveCustomers {
		res.Recommendations = append(res.Recommendations,
			"Prioritize prospect outreach: prospects outnumber active customers")
	}
	return res, nil
}

// churnRiskRow is one at-risk customer in the analyze_customer_behavior output.
type churnRiskRow struct {
	CustomerID         string  `json:"customerId"`
	Name               string  `json:"name"`
	Tier               string  `json:"tier"`
	TotalSpent         float64 `json:"totalSpent"`
	DaysSinceLastOrder int     `json:"daysSinceLastOrder"`
	Risk               string  `json:"risk"`
}

// CustomerBehavior implements analyze_customer_behavior: churn-risk
// bucketing by order recency plus order frequency per tier.
func (e *Engine) CustomerBehavior(ctx context.Context, ps filter.PredicateSet) (*domain.AnalyticsResult, error) {
	churn, err := e.deps.Customers.ChurnData(ctx, ps)
	if err != nil {
		return nil, err
	}
	tiers, err := e.deps.Customers.TierDistribution(ctx, ps)
	if err != nil {
		return nil, err
	}

	buckets := map[string]int{}
	var atRisk []churnRiskRow
	for _, c := range churn {
		risk := domain.ChurnRisk(c.DaysSinceLastOrder)
		buckets[risk]++
		if risk != domain.ChurnActive {
			atRisk = append(atRisk, churnRiskRow{
				CustomerID:         c.CustomerID,
				Name:               c.Name,
				Tier:               c.Tier,
				TotalSpent:         c.TotalSpent,
				DaysSinceLastOrder: c.DaysSinceLastOrder,
				Risk:               risk,
			})
		}
	}

	res := domain.NewResult()
	res.Data = map[string]any{
		"churnBuckets":    buckets,
		"atRiskCustomers": atRisk,
		"tierBreakdown":   tiers,
	}
	res.Metrics["customersWithOrders"] = float64(len(churn))
	res.Metrics["highRisk"] = float64(buckets[domain.ChurnHigh])
	res.Metrics["mediumRisk"] = float64(buckets[domain.ChurnMedium])
	res.Metrics["lowRisk"] = float64(buckets[domain.ChurnLow])
	res.Metrics["churnRate"] = round2(ratio(float64(buckets[domain.ChurnHigh]), float64(len(churn))))

	res.Insights = append(res.Insights,
		fmt.Sprintf("%d of %d customers show churn risk", len(atRisk), len(churn)))
	if buckets[domain.ChurnHigh] > 0 {
		res.Insights = append(res.Insights,
			fmt.Sprintf("%d customers have not ordered in over 90 days", buckets[domain.ChurnHigh]))
	}

	res.Recommendations = append(res.Recommendations,
		"Run a win-back campaign for high-risk customers",
		"Set up automated re-engagement emails at the 30-day inactivity mark",
	)
	return res, nil
}

// SearchCustomers implements search_customers.
func (e *Engine) SearchCustomers(ctx context.Context, query string) (*domain.AnalyticsResult, error) {
	customers, err := e.deps.Customers.Search(ctx, query, searchRowCap)
	if err != nil {
		return nil, err
	}

	res := domain.NewResult()
	res.Data = customers
	res.Metrics["matches"] = float64(len(customers))
	res.Insights = append(res.Insights,
		fmt.Sprintf("%d customers match %q", len(customers), query))
	return res, nil
}

// CustomerDetails implements get_customer_details: one customer plus their
// recent orders and churn risk. Fails with ErrNotFound when the id is unknown.
func (e *Engine) CustomerDetails(ctx context.Context, customerID string) (*domain.AnalyticsResult, error) {
	c, err := e.deps.Customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: customer %q", domain.ErrNotFound, customerID)
	}
	orders, err := e.deps.Orders.RecentByCustomer(ctx, customerID, recentOrdersCap)
	if err != nil {
		return nil, err
	}

	risk := domain.ChurnActive
	if c.LastOrderDate != nil {
		days := daysSince(*c.LastOrderDate)
		risk = domain.ChurnRisk(days)
		res := buildCustomerDetails(c, orders, risk)
		res.Metrics["daysSinceLastOrder"] = float64(days)
		return res, nil
	}
	return buildCustomerDetails(c, orders, risk), nil
}

func buildCustomerDetails(c *domain.Customer, orders []domain.Order, risk string) *domain.AnalyticsResult {
	res := domain.NewResult()
	res.Data = map[string]any{
		"customer":     c,
		"recentOrders": orders,
		"churnRisk":    risk,
	}
	res.Metrics["totalSpent"] = c.TotalSpent
	res.Metrics["recentOrderCount"] = float64(len(orders))
	res.Insights = append(res.Insights,
		fmt.Sprintf("%s (%s tier) has spent $%.2f lifetime", c.Name, c.Tier, c.TotalSpent))
	if risk != domain.ChurnActive {
		res.Insights = append(res.Insights,
			fmt.Sprintf("Churn risk is %s", risk))
		res.Recommendations = append(res.Recommendations,
			"Schedule a check-in call with this customer")
	}
	return res
}

// UpdateCustomerInfo implements update_customer_info. updates must contain
// at least one allow-listed field; unknown fields fail validation before any
// write. Fails with ErrNotFound when the id is unknown.
func (e *Engine) UpdateCustomerInfo(ctx context.Context, customerID string, updates map[string]any) (*domain.AnalyticsResult, error) {
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: updates must not be empty", domain.ErrValidation)
	}
	// Reject before touching the store so a bad request leaves the row unchanged.
	for key := range updates {
		if _, ok := customerrepo.UpdatableFields[key]; !ok {
			return nil, fmt.Errorf("%w: field %q is not updatable", domain.ErrValidation, key)
		}
	}

	existing, err := e.deps.Customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: customer %q", domain.ErrNotFound, customerID)
	}

	updated, err := e.deps.Customers.UpdateFields(ctx, customerID, updates)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, fmt.Errorf("%w: customer %q", domain.ErrNotFound, customerID)
	}

	fields := make([]string, 0, len(updates))
	for key := range updates {
		fields = append(fields, key)
	}

	res := domain.NewResult()
	res.Data = map[string]any{
		"customerId":    customerID,
		"updatedFields": fields,
	}
	res.Metrics["fieldsUpdated"] = float64(len(fields))
	res.Insights = append(res.Insights,
		fmt.Sprintf("Updated %d fields on customer %s", len(fields), customerID))
	return res, nil
}

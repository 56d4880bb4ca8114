// Package report assembles the full business report: an executive summary,
// the four section analyses, and a tiered action plan built from the
// sections' merged recommendations.
package report

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"business-analytics-server/internal/analytics/domain"
	"business-analytics-server/internal/analytics/filter"
	"business-analytics-server/internal/export"
	orderrepo "business-analytics-server/internal/order/repository"
)

const summaryTopN = 3

// Analytics is the slice of engine operations the assembler composes.
// Implemented by the analytics engine.
type Analytics interface {
	CustomerAnalytics(ctx context.Context, ps filter.PredicateSet) (*domain.AnalyticsResult, error)
	SalesPerformance(ctx context.Context, ps filter.PredicateSet) (*domain.AnalyticsResult, error)
	InventoryInsights(ctx context.Context, ps filter.PredicateSet) (*domain.AnalyticsResult, error)
	FinancialSummary(ctx context.Context, ps filter.PredicateSet) (*domain.AnalyticsResult, error)
	TopProducts(ctx context.Context, ps filter.PredicateSet, limit int) (*domain.AnalyticsResult, error)
}

// TopCustomerSource supplies the top-customer ranking for the executive
// summary. Implemented by the order repository.
type TopCustomerSource interface {
	TopCustomers(ctx context.Context, ps filter.PredicateSet, n int) ([]orderrepo.CustomerSales, error)
}

// Assembler builds business reports from engine sections.
type Assembler struct {
	analytics Analytics
	customers TopCustomerSource
}

// New returns an Assembler over the given analytics operations and
// top-customer source.
func New(analytics Analytics, customers TopCustomerSource) *Assembler {
	return &Assembler{analytics: analytics, customers: customers}
}

// ExecutiveSummary is the headline block of a business report.
type ExecutiveSummary struct {
	TotalCustomers float64                   `json:"totalCustomers"`
	TotalOrders    float64                   `json:"totalOrders"`
	TotalRevenue   float64                   `json:"totalRevenue"`
	AvgOrderValue  float64                   `json:"avgOrderValue"`
	TopProducts    any                       `json:"topProducts"`
	TopCustomers   []orderrepo.CustomerSales `json:"topCustomers"`
}

// ActionItem is one recommendation placed into the action plan.
type ActionItem struct {
	Recommendation string `json:"recommendation"`
	Timeline       string `json:"timeline"`
	Resources      string `json:"resources"`
	Priority       string `json:"priority"`
}

// ActionPlan tiers the merged recommendations by urgency.
type ActionPlan struct {
	Immediate []ActionItem `json:"immediate"`
	ShortTerm []ActionItem `json:"shortTerm"`
	LongTerm  []ActionItem `json:"longTerm"`
}

// BusinessReport is the assembled report document.
type BusinessReport struct {
	GeneratedAt      time.Time                          `json:"generatedAt"`
	ExecutiveSummary ExecutiveSummary                   `json:"executiveSummary"`
	Sections         map[string]*domain.AnalyticsResult `json:"sections"`
	ActionPlan       ActionPlan                         `json:"actionPlan"`
}

// Section keys in the assembled report.
const (
	SectionCustomers = "customers"
	SectionSales     = "sales"
	SectionInventory = "inventory"
	SectionFinancial = "financial"
)

// Assemble runs the four section analyses plus the summary rankings and
// merges their recommendations into the action plan. A failure in any
// section fails the whole report. JSON requests carry the report document in
// Data; CSV and the paginated document form go through the export renderer.
func (a *Assembler) Assemble(ctx context.Context, ps filter.PredicateSet, format export.Format) (*domain.AnalyticsResult, error) {
	customers, err := a.analytics.CustomerAnalytics(ctx, ps)
	if err != nil {
		return nil, err
	}
	sales, err := a.analytics.SalesPerformance(ctx, ps)
	if err != nil {
		return nil, err
	}
	inventory, err := a.analytics.InventoryInsights(ctx, ps)
	if err != nil {
		return nil, err
	}
	financial, err := a.analytics.FinancialSummary(ctx, ps)
	if err != nil {
		return nil, err
	}
	topProducts, err := a.analytics.TopProducts(ctx, ps, summaryTopN)
	if err != nil {
		return nil, err
	}
	topCustomers, err := a.customers.TopCustomers(ctx, ps, summaryTopN)
	if err != nil {
		return nil, err
	}

	sections := map[string]*domain.AnalyticsResult{
		SectionCustomers: customers,
		SectionSales:     sales,
		SectionInventory: inventory,
		SectionFinancial: financial,
	}

	report := &BusinessReport{
		GeneratedAt: time.Now().UTC(),
		ExecutiveSummary: ExecutiveSummary{
			TotalCustomers: customers.Metrics["totalCustomers"],
			TotalOrders:    sales.Metrics["totalOrders"],
			TotalRevenue:   sales.Metrics["totalRevenue"],
			AvgOrderValue:  sales.Metrics["avgOrderValue"],
			TopProducts:    topProducts.Data,
			TopCustomers:   topCustomers,
		},
		Sections: sections,
		ActionPlan: buildActionPlan(mergeRecommendations(
			customers.Recommendations,
			sales.Recommendations,
			inventory.Recommendations,
			financial.Recommendations,
		)),
	}

	res := domain.NewResult()
	switch format {
	case "", export.FormatJSON:
		res.Data = report
	default:
		rendered, err := export.Render(report, format)
		if err != nil {
			return nil, err
		}
		res.Data = rendered
	}
	res.Metrics["totalCustomers"] = report.ExecutiveSummary.TotalCustomers
	res.Metrics["totalOrders"] = report.ExecutiveSummary.TotalOrders
	res.Metrics["totalRevenue"] = report.ExecutiveSummary.TotalRevenue
	res.Insights = append(res.Insights,
		fmt.Sprintf("Business report covering %d customers and %d orders, $%.2f revenue",
			int(report.ExecutiveSummary.TotalCustomers),
			int(report.ExecutiveSummary.TotalOrders),
			report.ExecutiveSummary.TotalRevenue))
	for _, item := range report.ActionPlan.Immediate {
		res.Recommendations = append(res.Recommendations, item.Recommendation)
	}
	return res, nil
}

// Dataset flattens the report for the CSV and paginated document forms: one
// row per summary figure, section metric, and action item.
func (r *BusinessReport) Dataset() export.Dataset {
	money := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
	rows := [][]string{
		{"summary", "totalCustomers", money(r.ExecutiveSummary.TotalCustomers)},
		{"summary", "totalOrders", money(r.ExecutiveSummary.TotalOrders)},
		{"summary", "totalRevenue", money(r.ExecutiveSummary.TotalRevenue)},
		{"summary", "avgOrderValue", money(r.ExecutiveSummary.AvgOrderValue)},
	}
	for _, c := range r.ExecutiveSummary.TopCustomers {
		rows = append(rows, []string{"summary", "topCustomer " + c.Name, money(c.Revenue)})
	}
	for _, section := range []string{SectionCustomers, SectionSales, SectionInventory, SectionFinancial} {
		sec := r.Sections[section]
		if sec == nil {
			continue
		}
		keys := make([]string, 0, len(sec.Metrics))
		for k := range sec.Metrics {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			rows = append(rows, []string{section, k, money(sec.Metrics[k])})
		}
	}
	tiers := []struct {
		name  string
		items []ActionItem
	}{
		{"immediate", r.ActionPlan.Immediate},
		{"shortTerm", r.ActionPlan.ShortTerm},
		{"longTerm", r.ActionPlan.LongTerm},
	}
	for _, tier := range tiers {
		for _, item := range tier.items {
			rows = append(rows, []string{"actionPlan", tier.name, item.Recommendation})
		}
	}
	return export.Dataset{
		Name:    "business_report",
		Columns: []string{"section", "item", "value"},
		Rows:    rows,
	}
}

// mergeRecommendations concatenates the section recommendations, dropping
// exact duplicates and keeping first-seen order.
func mergeRecommendations(sections ...[]string) []string {
	seen := map[string]bool{}
	var out []string
	for _, recs := range sections {
		for _, r := range recs {
			if seen[r] {
				continue
			}
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

// Action plan tier labels. The first two recommendations are treated as
// immediate, the next two short-term, the rest long-term.
const (
	immediateCount = 2
	shortTermCount = 2
)

func buildActionPlan(recs []string) ActionPlan {
	var plan ActionPlan
	for i, r := range recs {
		switch {
		case i < immediateCount:
			plan.Immediate = append(plan.Immediate, ActionItem{
				Recommendation: r,
				Timeline:       "0-30 days",
				Resources:      "existing team",
				Priority:       "high",
			})
		case i < immediateCount+shortTermCount:
			plan.ShortTerm = append(plan.ShortTerm, ActionItem{
				Recommendation: r,
				Timeline:       "1-3 months",
				Resources:      "dedicated project owner",
				Priority:       "medium",
			})
		default:
			plan.LongTerm = append(plan.LongTerm, ActionItem{
				Recommendation: r,
				Timeline:       "3-12 months",
				Resources:      "cross-functional planning",
				Priority:       "low",
			})
		}
	}
	return plan
}

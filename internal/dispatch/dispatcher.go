// Package dispatch validates, authenticates, and routes operation calls.
// Every call moves through the same stages: authenticate, compile filters,
// validate parameters, run exactly one handler, envelope the outcome. No
// error and no panic escapes past Dispatch.
package dispatch

import (
	"context"
	"fmt"
	"log"

	"business-analytics-server/internal/analytics/domain"
	"business-analytics-server/internal/analytics/engine"
	"business-analytics-server/internal/analytics/filter"
	"business-analytics-server/internal/audit"
	"business-analytics-server/internal/export"
	"business-analytics-server/internal/report"
	"business-analytics-server/internal/security"
)

// Operations is the catalog of handlers the dispatcher routes to.
// Implemented by Service, which combines the analytics engine and the
// report assembler.
type Operations interface {
	CustomerAnalytics(ctx context.Context, ps filter.PredicateSet) (*domain.AnalyticsResult, error)
	SalesPerformance(ctx context.Context, ps filter.PredicateSet) (*domain.AnalyticsResult, error)
	InventoryInsights(ctx context.Context, ps filter.PredicateSet) (*domain.AnalyticsResult, error)
	PredictSalesTrends(ctx context.Context, ps filter.PredicateSet, months int) (*domain.AnalyticsResult, error)
	CustomerBehavior(ctx context.Context, ps filter.PredicateSet) (*domain.AnalyticsResult, error)
	RevenueForecast(ctx context.Context, ps filter.PredicateSet, months int) (*domain.AnalyticsResult, error)
	TopProducts(ctx context.Context, ps filter.PredicateSet, limit int) (*domain.AnalyticsResult, error)
	MarketSegments(ctx context.Context, ps filter.PredicateSet) (*domain.AnalyticsResult, error)
	OperationalMetrics(ctx context.Context, ps filter.PredicateSet) (*domain.AnalyticsResult, error)
	SearchCustomers(ctx context.Context, query string) (*domain.AnalyticsResult, error)
	CustomerDetails(ctx context.Context, customerID string) (*domain.AnalyticsResult, error)
	UpdateCustomerInfo(ctx context.Context, customerID string, updates map[string]any) (*domain.AnalyticsResult, error)
	CheckInventoryLevels(ctx context.Context, ps filter.PredicateSet, warehouse string) (*domain.AnalyticsResult, error)
	ProductPerformance(ctx context.Context, ps filter.PredicateSet) (*domain.AnalyticsResult, error)
	CreateSalesOpportunity(ctx context.Context, customerID, productID string, quantity int, estimatedValue float64) (*domain.AnalyticsResult, error)
	OrderAnalytics(ctx context.Context, ps filter.PredicateSet) (*domain.AnalyticsResult, error)
	GeographicSales(ctx context.Context, ps filter.PredicateSet) (*domain.AnalyticsResult, error)
	FinancialSummary(ctx context.Context, ps filter.PredicateSet) (*domain.AnalyticsResult, error)
	UpdateInventory(ctx context.Context, updates []engine.InventoryUpdate) (*domain.AnalyticsResult, error)
	ExportData(ctx context.Context, ps filter.PredicateSet, dataType string, format export.Format) (*domain.AnalyticsResult, error)
	GenerateBusinessReport(ctx context.Context, ps filter.PredicateSet, format export.Format) (*domain.AnalyticsResult, error)
}

// Service implements Operations over the analytics engine and the report
// assembler.
type Service struct {
	*engine.Engine
	Reports *report.Assembler
}

// GenerateBusinessReport delegates to the report assembler.
func (s Service) GenerateBusinessReport(ctx context.Context, ps filter.PredicateSet, format export.Format) (*domain.AnalyticsResult, error) {
	return s.Reports.Assemble(ctx, ps, format)
}

// Verifier checks a bearer token and returns the caller principal.
// Implemented by the security token provider.
type Verifier interface {
	Verify(token string) (*security.Principal, error)
}

// handler runs one validated operation. Parameter extraction happens here so
// no handler sees untyped input.
type handler func(ctx context.Context, ops Operations, req *Request, ps filter.PredicateSet) (*domain.AnalyticsResult, error)

// catalog maps operation names to their handlers. An operation outside this
// map fails validation before anything runs.
var catalog = map[string]handler{
	"get_customer_analytics": func(ctx context.Context, ops Operations, _ *Request, ps filter.PredicateSet) (*domain.AnalyticsResult, error) {
		return ops.CustomerAnalytics(ctx, ps)
	},
	"get_sales_performance": func(ctx context.Context, ops Operations, _ *Request, ps filter.PredicateSet) (*domain.AnalyticsResult, error) {
		return ops.SalesPerformance(ctx, ps)
	},
	"get_inventory_insights": func(ctx context.Context, ops Operations, _ *Request, ps filter.PredicateSet) (*domain.AnalyticsResult, error) {
		return ops.InventoryInsights(ctx, ps)
	},
	"predict_sales_trends": func(ctx context.Context, ops Operations, req *Request, ps filter.PredicateSet) (*domain.AnalyticsResult, error) {
		months, err := intParam(req.Parameters, "months", false)
		if err != nil {
			return nil, err
		}
		return ops.PredictSalesTrends(ctx, ps, months)
	},
	"analyze_customer_behavior": func(ctx context.Context, ops Operations, _ *Request, ps filter.PredicateSet) (*domain.AnalyticsResult, error) {
		return ops.CustomerBehavior(ctx, ps)
	},
	"get_revenue_forecast": func(ctx context.Context, ops Operations, req *Request, ps filter.PredicateSet) (*domain.AnalyticsResult, error) {
		months, err := intParam(req.Parameters, "months", false)
		if err != nil {
			return nil, err
		}
		return ops.RevenueForecast(ctx, ps, months)
	},
	"identify_top_products": func(ctx context.Context, ops Operations, req *Request, ps filter.PredicateSet) (*domain.AnalyticsResult, error) {
		limit, err := intParam(req.Parameters, "limit", false)
		if err != nil {
			return nil, err
		}
		return ops.TopProducts(ctx, ps, limit)
	},
	"analyze_market_segments": func(ctx context.Context, ops Operations, _ *Request, ps filter.PredicateSet) (*domain.AnalyticsResult, error) {
		return ops.MarketSegments(ctx, ps)
	},
	"get_operational_metrics": func(ctx context.Context, ops Operations, _ *Request, ps filter.PredicateSet) (*domain.AnalyticsResult, error) {
		return ops.OperationalMetrics(ctx, ps)
	},
	"search_customers": func(ctx context.Context, ops Operations, req *Request, _ filter.PredicateSet) (*domain.AnalyticsResult, error) {
		query, err := stringParam(req.Parameters, "query", true)
		if err != nil {
			return nil, err
		}
		return ops.SearchCustomers(ctx, query)
	},
	"get_customer_details": func(ctx context.Context, ops Operations, req *Request, _ filter.PredicateSet) (*domain.AnalyticsResult, error) {
		customerID, err := stringParam(req.Parameters, "customerId", true)
		if err != nil {
			return nil, err
		}
		return ops.CustomerDetails(ctx, customerID)
	},
	"update_customer_info": func(ctx context.Context, ops Operations, req *Request, _ filter.PredicateSet) (*domain.AnalyticsResult, error) {
		customerID, err := stringParam(req.Parameters, "customerId", true)
		if err != nil {
			return nil, err
		}
		updates, err := mapParam(req.Parameters, "updates")
		if err != nil {
			return nil, err
		}
		return ops.UpdateCustomerInfo(ctx, customerID, updates)
	},
	"check_inventory_levels": func(ctx context.Context, ops Operations, req *Request, ps filter.PredicateSet) (*domain.AnalyticsResult, error) {
		warehouse, err := stringParam(req.Parameters, "warehouse", false)
		if err != nil {
			return nil, err
		}
		return ops.CheckInventoryLevels(ctx, ps, warehouse)
	},
	"get_product_performance": func(ctx context.Context, ops Operations, _ *Request, ps filter.PredicateSet) (*domain.AnalyticsResult, error) {
		return ops.ProductPerformance(ctx, ps)
	},
	"create_sales_opportunity": func(ctx context.Context, ops Operations, req *Request, _ filter.PredicateSet) (*domain.AnalyticsResult, error) {
		customerID, err := stringParam(req.Parameters, "customerId", true)
		if err != nil {
			return nil, err
		}
		productID, err := stringParam(req.Parameters, "productId", true)
		if err != nil {
			return nil, err
		}
		quantity, err := intParam(req.Parameters, "quantity", true)
		if err != nil {
			return nil, err
		}
		estimatedValue, err := floatParam(req.Parameters, "estimatedValue", true)
		if err != nil {
			return nil, err
		}
		return ops.CreateSalesOpportunity(ctx, customerID, productID, quantity, estimatedValue)
	},
	"get_order_analytics": func(ctx context.Context, ops Operations, _ *Request, ps filter.PredicateSet) (*domain.AnalyticsResult, error) {
		return ops.OrderAnalytics(ctx, ps)
	},
	"analyze_geographic_sales": func(ctx context.Context, ops Operations, _ *Request, ps filter.PredicateSet) (*domain.AnalyticsResult, error) {
		return ops.GeographicSales(ctx, ps)
	},
	"get_financial_summary": func(ctx context.Context, ops Operations, _ *Request, ps filter.PredicateSet) (*domain.AnalyticsResult, error) {
		return ops.FinancialSummary(ctx, ps)
	},
	"update_inventory": func(ctx context.Context, ops Operations, req *Request, _ filter.PredicateSet) (*domain.AnalyticsResult, error) {
		updates, err := inventoryUpdatesParam(req.Parameters, "updates")
		if err != nil {
			return nil, err
		}
		return ops.UpdateInventory(ctx, updates)
	},
	"export_data": func(ctx context.Context, ops Operations, req *Request, ps filter.PredicateSet) (*domain.AnalyticsResult, error) {
		dataType, err := stringParam(req.Parameters, "dataType", true)
		if err != nil {
			return nil, err
		}
		return ops.ExportData(ctx, ps, dataType, req.Format)
	},
	"generate_business_report": func(ctx context.Context, ops Operations, req *Request, ps filter.PredicateSet) (*domain.AnalyticsResult, error) {
		return ops.GenerateBusinessReport(ctx, ps, req.Format)
	},
}

// Dispatcher runs the authenticate/validate/route pipeline for one request
// at a time. Safe for concurrent use.
type Dispatcher struct {
	ops    Operations
	tokens Verifier
	audit  audit.AuditLogger
}

// New returns a Dispatcher. auditLogger may be audit.Nop in tooling.
func New(ops Operations, tokens Verifier, auditLogger audit.AuditLogger) *Dispatcher {
	return &Dispatcher{ops: ops, tokens: tokens, audit: auditLogger}
}

// Dispatch processes one request to completion and always returns an
// envelope. A principal already on the context (set by the HTTP middleware)
// wins over a token parameter.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("dispatch: panic in %q: %v", req.Operation, r)
			resp = errorResponse(fmt.Errorf("%w: internal failure", domain.ErrDomain))
		}
	}()

	principal, err := d.authenticate(ctx, req)
	if err != nil {
		return errorResponse(err)
	}

	run, ok := catalog[req.Operation]
	if !ok {
		return errorResponse(fmt.Errorf("%w: unknown operation %q", domain.ErrValidation, req.Operation))
	}

	ps, err := filter.Compile(req.Filters, req.DateRange)
	if err != nil {
		return errorResponse(err)
	}

	res, err := run(ctx, d.ops, req, ps)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	d.audit.LogOperation(ctx, principal.UserID, req.Operation,
		fmt.Sprintf(`{"filters":%d,"outcome":%q}`, len(req.Filters), outcome))
	if err != nil {
		return errorResponse(err)
	}
	return resultResponse(res)
}

// authenticate resolves the caller: context principal first, then the token
// parameter. No handler runs without one.
func (d *Dispatcher) authenticate(ctx context.Context, req *Request) (*security.Principal, error) {
	if p, ok := PrincipalFrom(ctx); ok {
		return p, nil
	}
	token, _ := req.Parameters["token"].(string)
	if token == "" {
		return nil, fmt.Errorf("%w: missing credentials", domain.ErrAuthentication)
	}
	p, err := d.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid token", domain.ErrAuthentication)
	}
	return p, nil
}

// Catalog returns the sorted-order-independent set of known operation names.
// Used by the HTTP layer for discovery.
func Catalog() []string {
	ops := make([]string, 0, len(catalog))
	for name := range catalog {
		ops = append(ops, name)
	}
	return ops
}

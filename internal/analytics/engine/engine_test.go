package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"business-analytics-server/internal/analytics/domain"
	"business-analytics-server/internal/analytics/filter"
	customerrepo "business-analytics-server/internal/customer/repository"
	inventoryrepo "business-analytics-server/internal/inventory/repository"
	orderrepo "business-analytics-server/internal/order/repository"
	salesreprepo "business-analytics-server/internal/salesrep/repository"
	"business-analytics-server/internal/export"
)

// Fake repositories returning canned rows. Write calls are recorded so tests
// can assert that failed validation never reaches the store.

type fakeCustomers struct {
	byID        map[string]*domain.Customer
	list        []domain.Customer
	stats       customerrepo.Stats
	tiers       []customerrepo.TierCount
	months      []customerrepo.MonthCount
	churn       []customerrepo.ChurnRow
	updateCalls int
	updateOK    bool
}

func (f *fakeCustomers) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	return f.byID[id], nil
}
func (f *fakeCustomers) Search(_ context.Context, _ string, _ int) ([]domain.Customer, error) {
	return f.list, nil
}
func (f *fakeCustomers) List(_ context.Context, _ filter.PredicateSet, _ int) ([]domain.Customer, error) {
	return f.list, nil
}
func (f *fakeCustomers) UpdateFields(_ context.Context, _ string, _ map[string]any) (bool, error) {
	f.updateCalls++
	return f.updateOK, nil
}
func (f *fakeCustomers) Stats(_ context.Context, _ filter.PredicateSet) (*customerrepo.Stats, error) {
	s := f.stats
	return &s, nil
}
func (f *fakeCustomers) TierDistribution(_ context.Context, _ filter.PredicateSet) ([]customerrepo.TierCount, error) {
	return f.tiers, nil
}
func (f *fakeCustomers) NewByMonth(_ context.Context, _ filter.PredicateSet, _ int) ([]customerrepo.MonthCount, error) {
	return f.months, nil
}
func (f *fakeCustomers) ChurnData(_ context.Context, _ filter.PredicateSet) ([]customerrepo.ChurnRow, error) {
	return f.churn, nil
}

type fakeOrders struct {
	stats     orderrepo.Stats
	months    []orderrepo.MonthMetric
	products  []orderrepo.ProductSales
	customers []orderrepo.CustomerSales
	regions   []orderrepo.RegionSales
	byStatus  []orderrepo.GroupCount
	byPayment []orderrepo.GroupCount
	segments  []orderrepo.SegmentSales
	perf      []orderrepo.ProductPerf
	fin       orderrepo.Financials
	recent    []domain.Order
	orders    []domain.Order
}

func (f *fakeOrders) Stats(_ context.Context, _ filter.PredicateSet) (*orderrepo.Stats, error) {
	s := f.stats
	return &s, nil
}
func (f *fakeOrders) MonthlyRevenue(_ context.Context, _ filter.PredicateSet, months int) ([]orderrepo.MonthMetric, error) {
	if months < len(f.months) {
		return f.months[:months], nil
	}
	return f.months, nil
}
func (f *fakeOrders) TopProducts(_ context.Context, _ filter.PredicateSet, n int) ([]orderrepo.ProductSales, error) {
	if n < len(f.products) {
		return f.products[:n], nil
	}
	return f.products, nil
}
func (f *fakeOrders) TopCustomers(_ context.Context, _ filter.PredicateSet, n int) ([]orderrepo.CustomerSales, error) {
	if n < len(f.customers) {
		return f.customers[:n], nil
	}
	return f.customers, nil
}
func (f *fakeOrders) ByRegion(_ context.Context, _ filter.PredicateSet) ([]orderrepo.RegionSales, error) {
	return f.regions, nil
}
func (f *fakeOrders) ByStatus(_ context.Context, _ filter.PredicateSet) ([]orderrepo.GroupCount, error) {
	return f.byStatus, nil
}
func (f *fakeOrders) ByPaymentMethod(_ context.Context, _ filter.PredicateSet) ([]orderrepo.GroupCount, error) {
	return f.byPayment, nil
}
func (f *fakeOrders) SegmentStats(_ context.Context, _ filter.PredicateSet) ([]orderrepo.SegmentSales, error) {
	return f.segments, nil
}
func (f *fakeOrders) ProductPerformance(_ context.Context, _ filter.PredicateSet) ([]orderrepo.ProductPerf, error) {
	return f.perf, nil
}
func (f *fakeOrders) Financials(_ context.Context, _ filter.PredicateSet) (*orderrepo.Financials, error) {
	fin := f.fin
	return &fin, nil
}
func (f *fakeOrders) RecentByCustomer(_ context.Context, _ string, _ int) ([]domain.Order, error) {
	return f.recent, nil
}
func (f *fakeOrders) List(_ context.Context, _ filter.PredicateSet, _ int) ([]domain.Order, error) {
	return f.orders, nil
}

type fakeProducts struct {
	byID map[string]*domain.Product
	list []domain.Product
}

func (f *fakeProducts) GetByID(_ context.Context, id string) (*domain.Product, error) {
	return f.byID[id], nil
}
func (f *fakeProducts) List(_ context.Context, _ filter.PredicateSet, _ int) ([]domain.Product, error) {
	return f.list, nil
}

type fakeInventory struct {
	levels      []inventoryrepo.Level
	turnover    []inventoryrepo.TurnoverRow
	missing     map[string]bool // productID/warehouse keys that do not exist
	updateCalls int
}

func (f *fakeInventory) Levels(_ context.Context, _ filter.PredicateSet, warehouse string) ([]inventoryrepo.Level, error) {
	if warehouse == "" {
		return f.levels, nil
	}
	var out []inventoryrepo.Level
	for _, l := range f.levels {
		if l.Warehouse == warehouse {
			out = append(out, l)
		}
	}
	return out, nil
}
func (f *fakeInventory) Turnover(_ context.Context, _ filter.PredicateSet, _ int) ([]inventoryrepo.TurnoverRow, error) {
	return f.turnover, nil
}
func (f *fakeInventory) UpdateQuantity(_ context.Context, productID, warehouse string, _ int) (bool, error) {
	f.updateCalls++
	return !f.missing[productID+"/"+warehouse], nil
}

type fakeReps struct {
	reps []salesreprepo.RepSales
}

func (f *fakeReps) Performance(_ context.Context, _ filter.PredicateSet) ([]salesreprepo.RepSales, error) {
	return f.reps, nil
}

type fakeOpportunities struct {
	created []*domain.Opportunity
}

func (f *fakeOpportunities) Create(_ context.Context, o *domain.Opportunity) error {
	f.created = append(f.created, o)
	return nil
}

func testEngine() (*Engine, *fakeCustomers, *fakeOrders, *fakeProducts, *fakeInventory, *fakeOpportunities) {
	customers := &fakeCustomers{byID: map[string]*domain.Customer{}, updateOK: true}
	orders := &fakeOrders{}
	products := &fakeProducts{byID: map[string]*domain.Product{}}
	inventory := &fakeInventory{missing: map[string]bool{}}
	opps := &fakeOpportunities{}
	e := New(Deps{
		Customers:     customers,
		Orders:        orders,
		Products:      products,
		Inventory:     inventory,
		Reps:          &fakeReps{},
		Opportunities: opps,
	})
	return e, customers, orders, products, inventory, opps
}

func TestCustomerAnalytics_AvgCLVOverThreeCustomers(t *testing.T) {
	e, customers, _, _, _, _ := testEngine()
	// Three customers spending 10k, 30k, 48k. avgCLV must equal their mean.
	customers.stats = customerrepo.Stats{
		TotalCustomers:  3,
		ActiveCustomers: 2,
		Prospects:       1,
		AvgCLV:          (10000 + 30000 + 48000) / 3.0,
		TotalSpent:      88000,
	}
	customers.tiers = []customerrepo.TierCount{{Tier: "gold", Customers: 2, TotalSpent: 78000}}
	customers.months = []customerrepo.MonthCount{{Month: "2026-08", Count: 1}, {Month: "2026-07", Count: 2}}

	res, err := e.CustomerAnalytics(context.Background(), filter.PredicateSet{})
	if err != nil {
		t.Fatalf("CustomerAnalytics: %v", err)
	}
	if res.Metrics["totalCustomers"] != 3 {
		t.Errorf("totalCustomers = %v, want 3", res.Metrics["totalCustomers"])
	}
	want := round2(88000.0 / 3)
	if res.Metrics["avgCLV"] != want {
		t.Errorf("avgCLV = %v, want %v", res.Metrics["avgCLV"], want)
	}
	if len(res.Trends["newCustomers"]) != 2 {
		t.Errorf("newCustomers trend has %d points, want 2", len(res.Trends["newCustomers"]))
	}
	if len(res.Insights) == 0 || len(res.Recommendations) == 0 {
		t.Error("insights and recommendations must be populated")
	}
}

func TestCustomerBehavior_ChurnBuckets(t *testing.T) {
	e, customers, _, _, _, _ := testEngine()
	customers.churn = []customerrepo.ChurnRow{
		{CustomerID: "c1", Name: "A", DaysSinceLastOrder: 95},
		{CustomerID: "c2", Name: "B", DaysSinceLastOrder: 65},
		{CustomerID: "c3", Name: "C", DaysSinceLastOrder: 31},
		{CustomerID: "c4", Name: "D", DaysSinceLastOrder: 10},
	}

	res, err := e.CustomerBehavior(context.Background(), filter.PredicateSet{})
	if err != nil {
		t.Fatalf("CustomerBehavior: %v", err)
	}
	if res.Metrics["highRisk"] != 1 || res.Metrics["mediumRisk"] != 1 || res.Metrics["lowRisk"] != 1 {
		t.Errorf("risk buckets = %v/%v/%v, want 1/1/1",
			res.Metrics["highRisk"], res.Metrics["mediumRisk"], res.Metrics["lowRisk"])
	}
	data := res.Data.(map[string]any)
	atRisk := data["atRiskCustomers"].([]churnRiskRow)
	if len(atRisk) != 3 {
		t.Errorf("atRisk has %d rows, want 3 (active customer excluded)", len(atRisk))
	}
}

func TestCustomerDetails_NotFound(t *testing.T) {
	e, _, _, _, _, _ := testEngine()
	_, err := e.CustomerDetails(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestUpdateCustomerInfo_DisallowedFieldLeavesRowAlone(t *testing.T) {
	e, customers, _, _, _, _ := testEngine()
	customers.byID["c1"] = &domain.Customer{ID: "c1", Name: "A"}

	_, err := e.UpdateCustomerInfo(context.Background(), "c1", map[string]any{"totalSpent": 9999})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
	if customers.updateCalls != 0 {
		t.Errorf("UpdateFields was called %d times, want 0", customers.updateCalls)
	}
}

func TestUpdateCustomerInfo_NotFound(t *testing.T) {
	e, _, _, _, _, _ := testEngine()
	_, err := e.UpdateCustomerInfo(context.Background(), "missing", map[string]any{"name": "B"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestUpdateCustomerInfo_OK(t *testing.T) {
	e, customers, _, _, _, _ := testEngine()
	customers.byID["c1"] = &domain.Customer{ID: "c1", Name: "A"}

	res, err := e.UpdateCustomerInfo(context.Background(), "c1", map[string]any{"name": "B", "status": "active"})
	if err != nil {
		t.Fatalf("UpdateCustomerInfo: %v", err)
	}
	if res.Metrics["fieldsUpdated"] != 2 {
		t.Errorf("fieldsUpdated = %v, want 2", res.Metrics["fieldsUpdated"])
	}
}

func TestSalesPerformance_Rates(t *testing.T) {
	e, _, orders, _, _, _ := testEngine()
	orders.stats = orderrepo.Stats{TotalOrders: 10, TotalRevenue: 5000, AvgOrderValue: 500, Delivered: 8, Cancelled: 1, Pending: 1}
	orders.months = []orderrepo.MonthMetric{{Month: "2026-08", Revenue: 3000, Orders: 6}, {Month: "2026-07", Revenue: 2000, Orders: 4}}

	res, err := e.SalesPerformance(context.Background(), filter.PredicateSet{})
	if err != nil {
		t.Fatalf("SalesPerformance: %v", err)
	}
	if res.Metrics["fulfillmentRate"] != 80 {
		t.Errorf("fulfillmentRate = %v, want 80", res.Metrics["fulfillmentRate"])
	}
	if res.Metrics["cancellationRate"] != 10 {
		t.Errorf("cancellationRate = %v, want 10", res.Metrics["cancellationRate"])
	}
	if res.Metrics["revenueGrowth"] != 50 {
		t.Errorf("revenueGrowth = %v, want 50", res.Metrics["revenueGrowth"])
	}
}

func TestPredictSalesTrends_DefaultsToSixMonths(t *testing.T) {
	e, _, orders, _, _, _ := testEngine()
	orders.months = []orderrepo.MonthMetric{
		{Month: "2026-08", Revenue: 1200}, {Month: "2026-07", Revenue: 1000},
	}

	res, err := e.PredictSalesTrends(context.Background(), filter.PredicateSet{}, 0)
	if err != nil {
		t.Fatalf("PredictSalesTrends: %v", err)
	}
	forecast := res.Trends["forecast"]
	if len(forecast) != defaultForecast {
		t.Fatalf("forecast has %d points, want %d", len(forecast), defaultForecast)
	}
	for i, p := range forecast {
		if p.Confidence < additiveConfidenceFloor {
			t.Errorf("point %d confidence %v below floor", i+1, p.Confidence)
		}
	}
}

func TestRevenueForecast_EmptyHistory(t *testing.T) {
	e, _, _, _, _, _ := testEngine()
	res, err := e.RevenueForecast(context.Background(), filter.PredicateSet{}, 3)
	if err != nil {
		t.Fatalf("RevenueForecast: %v", err)
	}
	// No history means a zero base, not a fault.
	for _, p := range res.Trends["forecast"] {
		if p.Value != 0 {
			t.Errorf("forecast point value = %v, want 0 with empty history", p.Value)
		}
	}
}

func TestTopProducts_Shares(t *testing.T) {
	e, _, orders, _, _, _ := testEngine()
	orders.products = []orderrepo.ProductSales{
		{ProductID: "p1", Name: "Widget", Revenue: 750, Units: 10},
		{ProductID: "p2", Name: "Gadget", Revenue: 250, Units: 5},
	}

	res, err := e.TopProducts(context.Background(), filter.PredicateSet{}, 0)
	if err != nil {
		t.Fatalf("TopProducts: %v", err)
	}
	if res.Metrics["rankedRevenue"] != 1000 {
		t.Errorf("rankedRevenue = %v, want 1000", res.Metrics["rankedRevenue"])
	}
	if !strings.Contains(res.Insights[0], "75.0%") {
		t.Errorf("top insight should carry the 75%% share, got %q", res.Insights[0])
	}
}

func TestInventoryInsights_Buckets(t *testing.T) {
	e, _, _, _, inventory, _ := testEngine()
	inventory.levels = []inventoryrepo.Level{
		{ProductID: "p1", Name: "Widget", Warehouse: "east", Quantity: 5, ReorderLevel: 5},
		{ProductID: "p2", Name: "Gadget", Warehouse: "east", Quantity: 9, ReorderLevel: 5},
		{ProductID: "p3", Name: "Gizmo", Warehouse: "west", Quantity: 11, ReorderLevel: 5},
	}
	inventory.turnover = []inventoryrepo.TurnoverRow{
		{ProductID: "p1", Name: "Widget", Stock: 10, UnitsSold: 30}, // 10 days of inventory
		{ProductID: "p2", Name: "Gadget", Stock: 100, UnitsSold: 0},
	}

	res, err := e.InventoryInsights(context.Background(), filter.PredicateSet{})
	if err != nil {
		t.Fatalf("InventoryInsights: %v", err)
	}
	if res.Metrics["lowStockItems"] != 1 {
		t.Errorf("lowStockItems = %v, want 1", res.Metrics["lowStockItems"])
	}
	if res.Metrics["fastMoving"] != 1 {
		t.Errorf("fastMoving = %v, want 1", res.Metrics["fastMoving"])
	}
	if res.Metrics["noSales"] != 1 {
		t.Errorf("noSales = %v, want 1", res.Metrics["noSales"])
	}
}

func TestCheckInventoryLevels_WarehouseScope(t *testing.T) {
	e, _, _, _, inventory, _ := testEngine()
	inventory.levels = []inventoryrepo.Level{
		{ProductID: "p1", Warehouse: "east", Quantity: 5, ReorderLevel: 5},
		{ProductID: "p2", Warehouse: "west", Quantity: 20, ReorderLevel: 5},
	}

	res, err := e.CheckInventoryLevels(context.Background(), filter.PredicateSet{}, "west")
	if err != nil {
		t.Fatalf("CheckInventoryLevels: %v", err)
	}
	if res.Metrics["inventoryRows"] != 1 {
		t.Errorf("inventoryRows = %v, want 1", res.Metrics["inventoryRows"])
	}
	if res.Metrics["lowStockItems"] != 0 {
		t.Errorf("lowStockItems = %v, want 0", res.Metrics["lowStockItems"])
	}
}

func TestUpdateInventory_MissingRowNamedInError(t *testing.T) {
	e, _, _, _, inventory, _ := testEngine()
	inventory.missing["p2/east"] = true

	_, err := e.UpdateInventory(context.Background(), []InventoryUpdate{
		{ProductID: "p1", Warehouse: "east", Quantity: 10},
		{ProductID: "p2", Warehouse: "east", Quantity: 10},
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if !strings.Contains(err.Error(), "p2/east") {
		t.Errorf("error should name the missing row, got %q", err)
	}
}

func TestUpdateInventory_Validation(t *testing.T) {
	e, _, _, _, inventory, _ := testEngine()
	tests := []struct {
		name    string
		updates []InventoryUpdate
	}{
		{"empty batch", nil},
		{"missing warehouse", []InventoryUpdate{{ProductID: "p1", Quantity: 1}}},
		{"negative quantity", []InventoryUpdate{{ProductID: "p1", Warehouse: "east", Quantity: -1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.UpdateInventory(context.Background(), tt.updates)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}
	if inventory.updateCalls != 0 {
		t.Errorf("UpdateQuantity was called %d times, want 0", inventory.updateCalls)
	}
}

func TestFinancialSummary_ZeroRevenueMargin(t *testing.T) {
	e, _, _, _, _, _ := testEngine()
	res, err := e.FinancialSummary(context.Background(), filter.PredicateSet{})
	if err != nil {
		t.Fatalf("FinancialSummary: %v", err)
	}
	if res.Metrics["profitMargin"] != 0 {
		t.Errorf("profitMargin = %v, want 0 on zero revenue", res.Metrics["profitMargin"])
	}
}

func TestFinancialSummary_Margin(t *testing.T) {
	e, _, orders, _, _, _ := testEngine()
	orders.fin = orderrepo.Financials{Revenue: 1000, Cost: 600, Orders: 4}

	res, err := e.FinancialSummary(context.Background(), filter.PredicateSet{})
	if err != nil {
		t.Fatalf("FinancialSummary: %v", err)
	}
	if res.Metrics["profit"] != 400 {
		t.Errorf("profit = %v, want 400", res.Metrics["profit"])
	}
	if res.Metrics["profitMargin"] != 40 {
		t.Errorf("profitMargin = %v, want 40", res.Metrics["profitMargin"])
	}
}

func TestCreateSalesOpportunity_AbsentCustomerWritesNothing(t *testing.T) {
	e, _, _, products, _, opps := testEngine()
	products.byID["p1"] = &domain.Product{ID: "p1", Name: "Widget"}

	_, err := e.CreateSalesOpportunity(context.Background(), "missing", "p1", 2, 500)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if len(opps.created) != 0 {
		t.Errorf("%d opportunities written, want 0", len(opps.created))
	}
}

func TestCreateSalesOpportunity_AbsentProductWritesNothing(t *testing.T) {
	e, customers, _, _, _, opps := testEngine()
	customers.byID["c1"] = &domain.Customer{ID: "c1", Name: "Acme"}

	_, err := e.CreateSalesOpportunity(context.Background(), "c1", "missing", 2, 500)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if len(opps.created) != 0 {
		t.Errorf("%d opportunities written, want 0", len(opps.created))
	}
}

func TestCreateSalesOpportunity_OK(t *testing.T) {
	e, customers, _, products, _, opps := testEngine()
	customers.byID["c1"] = &domain.Customer{ID: "c1", Name: "Acme"}
	products.byID["p1"] = &domain.Product{ID: "p1", Name: "Widget"}

	res, err := e.CreateSalesOpportunity(context.Background(), "c1", "p1", 3, 1500)
	if err != nil {
		t.Fatalf("CreateSalesOpportunity: %v", err)
	}
	if len(opps.created) != 1 {
		t.Fatalf("%d opportunities written, want 1", len(opps.created))
	}
	created := opps.created[0]
	if created.ID == "" {
		t.Error("opportunity ID must be assigned")
	}
	if created.Status != "open" {
		t.Errorf("status = %q, want open", created.Status)
	}
	if created.CreatedAt.After(time.Now().UTC().Add(time.Second)) {
		t.Errorf("createdAt %v is in the future", created.CreatedAt)
	}
	if res.Metrics["estimatedValue"] != 1500 {
		t.Errorf("estimatedValue = %v, want 1500", res.Metrics["estimatedValue"])
	}
}

func TestExportData_CSV(t *testing.T) {
	e, customers, _, _, _, _ := testEngine()
	customers.list = []domain.Customer{
		{ID: "c1", Name: "Acme", Email: "ops@acme.example", Tier: domain.TierGold, Status: domain.CustomerActive, TotalSpent: 100.5},
	}

	res, err := e.ExportData(context.Background(), filter.PredicateSet{}, ExportCustomers, export.FormatCSV)
	if err != nil {
		t.Fatalf("ExportData: %v", err)
	}
	out := res.Data.(string)
	if !strings.HasPrefix(out, "id,name,email") {
		t.Errorf("csv should start with header, got %q", out)
	}
	if !strings.Contains(out, "Acme") {
		t.Errorf("csv should carry row data, got %q", out)
	}
	if res.Metrics["rowsExported"] != 1 {
		t.Errorf("rowsExported = %v, want 1", res.Metrics["rowsExported"])
	}
}

func TestExportData_UnknownDataType(t *testing.T) {
	e, _, _, _, _, _ := testEngine()
	_, err := e.ExportData(context.Background(), filter.PredicateSet{}, "invoices", export.FormatJSON)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestGeographicSales_Shares(t *testing.T) {
	e, _, orders, _, _, _ := testEngine()
	orders.regions = []orderrepo.RegionSales{
		{Region: "north", Orders: 6, Revenue: 600},
		{Region: "south", Orders: 4, Revenue: 400},
	}

	res, err := e.GeographicSales(context.Background(), filter.PredicateSet{})
	if err != nil {
		t.Fatalf("GeographicSales: %v", err)
	}
	if res.Metrics["totalRevenue"] != 1000 {
		t.Errorf("totalRevenue = %v, want 1000", res.Metrics["totalRevenue"])
	}
	if !strings.Contains(res.Insights[0], "north") {
		t.Errorf("top insight should name the leading region, got %q", res.Insights[0])
	}
}

func TestOperationalMetrics_LowStockCount(t *testing.T) {
	e, _, orders, _, inventory, _ := testEngine()
	orders.stats = orderrepo.Stats{TotalOrders: 4, Delivered: 3, Pending: 1}
	inventory.levels = []inventoryrepo.Level{
		{ProductID: "p1", Quantity: 2, ReorderLevel: 5},
		{ProductID: "p2", Quantity: 50, ReorderLevel: 5},
	}

	res, err := e.OperationalMetrics(context.Background(), filter.PredicateSet{})
	if err != nil {
		t.Fatalf("OperationalMetrics: %v", err)
	}
	if res.Metrics["lowStockItems"] != 1 {
		t.Errorf("lowStockItems = %v, want 1", res.Metrics["lowStockItems"])
	}
	if res.Metrics["fulfillmentRate"] != 75 {
		t.Errorf("fulfillmentRate = %v, want 75", res.Metrics["fulfillmentRate"])
	}
	if res.Metrics["pendingBacklog"] != 1 {
		t.Errorf("pendingBacklog = %v, want 1", res.Metrics["pendingBacklog"])
	}
}

package report

import (
	"context"
	"errors"
	"strings"
	"testing"

	"business-analytics-server/internal/analytics/domain"
	"business-analytics-server/internal/analytics/filter"
	"business-analytics-server/internal/export"
	orderrepo "business-analytics-server/internal/order/repository"
)

type fakeAnalytics struct {
	customerRecs  []string
	salesRecs     []string
	inventoryRecs []string
	financialRecs []string
	salesErr      error
}

func resultWith(recs []string, metrics map[string]float64) *domain.AnalyticsResult {
	res := domain.NewResult()
	res.Recommendations = append(res.Recommendations, recs...)
	for k, v := range metrics {
		res.Metrics[k] = v
	}
	return res
}

func (f *fakeAnalytics) CustomerAnalytics(context.Context, filter.PredicateSet) (*domain.AnalyticsResult, error) {
	return resultWith(f.customerRecs, map[string]float64{"totalCustomers": 3}), nil
}
func (f *fakeAnalytics) SalesPerformance(context.Context, filter.PredicateSet) (*domain.AnalyticsResult, error) {
	if f.salesErr != nil {
		return nil, f.salesErr
	}
	return resultWith(f.salesRecs, map[string]float64{
		"totalOrders": 12, "totalRevenue": 88000, "avgOrderValue": 7333.33,
	}), nil
}
func (f *fakeAnalytics) InventoryInsights(context.Context, filter.PredicateSet) (*domain.AnalyticsResult, error) {
	return resultWith(f.inventoryRecs, nil), nil
}
func (f *fakeAnalytics) FinancialSummary(context.Context, filter.PredicateSet) (*domain.AnalyticsResult, error) {
	return resultWith(f.financialRecs, nil), nil
}
func (f *fakeAnalytics) TopProducts(context.Context, filter.PredicateSet, int) (*domain.AnalyticsResult, error) {
	return resultWith(nil, nil), nil
}

type fakeTopCustomers struct{}

func (fakeTopCustomers) TopCustomers(context.Context, filter.PredicateSet, int) ([]orderrepo.CustomerSales, error) {
	return []orderrepo.CustomerSales{
		{CustomerID: "c1", Name: "Acme", Revenue: 48000},
		{CustomerID: "c2", Name: "Globex", Revenue: 30000},
		{CustomerID: "c3", Name: "Initech", Revenue: 10000},
	}, nil
}

func TestAssemble_ExecutiveSummary(t *testing.T) {
	a := New(&fakeAnalytics{}, fakeTopCustomers{})

	res, err := a.Assemble(context.Background(), filter.PredicateSet{}, export.FormatJSON)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	report := res.Data.(*BusinessReport)
	if report.ExecutiveSummary.TotalCustomers != 3 {
		t.Errorf("totalCustomers = %v, want 3", report.ExecutiveSummary.TotalCustomers)
	}
	if report.ExecutiveSummary.TotalRevenue != 88000 {
		t.Errorf("totalRevenue = %v, want 88000", report.ExecutiveSummary.TotalRevenue)
	}
	if len(report.ExecutiveSummary.TopCustomers) != 3 {
		t.Errorf("topCustomers has %d rows, want 3", len(report.ExecutiveSummary.TopCustomers))
	}
	if len(report.Sections) != 4 {
		t.Errorf("report has %d sections, want 4", len(report.Sections))
	}
}

func TestAssemble_DeduplicatesAndTiersRecommendations(t *testing.T) {
	a := New(&fakeAnalytics{
		customerRecs:  []string{"rec A", "rec B"},
		salesRecs:     []string{"rec B", "rec C"}, // duplicate dropped
		inventoryRecs: []string{"rec D", "rec E"},
		financialRecs: []string{"rec A"}, // duplicate dropped
	}, fakeTopCustomers{})

	res, err := a.Assemble(context.Background(), filter.PredicateSet{}, export.FormatJSON)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	plan := res.Data.(*BusinessReport).ActionPlan

	if len(plan.Immediate) != 2 || len(plan.ShortTerm) != 2 || len(plan.LongTerm) != 1 {
		t.Fatalf("plan tiers = %d/%d/%d, want 2/2/1",
			len(plan.Immediate), len(plan.ShortTerm), len(plan.LongTerm))
	}
	// First-seen order survives deduplication.
	if plan.Immediate[0].Recommendation != "rec A" || plan.Immediate[1].Recommendation != "rec B" {
		t.Errorf("immediate = %v", plan.Immediate)
	}
	if plan.ShortTerm[0].Recommendation != "rec C" || plan.ShortTerm[1].Recommendation != "rec D" {
		t.Errorf("shortTerm = %v", plan.ShortTerm)
	}
	if plan.LongTerm[0].Recommendation != "rec E" {
		t.Errorf("longTerm = %v", plan.LongTerm)
	}
	if plan.Immediate[0].Priority != "high" || plan.ShortTerm[0].Priority != "medium" || plan.LongTerm[0].Priority != "low" {
		t.Error("tier priorities must be high/medium/low")
	}
	if plan.Immediate[0].Timeline != "0-30 days" {
		t.Errorf("immediate timeline = %q", plan.Immediate[0].Timeline)
	}
}

func TestAssemble_SectionFailureFailsReport(t *testing.T) {
	boom := errors.New("store down")
	a := New(&fakeAnalytics{salesErr: boom}, fakeTopCustomers{})

	_, err := a.Assemble(context.Background(), filter.PredicateSet{}, export.FormatJSON)
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want the section error", err)
	}
}

func TestAssemble_DocumentFormatRendersReport(t *testing.T) {
	a := New(&fakeAnalytics{customerRecs: []string{"rec A"}}, fakeTopCustomers{})

	res, err := a.Assemble(context.Background(), filter.PredicateSet{}, export.FormatPDF)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	doc, ok := res.Data.(string)
	if !ok {
		t.Fatalf("Data = %T, want rendered document string", res.Data)
	}
	if !strings.Contains(doc, "business_report (page 1 of 1)") {
		t.Errorf("document missing page header:\n%s", doc)
	}
	if !strings.Contains(doc, "totalRevenue") || !strings.Contains(doc, "88000.00") {
		t.Errorf("document missing summary figures:\n%s", doc)
	}
	if !strings.Contains(doc, "rec A") {
		t.Errorf("document missing action item:\n%s", doc)
	}
}

func TestAssemble_CSVFormat(t *testing.T) {
	a := New(&fakeAnalytics{}, fakeTopCustomers{})

	res, err := a.Assemble(context.Background(), filter.PredicateSet{}, export.FormatCSV)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	csvData, ok := res.Data.(string)
	if !ok {
		t.Fatalf("Data = %T, want CSV string", res.Data)
	}
	if !strings.HasPrefix(csvData, "section,item,value\n") {
		t.Errorf("csv header = %q", strings.SplitN(csvData, "\n", 2)[0])
	}
	if !strings.Contains(csvData, "summary,totalRevenue,88000.00") {
		t.Errorf("csv missing revenue row:\n%s", csvData)
	}
}

func TestAssemble_UnsupportedFormat(t *testing.T) {
	a := New(&fakeAnalytics{}, fakeTopCustomers{})

	_, err := a.Assemble(context.Background(), filter.PredicateSet{}, export.Format("xml"))
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("error = %v, want validation error", err)
	}
}

package domain

// TrendPoint is one bucket of a time series, labelled by calendar month
// ("2024-03") or by a forecast offset ("+2mo").
type TrendPoint struct {
	Label      string  `json:"label"`
	Value      float64 `json:"value"`
	Confidence float64 `json:"confidence,omitempty"`
}

// AnalyticsResult is the standard five-field output envelope produced by
// every analytic operation. All fields are always populated; empty slices
// and maps are used instead of nil so serialized output never omits a field.
type AnalyticsResult struct {
	Data            any                     `json:"data"`
	Insights        []string                `json:"insights"`
	Recommendations []string                `json:"recommendations"`
	Metrics         map[string]float64      `json:"metrics"`
	Trends          map[string][]TrendPoint `json:"trends"`
}

// NewResult returns an AnalyticsResult with all collection fields initialized.
func NewResult() *AnalyticsResult {
	return &AnalyticsResult{
		Insights:        []string{},
		Recommendations: []string{},
		Metrics:         map[string]float64{},
		Trends:          map[string][]TrendPoint{},
	}
}

package dispatch

import (
	"encoding/json"
	"errors"

	"business-analytics-server/internal/analytics/domain"
	"business-analytics-server/internal/analytics/filter"
	"business-analytics-server/internal/export"
	"business-analytics-server/internal/security"
)

// Request is one operation call.
type Request struct {
	Operation  string           `json:"operation"`
	Parameters map[string]any   `json:"parameters,omitempty"`
	Filters    map[string]any   `json:"filters,omitempty"`
	DateRange  filter.DateRange `json:"dateRange,omitempty"`
	Format     export.Format    `json:"format,omitempty"`
}

// ContentBlock is one piece of response content. Type is always "text".
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Response is the operation result envelope. Errors set IsError and carry
// the classified message as the single content block.
type Response struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

func textResponse(text string) *Response {
	return &Response{Content: []ContentBlock{{Type: "text", Text: text}}}
}

func resultResponse(res *domain.AnalyticsResult) *Response {
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return errorResponse(err)
	}
	return textResponse(string(b))
}

// errorResponse classifies err by sentinel kind and renders it as an error
// envelope. This is the only place errors cross into the wire shape.
func errorResponse(err error) *Response {
	prefix := "Error"
	switch {
	case errors.Is(err, domain.ErrAuthentication), errors.Is(err, security.ErrInvalidToken):
		prefix = "Authentication error"
	case errors.Is(err, domain.ErrValidation):
		prefix = "Validation error"
	case errors.Is(err, domain.ErrNotFound):
		prefix = "Not found"
	case errors.Is(err, domain.ErrDomain):
		prefix = "Domain error"
	}
	return &Response{
		Content: []ContentBlock{{Type: "text", Text: prefix + ": " + err.Error()}},
		IsError: true,
	}
}

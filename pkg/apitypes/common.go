// Package apitypes holds the request and response shapes of the NWS weather API
// (https://api.weather.gov) used by the endpoint functions in pkg/nws.
package apitypes

import "encoding/json"

// Geometry is kept raw: callers in this suite only assert on its presence.
type Geometry = json.RawMessage

// Pagination links returned by collection endpoints.
type Pagination struct {
	Next string `json:"next,omitempty"`
}

// QuantitativeValue is a measured value with a WMO unit code.
type QuantitativeValue struct {
	Value          *float64 `json:"value"`
	MaxValue       *float64 `json:"maxValue,omitempty"`
	MinValue       *float64 `json:"minValue,omitempty"`
	UnitCode       string   `json:"unitCode,omitempty"`
	QualityControl string   `json:"qualityControl,omitempty"`
}

// ProblemDetail is the RFC 7807 error body the API returns for 4xx/5xx.
type ProblemDetail struct {
	Type          string `json:"type"`
	Title         string `json:"title"`
	Status        int    `json:"status"`
	Detail        string `json:"detail"`
	Instance      string `json:"instance"`
	CorrelationID string `json:"correlationId"`
}

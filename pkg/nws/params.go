package nws

import "github.com/samvad-hq/weather-api-suite/pkg/query"

// AlertsQuery is the free-form filter set accepted by /alerts
// (status, message_type, event, code, area, point, region, zone, urgency, severity, certainty, limit, cursor...).
type AlertsQuery = query.Params

// SigmetQueryParams filters /aviation/sigmets. Empty fields are not sent.
type SigmetQueryParams struct {
	Start    string
	End      string
	Date     string
	ATSU     string
	Sequence string
}

// Params implements query.Encoder.
func (p *SigmetQueryParams) Params() query.Params {
	return query.Params{
		"start":    optional(p.Start),
		"end":      optional(p.End),
		"date":     optional(p.Date),
		"atsu":     optional(p.ATSU),
		"sequence": optional(p.Sequence),
	}
}

// ZoneListQueryParams filters /zones.
type ZoneListQueryParams struct {
	ID              []string
	Area            []string
	Region          []string
	Type            []string
	Point           string
	IncludeGeometry *bool
	Limit           *int
	Effective       string
}

// Params implements query.Encoder.
func (p *ZoneListQueryParams) Params() query.Params {
	return query.Params{
		"id":               p.ID,
		"area":             p.Area,
		"region":           p.Region,
		"type":             p.Type,
		"point":            optional(p.Point),
		"include_geometry": p.IncludeGeometry,
		"limit":            p.Limit,
		"effective":        optional(p.Effective),
	}
}

// ZoneQueryParams is accepted by /zones/{type}/{zoneId}.
type ZoneQueryParams struct {
	Effective string
}

// Params implements query.Encoder.
func (p *ZoneQueryParams) Params() query.Params {
	return query.Params{"effective": optional(p.Effective)}
}

// StationsQueryParams pages through /zones/forecast/{zoneId}/stations.
type StationsQueryParams struct {
	Limit  *int
	Cursor string
}

// Params implements query.Encoder.
func (p *StationsQueryParams) Params() query.Params {
	return query.Params{
		"limit":  p.Limit,
		"cursor": optional(p.Cursor),
	}
}

// Int returns a pointer to v, for optional numeric params.
func Int(v int) *int { return &v }

// Bool returns a pointer to v, for optional boolean params.
func Bool(v bool) *bool { return &v }

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

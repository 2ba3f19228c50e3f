package apitypes

// SigmetCollection is returned by /aviation/sigmets and its ATSU/date variants.
type SigmetCollection struct {
	Type     string          `json:"type,omitempty"`
	Features []SigmetFeature `json:"features"`
}

// SigmetFeature is one SIGMET as GeoJSON.
type SigmetFeature struct {
	ID         string   `json:"id,omitempty"`
	Type       string   `json:"type,omitempty"`
	Geometry   Geometry `json:"geometry,omitempty"`
	Properties *Sigmet  `json:"properties,omitempty"`
}

// Sigmet holds the significant-meteorological-information fields.
type Sigmet struct {
	ID         string  `json:"id"`
	IssueTime  string  `json:"issueTime,omitempty"`
	FIR        *string `json:"fir,omitempty"`
	ATSU       string  `json:"atsu,omitempty"`
	Sequence   string  `json:"sequence"`
	Phenomenon *string `json:"phenomenon,omitempty"`
	Start      string  `json:"start,omitempty"`
	End        string  `json:"end,omitempty"`
}

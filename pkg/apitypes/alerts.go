package apitypes

// AlertCollection is returned by /alerts. The API answers GeoJSON (features)
// or JSON-LD (@graph) depending on the Accept header.
type AlertCollection struct {
	Context    any            `json:"@context,omitempty"`
	Type       string         `json:"type,omitempty"`
	Features   []AlertFeature `json:"features,omitempty"`
	Graph      []Alert        `json:"@graph,omitempty"`
	Title      string         `json:"title,omitempty"`
	Updated    string         `json:"updated,omitempty"`
	Pagination *Pagination    `json:"pagination,omitempty"`
}

// Alerts returns the alerts regardless of the representation the API chose.
func (c AlertCollection) Alerts() []Alert {
	if len(c.Graph) > 0 {
		return c.Graph
	}
	out := make([]Alert, 0, len(c.Features))
	for _, f := range c.Features {
		out = append(out, f.Properties)
	}
	return out
}

// AlertFeature is a single GeoJSON alert (also the body of /alerts/{id}).
type AlertFeature struct {
	ID         string   `json:"id,omitempty"`
	Type       string   `json:"type,omitempty"`
	Geometry   Geometry `json:"geometry,omitempty"`
	Properties Alert    `json:"properties"`
}

// Alert carries the CAP fields of a weather alert.
type Alert struct {
	AtID          string              `json:"@id,omitempty"`
	ID            string              `json:"id"`
	AreaDesc      string              `json:"areaDesc"`
	Geocode       *AlertGeocode       `json:"geocode,omitempty"`
	AffectedZones []string            `json:"affectedZones,omitempty"`
	References    []AlertReference    `json:"references,omitempty"`
	Sent          string              `json:"sent"`
	Effective     string              `json:"effective,omitempty"`
	Onset         *string             `json:"onset,omitempty"`
	Expires       string              `json:"expires,omitempty"`
	Ends          *string             `json:"ends,omitempty"`
	Status        string              `json:"status,omitempty"`
	MessageType   string              `json:"messageType,omitempty"`
	Category      string              `json:"category,omitempty"`
	Severity      string              `json:"severity,omitempty"`
	Certainty     string              `json:"certainty,omitempty"`
	Urgency       string              `json:"urgency,omitempty"`
	Event         string              `json:"event"`
	Sender        string              `json:"sender,omitempty"`
	SenderName    string              `json:"senderName,omitempty"`
	Headline      *string             `json:"headline,omitempty"`
	Description   string              `json:"description,omitempty"`
	Instruction   *string             `json:"instruction,omitempty"`
	Response      string              `json:"response,omitempty"`
	Parameters    map[string][]string `json:"parameters,omitempty"`
}

// AlertGeocode lists the SAME and UGC codes an alert covers.
type AlertGeocode struct {
	SAME []string `json:"SAME,omitempty"`
	UGC  []string `json:"UGC,omitempty"`
}

// AlertReference points at an earlier alert this one updates or cancels.
type AlertReference struct {
	AtID       string `json:"@id,omitempty"`
	Identifier string `json:"identifier,omitempty"`
	Sender     string `json:"sender,omitempty"`
	Sent       string `json:"sent,omitempty"`
}

package apitypes

// Zone types accepted by /zones/{type}/{zoneId}.
const (
	ZoneTypeLand     = "land"
	ZoneTypeMarine   = "marine"
	ZoneTypeForecast = "forecast"
	ZoneTypePublic   = "public"
	ZoneTypeCoastal  = "coastal"
	ZoneTypeOffshore = "offshore"
	ZoneTypeFire     = "fire"
	ZoneTypeCounty   = "county"
)

// ZoneCollection is returned by /zones.
type ZoneCollection struct {
	Type     string        `json:"type,omitempty"`
	Features []ZoneFeature `json:"features"`
}

// ZoneFeature is one zone as GeoJSON (also the body of /zones/{type}/{zoneId}).
type ZoneFeature struct {
	ID         string   `json:"id,omitempty"`
	Type       string   `json:"type,omitempty"`
	Geometry   Geometry `json:"geometry,omitempty"`
	Properties Zone     `json:"properties"`
}

// Zone describes a forecast, county, fire or marine zone.
type Zone struct {
	AtID                string   `json:"@id,omitempty"`
	ID                  string   `json:"id"`
	Type                string   `json:"type"`
	Name                string   `json:"name,omitempty"`
	EffectiveDate       string   `json:"effectiveDate,omitempty"`
	ExpirationDate      string   `json:"expirationDate,omitempty"`
	State               *string  `json:"state,omitempty"`
	ForecastOffice      string   `json:"forecastOffice,omitempty"`
	GridIdentifier      string   `json:"gridIdentifier,omitempty"`
	AWIPSLocationID     string   `json:"awipsLocationIdentifier,omitempty"`
	CWA                 []string `json:"cwa,omitempty"`
	ForecastOffices     []string `json:"forecastOffices,omitempty"`
	TimeZone            []string `json:"timeZone,omitempty"`
	ObservationStations []string `json:"observationStations,omitempty"`
	RadarStation        *string  `json:"radarStation,omitempty"`
}

// ZoneForecastFeature is returned by /zones/{type}/{zoneId}/forecast.
type ZoneForecastFeature struct {
	Type       string       `json:"type,omitempty"`
	Geometry   Geometry     `json:"geometry,omitempty"`
	Properties ZoneForecast `json:"properties"`
}

// ZoneForecast is the text forecast for a zone.
type ZoneForecast struct {
	Zone    string               `json:"zone,omitempty"`
	Updated string               `json:"updated,omitempty"`
	Periods []ZoneForecastPeriod `json:"periods"`
}

// ZoneForecastPeriod is one named period ("Tonight", "Monday").
type ZoneForecastPeriod struct {
	Number           int    `json:"number"`
	Name             string `json:"name"`
	DetailedForecast string `json:"detailedForecast"`
}

// StationCollection is returned by /zones/forecast/{zoneId}/stations.
type StationCollection struct {
	Type                string           `json:"type,omitempty"`
	Features            []StationFeature `json:"features"`
	ObservationStations []string         `json:"observationStations,omitempty"`
	Pagination          *Pagination      `json:"pagination,omitempty"`
}

// StationFeature is one observation station as GeoJSON.
type StationFeature struct {
	ID         string   `json:"id,omitempty"`
	Type       string   `json:"type,omitempty"`
	Geometry   Geometry `json:"geometry,omitempty"`
	Properties Station  `json:"properties"`
}

// Station describes an observation station.
type Station struct {
	StationIdentifier string             `json:"stationIdentifier"`
	Name              string             `json:"name"`
	Elevation         *QuantitativeValue `json:"elevation,omitempty"`
	TimeZone          string             `json:"timeZone,omitempty"`
	Forecast          string             `json:"forecast,omitempty"`
	County            string             `json:"county,omitempty"`
	FireWeatherZone   string             `json:"fireWeatherZone,omitempty"`
}

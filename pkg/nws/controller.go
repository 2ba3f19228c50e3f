// Package nws maps each NWS API endpoint the suite exercises to a single GET
// call. Functions only build the path and query string; the envelope from
// fetch.Do is returned as is, so callers judge the status themselves.
package nws

import (
	"context"

	"github.com/samvad-hq/weather-api-suite/pkg/apitypes"
	"github.com/samvad-hq/weather-api-suite/pkg/fetch"
	"github.com/samvad-hq/weather-api-suite/pkg/httpclient"
	"github.com/samvad-hq/weather-api-suite/pkg/query"
)

// GetAlerts calls GET /alerts.
func GetAlerts(ctx context.Context, client httpclient.Client, params AlertsQuery) (*fetch.Response[apitypes.AlertCollection], error) {
	return get[apitypes.AlertCollection](ctx, client, "/alerts"+query.Build(params))
}

// GetAlertByID calls GET /alerts/{id}.
func GetAlertByID(ctx context.Context, client httpclient.Client, id string) (*fetch.Response[apitypes.AlertFeature], error) {
	return get[apitypes.AlertFeature](ctx, client, query.Path("/alerts", id))
}

// GetSigmets calls GET /aviation/sigmets.
func GetSigmets(ctx context.Context, client httpclient.Client, params *SigmetQueryParams) (*fetch.Response[apitypes.SigmetCollection], error) {
	return get[apitypes.SigmetCollection](ctx, client, "/aviation/sigmets"+query.BuildFrom(params))
}

// GetSigmetsByATSU calls GET /aviation/sigmets/{atsu}.
func GetSigmetsByATSU(ctx context.Context, client httpclient.Client, atsu string) (*fetch.Response[apitypes.SigmetCollection], error) {
	return get[apitypes.SigmetCollection](ctx, client, query.Path("/aviation/sigmets", atsu))
}

// GetSigmetsByATSUByDate calls GET /aviation/sigmets/{atsu}/{date}.
func GetSigmetsByATSUByDate(ctx context.Context, client httpclient.Client, atsu, date string) (*fetch.Response[apitypes.SigmetCollection], error) {
	return get[apitypes.SigmetCollection](ctx, client, query.Path("/aviation/sigmets", atsu, date))
}

// GetSigmet calls GET /aviation/sigmets/{atsu}/{date}/{time}.
func GetSigmet(ctx context.Context, client httpclient.Client, atsu, date, time string) (*fetch.Response[apitypes.SigmetFeature], error) {
	return get[apitypes.SigmetFeature](ctx, client, query.Path("/aviation/sigmets", atsu, date, time))
}

// GetZones calls GET /zones.
func GetZones(ctx context.Context, client httpclient.Client, params *ZoneListQueryParams) (*fetch.Response[apitypes.ZoneCollection], error) {
	return get[apitypes.ZoneCollection](ctx, client, "/zones"+query.BuildFrom(params))
}

// GetZoneByTypeAndID calls GET /zones/{type}/{zoneId}.
func GetZoneByTypeAndID(ctx context.Context, client httpclient.Client, zoneType, zoneID string, params *ZoneQueryParams) (*fetch.Response[apitypes.ZoneFeature], error) {
	return get[apitypes.ZoneFeature](ctx, client, query.Path("/zones", zoneType, zoneID)+query.BuildFrom(params))
}

// GetZoneForecast calls GET /zones/{type}/{zoneId}/forecast.
func GetZoneForecast(ctx context.Context, client httpclient.Client, zoneType, zoneID string) (*fetch.Response[apitypes.ZoneForecastFeature], error) {
	return get[apitypes.ZoneForecastFeature](ctx, client, query.Path("/zones", zoneType, zoneID)+"/forecast")
}

// GetZoneStations calls GET /zones/forecast/{zoneId}/stations.
func GetZoneStations(ctx context.Context, client httpclient.Client, zoneID string, params *StationsQueryParams) (*fetch.Response[apitypes.StationCollection], error) {
	return get[apitypes.StationCollection](ctx, client, query.Path("/zones/forecast", zoneID)+"/stations"+query.BuildFrom(params))
}

// CheckHealth calls GET / and returns the status code; it is the connectivity probe run before live tests.
func CheckHealth(ctx context.Context, client httpclient.Client) (int, error) {
	res, err := fetch.Do[map[string]any](ctx, client, fetch.RequestConfig{URL: "/", Method: fetch.MethodGet})
	if err != nil {
		return 0, err
	}
	return res.Status, nil
}

func get[T any](ctx context.Context, client httpclient.Client, url string) (*fetch.Response[T], error) {
	return fetch.Do[T](ctx, client, fetch.RequestConfig{URL: url, Method: fetch.MethodGet})
}

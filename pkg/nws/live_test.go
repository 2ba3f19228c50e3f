//go:build e2e

package nws

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/samvad-hq/weather-api-suite/internal/config"
	"github.com/samvad-hq/weather-api-suite/pkg/httpclient"
)

// moduleRoot is where the .env.<APP_ENV> files written by wxsuite setup live.
const moduleRoot = "../.."

var live httpclient.Client

func TestMain(m *testing.M) {
	cfg, err := config.LoadFrom(moduleRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	live = liveClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.APITimeout)
	status, err := CheckHealth(ctx, live)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "health check against %s failed: %v\n", cfg.APIBaseURL, err)
	} else {
		fmt.Fprintf(os.Stderr, "health check: %s responded %d\n", cfg.APIBaseURL, status)
	}
	os.Exit(m.Run())
}

func liveCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func requireSuccess(t *testing.T, status int) {
	t.Helper()
	if status < 200 || status >= 300 {
		t.Fatalf("expected 2xx, got %d", status)
	}
}

func requireError(t *testing.T, status int) {
	t.Helper()
	if status < 400 || status >= 600 {
		t.Fatalf("expected 4xx/5xx, got %d", status)
	}
}

func TestLiveAlertsCollection(t *testing.T) {
	t.Parallel()
	res, err := GetAlerts(liveCtx(t), live, nil)
	if err != nil {
		t.Fatalf("GetAlerts: %v", err)
	}
	requireSuccess(t, res.Status)
	if res.Data == nil {
		t.Fatalf("expected decoded collection")
	}
	if res.Data.Title == "" {
		t.Fatalf("expected non-empty title")
	}
	alerts := res.Data.Alerts()
	if len(alerts) == 0 {
		t.Skip("no active alerts right now")
	}
	first := alerts[0]
	if first.ID == "" || first.Event == "" || first.AreaDesc == "" {
		t.Fatalf("alert missing core fields: %+v", first)
	}
	if _, err := time.Parse(time.RFC3339, first.Sent); err != nil {
		t.Fatalf("sent %q is not a timestamp: %v", first.Sent, err)
	}
	if p := res.Data.Pagination; p != nil && p.Next != "" {
		if !strings.HasPrefix(p.Next, "http") || !strings.Contains(p.Next, "alerts") {
			t.Fatalf("unexpected pagination link %q", p.Next)
		}
	}
}

func TestLiveAlertByID(t *testing.T) {
	t.Parallel()
	ctx := liveCtx(t)
	col, err := GetAlerts(ctx, live, AlertsQuery{"limit": 1})
	if err != nil {
		t.Fatalf("GetAlerts: %v", err)
	}
	requireSuccess(t, col.Status)
	if col.Data == nil || len(col.Data.Alerts()) == 0 {
		t.Skip("no alerts to pick an id from")
	}

	single, err := GetAlertByID(ctx, live, col.Data.Alerts()[0].ID)
	if err != nil {
		t.Fatalf("GetAlertByID: %v", err)
	}
	requireSuccess(t, single.Status)
	if single.Data == nil {
		t.Fatalf("expected decoded alert")
	}
}

func TestLiveAlertByUnknownID(t *testing.T) {
	t.Parallel()
	res, err := GetAlertByID(liveCtx(t), live, "does-not-exist-12345")
	if err != nil {
		t.Fatalf("GetAlertByID: %v", err)
	}
	requireError(t, res.Status)
}

func TestLiveSigmets(t *testing.T) {
	t.Parallel()
	res, err := GetSigmets(liveCtx(t), live, nil)
	if err != nil {
		t.Fatalf("GetSigmets: %v", err)
	}
	requireSuccess(t, res.Status)
	if res.Data == nil || res.Data.Features == nil {
		t.Fatalf("expected features array")
	}
	if len(res.Data.Features) > 0 {
		props := res.Data.Features[0].Properties
		if props == nil || props.ID == "" {
			t.Fatalf("first sigmet has no properties/id: %+v", res.Data.Features[0])
		}
	}
}

func TestLiveSigmetsQueryParams(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name      string
		params    SigmetQueryParams
		mustError bool
	}{
		{"unlikely sequence", SigmetQueryParams{Sequence: "999999999999"}, false},
		{"invalid sequence", SigmetQueryParams{Sequence: "!invalid-seq"}, true},
		{"valid start", SigmetQueryParams{Start: "2025-10-01T00:00:00Z"}, false},
		{"invalid start", SigmetQueryParams{Start: "not-a-date"}, true},
		{"valid end", SigmetQueryParams{End: "2025-10-18T00:00:00Z"}, false},
		{"invalid end", SigmetQueryParams{End: "invalid-end"}, true},
		{"valid date", SigmetQueryParams{Date: "2025-10-17"}, false},
		{"invalid date", SigmetQueryParams{Date: "32-13-2025"}, true},
		{"valid atsu", SigmetQueryParams{ATSU: "KKCI"}, false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			res, err := GetSigmets(liveCtx(t), live, &tc.params)
			if err != nil {
				t.Fatalf("GetSigmets: %v", err)
			}
			if tc.mustError {
				requireError(t, res.Status)
				return
			}
			if res.OK() {
				if res.Data == nil || res.Data.Features == nil {
					t.Fatalf("expected features array")
				}
				return
			}
			requireError(t, res.Status)
		})
	}
}

func TestLiveSigmetPaths(t *testing.T) {
	t.Parallel()
	ctx := liveCtx(t)

	list, err := GetSigmets(ctx, live, nil)
	if err != nil {
		t.Fatalf("GetSigmets: %v", err)
	}
	requireSuccess(t, list.Status)

	atsu, date, hhmm := "KEKA", time.Now().UTC().Format("2006-01-02"), "0000"
	if list.Data != nil && len(list.Data.Features) > 0 && list.Data.Features[0].Properties != nil {
		props := list.Data.Features[0].Properties
		if props.ATSU != "" {
			atsu = props.ATSU
		}
		if ts, err := time.Parse(time.RFC3339, props.IssueTime); err == nil {
			date, hhmm = ts.UTC().Format("2006-01-02"), ts.UTC().Format("1504")
		}
	}

	byATSU, err := GetSigmetsByATSU(ctx, live, atsu)
	if err != nil {
		t.Fatalf("GetSigmetsByATSU: %v", err)
	}
	if byATSU.OK() {
		if byATSU.Data == nil || byATSU.Data.Features == nil {
			t.Fatalf("expected features array for %s", atsu)
		}
	} else {
		requireError(t, byATSU.Status)
	}

	byDate, err := GetSigmetsByATSUByDate(ctx, live, atsu, date)
	if err != nil {
		t.Fatalf("GetSigmetsByATSUByDate: %v", err)
	}
	if !byDate.OK() {
		requireError(t, byDate.Status)
	}

	single, err := GetSigmet(ctx, live, atsu, date, hhmm)
	if err != nil {
		t.Fatalf("GetSigmet: %v", err)
	}
	if single.Status < 200 {
		t.Fatalf("unexpected status %d", single.Status)
	}
}

func TestLiveSigmetNegativePaths(t *testing.T) {
	t.Parallel()
	ctx := liveCtx(t)

	res, err := GetSigmetsByATSU(ctx, live, "NONEXISTENT_ATSU_999")
	if err != nil {
		t.Fatalf("GetSigmetsByATSU: %v", err)
	}
	requireError(t, res.Status)

	bad, err := GetSigmetsByATSUByDate(ctx, live, "BAD_ATSU", "2025-13-40")
	if err != nil {
		t.Fatalf("GetSigmetsByATSUByDate: %v", err)
	}
	requireError(t, bad.Status)
}

func TestLiveZonesQueryParams(t *testing.T) {
	t.Parallel()
	ctx := liveCtx(t)

	res, err := GetZones(ctx, live, &ZoneListQueryParams{Limit: Int(5)})
	if err != nil {
		t.Fatalf("GetZones: %v", err)
	}
	requireSuccess(t, res.Status)
	if res.Data == nil || res.Data.Features == nil {
		t.Fatalf("expected features array")
	}

	byID, err := GetZones(ctx, live, &ZoneListQueryParams{ID: []string{"ALZ001"}})
	if err != nil {
		t.Fatalf("GetZones by id: %v", err)
	}
	if byID.Status < 200 {
		t.Fatalf("unexpected status %d", byID.Status)
	}

	invalid, err := GetZones(ctx, live, &ZoneListQueryParams{Effective: "not-a-date"})
	if err != nil {
		t.Fatalf("GetZones invalid: %v", err)
	}
	requireError(t, invalid.Status)
}

func TestLiveZonePaths(t *testing.T) {
	t.Parallel()
	ctx := liveCtx(t)

	list, err := GetZones(ctx, live, &ZoneListQueryParams{Limit: Int(1)})
	if err != nil {
		t.Fatalf("GetZones: %v", err)
	}
	requireSuccess(t, list.Status)
	if list.Data == nil || len(list.Data.Features) == 0 {
		t.Skip("zone list is empty")
	}
	props := list.Data.Features[0].Properties
	zoneType := props.Type
	if zoneType == "" {
		zoneType = "public"
	}
	if props.ID == "" {
		t.Fatalf("first zone has no id")
	}

	single, err := GetZoneByTypeAndID(ctx, live, zoneType, props.ID, nil)
	if err != nil {
		t.Fatalf("GetZoneByTypeAndID: %v", err)
	}
	requireSuccess(t, single.Status)
	if single.Data == nil {
		t.Fatalf("expected decoded zone")
	}

	forecast, err := GetZoneForecast(ctx, live, zoneType, props.ID)
	if err != nil {
		t.Fatalf("GetZoneForecast: %v", err)
	}
	if forecast.Status < 200 {
		t.Fatalf("unexpected status %d", forecast.Status)
	}

	stations, err := GetZoneStations(ctx, live, props.ID, &StationsQueryParams{Limit: Int(5)})
	if err != nil {
		t.Fatalf("GetZoneStations: %v", err)
	}
	if stations.OK() {
		if stations.Data == nil {
			t.Fatalf("expected decoded stations")
		}
	} else {
		requireError(t, stations.Status)
	}
}

func TestLiveZoneUnknownID(t *testing.T) {
	t.Parallel()
	res, err := GetZoneByTypeAndID(liveCtx(t), live, "public", "ZZZ999", nil)
	if err != nil {
		t.Fatalf("GetZoneByTypeAndID: %v", err)
	}
	requireError(t, res.Status)
}

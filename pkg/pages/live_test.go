//go:build e2e

package pages

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/samvad-hq/weather-api-suite/pkg/httpclient"
)

func liveBrowser(t *testing.T) (*Browser, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	t.Cleanup(cancel)
	client := httpclient.NewRestyClient(30 * time.Second)
	return NewBrowser(client, map[string]string{"User-Agent": "weather-api-suite"}), ctx
}

func TestLiveMainPageStateSearch(t *testing.T) {
	b, ctx := liveBrowser(t)
	loc := RandomLocation()
	t.Logf("using test state %s", loc.State)

	page := NewMainPage(b, "")
	if err := page.Goto(ctx); err != nil {
		t.Fatalf("Goto: %v", err)
	}
	if err := page.EnterGetWeatherLocation(loc.State); err != nil {
		t.Fatalf("EnterGetWeatherLocation: %v", err)
	}
	if err := page.ClickGetWeatherButton(ctx); err != nil {
		t.Fatalf("ClickGetWeatherButton: %v", err)
	}
	titles, err := page.GetWeatherLocationTitle()
	if err != nil {
		t.Fatalf("GetWeatherLocationTitle: %v", err)
	}
	for _, title := range titles {
		if strings.Contains(title, "More than one location matched your submission") {
			return
		}
	}
	t.Fatalf("ambiguous-location title not shown, got %q", titles)
}

func TestLiveSearchPage(t *testing.T) {
	b, ctx := liveBrowser(t)
	page := NewSearchPage(b, "")
	if err := page.Goto(ctx); err != nil {
		t.Fatalf("Goto: %v", err)
	}
	if err := page.Search(ctx, "forecast"); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if s := b.Status(); s < 200 || s >= 300 {
		t.Fatalf("expected 2xx after search, got %d", s)
	}
}

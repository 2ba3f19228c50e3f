package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/samvad-hq/weather-api-suite/internal/config"
	"github.com/samvad-hq/weather-api-suite/internal/prompt"
	"github.com/samvad-hq/weather-api-suite/internal/runner/runnertest"
	"github.com/samvad-hq/weather-api-suite/internal/storage"
	"github.com/samvad-hq/weather-api-suite/pkg/httpclient"
)

func testConfig() *config.Config {
	return &config.Config{
		APIBaseURL:      "https://api.weather.gov",
		APITimeout:      2 * time.Second,
		ProjectFile:     "suite.yaml",
		ResultsDir:      "results",
		ScenariosDir:    "perf/scenarios",
		TestmoInstance:  "https://alsac.testmo.net",
		TestmoRunName:   "API Test Run",
		TestmoSource:    "api-tests",
		TestmoToken:     "tok",
		TestmoProjectID: "3",
		StorageType:     "none",
	}
}

func newTestSuite(t *testing.T, cfg *config.Config, deps Deps) *Suite {
	t.Helper()
	if deps.FS == nil {
		deps.FS = afero.NewMemMapFs()
	}
	if deps.Getenv == nil {
		deps.Getenv = func(string) string { return "" }
	}
	s, err := NewSuite(context.Background(), cfg, nil, deps)
	if err != nil {
		t.Fatalf("NewSuite: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestNewSuiteRequiresConfig(t *testing.T) {
	if _, err := NewSuite(context.Background(), nil, nil, Deps{}); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestNewSuiteLoadsPublishers(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "publishers.yaml", []byte("publishers:\n  - id: hook\n    type: http\n    http:\n      url: https://example.com/hook\n"), 0o644)
	cfg := testConfig()
	cfg.PublishersFile = "publishers.yaml"

	s := newTestSuite(t, cfg, Deps{FS: fs})
	if s.fanout.Size() != 1 {
		t.Fatalf("expected one publisher, got %d", s.fanout.Size())
	}

	cfg.PublishersFile = "missing.yaml"
	if _, err := NewSuite(context.Background(), cfg, nil, Deps{FS: fs}); err == nil {
		t.Fatalf("expected error for missing publishers file")
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "wx-test" {
			t.Errorf("missing user agent, got %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK"}`))
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.APIBaseURL = srv.URL
	cfg.APIUserAgent = "wx-test"
	var out bytes.Buffer
	s := newTestSuite(t, cfg, Deps{Out: &out})

	status, err := s.Health(context.Background())
	if err != nil || status != http.StatusOK {
		t.Fatalf("Health: status=%d err=%v", status, err)
	}
	if !strings.Contains(out.String(), "API Health Check: 200") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestValidateAndSetup(t *testing.T) {
	fs := afero.NewMemMapFs()
	var out bytes.Buffer
	s := newTestSuite(t, testConfig(), Deps{
		FS:       fs,
		Out:      &out,
		Prompter: prompt.NewScripted("https://example.invalid/openapi.json", "4", "https://api.weather.gov", "", "n"),
		Web:      stubWeb{},
	})

	report, err := s.Validate()
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if report.Passed() {
		t.Fatalf("empty checkout must not validate")
	}

	if err := s.Setup(context.Background()); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	report, err = s.Validate()
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !report.Passed() {
		t.Fatalf("expected configured checkout to validate, failed: %v", report.Failed())
	}
}

type stubWeb struct{}

type stubResponse struct{}

func (stubResponse) Body() []byte        { return []byte(`{"openapi":"3.0.0"}`) }
func (stubResponse) StatusCode() int     { return http.StatusOK }
func (stubResponse) Status() string      { return "OK" }
func (stubResponse) Header() http.Header { return http.Header{} }

func (stubWeb) Do(context.Context, httpclient.Request) (httpclient.Response, error) {
	return stubResponse{}, nil
}
func (stubWeb) Get(context.Context, string, map[string]string) (httpclient.Response, error) {
	return stubResponse{}, nil
}

func TestSubmitTestmoUsesConfiguredStore(t *testing.T) {
	fake := runnertest.New("testmo")
	dbPath := filepath.Join(t.TempDir(), "suite.db")
	s := newTestSuite(t, testConfig(), Deps{
		Runner: fake,
		OpenStore: func() (storage.Store, error) {
			return storage.NewStore("bbolt", dbPath, storage.Options{})
		},
	})

	first, err := s.SubmitTestmo(context.Background(), false)
	if err != nil || first.Skipped {
		t.Fatalf("first submit: %+v err=%v", first, err)
	}
	second, err := s.SubmitTestmo(context.Background(), false)
	if err != nil || !second.Skipped {
		t.Fatalf("expected second submit to be skipped: %+v err=%v", second, err)
	}
	forced, err := s.SubmitTestmo(context.Background(), true)
	if err != nil || forced.Skipped {
		t.Fatalf("forced submit: %+v err=%v", forced, err)
	}
}

func TestPerfReadsSaveFlagFromDevEnv(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "perf/scenarios/alerts.yml", []byte("config:\n  target: https://api.weather.gov\n"), 0o644)
	_ = afero.WriteFile(fs, ".env.dev", []byte("SAVE_ARTILLERY_RESULTS=1\n"), 0o644)
	fake := runnertest.New()
	s := newTestSuite(t, testConfig(), Deps{FS: fs, Runner: fake})

	results, err := s.Perf(context.Background())
	if err != nil {
		t.Fatalf("Perf: %v", err)
	}
	if len(results) != 1 || results[0].Output != "results/perf/alerts.json" {
		t.Fatalf("expected saved output, got %+v", results)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadFromReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	content := "API_BASE_URL=https://qa.example.gov\nSAVE_ARTILLERY_RESULTS=1\nAPI_TIMEOUT_SECONDS=5\n"
	if err := os.WriteFile(filepath.Join(dir, ".env.qa"), []byte(content), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("APP_ENV", "qa")
	// godotenv.Load sets process variables; register them for cleanup.
	t.Setenv("API_BASE_URL", "")
	os.Unsetenv("API_BASE_URL")
	t.Setenv("SAVE_ARTILLERY_RESULTS", "")
	os.Unsetenv("SAVE_ARTILLERY_RESULTS")
	t.Setenv("API_TIMEOUT_SECONDS", "")
	os.Unsetenv("API_TIMEOUT_SECONDS")

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Env != "qa" {
		t.Fatalf("unexpected env %q", cfg.Env)
	}
	if cfg.APIBaseURL != "https://qa.example.gov" {
		t.Fatalf("unexpected base url %q", cfg.APIBaseURL)
	}
	if !cfg.SaveArtilleryResults {
		t.Fatalf("expected save_artillery_results from env file")
	}
	if cfg.APITimeout != 5*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.APITimeout)
	}
	if cfg.StorageTTL != 24*time.Hour {
		t.Fatalf("unexpected default ttl %v", cfg.StorageTTL)
	}
}

func TestLoadFromRejectsInvalidValues(t *testing.T) {
	t.Setenv("APP_ENV", "none")
	t.Setenv("API_TIMEOUT_SECONDS", "0")
	if _, err := LoadFrom(t.TempDir()); err == nil {
		t.Fatalf("expected error for zero timeout")
	}

	t.Setenv("API_TIMEOUT_SECONDS", "10")
	t.Setenv("AUTH_TYPE", "kerberos")
	if _, err := LoadFrom(t.TempDir()); err == nil {
		t.Fatalf("expected error for unsupported auth type")
	}
}

func TestRequestHeaders(t *testing.T) {
	env := map[string]string{"API_KEY": "k1", "AUTH_TOKEN": "t1", "MY_SECRET": "s1"}
	getenv := func(k string) string { return env[k] }

	cases := []struct {
		name string
		cfg  Config
		want map[string]string
	}{
		{"none", Config{APIUserAgent: "ua", APIAccept: "application/json", AuthType: AuthNone},
			map[string]string{"User-Agent": "ua", "Accept": "application/json"}},
		{"api key", Config{AuthType: AuthAPIKey}, map[string]string{"X-API-Key": "k1"}},
		{"bearer", Config{AuthType: AuthBearer}, map[string]string{"Authorization": "Bearer t1"}},
		{"custom", Config{AuthType: AuthCustom, AuthHeader: "X-Secret", AuthEnvVar: "MY_SECRET"},
			map[string]string{"X-Secret": "s1"}},
		{"custom missing env", Config{AuthType: AuthCustom, AuthHeader: "X-Secret", AuthEnvVar: "UNSET"},
			map[string]string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.cfg.RequestHeaders(getenv)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("headers mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

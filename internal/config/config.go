package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Authentication modes written by the setup wizard.
const (
	AuthNone   = "none"
	AuthAPIKey = "api_key"
	AuthBearer = "bearer"
	AuthCustom = "custom"
)

// Config holds the suite configuration loaded from .env files and environment variables.
type Config struct {
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	APIBaseURL        string        `mapstructure:"api_base_url"`
	APIUserAgent      string        `mapstructure:"api_user_agent"`
	APIAccept         string        `mapstructure:"api_accept"`
	APITimeoutSeconds int64         `mapstructure:"api_timeout_seconds"`
	APITimeout        time.Duration `mapstructure:"-"`

	AuthType   string `mapstructure:"auth_type"`
	AuthHeader string `mapstructure:"auth_header"`
	AuthEnvVar string `mapstructure:"auth_env_var"`

	ProjectFile          string `mapstructure:"project_file"`
	ResultsDir           string `mapstructure:"results_dir"`
	ScenariosDir         string `mapstructure:"scenarios_dir"`
	SaveArtilleryResults bool   `mapstructure:"save_artillery_results"`

	TestmoToken     string `mapstructure:"testmo_token"`
	TestmoProjectID string `mapstructure:"testmo_project_id"`
	TestmoInstance  string `mapstructure:"testmo_instance"`
	TestmoRunName   string `mapstructure:"testmo_run_name"`
	TestmoSource    string `mapstructure:"testmo_source"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`

	PublishersFile string `mapstructure:"publishers_file"`
}

// Load reads configuration from the working directory's .env file and the environment.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom loads .env.<APP_ENV> (default dev) from dir, then environment variables.
// Variables already present in the environment win over the file.
func LoadFrom(dir string) (*Config, error) {
	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "dev"
	}
	_ = godotenv.Load(filepath.Join(dir, ".env."+env))

	v := viper.New()

	v.SetDefault("app_env", env)
	v.SetDefault("log_level", "info")
	v.SetDefault("api_base_url", "https://api.weather.gov")
	v.SetDefault("api_user_agent", "weather-api-suite")
	v.SetDefault("api_accept", "application/geo+json")
	v.SetDefault("api_timeout_seconds", 30)
	v.SetDefault("auth_type", AuthNone)
	v.SetDefault("auth_header", "")
	v.SetDefault("auth_env_var", "")
	v.SetDefault("project_file", "suite.yaml")
	v.SetDefault("results_dir", "results")
	v.SetDefault("scenarios_dir", "perf/scenarios")
	v.SetDefault("save_artillery_results", false)
	v.SetDefault("testmo_token", "")
	v.SetDefault("testmo_project_id", "")
	v.SetDefault("testmo_instance", "https://alsac.testmo.net")
	v.SetDefault("testmo_run_name", "API Test Run")
	v.SetDefault("testmo_source", "api-tests")
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/suite.db")
	v.SetDefault("storage_ttl_seconds", int64((24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((6*time.Hour)/time.Second))
	v.SetDefault("publishers_file", "")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.APITimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid api_timeout_seconds (must be positive seconds)")
	}
	cfg.APITimeout = time.Duration(cfg.APITimeoutSeconds) * time.Second

	if cfg.StorageTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	cfg.AuthType = strings.ToLower(strings.TrimSpace(cfg.AuthType))
	switch cfg.AuthType {
	case "", AuthNone, AuthAPIKey, AuthBearer, AuthCustom:
	default:
		return nil, fmt.Errorf("unsupported auth_type %q", cfg.AuthType)
	}

	return &cfg, nil
}

// RequestHeaders returns the default headers for API calls, including the
// authentication header when its environment variable is set.
func (c *Config) RequestHeaders(getenv func(string) string) map[string]string {
	if getenv == nil {
		getenv = os.Getenv
	}
	headers := make(map[string]string, 3)
	if c.APIUserAgent != "" {
		headers["User-Agent"] = c.APIUserAgent
	}
	if c.APIAccept != "" {
		headers["Accept"] = c.APIAccept
	}

	name, envVar, prefix := "", c.AuthEnvVar, ""
	switch c.AuthType {
	case AuthAPIKey:
		name = "X-API-Key"
		if envVar == "" {
			envVar = "API_KEY"
		}
	case AuthBearer:
		name, prefix = "Authorization", "Bearer "
		if envVar == "" {
			envVar = "AUTH_TOKEN"
		}
	case AuthCustom:
		name = c.AuthHeader
	}
	if name != "" && envVar != "" {
		if secret := strings.TrimSpace(getenv(envVar)); secret != "" {
			headers[name] = prefix + secret
		}
	}
	return headers
}

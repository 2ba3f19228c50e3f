package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"

	"github.com/samvad-hq/weather-api-suite/internal/config"
	"github.com/samvad-hq/weather-api-suite/internal/logger"
	"github.com/samvad-hq/weather-api-suite/internal/perf"
	"github.com/samvad-hq/weather-api-suite/internal/prompt"
	"github.com/samvad-hq/weather-api-suite/internal/runner"
	"github.com/samvad-hq/weather-api-suite/internal/setup"
	"github.com/samvad-hq/weather-api-suite/internal/storage"
	"github.com/samvad-hq/weather-api-suite/internal/testmo"
	"github.com/samvad-hq/weather-api-suite/internal/validate"
	"github.com/samvad-hq/weather-api-suite/pkg/httpclient"
	"github.com/samvad-hq/weather-api-suite/pkg/nws"
	"github.com/samvad-hq/weather-api-suite/pkg/publishers"
)

// Deps are the side-effecting collaborators of the suite. Zero values are
// replaced with the real implementations.
type Deps struct {
	FS       afero.Fs
	Runner   runner.Runner
	Prompter prompt.Prompter
	// API talks to the weather service; Web downloads arbitrary URLs.
	API httpclient.Client
	Web httpclient.Client
	Out io.Writer
	// OpenStore overrides how the submission history is opened.
	OpenStore func() (storage.Store, error)
	Getenv    func(string) string
}

// Suite wires configuration, logging and sinks into the suite commands.
type Suite struct {
	cfg    *config.Config
	log    logger.Logger
	deps   Deps
	fanout *publishers.Fanout
}

// NewSuite builds the runtime from config.
func NewSuite(ctx context.Context, cfg *config.Config, log logger.Logger, deps Deps) (*Suite, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	if deps.FS == nil {
		deps.FS = afero.NewOsFs()
	}
	if deps.Runner == nil {
		deps.Runner = runner.NewExec(log)
	}
	if deps.Prompter == nil {
		deps.Prompter = prompt.NewSurvey()
	}
	if deps.Getenv == nil {
		deps.Getenv = os.Getenv
	}
	if deps.API == nil {
		deps.API = httpclient.NewRestyClientWithOptions(httpclient.Options{
			BaseURL: cfg.APIBaseURL,
			Timeout: cfg.APITimeout,
			Headers: cfg.RequestHeaders(deps.Getenv),
		})
	}
	if deps.Web == nil {
		deps.Web = httpclient.NewRestyClient(cfg.APITimeout)
	}
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if deps.OpenStore == nil {
		deps.OpenStore = func() (storage.Store, error) {
			return storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
				TTL:             cfg.StorageTTL,
				CleanupInterval: cfg.StorageCleanupInterval,
			})
		}
	}

	fanout, err := buildFanout(ctx, cfg, deps.FS, log)
	if err != nil {
		return nil, err
	}

	return &Suite{cfg: cfg, log: log, deps: deps, fanout: fanout}, nil
}

func buildFanout(ctx context.Context, cfg *config.Config, fsys afero.Fs, log logger.Logger) (*publishers.Fanout, error) {
	if cfg.PublishersFile == "" {
		return publishers.NewFanout(nil), nil
	}
	reg, err := publishers.LoadRegistry(fsys, cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := reg.Enabled()
	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, p := range enabled {
		summaries = append(summaries, map[string]string{"id": p.ID, "type": p.Type})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubs), nil
}

// Close releases publisher connections.
func (s *Suite) Close() {
	if s == nil {
		return
	}
	if err := s.fanout.Close(); err != nil {
		s.log.ErrorObj("publisher close failed", "error", err.Error())
	}
}

// Setup runs the interactive wizard.
func (s *Suite) Setup(ctx context.Context) error {
	return setup.Run(ctx, setup.Options{
		FS:          s.deps.FS,
		Prompter:    s.deps.Prompter,
		HTTP:        s.deps.Web,
		Out:         s.deps.Out,
		Log:         s.log,
		ProjectFile: s.cfg.ProjectFile,
	})
}

// Validate checks the checkout and prints the report.
func (s *Suite) Validate() (*validate.Report, error) {
	report, err := validate.Run(validate.Options{FS: s.deps.FS, ProjectFile: s.cfg.ProjectFile})
	if err != nil {
		return nil, err
	}
	report.Write(s.deps.Out)
	return report, nil
}

// SubmitTestmo uploads the results directory to Testmo.
func (s *Suite) SubmitTestmo(ctx context.Context, force bool) (*testmo.Result, error) {
	store, err := s.deps.OpenStore()
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			s.log.ErrorObj("storage close failed", "error", err.Error())
		}
	}()

	return testmo.Submit(ctx, testmo.Options{
		FS:         s.deps.FS,
		Runner:     s.deps.Runner,
		Prompter:   s.deps.Prompter,
		Store:      store,
		Publisher:  s.fanout,
		Out:        s.deps.Out,
		Log:        s.log,
		Token:      s.cfg.TestmoToken,
		ProjectID:  s.cfg.TestmoProjectID,
		Instance:   s.cfg.TestmoInstance,
		RunName:    s.cfg.TestmoRunName,
		Source:     s.cfg.TestmoSource,
		ResultsDir: s.cfg.ResultsDir,
		Force:      force,
	})
}

// Perf runs the Artillery scenarios.
func (s *Suite) Perf(ctx context.Context) ([]perf.ScenarioResult, error) {
	save := s.cfg.SaveArtilleryResults ||
		perf.SaveResults(s.deps.FS, s.deps.Getenv(perf.SaveResultsKey), setup.DevEnvFile)
	return perf.Run(ctx, perf.Options{
		FS:           s.deps.FS,
		Runner:       s.deps.Runner,
		Publisher:    s.fanout,
		Out:          s.deps.Out,
		Log:          s.log,
		ScenariosDir: s.cfg.ScenariosDir,
		ResultsDir:   s.cfg.ResultsDir,
		SaveResults:  save,
	})
}

// Health probes the API root and prints the status code.
func (s *Suite) Health(ctx context.Context) (int, error) {
	status, err := nws.CheckHealth(ctx, s.deps.API)
	if err != nil {
		s.log.WarnObj("api health check failed", "health", map[string]any{
			"base_url": s.cfg.APIBaseURL,
			"error":    err.Error(),
		})
		return 0, err
	}
	fmt.Fprintf(s.deps.Out, "API Health Check: %d\n", status)
	s.log.InfoObj("api health check", "health", map[string]any{"base_url": s.cfg.APIBaseURL, "status": status})
	return status, nil
}

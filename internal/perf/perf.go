// Package perf runs Artillery load-test scenarios and optionally keeps
// their JSON and HTML reports.
package perf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/samvad-hq/weather-api-suite/internal/logger"
	"github.com/samvad-hq/weather-api-suite/internal/runner"
	"github.com/samvad-hq/weather-api-suite/pkg/publishers"
)

// ErrNoScenarios is returned when the scenarios directory has no YAML files.
var ErrNoScenarios = errors.New("no YAML scenarios found")

// SaveResultsKey toggles report saving, from the environment or .env.dev.
const SaveResultsKey = "SAVE_ARTILLERY_RESULTS"

// EventPublisher receives the run event once all scenarios have run.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.RunEvent) (int, error)
}

// Options configures a perf run.
type Options struct {
	FS           afero.Fs
	Runner       runner.Runner
	Publisher    EventPublisher
	Out          io.Writer
	Log          logger.Logger
	ScenariosDir string
	ResultsDir   string
	SaveResults  bool
}

// Scenario is the part of an Artillery script the runner reports on.
type Scenario struct {
	File   string
	Target string
	Phases int
}

type scenarioDoc struct {
	Config struct {
		Target string           `yaml:"target"`
		Phases []map[string]any `yaml:"phases"`
	} `yaml:"config"`
}

// ScenarioResult is the outcome of one scenario.
type ScenarioResult struct {
	Scenario Scenario
	Output   string
	Report   string
	Err      error
}

// Discover lists *.yml and *.yaml files in dir, sorted by name.
func Discover(fsys afero.Fs, dir string) ([]string, error) {
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext := strings.ToLower(path.Ext(e.Name())); ext == ".yml" || ext == ".yaml" {
			files = append(files, path.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoScenarios, dir)
	}
	return files, nil
}

// Inspect reads the target and phase count of a scenario file.
func Inspect(fsys afero.Fs, file string) (Scenario, error) {
	sc := Scenario{File: file}
	raw, err := afero.ReadFile(fsys, file)
	if err != nil {
		return sc, err
	}
	var doc scenarioDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return sc, fmt.Errorf("decode %s: %w", file, err)
	}
	sc.Target = doc.Config.Target
	sc.Phases = len(doc.Config.Phases)
	return sc, nil
}

// SaveResults reports whether reports should be kept: envValue wins when it
// enables saving, otherwise the key is looked up in devEnvFile.
func SaveResults(fsys afero.Fs, envValue, devEnvFile string) bool {
	if truthy(envValue) {
		return true
	}
	raw, err := afero.ReadFile(fsys, devEnvFile)
	if err != nil {
		return false
	}
	vals, err := godotenv.Parse(bytes.NewReader(raw))
	if err != nil {
		return false
	}
	return truthy(vals[SaveResultsKey])
}

func truthy(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "1" || v == "true"
}

// Run executes every scenario with npx artillery. All scenarios run even
// when one fails; failures are joined into the returned error.
func Run(ctx context.Context, opts Options) ([]ScenarioResult, error) {
	if opts.FS == nil || opts.Runner == nil {
		return nil, errors.New("perf: file system and runner are required")
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.ResultsDir == "" {
		opts.ResultsDir = "results"
	}
	log := logger.Ensure(opts.Log)
	started := time.Now()

	files, err := Discover(opts.FS, opts.ScenariosDir)
	if err != nil {
		return nil, err
	}

	outDir := path.Join(opts.ResultsDir, "perf")
	if opts.SaveResults {
		if err := opts.FS.MkdirAll(outDir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", outDir, err)
		}
		fmt.Fprintln(opts.Out, "Saving Artillery JSON/HTML results to", outDir)
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = path.Base(f)
	}
	fmt.Fprintf(opts.Out, "Found %d scenario(s): %s\n", len(files), strings.Join(names, ", "))

	rule := strings.Repeat("=", 60)
	results := make([]ScenarioResult, 0, len(files))
	var errs []error
	for _, file := range files {
		sc, err := Inspect(opts.FS, file)
		if err != nil {
			log.WarnObj("scenario could not be inspected", "perf_scenario", map[string]any{"file": file, "error": err.Error()})
		} else {
			log.InfoObj("running scenario", "perf_scenario", map[string]any{"file": file, "target": sc.Target, "phases": sc.Phases})
		}

		fmt.Fprintf(opts.Out, "\n%s\nRunning scenario: %s\n", rule, path.Base(file))
		res := runScenario(ctx, opts, sc, outDir)
		if res.Err != nil {
			fmt.Fprintf(opts.Out, "Scenario %s failed: %v\n", path.Base(file), res.Err)
			errs = append(errs, fmt.Errorf("scenario %s: %w", path.Base(file), res.Err))
		} else {
			fmt.Fprintf(opts.Out, "Scenario %s finished successfully\n", path.Base(file))
		}
		results = append(results, res)
	}

	fmt.Fprintf(opts.Out, "\n%s\n", rule)
	runErr := errors.Join(errs...)

	evt := publishers.NewRunEvent(publishers.KindPerf, opts.ScenariosDir, started)
	if opts.SaveResults {
		evt.Results = outDir
	}
	summary := fmt.Sprintf("%d/%d scenarios passed", len(files)-len(errs), len(files))
	if runErr != nil {
		fmt.Fprintln(opts.Out, "One or more scenarios failed")
		evt = evt.Finish(publishers.StatusFailed, summary)
	} else {
		fmt.Fprintln(opts.Out, "All scenarios completed successfully")
		evt = evt.Finish(publishers.StatusPassed, summary)
	}
	if opts.Publisher != nil {
		if _, err := opts.Publisher.Publish(ctx, evt); err != nil {
			log.WarnObj("run event publish failed", "run_event", map[string]any{"run_id": evt.RunID, "error": err.Error()})
		}
	}
	return results, runErr
}

func runScenario(ctx context.Context, opts Options, sc Scenario, outDir string) ScenarioResult {
	res := ScenarioResult{Scenario: sc}
	base := strings.TrimSuffix(path.Base(sc.File), path.Ext(sc.File))

	args := []string{"artillery", "run"}
	if opts.SaveResults {
		res.Output = path.Join(outDir, base+".json")
		args = append(args, "--output", res.Output)
	}
	args = append(args, sc.File)

	if err := opts.Runner.Run(ctx, runner.Command{Name: "npx", Args: args}); err != nil {
		res.Err = err
		return res
	}
	if !opts.SaveResults {
		return res
	}

	report := path.Join(outDir, base+".html")
	err := opts.Runner.Run(ctx, runner.Command{Name: "npx", Args: []string{"artillery", "report", "--output", report, res.Output}})
	if err != nil {
		fmt.Fprintf(opts.Out, "Generating Artillery HTML report failed: %v\n", err)
		return res
	}
	res.Report = report
	return res
}

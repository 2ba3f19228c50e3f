// Package testmo submits JUnit and Artillery results to a Testmo instance
// through the Testmo CLI.
package testmo

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/samvad-hq/weather-api-suite/internal/logger"
	"github.com/samvad-hq/weather-api-suite/internal/prompt"
	"github.com/samvad-hq/weather-api-suite/internal/runner"
	"github.com/samvad-hq/weather-api-suite/internal/storage"
	"github.com/samvad-hq/weather-api-suite/pkg/publishers"
)

var (
	// ErrCLINotFound means the testmo CLI could not be run.
	ErrCLINotFound = errors.New("testmo CLI not found in PATH")
	// ErrMissingCredentials means no token or project id was supplied.
	ErrMissingCredentials = errors.New("testmo token and project id are required")
)

const (
	cliName       = "testmo"
	npxPackage    = "@testmo/cli"
	submitCommand = "automation:run:submit"
)

// InstallHint is printed when the CLI is missing.
const InstallHint = `Please install the Testmo CLI and ensure it is available on your PATH.
For example (npm global):
  npm install -g @testmo/cli

If you prefer not to install globally, you can use npx:
  npx @testmo/cli automation:run:submit --help`

// EventPublisher receives the run event after a submission attempt.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.RunEvent) (int, error)
}

// Options configures a submission.
type Options struct {
	FS        afero.Fs
	Runner    runner.Runner
	Prompter  prompt.Prompter
	Store     storage.Store
	Publisher EventPublisher
	Out       io.Writer
	Log       logger.Logger

	Token      string
	ProjectID  string
	Instance   string
	RunName    string
	Source     string
	ResultsDir string
	// Force resubmits a result set already recorded in the store.
	Force bool
}

// Result describes what was submitted.
type Result struct {
	Results []string
	Files   []string
	Key     string
	Skipped bool
	Command runner.Command
}

// Submit runs the whole submission flow.
func Submit(ctx context.Context, opts Options) (*Result, error) {
	if opts.FS == nil || opts.Runner == nil {
		return nil, errors.New("testmo: file system and runner are required")
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.ResultsDir == "" {
		opts.ResultsDir = "results"
	}
	log := logger.Ensure(opts.Log)
	started := time.Now()

	if err := opts.Runner.Run(ctx, runner.Command{Name: cliName, Args: []string{"--version"}, Quiet: true}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCLINotFound, err)
	}

	token, projectID, err := credentials(opts)
	if err != nil {
		return nil, err
	}

	results, files, err := discover(opts.FS, opts.ResultsDir, log)
	if err != nil {
		return nil, err
	}
	res := &Result{
		Results: results,
		Files:   files,
		Key:     fingerprint(opts.FS, files, opts.Instance, projectID),
	}

	evt := publishers.NewRunEvent(publishers.KindTestmo, opts.RunName, started)
	evt.Results = strings.Join(results, ",")
	evt.Attributes = map[string]string{"project_id": projectID, "instance": opts.Instance}

	if opts.Store != nil && !opts.Force {
		prev, found, err := opts.Store.Lookup(res.Key)
		if err != nil {
			log.WarnObj("submission history lookup failed", "testmo_history", map[string]any{"error": err.Error()})
		} else if found {
			res.Skipped = true
			fmt.Fprintf(opts.Out, "Results already submitted as %q at %s; use --force to resubmit.\n",
				prev.RunName, prev.SubmittedAt.Format(time.RFC3339))
			publish(ctx, opts.Publisher, log, evt.Finish(publishers.StatusSkipped, "duplicate result set"))
			return res, nil
		}
	}

	args := []string{
		submitCommand,
		"--instance", opts.Instance,
		"--project-id", projectID,
		"--name", opts.RunName,
		"--source", opts.Source,
		"--results", strings.Join(results, ","),
	}
	primary := runner.Command{Name: cliName, Args: args}.WithEnv("TESTMO_TOKEN", token)
	res.Command = primary

	fmt.Fprintln(opts.Out, "Submitting results to Testmo...")
	log.InfoObj("submitting results to testmo", "testmo_submit", map[string]any{
		"instance":   opts.Instance,
		"project_id": projectID,
		"results":    results,
		"files":      len(files),
	})

	if err := opts.Runner.Run(ctx, primary); err != nil {
		fmt.Fprintln(opts.Out, "`testmo` CLI not runnable directly, attempting to use `npx @testmo/cli` fallback")
		log.WarnObj("testmo cli failed, trying npx", "testmo_fallback", map[string]any{"error": err.Error()})

		fallback := runner.Command{Name: "npx", Args: append([]string{npxPackage}, args...), Env: primary.Env}
		res.Command = fallback
		if err2 := opts.Runner.Run(ctx, fallback); err2 != nil {
			publish(ctx, opts.Publisher, log, evt.Finish(publishers.StatusFailed, err2.Error()))
			return res, fmt.Errorf("testmo submission failed: %w", errors.Join(err, err2))
		}
	}

	if opts.Store != nil {
		if err := opts.Store.Record(storage.Submission{
			Key:     res.Key,
			RunName: opts.RunName,
			Source:  opts.Source,
			Files:   len(files),
		}); err != nil {
			log.WarnObj("recording submission failed", "testmo_history", map[string]any{"error": err.Error()})
		}
	}
	publish(ctx, opts.Publisher, log, evt.Finish(publishers.StatusPassed, fmt.Sprintf("%d result files", len(files))))

	fmt.Fprintln(opts.Out, "\nTestmo submission finished")
	return res, nil
}

func credentials(opts Options) (string, string, error) {
	token := strings.TrimSpace(opts.Token)
	if token == "" && opts.Prompter != nil {
		t, err := opts.Prompter.Password("Enter your Testmo token:")
		if err != nil {
			return "", "", err
		}
		token = t
	}
	if token == "" {
		return "", "", fmt.Errorf("%w: token is empty", ErrMissingCredentials)
	}

	projectID := strings.TrimSpace(opts.ProjectID)
	if projectID == "" && opts.Prompter != nil {
		p, err := opts.Prompter.Input("Enter your Testmo project ID:", "")
		if err != nil {
			return "", "", err
		}
		projectID = p
	}
	if projectID == "" {
		return "", "", fmt.Errorf("%w: project id is empty", ErrMissingCredentials)
	}
	return token, projectID, nil
}

// discover returns the result globs passed to the CLI and the files they
// currently match. The Artillery summary is regenerated when a perf
// directory exists.
func discover(fsys afero.Fs, resultsDir string, log logger.Logger) ([]string, []string, error) {
	results := []string{path.Join(resultsDir, "*.xml")}

	perfDir := path.Join(resultsDir, "perf")
	if ok, _ := afero.IsDir(fsys, perfDir); ok {
		results = append(results, path.Join(perfDir, "*.json"), path.Join(perfDir, "*.html"))
		// A missing summary never blocks submitting the raw results.
		if summary, err := WriteSummary(fsys, perfDir); err != nil {
			log.WarnObj("artillery summary not written", "testmo_summary", map[string]any{
				"dir":   perfDir,
				"error": err.Error(),
			})
		} else {
			results = append(results, summary)
		}
	}

	var files []string
	for _, pattern := range results {
		matches, err := afero.Glob(fsys, pattern)
		if err != nil {
			return nil, nil, fmt.Errorf("glob %s: %w", pattern, err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return results, files, nil
}

// fingerprint identifies a result set by target and file contents.
func fingerprint(fsys afero.Fs, files []string, instance, projectID string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00", instance, projectID)
	for _, f := range files {
		fmt.Fprintf(h, "%s\x00", f)
		if raw, err := afero.ReadFile(fsys, f); err == nil {
			h.Write(raw)
		}
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func publish(ctx context.Context, pub EventPublisher, log logger.Logger, evt publishers.RunEvent) {
	if pub == nil {
		return
	}
	n, err := pub.Publish(ctx, evt)
	if err != nil {
		log.WarnObj("run event publish failed", "run_event", map[string]any{
			"run_id":    evt.RunID,
			"delivered": n,
			"error":     err.Error(),
		})
	}
}

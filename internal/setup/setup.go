// Package setup implements the interactive wizard that prepares a checkout
// for a new API: descriptor, authentication, environment files, the API
// definition download and optional Testmo wiring.
package setup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/afero"

	"github.com/samvad-hq/weather-api-suite/internal/config"
	"github.com/samvad-hq/weather-api-suite/internal/logger"
	"github.com/samvad-hq/weather-api-suite/internal/project"
	"github.com/samvad-hq/weather-api-suite/internal/prompt"
	"github.com/samvad-hq/weather-api-suite/pkg/httpclient"
)

// ErrCancelled is returned when the operator declines to reconfigure a configured checkout.
var ErrCancelled = errors.New("setup cancelled")

// Environment files written by the wizard.
const (
	DevEnvFile = ".env.dev"
	QAEnvFile  = ".env.qa"
)

// Authentication menu entries, in the order they are offered.
var authOptions = []string{
	"1. API Key (X-API-Key header)",
	"2. Bearer Token (Authorization: Bearer)",
	"3. Custom headers",
	"4. No authentication",
}

// Options configures a wizard run.
type Options struct {
	FS          afero.Fs
	Prompter    prompt.Prompter
	HTTP        httpclient.Client
	Out         io.Writer
	Log         logger.Logger
	ProjectFile string
}

type wizard struct {
	opts Options
	ok   *color.Color
	bad  *color.Color
	head *color.Color
}

// Run executes the wizard. ErrCancelled means nothing was changed.
func Run(ctx context.Context, opts Options) error {
	if opts.FS == nil || opts.Prompter == nil {
		return errors.New("setup: file system and prompter are required")
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.ProjectFile == "" {
		opts.ProjectFile = project.DefaultFile
	}
	opts.Log = logger.Ensure(opts.Log)

	w := &wizard{
		opts: opts,
		ok:   color.New(color.FgGreen),
		bad:  color.New(color.FgRed),
		head: color.New(color.Bold),
	}
	return w.run(ctx)
}

func (w *wizard) printf(format string, args ...any) {
	fmt.Fprintf(w.opts.Out, format, args...)
}

func (w *wizard) run(ctx context.Context) error {
	w.printf("🚀 Welcome to the weather API suite setup wizard!\n\n")

	w.head.Fprintln(w.opts.Out, "Step 1: Checking project state...")
	proj, err := project.Load(w.opts.FS, w.opts.ProjectFile)
	if err != nil {
		return err
	}
	if proj.Configured() {
		w.ok.Fprintln(w.opts.Out, "✅ Project appears to already be configured.")
		again, err := w.opts.Prompter.Confirm("Do you want to reconfigure? (y/N)", false)
		if err != nil {
			return err
		}
		if !again {
			w.printf("Setup cancelled. Run \"wxsuite validate\" to check configuration.\n")
			return ErrCancelled
		}
	}

	w.head.Fprintln(w.opts.Out, "\nStep 2: API Configuration")
	specURL, err := w.opts.Prompter.Input("Please provide your API definition URL (Swagger/OpenAPI):", "")
	if err != nil {
		return err
	}
	if specURL == "" {
		return errors.New("API URL is required")
	}
	proj.Codegen.SpecURL = specURL
	if proj.Codegen.Output == "" {
		proj.Codegen.Output = project.DefaultDefinitionFile
	}

	w.head.Fprintln(w.opts.Out, "\nStep 3: Authentication Setup")
	auth, err := w.askAuth()
	if err != nil {
		return err
	}
	proj.Auth = auth
	if err := project.Save(w.opts.FS, w.opts.ProjectFile, proj); err != nil {
		return err
	}
	w.ok.Fprintf(w.opts.Out, "✅ Updated %s with API URL and authentication\n", w.opts.ProjectFile)

	w.head.Fprintln(w.opts.Out, "\nStep 4: Environment Configuration")
	devURL, err := w.opts.Prompter.Input("Enter development API base URL:", "")
	if err != nil {
		return err
	}
	qaURL, err := w.opts.Prompter.Input("Enter QA API base URL (or press Enter to use dev URL):", "")
	if err != nil {
		return err
	}
	if qaURL == "" {
		qaURL = devURL
	}
	devEnv, qaEnv := EnvFiles(devURL, qaURL, auth)
	if err := afero.WriteFile(w.opts.FS, DevEnvFile, []byte(devEnv), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", DevEnvFile, err)
	}
	if err := afero.WriteFile(w.opts.FS, QAEnvFile, []byte(qaEnv), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", QAEnvFile, err)
	}
	w.ok.Fprintln(w.opts.Out, "✅ Created environment files")

	w.head.Fprintln(w.opts.Out, "\nStep 5: Downloading the API definition...")
	if err := w.download(ctx, proj); err != nil {
		w.bad.Fprintf(w.opts.Out, "❌ Failed to download the API definition. Check the URL and retry with: wxsuite setup\n")
		w.printf("Error: %v\n", err)
		w.opts.Log.WarnObj("api definition download failed", "setup_download", map[string]any{
			"url":   proj.Codegen.SpecURL,
			"error": err.Error(),
		})
	} else {
		w.ok.Fprintf(w.opts.Out, "✅ Saved API definition to %s\n", proj.DefinitionFile())
	}

	w.head.Fprintln(w.opts.Out, "\nStep 6: Testmo Integration (Optional)")
	if err := w.configureTestmo(proj); err != nil {
		return err
	}

	w.printf("\n🎉 Setup wizard completed successfully!\n")
	w.printf("\nNext steps:\n")
	w.printf("1. Review and update your .env files with actual credentials\n")
	w.printf("2. Add endpoint functions to pkg/nws for your API\n")
	w.printf("3. Write your first test next to them\n")
	w.printf("4. Run tests with: APP_ENV=dev go test -tags e2e ./...\n")
	w.printf("\nRun validation: wxsuite validate\n")
	return nil
}

func (w *wizard) askAuth() (project.Auth, error) {
	choice, err := w.opts.Prompter.Select("Select authentication type (1-4):", authOptions, authOptions[3])
	if err != nil {
		return project.Auth{}, err
	}
	switch {
	case strings.HasPrefix(choice, "1"):
		return project.Auth{Type: config.AuthAPIKey, Header: "X-API-Key", EnvVar: "API_KEY"}, nil
	case strings.HasPrefix(choice, "2"):
		return project.Auth{Type: config.AuthBearer, Header: "Authorization", EnvVar: "AUTH_TOKEN"}, nil
	case strings.HasPrefix(choice, "3"):
		header, err := w.opts.Prompter.Input("Enter custom header name:", "")
		if err != nil {
			return project.Auth{}, err
		}
		envVar, err := w.opts.Prompter.Input("Enter environment variable name:", "")
		if err != nil {
			return project.Auth{}, err
		}
		return project.Auth{Type: config.AuthCustom, Header: header, EnvVar: envVar}, nil
	default:
		return project.Auth{Type: config.AuthNone}, nil
	}
}

func authEnvVar(a project.Auth) string {
	if a.Type == config.AuthNone {
		return ""
	}
	return a.EnvVar
}

// EnvFiles renders the dev and QA environment files. The AUTH_* keys carry
// the chosen authentication mode to config.Load; the credential itself is
// left as a commented example.
func EnvFiles(devURL, qaURL string, auth project.Auth) (string, string) {
	authType := auth.Type
	if authType == "" {
		authType = config.AuthNone
	}
	keys := "AUTH_TYPE=" + authType + "\n"
	if authType != config.AuthNone {
		keys += "AUTH_HEADER=" + auth.Header + "\nAUTH_ENV_VAR=" + auth.EnvVar + "\n"
	}

	example := ""
	if envVar := authEnvVar(auth); envVar != "" {
		example = envVar + "=your-" + strings.Replace(strings.ToLower(envVar), "_", "-", 1)
	}

	devHint, qaHint := "# No authentication required", "# No authentication required"
	if example != "" {
		devHint = "# " + example
		qaHint = "# " + strings.Replace(example, "your-", "your-qa-", 1)
	}

	dev := "API_BASE_URL=" + devURL + "\n" + keys + "# Add your API authentication variables here\n" + devHint + "\n"
	qa := "API_BASE_URL=" + qaURL + "\n" + keys + "# Add your QA API authentication variables here\n" + qaHint + "\n"
	return dev, qa
}

func (w *wizard) download(ctx context.Context, proj *project.Project) error {
	if w.opts.HTTP == nil {
		return errors.New("no http client configured")
	}
	resp, err := w.opts.HTTP.Get(ctx, proj.Codegen.SpecURL, map[string]string{"Accept": "application/json"})
	if err != nil {
		return err
	}
	if code := resp.StatusCode(); code < 200 || code > 299 {
		return fmt.Errorf("unexpected status %d %s", code, resp.Status())
	}
	if err := afero.WriteFile(w.opts.FS, proj.DefinitionFile(), resp.Body(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", proj.DefinitionFile(), err)
	}
	return nil
}

func (w *wizard) configureTestmo(proj *project.Project) error {
	use, err := w.opts.Prompter.Confirm("Do you want to configure Testmo reporting? (y/N)", false)
	if err != nil || !use {
		return err
	}
	token, err := w.opts.Prompter.Password("Enter your Testmo token:")
	if err != nil {
		return err
	}
	projectID, err := w.opts.Prompter.Input("Enter your Testmo project ID:", "")
	if err != nil {
		return err
	}
	if token == "" || projectID == "" {
		w.printf("Testmo token and project id are required to configure automated submission. Skipping Testmo setup.\n")
		return nil
	}

	for _, path := range []string{DevEnvFile, QAEnvFile} {
		if err := AppendTestmoExample(w.opts.FS, path, token, projectID); err != nil {
			w.printf("Could not update %s: %v\n", path, err)
		}
	}

	proj.SetScript(project.SubmitScript, "wxsuite testmo-submit")
	if err := project.Save(w.opts.FS, w.opts.ProjectFile, proj); err != nil {
		w.printf("Could not update %s with the testmo script: %v\n", w.opts.ProjectFile, err)
	} else {
		w.ok.Fprintf(w.opts.Out, "✅ Added script %s: wxsuite testmo-submit\n", project.SubmitScript)
	}
	w.ok.Fprintln(w.opts.Out, "✅ Testmo reporting configured (secrets added as commented examples in .env files).")
	return nil
}

// AppendTestmoExample appends commented Testmo credentials to an env file
// unless it already mentions them.
func AppendTestmoExample(fsys afero.Fs, path, token, projectID string) error {
	var content string
	if ok, _ := afero.Exists(fsys, path); ok {
		raw, err := afero.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		content = string(raw)
	}
	if strings.Contains(content, "TESTMO_PROJECT_ID") || strings.Contains(content, "TESTMO_TOKEN") {
		return nil
	}
	content += "\n# Testmo submission (uncomment and set in CI or locally)\n# TESTMO_TOKEN=" + token + "\n# TESTMO_PROJECT_ID=" + projectID + "\n"
	return afero.WriteFile(fsys, path, []byte(content), 0o644)
}

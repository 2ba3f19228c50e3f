package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/weather-api-suite/internal/app"
	"github.com/samvad-hq/weather-api-suite/internal/config"
	"github.com/samvad-hq/weather-api-suite/internal/logger"
	"github.com/samvad-hq/weather-api-suite/internal/perf"
	"github.com/samvad-hq/weather-api-suite/internal/prompt"
	"github.com/samvad-hq/weather-api-suite/internal/setup"
	"github.com/samvad-hq/weather-api-suite/internal/testmo"
)

// exitError carries a process exit code through cobra.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "wxsuite: %v\n", err)
	}
	os.Exit(exitCode(err))
}

func run(ctx context.Context, args []string) error {
	root := newRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// exitCode maps command errors to process exit codes.
func exitCode(err error) int {
	var ee *exitError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ee):
		return ee.code
	case errors.Is(err, setup.ErrCancelled), errors.Is(err, prompt.ErrInterrupted):
		return 0
	case errors.Is(err, testmo.ErrCLINotFound):
		return 3
	case errors.Is(err, testmo.ErrMissingCredentials), errors.Is(err, perf.ErrNoScenarios):
		return 2
	default:
		return 1
	}
}

// withSuite loads config, logging and the suite runtime around fn.
func withSuite(cmd *cobra.Command, fn func(ctx context.Context, s *app.Suite) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.DebugObj("wxsuite starting", "command", map[string]any{
		"name":     cmd.Name(),
		"app_env":  cfg.Env,
		"base_url": cfg.APIBaseURL,
	})

	suite, err := app.NewSuite(cmd.Context(), cfg, log, app.Deps{Out: cmd.OutOrStdout()})
	if err != nil {
		logger.ErrorObj("failed to initialize suite", "error", err.Error())
		return err
	}
	defer suite.Close()

	return fn(cmd.Context(), suite)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "wxsuite",
		Short:         "Tooling for the weather.gov API test suite",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newSetupCmd(),
		newValidateCmd(),
		newTestmoCmd(),
		newPerfCmd(),
		newHealthCmd(),
	)
	return root
}

func newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Interactively configure the API definition, authentication and env files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSuite(cmd, func(ctx context.Context, s *app.Suite) error {
				err := s.Setup(ctx)
				if errors.Is(err, setup.ErrCancelled) {
					return nil
				}
				if err != nil {
					return fmt.Errorf("setup failed: %w", err)
				}
				return nil
			})
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the project setup is complete",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSuite(cmd, func(_ context.Context, s *app.Suite) error {
				report, err := s.Validate()
				if err != nil {
					return err
				}
				if !report.Passed() {
					return &exitError{code: 1, err: fmt.Errorf("setup incomplete: %d check(s) failed", len(report.Failed()))}
				}
				return nil
			})
		},
	}
}

func newTestmoCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "testmo-submit",
		Short: "Submit JUnit and Artillery results to Testmo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSuite(cmd, func(ctx context.Context, s *app.Suite) error {
				_, err := s.SubmitTestmo(ctx, force)
				if errors.Is(err, testmo.ErrCLINotFound) {
					fmt.Fprintln(cmd.ErrOrStderr(), "\nTestmo CLI not found in PATH.")
					fmt.Fprintln(cmd.ErrOrStderr(), testmo.InstallHint)
				}
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "submit even if this result set was already submitted")
	return cmd
}

func newPerfCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "perf",
		Short: "Run the Artillery performance scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSuite(cmd, func(ctx context.Context, s *app.Suite) error {
				_, err := s.Perf(ctx)
				return err
			})
		},
	}
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Probe the API base URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSuite(cmd, func(ctx context.Context, s *app.Suite) error {
				_, err := s.Health(ctx)
				return err
			})
		},
	}
}

// Package runner executes external tools (the Testmo CLI, npx, Artillery)
// on behalf of the suite commands.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/shlex"
	"golang.org/x/sys/execabs"
)

// ErrNoCommand indicates an empty command line.
var ErrNoCommand = errors.New("runner: no command to execute")

// Command describes one program invocation.
type Command struct {
	Name string
	Args []string
	// Env holds KEY=VALUE entries appended to the current environment.
	Env []string
	Dir string
	// Quiet discards the child's stdout and stderr.
	Quiet bool
}

// String renders the command line with arguments quoted where needed.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, quote(c.Name))
	for _, a := range c.Args {
		parts = append(parts, quote(a))
	}
	return strings.Join(parts, " ")
}

// WithEnv returns a copy of c with key=value appended to its environment.
func (c Command) WithEnv(key, value string) Command {
	env := make([]string, 0, len(c.Env)+1)
	env = append(env, c.Env...)
	c.Env = append(env, key+"="+value)
	return c
}

// Runner runs commands.
type Runner interface {
	LookPath(name string) (string, error)
	Run(ctx context.Context, cmd Command) error
}

// Logger is the logging surface the runner uses to trace commands.
type Logger interface {
	DebugObj(msg, key string, obj interface{})
}

// Exec runs commands as child processes, streaming their output.
type Exec struct {
	Stdout io.Writer
	Stderr io.Writer
	Log    Logger
}

// NewExec returns an Exec connected to the process stdout and stderr.
func NewExec(log Logger) *Exec {
	return &Exec{Stdout: os.Stdout, Stderr: os.Stderr, Log: log}
}

// LookPath implements Runner.
func (e *Exec) LookPath(name string) (string, error) {
	return execabs.LookPath(name)
}

// Run implements Runner. A non-zero exit is returned as an error wrapping *exec.ExitError.
func (e *Exec) Run(ctx context.Context, cmd Command) error {
	if strings.TrimSpace(cmd.Name) == "" {
		return ErrNoCommand
	}
	c := execabs.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = append(os.Environ(), cmd.Env...)
	if !cmd.Quiet {
		c.Stdout = e.Stdout
		c.Stderr = e.Stderr
	}
	if e.Log != nil {
		e.Log.DebugObj("running command", "command", map[string]any{
			"cmdline": cmd.String(),
			"dir":     cmd.Dir,
			"env":     envKeys(cmd.Env),
		})
	}
	if err := c.Run(); err != nil {
		return fmt.Errorf("run %s: %w", cmd.Name, err)
	}
	return nil
}

// Parse splits a shell-like command line into a Command.
func Parse(cmdline string) (Command, error) {
	args, err := shlex.Split(cmdline)
	if err != nil {
		return Command{}, fmt.Errorf("parse command line: %w", err)
	}
	if len(args) < 1 {
		return Command{}, ErrNoCommand
	}
	return Command{Name: args[0], Args: args[1:]}, nil
}

// ExitCode extracts the child exit status from an error returned by Run.
// It returns 0 for a nil error and -1 when no status is available.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *execabs.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// envKeys keeps secrets out of the logs.
func envKeys(env []string) []string {
	keys := make([]string, 0, len(env))
	for _, kv := range env {
		k, _, _ := strings.Cut(kv, "=")
		keys = append(keys, k)
	}
	return keys
}

func quote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.ContainsAny(s, " \t\"'\\$`") {
		return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
	}
	return s
}

// Package runnertest provides a scripted runner.Runner for tests.
package runnertest

import (
	"context"
	"fmt"
	"sync"

	"github.com/samvad-hq/weather-api-suite/internal/runner"
)

// Fake records commands and answers them from handlers keyed by program name.
type Fake struct {
	mu sync.Mutex
	// Paths lists the programs LookPath can find.
	Paths map[string]bool
	// Handlers decide the outcome for a program; missing handlers succeed.
	Handlers map[string]func(runner.Command) error
	Calls    []runner.Command
}

// New returns a Fake that finds the given programs on PATH.
func New(programs ...string) *Fake {
	f := &Fake{Paths: map[string]bool{}, Handlers: map[string]func(runner.Command) error{}}
	for _, p := range programs {
		f.Paths[p] = true
	}
	return f
}

// LookPath implements runner.Runner.
func (f *Fake) LookPath(name string) (string, error) {
	if f.Paths[name] {
		return "/usr/bin/" + name, nil
	}
	return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
}

// Run implements runner.Runner.
func (f *Fake) Run(_ context.Context, cmd runner.Command) error {
	f.mu.Lock()
	f.Calls = append(f.Calls, cmd)
	h := f.Handlers[cmd.Name]
	f.mu.Unlock()
	if h == nil {
		return nil
	}
	return h(cmd)
}

// Commands returns the recorded command lines.
func (f *Fake) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		out[i] = c.String()
	}
	return out
}

// Package project reads and writes the suite descriptor (suite.yaml).
package project

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultFile is the descriptor file name.
	DefaultFile = "suite.yaml"
	// SpecURLPlaceholder marks an unconfigured API definition URL.
	SpecURLPlaceholder = "[YOUR_API_DEFINITION_URL]"
	// DefaultDefinitionFile is where the API definition is downloaded to.
	DefaultDefinitionFile = "api-swagger.json"
	// SubmitScript is the script name registered for result submission.
	SubmitScript = "testmo:submit"
)

// Project is the content of suite.yaml.
type Project struct {
	Name    string            `yaml:"name"`
	Codegen Codegen           `yaml:"codegen"`
	Auth    Auth              `yaml:"auth"`
	Scripts map[string]string `yaml:"scripts,omitempty"`
}

// Codegen locates the API definition.
type Codegen struct {
	SpecURL string `yaml:"spec_url"`
	Output  string `yaml:"output"`
}

// Auth records how API credentials are sent.
type Auth struct {
	Type   string `yaml:"type"`
	Header string `yaml:"header,omitempty"`
	EnvVar string `yaml:"env_var,omitempty"`
}

// Default returns the descriptor written for a fresh checkout.
func Default() *Project {
	return &Project{
		Name: "weather-api-suite",
		Codegen: Codegen{
			SpecURL: SpecURLPlaceholder,
			Output:  DefaultDefinitionFile,
		},
		Auth: Auth{Type: "none"},
	}
}

// Configured reports whether the API definition URL has been set.
func (p *Project) Configured() bool {
	u := strings.TrimSpace(p.Codegen.SpecURL)
	return u != "" && !strings.Contains(u, SpecURLPlaceholder)
}

// DefinitionFile returns the download target, defaulting when unset.
func (p *Project) DefinitionFile() string {
	if strings.TrimSpace(p.Codegen.Output) == "" {
		return DefaultDefinitionFile
	}
	return p.Codegen.Output
}

// SetScript registers a named command line.
func (p *Project) SetScript(name, cmdline string) {
	if p.Scripts == nil {
		p.Scripts = make(map[string]string)
	}
	p.Scripts[name] = cmdline
}

// ScriptNames returns the registered script names in order.
func (p *Project) ScriptNames() []string {
	names := make([]string, 0, len(p.Scripts))
	for n := range p.Scripts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Load reads the descriptor at path. A missing file yields Default().
func Load(fsys afero.Fs, path string) (*Project, error) {
	raw, err := afero.ReadFile(fsys, path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	p := Default()
	if err := yaml.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return p, nil
}

// Exists reports whether the descriptor file is present.
func Exists(fsys afero.Fs, path string) bool {
	ok, err := afero.Exists(fsys, path)
	return err == nil && ok
}

// Save writes p to path.
func Save(fsys afero.Fs, path string, p *Project) error {
	raw, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := afero.WriteFile(fsys, path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

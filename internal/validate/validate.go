// Package validate checks that a checkout has been prepared by the setup wizard.
package validate

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/afero"

	"github.com/samvad-hq/weather-api-suite/internal/project"
)

const (
	baseURLKey         = "API_BASE_URL"
	baseURLPlaceholder = "https://your-api.com"
)

// Check is one validation result.
type Check struct {
	Name   string
	Passed bool
}

// Section groups related checks under a heading.
type Section struct {
	Title  string
	Checks []Check
}

// Report is the outcome of Run.
type Report struct {
	Sections []Section
}

// Passed reports whether every check passed.
func (r *Report) Passed() bool {
	for _, s := range r.Sections {
		for _, c := range s.Checks {
			if !c.Passed {
				return false
			}
		}
	}
	return true
}

// Failed returns the names of failing checks.
func (r *Report) Failed() []string {
	var out []string
	for _, s := range r.Sections {
		for _, c := range s.Checks {
			if !c.Passed {
				out = append(out, c.Name)
			}
		}
	}
	return out
}

// Options configures a validation run.
type Options struct {
	FS          afero.Fs
	ProjectFile string
	EnvFiles    []string
}

// Run inspects the checkout and returns a report. Errors are reserved for
// an unreadable descriptor; everything else becomes a failed check.
func Run(opts Options) (*Report, error) {
	if opts.ProjectFile == "" {
		opts.ProjectFile = project.DefaultFile
	}
	if len(opts.EnvFiles) == 0 {
		opts.EnvFiles = []string{".env.dev", ".env.qa"}
	}
	fsys := opts.FS

	proj, err := project.Load(fsys, opts.ProjectFile)
	if err != nil {
		return nil, err
	}
	definition := proj.DefinitionFile()

	report := &Report{}

	files := Section{Title: "📁 Checking required files..."}
	required := append(append([]string{}, opts.EnvFiles...), opts.ProjectFile, definition)
	for _, f := range required {
		ok, _ := afero.Exists(fsys, f)
		files.Checks = append(files.Checks, Check{Name: f, Passed: ok})
	}
	report.Sections = append(report.Sections, files)

	report.Sections = append(report.Sections, Section{
		Title:  "📦 Checking " + opts.ProjectFile + " configuration...",
		Checks: []Check{{Name: "API URL configured in codegen.spec_url", Passed: proj.Configured()}},
	})

	env := Section{Title: "🔧 Checking environment configuration..."}
	for _, f := range opts.EnvFiles {
		raw, err := afero.ReadFile(fsys, f)
		if err != nil {
			continue
		}
		env.Checks = append(env.Checks, Check{
			Name:   f + ": " + baseURLKey,
			Passed: hasBaseURL(string(raw)),
		})
	}
	report.Sections = append(report.Sections, env)

	report.Sections = append(report.Sections, Section{
		Title:  "🏗️  Checking API definition...",
		Checks: []Check{{Name: "OpenAPI definition in " + definition, Passed: isAPIDefinition(fsys, definition)}},
	})

	return report, nil
}

func hasBaseURL(content string) bool {
	return strings.Contains(content, baseURLKey+"=") && !strings.Contains(content, baseURLKey+"="+baseURLPlaceholder)
}

func isAPIDefinition(fsys afero.Fs, path string) bool {
	raw, err := afero.ReadFile(fsys, path)
	if err != nil {
		return false
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false
	}
	_, openapi := doc["openapi"]
	_, swagger := doc["swagger"]
	return openapi || swagger
}

// Write prints the report with pass/fail marks and next steps.
func (r *Report) Write(w io.Writer) {
	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)

	fmt.Fprintf(w, "🔍 Validating project setup...\n")
	for _, s := range r.Sections {
		fmt.Fprintf(w, "\n%s\n", s.Title)
		for _, c := range s.Checks {
			if c.Passed {
				ok.Fprintf(w, "  ✅ %s\n", c.Name)
			} else {
				bad.Fprintf(w, "  ❌ %s\n", c.Name)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 50))
	if r.Passed() {
		ok.Fprintln(w, "🎉 Setup validation passed! Ready to write tests.")
		return
	}
	fmt.Fprintln(w, "⚠️  Setup incomplete. Please complete the missing steps above.")
	fmt.Fprintln(w, "\nNext steps:")
	fmt.Fprintln(w, "1. Run: wxsuite setup")
	fmt.Fprintln(w, "2. Replace "+project.SpecURLPlaceholder+" in "+project.DefaultFile)
	fmt.Fprintln(w, "3. Copy and configure .env files")
	fmt.Fprintln(w, "4. Add endpoint functions to pkg/nws")
}

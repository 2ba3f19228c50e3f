package runner

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Command
	}{
		{"wxsuite testmo-submit", Command{Name: "wxsuite", Args: []string{"testmo-submit"}}},
		{`npx artillery run --output "results/perf/my load.json" load.yml`,
			Command{Name: "npx", Args: []string{"artillery", "run", "--output", "results/perf/my load.json", "load.yml"}}},
		{"testmo", Command{Name: "testmo", Args: []string{}}},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.in, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("Parse(%q) mismatch (-want +got):\n%s", tc.in, diff)
		}
	}
}

func TestParseEmpty(t *testing.T) {
	if _, err := Parse("   "); !errors.Is(err, ErrNoCommand) {
		t.Fatalf("expected ErrNoCommand, got %v", err)
	}
	if _, err := Parse(`"unterminated`); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestCommandString(t *testing.T) {
	cmd := Command{Name: "testmo", Args: []string{"--name", "API Test Run", "--results", "a.xml"}}
	if got, want := cmd.String(), "testmo --name 'API Test Run' --results a.xml"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestWithEnvCopies(t *testing.T) {
	base := Command{Name: "x", Env: make([]string, 0, 4)}
	a := base.WithEnv("A", "1")
	b := base.WithEnv("B", "2")
	if a.Env[0] != "A=1" || b.Env[0] != "B=2" || len(base.Env) != 0 {
		t.Fatalf("WithEnv shares backing array: a=%v b=%v", a.Env, b.Env)
	}
}

func TestExecRunStreamsOutputAndExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
	var stdout bytes.Buffer
	e := &Exec{Stdout: &stdout, Stderr: &stdout}

	if err := e.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "echo $GREETING"}, Env: []string{"GREETING=hello"}}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := stdout.String(); got != "hello\n" {
		t.Fatalf("unexpected output %q", got)
	}

	err := e.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "exit 3"}, Quiet: true})
	if code := ExitCode(err); code != 3 {
		t.Fatalf("ExitCode = %d (err=%v)", code, err)
	}
}

func TestExecRunRejectsEmptyName(t *testing.T) {
	if err := (&Exec{}).Run(context.Background(), Command{}); !errors.Is(err, ErrNoCommand) {
		t.Fatalf("expected ErrNoCommand, got %v", err)
	}
	if ExitCode(nil) != 0 || ExitCode(errors.New("x")) != -1 {
		t.Fatalf("unexpected ExitCode defaults")
	}
}

package testmo

import (
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// SummaryFile is written next to the Artillery reports.
const SummaryFile = "summary.txt"

var statsKeys = []string{"aggregate", "aggregated", "metrics", "summary"}

// WriteSummary summarizes every Artillery JSON report in perfDir into
// perfDir/summary.txt and returns the summary path.
func WriteSummary(fsys afero.Fs, perfDir string) (string, error) {
	entries, err := afero.ReadDir(fsys, perfDir)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", perfDir, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var lines []string
	for _, name := range names {
		lines = append(lines, summarize(fsys, path.Join(perfDir, name), name)...)
	}
	if len(lines) == 0 {
		lines = append(lines, "No artillery JSON results found")
	}

	out := path.Join(perfDir, SummaryFile)
	if err := afero.WriteFile(fsys, out, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", out, err)
	}
	return out, nil
}

func summarize(fsys afero.Fs, file, name string) []string {
	raw, err := afero.ReadFile(fsys, file)
	if err != nil {
		return []string{"Scenario: " + name + " -> failed to read/parse"}
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return []string{"Scenario: " + name + " -> failed to read/parse"}
	}

	lines := []string{"Scenario: " + name}
	var stats map[string]any
	for _, k := range statsKeys {
		if m, ok := doc[k].(map[string]any); ok {
			stats = m
			break
		}
	}
	if stats == nil {
		return append(lines, "  Could not parse summary from this file")
	}

	if v, ok := stats["requests"]; ok && truthy(v) {
		lines = append(lines, "  requests: "+render(v))
	}
	if v, ok := stats["codes"]; ok && truthy(v) {
		raw, _ := json.Marshal(v)
		lines = append(lines, "  codes: "+string(raw))
	}
	if lat, ok := stats["latency"].(map[string]any); ok {
		p95 := ""
		for _, k := range []string{"p95", "95th"} {
			if v, ok := lat[k]; ok && truthy(v) {
				p95 = render(v)
				break
			}
		}
		lines = append(lines, "  latency (p95): "+p95)
	}
	return lines
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	}
	return true
}

func render(v any) string {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case string:
		return t
	}
	raw, _ := json.Marshal(v)
	return string(raw)
}

package query

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func intPtr(v int) *int { return &v }

func TestBuildEmptyParams(t *testing.T) {
	cases := map[string]Params{
		"nil map":          nil,
		"empty map":        {},
		"only nil values":  {"limit": nil, "id": nil},
		"nil pointer":      {"limit": (*int)(nil)},
		"nil slice":        {"area": []string(nil)},
		"empty slice":      {"area": []string{}},
		"nil map value":    {"filter": map[string]string(nil)},
		"nil time pointer": {"start": (*time.Time)(nil)},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			if got := Build(p); got != "" {
				t.Fatalf("Build = %q, want empty", got)
			}
			if got := Encode(p); got != "" {
				t.Fatalf("Encode = %q, want empty", got)
			}
		})
	}
}

func TestBuildScenarios(t *testing.T) {
	cases := []struct {
		name string
		in   Params
		want string
	}{
		{"limit", Params{"limit": 5}, "?limit=5"},
		{"drops unset", Params{"limit": nil, "id": "ALZ001"}, "?id=ALZ001"},
		{"sorted keys", Params{"zeta": 1, "alpha": true}, "?alpha=true&zeta=1"},
		{"pointer value", Params{"limit": intPtr(25)}, "?limit=25"},
		{"slice joined", Params{"area": []string{"AL", "GA"}}, "?area=AL%2CGA"},
		{"float", Params{"ratio": 0.5}, "?ratio=0.5"},
		{"time", Params{"start": time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)}, "?start=2025-10-01T00%3A00%3A00Z"},
		{"space", Params{"q": "New York"}, "?q=New%20York"},
		{"object json", Params{"f": map[string]int{"a": 1}}, "?f=%7B%22a%22%3A1%7D"},
		{"unreserved kept", Params{"k": "a-b_c.d!e~f*g'h(i)"}, "?k=a-b_c.d!e~f*g'h(i)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Build(tc.in); got != tc.want {
				t.Fatalf("Build = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestEscapeComponentRoundTrip(t *testing.T) {
	inputs := []string{
		"", "plain", "with space", "a&b=c", "100%", "slash/and?question",
		"plus+sign", "ünïcödé", "emoji 🌩", "#hash", "tab\tnewline\n", "%2521",
	}
	for _, in := range inputs {
		enc := EscapeComponent(in)
		if strings.ContainsAny(enc, " &=?/#+") {
			t.Errorf("EscapeComponent(%q) = %q leaves reserved characters", in, enc)
		}
		dec, err := UnescapeComponent(enc)
		if err != nil {
			t.Fatalf("UnescapeComponent(%q): %v", enc, err)
		}
		if dec != in {
			t.Errorf("round trip mismatch: %q -> %q -> %q", in, enc, dec)
		}
	}
}

func TestEncodeKeysAndValuesIndependently(t *testing.T) {
	p := Params{"a b": "c&d", "x=y": "z"}
	got := Encode(p)
	values, err := url.ParseQuery(got)
	if err != nil {
		t.Fatalf("ParseQuery(%q): %v", got, err)
	}
	want := url.Values{"a b": {"c&d"}, "x=y": {"z"}}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("decoded query mismatch (-want +got):\n%s", diff)
	}
}

func TestFlatten(t *testing.T) {
	got := Flatten(Params{
		"ids":     []any{"A", nil, 3},
		"enabled": false,
		"missing": nil,
		"nested":  struct{ N int }{N: 2},
	})
	want := map[string]string{
		"ids":     "A,3",
		"enabled": "false",
		"nested":  `{"N":2}`,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Flatten mismatch (-want +got):\n%s", diff)
	}
}

func TestAppend(t *testing.T) {
	cases := []struct {
		url  string
		p    Params
		want string
	}{
		{"/alerts", nil, "/alerts"},
		{"/alerts", Params{"limit": 1}, "/alerts?limit=1"},
		{"/alerts?status=actual", Params{"limit": 1}, "/alerts?status=actual&limit=1"},
		{"/alerts?", Params{"limit": 1}, "/alerts?limit=1"},
	}
	for _, tc := range cases {
		if got := Append(tc.url, tc.p); got != tc.want {
			t.Errorf("Append(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

type typedParams struct{ Limit *int }

func (p *typedParams) Params() Params { return Params{"limit": p.Limit} }

func TestBuildFromNilEncoder(t *testing.T) {
	if got := BuildFrom(nil); got != "" {
		t.Fatalf("BuildFrom(nil) = %q", got)
	}
	var p *typedParams
	if got := BuildFrom(p); got != "" {
		t.Fatalf("BuildFrom(typed nil) = %q", got)
	}
	if got := BuildFrom(&typedParams{Limit: intPtr(5)}); got != "?limit=5" {
		t.Fatalf("BuildFrom = %q", got)
	}
}

func TestPathEscapesSegments(t *testing.T) {
	cases := []struct {
		prefix   string
		segments []string
		want     string
	}{
		{"/zones", []string{"public", "ALZ001"}, "/zones/public/ALZ001"},
		{"/alerts/", []string{"a/b?c"}, "/alerts/a%2Fb%3Fc"},
		{"/aviation/sigmets", []string{"KKCI", "2025-10-17", "0000"}, "/aviation/sigmets/KKCI/2025-10-17/0000"},
	}
	for _, tc := range cases {
		got := Path(tc.prefix, tc.segments...)
		if got != tc.want {
			t.Errorf("Path(%q, %v) = %q, want %q", tc.prefix, tc.segments, got, tc.want)
		}
		wantSegs := len(strings.Split(strings.Trim(tc.prefix, "/"), "/")) + len(tc.segments)
		if n := len(strings.Split(strings.TrimPrefix(got, "/"), "/")); n != wantSegs {
			t.Errorf("Path(%q) has %d segments, want %d", got, n, wantSegs)
		}
	}
}

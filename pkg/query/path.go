package query

import "strings"

// Path joins escaped segments onto a fixed prefix: Path("/zones", "public", "ALZ001")
// yields "/zones/public/ALZ001". Reserved characters inside a segment are escaped,
// so the result always has len(segments) extra path segments.
func Path(prefix string, segments ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(prefix, "/"))
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(EscapeComponent(s))
	}
	return b.String()
}

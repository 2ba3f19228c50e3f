// Package query serializes parameter mappings into URL query strings.
//
// One law applies everywhere in the suite: nil entries are dropped, slices
// are comma-joined, maps and structs are JSON-encoded, keys are emitted in
// lexical order, and keys and values are escaped independently with the
// same component escaping that path segments use.
package query

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Params maps query keys to primitive, slice or structured values.
// A nil value (or a nil pointer/slice) means "not set".
type Params map[string]any

// Encoder is implemented by typed parameter structs.
type Encoder interface {
	Params() Params
}

// Build returns "?"+Encode(p), or "" when nothing survives filtering.
func Build(p Params) string {
	qs := Encode(p)
	if qs == "" {
		return ""
	}
	return "?" + qs
}

// BuildFrom is Build for a typed parameter struct; a nil Encoder yields "".
func BuildFrom(e Encoder) string {
	if e == nil {
		return ""
	}
	v := reflect.ValueOf(e)
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return ""
	}
	return Build(e.Params())
}

// Encode serializes p into "k1=v1&k2=v2" without a leading "?".
func Encode(p Params) string {
	flat := Flatten(p)
	if len(flat) == 0 {
		return ""
	}
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(EscapeComponent(k))
		b.WriteByte('=')
		b.WriteString(EscapeComponent(flat[k]))
	}
	return b.String()
}

// Flatten renders every set value of p to its string form, dropping unset entries.
func Flatten(p Params) map[string]string {
	out := make(map[string]string, len(p))
	for k, v := range p {
		s, ok := render(v)
		if !ok {
			continue
		}
		out[k] = s
	}
	return out
}

// Append adds the encoded params to rawURL, respecting an existing query.
func Append(rawURL string, p Params) string {
	qs := Encode(p)
	if qs == "" {
		return rawURL
	}
	if strings.Contains(rawURL, "?") {
		if strings.HasSuffix(rawURL, "?") || strings.HasSuffix(rawURL, "&") {
			return rawURL + qs
		}
		return rawURL + "&" + qs
	}
	return rawURL + "?" + qs
}

// EscapeComponent escapes s like JavaScript's encodeURIComponent: everything
// except A-Z a-z 0-9 - _ . ! ~ * ' ( ) is percent-encoded, space becomes %20.
func EscapeComponent(s string) string {
	escaped := url.QueryEscape(s)
	escaped = strings.ReplaceAll(escaped, "+", "%20")
	for _, r := range []struct{ from, to string }{
		{"%21", "!"},
		{"%27", "'"},
		{"%28", "("},
		{"%29", ")"},
		{"%2A", "*"},
	} {
		escaped = strings.ReplaceAll(escaped, r.from, r.to)
	}
	return escaped
}

// UnescapeComponent reverses EscapeComponent.
func UnescapeComponent(s string) (string, error) {
	return url.PathUnescape(s)
}

func render(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case time.Time:
		return t.Format(time.RFC3339), true
	case fmt.Stringer:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return "", false
		}
		return t.String(), true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "", false
		}
		return render(rv.Elem().Interface())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), true
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return "", false
		}
		parts := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			s, ok := render(rv.Index(i).Interface())
			if !ok {
				continue
			}
			parts = append(parts, s)
		}
		if len(parts) == 0 {
			return "", false
		}
		return strings.Join(parts, ","), true
	case reflect.Map:
		if rv.IsNil() {
			return "", false
		}
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v), true
	}
	return string(raw), true
}

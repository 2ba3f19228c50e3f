// Package fetch issues one HTTP call and normalizes the answer into a Response envelope.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/samvad-hq/weather-api-suite/pkg/httpclient"
	"github.com/samvad-hq/weather-api-suite/pkg/query"
)

// Method is one of the HTTP verbs the wrapper accepts.
type Method string

const (
	MethodGet     Method = "get"
	MethodPost    Method = "post"
	MethodPut     Method = "put"
	MethodPatch   Method = "patch"
	MethodDelete  Method = "delete"
	MethodOptions Method = "options"
	MethodHead    Method = "head"
)

// ErrUnsupportedMethod is returned before any I/O when the method is not one of the constants above.
var ErrUnsupportedMethod = errors.New("unsupported http method")

// Valid reports whether m is a known method (case-insensitive).
func (m Method) Valid() bool {
	switch Method(strings.ToLower(string(m))) {
	case MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete, MethodOptions, MethodHead:
		return true
	}
	return false
}

// RequestConfig describes a single call.
type RequestConfig struct {
	URL     string
	Method  Method
	Data    any
	Params  query.Params
	Headers map[string]string
}

// Response is the normalized envelope. Data is nil when the body was not JSON.
type Response[T any] struct {
	Data       *T
	Status     int
	StatusText string
	Headers    map[string]string
}

// OK reports a 2xx status.
func (r *Response[T]) OK() bool {
	return r != nil && r.Status >= 200 && r.Status < 300
}

// Do performs exactly one request through client and decodes the body into T on a best-effort basis.
// Transport errors are returned; non-2xx statuses and undecodable bodies are not.
func Do[T any](ctx context.Context, client httpclient.Client, cfg RequestConfig) (*Response[T], error) {
	if client == nil {
		return nil, errors.New("fetch: http client is nil")
	}
	method := cfg.Method
	if method == "" {
		method = MethodGet
	}
	if !method.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, cfg.Method)
	}

	resp, err := client.Do(ctx, httpclient.Request{
		Method:  strings.ToUpper(string(method)),
		URL:     query.Append(cfg.URL, cfg.Params),
		Headers: cfg.Headers,
		Body:    cfg.Data,
	})
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", strings.ToUpper(string(method)), cfg.URL, err)
	}

	return &Response[T]{
		Data:       decode[T](resp.Body()),
		Status:     resp.StatusCode(),
		StatusText: resp.Status(),
		Headers:    flattenHeaders(resp.Header()),
	}, nil
}

func decode[T any](body []byte) *T {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil
	}
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil
	}
	return &out
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[strings.ToLower(k)] = strings.Join(v, ", ")
	}
	return out
}

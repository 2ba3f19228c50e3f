package httpclient

import (
	"context"
	"net/http"
)

// Request describes one outbound call. URL may be relative to the client's base URL.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    any
}

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	// Status returns the reason phrase without the numeric code ("Not Found").
	Status() string
	Header() http.Header
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
// Non-2xx responses are not errors at this layer.
type Client interface {
	Do(ctx context.Context, req Request) (Response, error)
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}

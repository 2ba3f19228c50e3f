package httpclient

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Options configures a RestyClient.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// Headers are sent with every request; per-request headers win on conflict.
	Headers map[string]string
}

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient creates a new RestyClient with the specified timeout.
func NewRestyClient(timeout time.Duration) *RestyClient {
	return NewRestyClientWithOptions(Options{Timeout: timeout})
}

// NewRestyClientWithOptions creates a RestyClient bound to a base URL and default headers.
func NewRestyClientWithOptions(opts Options) *RestyClient {
	c := newRestyBaseClient(opts.Timeout)
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		c.SetBaseURL(strings.TrimRight(base, "/"))
	}
	if len(opts.Headers) > 0 {
		c.SetHeaders(opts.Headers)
	}
	return &RestyClient{client: c}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(timeout)
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	c.SetDisableWarn(true)
	return c
}

// Do performs one HTTP request with the given method, URL, headers and body.
func (r *RestyClient) Do(ctx context.Context, in Request) (Response, error) {
	req := r.client.R().SetContext(ctx)
	if len(in.Headers) > 0 {
		req.SetHeaders(in.Headers)
	}
	if in.Body != nil {
		req.SetBody(in.Body)
	}
	method := strings.ToUpper(strings.TrimSpace(in.Method))
	if method == "" {
		method = http.MethodGet
	}
	resp, err := req.Execute(method, in.URL)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// Get performs an HTTP GET request with the specified context, URL, and headers.
func (r *RestyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	return r.Do(ctx, Request{Method: http.MethodGet, URL: url, Headers: headers})
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte        { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int     { return r.resp.StatusCode() }
func (r *restyResponseAdapter) Header() http.Header { return r.resp.Header() }
func (r *restyResponseAdapter) Status() string {
	return ReasonPhrase(r.resp.Status(), r.resp.StatusCode())
}

// ReasonPhrase strips the numeric code from a status line such as "404 Not Found".
func ReasonPhrase(status string, code int) string {
	s := strings.TrimSpace(status)
	s = strings.TrimSpace(strings.TrimPrefix(s, strconv.Itoa(code)))
	if s == "" {
		return http.StatusText(code)
	}
	return s
}

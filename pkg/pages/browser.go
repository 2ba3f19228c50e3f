// Package pages contains headless page objects for weather.gov. A Browser
// loads documents through an httpclient.Client and submits HTML forms the
// way a user agent would; no script is executed.
package pages

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samvad-hq/weather-api-suite/pkg/httpclient"
)

const maxHTMLBodyBytes = 4 << 20 // 4 MiB

// ErrNoDocument is returned when an action needs a loaded page.
var ErrNoDocument = errors.New("no page loaded")

// Browser holds the current document and its URL.
type Browser struct {
	client  httpclient.Client
	headers map[string]string
	doc     *goquery.Document
	current *url.URL
	status  int
}

// NewBrowser returns a Browser that fetches pages through client.
func NewBrowser(client httpclient.Client, headers map[string]string) *Browser {
	if client == nil {
		client = httpclient.NewRestyClient(0)
	}
	return &Browser{client: client, headers: headers}
}

// Goto loads rawURL, resolving it against the current page when relative.
func (b *Browser) Goto(ctx context.Context, rawURL string) error {
	target, err := b.resolve(rawURL)
	if err != nil {
		return err
	}
	return b.load(ctx, httpclient.Request{Method: http.MethodGet, URL: target.String(), Headers: b.headers}, target)
}

// Status is the HTTP status of the last navigation.
func (b *Browser) Status() int { return b.status }

// URL is the address of the current document.
func (b *Browser) URL() string {
	if b.current == nil {
		return ""
	}
	return b.current.String()
}

// Find runs a CSS selector against the current document.
func (b *Browser) Find(selector string) (*goquery.Selection, error) {
	if b.doc == nil {
		return nil, ErrNoDocument
	}
	return b.doc.Find(selector), nil
}

// Fill sets the value of the first element matching selector.
func (b *Browser) Fill(selector, value string) error {
	sel, err := b.Find(selector)
	if err != nil {
		return err
	}
	el := sel.First()
	if el.Length() == 0 {
		return fmt.Errorf("fill %s: element not found", selector)
	}
	if goquery.NodeName(el) == "textarea" {
		el.SetText(value)
		return nil
	}
	el.SetAttr("value", value)
	return nil
}

// Submit submits the form that owns the element matching selector. When the
// element is a submit control its name/value pair is included, as a click would.
func (b *Browser) Submit(ctx context.Context, selector string) error {
	sel, err := b.Find(selector)
	if err != nil {
		return err
	}
	el := sel.First()
	if el.Length() == 0 {
		return fmt.Errorf("submit %s: element not found", selector)
	}
	form := el.Closest("form")
	if form.Length() == 0 {
		return fmt.Errorf("submit %s: element is not inside a form", selector)
	}

	values := formValues(form, el)
	action, _ := form.Attr("action")
	target, err := b.resolve(action)
	if err != nil {
		return err
	}
	method := strings.ToUpper(strings.TrimSpace(attrOr(form, "method", http.MethodGet)))

	req := httpclient.Request{Method: method, Headers: copyHeaders(b.headers)}
	if method == http.MethodPost {
		req.URL = target.String()
		req.Body = values.Encode()
		req.Headers["Content-Type"] = "application/x-www-form-urlencoded"
	} else {
		req.Method = http.MethodGet
		target.RawQuery = values.Encode()
		req.URL = target.String()
	}
	return b.load(ctx, req, target)
}

func (b *Browser) load(ctx context.Context, req httpclient.Request, target *url.URL) error {
	resp, err := b.client.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("load %s: %w", req.URL, err)
	}
	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("parse html: %w", err)
	}
	b.doc = doc
	b.current = target
	b.status = resp.StatusCode()
	return nil
}

func (b *Browser) resolve(raw string) (*url.URL, error) {
	ref, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", raw, err)
	}
	if b.current == nil {
		if !ref.IsAbs() {
			return nil, fmt.Errorf("relative url %q with no page loaded", raw)
		}
		return ref, nil
	}
	return b.current.ResolveReference(ref), nil
}

// formValues collects successful controls of form; submitter is the clicked control, if any.
func formValues(form, submitter *goquery.Selection) url.Values {
	values := url.Values{}
	form.Find("input, select, textarea, button").Each(func(_ int, s *goquery.Selection) {
		name, ok := s.Attr("name")
		if !ok || name == "" {
			return
		}
		if _, disabled := s.Attr("disabled"); disabled {
			return
		}
		switch goquery.NodeName(s) {
		case "select":
			opt := s.Find("option[selected]").First()
			if opt.Length() == 0 {
				opt = s.Find("option").First()
			}
			if opt.Length() > 0 {
				values.Add(name, attrOr(opt, "value", strings.TrimSpace(opt.Text())))
			}
		case "textarea":
			values.Add(name, s.Text())
		case "button":
			if s.IsSelection(submitter) {
				values.Add(name, attrOr(s, "value", ""))
			}
		default:
			switch strings.ToLower(attrOr(s, "type", "text")) {
			case "submit", "image", "button", "reset":
				if s.IsSelection(submitter) {
					values.Add(name, attrOr(s, "value", ""))
				}
			case "checkbox", "radio":
				if _, checked := s.Attr("checked"); checked {
					values.Add(name, attrOr(s, "value", "on"))
				}
			case "file":
			default:
				values.Add(name, attrOr(s, "value", ""))
			}
		}
	})
	return values
}

func attrOr(s *goquery.Selection, name, fallback string) string {
	if v, ok := s.Attr(name); ok {
		return v
	}
	return fallback
}

func copyHeaders(in map[string]string) map[string]string {
	out := make(map[string]string, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	return out
}

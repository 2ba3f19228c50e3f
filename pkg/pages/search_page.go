package pages

import (
	"context"
	"strings"
)

// DefaultSearchPageURL is the weather.gov site search.
const DefaultSearchPageURL = "https://www.weather.gov/search/"

const queryInputSelector = `input#query[size="30"]`

// SearchPage wraps the site search form.
type SearchPage struct {
	browser *Browser
	url     string
}

// NewSearchPage returns a page object rooted at pageURL (DefaultSearchPageURL when empty).
func NewSearchPage(b *Browser, pageURL string) *SearchPage {
	if strings.TrimSpace(pageURL) == "" {
		pageURL = DefaultSearchPageURL
	}
	return &SearchPage{browser: b, url: pageURL}
}

// Goto loads the search page.
func (p *SearchPage) Goto(ctx context.Context) error {
	return p.browser.Goto(ctx, p.url)
}

// Search fills the query box and submits it, as pressing Enter would.
func (p *SearchPage) Search(ctx context.Context, query string) error {
	if err := p.browser.Fill(queryInputSelector, query); err != nil {
		return err
	}
	return p.browser.Submit(ctx, queryInputSelector)
}

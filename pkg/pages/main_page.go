package pages

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultMainPageURL is the weather.gov home page.
const DefaultMainPageURL = "https://www.weather.gov/"

const (
	getWeatherButtonSelector      = `input[id="myfcst-submit"]`
	weatherLocationInputSelector  = `input[id="myfcst-location-input"]`
	temperatureFahrenheitSelector = `span[id="myfcst-tempf"]`
	temperatureCelsiusSelector    = `span[id="myfcst-tempc"]`
	weatherLocationTitleSelector  = `span[id="myfcst-title"]`
)

var (
	fahrenheitPattern = regexp.MustCompile(`-?\d+(\.\d+)?\s*°F`)
	celsiusPattern    = regexp.MustCompile(`-?\d+(\.\d+)?\s*°C`)
)

// MainPage wraps the "Local forecast by City, St or ZIP" widget on the home page.
type MainPage struct {
	browser *Browser
	url     string
}

// NewMainPage returns a page object rooted at pageURL (DefaultMainPageURL when empty).
func NewMainPage(b *Browser, pageURL string) *MainPage {
	if strings.TrimSpace(pageURL) == "" {
		pageURL = DefaultMainPageURL
	}
	return &MainPage{browser: b, url: pageURL}
}

// Goto loads the home page.
func (p *MainPage) Goto(ctx context.Context) error {
	return p.browser.Goto(ctx, p.url)
}

// EnterGetWeatherLocation types location into the forecast search box.
func (p *MainPage) EnterGetWeatherLocation(location string) error {
	return p.browser.Fill(weatherLocationInputSelector, location)
}

// ClickGetWeatherButton submits the forecast form and loads the result page.
func (p *MainPage) ClickGetWeatherButton(ctx context.Context) error {
	return p.browser.Submit(ctx, getWeatherButtonSelector)
}

// GetWeatherLocationTitle returns the text of every location title on the current page.
func (p *MainPage) GetWeatherLocationTitle() ([]string, error) {
	sel, err := p.browser.Find(weatherLocationTitleSelector)
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, sel.Length())
	for _, text := range sel.Map(func(_ int, s *goquery.Selection) string { return s.Text() }) {
		titles = append(titles, strings.TrimSpace(text))
	}
	return titles, nil
}

// ValidateTemperatureIsDisplayed checks that both temperature readouts hold a number with a unit.
func (p *MainPage) ValidateTemperatureIsDisplayed() error {
	checks := []struct {
		selector string
		pattern  *regexp.Regexp
	}{
		{temperatureFahrenheitSelector, fahrenheitPattern},
		{temperatureCelsiusSelector, celsiusPattern},
	}
	for _, c := range checks {
		sel, err := p.browser.Find(c.selector)
		if err != nil {
			return err
		}
		text := strings.TrimSpace(sel.First().Text())
		if !c.pattern.MatchString(text) {
			return fmt.Errorf("%s: %q does not match %s", c.selector, text, c.pattern)
		}
	}
	return nil
}

// Package scraper fetches provider pages through the configured forward proxy.
package scraper

import (
	"context"
	"log"
	"net"
	"net/url"

	"github.com/gocolly/colly/v2"

	"github.com/dharmasatrya/flyhigh/internal/config"
	"github.com/dharmasatrya/flyhigh/internal/models"
)

// Fetcher has no direct path: every request goes through the one proxy identity.
type Fetcher struct {
	proxy   config.ProxyConfig
	headers config.ScraperConfig
}

func NewFetcher(proxy config.ProxyConfig, headers config.ScraperConfig) *Fetcher {
	return &Fetcher{
		proxy:   proxy,
		headers: headers,
	}
}

// ProxyURL renders the credentialed proxy address.
func (f *Fetcher) ProxyURL() string {
	u := url.URL{
		Scheme: "http",
		User:   url.UserPassword(f.proxy.Username, f.proxy.Password),
		Host:   net.JoinHostPort(f.proxy.Host, f.proxy.Port),
	}
	return u.String()
}

// Fetch makes a single attempt at pageURL and returns the body as-is.
// Non-2xx responses still return their body; only transport failures are errors.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	if err := f.proxy.Validate(); err != nil {
		return "", err
	}

	c := colly.NewCollector(
		colly.UserAgent(f.headers.UserAgent),
		colly.MaxBodySize(f.headers.MaxBodyBytes),
		colly.ParseHTTPErrorResponse(),
		colly.StdlibContext(ctx),
	)
	if err := c.SetProxy(f.ProxyURL()); err != nil {
		return "", &models.ConfigurationError{Missing: []string{"valid PROXY_HOST/PROXY_PORT"}}
	}

	c.OnRequest(func(r *colly.Request) {
		if f.headers.AcceptLanguage != "" {
			r.Headers.Set("Accept-Language", f.headers.AcceptLanguage)
		}
		if f.headers.Accept != "" {
			r.Headers.Set("Accept", f.headers.Accept)
		}
		if f.headers.Referer != "" {
			r.Headers.Set("Referer", f.headers.Referer)
		}
	})

	var body string
	c.OnResponse(func(r *colly.Response) {
		if r.StatusCode >= 400 {
			log.Printf("[SCRAPER] %s answered %d", pageURL, r.StatusCode)
		}
		body = string(r.Body)
	})

	if err := c.Visit(pageURL); err != nil {
		return "", models.NewNetworkError(pageURL, err)
	}

	return body, nil
}

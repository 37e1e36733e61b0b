// Package menucart provides the public API for turning weekly menu pages
// into shopping lists and per-day recipes.
package menucart

import (
	"time"

	"github.com/jmylchreest/menucart/pkg/discovery"
	"github.com/jmylchreest/menucart/pkg/fetcher"
)

// Config holds all Scraper configuration.
type Config struct {
	// Site settings
	BaseURL    string
	LandingURL string
	MaxWeek    int // Highest week probed when the landing page lists none

	// Fetch settings
	Fetcher     fetcher.Fetcher // nil creates a static fetcher
	Prober      fetcher.Prober  // nil probes with Fetcher when it can
	UserAgent   string
	Timeout     time.Duration
	MaxBodySize int
	Headers     map[string]string
	Cookies     []fetcher.Cookie
}

// Chrome user agent; the menu site serves reduced pages to unknown clients.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:    discovery.DefaultBaseURL,
		LandingURL: discovery.DefaultLandingURL,
		MaxWeek:    20,
		UserAgent:  defaultUserAgent,
		Timeout:    30 * time.Second,
	}
}

// Option configures a Scraper.
type Option func(*Config)

// WithFetcher injects the fetcher used for every request.
func WithFetcher(f fetcher.Fetcher) Option {
	return func(c *Config) {
		c.Fetcher = f
	}
}

// WithProber sets the prober used to list weekly menus by URL, for
// fetchers that cannot send HEAD requests themselves.
func WithProber(p fetcher.Prober) Option {
	return func(c *Config) {
		c.Prober = p
	}
}

// WithBaseURL sets the site root weekly menu URLs are built from.
func WithBaseURL(u string) Option {
	return func(c *Config) {
		c.BaseURL = u
	}
}

// WithLandingURL sets the page that links every published menu.
func WithLandingURL(u string) Option {
	return func(c *Config) {
		c.LandingURL = u
	}
}

// WithMaxWeek sets the highest week number probed.
func WithMaxWeek(n int) Option {
	return func(c *Config) {
		c.MaxWeek = n
	}
}

// WithUserAgent sets the HTTP user agent.
func WithUserAgent(ua string) Option {
	return func(c *Config) {
		c.UserAgent = ua
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithMaxBodySize caps the size of a downloaded page in bytes.
func WithMaxBodySize(n int) Option {
	return func(c *Config) {
		c.MaxBodySize = n
	}
}

// WithHeader adds a request header.
func WithHeader(name, value string) Option {
	return func(c *Config) {
		if c.Headers == nil {
			c.Headers = make(map[string]string)
		}
		c.Headers[name] = value
	}
}

// WithSessionCookie sends a login cookie with every request. An empty
// domain uses the host of each request.
func WithSessionCookie(name, value, domain string) Option {
	return func(c *Config) {
		c.Cookies = append(c.Cookies, fetcher.Cookie{Name: name, Value: value, Domain: domain})
	}
}

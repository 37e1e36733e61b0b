// Package fetcher retrieves menu pages and hands them over as parsed
// documents. Pages are fetched with a plain HTTP collector by default or
// rendered in a headless browser when the menu relies on JavaScript.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Fetcher abstracts page fetching strategies.
type Fetcher interface {
	// Fetch retrieves page content from a URL.
	Fetch(ctx context.Context, url string, opts Options) (Content, error)

	// Close releases any resources (browser instances, etc.).
	Close() error

	// Type returns "static", "dynamic" or "auto".
	Type() string
}

// Prober checks whether a URL exists without downloading it.
type Prober interface {
	Exists(ctx context.Context, url string, opts Options) (bool, error)
}

// Options controls fetching behavior.
type Options struct {
	UserAgent       string
	Timeout         time.Duration
	WaitForSelector string        // CSS selector to wait for (dynamic fetchers)
	WaitDuration    time.Duration // Additional wait after load
	MaxBodySize     int           // Bytes; 0 keeps the fetcher default
	Headers         map[string]string
	Cookies         []Cookie
}

// Cookie is a session cookie sent with every request, e.g. the login
// cookie of a members-only menu site.
type Cookie struct {
	Name   string
	Value  string
	Domain string
}

// Content represents fetched page data.
type Content struct {
	URL         string
	HTML        string
	Title       string
	StatusCode  int
	ContentType string
	FetchedAt   time.Time
	Links       []string
}

// Document parses the fetched HTML.
func (c Content) Document() (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(c.HTML))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", c.URL, err)
	}
	return doc, nil
}

// Error types for distinguishing failure reasons.
// Check with errors.Is(err, fetcher.ErrNotFound).
var (
	// ErrNotFound indicates the page does not exist (HTTP 404/410).
	ErrNotFound = errors.New("page not found")
	// ErrUnauthorized indicates the page needs a valid session cookie.
	ErrUnauthorized = errors.New("session required")
	// ErrEmptyBody indicates the server answered without any HTML.
	ErrEmptyBody = errors.New("empty response body")
)

// classifyStatus maps failing HTTP status codes to sentinel errors.
func classifyStatus(code int, err error) error {
	switch code {
	case 404, 410:
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case 401, 403:
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	default:
		return fmt.Errorf("fetch error: %w", err)
	}
}

// IsPermanent reports errors that retrying, with any fetcher, will not fix.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnauthorized)
}

// coalesce returns the first non-empty string.
func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

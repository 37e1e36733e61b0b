package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dustin/go-humanize"
	"github.com/gocolly/colly/v2"
	"github.com/jmylchreest/menucart/internal/logger"
)

// StaticConfig holds configuration for the static fetcher.
type StaticConfig struct {
	UserAgent   string
	Timeout     time.Duration
	MaxBodySize int
}

// DefaultStaticConfig returns sensible defaults.
func DefaultStaticConfig() StaticConfig {
	return StaticConfig{
		UserAgent:   defaultUserAgent,
		Timeout:     30 * time.Second,
		MaxBodySize: 10 * 1024 * 1024,
	}
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// StaticFetcher uses Colly for static HTML fetching.
type StaticFetcher struct {
	config StaticConfig
}

// NewStatic creates a new static fetcher.
func NewStatic(cfg StaticConfig) *StaticFetcher {
	def := DefaultStaticConfig()
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxBodySize == 0 {
		cfg.MaxBodySize = def.MaxBodySize
	}
	return &StaticFetcher{config: cfg}
}

// collector builds a fresh collector per request so concurrent fetches
// share no state.
func (f *StaticFetcher) collector(ctx context.Context, targetURL string, opts Options) (*colly.Collector, error) {
	maxBody := opts.MaxBodySize
	if maxBody == 0 {
		maxBody = f.config.MaxBodySize
	}
	c := colly.NewCollector(
		colly.UserAgent(coalesce(opts.UserAgent, f.config.UserAgent)),
		colly.MaxBodySize(maxBody),
		colly.AllowURLRevisit(),
		colly.StdlibContext(ctx),
	)

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = f.config.Timeout
	}
	c.SetRequestTimeout(timeout)

	if len(opts.Headers) > 0 {
		c.OnRequest(func(r *colly.Request) {
			for k, v := range opts.Headers {
				r.Headers.Set(k, v)
			}
		})
	}

	if len(opts.Cookies) > 0 {
		cookies := make([]*http.Cookie, 0, len(opts.Cookies))
		for _, ck := range opts.Cookies {
			cookies = append(cookies, &http.Cookie{Name: ck.Name, Value: ck.Value, Domain: ck.Domain, Path: "/"})
		}
		if err := c.SetCookies(targetURL, cookies); err != nil {
			return nil, fmt.Errorf("setting session cookies: %w", err)
		}
	}

	logger.Debug("static fetch configured",
		"timeout", timeout,
		"max_body", humanize.IBytes(uint64(maxBody)),
		"cookies", len(opts.Cookies))
	return c, nil
}

// Fetch retrieves page content using Colly.
func (f *StaticFetcher) Fetch(ctx context.Context, targetURL string, opts Options) (Content, error) {
	logger.Debug("static fetch starting", "url", targetURL)

	result := Content{
		URL:       targetURL,
		FetchedAt: time.Now(),
	}

	c, err := f.collector(ctx, targetURL, opts)
	if err != nil {
		return result, err
	}

	var fetchErr error
	c.OnResponse(func(r *colly.Response) {
		result.StatusCode = r.StatusCode
		result.ContentType = r.Headers.Get("Content-Type")
		result.HTML = string(r.Body)
		logger.Debug("static fetch response received",
			"status", r.StatusCode,
			"content_type", result.ContentType,
			"body_size", humanize.Bytes(uint64(len(r.Body))))
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			result.StatusCode = r.StatusCode
		}
		fetchErr = classifyStatus(result.StatusCode, err)
		logger.Debug("static fetch error", "status", result.StatusCode, "error", err)
	})

	visitErr := c.Visit(targetURL)
	if fetchErr != nil {
		return result, fetchErr
	}
	if visitErr != nil {
		return result, fmt.Errorf("failed to visit URL: %w", visitErr)
	}
	if strings.TrimSpace(result.HTML) == "" {
		return result, fmt.Errorf("%s: %w", targetURL, ErrEmptyBody)
	}

	if err := parseContent(&result); err != nil {
		return result, fmt.Errorf("failed to parse content: %w", err)
	}

	logger.Debug("static fetch complete", "url", targetURL, "title", result.Title, "links", len(result.Links))
	return result, nil
}

// Exists issues a HEAD request and reports whether the page answers 2xx.
// A 404 is a definite no and is not returned as an error.
func (f *StaticFetcher) Exists(ctx context.Context, targetURL string, opts Options) (bool, error) {
	c, err := f.collector(ctx, targetURL, opts)
	if err != nil {
		return false, err
	}

	status := 0
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
	})
	var probeErr error
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		probeErr = classifyStatus(status, err)
	})

	headErr := c.Head(targetURL)
	logger.Debug("static probe", "url", targetURL, "status", status)
	switch {
	case status >= 200 && status < 300:
		return true, nil
	case status == 404 || status == 410:
		return false, nil
	case probeErr != nil:
		return false, probeErr
	case headErr != nil:
		return false, fmt.Errorf("probe %s: %w", targetURL, headErr)
	default:
		return false, nil
	}
}

// parseContent fills in the title and the absolute links of the page.
func parseContent(content *Content) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content.HTML))
	if err != nil {
		return err
	}

	if content.Title == "" {
		content.Title = cleanText(doc.Find("title").First().Text())
	}

	baseURL, _ := url.Parse(content.URL)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists || href == "" || strings.HasPrefix(href, "#") {
			return
		}
		linkURL, err := url.Parse(href)
		if err != nil {
			return
		}
		if !linkURL.IsAbs() && baseURL != nil {
			linkURL = baseURL.ResolveReference(linkURL)
		}
		content.Links = append(content.Links, linkURL.String())
	})
	return nil
}

// Close releases resources.
func (f *StaticFetcher) Close() error {
	return nil
}

// Type returns the fetcher type.
func (f *StaticFetcher) Type() string {
	return "static"
}

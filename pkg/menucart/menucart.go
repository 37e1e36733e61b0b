package menucart

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/jmylchreest/menucart/internal/logger"
	"github.com/jmylchreest/menucart/pkg/discovery"
	"github.com/jmylchreest/menucart/pkg/fetcher"
	"github.com/jmylchreest/menucart/pkg/menu"
)

// ErrEmptyResult is returned when a page yields no list items and no
// recipes. Check with errors.Is.
var ErrEmptyResult = menu.ErrEmptyResult

// Target names the menu to scrape. URL wins over Week; the zero Target
// means the current week.
type Target struct {
	URL  string
	Week int
}

// String describes the target for logs.
func (t Target) String() string {
	switch {
	case t.URL != "":
		return t.URL
	case t.Week > 0:
		return fmt.Sprintf("semana %d", t.Week)
	default:
		return "semana actual"
	}
}

// Weeks returns one target per week number.
func Weeks(weeks ...int) []Target {
	targets := make([]Target, len(weeks))
	for i, w := range weeks {
		targets[i] = Target{Week: w}
	}
	return targets
}

// Outcome is the result of scraping one target.
type Outcome struct {
	Target          Target
	URL             string
	Result          *menu.Result
	FetchDuration   time.Duration
	ExtractDuration time.Duration
	Error           error
}

// Scraper fetches menu pages and extracts them.
type Scraper struct {
	fetcher    fetcher.Fetcher
	discoverer *discovery.Discoverer
	config     Config
}

// New creates a Scraper.
func New(opts ...Option) (*Scraper, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("base url is required")
	}

	// Use injected fetcher or create a default static one
	f := cfg.Fetcher
	if f == nil {
		f = fetcher.NewStatic(fetcher.StaticConfig{
			UserAgent:   cfg.UserAgent,
			Timeout:     cfg.Timeout,
			MaxBodySize: cfg.MaxBodySize,
		})
	}

	s := &Scraper{fetcher: f, config: cfg}
	discoveryOpts := []discovery.Option{
		discovery.WithFetchOptions(s.fetchOptions()),
		discovery.WithBaseURL(cfg.BaseURL),
		discovery.WithLandingURL(cfg.LandingURL),
		discovery.WithMaxWeek(cfg.MaxWeek),
	}
	if cfg.Prober != nil {
		discoveryOpts = append(discoveryOpts, discovery.WithProber(cfg.Prober))
	}
	s.discoverer = discovery.New(f, discoveryOpts...)
	return s, nil
}

func (s *Scraper) fetchOptions() fetcher.Options {
	return fetcher.Options{
		UserAgent:   s.config.UserAgent,
		Timeout:     s.config.Timeout,
		MaxBodySize: s.config.MaxBodySize,
		Headers:     s.config.Headers,
		Cookies:     s.config.Cookies,
	}
}

// Discoverer exposes menu discovery with the scraper's fetch settings.
func (s *Scraper) Discoverer() *discovery.Discoverer {
	return s.discoverer
}

// Resolve fills in the URL (and, when known, the week) of t. The zero
// Target resolves to the current week.
func (s *Scraper) Resolve(ctx context.Context, t Target) Target {
	if t.URL != "" {
		return t
	}
	if t.Week <= 0 {
		t.Week = s.discoverer.CurrentWeek(ctx)
		logger.Info("current week detected", "week", t.Week)
	}
	t.URL = discovery.WeekURL(s.config.BaseURL, t.Week)
	return t
}

// Scrape fetches and extracts a single menu.
func (s *Scraper) Scrape(ctx context.Context, t Target) (*menu.Result, error) {
	out := s.scrape(ctx, t)
	return out.Result, out.Error
}

func (s *Scraper) scrape(ctx context.Context, t Target) *Outcome {
	t = s.Resolve(ctx, t)
	out := &Outcome{Target: t, URL: t.URL}

	fetchStart := time.Now()
	content, err := s.fetcher.Fetch(ctx, t.URL, s.fetchOptions())
	out.FetchDuration = time.Since(fetchStart)
	if err != nil {
		out.Error = fmt.Errorf("fetch failed: %w", err)
		return out
	}

	doc, err := content.Document()
	if err != nil {
		out.Error = err
		return out
	}

	src := menu.Source{URL: content.URL, Generated: time.Now()}
	if src.URL == "" {
		src.URL = t.URL
	}
	if t.Week > 0 {
		week := t.Week
		src.Week = &week
	}

	extractStart := time.Now()
	res := menu.Extract(doc, src)
	out.ExtractDuration = time.Since(extractStart)

	logger.Debug("menu extracted",
		"url", src.URL,
		"general_from", res.GeneralFrom,
		"general_items", res.General.Len(),
		"veggie_items", res.Veggie.Len(),
		"veggie_found", res.VeggieFound,
		"recipes", len(res.Recipes),
		"exact", res.GeneralStats.Exact,
		"fuzzy", res.GeneralStats.Fuzzy,
		"unmatched", res.GeneralStats.Unmatched,
		"duration", out.ExtractDuration)

	if res.Empty() {
		out.Error = fmt.Errorf("%s: %w", src.URL, ErrEmptyResult)
		return out
	}
	out.Result = res
	return out
}

// ScrapeMany scrapes targets concurrently. The channel is closed once every
// target has an Outcome; outcomes arrive in completion order.
func (s *Scraper) ScrapeMany(ctx context.Context, targets []Target, concurrency int) <-chan *Outcome {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make(chan *Outcome, len(targets))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for _, t := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results <- &Outcome{Target: t, Error: ctx.Err()}
				return
			}
			defer func() { <-sem }()

			results <- s.scrape(ctx, t)
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// AvailableWeeks lists the weekly menus that exist, newest first. The
// landing page is asked first; when it links no weekly menu the week URLs
// are probed.
func (s *Scraper) AvailableWeeks(ctx context.Context) ([]int, error) {
	menus, err := s.discoverer.Discover(ctx)
	if err != nil {
		logger.Warn("menu discovery failed, probing week urls", "error", err)
	}

	var weeks []int
	for _, m := range menus {
		if m.Kind == discovery.Weekly && m.Week != nil {
			weeks = append(weeks, *m.Week)
		}
	}
	if len(weeks) > 0 {
		return slices.Compact(weeks), nil
	}
	return s.discoverer.ProbeWeeks(ctx)
}

// Close releases all resources.
func (s *Scraper) Close() error {
	if s.fetcher != nil {
		return s.fetcher.Close()
	}
	return nil
}

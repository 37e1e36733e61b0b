// Package discovery finds the menus published on the landing page and works
// out which weekly menu is the current one.
package discovery

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jmylchreest/menucart/internal/logger"
	"github.com/jmylchreest/menucart/pkg/fetcher"
	"github.com/jmylchreest/menucart/pkg/menu"
)

// Kind tells weekly menus apart from one-off specials.
type Kind string

const (
	Weekly  Kind = "semanal"
	Special Kind = "especial"
)

// Default site locations.
const (
	DefaultBaseURL    = "https://almacen.paulinacocina.net"
	DefaultLandingURL = DefaultBaseURL + "/menu-semanal/"
)

// ErrNoProber is returned by ProbeWeeks when no prober is configured.
var ErrNoProber = errors.New("no prober configured")

// Menu is one candidate menu page.
type Menu struct {
	URL   string `json:"url" yaml:"url"`
	Title string `json:"titulo" yaml:"titulo"`
	Kind  Kind   `json:"tipo" yaml:"tipo"`
	Week  *int   `json:"semana" yaml:"semana"`
}

var (
	weeklyPattern = regexp.MustCompile(`(?i)/menu-semana-\d+`)
	menuPatterns  = []*regexp.Regexp{
		weeklyPattern,
		regexp.MustCompile(`(?i)/menu/[^/]`),
		regexp.MustCompile(`(?i)/menu-especial`),
		regexp.MustCompile(`(?i)/menu-[a-z]+-\d{4}`),
	}
)

// IsMenuURL reports whether href looks like a menu page.
func IsMenuURL(href string) bool {
	for _, p := range menuPatterns {
		if p.MatchString(href) {
			return true
		}
	}
	return false
}

// WeekURL builds the address of a weekly menu.
func WeekURL(baseURL string, week int) string {
	return fmt.Sprintf("%s/menu-semana-%d", strings.TrimRight(baseURL, "/"), week)
}

// ParseMenus extracts the menus linked from a landing page. Links are
// resolved against landingURL, the landing page itself is skipped and each
// URL is kept once. Weekly menus come first, newest week first, followed by
// specials in page order.
func ParseMenus(doc *goquery.Document, landingURL string) ([]Menu, error) {
	base, err := url.Parse(landingURL)
	if err != nil {
		return nil, fmt.Errorf("parsing landing url: %w", err)
	}
	landing := canonical(base)

	var menus []Menu
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
			return
		}
		if !IsMenuURL(href) {
			return
		}

		linkURL, err := url.Parse(href)
		if err != nil {
			return
		}
		if !linkURL.IsAbs() {
			linkURL = base.ResolveReference(linkURL)
		}
		linkURL.Fragment = ""

		key := canonical(linkURL)
		if key == landing || seen[key] {
			return
		}
		seen[key] = true

		title := strings.Join(strings.Fields(s.Text()), " ")
		m := Menu{URL: linkURL.String(), Title: title, Kind: Special}
		if weeklyPattern.MatchString(linkURL.Path) {
			m.Kind = Weekly
		}
		if n, ok := menu.WeekNumber(linkURL.Path + " " + title); ok {
			m.Week = &n
		}
		menus = append(menus, m)
	})

	slices.SortStableFunc(menus, compareMenus)
	return menus, nil
}

func compareMenus(a, b Menu) int {
	if a.Kind != b.Kind {
		if a.Kind == Weekly {
			return -1
		}
		return 1
	}
	if a.Kind != Weekly {
		return 0
	}
	return cmp.Compare(weekOf(b), weekOf(a))
}

func weekOf(m Menu) int {
	if m.Week == nil {
		return 0
	}
	return *m.Week
}

// canonical drops query, fragment and trailing slash for comparisons.
func canonical(u *url.URL) string {
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host) + strings.TrimRight(u.Path, "/") + "/"
}

// Discoverer lists menus from the site.
type Discoverer struct {
	fetcher    fetcher.Fetcher
	prober     fetcher.Prober
	opts       fetcher.Options
	baseURL    string
	landingURL string
	maxWeek    int
}

// Option configures a Discoverer.
type Option func(*Discoverer)

// WithProber sets the HEAD prober used for brute-force week listing.
func WithProber(p fetcher.Prober) Option {
	return func(d *Discoverer) { d.prober = p }
}

// WithFetchOptions sets the options passed to every request.
func WithFetchOptions(opts fetcher.Options) Option {
	return func(d *Discoverer) { d.opts = opts }
}

// WithBaseURL overrides the site root used to build weekly menu URLs.
func WithBaseURL(u string) Option {
	return func(d *Discoverer) { d.baseURL = strings.TrimRight(u, "/") }
}

// WithLandingURL overrides the landing page that links every menu.
func WithLandingURL(u string) Option {
	return func(d *Discoverer) { d.landingURL = u }
}

// WithMaxWeek sets the highest week probed by ProbeWeeks.
func WithMaxWeek(n int) Option {
	return func(d *Discoverer) { d.maxWeek = n }
}

// New creates a Discoverer. When f also implements fetcher.Prober it is
// used for probing unless WithProber says otherwise.
func New(f fetcher.Fetcher, opts ...Option) *Discoverer {
	d := &Discoverer{
		fetcher:    f,
		baseURL:    DefaultBaseURL,
		landingURL: DefaultLandingURL,
		maxWeek:    20,
	}
	if p, ok := f.(fetcher.Prober); ok {
		d.prober = p
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Discover fetches the landing page and returns the menus it links.
func (d *Discoverer) Discover(ctx context.Context) ([]Menu, error) {
	content, err := d.fetcher.Fetch(ctx, d.landingURL, d.opts)
	if err != nil {
		return nil, fmt.Errorf("fetching landing page: %w", err)
	}
	doc, err := content.Document()
	if err != nil {
		return nil, err
	}
	menus, err := ParseMenus(doc, d.landingURL)
	if err != nil {
		return nil, err
	}
	logger.Debug("menus discovered", "landing", d.landingURL, "count", len(menus))
	return menus, nil
}

// ProbeWeeks checks weekly menu URLs from the highest week down and returns
// the weeks that exist, newest first.
func (d *Discoverer) ProbeWeeks(ctx context.Context) ([]int, error) {
	if d.prober == nil {
		return nil, ErrNoProber
	}
	var weeks []int
	for n := d.maxWeek; n >= 1; n-- {
		if err := ctx.Err(); err != nil {
			return weeks, err
		}
		ok, err := d.prober.Exists(ctx, WeekURL(d.baseURL, n), d.opts)
		if err != nil {
			logger.Debug("week probe failed", "week", n, "error", err)
			continue
		}
		if ok {
			weeks = append(weeks, n)
		}
	}
	return weeks, nil
}

// CurrentWeek returns the newest weekly menu. It asks the landing page
// first, falls back to probing week URLs and finally assumes week 1.
// Specials never count.
func (d *Discoverer) CurrentWeek(ctx context.Context) int {
	menus, err := d.Discover(ctx)
	if err != nil {
		logger.Warn("menu discovery failed, probing week urls", "error", err)
	}
	if week := LatestWeek(menus); week > 0 {
		return week
	}

	weeks, err := d.ProbeWeeks(ctx)
	if err != nil {
		logger.Warn("week probing failed", "error", err)
	}
	if len(weeks) > 0 {
		return slices.Max(weeks)
	}
	return 1
}

// LatestWeek returns the highest week among weekly menus, or 0.
func LatestWeek(menus []Menu) int {
	latest := 0
	for _, m := range menus {
		if m.Kind == Weekly && m.Week != nil && *m.Week > latest {
			latest = *m.Week
		}
	}
	return latest
}

package fetcher

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jmylchreest/menucart/internal/logger"
)

// AutoFetcher fetches over plain HTTP and falls back to a browser only when
// the page looks like it needs JavaScript to show the menu. The browser is
// started on first use.
type AutoFetcher struct {
	static     *StaticFetcher
	newBrowser func() (Fetcher, error)

	once       sync.Once
	browser    Fetcher
	browserErr error
}

// NewAuto creates an auto fetcher. The dynamic fetcher is only launched when
// a page needs it.
func NewAuto(static StaticConfig, dynamic DynamicConfig) *AutoFetcher {
	return newAuto(NewStatic(static), func() (Fetcher, error) {
		return NewDynamic(dynamic)
	})
}

func newAuto(static *StaticFetcher, newBrowser func() (Fetcher, error)) *AutoFetcher {
	return &AutoFetcher{static: static, newBrowser: newBrowser}
}

func (f *AutoFetcher) dynamic() (Fetcher, error) {
	f.once.Do(func() {
		f.browser, f.browserErr = f.newBrowser()
	})
	return f.browser, f.browserErr
}

// Fetch tries the static fetcher first. Missing pages and auth failures are
// returned as-is: a browser would not fare better.
func (f *AutoFetcher) Fetch(ctx context.Context, url string, opts Options) (Content, error) {
	content, err := f.static.Fetch(ctx, url, opts)
	switch {
	case err == nil && !NeedsJavaScript(content.HTML):
		return content, nil
	case IsPermanent(err):
		return content, err
	case err != nil:
		logger.Debug("static fetch failed, retrying in browser", "url", url, "error", err)
	default:
		logger.Debug("page needs javascript, retrying in browser", "url", url)
	}

	browser, derr := f.dynamic()
	if derr != nil {
		if err != nil {
			return content, err
		}
		return content, fmt.Errorf("page needs a browser: %w", derr)
	}
	return browser.Fetch(ctx, url, opts)
}

// Exists probes with HEAD requests.
func (f *AutoFetcher) Exists(ctx context.Context, url string, opts Options) (bool, error) {
	return f.static.Exists(ctx, url, opts)
}

// Close shuts the browser down if it was started.
func (f *AutoFetcher) Close() error {
	if f.browser != nil {
		return f.browser.Close()
	}
	return nil
}

// Type returns "auto".
func (f *AutoFetcher) Type() string {
	return "auto"
}

// menuMarkers appear in server-rendered menu pages.
var menuMarkers = []string{
	"lista_compra_g",
	"lista_compra_v",
	"<label",
}

// jsMarkers appear in pages that render their content client-side.
var jsMarkers = []string{
	`<div id="root"></div>`,
	`<div id="app"></div>`,
	`<div id="__next"></div>`,
	`<div id="__nuxt"></div>`,
	"elementor-invisible",
	"enable javascript",
	"activa javascript",
	"habilita javascript",
}

// NeedsJavaScript reports whether html looks like a client-rendered page
// with no menu content in it yet.
func NeedsJavaScript(html string) bool {
	lower := strings.ToLower(html)
	for _, m := range menuMarkers {
		if strings.Contains(lower, m) {
			return false
		}
	}
	for _, m := range jsMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

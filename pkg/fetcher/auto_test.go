package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

type fakeBrowser struct {
	calls int
}

func (b *fakeBrowser) Fetch(_ context.Context, url string, _ Options) (Content, error) {
	b.calls++
	return Content{URL: url, HTML: `<div id="lista_compra_g"><label>arroz</label></div>`, StatusCode: 200}, nil
}

func (b *fakeBrowser) Close() error { return nil }
func (b *fakeBrowser) Type() string { return "fake" }

func newTestAuto(t *testing.T) (*AutoFetcher, *fakeBrowser, *int, string) {
	t.Helper()
	srv := newMenuServer(t)
	srv.Config.Handler.(*http.ServeMux).HandleFunc("/spa", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><div id="root"></div><noscript>Enable JavaScript</noscript></body></html>`)
	})

	browser := &fakeBrowser{}
	launches := 0
	auto := newAuto(NewStatic(StaticConfig{}), func() (Fetcher, error) {
		launches++
		return browser, nil
	})
	return auto, browser, &launches, srv.URL
}

func TestAutoFetcher_StaticPage(t *testing.T) {
	auto, browser, launches, base := newTestAuto(t)

	content, err := auto.Fetch(context.Background(), base+"/menu-semana-4", Options{})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if content.Title != "Menú semana 4 - Paulina Cocina" {
		t.Errorf("Title = %q", content.Title)
	}
	if browser.calls != 0 || *launches != 0 {
		t.Errorf("browser used for a static page: calls=%d launches=%d", browser.calls, *launches)
	}
}

func TestAutoFetcher_FallsBackToBrowser(t *testing.T) {
	auto, browser, launches, base := newTestAuto(t)

	for range 2 {
		content, err := auto.Fetch(context.Background(), base+"/spa", Options{})
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if NeedsJavaScript(content.HTML) {
			t.Errorf("expected rendered html, got %q", content.HTML)
		}
	}
	if browser.calls != 2 {
		t.Errorf("browser calls = %d, want 2", browser.calls)
	}
	if *launches != 1 {
		t.Errorf("browser launched %d times, want 1", *launches)
	}
}

func TestAutoFetcher_NotFoundSkipsBrowser(t *testing.T) {
	auto, browser, _, base := newTestAuto(t)

	_, err := auto.Fetch(context.Background(), base+"/menu-semana-99", Options{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	if browser.calls != 0 {
		t.Error("browser should not retry a missing page")
	}
}

func TestAutoFetcher_BrowserUnavailable(t *testing.T) {
	srv := newMenuServer(t)
	srv.Config.Handler.(*http.ServeMux).HandleFunc("/spa", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<div id="app"></div>`)
	})
	noChrome := errors.New("chrome not found")
	auto := newAuto(NewStatic(StaticConfig{}), func() (Fetcher, error) { return nil, noChrome })

	_, err := auto.Fetch(context.Background(), srv.URL+"/spa", Options{})
	if !errors.Is(err, noChrome) {
		t.Errorf("error = %v, want %v", err, noChrome)
	}
	if err := auto.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestNeedsJavaScript(t *testing.T) {
	tests := []struct {
		name string
		html string
		want bool
	}{
		{"server rendered list", `<div id="lista_compra_g"><label>arroz</label></div>`, false},
		{"react shell", `<body><div id="root"></div></body>`, true},
		{"elementor lazy", `<div class="elementor-invisible">cargando</div>`, true},
		{"spanish noscript", `<noscript>Activá JavaScript</noscript>`, false},
		{"spanish noscript unaccented", `<noscript>Activa JavaScript para ver el menú</noscript>`, true},
		{"markers win", `<div id="root"></div><label>arroz</label>`, false},
		{"plain page", `<p>hola</p>`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsJavaScript(tt.html); got != tt.want {
				t.Errorf("NeedsJavaScript() = %v, want %v", got, tt.want)
			}
		})
	}
}

package menu

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

// loadDoc parses a fixture from the testdata directory.
func loadDoc(t *testing.T, filename string) *goquery.Document {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", filename))
	if err != nil {
		t.Fatalf("failed to open testdata %s: %v", filename, err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		t.Fatalf("failed to parse testdata %s: %v", filename, err)
	}
	return doc
}

// parseDoc parses inline HTML.
func parseDoc(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("failed to parse html: %v", err)
	}
	return doc
}

func assertItems(t *testing.T, list ShoppingList, category string, want ...string) {
	t.Helper()
	got := list.Items(category)
	if !slices.Equal(got, want) {
		t.Errorf("items[%q] = %q, want %q", category, got, want)
	}
}

func assertDays(t *testing.T, m ItemDays, item string, want ...Day) {
	t.Helper()
	got := m[item]
	if !slices.Equal(got, want) {
		t.Errorf("item_to_days[%q] = %v, want %v", item, got, want)
	}
}

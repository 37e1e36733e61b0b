package menu

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	minHeadingRunes     = 3
	maxMarkerLabelRunes = 30
)

var (
	checkboxGlyphs = regexp.MustCompile(`^[\[\]✓✔☐☑✅\s]+`)
	recipeMention  = regexp.MustCompile(`receta|ingrediente`)
)

// blockTags are the elements treated as block-level when looking for the
// context a page-wide label sits in.
var blockTags = map[string]bool{
	"div": true, "section": true, "article": true, "aside": true, "main": true,
	"header": true, "footer": true, "form": true, "fieldset": true, "li": true,
	"ul": true, "ol": true, "p": true, "td": true, "table": true,
}

// ExtractList reads a shopping list out of a located section.
//
// Role-specific sections are walked in document order: a heading that names
// a known category moves the category cursor and each checklist label is
// filed under the cursor. Page-wide sections use the label scan instead.
func ExtractList(section Section) ShoppingList {
	if section.Selection == nil {
		return ShoppingList{}
	}
	if section.PageWide {
		return scanLabels(section.Selection)
	}

	acc := walk{cursor: DefaultGroup, list: newListBuilder(false)}
	section.Selection.Find("*").Each(func(_ int, s *goquery.Selection) {
		acc = acc.step(s)
	})
	return acc.list.build()
}

// walk is the accumulator threaded through the section walk.
type walk struct {
	cursor Category
	list   *listBuilder
}

func (w walk) step(s *goquery.Selection) walk {
	switch {
	case isHeadingLike(s):
		text := cleanText(s.Text())
		if utf8.RuneCountInString(text) < minHeadingRunes {
			return w
		}
		// Noise headings must not reset the cursor.
		if c := Classify(text); !c.IsOther() {
			w.cursor = c
		}
	case goquery.NodeName(s) == "label":
		if item, ok := labelItem(s); ok {
			w.list.add(w.cursor, item)
		}
	}
	return w
}

// scanLabels is the page-wide fallback. Short labels naming a category act
// as markers, every other label is filed under the current marker with one
// de-duplication set for the whole page, and labels sitting in a day recipe
// block are skipped.
func scanLabels(root *goquery.Selection) ShoppingList {
	cursor := DefaultGroup
	list := newListBuilder(true)
	root.Find("label").Each(func(_ int, s *goquery.Selection) {
		item, ok := labelItem(s)
		if !ok {
			return
		}
		if c := Classify(item); !c.IsOther() && utf8.RuneCountInString(item) < maxMarkerLabelRunes {
			cursor = c
			return
		}
		if inRecipeBlock(s) {
			return
		}
		list.add(cursor, item)
	})
	return list.build()
}

// labelItem returns the cleaned label text when it can be a list item.
func labelItem(s *goquery.Selection) (string, bool) {
	text := stripGlyphs(s.Text())
	if utf8.RuneCountInString(text) <= 1 {
		return "", false
	}
	if strings.HasPrefix(strings.ToLower(text), "lista") {
		return "", false
	}
	return text, true
}

// inRecipeBlock reports whether the nearest enclosing block with content of
// its own mentions a weekday together with a recipe or its ingredients.
func inRecipeBlock(label *goquery.Selection) bool {
	own := cleanText(label.Text())
	for p := label.Parent(); p.Length() > 0; p = p.Parent() {
		if !blockTags[goquery.NodeName(p)] {
			continue
		}
		text := cleanText(p.Text())
		if text == own {
			continue
		}
		folded := Fold(text)
		return mentionsAnyDay(folded) && recipeMention.MatchString(folded)
	}
	return false
}

func isHeadingLike(s *goquery.Selection) bool {
	switch goquery.NodeName(s) {
	case "strong", "b", "h1", "h2", "h3", "h4", "h5", "h6":
		return true
	}
	class, _ := s.Attr("class")
	return strings.Contains(class, "heading")
}

func stripGlyphs(text string) string {
	return cleanText(checkboxGlyphs.ReplaceAllString(strings.TrimSpace(text), ""))
}

// cleanText collapses runs of whitespace and trims.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ownText returns the text of the direct text children of s, ignoring
// nested elements.
func ownText(s *goquery.Selection) string {
	var b strings.Builder
	for _, n := range s.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
				b.WriteByte(' ')
			}
		}
	}
	return cleanText(b.String())
}

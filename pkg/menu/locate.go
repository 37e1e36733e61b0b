package menu

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Role selects which of the two parallel shopping lists is wanted.
type Role int

const (
	General Role = iota
	Vegetarian
)

func (r Role) String() string {
	switch r {
	case General:
		return "general"
	case Vegetarian:
		return "vegetarian"
	default:
		return "unknown"
	}
}

// Stable container identifiers used by the menu template.
const (
	GeneralListID    = "lista_compra_g"
	VegetarianListID = "lista_compra_v"
)

func (r Role) containerID() string {
	if r == Vegetarian {
		return VegetarianListID
	}
	return GeneralListID
}

func (r Role) other() Role {
	if r == Vegetarian {
		return General
	}
	return Vegetarian
}

// Section is a region of the document judged to hold one list or one day's
// recipe. A page-wide section spans the whole document and tells ExtractList
// to use the label scan instead of the heading walk.
type Section struct {
	Selection *goquery.Selection
	Strategy  string
	PageWide  bool
}

// Strategy names reported on located sections.
const (
	StrategyID        = "id"
	StrategyAttribute = "data-nombre"
	StrategyPageWide  = "page-wide"
	StrategyHeading   = "heading"
)

const (
	maxWidenLevels     = 5
	maxDayHeadingRunes = 80
	maxDayAscend       = 5
)

var (
	listAttributePattern = regexp.MustCompile(`(?i)lista`)
	vegAttributePattern  = regexp.MustCompile(`(?i)veg`)
)

// strategy is one way of finding a section; ok reports a hit.
type strategy func(doc *goquery.Document) (sec Section, ok bool)

// firstOf runs strategies in order and returns the first hit.
func firstOf(doc *goquery.Document, strategies ...strategy) (Section, bool) {
	for _, s := range strategies {
		if sec, ok := s(doc); ok {
			return sec, true
		}
	}
	return Section{}, false
}

// LocateList finds the section holding the shopping list for role.
//
// The general list falls back to a page-wide section, so it is always found.
// The vegetarian list never does: a page without the vegetarian container
// reports false instead of handing back general items under the wrong role.
func LocateList(doc *goquery.Document, role Role) (Section, bool) {
	switch role {
	case Vegetarian:
		return firstOf(doc, listByID(role))
	default:
		return firstOf(doc, listByID(role), listByAttribute(role), pageWide)
	}
}

// PageWideSection returns the whole document as a section for the label scan.
func PageWideSection(doc *goquery.Document) Section {
	sec, _ := pageWide(doc)
	return sec
}

func pageWide(doc *goquery.Document) (Section, bool) {
	return Section{Selection: doc.Selection, Strategy: StrategyPageWide, PageWide: true}, true
}

func listByID(role Role) strategy {
	return func(doc *goquery.Document) (Section, bool) {
		found := doc.Find("#" + role.containerID()).First()
		if found.Length() == 0 {
			return Section{}, false
		}
		return Section{Selection: widen(found, role), Strategy: StrategyID}, true
	}
}

func listByAttribute(role Role) strategy {
	return func(doc *goquery.Document) (Section, bool) {
		found := doc.Find("[data-nombre]").FilterFunction(func(_ int, s *goquery.Selection) bool {
			v, _ := s.Attr("data-nombre")
			return listAttributePattern.MatchString(v) && !vegAttributePattern.MatchString(v)
		}).First()
		if found.Length() == 0 {
			return Section{}, false
		}
		return Section{Selection: widen(found, role), Strategy: StrategyAttribute}, true
	}
}

// widen climbs to enclosing layout containers so that category headings
// rendered beside the checklist are included. It stops before a container
// that would also swallow the other role's list.
func widen(sel *goquery.Selection, role Role) *goquery.Selection {
	otherID := "#" + role.other().containerID()
	current := sel
	for range maxWidenLevels {
		candidate := current.ParentsFiltered("div.e-con-inner").First()
		if candidate.Length() == 0 {
			break
		}
		if candidate.Find(otherID).Length() > 0 {
			break
		}
		current = candidate
	}
	return current
}

// LocateDay finds the section holding the recipe for day. Each day is
// located on its own; sections of different days may overlap.
//
// LocateDay panics if day is not a weekday.
func LocateDay(doc *goquery.Document, day Day) (Section, bool) {
	day.mustBeValid()
	return firstOf(doc, dayByHeading(day), dayByAttribute(day))
}

func dayByHeading(day Day) strategy {
	return func(doc *goquery.Document) (Section, bool) {
		var heading *goquery.Selection
		doc.Find("h2, h3, h4, strong, b, em").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := cleanText(s.Text())
			if utf8.RuneCountInString(text) > maxDayHeadingRunes || !day.MentionedIn(text) {
				return true
			}
			heading = s
			return false
		})
		if heading == nil {
			return Section{}, false
		}
		return Section{Selection: daySectionFrom(heading), Strategy: StrategyHeading}, true
	}
}

// daySectionFrom picks the nearest ancestor of a day heading that holds
// checklist labels or list items, or the heading's parent when none does.
func daySectionFrom(heading *goquery.Selection) *goquery.Selection {
	ancestor := heading.Parent()
	for range maxDayAscend {
		if ancestor.Length() == 0 {
			break
		}
		if ancestor.Find("label, li").Length() > 0 {
			return ancestor
		}
		ancestor = ancestor.Parent()
	}
	return heading.Parent()
}

func dayByAttribute(day Day) strategy {
	wanted := map[string]bool{
		day.Folded():              true,
		"receta_" + day.Folded(): true,
		"receta-" + day.Folded(): true,
	}
	return func(doc *goquery.Document) (Section, bool) {
		var found *goquery.Selection
		doc.Find("[id], [data-nombre]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			for _, attr := range []string{"id", "data-nombre"} {
				v, ok := s.Attr(attr)
				if ok && wanted[strings.TrimSpace(Fold(v))] {
					found = s
					return false
				}
			}
			return true
		})
		if found == nil {
			return Section{}, false
		}
		return Section{Selection: found, Strategy: StrategyAttribute}, true
	}
}

package menu

import (
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Extract runs the full pipeline over doc. It never fails on malformed
// markup; missing sections shrink the result instead.
//
// When the page has no vegetarian list of its own, the general list is
// copied into the veggie slot.
func Extract(doc *goquery.Document, src Source) *Result {
	res := &Result{
		Title:     src.Title,
		DateRange: DateRange(doc),
		Week:      src.Week,
		URL:       src.URL,
		Generated: src.Generated,
	}
	if res.Title == "" {
		res.Title = PageTitle(doc)
	}
	if res.Week == nil {
		res.Week = weekOf(src.URL, res.Title)
	}
	if res.Generated.IsZero() {
		res.Generated = time.Now()
	}

	general, from := extractGeneral(doc)
	res.General = general
	res.GeneralFrom = from
	res.HasGeneralList = from != StrategyPageWide && !general.Empty()

	if sec, ok := LocateList(doc, Vegetarian); ok {
		res.Veggie = ExtractList(sec)
		res.VeggieFound = !res.Veggie.Empty()
	}
	if res.Veggie.Empty() {
		res.Veggie = res.General.Clone()
	}

	res.Recipes = ExtractRecipes(doc)
	res.ItemToDays, res.GeneralStats = Reconcile(res.General, res.Recipes)
	res.ItemToDaysVeggie, res.VeggieStats = Reconcile(res.Veggie, res.Recipes)
	return res
}

func weekOf(candidates ...string) *int {
	for _, c := range candidates {
		if n, ok := WeekNumber(c); ok {
			return &n
		}
	}
	return nil
}

// extractGeneral reads the general list, dropping to the page-wide scan when
// the located section holds no items. It returns the strategy that produced
// the list.
func extractGeneral(doc *goquery.Document) (ShoppingList, string) {
	sec, _ := LocateList(doc, General)
	list := ExtractList(sec)
	if list.Empty() && !sec.PageWide {
		sec = PageWideSection(doc)
		list = ExtractList(sec)
	}
	return list, sec.Strategy
}

// ExtractRecipes locates and extracts every weekday's recipe. Days that
// cannot be found are absent from the map.
func ExtractRecipes(doc *goquery.Document) Recipes {
	out := make(Recipes)
	for _, day := range Week {
		sec, ok := LocateDay(doc, day)
		if !ok {
			continue
		}
		if recipe, ok := ExtractDay(sec, day); ok {
			out[day] = recipe
		}
	}
	return out
}

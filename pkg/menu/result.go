package menu

import (
	"errors"
	"time"
)

// ErrEmptyResult signals that a page yielded no list items and no recipes.
var ErrEmptyResult = errors.New("no shopping list or recipes found")

// Source carries what the fetcher knows about the page.
type Source struct {
	URL   string
	Title string
	Week  *int
	// Generated stamps the result. Zero means now.
	Generated time.Time
}

// Result is everything extracted from one menu page. It is built once by
// Extract and not modified afterwards.
type Result struct {
	Title            string       `json:"titulo" yaml:"titulo"`
	DateRange        string       `json:"fechas" yaml:"fechas"`
	Week             *int         `json:"semana" yaml:"semana"`
	URL              string       `json:"url,omitempty" yaml:"url,omitempty"`
	HasGeneralList   bool         `json:"tiene_lista_general" yaml:"tiene_lista_general"`
	General          ShoppingList `json:"general" yaml:"general"`
	Veggie           ShoppingList `json:"veggie" yaml:"veggie"`
	Recipes          Recipes      `json:"recetas" yaml:"recetas"`
	ItemToDays       ItemDays     `json:"item_to_days" yaml:"item_to_days"`
	ItemToDaysVeggie ItemDays     `json:"item_to_days_veggie" yaml:"item_to_days_veggie"`
	Generated        time.Time    `json:"generado" yaml:"generado"`

	// Diagnostics, not part of the document.
	GeneralStats MatchStats `json:"-" yaml:"-"`
	VeggieStats  MatchStats `json:"-" yaml:"-"`
	GeneralFrom  string     `json:"-" yaml:"-"`
	VeggieFound  bool       `json:"-" yaml:"-"`
}

// Empty reports total extraction failure: no items and no recipes.
func (r *Result) Empty() bool {
	return r.General.Empty() && r.Veggie.Empty() && len(r.Recipes) == 0
}

// Package menu turns a parsed weekly menu page into a categorized shopping
// list, per-day recipes and the item-to-day cross reference between them.
//
// Every function in this package is a pure transformation over a caller-owned
// goquery document. Nothing here fetches, logs or persists.
package menu

import "strings"

// Category is a shopping list grouping with a fixed display order.
type Category struct {
	Name  string
	Order int
}

// OtherOrder is the order assigned to text no keyword recognizes.
const OtherOrder = 99

// Canonical categories.
var (
	Supermarket  = Category{Name: "Supermercado 🏪", Order: 1}
	Meats        = Category{Name: "Carnes 🥩", Order: 2}
	Dietetics    = Category{Name: "Dietética 🥗", Order: 3}
	Greengrocer  = Category{Name: "Verdulería 🥬", Order: 4}
	Bonus        = Category{Name: "Yapa ⭐", Order: 5}
	Wildcard     = Category{Name: "Comodín 👑", Order: 6}
	AlreadyHome  = Category{Name: "Ya tenés en casa ✅", Order: 7}
	Other        = Category{Name: "Otros 📦", Order: OtherOrder}
	DefaultGroup = Supermarket
)

type keyword struct {
	text     string
	category Category
}

// keywords is scanned in order; the first substring hit wins. Accented and
// plain spellings are both listed so no folding is needed at lookup time.
var keywords = []keyword{
	{"supermercado", Supermarket},
	{"carnes", Meats},
	{"dietética", Dietetics},
	{"dietetica", Dietetics},
	{"verdulería", Greengrocer},
	{"verduleria", Greengrocer},
	{"yapa", Bonus},
	{"comodín", Wildcard},
	{"comodin", Wildcard},
	{"seguro", AlreadyHome},
	{"casa", AlreadyHome},
}

// Classify maps free text to its category. Unknown text yields Other.
func Classify(text string) Category {
	lower := strings.ToLower(text)
	for _, k := range keywords {
		if strings.Contains(lower, k.text) {
			return k.category
		}
	}
	return Other
}

// IsOther reports whether c is the fallback category.
func (c Category) IsOther() bool {
	return c.Order == OtherOrder
}

// Keywords returns the keyword table in lookup order.
func Keywords() []string {
	out := make([]string, len(keywords))
	for i, k := range keywords {
		out[i] = k.text
	}
	return out
}

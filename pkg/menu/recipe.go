package menu

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"gopkg.in/yaml.v3"
)

const (
	minRecipeNameRunes = 6
	maxIngredientRunes = 200
)

// instructionPattern matches the stems that open cooking steps rather than
// ingredients. It runs against folded text.
var instructionPattern = regexp.MustCompile(`^(?:paso|instrucc|procedimiento|prepar|cocin|herv|serv|step|instruction|prepare|cook|boil|serve)`)

// DayRecipe is the recipe planned for one day.
type DayRecipe struct {
	Day         Day      `json:"-" yaml:"-"`
	Name        string   `json:"nombre" yaml:"nombre"`
	Ingredients []string `json:"ingredientes" yaml:"ingredientes"`
}

// ExtractDay reads the recipe name and ingredients for day out of a located
// section. It reports false when the section holds neither.
//
// Ingredients come from the first source that yields any: checklist labels,
// then leaf list items, then the own text of list items.
//
// ExtractDay panics if day is not a weekday.
func ExtractDay(section Section, day Day) (DayRecipe, bool) {
	day.mustBeValid()
	if section.Selection == nil {
		return DayRecipe{}, false
	}
	sel := section.Selection

	recipe := DayRecipe{Day: day, Name: recipeName(sel, day)}
	tiers := []func() []string{
		func() []string { return texts(sel.Find("label"), glyphText) },
		func() []string { return texts(sel.Find("li").Not(":has(ul, ol)"), glyphText) },
		func() []string { return texts(sel.Find("ul > li, ol > li"), ownText) },
	}
	for _, tier := range tiers {
		if found := keepIngredients(tier(), day); len(found) > 0 {
			recipe.Ingredients = found
			break
		}
	}

	if recipe.Name == "" && len(recipe.Ingredients) == 0 {
		return DayRecipe{}, false
	}
	if recipe.Ingredients == nil {
		recipe.Ingredients = []string{}
	}
	return recipe, true
}

func recipeName(sel *goquery.Selection, day Day) string {
	var name string
	sel.Find("h2, h3, h4").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := cleanText(s.Text())
		if utf8.RuneCountInString(text) < minRecipeNameRunes || day.MentionedIn(text) {
			return true
		}
		name = text
		return false
	})
	return name
}

func texts(sel *goquery.Selection, read func(*goquery.Selection) string) []string {
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, read(s))
	})
	return out
}

func glyphText(s *goquery.Selection) string {
	return stripGlyphs(s.Text())
}

// keepIngredients drops candidates that are empty, oversized, instruction
// text or weekday names, then removes case-insensitive duplicates.
func keepIngredients(candidates []string, day Day) []string {
	var out []string
	seen := make(map[string]bool)
	for _, c := range candidates {
		c = cleanText(c)
		if c == "" || utf8.RuneCountInString(c) > maxIngredientRunes {
			continue
		}
		folded := Fold(c)
		if instructionPattern.MatchString(folded) || day.MentionedIn(c) || isDayName(folded) {
			continue
		}
		key := strings.ToLower(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

func isDayName(folded string) bool {
	_, err := ParseDay(folded)
	return err == nil
}

// Recipes maps each day to its recipe. It encodes in calendar order.
type Recipes map[Day]DayRecipe

// Days returns the days present, in calendar order.
func (r Recipes) Days() []Day {
	var out []Day
	for _, d := range Week {
		if _, ok := r[d]; ok {
			out = append(out, d)
		}
	}
	return out
}

// MarshalJSON writes days in calendar order.
func (r Recipes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, d := range r.Days() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(d.String())
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r[d])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON restores the Day field of each recipe from its key.
func (r *Recipes) UnmarshalJSON(data []byte) error {
	var raw map[Day]DayRecipe
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Recipes, len(raw))
	for d, recipe := range raw {
		recipe.Day = d
		out[d] = recipe
	}
	*r = out
	return nil
}

// MarshalYAML writes days in calendar order.
func (r Recipes) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, d := range r.Days() {
		var val yaml.Node
		if err := val.Encode(r[d]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: d.String()},
			&val,
		)
	}
	return node, nil
}

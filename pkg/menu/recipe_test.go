package menu

import (
	"slices"
	"strings"
	"testing"
)

func extractDayFrom(t *testing.T, fixture string, day Day) (DayRecipe, bool) {
	t.Helper()
	doc := loadDoc(t, fixture)
	sec, ok := LocateDay(doc, day)
	if !ok {
		return DayRecipe{}, false
	}
	return ExtractDay(sec, day)
}

func TestExtractDay(t *testing.T) {
	tests := []struct {
		day         Day
		name        string
		ingredients []string
	}{
		{Monday, "Pollo al limón", []string{"pollo", "limón", "ajo"}},
		{Tuesday, "Fideos con salsa", []string{"fideos", "tomate", "cebolla"}},
		{Wednesday, "Lentejas", []string{"lentejas", "zanahoria"}},
		{Thursday, "Tarta de verduras", []string{"masa de tarta", "acelga"}},
		{Friday, "", []string{"harina", "queso"}},
	}

	for _, tt := range tests {
		t.Run(tt.day.String(), func(t *testing.T) {
			recipe, ok := extractDayFrom(t, "recetas.html", tt.day)
			if !ok {
				t.Fatalf("expected a recipe for %s", tt.day)
			}
			if recipe.Day != tt.day {
				t.Errorf("Day = %v, want %v", recipe.Day, tt.day)
			}
			if recipe.Name != tt.name {
				t.Errorf("Name = %q, want %q", recipe.Name, tt.name)
			}
			if !slices.Equal(recipe.Ingredients, tt.ingredients) {
				t.Errorf("Ingredients = %q, want %q", recipe.Ingredients, tt.ingredients)
			}
		})
	}
}

func TestExtractDay_Absent(t *testing.T) {
	for _, day := range []Day{Saturday, Sunday} {
		if r, ok := extractDayFrom(t, "recetas.html", day); ok {
			t.Errorf("expected no recipe for %s, got %+v", day, r)
		}
	}
}

func TestExtractDay_DayNameNeverAnIngredient(t *testing.T) {
	doc := loadDoc(t, "recetas.html")
	for day, recipe := range ExtractRecipes(doc) {
		for _, ing := range recipe.Ingredients {
			if isDayName(Fold(ing)) || day.MentionedIn(ing) {
				t.Errorf("%s: %q looks like a day, not an ingredient", day, ing)
			}
		}
	}
}

func TestExtractDay_NoDuplicates(t *testing.T) {
	doc := loadDoc(t, "recetas.html")
	for day, recipe := range ExtractRecipes(doc) {
		seen := make(map[string]bool)
		for _, ing := range recipe.Ingredients {
			key := strings.ToLower(ing)
			if seen[key] {
				t.Errorf("%s: duplicate ingredient %q", day, ing)
			}
			seen[key] = true
		}
	}
}

func TestExtractDay_SiblingHeading(t *testing.T) {
	doc := parseDoc(t, `<div>
		<h2>Lunes</h2>
		<h3>Pollo al limón</h3>
		<label>pollo</label>
		<label>limón</label>
		<label>ajo</label>
	</div>`)
	sec, ok := LocateDay(doc, Monday)
	if !ok {
		t.Fatal("expected Monday section")
	}
	recipe, ok := ExtractDay(sec, Monday)
	if !ok {
		t.Fatal("expected Monday recipe")
	}
	if recipe.Name != "Pollo al limón" {
		t.Errorf("Name = %q", recipe.Name)
	}
	if want := []string{"pollo", "limón", "ajo"}; !slices.Equal(recipe.Ingredients, want) {
		t.Errorf("Ingredients = %q, want %q", recipe.Ingredients, want)
	}
}

func TestExtractDay_FiltersOversizedAndInstructions(t *testing.T) {
	long := strings.Repeat("muy ", 60)
	doc := parseDoc(t, `<div><h3>Domingo</h3><ul>
		<li>`+long+`</li>
		<li>Cocinar a fuego lento</li>
		<li>Servir caliente</li>
		<li>Instrucciones</li>
		<li>papas</li>
	</ul></div>`)
	sec, ok := LocateDay(doc, Sunday)
	if !ok {
		t.Fatal("expected Sunday section")
	}
	recipe, ok := ExtractDay(sec, Sunday)
	if !ok {
		t.Fatal("expected Sunday recipe")
	}
	if want := []string{"papas"}; !slices.Equal(recipe.Ingredients, want) {
		t.Errorf("Ingredients = %q, want %q", recipe.Ingredients, want)
	}
}

func TestExtractDay_OwnTextTier(t *testing.T) {
	doc := parseDoc(t, `<div><h3>Sábado</h3><ul>
		<li>Para la salsa<ul><li>Paso uno</li></ul></li>
	</ul></div>`)
	sec, ok := LocateDay(doc, Saturday)
	if !ok {
		t.Fatal("expected Saturday section")
	}
	recipe, ok := ExtractDay(sec, Saturday)
	if !ok {
		t.Fatal("expected Saturday recipe")
	}
	if want := []string{"Para la salsa"}; !slices.Equal(recipe.Ingredients, want) {
		t.Errorf("Ingredients = %q, want %q", recipe.Ingredients, want)
	}
}

func TestExtractDay_InvalidDayPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for invalid day")
		}
	}()
	ExtractDay(Section{}, Day(0))
}

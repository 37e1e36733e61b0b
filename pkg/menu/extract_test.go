package menu

import (
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func TestExtract_Full(t *testing.T) {
	doc := loadDoc(t, "full.html")
	generated := time.Date(2026, 2, 16, 8, 0, 0, 0, time.UTC)
	res := Extract(doc, Source{
		URL:       "https://almacen.paulinacocina.net/menu-semana-3",
		Generated: generated,
	})

	if res.Title != "Menú semana 3" {
		t.Errorf("Title = %q", res.Title)
	}
	if res.DateRange != "16 al 20 de febrero" {
		t.Errorf("DateRange = %q", res.DateRange)
	}
	if res.Week == nil || *res.Week != 3 {
		t.Errorf("Week = %v, want 3", res.Week)
	}
	if !res.HasGeneralList {
		t.Error("expected HasGeneralList")
	}
	if !res.Generated.Equal(generated) {
		t.Errorf("Generated = %v", res.Generated)
	}

	assertItems(t, res.General, "Supermercado 🏪", "arroz blanco", "fideos")
	assertItems(t, res.General, "Verdulería 🥬", "tomate perita", "cebolla")

	if res.VeggieFound {
		t.Error("page has no vegetarian list")
	}
	assertItems(t, res.Veggie, "Supermercado 🏪", "arroz blanco", "fideos")

	if got := res.Recipes.Days(); len(got) != 2 || got[0] != Monday || got[1] != Tuesday {
		t.Fatalf("recipe days = %v", got)
	}
	if res.Recipes[Monday].Name != "Risotto de arroz" {
		t.Errorf("Monday name = %q", res.Recipes[Monday].Name)
	}

	assertDays(t, res.ItemToDays, "arroz blanco", Monday)
	assertDays(t, res.ItemToDays, "fideos", Tuesday)
	assertDays(t, res.ItemToDays, "tomate perita", Tuesday)
	assertDays(t, res.ItemToDays, "cebolla", Tuesday)
	assertDays(t, res.ItemToDaysVeggie, "arroz blanco", Monday)

	if res.GeneralStats.Unmatched != 1 {
		t.Errorf("GeneralStats = %+v, want caldo unmatched", res.GeneralStats)
	}
	if res.Empty() {
		t.Error("result should not be empty")
	}
}

func TestExtract_VeggieCopyIsIndependent(t *testing.T) {
	res := Extract(loadDoc(t, "full.html"), Source{})
	groups := res.Veggie.Groups()
	groups[0].Items[0] = "changed"
	if res.General.Items("Supermercado 🏪")[0] != "arroz blanco" {
		t.Error("Groups() must return a copy")
	}
}

func TestExtract_VegetarianList(t *testing.T) {
	res := Extract(loadDoc(t, "lista.html"), Source{})
	if !res.VeggieFound {
		t.Fatal("expected vegetarian list")
	}
	assertItems(t, res.Veggie, "Supermercado 🏪", "arroz blanco", "lentejas")
	if res.DateRange != "9 al 13 de febrero" {
		t.Errorf("DateRange = %q, want meta description range", res.DateRange)
	}
	if res.Week == nil || *res.Week != 7 {
		t.Errorf("Week = %v, want 7 from the title", res.Week)
	}
}

func TestExtract_PageWideFallback(t *testing.T) {
	res := Extract(loadDoc(t, "pagewide.html"), Source{Title: "Menú especial"})
	if res.HasGeneralList {
		t.Error("page-wide list must not count as a general list")
	}
	if res.GeneralFrom != StrategyPageWide {
		t.Errorf("GeneralFrom = %q", res.GeneralFrom)
	}
	if res.Title != "Menú especial" {
		t.Errorf("Title = %q, want source title", res.Title)
	}
	assertItems(t, res.Veggie, "Verdulería 🥬", "tomate")
}

func TestExtract_EmptyPage(t *testing.T) {
	res := Extract(parseDoc(t, `<html><body><p>Bienvenidos</p></body></html>`), Source{})
	if !res.Empty() {
		t.Error("expected empty result")
	}
	if res.ItemToDays == nil || res.Recipes == nil {
		t.Error("maps must be non-nil so they encode as objects")
	}
}

func TestExtract_ConcurrentCalls(t *testing.T) {
	doc := loadDoc(t, "full.html")
	var wg sync.WaitGroup
	results := make([]*Result, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Extract(doc, Source{})
		}(i)
	}
	wg.Wait()

	want, _ := json.Marshal(results[0].ItemToDays)
	for i, r := range results[1:] {
		got, _ := json.Marshal(r.ItemToDays)
		if string(got) != string(want) {
			t.Errorf("result %d differs: %s vs %s", i+1, got, want)
		}
	}
}

func TestResult_JSONShape(t *testing.T) {
	week := 3
	res := Extract(loadDoc(t, "full.html"), Source{
		Week:      &week,
		Generated: time.Date(2026, 2, 16, 8, 0, 0, 0, time.UTC),
	})
	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	for _, key := range []string{"titulo", "fechas", "semana", "tiene_lista_general", "general", "veggie", "recetas", "item_to_days", "item_to_days_veggie", "generado"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %q in %s", key, data)
		}
	}
	recetas := decoded["recetas"].(map[string]any)
	lunes, ok := recetas["Lunes"].(map[string]any)
	if !ok {
		t.Fatalf("recetas.Lunes missing: %v", recetas)
	}
	if lunes["nombre"] != "Risotto de arroz" {
		t.Errorf("recetas.Lunes.nombre = %v", lunes["nombre"])
	}
	days := decoded["item_to_days"].(map[string]any)["fideos"].([]any)
	if len(days) != 1 || days[0] != "Martes" {
		t.Errorf("item_to_days.fideos = %v", days)
	}
	if decoded["generado"] != "2026-02-16T08:00:00Z" {
		t.Errorf("generado = %v", decoded["generado"])
	}

	var back Result
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if back.Recipes[Tuesday].Day != Tuesday {
		t.Error("decoded recipe lost its day")
	}
	assertItems(t, back.General, "Verdulería 🥬", "tomate perita", "cebolla")
}

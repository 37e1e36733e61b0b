package menu

import "testing"

func TestNormalizeIngredient(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"200 g arroz", "arroz"},
		{"1 kg papa", "papa"},
		{"500 ml leche entera", "leche entera"},
		{"dos huevos", "huevos"},
		{"ají picante", "aji picante"},
		{"cebolla (grande)", "cebolla"},
		{"sal a gusto", "sal"},
		{"pimienta c/n", "pimienta"},
		{"queso rallado opcional", "queso rallado"},
		{"aceite de oliva extra virgen", "aceite de oliva"},
		{"", ""},
		{"3", ""},
		{"200 g", ""},
		{"½ taza harina", "harina"},
		{"2 tazas de arroz", "arroz"},
		{"1/2 kg de papas", "papas"},
		{"Tomate Fresco", "tomate fresco"},
		{"2 cdas azúcar", "azucar"},
		{"1 lechuga", "lechuga"},
		{"  Ñoquis  ", "noquis"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := NormalizeIngredient(tt.raw); got != tt.want {
				t.Errorf("NormalizeIngredient(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeIngredient_Idempotent(t *testing.T) {
	inputs := []string{
		"200 g arroz", "dos dos huevos", "de de arroz", "sal opcional opcional",
		"aceite de oliva extra virgen", "Miércoles de cocina", "½ taza harina",
		"media docena de huevos", "(x) 2 kg papa", "pan rallado",
	}
	for _, in := range inputs {
		key := NormalizeIngredient(in)
		if again := NormalizeIngredient(key); again != key {
			t.Errorf("NormalizeIngredient(%q) = %q, but normalizing again gives %q", in, key, again)
		}
	}
}

func TestNormalizeIngredient_QuantityOnlyIsEmpty(t *testing.T) {
	for _, in := range []string{"3", "200 g", "1 kg", "½", "2 tazas", "1,5 l", "3 x 200 g"} {
		if got := NormalizeIngredient(in); got != "" {
			t.Errorf("NormalizeIngredient(%q) = %q, want empty key", in, got)
		}
	}
}

func TestFold(t *testing.T) {
	tests := map[string]string{
		"Miércoles": "miercoles",
		"Sábado":    "sabado",
		"limón":     "limon",
		"ÑANDÚ":     "nandu",
		"plain":     "plain",
	}
	for in, want := range tests {
		if got := Fold(in); got != want {
			t.Errorf("Fold(%q) = %q, want %q", in, got, want)
		}
	}
}

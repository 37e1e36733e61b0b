package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/menucart/pkg/menu"
)

func sampleResult(title string, week int) *menu.Result {
	return &menu.Result{
		Title: title,
		Week:  &week,
		General: menu.NewShoppingList(
			menu.Group{Category: menu.Greengrocer, Items: []string{"2 tomates", "cebolla"}},
		),
		Recipes: menu.Recipes{
			menu.Monday: {Day: menu.Monday, Name: "Tarta de cebolla", Ingredients: []string{"cebolla"}},
		},
		Generated: time.Date(2026, 2, 9, 8, 0, 0, 0, time.UTC),
	}
}

// --- Format Tests ---

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatJSON, false},
		{"json", FormatJSON, false},
		{".JSON", FormatJSON, false},
		{"jsonl", FormatJSONL, false},
		{"ndjson", FormatJSONL, false},
		{"yml", FormatYAML, false},
		{".yaml", FormatYAML, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	for format, want := range map[Format]string{
		FormatJSON:  "*output.JSONWriter",
		FormatJSONL: "*output.JSONLWriter",
		FormatYAML:  "*output.YAMLWriter",
	} {
		w, err := NewWriter(buf, format)
		if err != nil {
			t.Fatalf("NewWriter(%s) error = %v", format, err)
		}
		if got := typeName(w); got != want {
			t.Errorf("NewWriter(%s) = %s, want %s", format, got, want)
		}
	}

	if _, err := NewWriter(buf, Format("csv")); err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("expected unsupported format error, got %v", err)
	}
}

func typeName(w Writer) string {
	switch w.(type) {
	case *JSONWriter:
		return "*output.JSONWriter"
	case *JSONLWriter:
		return "*output.JSONLWriter"
	case *YAMLWriter:
		return "*output.YAMLWriter"
	}
	return "unknown"
}

// --- WeekPath Tests ---

func TestWeekPath(t *testing.T) {
	tests := []struct {
		path   string
		format Format
		week   int
		want   string
	}{
		{"./menu_semana.json", FormatJSON, 4, "./menu_semana_s4.json"},
		{"out/menu.yaml", FormatYAML, 3, "out/menu_s3.yaml"},
		{"menu.yml", FormatYAML, 3, "menu_s3.yml"},
		{"menu", FormatJSON, 2, "menu_s2.json"},
		{"menu.json", FormatYAML, 5, "menu.json_s5.yaml"},
		{Stdout, FormatJSON, 1, "menu_semana_s1.json"},
	}
	for _, tt := range tests {
		if got := WeekPath(tt.path, tt.format, tt.week); got != tt.want {
			t.Errorf("WeekPath(%q, %s, %d) = %q, want %q", tt.path, tt.format, tt.week, got, tt.want)
		}
	}
}

func TestKeyPath(t *testing.T) {
	if got := KeyPath("out/menu.json", FormatJSON, "menu_de_pascuas"); got != "out/menu_menu_de_pascuas.json" {
		t.Errorf("KeyPath() = %q", got)
	}
}

// --- JSONWriter Tests ---

func TestJSONWriter_SingleResultIsObject(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, true, "  ")

	if err := w.Write(sampleResult("Menú de la semana 4 & más", 4)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"titulo": "Menú de la semana 4 & más"`) {
		t.Errorf("title should be written unescaped, got:\n%s", out)
	}

	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not a JSON object: %v", err)
	}
	if doc["semana"] != float64(4) {
		t.Errorf("semana = %v, want 4", doc["semana"])
	}
}

func TestJSONWriter_SeveralResultsAreArray(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, false, "")

	if err := w.WriteAll([]any{sampleResult("uno", 1), sampleResult("dos", 2)}); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	var docs []menu.Result
	if err := json.Unmarshal(buf.Bytes(), &docs); err != nil {
		t.Fatalf("output is not a JSON array: %v", err)
	}
	if len(docs) != 2 || docs[0].Title != "uno" || docs[1].Title != "dos" {
		t.Errorf("unexpected results: %+v", docs)
	}
	if got := docs[0].General.Items(menu.Greengrocer.Name); len(got) != 2 {
		t.Errorf("general list lost in round trip: %v", got)
	}
}

func TestJSONWriter_Compact(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, false, "  ")

	if err := w.Write(sampleResult("uno", 1)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	if lines := strings.Split(strings.TrimSpace(buf.String()), "\n"); len(lines) != 1 {
		t.Errorf("expected single line in compact output, got %d lines", len(lines))
	}
}

func TestJSONWriter_FlushClearsBuffer(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, false, "")

	_ = w.Write(sampleResult("uno", 1))
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	first := buf.Len()
	if err := w.Flush(); err != nil {
		t.Fatalf("second Flush() error = %v", err)
	}
	if buf.Len() != first {
		t.Errorf("second Flush() wrote %d more bytes", buf.Len()-first)
	}
}

// --- JSONLWriter Tests ---

func TestJSONLWriter_OneLinePerResult(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONLWriter(buf)

	for i, title := range []string{"uno", "dos", "tres"} {
		if err := w.Write(sampleResult(title, i+1)); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), buf.String())
	}
	for i, line := range lines {
		var res menu.Result
		if err := json.Unmarshal([]byte(line), &res); err != nil {
			t.Errorf("line %d is not valid JSON: %v", i, err)
		}
		if res.Week == nil || *res.Week != i+1 {
			t.Errorf("line %d week = %v, want %d", i, res.Week, i+1)
		}
	}
}

// --- YAMLWriter Tests ---

func TestYAMLWriter_SingleResult(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewYAMLWriter(buf)

	if err := w.Write(sampleResult("Semana 4", 4)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if doc["titulo"] != "Semana 4" {
		t.Errorf("titulo = %v", doc["titulo"])
	}
	if !strings.Contains(buf.String(), "Lunes:") {
		t.Errorf("recipes should be keyed by day name:\n%s", buf.String())
	}
}

func TestYAMLWriter_SeveralResults(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewYAMLWriter(buf)

	if err := w.WriteAll([]any{sampleResult("uno", 1), sampleResult("dos", 2)}); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	var docs []map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &docs); err != nil {
		t.Fatalf("output is not a YAML sequence: %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("expected 2 documents, got %d", len(docs))
	}
}

// --- File Tests ---

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "menu_s4.json")

	if err := WriteFile(path, FormatJSON, []any{sampleResult("Semana 4", 4)}); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	var res menu.Result
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatalf("file is not a JSON result: %v", err)
	}
	if res.Title != "Semana 4" {
		t.Errorf("Title = %q", res.Title)
	}
}

func TestCreate_StdoutIsNotClosed(t *testing.T) {
	w, err := Create(Stdout)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stdout.Stat(); err != nil {
		t.Errorf("stdout closed: %v", err)
	}
}

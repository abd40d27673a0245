package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "items.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestLoadStaticDefaults(t *testing.T) {
	cat, err := Load(Config{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cat.Mode() != ModeByName {
		t.Errorf("mode = %q, want by-name", cat.Mode())
	}
	if cat.Len() != len(defaultItems) {
		t.Errorf("len = %d, want %d", cat.Len(), len(defaultItems))
	}
}

func TestLoadStaticOverride(t *testing.T) {
	cat, err := Load(Config{Source: "static", Items: []string{"Red", "Green"}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cat.Len() != 2 {
		t.Fatalf("len = %d, want 2", cat.Len())
	}
	if _, ok := cat.ByName("Green"); !ok {
		t.Error("override item missing")
	}
}

func TestLoadInvalidSource(t *testing.T) {
	if _, err := Load(Config{Source: "xml"}); err == nil {
		t.Fatal("expected error for unknown source")
	}
	if _, err := Load(Config{Source: "csv"}); err == nil {
		t.Fatal("expected error for csv without path")
	}
}

func TestLoadCSV(t *testing.T) {
	path := writeCSV(t, "name,price\nCoffee,3.50\nTea,2\nJuice,4.25\n")

	cat, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if cat.Mode() != ModeByID {
		t.Errorf("mode = %q, want by-id", cat.Mode())
	}
	if cat.Len() != 3 {
		t.Fatalf("len = %d, want 3", cat.Len())
	}

	it, ok := cat.ByID(2)
	if !ok || it.Name != "Tea" || it.Price != 2 {
		t.Errorf("ByID(2) = %+v", it)
	}
}

func TestLoadCSVWithoutHeader(t *testing.T) {
	path := writeCSV(t, "Coffee,3.50\nTea,2\n")

	cat, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if cat.Len() != 2 {
		t.Fatalf("len = %d, want 2", cat.Len())
	}
	if it, _ := cat.ByID(1); it.Name != "Coffee" {
		t.Errorf("ByID(1) = %+v", it)
	}
}

func TestLoadCSVBadPrice(t *testing.T) {
	path := writeCSV(t, "Coffee,3.50\nTea,cheap\n")

	_, err := LoadCSV(path)
	if err == nil || !strings.Contains(err.Error(), "invalid price") {
		t.Fatalf("err = %v, want invalid price", err)
	}
}

func TestLoadCSVSkipsBlankRows(t *testing.T) {
	path := writeCSV(t, "Coffee,3.50\n\nTea,2\n")

	cat, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if cat.Len() != 2 {
		t.Fatalf("len = %d, want 2", cat.Len())
	}
}

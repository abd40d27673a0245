package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Config selects the catalog source. Source "static" uses the compiled-in
// Items list (or the built-in default when empty) and resolves rankings by
// name. Source "csv" loads name,price rows from Path and resolves rankings
// by numeric id.
type Config struct {
	Source string   `yaml:"source" envconfig:"CATALOG_SOURCE"`
	Path   string   `yaml:"path" envconfig:"CATALOG_PATH"`
	Items  []string `yaml:"items"`
}

const (
	// SourceStatic selects the compiled-in name list.
	SourceStatic = "static"
	// SourceCSV selects a name,price CSV file.
	SourceCSV = "csv"
)

// defaultItems is used when a static catalog is configured without items.
var defaultItems = []string{"Chess", "Tic-Tac-Toe", "Hangman", "2048", "Sudoku"}

// Load builds the catalog for the configured source.
func Load(cfg Config) (*Catalog, error) {
	source := strings.ToLower(strings.TrimSpace(cfg.Source))
	switch source {
	case "", SourceStatic:
		names := cfg.Items
		if len(names) == 0 {
			names = defaultItems
		}
		return Static(names...)
	case SourceCSV:
		if strings.TrimSpace(cfg.Path) == "" {
			return nil, fmt.Errorf("catalog: path is required when source is %q", SourceCSV)
		}
		return LoadCSV(cfg.Path)
	default:
		return nil, fmt.Errorf("catalog: invalid source %q; allowed: static, csv", cfg.Source)
	}
}

// LoadCSV reads name,price rows and assigns sequential ids starting at 1.
// A header row with a non-numeric price column is skipped.
func LoadCSV(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	defer f.Close()

	items, err := parseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	return New(ModeByID, items)
}

func parseCSV(r io.Reader) ([]Item, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var items []Item
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(record) < 1 || strings.TrimSpace(record[0]) == "" {
			continue
		}
		name := strings.TrimSpace(record[0])
		price := 0.0
		if len(record) > 1 && strings.TrimSpace(record[1]) != "" {
			price, err = strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
			if err != nil {
				if line == 1 {
					// header row
					continue
				}
				return nil, fmt.Errorf("line %d: invalid price %q", line, record[1])
			}
		}
		items = append(items, Item{Name: name, Price: price})
	}
	return items, nil
}

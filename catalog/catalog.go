// Package catalog holds the read-only list of items a user can pick from.
// A catalog is loaded once at startup and shared across all sessions
// without synchronization.
package catalog

import (
	"fmt"
	"strings"
)

// Mode selects how users reference items when typing a ranking.
type Mode string

const (
	// ModeByName resolves ranking fragments against item display names.
	ModeByName Mode = "name"
	// ModeByID resolves ranking fragments as numeric item ids.
	ModeByID Mode = "id"
)

// Item is a single selectable entry. IDs are sequential starting at 1.
type Item struct {
	ID    int
	Name  string
	Price float64
}

// Catalog is an immutable, ordered collection of items.
type Catalog struct {
	mode   Mode
	items  []Item
	byName map[string]int
}

// New builds a catalog from the given items, reassigning sequential ids
// starting at 1. Duplicate or empty names are rejected.
func New(mode Mode, items []Item) (*Catalog, error) {
	if mode != ModeByName && mode != ModeByID {
		return nil, fmt.Errorf("catalog: invalid mode %q", mode)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("catalog: no items")
	}
	c := &Catalog{
		mode:   mode,
		items:  make([]Item, 0, len(items)),
		byName: make(map[string]int, len(items)),
	}
	for i, it := range items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			return nil, fmt.Errorf("catalog: empty item name at position %d", i+1)
		}
		if _, exists := c.byName[name]; exists {
			return nil, fmt.Errorf("catalog: duplicate item name %q", name)
		}
		it.ID = i + 1
		it.Name = name
		c.byName[name] = i
		c.items = append(c.items, it)
	}
	return c, nil
}

// Static builds a by-name catalog from a fixed list of names.
func Static(names ...string) (*Catalog, error) {
	items := make([]Item, 0, len(names))
	for _, n := range names {
		items = append(items, Item{Name: n})
	}
	return New(ModeByName, items)
}

// Mode reports how ranking input references items.
func (c *Catalog) Mode() Mode { return c.mode }

// Len returns the number of items.
func (c *Catalog) Len() int { return len(c.items) }

// Items returns the catalog entries in load order. Callers must not mutate
// the returned slice.
func (c *Catalog) Items() []Item { return c.items }

// ByID returns the item with the given id if it exists.
func (c *Catalog) ByID(id int) (Item, bool) {
	if id < 1 || id > len(c.items) {
		return Item{}, false
	}
	return c.items[id-1], true
}

// ByName returns the item with the exact display name if it exists.
func (c *Catalog) ByName(name string) (Item, bool) {
	idx, ok := c.byName[name]
	if !ok {
		return Item{}, false
	}
	return c.items[idx], true
}

// Names maps item ids to display names, skipping unknown ids.
func (c *Catalog) Names(ids []int) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if it, ok := c.ByID(id); ok {
			out = append(out, it.Name)
		}
	}
	return out
}

// Ref renders the identifier a user is expected to type for the item:
// the numeric id in ModeByID, the display name otherwise.
func (c *Catalog) Ref(it Item) string {
	if c.mode == ModeByID {
		return fmt.Sprintf("%d", it.ID)
	}
	return it.Name
}

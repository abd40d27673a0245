package catalog

import "testing"

func TestNewAssignsSequentialIDs(t *testing.T) {
	cat, err := New(ModeByID, []Item{
		{Name: "Coffee", Price: 3.5},
		{Name: "Tea"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i, it := range cat.Items() {
		if it.ID != i+1 {
			t.Errorf("item %q id = %d, want %d", it.Name, it.ID, i+1)
		}
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		mode  Mode
		items []Item
	}{
		{"empty list", ModeByName, nil},
		{"empty name", ModeByName, []Item{{Name: "  "}}},
		{"duplicate name", ModeByName, []Item{{Name: "Chess"}, {Name: "Chess"}}},
		{"invalid mode", Mode("bogus"), []Item{{Name: "Chess"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.mode, tt.items); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestByIDBounds(t *testing.T) {
	cat, err := Static("Chess", "Sudoku")
	if err != nil {
		t.Fatalf("Static: %v", err)
	}

	if _, ok := cat.ByID(0); ok {
		t.Error("ByID(0) found an item")
	}
	if _, ok := cat.ByID(3); ok {
		t.Error("ByID(3) found an item")
	}
	it, ok := cat.ByID(2)
	if !ok || it.Name != "Sudoku" {
		t.Errorf("ByID(2) = %+v, %v", it, ok)
	}
}

func TestByNameIsExact(t *testing.T) {
	cat, err := Static("Chess")
	if err != nil {
		t.Fatalf("Static: %v", err)
	}

	if _, ok := cat.ByName("Chess"); !ok {
		t.Error("exact name not found")
	}
	if _, ok := cat.ByName("chess"); ok {
		t.Error("lookup ignored case")
	}
}

func TestRefDependsOnMode(t *testing.T) {
	byName, err := Static("Chess")
	if err != nil {
		t.Fatalf("Static: %v", err)
	}
	byID, err := New(ModeByID, []Item{{Name: "Coffee"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := byName.Ref(byName.Items()[0]); got != "Chess" {
		t.Errorf("by-name ref = %q", got)
	}
	if got := byID.Ref(byID.Items()[0]); got != "1" {
		t.Errorf("by-id ref = %q", got)
	}
}

func TestNamesSkipsUnknownIDs(t *testing.T) {
	cat, err := Static("Chess", "Sudoku")
	if err != nil {
		t.Fatalf("Static: %v", err)
	}

	got := cat.Names([]int{2, 99, 1})
	if len(got) != 2 || got[0] != "Sudoku" || got[1] != "Chess" {
		t.Fatalf("Names = %v", got)
	}
}

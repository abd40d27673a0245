package flow

import (
	"strings"
	"testing"

	"github.com/m3rciful/pickbot/catalog"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Static("Chess", "Tic-Tac-Toe", "Hangman")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return cat
}

func TestKeyboardCatalogOrder(t *testing.T) {
	cat := testCatalog(t)

	// Selection order must not reorder the keyboard.
	buttons := Keyboard(cat, []int{3, 1})

	if len(buttons) != cat.Len()+1 {
		t.Fatalf("len(buttons) = %d, want %d", len(buttons), cat.Len()+1)
	}
	wantTokens := []string{"1", "2", "3", ConfirmToken}
	for i, b := range buttons {
		if b.Token != wantTokens[i] {
			t.Errorf("buttons[%d].Token = %q, want %q", i, b.Token, wantTokens[i])
		}
	}
}

func TestKeyboardMarksSelected(t *testing.T) {
	cat := testCatalog(t)

	buttons := Keyboard(cat, []int{2})

	if strings.HasPrefix(buttons[0].Label, selectedMarker) {
		t.Errorf("unselected item marked: %q", buttons[0].Label)
	}
	if !strings.HasPrefix(buttons[1].Label, selectedMarker) {
		t.Errorf("selected item not marked: %q", buttons[1].Label)
	}
	if !strings.HasSuffix(buttons[1].Label, "Tic-Tac-Toe") {
		t.Errorf("marker replaced the name: %q", buttons[1].Label)
	}
}

func TestKeyboardEmptySelection(t *testing.T) {
	cat := testCatalog(t)

	for _, b := range Keyboard(cat, nil)[:cat.Len()] {
		if strings.HasPrefix(b.Label, selectedMarker) {
			t.Errorf("item marked without selection: %q", b.Label)
		}
	}
}

func TestConfirmTokenNeverCollides(t *testing.T) {
	cat := testCatalog(t)

	for _, b := range Keyboard(cat, nil)[:cat.Len()] {
		if b.Token == ConfirmToken {
			t.Fatalf("item token equals confirm token: %q", b.Token)
		}
	}
}

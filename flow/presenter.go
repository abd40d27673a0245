package flow

import (
	"strconv"

	"github.com/m3rciful/pickbot/catalog"
)

// Button is one keyboard affordance: a label and the action token carried
// back by the transport when the user taps it.
type Button struct {
	Label string
	Token string
}

// ConfirmToken is the reserved token of the terminal confirm button. Item
// tokens are decimal ids, so it can never collide with them.
const ConfirmToken = "__done__"

const selectedMarker = "✅ "

// Keyboard renders the selection state as toggle buttons in catalog order
// (not selection order), marking selected items, followed by the confirm
// button. Pure and deterministic.
func Keyboard(cat *catalog.Catalog, selected []int) []Button {
	picked := make(map[int]struct{}, len(selected))
	for _, id := range selected {
		picked[id] = struct{}{}
	}
	buttons := make([]Button, 0, cat.Len()+1)
	for _, it := range cat.Items() {
		label := it.Name
		if _, ok := picked[it.ID]; ok {
			label = selectedMarker + label
		}
		buttons = append(buttons, Button{Label: label, Token: strconv.Itoa(it.ID)})
	}
	buttons = append(buttons, Button{Label: "✅ Done", Token: ConfirmToken})
	return buttons
}

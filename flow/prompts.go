package flow

import (
	"fmt"
	"strings"
)

const (
	promptWelcome = "👋 Welcome to the item picker!\n\n" +
		"Tap the items you want. Tap an item again to deselect it. " +
		"Press 'Done' when you are finished."
	promptChoose    = "Pick your items:"
	promptPickFirst = "⚠️ Pick at least one item first!"
	promptReset     = "🔄 Starting over: pick your items."
	promptNothing   = "You haven't picked anything yet. Send /start."
	promptSaveFail  = "⚠️ Saving failed. Your picks are kept for this session."
)

// rankingExample renders the format hint from the user's own selection,
// e.g. "`1. Chess, 2. Sudoku`".
func rankingExample(refs []string) string {
	parts := make([]string, 0, len(refs))
	for i, ref := range refs {
		parts = append(parts, fmt.Sprintf("%d. %s", i+1, ref))
	}
	return "`" + strings.Join(parts, ", ") + "`"
}

func confirmText(names, refs []string) string {
	return fmt.Sprintf(
		"You picked: *%s*\n\n"+
			"Now rank them by preference.\n"+
			"Send for example:\n%s\n\n"+
			"Remember to list *every* picked item exactly once.",
		strings.Join(names, ", "), rankingExample(refs))
}

func noItemsText(refs []string) string {
	return "⚠️ I can't see a comma-separated list. Please format it like:\n" + rankingExample(refs)
}

func invalidIDText(id, max int) string {
	return fmt.Sprintf("⚠️ %d is not a valid item id. Use ids between 1 and %d.", id, max)
}

func mismatchText(expected, got, refs []string) string {
	return fmt.Sprintf(
		"⚠️ Your list doesn't match the picked items exactly.\n"+
			"You picked: *%s*\n"+
			"You ranked: *%s*\n\n"+
			"Make sure that:\n"+
			"  • every picked item appears exactly once.\n"+
			"  • entries are separated by commas.\n\n"+
			"Try again:\n%s",
		strings.Join(expected, ", "), strings.Join(got, ", "), rankingExample(refs))
}

func numbered(names []string) string {
	lines := make([]string, 0, len(names))
	for i, name := range names {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, name))
	}
	return strings.Join(lines, "\n")
}

func rankedText(names []string) string {
	return "✅ Your final ranking:\n\n" + numbered(names) + "\n\nSend /change to start over."
}

func statusRankedText(names []string) string {
	return "🏆 Current ranking:\n\n" + numbered(names) + "\n\nSend /change to start over."
}

func statusSelectedText(names, refs []string) string {
	return fmt.Sprintf(
		"You picked, but haven't ranked yet:\n*%s*\n\nRank them like:\n%s",
		strings.Join(names, ", "), rankingExample(refs))
}

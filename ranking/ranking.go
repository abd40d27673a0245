// Package ranking parses free-text ranking submissions and validates them
// against the current selection.
package ranking

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/m3rciful/pickbot/catalog"
)

// NoItemsError is returned when the input contains no usable fragments.
type NoItemsError struct{}

func (*NoItemsError) Error() string { return "ranking: no items detected in input" }

// Code returns the stable error code.
func (*NoItemsError) Code() string { return "NO_ITEMS_DETECTED" }

// InvalidIDError is returned in by-id mode for ids outside the catalog range.
type InvalidIDError struct {
	ID  int
	Max int
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("ranking: id %d outside catalog range [1, %d]", e.ID, e.Max)
}

// Code returns the stable error code.
func (*InvalidIDError) Code() string { return "INVALID_ID" }

// MismatchError is returned when the submitted list is not exactly the
// selected set. Expected and Got carry display references for user feedback.
type MismatchError struct {
	Expected []string
	Got      []string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("ranking: submitted list %v does not match selection %v", e.Got, e.Expected)
}

// Code returns the stable error code.
func (*MismatchError) Code() string { return "RANKING_MISMATCH" }

// ordinalRe matches a user-typed "1." style prefix with optional whitespace.
var ordinalRe = regexp.MustCompile(`^\s*\d+\.\s*`)

// candidate is one parsed fragment: the raw reference text and the resolved
// item id (0 when the fragment matches nothing in the catalog).
type candidate struct {
	ref string
	id  int
}

// Parse splits raw input on commas, strips ordinal prefixes, resolves each
// fragment per the catalog mode, and validates the result as an exact
// permutation of selected. On success it returns item ids in order of first
// appearance, which is the final rank order. The caller's state is never
// touched.
func Parse(raw string, cat *catalog.Catalog, selected []int) ([]int, error) {
	candidates, err := split(raw, cat)
	if err != nil {
		return nil, err
	}

	// Multiset equality: same length, same id counts. A duplicate that keeps
	// set equality still fails because the counts differ.
	want := make(map[int]int, len(selected))
	for _, id := range selected {
		want[id]++
	}
	got := make(map[int]int, len(candidates))
	order := make([]int, 0, len(candidates))
	for _, c := range candidates {
		got[c.id]++
		order = append(order, c.id)
	}
	if !equalCounts(want, got) || len(candidates) != len(selected) {
		return nil, &MismatchError{
			Expected: refs(cat, selected),
			Got:      rawRefs(candidates),
		}
	}
	return order, nil
}

func split(raw string, cat *catalog.Catalog) ([]candidate, error) {
	parts := strings.Split(raw, ",")
	candidates := make([]candidate, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		ref := strings.TrimSpace(ordinalRe.ReplaceAllString(p, ""))
		if ref == "" {
			continue
		}
		id, err := resolve(ref, cat)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate{ref: ref, id: id})
	}
	if len(candidates) == 0 {
		return nil, &NoItemsError{}
	}
	return candidates, nil
}

// resolve maps a fragment to an item id, or 0 when it matches nothing.
// In by-id mode a well-formed number outside [1, len(catalog)] fails with
// InvalidIDError before any set comparison happens.
func resolve(ref string, cat *catalog.Catalog) (int, error) {
	if cat.Mode() == catalog.ModeByID {
		id, err := strconv.Atoi(ref)
		if err != nil {
			return 0, nil
		}
		if id < 1 || id > cat.Len() {
			return 0, &InvalidIDError{ID: id, Max: cat.Len()}
		}
		return id, nil
	}
	if it, ok := cat.ByName(ref); ok {
		return it.ID, nil
	}
	return 0, nil
}

func equalCounts(a, b map[int]int) bool {
	if len(a) != len(b) {
		return false
	}
	for k, n := range a {
		if b[k] != n {
			return false
		}
	}
	return true
}

func refs(cat *catalog.Catalog, ids []int) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if it, ok := cat.ByID(id); ok {
			out = append(out, cat.Ref(it))
		}
	}
	return out
}

func rawRefs(candidates []candidate) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.ref)
	}
	return out
}

package session

import (
	"errors"
	"testing"
)

const chat = int64(42)

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestToggleAddsInTapOrder(t *testing.T) {
	s := NewStore()

	if got := s.Toggle(chat, 2); !equalInts(got, []int{2}) {
		t.Fatalf("after first toggle: %v", got)
	}
	if got := s.Toggle(chat, 5); !equalInts(got, []int{2, 5}) {
		t.Fatalf("after second toggle: %v", got)
	}
}

func TestToggleIsSelfInverse(t *testing.T) {
	s := NewStore()
	s.Toggle(chat, 1)
	s.Toggle(chat, 2)

	if got := s.Toggle(chat, 1); !equalInts(got, []int{2}) {
		t.Fatalf("after deselect: %v", got)
	}
	if got := s.Get(chat).Selected; !equalInts(got, []int{2}) {
		t.Fatalf("stored selection: %v", got)
	}
}

// Deselecting and re-adding moves the item to the end of the order.
func TestToggleReAddAppends(t *testing.T) {
	s := NewStore()
	s.Toggle(chat, 1)
	s.Toggle(chat, 2)
	s.Toggle(chat, 1)

	if got := s.Toggle(chat, 1); !equalInts(got, []int{2, 1}) {
		t.Fatalf("after re-add: %v", got)
	}
}

func TestMarkDoneEmptySelection(t *testing.T) {
	s := NewStore()

	err := s.MarkDone(chat)
	if !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("err = %v, want ErrEmptySelection", err)
	}
	if got := s.Phase(chat); got != PhaseSelecting {
		t.Fatalf("phase = %q, want selecting", got)
	}
}

func TestMarkDoneTransitions(t *testing.T) {
	s := NewStore()
	s.Toggle(chat, 3)

	if err := s.MarkDone(chat); err != nil {
		t.Fatalf("MarkDone: %v", err)
	}
	if got := s.Phase(chat); got != PhaseAwaitingRanking {
		t.Fatalf("phase = %q, want awaiting ranking", got)
	}
}

func TestSetRanking(t *testing.T) {
	s := NewStore()
	s.Toggle(chat, 1)
	s.Toggle(chat, 3)
	if err := s.MarkDone(chat); err != nil {
		t.Fatalf("MarkDone: %v", err)
	}

	s.SetRanking(chat, []int{3, 1})

	sess := s.Get(chat)
	if sess.Phase != PhaseRanked {
		t.Fatalf("phase = %q, want ranked", sess.Phase)
	}
	if !equalInts(sess.Ranking, []int{3, 1}) {
		t.Fatalf("ranking = %v, want [3 1]", sess.Ranking)
	}
}

func TestResetDiscardsEverything(t *testing.T) {
	s := NewStore()
	s.Toggle(chat, 1)
	if err := s.MarkDone(chat); err != nil {
		t.Fatalf("MarkDone: %v", err)
	}
	s.SetRanking(chat, []int{1})

	s.Reset(chat)

	sess := s.Get(chat)
	if sess.Phase != PhaseSelecting || len(sess.Selected) != 0 || len(sess.Ranking) != 0 {
		t.Fatalf("after reset: %+v", sess)
	}
}

// Get hands out snapshots; mutating them must not leak into the store.
func TestGetReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Toggle(chat, 1)
	s.Toggle(chat, 2)

	sess := s.Get(chat)
	sess.Selected[0] = 99

	if got := s.Get(chat).Selected; !equalInts(got, []int{1, 2}) {
		t.Fatalf("store mutated through snapshot: %v", got)
	}
}

func TestChatsAreIndependent(t *testing.T) {
	s := NewStore()
	s.Toggle(1, 1)
	s.Toggle(2, 2)

	if got := s.Get(1).Selected; !equalInts(got, []int{1}) {
		t.Fatalf("chat 1 selection: %v", got)
	}
	if got := s.Get(2).Selected; !equalInts(got, []int{2}) {
		t.Fatalf("chat 2 selection: %v", got)
	}
	if got := s.Active(); got != 2 {
		t.Fatalf("Active() = %d, want 2", got)
	}
}

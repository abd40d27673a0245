package session

import "sync"

// Store keeps sessions keyed by chat id. Updates for a single chat arrive
// serialized by the dispatch loop; the mutex only guards the map against
// interleaving across chats.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{sessions: make(map[int64]*Session)}
}

// Get returns a copy of the session for the chat, or a fresh selecting
// session if none exists yet. The store itself is not mutated.
func (s *Store) Get(chatID int64) Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[chatID]; ok {
		return sess.snapshot()
	}
	return *newSession()
}

// Phase returns the current phase for the chat.
func (s *Store) Phase(chatID int64) Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[chatID]; ok {
		return sess.Phase
	}
	return PhaseSelecting
}

// Reset replaces the chat's session with a fresh selecting one.
func (s *Store) Reset(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[chatID] = newSession()
}

// Toggle flips membership of the item in the chat's selection. Removing
// preserves the order of the remaining items; re-adding appends to the end.
// It returns a copy of the new selection.
func (s *Store) Toggle(chatID int64, itemID int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.obtain(chatID)
	for i, id := range sess.Selected {
		if id == itemID {
			sess.Selected = append(sess.Selected[:i], sess.Selected[i+1:]...)
			return append([]int(nil), sess.Selected...)
		}
	}
	sess.Selected = append(sess.Selected, itemID)
	return append([]int(nil), sess.Selected...)
}

// MarkDone transitions the chat into the awaiting-ranking phase. It fails
// with ErrEmptySelection, leaving the phase untouched, when nothing is
// selected.
func (s *Store) MarkDone(chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.obtain(chatID)
	if len(sess.Selected) == 0 {
		return ErrEmptySelection
	}
	sess.Phase = PhaseAwaitingRanking
	return nil
}

// SetRanking stores a validated ranking and moves the chat to PhaseRanked.
func (s *Store) SetRanking(chatID int64, ranking []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.obtain(chatID)
	sess.Ranking = append([]int(nil), ranking...)
	sess.Phase = PhaseRanked
}

// Active counts chats with a non-default session.
func (s *Store) Active() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) obtain(chatID int64) *Session {
	sess, ok := s.sessions[chatID]
	if !ok {
		sess = newSession()
		s.sessions[chatID] = sess
	}
	return sess
}

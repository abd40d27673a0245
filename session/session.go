// Package session tracks the per-chat picking conversation: which items are
// toggled on, the phase of the dialog, and the submitted ranking.
package session

// Phase identifies the step of the picking conversation for a chat.
type Phase string

const (
	// PhaseSelecting means the user is still toggling items.
	PhaseSelecting Phase = "selecting"
	// PhaseAwaitingRanking means the selection is confirmed and a ranking
	// message is expected next.
	PhaseAwaitingRanking Phase = "awaiting_ranking"
	// PhaseRanked means a valid ranking has been submitted.
	PhaseRanked Phase = "ranked"
)

// Error is a session-level failure that carries a stable code for logs.
type Error struct {
	code string
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Code returns the stable error code.
func (e *Error) Code() string { return e.code }

// ErrEmptySelection is returned when confirming an empty selection.
var ErrEmptySelection = &Error{code: "EMPTY_SELECTION", msg: "session: selection is empty"}

// Session is the mutable per-chat record. Selected holds item ids in toggle
// order; Ranking, when non-empty, is a permutation of Selected.
type Session struct {
	Phase    Phase
	Selected []int
	Ranking  []int
}

func newSession() *Session {
	return &Session{Phase: PhaseSelecting}
}

// snapshot returns a deep copy safe to hand out of the store.
func (s *Session) snapshot() Session {
	out := Session{Phase: s.Phase}
	if len(s.Selected) > 0 {
		out.Selected = append([]int(nil), s.Selected...)
	}
	if len(s.Ranking) > 0 {
		out.Ranking = append([]int(nil), s.Ranking...)
	}
	return out
}

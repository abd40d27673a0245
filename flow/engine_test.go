package flow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/m3rciful/pickbot/catalog"
	"github.com/m3rciful/pickbot/session"
	"github.com/m3rciful/pickbot/storage"
)

const chat = int64(7)

// failingRepo wraps a working repo and fails the named operations.
type failingRepo struct {
	storage.Repo
	failSelection bool
	failRanking   bool
	failProfile   bool
}

var errDown = errors.New("connection refused")

func (f *failingRepo) UpsertProfile(ctx context.Context, chatID int64, firstName, username string) error {
	if f.failProfile {
		return &storage.Error{Op: "upsert_profile", Err: errDown}
	}
	return f.Repo.UpsertProfile(ctx, chatID, firstName, username)
}

func (f *failingRepo) UpsertSelection(ctx context.Context, chatID int64, items []string) error {
	if f.failSelection {
		return &storage.Error{Op: "upsert_selection", Err: errDown}
	}
	return f.Repo.UpsertSelection(ctx, chatID, items)
}

func (f *failingRepo) UpsertRanking(ctx context.Context, chatID int64, items []string) error {
	if f.failRanking {
		return &storage.Error{Op: "upsert_ranking", Err: errDown}
	}
	return f.Repo.UpsertRanking(ctx, chatID, items)
}

func newEngine(t *testing.T, repo storage.Repo) *Engine {
	t.Helper()
	cat, err := catalog.Static("Chess", "Tic-Tac-Toe", "Hangman")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if repo == nil {
		repo = storage.NewMemory()
	}
	return NewEngine(cat, session.NewStore(), repo, ResetSoft)
}

func equalStrings(a, b []string) bool {
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

func TestStartPromptsWithKeyboard(t *testing.T) {
	repo := storage.NewMemory()
	e := newEngine(t, repo)

	replies := e.Start(context.Background(), chat, "Ada", "ada")

	if len(replies) != 2 {
		t.Fatalf("len(replies) = %d, want 2", len(replies))
	}
	if len(replies[0].Buttons) != 0 {
		t.Errorf("welcome reply carries a keyboard")
	}
	if len(replies[1].Buttons) != 4 {
		t.Errorf("keyboard buttons = %d, want 4", len(replies[1].Buttons))
	}

	rec, err := repo.Get(context.Background(), chat)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.FirstName != "Ada" || rec.Username != "ada" {
		t.Errorf("profile = %q/%q, want Ada/ada", rec.FirstName, rec.Username)
	}
}

func TestHappyPath(t *testing.T) {
	repo := storage.NewMemory()
	e := newEngine(t, repo)
	ctx := context.Background()

	e.Start(ctx, chat, "Ada", "ada")
	e.Toggle(ctx, chat, 2)
	e.Toggle(ctx, chat, 1)

	confirm := e.Confirm(ctx, chat)
	if len(confirm) != 1 || !confirm[0].Markdown || !confirm[0].Edit {
		t.Fatalf("confirm reply = %+v, want single markdown edit", confirm)
	}
	if !strings.Contains(confirm[0].Text, "Tic-Tac-Toe, Chess") {
		t.Errorf("confirm text missing selection order: %q", confirm[0].Text)
	}

	replies, handled := e.Text(ctx, chat, "Chess, Tic-Tac-Toe")
	if !handled {
		t.Fatal("ranking text not handled")
	}
	if len(replies) != 1 || !strings.Contains(replies[0].Text, "1. Chess") {
		t.Fatalf("ranking reply = %+v", replies)
	}

	rec, err := repo.Get(ctx, chat)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !equalStrings(rec.Ranking, []string{"Chess", "Tic-Tac-Toe"}) {
		t.Errorf("persisted ranking = %v", rec.Ranking)
	}
	if !equalStrings(rec.Selected, []string{"Tic-Tac-Toe", "Chess"}) {
		t.Errorf("persisted selection = %v", rec.Selected)
	}
}

func TestToggleEditsKeyboard(t *testing.T) {
	e := newEngine(t, nil)
	ctx := context.Background()

	replies := e.Toggle(ctx, chat, 3)

	if len(replies) != 1 || !replies[0].Edit {
		t.Fatalf("toggle reply = %+v, want single edit", replies)
	}
	if !strings.HasPrefix(replies[0].Buttons[2].Label, selectedMarker) {
		t.Errorf("toggled item not marked: %q", replies[0].Buttons[2].Label)
	}
}

// A tap on a button from an old message must not corrupt the selection.
func TestToggleUnknownIDIgnored(t *testing.T) {
	e := newEngine(t, nil)
	ctx := context.Background()

	e.Toggle(ctx, chat, 1)
	for _, id := range []int{99, 0, -1} {
		replies := e.Toggle(ctx, chat, id)
		if len(replies) != 1 || len(replies[0].Buttons) == 0 {
			t.Fatalf("Toggle(%d) = %+v, want keyboard refresh", id, replies)
		}
	}

	sess := e.sessions.Get(chat)
	if len(sess.Selected) != 1 || sess.Selected[0] != 1 {
		t.Fatalf("selection changed by stale toggles: %v", sess.Selected)
	}
}

func TestToggleAfterConfirmRePrompts(t *testing.T) {
	e := newEngine(t, nil)
	ctx := context.Background()

	e.Toggle(ctx, chat, 1)
	e.Confirm(ctx, chat)

	replies := e.Toggle(ctx, chat, 2)
	if len(replies) != 1 || !strings.Contains(replies[0].Text, "rank them") {
		t.Fatalf("stale toggle reply = %+v, want ranking re-prompt", replies)
	}
	if got := e.sessions.Get(chat).Selected; len(got) != 1 {
		t.Fatalf("selection changed after confirm: %v", got)
	}
}

func TestConfirmEmptySelection(t *testing.T) {
	e := newEngine(t, nil)
	ctx := context.Background()

	replies := e.Confirm(ctx, chat)

	if len(replies) != 2 {
		t.Fatalf("len(replies) = %d, want 2", len(replies))
	}
	if !strings.Contains(replies[0].Text, "at least one") {
		t.Errorf("warning text = %q", replies[0].Text)
	}
	if got := e.sessions.Phase(chat); got != session.PhaseSelecting {
		t.Errorf("phase = %q, want selecting", got)
	}
}

func TestTextOutsideRankingPhase(t *testing.T) {
	e := newEngine(t, nil)

	if _, handled := e.Text(context.Background(), chat, "Chess"); handled {
		t.Fatal("text handled while not awaiting a ranking")
	}
}

func TestTextInvalidRankingKeepsPhase(t *testing.T) {
	e := newEngine(t, nil)
	ctx := context.Background()

	e.Toggle(ctx, chat, 1)
	e.Toggle(ctx, chat, 2)
	e.Confirm(ctx, chat)

	replies, handled := e.Text(ctx, chat, "Chess")
	if !handled || len(replies) != 1 {
		t.Fatalf("invalid ranking replies = %+v", replies)
	}
	if got := e.sessions.Phase(chat); got != session.PhaseAwaitingRanking {
		t.Fatalf("phase = %q, want awaiting ranking", got)
	}

	// Recovery with a correct list still works.
	if _, handled := e.Text(ctx, chat, "Tic-Tac-Toe, Chess"); !handled {
		t.Fatal("valid ranking not handled after failure")
	}
	if got := e.sessions.Phase(chat); got != session.PhaseRanked {
		t.Fatalf("phase = %q, want ranked", got)
	}
}

// Persistence failures surface a notice but never roll back memory state.
func TestPersistFailureKeepsMemoryState(t *testing.T) {
	repo := &failingRepo{Repo: storage.NewMemory(), failRanking: true}
	e := newEngine(t, repo)
	ctx := context.Background()

	e.Toggle(ctx, chat, 1)
	e.Confirm(ctx, chat)

	replies, handled := e.Text(ctx, chat, "Chess")
	if !handled {
		t.Fatal("ranking text not handled")
	}
	last := replies[len(replies)-1]
	if !strings.Contains(last.Text, "Saving failed") {
		t.Fatalf("missing save failure notice: %+v", replies)
	}
	if got := e.sessions.Phase(chat); got != session.PhaseRanked {
		t.Fatalf("phase rolled back to %q", got)
	}
}

func TestPersistFailureOnToggle(t *testing.T) {
	repo := &failingRepo{Repo: storage.NewMemory(), failSelection: true}
	e := newEngine(t, repo)

	replies := e.Toggle(context.Background(), chat, 1)

	if len(replies) != 2 || !strings.Contains(replies[1].Text, "Saving failed") {
		t.Fatalf("replies = %+v, want keyboard plus failure notice", replies)
	}
	if got := e.sessions.Get(chat).Selected; len(got) != 1 {
		t.Fatalf("selection rolled back: %v", got)
	}
}

func TestResetSoftKeepsStoredRanking(t *testing.T) {
	repo := storage.NewMemory()
	e := newEngine(t, repo)
	ctx := context.Background()

	e.Toggle(ctx, chat, 1)
	e.Confirm(ctx, chat)
	e.Text(ctx, chat, "Chess")

	e.Reset(ctx, chat)

	if got := e.sessions.Get(chat).Phase; got != session.PhaseSelecting {
		t.Fatalf("phase = %q, want selecting", got)
	}
	rec, err := repo.Get(ctx, chat)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(rec.Ranking) == 0 {
		t.Fatal("soft reset cleared the stored ranking")
	}
}

func TestResetFullClearsStoredRanking(t *testing.T) {
	repo := storage.NewMemory()
	cat, err := catalog.Static("Chess", "Tic-Tac-Toe")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	e := NewEngine(cat, session.NewStore(), repo, ResetFull)
	ctx := context.Background()

	e.Toggle(ctx, chat, 1)
	e.Confirm(ctx, chat)
	e.Text(ctx, chat, "Chess")

	e.Reset(ctx, chat)

	rec, err := repo.Get(ctx, chat)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(rec.Ranking) != 0 {
		t.Fatalf("full reset kept the stored ranking: %v", rec.Ranking)
	}
}

func TestStatus(t *testing.T) {
	e := newEngine(t, nil)
	ctx := context.Background()

	if got := e.Status(ctx, chat); !strings.Contains(got[0].Text, "/start") {
		t.Errorf("empty status = %q", got[0].Text)
	}

	e.Toggle(ctx, chat, 2)
	if got := e.Status(ctx, chat); !strings.Contains(got[0].Text, "Tic-Tac-Toe") {
		t.Errorf("selected status = %q", got[0].Text)
	}

	e.Confirm(ctx, chat)
	e.Text(ctx, chat, "Tic-Tac-Toe")
	if got := e.Status(ctx, chat); !strings.Contains(got[0].Text, "1. Tic-Tac-Toe") {
		t.Errorf("ranked status = %q", got[0].Text)
	}
}

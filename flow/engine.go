// Package flow implements the dispatch loop of the picker conversation,
// independent of the Telegram transport. Handlers feed inbound events into
// the Engine and render the returned replies.
package flow

import (
	"context"
	"errors"
	"log/slog"

	"github.com/m3rciful/pickbot/catalog"
	"github.com/m3rciful/pickbot/core/logger"
	"github.com/m3rciful/pickbot/ranking"
	"github.com/m3rciful/pickbot/session"
	"github.com/m3rciful/pickbot/storage"
)

// ResetMode decides what /change does to the persisted row.
type ResetMode string

const (
	// ResetSoft clears the in-memory session only; the stored ranking stays
	// until overwritten.
	ResetSoft ResetMode = "soft"
	// ResetFull additionally nulls the stored ranking column.
	ResetFull ResetMode = "full"
)

// Reply is one outbound effect: prompt text, optionally with a keyboard.
// Edit asks the transport to replace the originating message when possible.
type Reply struct {
	Text     string
	Markdown bool
	Buttons  []Button
	Edit     bool
}

// Engine routes inbound events through the session store, the ranking
// parser, and the persistence gateway. Events for a single chat arrive
// serialized; independent chats may interleave freely.
type Engine struct {
	cat      *catalog.Catalog
	sessions *session.Store
	repo     storage.Repo
	reset    ResetMode
}

// NewEngine wires the dispatch loop. An empty reset mode defaults to soft.
func NewEngine(cat *catalog.Catalog, sessions *session.Store, repo storage.Repo, reset ResetMode) *Engine {
	if reset == "" {
		reset = ResetSoft
	}
	return &Engine{cat: cat, sessions: sessions, repo: repo, reset: reset}
}

// Start resets the chat's session and prompts with a fresh keyboard.
// Profile fields are persisted alongside the row.
func (e *Engine) Start(ctx context.Context, chatID int64, firstName, username string) []Reply {
	e.sessions.Reset(chatID)
	replies := []Reply{
		{Text: promptWelcome},
		{Text: promptChoose, Buttons: Keyboard(e.cat, nil)},
	}
	if err := e.repo.UpsertProfile(ctx, chatID, firstName, username); err != nil {
		replies = e.persistFailed(ctx, chatID, "upsert_profile", err, replies)
	}
	return replies
}

// Toggle flips an item in the selection and re-renders the keyboard by
// editing the originating message. Ids outside the catalog are ignored apart
// from a keyboard refresh, tolerating stale taps. Outside the selecting phase
// the current phase's prompt is re-shown instead.
func (e *Engine) Toggle(ctx context.Context, chatID int64, id int) []Reply {
	if phase := e.sessions.Phase(chatID); phase != session.PhaseSelecting {
		return e.rePrompt(chatID, phase)
	}

	if _, ok := e.cat.ByID(id); !ok {
		logger.SVCSessions.Debug("stale toggle ignored",
			slog.String("event", "toggle.unknown"),
			slog.Int64("chat_id", chatID),
			slog.Int("item_id", id),
		)
		return []Reply{e.keyboardReply(chatID)}
	}

	selected := e.sessions.Toggle(chatID, id)
	replies := []Reply{{Text: promptChoose, Buttons: Keyboard(e.cat, selected), Edit: true}}
	if err := e.repo.UpsertSelection(ctx, chatID, e.cat.Names(selected)); err != nil {
		replies = e.persistFailed(ctx, chatID, "upsert_selection", err, replies)
	}
	return replies
}

// Confirm finishes the selection phase. An empty selection keeps the phase
// and re-shows the keyboard with a warning.
func (e *Engine) Confirm(ctx context.Context, chatID int64) []Reply {
	if phase := e.sessions.Phase(chatID); phase != session.PhaseSelecting {
		return e.rePrompt(chatID, phase)
	}

	if err := e.sessions.MarkDone(chatID); err != nil {
		if errors.Is(err, session.ErrEmptySelection) {
			return []Reply{
				{Text: promptPickFirst, Edit: true},
				{Text: promptChoose, Buttons: Keyboard(e.cat, nil)},
			}
		}
		return []Reply{{Text: promptPickFirst}}
	}

	sess := e.sessions.Get(chatID)
	return []Reply{{
		Text:     confirmText(e.cat.Names(sess.Selected), e.selectedRefs(sess.Selected)),
		Markdown: true,
		Edit:     true,
	}}
}

// Text handles a plain message. It reports false when the chat is not
// awaiting a ranking so command routing can fall through. Validation errors
// leave the session untouched and re-describe the expected format.
func (e *Engine) Text(ctx context.Context, chatID int64, raw string) ([]Reply, bool) {
	if e.sessions.Phase(chatID) != session.PhaseAwaitingRanking {
		return nil, false
	}

	sess := e.sessions.Get(chatID)
	refs := e.selectedRefs(sess.Selected)
	order, err := ranking.Parse(raw, e.cat, sess.Selected)
	if err != nil {
		return []Reply{e.rankingErrorReply(chatID, err, refs)}, true
	}

	e.sessions.SetRanking(chatID, order)
	names := e.cat.Names(order)
	replies := []Reply{{Text: rankedText(names)}}
	if err := e.repo.UpsertRanking(ctx, chatID, names); err != nil {
		replies = e.persistFailed(ctx, chatID, "upsert_ranking", err, replies)
	}
	return replies, true
}

// Reset clears the in-memory session. In full mode the stored ranking is
// nulled as well; in soft mode it stays until overwritten.
func (e *Engine) Reset(ctx context.Context, chatID int64) []Reply {
	e.sessions.Reset(chatID)
	replies := []Reply{
		{Text: promptReset},
		{Text: promptChoose, Buttons: Keyboard(e.cat, nil)},
	}
	if e.reset == ResetFull {
		if err := e.repo.ClearRanking(ctx, chatID); err != nil {
			replies = e.persistFailed(ctx, chatID, "clear_ranking", err, replies)
		}
	}
	return replies
}

// Status reports the chat's current selection or ranking.
func (e *Engine) Status(_ context.Context, chatID int64) []Reply {
	sess := e.sessions.Get(chatID)
	switch {
	case len(sess.Ranking) > 0:
		return []Reply{{Text: statusRankedText(e.cat.Names(sess.Ranking))}}
	case len(sess.Selected) > 0:
		return []Reply{{
			Text:     statusSelectedText(e.cat.Names(sess.Selected), e.selectedRefs(sess.Selected)),
			Markdown: true,
		}}
	default:
		return []Reply{{Text: promptNothing}}
	}
}

// ActiveSessions counts chats with in-memory state, for diagnostics.
func (e *Engine) ActiveSessions() int {
	return e.sessions.Active()
}

func (e *Engine) rankingErrorReply(chatID int64, err error, refs []string) Reply {
	var (
		noItems  *ranking.NoItemsError
		badID    *ranking.InvalidIDError
		mismatch *ranking.MismatchError
	)
	switch {
	case errors.As(err, &noItems):
		return Reply{Text: noItemsText(refs), Markdown: true}
	case errors.As(err, &badID):
		return Reply{Text: invalidIDText(badID.ID, badID.Max)}
	case errors.As(err, &mismatch):
		return Reply{Text: mismatchText(mismatch.Expected, mismatch.Got, refs), Markdown: true}
	default:
		logger.SVCSessions.Error("unexpected ranking error",
			slog.String("event", "ranking.parse"),
			slog.Int64("chat_id", chatID),
			slog.String("err", err.Error()),
		)
		return Reply{Text: noItemsText(refs), Markdown: true}
	}
}

// rePrompt re-renders the prompt matching the chat's phase. Used when a
// toggle or confirm arrives after the selection phase already ended.
func (e *Engine) rePrompt(chatID int64, phase session.Phase) []Reply {
	sess := e.sessions.Get(chatID)
	switch phase {
	case session.PhaseAwaitingRanking:
		return []Reply{{
			Text:     confirmText(e.cat.Names(sess.Selected), e.selectedRefs(sess.Selected)),
			Markdown: true,
		}}
	case session.PhaseRanked:
		return []Reply{{Text: statusRankedText(e.cat.Names(sess.Ranking))}}
	default:
		return []Reply{e.keyboardReply(chatID)}
	}
}

func (e *Engine) keyboardReply(chatID int64) Reply {
	sess := e.sessions.Get(chatID)
	return Reply{Text: promptChoose, Buttons: Keyboard(e.cat, sess.Selected), Edit: true}
}

// persistFailed logs the storage error and appends a generic failure notice.
// In-memory state already applied is deliberately kept.
func (e *Engine) persistFailed(ctx context.Context, chatID int64, op string, err error, replies []Reply) []Reply {
	logger.Error(ctx, "service.storage", "persist.fail",
		slog.Int64("chat_id", chatID),
		slog.String("operation", op),
		slog.String("err", err.Error()),
	)
	return append(replies, Reply{Text: promptSaveFail})
}

func (e *Engine) selectedRefs(ids []int) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if it, ok := e.cat.ByID(id); ok {
			out = append(out, e.cat.Ref(it))
		}
	}
	return out
}

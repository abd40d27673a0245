// Package storage persists one row per chat: the current selection and,
// once submitted, the ranking. Both lists are JSON-encoded item references.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when no row exists for the chat.
var ErrNotFound = errors.New("storage: record not found")

// Error wraps a storage failure after retries are exhausted. Callers treat
// it as non-fatal: in-memory session state is kept regardless.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("storage: %s: %v", e.Op, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// Code returns the stable error code.
func (*Error) Code() string { return "PERSISTENCE_ERROR" }

// Record is the durable per-chat row. Ranking is nil while unranked.
type Record struct {
	ChatID    int64
	FirstName string
	Username  string
	Selected  []string
	Ranking   []string
}

// Repo is the persistence gateway. Every Upsert* call is an atomic
// insert-or-update of the single row keyed by chat id that touches only the
// named columns, leaving the rest intact. All calls are idempotent.
type Repo interface {
	UpsertProfile(ctx context.Context, chatID int64, firstName, username string) error
	UpsertSelection(ctx context.Context, chatID int64, items []string) error
	UpsertRanking(ctx context.Context, chatID int64, items []string) error
	ClearRanking(ctx context.Context, chatID int64) error
	Get(ctx context.Context, chatID int64) (Record, error)
}

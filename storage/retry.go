package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/m3rciful/pickbot/core/logger"
)

const (
	defaultAttempts = 3
	defaultBackoff  = 500 * time.Millisecond
)

// Retrying decorates a Repo with bounded retry. Each call is attempted up to
// Attempts times with linear backoff; the final failure is wrapped into
// *Error so callers surface a single persistence failure notice instead of
// hanging. Context errors abort immediately.
type Retrying struct {
	next     Repo
	attempts int
	backoff  time.Duration
}

// NewRetrying wraps next with the given retry ceiling. Zero values select
// the defaults (3 attempts, 500ms backoff step).
func NewRetrying(next Repo, attempts int, backoff time.Duration) *Retrying {
	if attempts <= 0 {
		attempts = defaultAttempts
	}
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	return &Retrying{next: next, attempts: attempts, backoff: backoff}
}

func (r *Retrying) UpsertProfile(ctx context.Context, chatID int64, firstName, username string) error {
	return r.do(ctx, "upsert_profile", func() error {
		return r.next.UpsertProfile(ctx, chatID, firstName, username)
	})
}

func (r *Retrying) UpsertSelection(ctx context.Context, chatID int64, items []string) error {
	return r.do(ctx, "upsert_selection", func() error {
		return r.next.UpsertSelection(ctx, chatID, items)
	})
}

func (r *Retrying) UpsertRanking(ctx context.Context, chatID int64, items []string) error {
	return r.do(ctx, "upsert_ranking", func() error {
		return r.next.UpsertRanking(ctx, chatID, items)
	})
}

func (r *Retrying) ClearRanking(ctx context.Context, chatID int64) error {
	return r.do(ctx, "clear_ranking", func() error {
		return r.next.ClearRanking(ctx, chatID)
	})
}

func (r *Retrying) Get(ctx context.Context, chatID int64) (Record, error) {
	var rec Record
	err := r.do(ctx, "get", func() error {
		var inner error
		rec, inner = r.next.Get(ctx, chatID)
		return inner
	})
	return rec, err
}

func (r *Retrying) do(ctx context.Context, op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return &Error{Op: op, Err: err}
		}
		err := fn()
		if err == nil {
			if attempt > 1 {
				logger.SVCStorage.Info("retry succeeded",
					slog.String("event", "db.retry"),
					slog.String("operation", op),
					slog.Int("attempts", attempt),
				)
			}
			return nil
		}
		// Not-found is an answer, not a failure worth retrying.
		if errors.Is(err, ErrNotFound) {
			return err
		}
		lastErr = err
		if attempt == r.attempts {
			break
		}

		delay := r.backoff * time.Duration(attempt)
		logger.SVCStorage.Warn("attempt failed",
			slog.String("event", "db.retry"),
			slog.String("operation", op),
			slog.Int("attempt", attempt),
			slog.Duration("backoff", delay),
			slog.String("err", err.Error()),
		)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return &Error{Op: op, Err: ctx.Err()}
		case <-timer.C:
		}
	}
	return &Error{Op: op, Err: lastErr}
}

package storage

import (
	"context"
	"errors"
	"testing"
	"time"
)

// flaky fails the first n calls of every operation, then delegates.
type flaky struct {
	Repo
	failures int
	calls    int
}

var errFlaky = errors.New("i/o timeout")

func (f *flaky) UpsertSelection(ctx context.Context, chatID int64, items []string) error {
	f.calls++
	if f.calls <= f.failures {
		return errFlaky
	}
	return f.Repo.UpsertSelection(ctx, chatID, items)
}

func (f *flaky) Get(ctx context.Context, chatID int64) (Record, error) {
	f.calls++
	if f.calls <= f.failures {
		return Record{}, errFlaky
	}
	return f.Repo.Get(ctx, chatID)
}

func TestRetryingSucceedsWithinBudget(t *testing.T) {
	inner := &flaky{Repo: NewMemory(), failures: 2}
	r := NewRetrying(inner, 3, time.Millisecond)

	if err := r.UpsertSelection(context.Background(), 1, []string{"Chess"}); err != nil {
		t.Fatalf("UpsertSelection: %v", err)
	}
	if inner.calls != 3 {
		t.Fatalf("calls = %d, want 3", inner.calls)
	}
}

func TestRetryingStopsAtCeiling(t *testing.T) {
	inner := &flaky{Repo: NewMemory(), failures: 10}
	r := NewRetrying(inner, 3, time.Millisecond)

	err := r.UpsertSelection(context.Background(), 1, []string{"Chess"})
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if inner.calls != 3 {
		t.Fatalf("calls = %d, want 3", inner.calls)
	}

	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("err = %T, want *Error", err)
	}
	if perr.Code() != "PERSISTENCE_ERROR" {
		t.Errorf("Code() = %q", perr.Code())
	}
	if !errors.Is(err, errFlaky) {
		t.Errorf("cause not preserved: %v", err)
	}
}

// Not-found is a definitive answer and must not burn retry attempts.
func TestRetryingDoesNotRetryNotFound(t *testing.T) {
	inner := &flaky{Repo: NewMemory()}
	r := NewRetrying(inner, 3, time.Millisecond)

	_, err := r.Get(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if inner.calls != 1 {
		t.Fatalf("calls = %d, want 1", inner.calls)
	}
}

func TestRetryingHonoursContext(t *testing.T) {
	inner := &flaky{Repo: NewMemory(), failures: 10}
	r := NewRetrying(inner, 3, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.UpsertSelection(ctx, 1, []string{"Chess"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if inner.calls != 0 {
		t.Fatalf("calls = %d, want 0", inner.calls)
	}
}

func TestRetryingDefaults(t *testing.T) {
	r := NewRetrying(NewMemory(), 0, 0)
	if r.attempts != defaultAttempts || r.backoff != defaultBackoff {
		t.Fatalf("defaults not applied: %d/%v", r.attempts, r.backoff)
	}
}

package storage

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryGetMissing(t *testing.T) {
	m := NewMemory()

	if _, err := m.Get(context.Background(), 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

// Re-running the same upsert must converge on the same row.
func TestMemoryUpsertIdempotent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := m.UpsertSelection(ctx, 1, []string{"Chess", "Sudoku"}); err != nil {
			t.Fatalf("UpsertSelection: %v", err)
		}
	}

	rec, err := m.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(rec.Selected) != 2 || rec.Selected[0] != "Chess" {
		t.Fatalf("selected = %v", rec.Selected)
	}
}

// Each upsert touches only its own columns.
func TestMemoryColumnsIndependent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.UpsertProfile(ctx, 1, "Ada", "ada"); err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}
	if err := m.UpsertSelection(ctx, 1, []string{"Chess"}); err != nil {
		t.Fatalf("UpsertSelection: %v", err)
	}
	if err := m.UpsertRanking(ctx, 1, []string{"Chess"}); err != nil {
		t.Fatalf("UpsertRanking: %v", err)
	}
	if err := m.UpsertProfile(ctx, 1, "Ada", "ada2"); err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}

	rec, err := m.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Username != "ada2" {
		t.Errorf("username = %q", rec.Username)
	}
	if len(rec.Selected) != 1 || len(rec.Ranking) != 1 {
		t.Errorf("selection/ranking lost on profile update: %+v", rec)
	}
}

func TestMemoryClearRanking(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.UpsertRanking(ctx, 1, []string{"Chess"}); err != nil {
		t.Fatalf("UpsertRanking: %v", err)
	}
	if err := m.ClearRanking(ctx, 1); err != nil {
		t.Fatalf("ClearRanking: %v", err)
	}

	rec, err := m.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Ranking != nil {
		t.Fatalf("ranking = %v, want nil", rec.Ranking)
	}

	// Clearing a chat without a row is a no-op.
	if err := m.ClearRanking(ctx, 2); err != nil {
		t.Fatalf("ClearRanking missing row: %v", err)
	}
}

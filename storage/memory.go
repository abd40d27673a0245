package storage

import (
	"context"
	"sync"
)

// Memory is an in-process Repo used in tests and for running the bot without
// a database. It follows the same column-at-a-time upsert semantics as the
// Postgres implementation.
type Memory struct {
	mu   sync.Mutex
	rows map[int64]*Record
}

// NewMemory constructs an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{rows: make(map[int64]*Record)}
}

func (m *Memory) UpsertProfile(_ context.Context, chatID int64, firstName, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row := m.obtain(chatID)
	row.FirstName = firstName
	row.Username = username
	return nil
}

func (m *Memory) UpsertSelection(_ context.Context, chatID int64, items []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.obtain(chatID).Selected = append([]string(nil), items...)
	return nil
}

func (m *Memory) UpsertRanking(_ context.Context, chatID int64, items []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.obtain(chatID).Ranking = append([]string(nil), items...)
	return nil
}

func (m *Memory) ClearRanking(_ context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row, ok := m.rows[chatID]; ok {
		row.Ranking = nil
	}
	return nil
}

func (m *Memory) Get(_ context.Context, chatID int64) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[chatID]
	if !ok {
		return Record{}, ErrNotFound
	}
	out := Record{ChatID: row.ChatID, FirstName: row.FirstName, Username: row.Username}
	out.Selected = append([]string(nil), row.Selected...)
	if row.Ranking != nil {
		out.Ranking = append([]string(nil), row.Ranking...)
	}
	return out, nil
}

func (m *Memory) obtain(chatID int64) *Record {
	row, ok := m.rows[chatID]
	if !ok {
		row = &Record{ChatID: chatID, Selected: []string{}}
		m.rows[chatID] = row
	}
	return row
}

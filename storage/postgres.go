package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/pickbot/core/logger"
)

// Postgres implements Repo on top of the picker_sessions table.
type Postgres struct {
	db *sqlx.DB
}

// NewPostgres wraps an open sqlx connection.
func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

type sessionRow struct {
	ChatID    int64          `db:"chat_id"`
	FirstName string         `db:"first_name"`
	Username  string         `db:"username"`
	Selected  string         `db:"selected"`
	Ranking   sql.NullString `db:"ranking"`
}

// UpsertProfile stores the chat's profile fields, inserting the row with an
// empty selection when it does not exist yet.
func (p *Postgres) UpsertProfile(ctx context.Context, chatID int64, firstName, username string) error {
	const q = `
		INSERT INTO picker_sessions (chat_id, first_name, username, selected, updated_at)
		VALUES ($1, $2, $3, '[]', now())
		ON CONFLICT (chat_id) DO UPDATE
		SET first_name = EXCLUDED.first_name,
		    username   = EXCLUDED.username,
		    updated_at = now()`
	return p.exec(ctx, "upsert_profile", chatID, q, chatID, firstName, username)
}

// UpsertSelection replaces only the selected column for the chat. A missing
// row is inserted with a null ranking.
func (p *Postgres) UpsertSelection(ctx context.Context, chatID int64, items []string) error {
	encoded, err := encodeItems(items)
	if err != nil {
		return err
	}
	const q = `
		INSERT INTO picker_sessions (chat_id, selected, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (chat_id) DO UPDATE
		SET selected = EXCLUDED.selected, updated_at = now()`
	return p.exec(ctx, "upsert_selection", chatID, q, chatID, encoded)
}

// UpsertRanking replaces only the ranking column for the chat. A missing row
// is inserted with an empty selection.
func (p *Postgres) UpsertRanking(ctx context.Context, chatID int64, items []string) error {
	encoded, err := encodeItems(items)
	if err != nil {
		return err
	}
	const q = `
		INSERT INTO picker_sessions (chat_id, selected, ranking, updated_at)
		VALUES ($1, '[]', $2, now())
		ON CONFLICT (chat_id) DO UPDATE
		SET ranking = EXCLUDED.ranking, updated_at = now()`
	return p.exec(ctx, "upsert_ranking", chatID, q, chatID, encoded)
}

// ClearRanking nulls the stored ranking, used by the full reset mode. A chat
// without a row is a no-op.
func (p *Postgres) ClearRanking(ctx context.Context, chatID int64) error {
	const q = `UPDATE picker_sessions SET ranking = NULL, updated_at = now() WHERE chat_id = $1`
	return p.exec(ctx, "clear_ranking", chatID, q, chatID)
}

// Get loads the row for the chat.
func (p *Postgres) Get(ctx context.Context, chatID int64) (Record, error) {
	const q = `
		SELECT chat_id, first_name, username, selected, ranking
		FROM picker_sessions WHERE chat_id = $1`
	var row sessionRow
	if err := p.db.GetContext(ctx, &row, q, chatID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("get chat %d: %w", chatID, err)
	}

	rec := Record{ChatID: row.ChatID, FirstName: row.FirstName, Username: row.Username}
	if err := json.Unmarshal([]byte(row.Selected), &rec.Selected); err != nil {
		return Record{}, fmt.Errorf("decode selected for chat %d: %w", chatID, err)
	}
	if row.Ranking.Valid {
		if err := json.Unmarshal([]byte(row.Ranking.String), &rec.Ranking); err != nil {
			return Record{}, fmt.Errorf("decode ranking for chat %d: %w", chatID, err)
		}
	}
	return rec, nil
}

func (p *Postgres) exec(ctx context.Context, op string, chatID int64, query string, args ...any) error {
	start := time.Now()
	_, err := p.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s chat %d: %w", op, chatID, err)
	}
	logger.SVCStorage.Debug("row upserted",
		slog.String("event", "db."+op),
		slog.Int64("chat_id", chatID),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}

func encodeItems(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode items: %w", err)
	}
	return string(data), nil
}

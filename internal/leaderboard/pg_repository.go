package leaderboard

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quizmasters/rupee-rumble/internal/models"
)

// PGRepository stores the leaderboard in Postgres for installations
// that want durability across hosts. Same best-effort contract as the
// file repository; the app layer swallows any error it returns.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository creates a Postgres-backed repository.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// EnsureSchema creates the leaderboard table if it does not exist.
func (r *PGRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS leaderboard_entries (
			id            UUID PRIMARY KEY,
			name          TEXT NOT NULL,
			balance       INT NOT NULL,
			rounds_played INT NOT NULL,
			recorded_at   TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create leaderboard table: %w", err)
	}
	return nil
}

func (r *PGRepository) Load(ctx context.Context) ([]models.LeaderboardEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, balance, rounds_played, recorded_at
		FROM leaderboard_entries
		ORDER BY balance DESC, rounds_played DESC, recorded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.Balance, &e.RoundsPlayed, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard entries: %w", err)
	}
	return entries, nil
}

func (r *PGRepository) Save(ctx context.Context, entries []models.LeaderboardEntry) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin leaderboard tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM leaderboard_entries`); err != nil {
		return fmt.Errorf("clear leaderboard: %w", err)
	}

	for _, e := range entries {
		_, err := tx.Exec(ctx, `
			INSERT INTO leaderboard_entries (id, name, balance, rounds_played, recorded_at)
			VALUES ($1, $2, $3, $4, $5)`,
			e.ID, e.Name, e.Balance, e.RoundsPlayed, e.RecordedAt)
		if err != nil {
			return fmt.Errorf("insert leaderboard entry: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit leaderboard tx: %w", err)
	}
	return nil
}

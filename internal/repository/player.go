package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"bootcamp-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type PlayerRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPlayerRepository(db *sql.DB, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{db: db, logger: logger}
}

const playerColumns = `id, puuid, game_name, tag_line, region, twitch_login,
	starts_at, planned_end_at, ended_at, status, last_game_id,
	stream_live, stream_started_at, created_at, updated_at`

func scanPlayer(row interface{ Scan(...any) error }) (*domain.TrackedPlayer, error) {
	var p domain.TrackedPlayer
	var endedAt, streamStartedAt sql.NullTime
	err := row.Scan(
		&p.ID, &p.Puuid, &p.GameName, &p.TagLine, &p.Region, &p.TwitchLogin,
		&p.StartsAt, &p.PlannedEndAt, &endedAt, &p.Status, &p.LastGameID,
		&p.StreamLive, &streamStartedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if endedAt.Valid {
		p.EndedAt = &endedAt.Time
	}
	if streamStartedAt.Valid {
		p.StreamStartedAt = &streamStartedAt.Time
	}
	return &p, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (*domain.TrackedPlayer, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM tracked_players WHERE id = ?`, id)
	return scanPlayer(row)
}

// GetActiveRoster returns every player whose tracking window covers now.
func (r *PlayerRepository) GetActiveRoster(ctx context.Context, now time.Time) ([]*domain.TrackedPlayer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+playerColumns+` FROM tracked_players
		 WHERE ended_at IS NULL AND starts_at <= ? AND planned_end_at > ?`, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query active roster: %w", err)
	}
	defer rows.Close()

	var players []*domain.TrackedPlayer
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// ListInGame returns players persisted as in_game; the stale-state sweep
// checks them against reality.
func (r *PlayerRepository) ListInGame(ctx context.Context) ([]*domain.TrackedPlayer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+playerColumns+` FROM tracked_players WHERE status = ?`, domain.StatusInGame)
	if err != nil {
		return nil, fmt.Errorf("failed to query in-game players: %w", err)
	}
	defer rows.Close()

	var players []*domain.TrackedPlayer
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (r *PlayerRepository) UpdateStatus(ctx context.Context, id int64, status domain.PlayerStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tracked_players SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update player status: %w", err)
	}
	return nil
}

func (r *PlayerRepository) UpdateRiotID(ctx context.Context, id int64, gameName, tagLine string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tracked_players SET game_name = ?, tag_line = ?, updated_at = ? WHERE id = ?`,
		gameName, tagLine, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update riot id: %w", err)
	}
	return nil
}

func (r *PlayerRepository) UpdateStream(ctx context.Context, id int64, live bool, startedAt *time.Time) error {
	var t sql.NullTime
	if startedAt != nil {
		t = sql.NullTime{Time: *startedAt, Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE tracked_players SET stream_live = ?, stream_started_at = ?, updated_at = ? WHERE id = ?`,
		live, t, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update stream status: %w", err)
	}
	return nil
}

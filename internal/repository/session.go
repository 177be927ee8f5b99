package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"bootcamp-tracker/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type SessionRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSessionRepository(db *sql.DB, logger zerolog.Logger) *SessionRepository {
	return &SessionRepository{db: db, logger: logger}
}

// StartGame records a newly detected live game in one transaction: the
// player flips to in_game with the new last_game_id, and the session is
// upserted by its (game_id, player_id) natural key. A partial update
// (player in_game with no session, or vice versa) is never observable.
func (r *SessionRepository) StartGame(ctx context.Context, session *domain.GameSession) error {
	roster, err := json.Marshal(session.Roster)
	if err != nil {
		return fmt.Errorf("failed to marshal roster: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	_, err = tx.ExecContext(ctx,
		`UPDATE tracked_players SET status = ?, last_game_id = ?, updated_at = ? WHERE id = ?`,
		domain.StatusInGame, session.GameID, now, session.TrackedPlayerID)
	if err != nil {
		return fmt.Errorf("failed to mark player in_game: %w", err)
	}

	id, err := gonanoid.New()
	if err != nil {
		return fmt.Errorf("failed to generate session id: %w", err)
	}

	// The roster is written once at creation and never re-enriched while
	// the same game stays live; on conflict only status is refreshed.
	_, err = tx.ExecContext(ctx,
		`INSERT INTO game_sessions (id, game_id, tracked_player_id, started_at, status, roster, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (game_id, tracked_player_id) DO UPDATE SET
			status = excluded.status,
			updated_at = excluded.updated_at`,
		id, session.GameID, session.TrackedPlayerID, session.StartedAt,
		domain.SessionInProgress, string(roster), now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert game session: %w", err)
	}

	return tx.Commit()
}

// EndGame atomically marks the player idle and the session completed.
func (r *SessionRepository) EndGame(ctx context.Context, playerID int64, gameID string, endedAt time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	_, err = tx.ExecContext(ctx,
		`UPDATE tracked_players SET status = ?, updated_at = ? WHERE id = ?`,
		domain.StatusIdle, now, playerID)
	if err != nil {
		return fmt.Errorf("failed to mark player idle: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE game_sessions SET status = ?, ended_at = ?, updated_at = ?
		 WHERE game_id = ? AND tracked_player_id = ?`,
		domain.SessionCompleted, endedAt, now, gameID, playerID)
	if err != nil {
		return fmt.Errorf("failed to complete game session: %w", err)
	}

	return tx.Commit()
}

func (r *SessionRepository) Get(ctx context.Context, gameID string, playerID int64) (*domain.GameSession, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, game_id, tracked_player_id, started_at, ended_at, status, roster, detail, created_at, updated_at
		 FROM game_sessions WHERE game_id = ? AND tracked_player_id = ?`,
		gameID, playerID)

	var s domain.GameSession
	var endedAt sql.NullTime
	var roster string
	var detail sql.NullString
	err := row.Scan(&s.ID, &s.GameID, &s.TrackedPlayerID, &s.StartedAt, &endedAt,
		&s.Status, &roster, &detail, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if endedAt.Valid {
		s.EndedAt = &endedAt.Time
	}
	if err := json.Unmarshal([]byte(roster), &s.Roster); err != nil {
		return nil, fmt.Errorf("failed to unmarshal roster: %w", err)
	}
	if detail.Valid && detail.String != "" {
		s.Detail = &domain.MatchDetail{}
		if err := json.Unmarshal([]byte(detail.String), s.Detail); err != nil {
			return nil, fmt.Errorf("failed to unmarshal match detail: %w", err)
		}
	}
	return &s, nil
}

// SetDetail attaches the post-game record fetched by the delayed
// match-detail follow-up.
func (r *SessionRepository) SetDetail(ctx context.Context, gameID string, playerID int64, detail *domain.MatchDetail) error {
	payload, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("failed to marshal match detail: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE game_sessions SET detail = ?, updated_at = ?
		 WHERE game_id = ? AND tracked_player_id = ?`,
		string(payload), time.Now(), gameID, playerID)
	if err != nil {
		return fmt.Errorf("failed to set match detail: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bootcamp-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type RankRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewRankRepository(db *sql.DB, logger zerolog.Logger) *RankRepository {
	return &RankRepository{db: db, logger: logger}
}

// Get returns the snapshot for a player/queue pair. A pair that has never
// been observed yields an empty snapshot, not an error.
func (r *RankRepository) Get(ctx context.Context, playerID int64, queue domain.QueueType) (*domain.RankSnapshot, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT tier, division, league_points, wins, losses,
			peak_tier, peak_division, peak_league_points, updated_at
		 FROM rank_snapshots WHERE player_id = ? AND queue = ?`,
		playerID, queue)

	snap := &domain.RankSnapshot{PlayerID: playerID, Queue: queue}

	var tier, division, peakTier, peakDivision sql.NullString
	var lp, wins, losses, peakLP sql.NullInt64
	err := row.Scan(&tier, &division, &lp, &wins, &losses,
		&peakTier, &peakDivision, &peakLP, &snap.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return snap, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rank snapshot: %w", err)
	}

	if tier.Valid {
		snap.Current = &domain.Standing{
			Tier:         tier.String,
			Division:     division.String,
			LeaguePoints: int(lp.Int64),
			Wins:         int(wins.Int64),
			Losses:       int(losses.Int64),
		}
	}
	if peakTier.Valid {
		snap.Peak = &domain.PeakStanding{
			Tier:         peakTier.String,
			Division:     peakDivision.String,
			LeaguePoints: int(peakLP.Int64),
		}
	}
	return snap, nil
}

// SetCurrent overwrites the current standing; a nil standing clears it.
func (r *RankRepository) SetCurrent(ctx context.Context, playerID int64, queue domain.QueueType, cur *domain.Standing) error {
	var tier, division sql.NullString
	var lp, wins, losses sql.NullInt64
	if cur != nil {
		tier = sql.NullString{String: cur.Tier, Valid: true}
		division = sql.NullString{String: cur.Division, Valid: true}
		lp = sql.NullInt64{Int64: int64(cur.LeaguePoints), Valid: true}
		wins = sql.NullInt64{Int64: int64(cur.Wins), Valid: true}
		losses = sql.NullInt64{Int64: int64(cur.Losses), Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO rank_snapshots (player_id, queue, tier, division, league_points, wins, losses, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (player_id, queue) DO UPDATE SET
			tier = excluded.tier,
			division = excluded.division,
			league_points = excluded.league_points,
			wins = excluded.wins,
			losses = excluded.losses,
			updated_at = excluded.updated_at`,
		playerID, queue, tier, division, lp, wins, losses, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set current rank: %w", err)
	}
	return nil
}

// SetPeak overwrites the peak standing. Monotonicity is enforced by the
// rank service; this is a plain write.
func (r *RankRepository) SetPeak(ctx context.Context, playerID int64, queue domain.QueueType, peak *domain.PeakStanding) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO rank_snapshots (player_id, queue, peak_tier, peak_division, peak_league_points, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (player_id, queue) DO UPDATE SET
			peak_tier = excluded.peak_tier,
			peak_division = excluded.peak_division,
			peak_league_points = excluded.peak_league_points,
			updated_at = excluded.updated_at`,
		playerID, queue, peak.Tier, peak.Division, peak.LeaguePoints, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set peak rank: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"bootcamp-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type PlayrateRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPlayrateRepository(db *sql.DB, logger zerolog.Logger) *PlayrateRepository {
	return &PlayrateRepository{db: db, logger: logger}
}

func (r *PlayrateRepository) UpsertBatch(ctx context.Context, rates []domain.ChampionPlayrate) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for _, rate := range rates {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO champion_playrates (champion_id, top_rate, jungle_rate, middle_rate, bottom_rate, utility_rate, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (champion_id) DO UPDATE SET
				top_rate = excluded.top_rate,
				jungle_rate = excluded.jungle_rate,
				middle_rate = excluded.middle_rate,
				bottom_rate = excluded.bottom_rate,
				utility_rate = excluded.utility_rate,
				updated_at = excluded.updated_at`,
			rate.ChampionID, rate.Top, rate.Jungle, rate.Middle, rate.Bottom, rate.Utility, now)
		if err != nil {
			return fmt.Errorf("failed to upsert playrate for champion %d: %w", rate.ChampionID, err)
		}
	}

	return tx.Commit()
}

func (r *PlayrateRepository) GetAll(ctx context.Context) ([]domain.ChampionPlayrate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT champion_id, top_rate, jungle_rate, middle_rate, bottom_rate, utility_rate, updated_at
		 FROM champion_playrates`)
	if err != nil {
		return nil, fmt.Errorf("failed to query playrates: %w", err)
	}
	defer rows.Close()

	var rates []domain.ChampionPlayrate
	for rows.Next() {
		var c domain.ChampionPlayrate
		if err := rows.Scan(&c.ChampionID, &c.Top, &c.Jungle, &c.Middle, &c.Bottom, &c.Utility, &c.UpdatedAt); err != nil {
			return nil, err
		}
		rates = append(rates, c)
	}
	return rates, rows.Err()
}

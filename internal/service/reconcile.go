package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"bootcamp-tracker/internal/constants"
	"bootcamp-tracker/internal/domain"
	"bootcamp-tracker/internal/repository"
	"bootcamp-tracker/internal/riot"

	"github.com/rs/zerolog"
)

type inGameStore interface {
	ListInGame(ctx context.Context) ([]*domain.TrackedPlayer, error)
}

// StaleReconciler corrects drift between persisted in_game status and
// reality, e.g. when a restart missed the game-ended transition. It runs
// the same atomic transition as the live path but deliberately enqueues
// no follow-up jobs: the game ended an unknown amount of time ago and
// re-enqueuing could duplicate work already done by the live path.
type StaleReconciler struct {
	api      spectatorAPI
	players  inGameStore
	sessions sessionStore
	logger   zerolog.Logger
}

func NewStaleReconciler(api *riot.Client, players *repository.PlayerRepository, sessions *repository.SessionRepository, logger zerolog.Logger) *StaleReconciler {
	return &StaleReconciler{api: api, players: players, sessions: sessions, logger: logger}
}

func (r *StaleReconciler) Sweep(ctx context.Context) error {
	players, err := r.players.ListInGame(ctx)
	if err != nil {
		return err
	}

	for _, player := range players {
		apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
		info, err := r.api.GetActiveGame(apiCtx, player.Region, player.Puuid)
		cancel()

		stillInRecordedGame := false
		switch {
		case err == nil:
			stillInRecordedGame = strconv.FormatInt(info.GameID, 10) == player.LastGameID
		case errors.Is(err, riot.ErrNotFound):
		default:
			// ambiguous upstream state; leave the record for the next sweep
			r.logger.Warn().Err(err).Int64("player_id", player.ID).Msg("stale sweep lookup failed")
			continue
		}

		if stillInRecordedGame {
			continue
		}

		if err := r.sessions.EndGame(ctx, player.ID, player.LastGameID, time.Now()); err != nil {
			r.logger.Error().Err(err).Int64("player_id", player.ID).Msg("failed to repair stale game state")
			continue
		}
		r.logger.Info().
			Int64("player_id", player.ID).
			Str("game_id", player.LastGameID).
			Msg("stale in_game state repaired")
	}
	return nil
}

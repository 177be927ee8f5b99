package service

import (
	"context"
	"errors"
	"fmt"

	"bootcamp-tracker/internal/constants"
	"bootcamp-tracker/internal/domain"
	"bootcamp-tracker/internal/repository"
	"bootcamp-tracker/internal/riot"
	"bootcamp-tracker/internal/scheduler"

	"github.com/rs/zerolog"
)

type accountAPI interface {
	GetAccount(ctx context.Context, region, puuid string) (*riot.Account, error)
}

type nameStore interface {
	GetByID(ctx context.Context, id int64) (*domain.TrackedPlayer, error)
	UpdateRiotID(ctx context.Context, id int64, gameName, tagLine string) error
}

// NameService keeps the persisted riot id in sync with upstream renames.
type NameService struct {
	api     accountAPI
	players nameStore
	logger  zerolog.Logger
}

func NewNameService(api *riot.Client, players *repository.PlayerRepository, logger zerolog.Logger) *NameService {
	return &NameService{api: api, players: players, logger: logger}
}

func (s *NameService) HandlePoll(ctx context.Context, job scheduler.DisplayNamePollJob) error {
	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	acc, err := s.api.GetAccount(apiCtx, job.Region, job.Puuid)
	switch {
	case err == nil:
	case errors.Is(err, riot.ErrNotFound):
		return nil
	case errors.Is(err, riot.ErrRateLimited), riot.IsServerError(err):
		s.logger.Warn().Err(err).Int64("player_id", job.PlayerID).Msg("account lookup unavailable")
		return nil
	default:
		return fmt.Errorf("display-name poll: player %d: %w", job.PlayerID, err)
	}

	player, err := s.players.GetByID(ctx, job.PlayerID)
	if err != nil {
		return fmt.Errorf("display-name poll: load player %d: %w", job.PlayerID, err)
	}
	if player.GameName == acc.GameName && player.TagLine == acc.TagLine {
		return nil
	}

	if err := s.players.UpdateRiotID(ctx, job.PlayerID, acc.GameName, acc.TagLine); err != nil {
		return err
	}
	s.logger.Info().
		Int64("player_id", job.PlayerID).
		Str("game_name", acc.GameName).
		Str("tag_line", acc.TagLine).
		Msg("display name updated")
	return nil
}

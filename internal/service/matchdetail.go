package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bootcamp-tracker/internal/constants"
	"bootcamp-tracker/internal/domain"
	"bootcamp-tracker/internal/repository"
	"bootcamp-tracker/internal/riot"
	"bootcamp-tracker/internal/scheduler"

	"github.com/rs/zerolog"
)

type matchAPI interface {
	GetMatch(ctx context.Context, region, matchID string) (*riot.Match, error)
}

type detailStore interface {
	SetDetail(ctx context.Context, gameID string, playerID int64, detail *domain.MatchDetail) error
}

// MatchDetailService runs the delayed post-game fetch, after the platform
// has had time to finish processing the completed game.
type MatchDetailService struct {
	api      matchAPI
	sessions detailStore
	logger   zerolog.Logger
}

func NewMatchDetailService(api *riot.Client, sessions *repository.SessionRepository, logger zerolog.Logger) *MatchDetailService {
	return &MatchDetailService{api: api, sessions: sessions, logger: logger}
}

func (s *MatchDetailService) Handle(ctx context.Context, job scheduler.MatchDetailJob) error {
	matchID := strings.ToUpper(job.Region) + "_" + job.GameID

	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	match, err := s.api.GetMatch(apiCtx, job.Region, matchID)
	switch {
	case err == nil:
	case errors.Is(err, riot.ErrNotFound):
		// match record not processed yet; nothing to retry explicitly
		s.logger.Debug().Str("match_id", matchID).Msg("match detail not available yet")
		return nil
	case errors.Is(err, riot.ErrRateLimited), riot.IsServerError(err):
		s.logger.Warn().Err(err).Str("match_id", matchID).Msg("match detail unavailable")
		return nil
	default:
		return fmt.Errorf("match detail %s: %w", matchID, err)
	}

	detail := &domain.MatchDetail{
		DurationSec: int(match.Info.GameDuration),
		QueueID:     match.Info.QueueID,
	}
	for _, team := range match.Info.Teams {
		if team.Win {
			detail.WinnerTeam = team.TeamID
		}
	}
	for _, p := range match.Info.Participants {
		detail.Players = append(detail.Players, domain.PlayerStatLine{
			Puuid:      p.Puuid,
			ChampionID: p.ChampionID,
			Kills:      p.Kills,
			Deaths:     p.Deaths,
			Assists:    p.Assists,
			Win:        p.Win,
		})
	}

	if err := s.sessions.SetDetail(ctx, job.GameID, job.PlayerID, detail); err != nil {
		return err
	}
	s.logger.Info().Str("match_id", matchID).Int64("player_id", job.PlayerID).Msg("match detail stored")
	return nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"bootcamp-tracker/internal/constants"
	"bootcamp-tracker/internal/repository"
	"bootcamp-tracker/internal/scheduler"
	"bootcamp-tracker/internal/twitch"

	"github.com/rs/zerolog"
)

type streamAPI interface {
	Configured() bool
	GetStreams(ctx context.Context, logins []string) ([]twitch.Stream, error)
}

type streamStore interface {
	UpdateStream(ctx context.Context, id int64, live bool, startedAt *time.Time) error
}

// StreamService tracks whether a player's stream is live.
type StreamService struct {
	api     streamAPI
	players streamStore
	logger  zerolog.Logger
}

func NewStreamService(api *twitch.Client, players *repository.PlayerRepository, logger zerolog.Logger) *StreamService {
	return &StreamService{api: api, players: players, logger: logger}
}

func (s *StreamService) HandlePoll(ctx context.Context, job scheduler.StreamPollJob) error {
	if job.TwitchLogin == "" || !s.api.Configured() {
		return nil
	}

	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	streams, err := s.api.GetStreams(apiCtx, []string{job.TwitchLogin})
	if err != nil {
		s.logger.Warn().Err(err).Str("login", job.TwitchLogin).Msg("stream lookup failed")
		return nil
	}

	if len(streams) == 0 {
		return s.players.UpdateStream(ctx, job.PlayerID, false, nil)
	}

	startedAt := streams[0].StartedAt
	if err := s.players.UpdateStream(ctx, job.PlayerID, true, &startedAt); err != nil {
		return fmt.Errorf("stream poll for player %d: %w", job.PlayerID, err)
	}
	return nil
}

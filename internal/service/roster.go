package service

import (
	"context"
	"fmt"
	"time"

	"bootcamp-tracker/internal/constants"
	"bootcamp-tracker/internal/domain"
	"bootcamp-tracker/internal/repository"
	"bootcamp-tracker/internal/scheduler"

	"github.com/rs/zerolog"
)

type jobRegistry interface {
	ScheduleRepeating(p scheduler.Payload, interval time.Duration) error
	Remove(key string)
	RegisteredEntities(class scheduler.JobClass) []string
}

type rosterStore interface {
	GetActiveRoster(ctx context.Context, now time.Time) ([]*domain.TrackedPlayer, error)
}

// RosterService keeps the scheduler's registered-job set equal to
// roster × job classes. Out-of-band roster edits from the web layer are
// picked up within one reconciliation cycle, no restart required.
type RosterService struct {
	sched   jobRegistry
	players rosterStore
	logger  zerolog.Logger
}

func NewRosterService(sched *scheduler.Service, players *repository.PlayerRepository, logger zerolog.Logger) *RosterService {
	return &RosterService{sched: sched, players: players, logger: logger}
}

func (s *RosterService) Reconcile(ctx context.Context) error {
	roster, err := s.players.GetActiveRoster(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("roster reconcile: %w", err)
	}

	byEntity := make(map[string]*domain.TrackedPlayer, len(roster))
	for _, p := range roster {
		byEntity[fmt.Sprintf("%d", p.ID)] = p
	}

	var added, removed int
	for _, class := range scheduler.PlayerClasses() {
		registered := map[string]bool{}
		for _, id := range s.sched.RegisteredEntities(class) {
			registered[id] = true
		}

		for entityID, p := range byEntity {
			if registered[entityID] {
				continue
			}
			if err := s.sched.ScheduleRepeating(payloadFor(class, p), intervalFor(class)); err != nil {
				s.logger.Error().Err(err).
					Str("class", string(class)).
					Str("entity", entityID).
					Msg("failed to schedule job")
				continue
			}
			added++
		}

		for entityID := range registered {
			if byEntity[entityID] == nil {
				s.sched.Remove(scheduler.JobKey(class, entityID))
				removed++
			}
		}
	}

	if added > 0 || removed > 0 {
		s.logger.Info().
			Int("roster", len(roster)).
			Int("added", added).
			Int("removed", removed).
			Msg("roster reconciled")
	} else {
		s.logger.Debug().Int("roster", len(roster)).Msg("roster reconciled, no changes")
	}
	return nil
}

func payloadFor(class scheduler.JobClass, p *domain.TrackedPlayer) scheduler.Payload {
	switch class {
	case scheduler.ClassGameState:
		return scheduler.GameStatePollJob{PlayerID: p.ID, Puuid: p.Puuid, Region: p.Region}
	case scheduler.ClassRankCurrent:
		return scheduler.RankPollJob{PlayerID: p.ID, Puuid: p.Puuid, Region: p.Region}
	case scheduler.ClassRankPeak:
		return scheduler.PeakRankPollJob{PlayerID: p.ID, Puuid: p.Puuid, Region: p.Region}
	case scheduler.ClassStream:
		return scheduler.StreamPollJob{PlayerID: p.ID, TwitchLogin: p.TwitchLogin}
	case scheduler.ClassDisplayName:
		return scheduler.DisplayNamePollJob{PlayerID: p.ID, Puuid: p.Puuid, Region: p.Region}
	}
	return nil
}

func intervalFor(class scheduler.JobClass) time.Duration {
	switch class {
	case scheduler.ClassGameState:
		return constants.GameStatePollInterval
	case scheduler.ClassRankCurrent:
		return constants.RankPollInterval
	case scheduler.ClassRankPeak:
		return constants.PeakPollInterval
	case scheduler.ClassStream:
		return constants.StreamPollInterval
	case scheduler.ClassDisplayName:
		return constants.DisplayNamePollInterval
	}
	return 0
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bootcamp-tracker/internal/constants"
	"bootcamp-tracker/internal/domain"
	"bootcamp-tracker/internal/repository"
	"bootcamp-tracker/internal/riot"
	"bootcamp-tracker/internal/scheduler"

	"github.com/rs/zerolog"
)

var tierRanks = map[string]int{
	"IRON":        -1,
	"BRONZE":      0,
	"SILVER":      1,
	"GOLD":        2,
	"PLATINUM":    3,
	"EMERALD":     4,
	"DIAMOND":     5,
	"MASTER":      6,
	"GRANDMASTER": 7,
	"CHALLENGER":  8,
}

var divisionRanks = map[string]int{
	"IV":  1,
	"III": 2,
	"II":  3,
	"I":   4,
}

// Score collapses a ranked standing into a single comparable number.
// Master and above have no divisions, so the division term is dropped.
func Score(tier, division string, leaguePoints int) int {
	tr, ok := tierRanks[tier]
	if !ok {
		return -1
	}
	if tr >= tierRanks["MASTER"] {
		return tr*1000 + leaguePoints
	}
	return tr*1000 + divisionRanks[division]*100 + leaguePoints
}

type leagueAPI interface {
	GetLeagueEntries(ctx context.Context, region, puuid string) ([]riot.LeagueEntry, error)
}

type rankStore interface {
	Get(ctx context.Context, playerID int64, queue domain.QueueType) (*domain.RankSnapshot, error)
	SetCurrent(ctx context.Context, playerID int64, queue domain.QueueType, cur *domain.Standing) error
	SetPeak(ctx context.Context, playerID int64, queue domain.QueueType, peak *domain.PeakStanding) error
}

type oneShotScheduler interface {
	ScheduleOnce(p scheduler.Payload, delay time.Duration)
}

// RankService maintains the current and peak snapshots per ranked queue.
type RankService struct {
	api    leagueAPI
	repo   rankStore
	sched  oneShotScheduler
	logger zerolog.Logger
}

func NewRankService(api *riot.Client, repo *repository.RankRepository, sched *scheduler.Service, logger zerolog.Logger) *RankService {
	return &RankService{api: api, repo: repo, sched: sched, logger: logger}
}

var trackedQueues = []domain.QueueType{domain.QueueSolo, domain.QueueFlex}

// UpdateCurrent overwrites the current snapshot from a fresh ladder
// observation. An established rank is never wiped by a "not ranked"
// response; such responses also occur on upstream inconsistency.
func (s *RankService) UpdateCurrent(ctx context.Context, playerID int64, puuid, region string) error {
	entries, ok, err := s.fetchEntries(ctx, playerID, puuid, region)
	if err != nil {
		return err
	}
	if !ok {
		// transient upstream condition already logged; leave fields alone
		return nil
	}

	for _, queue := range trackedQueues {
		entry := findEntry(entries, queue)
		if entry != nil {
			cur := &domain.Standing{
				Tier:         entry.Tier,
				Division:     entry.Rank,
				LeaguePoints: entry.LeaguePoints,
				Wins:         entry.Wins,
				Losses:       entry.Losses,
			}
			if err := s.repo.SetCurrent(ctx, playerID, queue, cur); err != nil {
				return err
			}
			continue
		}

		snap, err := s.repo.Get(ctx, playerID, queue)
		if err != nil {
			return err
		}
		if snap.Current == nil {
			// first-ever observation: record the absence explicitly
			if err := s.repo.SetCurrent(ctx, playerID, queue, nil); err != nil {
				return err
			}
		} else {
			s.logger.Debug().
				Int64("player_id", playerID).
				Str("queue", string(queue)).
				Msg("not-ranked response, preserving established rank")
		}
	}
	return nil
}

// UpdatePeak raises the peak snapshot when the fresh observation scores
// strictly higher. Peak is monotonic non-decreasing for the lifetime of
// the tracked player; an absent peak compares as -1.
func (s *RankService) UpdatePeak(ctx context.Context, playerID int64, puuid, region string) error {
	entries, ok, err := s.fetchEntries(ctx, playerID, puuid, region)
	if err != nil || !ok {
		return err
	}

	for _, queue := range trackedQueues {
		entry := findEntry(entries, queue)
		if entry == nil {
			continue
		}

		snap, err := s.repo.Get(ctx, playerID, queue)
		if err != nil {
			return err
		}
		peakScore := -1
		if snap.Peak != nil {
			peakScore = Score(snap.Peak.Tier, snap.Peak.Division, snap.Peak.LeaguePoints)
		}

		newScore := Score(entry.Tier, entry.Rank, entry.LeaguePoints)
		if newScore <= peakScore {
			continue
		}

		peak := &domain.PeakStanding{
			Tier:         entry.Tier,
			Division:     entry.Rank,
			LeaguePoints: entry.LeaguePoints,
		}
		if err := s.repo.SetPeak(ctx, playerID, queue, peak); err != nil {
			return err
		}
		s.logger.Info().
			Int64("player_id", playerID).
			Str("queue", string(queue)).
			Str("tier", entry.Tier).
			Str("division", entry.Rank).
			Int("lp", entry.LeaguePoints).
			Msg("new peak rank")
	}
	return nil
}

// QueueInitialRankCheck schedules an immediate current-rank fetch plus a
// peak baseline check for a freshly added player, independent of the
// regular interval schedule.
func (s *RankService) QueueInitialRankCheck(playerID int64, puuid, region string) {
	s.sched.ScheduleOnce(scheduler.RankPollJob{PlayerID: playerID, Puuid: puuid, Region: region}, constants.InitialRankDelay)
	s.sched.ScheduleOnce(scheduler.PeakRankPollJob{PlayerID: playerID, Puuid: puuid, Region: region}, constants.InitialPeakDelay)
}

// fetchEntries applies the shared upstream error taxonomy. ok reports
// whether the result is usable; a false ok with nil error means "leave
// persisted data untouched".
func (s *RankService) fetchEntries(ctx context.Context, playerID int64, puuid, region string) (entries []riot.LeagueEntry, ok bool, err error) {
	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	entries, err = s.api.GetLeagueEntries(apiCtx, region, puuid)
	switch {
	case err == nil:
		return entries, true, nil
	case errors.Is(err, riot.ErrNotFound):
		// unranked everywhere; an expected result, not a failure
		return nil, true, nil
	case errors.Is(err, riot.ErrRateLimited):
		s.logger.Warn().Int64("player_id", playerID).Msg("rank lookup rate limited")
		return nil, false, nil
	case riot.IsServerError(err):
		s.logger.Warn().Err(err).Int64("player_id", playerID).Msg("rank lookup upstream error")
		return nil, false, nil
	default:
		return nil, false, fmt.Errorf("rank lookup for player %d: %w", playerID, err)
	}
}

func findEntry(entries []riot.LeagueEntry, queue domain.QueueType) *riot.LeagueEntry {
	for i := range entries {
		if entries[i].QueueType == string(queue) {
			return &entries[i]
		}
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"bootcamp-tracker/internal/constants"
	"bootcamp-tracker/internal/domain"
	"bootcamp-tracker/internal/repository"
	"bootcamp-tracker/internal/riot"
	"bootcamp-tracker/internal/scheduler"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type spectatorAPI interface {
	GetActiveGame(ctx context.Context, region, puuid string) (*riot.ActiveGameInfo, error)
	GetLeagueEntries(ctx context.Context, region, puuid string) ([]riot.LeagueEntry, error)
}

type playerStore interface {
	GetByID(ctx context.Context, id int64) (*domain.TrackedPlayer, error)
	UpdateStatus(ctx context.Context, id int64, status domain.PlayerStatus) error
}

type sessionStore interface {
	StartGame(ctx context.Context, session *domain.GameSession) error
	EndGame(ctx context.Context, playerID int64, gameID string, endedAt time.Time) error
}

type playrateSource interface {
	Rates() map[int]domain.ChampionPlayrate
}

// GameService converts a game-state poll result into persisted state
// transitions.
type GameService struct {
	api        spectatorAPI
	players    playerStore
	sessions   sessionStore
	classifier *RoleClassifier
	playrates  playrateSource
	sched      oneShotScheduler
	logger     zerolog.Logger
}

func NewGameService(
	api *riot.Client,
	players *repository.PlayerRepository,
	sessions *repository.SessionRepository,
	classifier *RoleClassifier,
	playrates *PlayrateService,
	sched *scheduler.Service,
	logger zerolog.Logger,
) *GameService {
	return &GameService{
		api:        api,
		players:    players,
		sessions:   sessions,
		classifier: classifier,
		playrates:  playrates,
		sched:      sched,
		logger:     logger,
	}
}

// HandlePoll runs one game-state poll for one tracked player.
func (s *GameService) HandlePoll(ctx context.Context, job scheduler.GameStatePollJob) error {
	player, err := s.players.GetByID(ctx, job.PlayerID)
	if err != nil {
		return fmt.Errorf("game-state poll: load player %d: %w", job.PlayerID, err)
	}

	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	info, err := s.api.GetActiveGame(apiCtx, job.Region, job.Puuid)
	cancel()
	switch {
	case err == nil:
	case errors.Is(err, riot.ErrNotFound):
		// not being in a game is the steady state, not an error
		info = nil
	case errors.Is(err, riot.ErrRateLimited):
		s.logger.Warn().Int64("player_id", player.ID).Msg("active-game lookup rate limited")
		return nil
	case riot.IsServerError(err):
		s.logger.Warn().Err(err).Int64("player_id", player.ID).Msg("active-game lookup upstream error")
		return nil
	default:
		return fmt.Errorf("game-state poll: player %d: %w", job.PlayerID, err)
	}

	if info == nil {
		if player.Status != domain.StatusInGame {
			return nil
		}
		return s.endGame(ctx, player)
	}

	gameID := strconv.FormatInt(info.GameID, 10)
	if gameID == player.LastGameID {
		// ongoing, already recorded: never re-enrich a game already seen
		if player.Status != domain.StatusInGame {
			return s.players.UpdateStatus(ctx, player.ID, domain.StatusInGame)
		}
		return nil
	}

	// Back-to-back games: being live in a different game proves the
	// recorded one is over, so close it out first, follow-ups included.
	if player.Status == domain.StatusInGame && player.LastGameID != "" {
		if err := s.endGame(ctx, player); err != nil {
			return err
		}
	}

	return s.startGame(ctx, player, info, gameID)
}

// startGame enriches the roster once, classifies roles, and persists the
// in_game transition atomically.
func (s *GameService) startGame(ctx context.Context, player *domain.TrackedPlayer, info *riot.ActiveGameInfo, gameID string) error {
	roster := s.enrichRoster(ctx, player.Region, info.Participants)
	s.classifier.Classify(roster, s.playrates.Rates())

	startedAt := time.Now()
	if info.GameStartTime > 0 {
		startedAt = time.UnixMilli(info.GameStartTime)
	}

	session := &domain.GameSession{
		GameID:          gameID,
		TrackedPlayerID: player.ID,
		StartedAt:       startedAt,
		Status:          domain.SessionInProgress,
		Roster:          roster,
	}
	if err := s.sessions.StartGame(ctx, session); err != nil {
		return fmt.Errorf("game start for player %d: %w", player.ID, err)
	}

	s.logger.Info().
		Int64("player_id", player.ID).
		Str("game_id", gameID).
		Int("participants", len(roster)).
		Msg("new game detected")
	return nil
}

// enrichRoster looks up each participant's current solo-queue standing
// concurrently. A per-participant failure is isolated: that participant
// is recorded as Unranked and the rest of the roster is unaffected.
func (s *GameService) enrichRoster(ctx context.Context, region string, participants []riot.ActiveGameParticipant) []domain.Participant {
	roster := make([]domain.Participant, len(participants))

	g, gctx := errgroup.WithContext(ctx)
	for i, ap := range participants {
		g.Go(func() error {
			p := domain.Participant{
				Puuid:        ap.Puuid,
				SummonerName: ap.SummonerName,
				RiotID:       ap.RiotID,
				ChampionID:   ap.ChampionID,
				Spell1ID:     ap.Spell1ID,
				Spell2ID:     ap.Spell2ID,
				TeamID:       ap.TeamID,
				RankTier:     "UNRANKED",
			}

			entries, err := s.api.GetLeagueEntries(gctx, region, ap.Puuid)
			if err != nil && !errors.Is(err, riot.ErrNotFound) {
				s.logger.Warn().Err(err).Str("puuid", ap.Puuid).Msg("participant rank lookup failed, recording as unranked")
			} else if entry := findEntry(entries, domain.QueueSolo); entry != nil {
				p.RankTier = entry.Tier
				p.RankDivision = entry.Rank
				p.LeaguePoints = entry.LeaguePoints
				p.Wins = entry.Wins
				p.Losses = entry.Losses
			}

			roster[i] = p
			return nil
		})
	}
	// workers never return errors; failures degrade to Unranked
	_ = g.Wait()

	return roster
}

// endGame marks the session completed and queues the delayed follow-ups.
// The ranked ladder updates asynchronously after a game ends; querying
// immediately would read stale data, hence the staggered delays.
func (s *GameService) endGame(ctx context.Context, player *domain.TrackedPlayer) error {
	if err := s.sessions.EndGame(ctx, player.ID, player.LastGameID, time.Now()); err != nil {
		return fmt.Errorf("game end for player %d: %w", player.ID, err)
	}

	s.sched.ScheduleOnce(scheduler.MatchDetailJob{
		PlayerID: player.ID,
		GameID:   player.LastGameID,
		Region:   player.Region,
	}, constants.MatchDetailDelay)
	s.sched.ScheduleOnce(scheduler.PeakRankPollJob{
		PlayerID: player.ID,
		Puuid:    player.Puuid,
		Region:   player.Region,
	}, constants.PeakCheckDelay)
	s.sched.ScheduleOnce(scheduler.RankPollJob{
		PlayerID: player.ID,
		Puuid:    player.Puuid,
		Region:   player.Region,
	}, constants.RankRefreshDelay)

	s.logger.Info().
		Int64("player_id", player.ID).
		Str("game_id", player.LastGameID).
		Msg("game ended")
	return nil
}

package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"bootcamp-tracker/internal/constants"
	"bootcamp-tracker/internal/domain"
	"bootcamp-tracker/internal/meraki"
	"bootcamp-tracker/internal/repository"

	"github.com/rs/zerolog"
)

type playrateFeed interface {
	GetChampionRates(ctx context.Context) (map[string]meraki.RoleRates, error)
}

type playrateStore interface {
	UpsertBatch(ctx context.Context, rates []domain.ChampionPlayrate) error
	GetAll(ctx context.Context) ([]domain.ChampionPlayrate, error)
}

// PlayrateService keeps champion per-role play frequencies fresh and
// serves them from memory so the classifier never blocks on I/O.
type PlayrateService struct {
	feed   playrateFeed
	repo   playrateStore
	logger zerolog.Logger

	mu    sync.RWMutex
	cache map[int]domain.ChampionPlayrate
}

func NewPlayrateService(feed *meraki.Client, repo *repository.PlayrateRepository, logger zerolog.Logger) *PlayrateService {
	return &PlayrateService{
		feed:   feed,
		repo:   repo,
		logger: logger,
		cache:  map[int]domain.ChampionPlayrate{},
	}
}

// Warm loads the last persisted rates so classification works before the
// first feed refresh completes.
func (s *PlayrateService) Warm(ctx context.Context) error {
	rates, err := s.repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load playrates: %w", err)
	}

	s.mu.Lock()
	for _, r := range rates {
		s.cache[r.ChampionID] = r
	}
	s.mu.Unlock()

	s.logger.Info().Int("champions", len(rates)).Msg("playrate cache warmed from database")
	return nil
}

// Refresh pulls the playrate feed, persists it, and swaps the cache.
func (s *PlayrateService) Refresh(ctx context.Context) error {
	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	data, err := s.feed.GetChampionRates(apiCtx)
	if err != nil {
		// keep serving the last good data; the next cycle retries
		s.logger.Warn().Err(err).Msg("playrate feed unavailable")
		return nil
	}

	now := time.Now()
	rates := make([]domain.ChampionPlayrate, 0, len(data))
	for key, r := range data {
		championID, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		rates = append(rates, domain.ChampionPlayrate{
			ChampionID: championID,
			Top:        r.Top.PlayRate,
			Jungle:     r.Jungle.PlayRate,
			Middle:     r.Middle.PlayRate,
			Bottom:     r.Bottom.PlayRate,
			Utility:    r.Utility.PlayRate,
			UpdatedAt:  now,
		})
	}

	if err := s.repo.UpsertBatch(ctx, rates); err != nil {
		return fmt.Errorf("failed to persist playrates: %w", err)
	}

	fresh := make(map[int]domain.ChampionPlayrate, len(rates))
	for _, r := range rates {
		fresh[r.ChampionID] = r
	}
	s.mu.Lock()
	s.cache = fresh
	s.mu.Unlock()

	s.logger.Info().Int("champions", len(rates)).Msg("playrates refreshed")
	return nil
}

// Rates returns the cached playrates. The map is shared read-only; it is
// replaced wholesale on refresh, never mutated.
func (s *PlayrateService) Rates() map[int]domain.ChampionPlayrate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache
}

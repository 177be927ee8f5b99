package service

import (
	"context"
	"errors"
	"testing"

	"bootcamp-tracker/internal/domain"
	"bootcamp-tracker/internal/meraki"

	"github.com/rs/zerolog"
)

type fakePlayrateFeed struct {
	data map[string]meraki.RoleRates
	err  error
}

func (f *fakePlayrateFeed) GetChampionRates(ctx context.Context) (map[string]meraki.RoleRates, error) {
	return f.data, f.err
}

type fakePlayrateStore struct {
	persisted []domain.ChampionPlayrate
	stored    []domain.ChampionPlayrate
}

func (f *fakePlayrateStore) UpsertBatch(ctx context.Context, rates []domain.ChampionPlayrate) error {
	f.stored = rates
	return nil
}

func (f *fakePlayrateStore) GetAll(ctx context.Context) ([]domain.ChampionPlayrate, error) {
	return f.persisted, nil
}

func newPlayrateService(feed playrateFeed, store playrateStore) *PlayrateService {
	return &PlayrateService{
		feed:   feed,
		repo:   store,
		logger: zerolog.Nop(),
		cache:  map[int]domain.ChampionPlayrate{},
	}
}

func TestWarmLoadsPersistedRates(t *testing.T) {
	store := &fakePlayrateStore{persisted: []domain.ChampionPlayrate{
		{ChampionID: 64, Jungle: 88.1},
		{ChampionID: 99, Middle: 41.0, Utility: 52.3},
	}}
	s := newPlayrateService(&fakePlayrateFeed{}, store)

	if err := s.Warm(context.Background()); err != nil {
		t.Fatalf("Warm: %v", err)
	}

	rates := s.Rates()
	if len(rates) != 2 {
		t.Fatalf("cache has %d champions, want 2", len(rates))
	}
	if rates[64].Jungle != 88.1 {
		t.Fatalf("unexpected cached rate: %+v", rates[64])
	}
}

func TestRefreshPersistsAndSwapsCache(t *testing.T) {
	feed := &fakePlayrateFeed{data: map[string]meraki.RoleRates{
		"64": {Jungle: meraki.Rate{PlayRate: 90.5}},
		"18": {Bottom: meraki.Rate{PlayRate: 77.2}},
	}}
	store := &fakePlayrateStore{}
	s := newPlayrateService(feed, store)
	s.cache = map[int]domain.ChampionPlayrate{1: {ChampionID: 1, Top: 50}}

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if len(store.stored) != 2 {
		t.Fatalf("persisted %d rows, want 2", len(store.stored))
	}
	rates := s.Rates()
	if _, ok := rates[1]; ok {
		t.Fatal("stale cache entry survived the swap")
	}
	if rates[64].Jungle != 90.5 || rates[18].Bottom != 77.2 {
		t.Fatalf("unexpected cache after refresh: %+v", rates)
	}
}

func TestRefreshSkipsMalformedKeys(t *testing.T) {
	feed := &fakePlayrateFeed{data: map[string]meraki.RoleRates{
		"64":       {Jungle: meraki.Rate{PlayRate: 90.5}},
		"LeeSin":   {Jungle: meraki.Rate{PlayRate: 1}},
		"not-an-i": {Top: meraki.Rate{PlayRate: 1}},
	}}
	store := &fakePlayrateStore{}
	s := newPlayrateService(feed, store)

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(store.stored) != 1 || store.stored[0].ChampionID != 64 {
		t.Fatalf("expected only numeric keys kept, got %+v", store.stored)
	}
}

func TestRefreshKeepsLastGoodOnFeedFailure(t *testing.T) {
	feed := &fakePlayrateFeed{err: errors.New("feed down")}
	store := &fakePlayrateStore{}
	s := newPlayrateService(feed, store)
	s.cache = map[int]domain.ChampionPlayrate{64: {ChampionID: 64, Jungle: 90.5}}

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("feed failure should not surface: %v", err)
	}
	if store.stored != nil {
		t.Fatalf("feed failure must not persist anything: %+v", store.stored)
	}
	if s.Rates()[64].Jungle != 90.5 {
		t.Fatal("last good cache was lost on feed failure")
	}
}

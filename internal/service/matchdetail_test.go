package service

import (
	"context"
	"testing"

	"bootcamp-tracker/internal/domain"
	"bootcamp-tracker/internal/riot"
	"bootcamp-tracker/internal/scheduler"

	"github.com/rs/zerolog"
)

type fakeMatchAPI struct {
	match     *riot.Match
	err       error
	lastMatch string
}

func (f *fakeMatchAPI) GetMatch(ctx context.Context, region, matchID string) (*riot.Match, error) {
	f.lastMatch = matchID
	return f.match, f.err
}

type detailWrite struct {
	gameID   string
	playerID int64
	detail   *domain.MatchDetail
}

type fakeDetailStore struct {
	writes []detailWrite
}

func (f *fakeDetailStore) SetDetail(ctx context.Context, gameID string, playerID int64, detail *domain.MatchDetail) error {
	f.writes = append(f.writes, detailWrite{gameID: gameID, playerID: playerID, detail: detail})
	return nil
}

func TestHandleStoresMatchDetail(t *testing.T) {
	api := &fakeMatchAPI{match: &riot.Match{Info: riot.MatchInfo{
		GameDuration: 1843,
		QueueID:      420,
		Teams: []riot.MatchTeam{
			{TeamID: 100, Win: false},
			{TeamID: 200, Win: true},
		},
		Participants: []riot.MatchParticipant{
			{Puuid: "p1", ChampionID: 64, TeamID: 200, Kills: 7, Deaths: 2, Assists: 11, Win: true},
			{Puuid: "p2", ChampionID: 12, TeamID: 100, Kills: 1, Deaths: 8, Assists: 4, Win: false},
		},
	}}}
	store := &fakeDetailStore{}
	s := &MatchDetailService{api: api, sessions: store, logger: zerolog.Nop()}

	job := scheduler.MatchDetailJob{PlayerID: 3, GameID: "12345", Region: "euw1"}
	if err := s.Handle(context.Background(), job); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if api.lastMatch != "EUW1_12345" {
		t.Fatalf("match id = %q, want EUW1_12345", api.lastMatch)
	}
	if len(store.writes) != 1 {
		t.Fatalf("expected one detail write, got %d", len(store.writes))
	}
	w := store.writes[0]
	if w.gameID != "12345" || w.playerID != 3 {
		t.Fatalf("detail stored against wrong session: %+v", w)
	}
	if w.detail.DurationSec != 1843 || w.detail.QueueID != 420 || w.detail.WinnerTeam != 200 {
		t.Fatalf("unexpected detail: %+v", w.detail)
	}
	if len(w.detail.Players) != 2 || w.detail.Players[0].Kills != 7 {
		t.Fatalf("unexpected stat lines: %+v", w.detail.Players)
	}
}

func TestHandleMatchNotProcessedYet(t *testing.T) {
	api := &fakeMatchAPI{err: riot.ErrNotFound}
	store := &fakeDetailStore{}
	s := &MatchDetailService{api: api, sessions: store, logger: zerolog.Nop()}

	job := scheduler.MatchDetailJob{PlayerID: 3, GameID: "12345", Region: "na1"}
	if err := s.Handle(context.Background(), job); err != nil {
		t.Fatalf("a not-yet-processed match should not error: %v", err)
	}
	if len(store.writes) != 0 {
		t.Fatalf("nothing should be written: %v", store.writes)
	}
}

func TestHandleUpstreamErrorLeavesSession(t *testing.T) {
	api := &fakeMatchAPI{err: &riot.StatusError{Code: 500}}
	store := &fakeDetailStore{}
	s := &MatchDetailService{api: api, sessions: store, logger: zerolog.Nop()}

	job := scheduler.MatchDetailJob{PlayerID: 3, GameID: "12345", Region: "na1"}
	if err := s.Handle(context.Background(), job); err != nil {
		t.Fatalf("upstream 5xx should not surface: %v", err)
	}
	if len(store.writes) != 0 {
		t.Fatalf("nothing should be written: %v", store.writes)
	}
}

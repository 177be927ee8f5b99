package repository

import (
	"context"
	"testing"
	"time"

	"bootcamp-tracker/internal/domain"

	"github.com/rs/zerolog"
)

func testSession(playerID int64, gameID string, roster []domain.Participant) *domain.GameSession {
	return &domain.GameSession{
		GameID:          gameID,
		TrackedPlayerID: playerID,
		StartedAt:       time.Now().Add(-10 * time.Minute),
		Status:          domain.SessionInProgress,
		Roster:          roster,
	}
}

func TestStartGameTransition(t *testing.T) {
	db := newTestDB(t)
	players := NewPlayerRepository(db, zerolog.Nop())
	sessions := NewSessionRepository(db, zerolog.Nop())
	ctx := context.Background()

	now := time.Now()
	id := insertPlayer(t, db, "puuid-1", now.Add(-time.Hour), now.Add(time.Hour))

	roster := []domain.Participant{
		{Puuid: "a", ChampionID: 64, TeamID: 100, RankTier: "GOLD", InferredRole: domain.RoleJungle},
		{Puuid: "b", ChampionID: 12, TeamID: 200, RankTier: "UNRANKED", InferredRole: domain.RoleTop},
	}
	if err := sessions.StartGame(ctx, testSession(id, "G1", roster)); err != nil {
		t.Fatalf("StartGame: %v", err)
	}

	p, err := players.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if p.Status != domain.StatusInGame || p.LastGameID != "G1" {
		t.Fatalf("player transition missing: %+v", p)
	}

	s, err := sessions.Get(ctx, "G1", id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if s.Status != domain.SessionInProgress {
		t.Fatalf("session status = %q", s.Status)
	}
	if len(s.Roster) != 2 || s.Roster[0].InferredRole != domain.RoleJungle {
		t.Fatalf("roster not persisted: %+v", s.Roster)
	}
	if s.ID == "" {
		t.Fatal("session id not generated")
	}
}

func TestStartGameUpsertKeepsOriginalRoster(t *testing.T) {
	db := newTestDB(t)
	sessions := NewSessionRepository(db, zerolog.Nop())
	ctx := context.Background()

	now := time.Now()
	id := insertPlayer(t, db, "puuid-1", now.Add(-time.Hour), now.Add(time.Hour))

	original := []domain.Participant{{Puuid: "a", RankTier: "GOLD"}}
	if err := sessions.StartGame(ctx, testSession(id, "G1", original)); err != nil {
		t.Fatalf("StartGame: %v", err)
	}

	// a duplicate detection of the same game must not rewrite the roster
	replacement := []domain.Participant{{Puuid: "z", RankTier: "IRON"}}
	if err := sessions.StartGame(ctx, testSession(id, "G1", replacement)); err != nil {
		t.Fatalf("second StartGame: %v", err)
	}

	s, err := sessions.Get(ctx, "G1", id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(s.Roster) != 1 || s.Roster[0].Puuid != "a" {
		t.Fatalf("roster was rewritten on upsert: %+v", s.Roster)
	}
}

func TestEndGameTransition(t *testing.T) {
	db := newTestDB(t)
	players := NewPlayerRepository(db, zerolog.Nop())
	sessions := NewSessionRepository(db, zerolog.Nop())
	ctx := context.Background()

	now := time.Now()
	id := insertPlayer(t, db, "puuid-1", now.Add(-time.Hour), now.Add(time.Hour))

	if err := sessions.StartGame(ctx, testSession(id, "G1", nil)); err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	endedAt := time.Now()
	if err := sessions.EndGame(ctx, id, "G1", endedAt); err != nil {
		t.Fatalf("EndGame: %v", err)
	}

	p, err := players.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if p.Status != domain.StatusIdle {
		t.Fatalf("player should be idle after game end, got %q", p.Status)
	}
	if p.LastGameID != "G1" {
		t.Fatalf("last_game_id should survive the game end, got %q", p.LastGameID)
	}

	s, err := sessions.Get(ctx, "G1", id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if s.Status != domain.SessionCompleted || s.EndedAt == nil {
		t.Fatalf("session not completed: %+v", s)
	}
}

func TestSetDetailRoundTrip(t *testing.T) {
	db := newTestDB(t)
	sessions := NewSessionRepository(db, zerolog.Nop())
	ctx := context.Background()

	now := time.Now()
	id := insertPlayer(t, db, "puuid-1", now.Add(-time.Hour), now.Add(time.Hour))

	if err := sessions.StartGame(ctx, testSession(id, "G1", nil)); err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	detail := &domain.MatchDetail{
		DurationSec: 1843,
		QueueID:     420,
		WinnerTeam:  200,
		Players: []domain.PlayerStatLine{
			{Puuid: "a", ChampionID: 64, Kills: 7, Deaths: 2, Assists: 11, Win: true},
		},
	}
	if err := sessions.SetDetail(ctx, "G1", id, detail); err != nil {
		t.Fatalf("SetDetail: %v", err)
	}

	s, err := sessions.Get(ctx, "G1", id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if s.Detail == nil {
		t.Fatal("detail not persisted")
	}
	if s.Detail.WinnerTeam != 200 || len(s.Detail.Players) != 1 || s.Detail.Players[0].Kills != 7 {
		t.Fatalf("detail mangled: %+v", s.Detail)
	}
}

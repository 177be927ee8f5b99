package domain

import (
	"time"
)

type PlayerStatus string

const (
	StatusIdle   PlayerStatus = "idle"
	StatusInGame PlayerStatus = "in_game"
)

type QueueType string

const (
	QueueSolo QueueType = "RANKED_SOLO_5x5"
	QueueFlex QueueType = "RANKED_FLEX_SR"
)

type Role string

const (
	RoleTop     Role = "TOP"
	RoleJungle  Role = "JUNGLE"
	RoleMiddle  Role = "MIDDLE"
	RoleBottom  Role = "BOTTOM"
	RoleUtility Role = "UTILITY"
)

type TrackedPlayer struct {
	ID          int64
	Puuid       string
	GameName    string
	TagLine     string
	Region      string
	TwitchLogin string

	// Tracking window; a player is eligible for polling while the window
	// covers "now" and EndedAt is unset.
	StartsAt     time.Time
	PlannedEndAt time.Time
	EndedAt      *time.Time

	Status     PlayerStatus
	LastGameID string

	StreamLive      bool
	StreamStartedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Active reports whether the tracking window covers now.
func (p *TrackedPlayer) Active(now time.Time) bool {
	if p.EndedAt != nil {
		return false
	}
	return !now.Before(p.StartsAt) && now.Before(p.PlannedEndAt)
}

// Standing is a full current-rank observation for one queue.
type Standing struct {
	Tier         string
	Division     string
	LeaguePoints int
	Wins         int
	Losses       int
}

// PeakStanding is the monotonic high-water mark for one queue.
type PeakStanding struct {
	Tier         string
	Division     string
	LeaguePoints int
}

type RankSnapshot struct {
	PlayerID  int64
	Queue     QueueType
	Current   *Standing
	Peak      *PeakStanding
	UpdatedAt time.Time
}

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
)

type GameSession struct {
	ID              string // nanoid
	GameID          string
	TrackedPlayerID int64
	StartedAt       time.Time
	EndedAt         *time.Time
	Status          SessionStatus
	Roster          []Participant
	Detail          *MatchDetail
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Participant is one member of a live-game roster, enriched once at
// game-detection time.
type Participant struct {
	Puuid        string `json:"puuid"`
	SummonerName string `json:"summoner_name"`
	RiotID       string `json:"riot_id"`
	ChampionID   int    `json:"champion_id"`
	Spell1ID     int    `json:"spell1_id"`
	Spell2ID     int    `json:"spell2_id"`
	TeamID       int    `json:"team_id"` // 100 or 200

	RankTier     string `json:"rank_tier"`
	RankDivision string `json:"rank_division"`
	LeaguePoints int    `json:"league_points"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`

	InferredRole Role `json:"inferred_role"`
}

// MatchDetail is the post-game record written by the delayed follow-up
// fetch, after the platform has finished processing the completed game.
type MatchDetail struct {
	DurationSec int              `json:"duration_sec"`
	QueueID     int              `json:"queue_id"`
	WinnerTeam  int              `json:"winner_team"`
	Players     []PlayerStatLine `json:"players"`
}

type PlayerStatLine struct {
	Puuid      string `json:"puuid"`
	ChampionID int    `json:"champion_id"`
	Kills      int    `json:"kills"`
	Deaths     int    `json:"deaths"`
	Assists    int    `json:"assists"`
	Win        bool   `json:"win"`
}

// ChampionPlayrate holds per-role play-frequency percentages for one
// champion, refreshed daily from the external playrate feed.
type ChampionPlayrate struct {
	ChampionID int
	Top        float64
	Jungle     float64
	Middle     float64
	Bottom     float64
	Utility    float64
	UpdatedAt  time.Time
}

// Rate returns the play frequency for a role.
func (c ChampionPlayrate) Rate(role Role) float64 {
	switch role {
	case RoleTop:
		return c.Top
	case RoleJungle:
		return c.Jungle
	case RoleMiddle:
		return c.Middle
	case RoleBottom:
		return c.Bottom
	case RoleUtility:
		return c.Utility
	}
	return 0
}

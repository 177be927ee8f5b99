package riot

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"bootcamp-tracker/internal/config"
	"bootcamp-tracker/internal/constants"

	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"
)

// Client talks to the Riot API. Every call funnels through two token
// buckets: the application window limiter and a short per-call burst
// limiter, so the published quota holds regardless of which job class is
// calling.
type Client struct {
	apiKey        string
	client        *fasthttp.Client
	appLimiter    *rate.Limiter
	methodLimiter *rate.Limiter
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		apiKey: cfg.RiotAPIKey,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		appLimiter:    rate.NewLimiter(rate.Limit(constants.RiotAppRatePerSec), constants.RiotAppBurst),
		methodLimiter: rate.NewLimiter(rate.Limit(constants.RiotMethodRatePerSec), constants.RiotMethodBurst),
	}
}

// regionalCluster maps a platform routing value (euw1, na1, ...) to the
// regional routing value used by match-v5 and account-v1.
func regionalCluster(platform string) string {
	switch strings.ToLower(platform) {
	case "na1", "br1", "la1", "la2", "oc1":
		return "americas"
	case "kr", "jp1":
		return "asia"
	case "sg2", "tw2", "vn2":
		return "sea"
	default:
		return "europe"
	}
}

// GetActiveGame returns the live game a player is currently in, or
// ErrNotFound when they are not in one.
func (c *Client) GetActiveGame(ctx context.Context, region, puuid string) (*ActiveGameInfo, error) {
	url := fmt.Sprintf("https://%s.api.riotgames.com/lol/spectator/v5/active-games/by-summoner/%s", strings.ToLower(region), puuid)
	return doRequest[ActiveGameInfo](ctx, c, url)
}

// GetLeagueEntries returns the ranked standings for a player, one entry
// per queue the player has a rank in.
func (c *Client) GetLeagueEntries(ctx context.Context, region, puuid string) ([]LeagueEntry, error) {
	url := fmt.Sprintf("https://%s.api.riotgames.com/lol/league/v4/entries/by-puuid/%s", strings.ToLower(region), puuid)
	entries, err := doRequest[[]LeagueEntry](ctx, c, url)
	if err != nil {
		return nil, err
	}
	return *entries, nil
}

// GetMatch fetches the full post-game record for a completed match.
func (c *Client) GetMatch(ctx context.Context, region, matchID string) (*Match, error) {
	url := fmt.Sprintf("https://%s.api.riotgames.com/lol/match/v5/matches/%s", regionalCluster(region), matchID)
	return doRequest[Match](ctx, c, url)
}

// GetAccount resolves the current riot id (game name + tag line) for a puuid.
func (c *Client) GetAccount(ctx context.Context, region, puuid string) (*Account, error) {
	url := fmt.Sprintf("https://%s.api.riotgames.com/riot/account/v1/accounts/by-puuid/%s", regionalCluster(region), puuid)
	return doRequest[Account](ctx, c, url)
}

func doRequest[T any](ctx context.Context, client *Client, url string) (*T, error) {
	if err := client.appLimiter.Wait(ctx); err != nil {
		return nil, err
	}
	if err := client.methodLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("X-Riot-Token", client.apiKey)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := client.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	switch resp.StatusCode() {
	case fasthttp.StatusOK:
	case fasthttp.StatusNotFound:
		return nil, ErrNotFound
	case fasthttp.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		return nil, &StatusError{Code: resp.StatusCode()}
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type ActiveGameInfo struct {
	GameID            int64                   `json:"gameId"`
	GameQueueConfigID int64                   `json:"gameQueueConfigId"`
	PlatformID        string                  `json:"platformId"`
	GameStartTime     int64                   `json:"gameStartTime"`
	Participants      []ActiveGameParticipant `json:"participants"`
}

type ActiveGameParticipant struct {
	Puuid        string `json:"puuid"`
	SummonerName string `json:"summonerName"`
	RiotID       string `json:"riotId"`
	ChampionID   int    `json:"championId"`
	Spell1ID     int    `json:"spell1Id"`
	Spell2ID     int    `json:"spell2Id"`
	TeamID       int    `json:"teamId"`
}

type LeagueEntry struct {
	QueueType    string `json:"queueType"`
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

type Account struct {
	Puuid    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

type Match struct {
	Info MatchInfo `json:"info"`
}

type MatchInfo struct {
	GameDuration int64              `json:"gameDuration"`
	QueueID      int                `json:"queueId"`
	Participants []MatchParticipant `json:"participants"`
	Teams        []MatchTeam        `json:"teams"`
}

type MatchParticipant struct {
	Puuid      string `json:"puuid"`
	ChampionID int    `json:"championId"`
	TeamID     int    `json:"teamId"`
	Kills      int    `json:"kills"`
	Deaths     int    `json:"deaths"`
	Assists    int    `json:"assists"`
	Win        bool   `json:"win"`
}

type MatchTeam struct {
	TeamID int  `json:"teamId"`
	Win    bool `json:"win"`
}

package twitch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"bootcamp-tracker/internal/config"

	"github.com/valyala/fasthttp"
)

// Client is a minimal Helix client used by the stream-liveness poller.
type Client struct {
	clientID string
	token    string
	client   *fasthttp.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		clientID: cfg.TwitchClientID,
		token:    cfg.TwitchToken,
		client: &fasthttp.Client{
			MaxConnsPerHost:     20,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

// Configured reports whether Helix credentials were provided; when they
// were not, the stream poller is a no-op.
func (c *Client) Configured() bool {
	return c.clientID != "" && c.token != ""
}

type Stream struct {
	UserLogin string    `json:"user_login"`
	Type      string    `json:"type"`
	StartedAt time.Time `json:"started_at"`
}

type streamsResponse struct {
	Data []Stream `json:"data"`
}

// GetStreams returns the currently-live streams among the given logins.
// Offline streamers are simply absent from the result.
func (c *Client) GetStreams(ctx context.Context, logins []string) ([]Stream, error) {
	if len(logins) == 0 {
		return nil, nil
	}

	q := url.Values{}
	for _, login := range logins {
		q.Add("user_login", login)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI("https://api.twitch.tv/helix/streams?" + q.Encode())
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Client-Id", c.clientID)
	req.Header.Set("Authorization", "Bearer "+c.token)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := c.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("twitch: API error: %d", resp.StatusCode())
	}

	var result streamsResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

package meraki

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
)

const championRatesURL = "https://cdn.merakianalytics.com/riot/lol/resources/latest/en-US/championrates.json"

// Client fetches the community champion-playrate feed.
type Client struct {
	client *fasthttp.Client
}

func NewClient() *Client {
	return &Client{
		client: &fasthttp.Client{
			MaxConnsPerHost: 2,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
		},
	}
}

// RoleRates is the per-role play frequency for one champion, in percent.
type RoleRates struct {
	Top     Rate `json:"TOP"`
	Jungle  Rate `json:"JUNGLE"`
	Middle  Rate `json:"MIDDLE"`
	Bottom  Rate `json:"BOTTOM"`
	Utility Rate `json:"UTILITY"`
}

type Rate struct {
	PlayRate float64 `json:"playRate"`
}

type championRatesResponse struct {
	Data map[string]RoleRates `json:"data"`
}

// GetChampionRates returns playrates keyed by champion id (the feed keys
// champions by their numeric id rendered as a string).
func (c *Client) GetChampionRates(ctx context.Context) (map[string]RoleRates, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(championRatesURL)
	req.Header.SetMethod(fasthttp.MethodGet)

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
		return nil, fmt.Errorf("meraki: API error: %d", resp.StatusCode())
	}

	var result championRatesResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

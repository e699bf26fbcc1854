package nbastats

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Config controls how the client reaches the stats API.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	// MinInterval spaces successive calls; all endpoints share one token
	// bucket so aggregate call rate stays under the upstream ceiling.
	MinInterval time.Duration
}

// Client fetches tabular result sets from the NBA stats API. All calls pass
// through a shared rate limiter before touching the network.
type Client struct {
	baseURL    string
	httpClient httpDoer
	pacer      *rate.Limiter
}

// NewClient constructs a stats client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
		pacer:      resolvePacer(cfg.MinInterval),
	}
}

// LeagueGames returns one row per (game, team) for the season.
func (c *Client) LeagueGames(ctx context.Context, season string) (*ResultTable, error) {
	params := url.Values{}
	params.Set("Season", season)
	params.Set("SeasonType", SeasonTypeRegular)
	params.Set("LeagueID", LeagueID)
	params.Set("PlayerOrTeam", "T")
	return c.fetchTable(ctx, endpointLeagueGameFinder, params, setGameFinderResults)
}

// BoxScoreTraditional returns the player and team stat tables for a game.
func (c *Client) BoxScoreTraditional(ctx context.Context, gameID string) (players, teams *ResultTable, err error) {
	return c.fetchBoxScore(ctx, endpointBoxTraditional, gameID)
}

// BoxScoreAdvanced returns the advanced player and team stat tables for a game.
func (c *Client) BoxScoreAdvanced(ctx context.Context, gameID string) (players, teams *ResultTable, err error) {
	return c.fetchBoxScore(ctx, endpointBoxAdvanced, gameID)
}

// LeagueStandings returns the current standings table for the season.
func (c *Client) LeagueStandings(ctx context.Context, season string) (*ResultTable, error) {
	params := url.Values{}
	params.Set("LeagueID", LeagueID)
	params.Set("Season", season)
	params.Set("SeasonType", SeasonTypeRegular)
	return c.fetchTable(ctx, endpointLeagueStandings, params, setStandings)
}

// ShotChart returns one row per shot attempt for a player in a game.
func (c *Client) ShotChart(ctx context.Context, teamID, playerID int64, gameID, season string) (*ResultTable, error) {
	params := url.Values{}
	params.Set("TeamID", strconv.FormatInt(teamID, 10))
	params.Set("PlayerID", strconv.FormatInt(playerID, 10))
	params.Set("GameID", gameID)
	params.Set("Season", season)
	params.Set("SeasonType", SeasonTypeRegular)
	params.Set("ContextMeasure", "FGA")
	return c.fetchTable(ctx, endpointShotChart, params, setShotChartDetail)
}

// CommonAllPlayers returns the current-season player roster table.
func (c *Client) CommonAllPlayers(ctx context.Context, season string) (*ResultTable, error) {
	params := url.Values{}
	params.Set("LeagueID", LeagueID)
	params.Set("Season", season)
	params.Set("IsOnlyCurrentSeason", "1")
	return c.fetchTable(ctx, endpointCommonAllPlayers, params, setCommonAllPlayers)
}

// CommonPlayerInfo returns the biographical table for one player.
func (c *Client) CommonPlayerInfo(ctx context.Context, playerID int64) (*ResultTable, error) {
	params := url.Values{}
	params.Set("PlayerID", strconv.FormatInt(playerID, 10))
	params.Set("LeagueID", LeagueID)
	return c.fetchTable(ctx, endpointPlayerInfo, params, setCommonPlayerInfo)
}

func (c *Client) fetchBoxScore(ctx context.Context, endpoint, gameID string) (players, teams *ResultTable, err error) {
	params := url.Values{}
	params.Set("GameID", gameID)
	params.Set("StartPeriod", "0")
	params.Set("EndPeriod", "10")
	params.Set("StartRange", "0")
	params.Set("EndRange", "28800")
	params.Set("RangeType", "0")

	resp, err := c.get(ctx, endpoint, params)
	if err != nil {
		return nil, nil, err
	}
	players, ok := resp.table(setPlayerStats)
	if !ok {
		return nil, nil, &APIError{Endpoint: endpoint, Message: fmt.Sprintf("result set %q missing", setPlayerStats)}
	}
	teams, ok = resp.table(setTeamStats)
	if !ok {
		return nil, nil, &APIError{Endpoint: endpoint, Message: fmt.Sprintf("result set %q missing", setTeamStats)}
	}
	return players, teams, nil
}

func (c *Client) fetchTable(ctx context.Context, endpoint string, params url.Values, setName string) (*ResultTable, error) {
	resp, err := c.get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	table, ok := resp.table(setName)
	if !ok {
		return nil, &APIError{Endpoint: endpoint, Message: fmt.Sprintf("result set %q missing", setName)}
	}
	return table, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (*statsResponse, error) {
	if err := c.pacer.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = params.Encode()
	setBrowserHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, wrapCallError(endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &APIError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	var payload statsResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&payload); decodeErr != nil {
		return nil, &APIError{Endpoint: endpoint, Message: "malformed payload", Err: decodeErr}
	}
	return &payload, nil
}

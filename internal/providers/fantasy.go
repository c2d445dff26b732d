package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// FantasyClient fetches season data from the official fantasy-game API.
// Calls are rate limited and wrapped in a circuit breaker; failures are
// retryable by the caller and never reach the projection engine, which
// only ever reads the last good snapshot.
type FantasyClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	logger     *logrus.Logger
}

func NewFantasyClient(baseURL string, timeout time.Duration, requestsPerSecond int, breakerThreshold int, logger *logrus.Logger) *FantasyClient {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 5
	}
	settings := gobreaker.Settings{
		Name:    "fantasy-api",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(breakerThreshold)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnf("Circuit breaker %s: %s -> %s", name, from, to)
		},
	}
	return &FantasyClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		breaker:    gobreaker.NewCircuitBreaker(settings),
		logger:     logger,
	}
}

// Bootstrap payload structures (subset of the upstream response).

type BootstrapResponse struct {
	Teams    []BootstrapTeam    `json:"teams"`
	Elements []BootstrapElement `json:"elements"`
}

type BootstrapTeam struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	ShortName    string `json:"short_name"`
	Played       int    `json:"played"`
	GoalsFor     int    `json:"goals_for"`
	GoalsAgainst int    `json:"goals_against"`
}

type BootstrapElement struct {
	ID                       int    `json:"id"`
	WebName                  string `json:"web_name"`
	ElementType              int    `json:"element_type"` // 1 GK, 2 DEF, 3 MID, 4 FWD
	Team                     int    `json:"team"`
	NowCost                  int    `json:"now_cost"` // tenths of a million
	TotalPoints              int    `json:"total_points"`
	Minutes                  int    `json:"minutes"`
	GoalsScored              int    `json:"goals_scored"`
	Assists                  int    `json:"assists"`
	CleanSheets              int    `json:"clean_sheets"`
	Bonus                    int    `json:"bonus"`
	ChanceOfPlayingNextRound *int   `json:"chance_of_playing_next_round"`
	ICTIndex                 string `json:"ict_index"`
	SelectedByPercent        string `json:"selected_by_percent"`
	ExpectedGoalsPer90       string `json:"expected_goals_per_90"`
	ExpectedAssistsPer90     string `json:"expected_assists_per_90"`
}

type FixtureResponse struct {
	ID              int    `json:"id"`
	Event           int    `json:"event"`
	TeamH           int    `json:"team_h"`
	TeamA           int    `json:"team_a"`
	TeamHDifficulty int    `json:"team_h_difficulty"`
	TeamADifficulty int    `json:"team_a_difficulty"`
	Finished        bool   `json:"finished"`
	KickoffTime     string `json:"kickoff_time"`
}

type ElementSummaryResponse struct {
	History []ElementHistoryEntry `json:"history"`
}

type ElementHistoryEntry struct {
	Round           int    `json:"round"`
	Minutes         int    `json:"minutes"`
	TotalPoints     int    `json:"total_points"`
	OpponentTeam    int    `json:"opponent_team"`
	WasHome         bool   `json:"was_home"`
	GoalsScored     int    `json:"goals_scored"`
	Assists         int    `json:"assists"`
	CleanSheets     int    `json:"clean_sheets"`
	Bonus           int    `json:"bonus"`
	ExpectedGoals   string `json:"expected_goals"`
	ExpectedAssists string `json:"expected_assists"`
}

// GetBootstrap fetches the season-wide team and player data.
func (c *FantasyClient) GetBootstrap(ctx context.Context) (*BootstrapResponse, error) {
	var resp BootstrapResponse
	if err := c.getJSON(ctx, "/bootstrap-static/", &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch bootstrap data: %w", err)
	}
	return &resp, nil
}

// GetFixtures fetches the full fixture list.
func (c *FantasyClient) GetFixtures(ctx context.Context) ([]FixtureResponse, error) {
	var resp []FixtureResponse
	if err := c.getJSON(ctx, "/fixtures/", &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch fixtures: %w", err)
	}
	return resp, nil
}

// GetElementSummary fetches a player's per-match history.
func (c *FantasyClient) GetElementSummary(ctx context.Context, playerID int) (*ElementSummaryResponse, error) {
	var resp ElementSummaryResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/element-summary/%d/", playerID), &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch history for player %d: %w", playerID, err)
	}
	return &resp, nil
}

func (c *FantasyClient) getJSON(ctx context.Context, path string, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	_, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
		}

		return nil, json.NewDecoder(resp.Body).Decode(dest)
	})
	return err
}

// ParseAPIFloat converts the API's stringly-typed decimal fields. Bad
// values become zero rather than an error; a missing rate is a normal
// data gap.
func ParseAPIFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

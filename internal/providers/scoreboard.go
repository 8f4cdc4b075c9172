package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/sharpline/trend-engine/internal/models"
)

// ScheduleProvider fetches today's scheduled games for one sport.
type ScheduleProvider interface {
	Schedule(ctx context.Context, date time.Time, sport models.Sport) ([]models.ScheduledGame, error)
}

// sportPaths maps sport tags onto the scoreboard API's league paths.
var sportPaths = map[models.Sport]string{
	models.SportNFL: "football/nfl",
	models.SportNBA: "basketball/nba",
	models.SportMLB: "baseball/mlb",
	models.SportNHL: "hockey/nhl",
}

// ScoreboardClient reads a public ESPN-style scoreboard feed. Requests are
// rate limited and routed through a circuit breaker; a tripped breaker
// surfaces as an error, never as partial data.
type ScoreboardClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	logger     *logrus.Logger
}

// NewScoreboardClient creates a scoreboard client.
func NewScoreboardClient(baseURL string, rps int, timeout, breakerWindow time.Duration, logger *logrus.Logger) *ScoreboardClient {
	settings := gobreaker.Settings{
		Name:    "scoreboard",
		Timeout: breakerWindow,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"component": "circuit_breaker",
				"service":   name,
				"from":      from.String(),
				"to":        to.String(),
			}).Info("Circuit breaker state changed")
		},
	}

	return &ScoreboardClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

// Scoreboard API response structures
type scoreboardResponse struct {
	Events []struct {
		ID           string `json:"id"`
		Date         string `json:"date"`
		Status       struct {
			Type struct {
				State     string `json:"state"` // "pre", "in", "post"
				Completed bool   `json:"completed"`
			} `json:"type"`
		} `json:"status"`
		Competitions []struct {
			Competitors []struct {
				HomeAway string `json:"homeAway"`
				Team     struct {
					DisplayName string `json:"displayName"`
					Name        string `json:"name"`
				} `json:"team"`
				Records []struct {
					Type    string `json:"type"`
					Summary string `json:"summary"`
				} `json:"records"`
			} `json:"competitors"`
		} `json:"competitions"`
	} `json:"events"`
}

// Schedule fetches the slate for one date and sport. The date is interpreted
// in the provider's fixed schedule time zone by the caller; this client only
// formats it.
func (c *ScoreboardClient) Schedule(ctx context.Context, date time.Time, sport models.Sport) ([]models.ScheduledGame, error) {
	path, ok := sportPaths[sport]
	if !ok {
		return nil, fmt.Errorf("no scoreboard path for sport %q", sport)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/scoreboard?%s", c.baseURL, path, url.Values{
		"dates": []string{date.Format("20060102")},
	}.Encode())

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, endpoint)
	})
	if err != nil {
		return nil, fmt.Errorf("scoreboard fetch failed: %w", err)
	}

	resp := result.(*scoreboardResponse)
	return c.parseGames(resp, sport), nil
}

func (c *ScoreboardClient) fetch(ctx context.Context, endpoint string) (*scoreboardResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scoreboard returned status %d", resp.StatusCode)
	}

	var parsed scoreboardResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode scoreboard response: %w", err)
	}
	return &parsed, nil
}

func (c *ScoreboardClient) parseGames(resp *scoreboardResponse, sport models.Sport) []models.ScheduledGame {
	games := make([]models.ScheduledGame, 0, len(resp.Events))
	for _, event := range resp.Events {
		if len(event.Competitions) == 0 {
			continue
		}

		game := models.ScheduledGame{
			ID:     event.ID,
			Sport:  sport,
			Status: parseStatus(event.Status.Type.State, event.Status.Type.Completed),
		}
		if kickoff, err := time.Parse("2006-01-02T15:04Z", event.Date); err == nil {
			game.Kickoff = kickoff
		} else if kickoff, err := time.Parse(time.RFC3339, event.Date); err == nil {
			game.Kickoff = kickoff
		}

		for _, comp := range event.Competitions[0].Competitors {
			info := models.TeamInfo{Name: comp.Team.DisplayName}
			for _, rec := range comp.Records {
				if rec.Type == "total" {
					info.Record = rec.Summary
					break
				}
			}
			switch comp.HomeAway {
			case "home":
				game.HomeTeam = info
			case "away":
				game.AwayTeam = info
			}
		}

		if game.HomeTeam.Name == "" || game.AwayTeam.Name == "" {
			c.logger.WithField("event_id", event.ID).Warn("Skipping scoreboard event with missing competitors")
			continue
		}
		games = append(games, game)
	}
	return games
}

func parseStatus(state string, completed bool) models.GameStatus {
	switch {
	case completed || state == "post":
		return models.StatusFinal
	case state == "in":
		return models.StatusLive
	default:
		return models.StatusScheduled
	}
}

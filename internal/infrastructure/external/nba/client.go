// Package nba implements the HTTP client for the upstream NBA stats source.
// It exposes the scoreboard for game discovery and the two box-score feeds
// as tagged raw rows for the normalizer.
package nba

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/courtpulse/courtpulse/internal/domain/games"
	"github.com/courtpulse/courtpulse/internal/domain/stats"
	"github.com/courtpulse/courtpulse/pkg/retry"
	"github.com/courtpulse/courtpulse/pkg/timeutil"
)

// Client talks to the upstream stats source. All calls retry transient
// failures with backoff; a response that exhausts retries surfaces as an
// error the caller can attribute to one game or one date.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retrier    *retry.Retrier
	logger     *slog.Logger
}

// NewClient creates a Client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		retrier:    retry.StatsAPIRetrier(),
		logger:     logger,
	}
}

// GamesOn implements games.Scoreboard for one Eastern calendar date.
func (c *Client) GamesOn(ctx context.Context, date time.Time) ([]games.Game, error) {
	day := timeutil.GameDate(date)
	endpoint := fmt.Sprintf("%s/scoreboard?date=%s", c.baseURL, url.QueryEscape(day))

	var resp scoreboardResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("scoreboard %s: %w", day, err)
	}

	result := make([]games.Game, 0, len(resp.Games))
	for _, g := range resp.Games {
		result = append(result, games.Game{
			ID:         g.GameID,
			Date:       day,
			StatusID:   g.GameStatusID,
			StatusText: g.GameStatusText,
		})
	}
	return result, nil
}

// CompletedBoxscore fetches the historical box score for a finished game and
// returns its player rows tagged with the completed schema.
func (c *Client) CompletedBoxscore(ctx context.Context, gameID string) ([]stats.RawRow, error) {
	endpoint := fmt.Sprintf("%s/boxscore/%s", c.baseURL, url.PathEscape(gameID))

	var resp boxscoreResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("boxscore %s: %w", gameID, err)
	}

	rows := make([]stats.RawRow, 0, len(resp.PlayerStats))
	for _, fields := range resp.PlayerStats {
		rows = append(rows, stats.RawRow{Schema: stats.SchemaCompleted, Fields: fields})
	}
	return rows, nil
}

// LiveBoxscore fetches the live box score for a game in progress. Only
// players with upstream status ACTIVE are returned; the live feed lists the
// whole roster including inactives.
func (c *Client) LiveBoxscore(ctx context.Context, gameID string) ([]stats.RawRow, error) {
	endpoint := fmt.Sprintf("%s/boxscore/%s/live", c.baseURL, url.PathEscape(gameID))

	var resp liveBoxscoreResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("live boxscore %s: %w", gameID, err)
	}

	var rows []stats.RawRow
	for _, team := range []liveTeam{resp.Game.HomeTeam, resp.Game.AwayTeam} {
		for _, p := range team.Players {
			if p.Status != "ACTIVE" {
				continue
			}
			fields := map[string]any{
				"firstName":   p.FirstName,
				"familyName":  p.FamilyName,
				"teamTricode": team.TeamTricode,
				"statistics":  p.Statistics,
			}
			rows = append(rows, stats.RawRow{Schema: stats.SchemaLive, Fields: fields})
		}
	}
	return rows, nil
}

// getJSON performs a GET with retries and decodes the body into out.
// Server errors, throttling (429), request timeouts (408) and transport
// errors retry with backoff; other 4xx responses fail immediately.
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	return c.retrier.Do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return retry.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn("stats request failed", slog.String("url", endpoint), slog.Any("error", err))
			return retry.Retryable(err)
		}
		defer resp.Body.Close()

		switch {
		case isTransientStatus(resp.StatusCode):
			io.Copy(io.Discard, resp.Body)
			c.logger.Warn("stats request transient failure",
				slog.String("url", endpoint), slog.Int("status", resp.StatusCode))
			return retry.Retryable(fmt.Errorf("status %d", resp.StatusCode))
		case resp.StatusCode != http.StatusOK:
			return retry.Permanent(fmt.Errorf("status %d", resp.StatusCode))
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return retry.Permanent(fmt.Errorf("decode response: %w", err))
		}
		return nil
	})
}

// isTransientStatus reports whether a response code is worth retrying. The
// upstream rate limiter answers 429 under load; backing off and retrying is
// the expected client behavior.
func isTransientStatus(code int) bool {
	return code >= 500 ||
		code == http.StatusTooManyRequests ||
		code == http.StatusRequestTimeout
}

package nba

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtpulse/courtpulse/internal/domain/games"
	"github.com/courtpulse/courtpulse/internal/domain/stats"
	"github.com/courtpulse/courtpulse/pkg/retry"
	"github.com/courtpulse/courtpulse/pkg/timeutil"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, 5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	// Fast retries keep failure-path tests quick.
	c.retrier = retry.New(
		retry.WithMaxAttempts(3),
		retry.WithInitialDelay(time.Millisecond),
		retry.WithMaxDelay(5*time.Millisecond),
	)
	return c
}

func TestGamesOn(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/scoreboard", r.URL.Path)
		assert.Equal(t, "2025-03-15", r.URL.Query().Get("date"))
		w.Write([]byte(`{"games":[
			{"gameId":"0022400901","gameStatusId":3,"gameStatusText":"Final"},
			{"gameId":"0022400902","gameStatusId":2,"gameStatusText":"Q2 4:11"}
		]}`))
	}))

	date := time.Date(2025, 3, 15, 12, 0, 0, 0, timeutil.EasternTZ)
	got, err := client.GamesOn(context.Background(), date)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "0022400901", got[0].ID)
	assert.Equal(t, games.StatusFinal, got[0].Status())
	assert.Equal(t, games.StatusLive, got[1].Status())
	assert.Equal(t, "2025-03-15", got[0].Date)
}

func TestCompletedBoxscore(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/boxscore/0022400901", r.URL.Path)
		w.Write([]byte(`{"playerStats":[
			{"PLAYER_NAME":"Jayson Tatum","TEAM_ABBREVIATION":"BOS","MIN":"36:45","PTS":31}
		]}`))
	}))

	rows, err := client.CompletedBoxscore(context.Background(), "0022400901")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, stats.SchemaCompleted, rows[0].Schema)
	assert.Equal(t, "Jayson Tatum", rows[0].Fields["PLAYER_NAME"])
}

func TestLiveBoxscoreFiltersInactivePlayers(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/boxscore/0022400902/live", r.URL.Path)
		w.Write([]byte(`{"game":{
			"homeTeam":{"teamTricode":"DAL","players":[
				{"status":"ACTIVE","firstName":"Luka","familyName":"Doncic","statistics":{"minutes":"PT17M14.00S","points":21}},
				{"status":"INACTIVE","firstName":"Injured","familyName":"Guy","statistics":{}}
			]},
			"awayTeam":{"teamTricode":"PHX","players":[
				{"status":"ACTIVE","firstName":"Devin","familyName":"Booker","statistics":{"minutes":"PT15M02.00S","points":18}}
			]}
		}}`))
	}))

	rows, err := client.LiveBoxscore(context.Background(), "0022400902")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, stats.SchemaLive, rows[0].Schema)
	assert.Equal(t, "DAL", rows[0].Fields["teamTricode"])
	assert.Equal(t, "PHX", rows[1].Fields["teamTricode"])
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"games":[]}`))
	}))

	_, err := client.GamesOn(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientRetriesRateLimiting(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"games":[]}`))
	}))

	got, err := client.GamesOn(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClientRetriesRequestTimeout(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusRequestTimeout)
			return
		}
		w.Write([]byte(`{"playerStats":[]}`))
	}))

	_, err := client.CompletedBoxscore(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.CompletedBoxscore(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClientFailsAfterExhaustingRetries(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.GamesOn(context.Background(), time.Now())
	require.Error(t, err)
	assert.ErrorContains(t, err, "status 500")
}

package games

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtpulse/courtpulse/pkg/timeutil"
)

type fakeScoreboard struct {
	byDate    map[string][]Game
	err       error
	errByDate map[string]error
	calls     []string
}

func (f *fakeScoreboard) GamesOn(_ context.Context, date time.Time) ([]Game, error) {
	key := timeutil.GameDate(date)
	f.calls = append(f.calls, key)
	if err, ok := f.errByDate[key]; ok {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.byDate[key], nil
}

func newTestDiscovery(sb *fakeScoreboard) *Discovery {
	d := NewDiscovery(sb, slog.New(slog.NewTextHandler(io.Discard, nil)))
	d.now = func() time.Time {
		return time.Date(2025, 3, 15, 21, 0, 0, 0, timeutil.EasternTZ)
	}
	return d
}

func TestGameStatus(t *testing.T) {
	tests := []struct {
		name string
		game Game
		want Status
	}{
		{name: "live by status id", game: Game{StatusID: 2, StatusText: "Q3 5:21"}, want: StatusLive},
		{name: "final", game: Game{StatusID: 3, StatusText: "Final"}, want: StatusFinal},
		{name: "finished variant", game: Game{StatusText: "Finished"}, want: StatusFinal},
		{name: "complete variant", game: Game{StatusText: "Complete"}, want: StatusFinal},
		{name: "scheduled", game: Game{StatusID: 1, StatusText: "7:30 pm ET"}, want: StatusScheduled},
		{name: "unknown text is scheduled", game: Game{StatusText: "Postponed"}, want: StatusScheduled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.game.Status())
		})
	}
}

func TestCompletedGamesScansBothDays(t *testing.T) {
	sb := &fakeScoreboard{byDate: map[string][]Game{
		"2025-03-14": {
			{ID: "001", StatusText: "Final"},
			{ID: "002", StatusID: 2},
		},
		"2025-03-15": {
			{ID: "003", StatusText: "Finished"},
			{ID: "004", StatusText: "8:00 pm ET"},
		},
	}}

	got, err := newTestDiscovery(sb).CompletedGames(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "001", got[0].ID)
	assert.Equal(t, "003", got[1].ID)
	assert.Equal(t, []string{"2025-03-14", "2025-03-15"}, sb.calls)
}

func TestLiveGamesExcludesScheduled(t *testing.T) {
	sb := &fakeScoreboard{byDate: map[string][]Game{
		"2025-03-15": {
			{ID: "101", StatusID: 2},
			{ID: "102", StatusText: "9:00 pm ET"},
		},
	}}

	got, err := newTestDiscovery(sb).LiveGames(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "101", got[0].ID)
}

func TestLiveGamesEmptyWhenOnlyScheduled(t *testing.T) {
	sb := &fakeScoreboard{byDate: map[string][]Game{
		"2025-03-15": {
			{ID: "201", StatusText: "7:00 pm ET"},
			{ID: "202", StatusText: "9:30 pm ET"},
		},
	}}

	got, err := newTestDiscovery(sb).LiveGames(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDiscoverySkipsFailingDay(t *testing.T) {
	// Yesterday's scoreboard is down; today's games still come through.
	sb := &fakeScoreboard{
		errByDate: map[string]error{"2025-03-14": errors.New("upstream 500")},
		byDate: map[string][]Game{
			"2025-03-15": {
				{ID: "301", StatusText: "Final"},
				{ID: "302", StatusID: 2},
			},
		},
	}
	d := newTestDiscovery(sb)

	completed, err := d.CompletedGames(context.Background())
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "301", completed[0].ID)

	live, err := d.LiveGames(context.Background())
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, "302", live[0].ID)
}

func TestDiscoveryFailsWhenAllDaysError(t *testing.T) {
	sb := &fakeScoreboard{err: errors.New("upstream down")}
	d := newTestDiscovery(sb)

	_, err := d.CompletedGames(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "upstream down")

	_, err = d.LiveGames(context.Background())
	require.Error(t, err)
}

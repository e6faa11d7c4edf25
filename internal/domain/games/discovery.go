package games

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/courtpulse/courtpulse/pkg/timeutil"
)

// Scoreboard lists the games scheduled for one Eastern calendar date.
type Scoreboard interface {
	GamesOn(ctx context.Context, date time.Time) ([]Game, error)
}

// Discovery finds the games a refresh cycle should process. It holds no
// state between calls; every call re-derives from the scoreboard.
type Discovery struct {
	scoreboard Scoreboard
	logger     *slog.Logger
	now        func() time.Time
}

// NewDiscovery creates a Discovery backed by the given scoreboard.
func NewDiscovery(scoreboard Scoreboard, logger *slog.Logger) *Discovery {
	return &Discovery{
		scoreboard: scoreboard,
		logger:     logger,
		now:        timeutil.Now,
	}
}

// CompletedGames returns the finished games from yesterday and today.
// Overnight games land on yesterday's scoreboard date, so both days are
// always scanned. A scoreboard failure for one date costs only that date's
// games; the call fails only when every date errors.
func (d *Discovery) CompletedGames(ctx context.Context) ([]Game, error) {
	var completed []Game
	var dayErrs []error
	for _, date := range timeutil.DateWindow(d.now()) {
		dayGames, err := d.scanDay(ctx, date, &dayErrs)
		if err != nil {
			continue
		}
		for _, g := range dayGames {
			if g.Status() == StatusFinal {
				completed = append(completed, g)
			}
		}
	}
	if len(dayErrs) == len(timeutil.DateWindow(d.now())) {
		return nil, fmt.Errorf("discover completed games: %w", errors.Join(dayErrs...))
	}
	return completed, nil
}

// LiveGames returns the games currently in progress across today and
// yesterday, skipping a date whose scoreboard fetch fails. When nothing is
// live, any scheduled games are logged as a diagnostic but never returned;
// the caller sees an empty slice.
func (d *Discovery) LiveGames(ctx context.Context) ([]Game, error) {
	var live, scheduled []Game
	var dayErrs []error
	for _, date := range timeutil.DateWindow(d.now()) {
		dayGames, err := d.scanDay(ctx, date, &dayErrs)
		if err != nil {
			continue
		}
		for _, g := range dayGames {
			switch g.Status() {
			case StatusLive:
				live = append(live, g)
			case StatusScheduled:
				scheduled = append(scheduled, g)
			}
		}
	}
	if len(dayErrs) == len(timeutil.DateWindow(d.now())) {
		return nil, fmt.Errorf("discover live games: %w", errors.Join(dayErrs...))
	}

	if len(live) == 0 && len(scheduled) > 0 {
		d.logger.Debug("no live games, upcoming games on the board",
			slog.Int("scheduled_count", len(scheduled)))
	}
	return live, nil
}

// scanDay fetches one date's scoreboard, logging and collecting the error
// so the caller can keep scanning the remaining dates.
func (d *Discovery) scanDay(ctx context.Context, date time.Time, dayErrs *[]error) ([]Game, error) {
	dayGames, err := d.scoreboard.GamesOn(ctx, date)
	if err != nil {
		day := timeutil.GameDate(date)
		d.logger.Warn("scoreboard fetch failed, skipping day",
			slog.String("date", day), slog.Any("error", err))
		*dayErrs = append(*dayErrs, fmt.Errorf("%s: %w", day, err))
		return nil, err
	}
	return dayGames, nil
}

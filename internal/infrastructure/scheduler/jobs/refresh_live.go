package jobs

import (
	"context"
	"errors"

	"github.com/courtpulse/courtpulse/internal/domain/leaderboard"
	"github.com/courtpulse/courtpulse/internal/infrastructure/refresher"
)

// JobNameRefreshLive identifies the live-board refresh job.
const JobNameRefreshLive = "refresh_live"

// RefreshLiveJob refreshes the live-games leaderboard.
type RefreshLiveJob struct {
	refresher *refresher.Refresher
}

// NewRefreshLiveJob creates the job.
func NewRefreshLiveJob(r *refresher.Refresher) *RefreshLiveJob {
	return &RefreshLiveJob{refresher: r}
}

// Name returns the unique job name.
func (j *RefreshLiveJob) Name() string { return JobNameRefreshLive }

// Description returns a human-readable description.
func (j *RefreshLiveJob) Description() string {
	return "Refreshes the leaderboard from games currently in progress"
}

// Run executes one refresh cycle, treating an overlapping tick as a no-op.
func (j *RefreshLiveJob) Run(ctx context.Context) error {
	err := j.refresher.Refresh(ctx, leaderboard.ModeLive)
	if errors.Is(err, refresher.ErrAlreadyRunning) {
		return nil
	}
	return err
}

// Package jobs contains the scheduled jobs of the CourtPulse worker.
package jobs

import (
	"context"
	"errors"

	"github.com/courtpulse/courtpulse/internal/domain/leaderboard"
	"github.com/courtpulse/courtpulse/internal/infrastructure/refresher"
)

// JobNameRefreshCompleted identifies the completed-board refresh job.
const JobNameRefreshCompleted = "refresh_completed"

// RefreshCompletedJob refreshes the completed-games leaderboard.
type RefreshCompletedJob struct {
	refresher *refresher.Refresher
}

// NewRefreshCompletedJob creates the job.
func NewRefreshCompletedJob(r *refresher.Refresher) *RefreshCompletedJob {
	return &RefreshCompletedJob{refresher: r}
}

// Name returns the unique job name.
func (j *RefreshCompletedJob) Name() string { return JobNameRefreshCompleted }

// Description returns a human-readable description.
func (j *RefreshCompletedJob) Description() string {
	return "Refreshes the leaderboard from recently completed games"
}

// Run executes one refresh cycle. A tick that lands while the previous
// cycle is still running counts as a successful no-op.
func (j *RefreshCompletedJob) Run(ctx context.Context) error {
	err := j.refresher.Refresh(ctx, leaderboard.ModeCompleted)
	if errors.Is(err, refresher.ErrAlreadyRunning) {
		return nil
	}
	return err
}

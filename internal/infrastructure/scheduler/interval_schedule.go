package scheduler

import (
	"fmt"
	"time"
)

// IntervalSchedule fires a fixed duration after each run starts. Both
// refresh cadences use it; the scheduler advances the clock at the start of
// a run, so a slow cycle never queues a duplicate behind itself.
type IntervalSchedule struct {
	Interval time.Duration
}

// NewIntervalSchedule creates a schedule that fires every interval.
func NewIntervalSchedule(interval time.Duration) *IntervalSchedule {
	return &IntervalSchedule{
		Interval: interval,
	}
}

// Next returns one interval after t.
func (s *IntervalSchedule) Next(t time.Time) time.Time {
	return t.Add(s.Interval)
}

// String renders the schedule for logs.
func (s *IntervalSchedule) String() string {
	return fmt.Sprintf("@every %s", s.Interval.String())
}

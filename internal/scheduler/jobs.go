package scheduler

import (
	"context"
	"time"
)

// BatchRecalculator recomputes every profile's snapshot.
type BatchRecalculator interface {
	RecalculateAll(ctx context.Context, force bool) error
}

// RecalculationJob periodically recomputes all wealth snapshots so they stay
// current even when no user triggers a recalculation.
type RecalculationJob struct {
	recalc  BatchRecalculator
	timeout time.Duration
}

// NewRecalculationJob creates the periodic recalculation job.
func NewRecalculationJob(recalc BatchRecalculator, timeout time.Duration) *RecalculationJob {
	return &RecalculationJob{recalc: recalc, timeout: timeout}
}

// Name implements Job.
func (j *RecalculationJob) Name() string {
	return "patrimony-recalculation"
}

// Run recomputes all profiles. The price cache decides for itself whether a
// refresh is due, so the job never forces one.
func (j *RecalculationJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	return j.recalc.RecalculateAll(ctx, false)
}

package index

import (
	"context"
	"errors"

	"github.com/kailas-cloud/memdex/internal/domain"
)

// StaleCheckJob rebuilds the index from a timer tick when it has gone stale.
// It shares the service's single rebuild guard with on-demand and
// query-observed triggers.
type StaleCheckJob struct {
	svc *Service
}

// NewStaleCheckJob creates the periodic freshness job.
func NewStaleCheckJob(svc *Service) *StaleCheckJob {
	return &StaleCheckJob{svc: svc}
}

// Name implements schedule.Job.
func (j *StaleCheckJob) Name() string { return "index_stale_check" }

// Run rebuilds when stale. A rebuild already in flight is not an error.
func (j *StaleCheckJob) Run(ctx context.Context) error {
	if !j.svc.IsStale() {
		return nil
	}
	if err := j.svc.Rebuild(ctx); err != nil && !errors.Is(err, domain.ErrRebuildInProgress) {
		return err
	}
	return nil
}

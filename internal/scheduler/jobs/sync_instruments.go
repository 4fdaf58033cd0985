package jobs

import (
	"context"
	"fmt"

	"github.com/zhongcheng0519/openstock/pkg/logger"
)

// InstrumentSyncer refreshes the full instrument roster.
type InstrumentSyncer interface {
	SyncInstruments(ctx context.Context) (int, error)
}

// SyncInstrumentsJob refreshes the instrument roster on a schedule so new
// listings show up in filter results without a manual sync call.
type SyncInstrumentsJob struct {
	syncer   InstrumentSyncer
	schedule string
	logger   *logger.Logger
}

// NewSyncInstrumentsJob creates a new instrument sync job.
func NewSyncInstrumentsJob(syncer InstrumentSyncer, schedule string, log *logger.Logger) *SyncInstrumentsJob {
	return &SyncInstrumentsJob{
		syncer:   syncer,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *SyncInstrumentsJob) Name() string {
	return "sync_instruments"
}

// Schedule returns the cron expression
func (j *SyncInstrumentsJob) Schedule() string {
	return j.schedule
}

// Run executes the instrument roster refresh
func (j *SyncInstrumentsJob) Run(ctx context.Context) error {
	count, err := j.syncer.SyncInstruments(ctx)
	if err != nil {
		return fmt.Errorf("instrument sync: %w", err)
	}

	j.logger.WithField("count", count).Info("Scheduled instrument sync completed")
	return nil
}

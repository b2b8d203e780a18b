package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/freightdesk/freightdesk/internal/observability"
	"github.com/freightdesk/freightdesk/internal/process"
)

// NewPeriodSweepHandler rolls expired storage periods forward. Loading the
// document performs and persists the sweep, so the handler only has to
// trigger it.
func NewPeriodSweepHandler(svc *process.Service, metrics *observability.Metrics, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		if _, err := svc.Document(ctx); err != nil {
			if logger != nil {
				logger.Error("period sweep", slog.Any("error", err))
			}
			metrics.ObserveJob(TaskTypePeriodSweep, "error")
			return err
		}
		if logger != nil {
			logger.Info("period sweep completed", slog.String("job", TaskTypePeriodSweep))
		}
		metrics.ObserveJob(TaskTypePeriodSweep, "ok")
		return nil
	}
}

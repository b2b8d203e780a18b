package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/freightdesk/freightdesk/internal/observability"
	"github.com/freightdesk/freightdesk/internal/process"
	"github.com/freightdesk/freightdesk/internal/report"
	"github.com/freightdesk/freightdesk/internal/shared"
)

// NewReportExportHandler renders a full process report to the export
// directory.
func NewReportExportHandler(svc *process.Service, generator *report.Generator, metrics *observability.Metrics, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload ReportExportPayload
		if len(t.Payload()) > 0 {
			if err := json.Unmarshal(t.Payload(), &payload); err != nil {
				return asynq.SkipRetry
			}
		}

		doc, err := svc.Document(ctx)
		if err != nil {
			metrics.ObserveJob(TaskTypeReportExport, "error")
			return err
		}
		records, err := svc.List(ctx, payload.Archived)
		if err != nil {
			metrics.ObserveJob(TaskTypeReportExport, "error")
			return err
		}

		rows := report.NewRows(records, false)
		artifact, err := generator.Generate(rows, doc.CompanyInfo, report.Options{Archived: payload.Archived})
		if err != nil {
			if errors.Is(err, shared.ErrNoData) {
				if logger != nil {
					logger.Info("report export skipped, no rows", slog.Bool("archived", payload.Archived))
				}
				metrics.ObserveJob(TaskTypeReportExport, "ok")
				return nil
			}
			metrics.ObserveJob(TaskTypeReportExport, "error")
			return err
		}
		if logger != nil {
			logger.Info("report exported",
				slog.String("file", artifact.Filename),
				slog.Int("rows", len(rows)),
				slog.Bool("archived", payload.Archived))
		}
		metrics.ObserveJob(TaskTypeReportExport, "ok")
		return nil
	}
}

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/freightdesk/freightdesk/internal/app"
	"github.com/freightdesk/freightdesk/internal/observability"
	"github.com/freightdesk/freightdesk/internal/process"
	"github.com/freightdesk/freightdesk/internal/report"
	"github.com/freightdesk/freightdesk/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	metrics := observability.NewMetrics()

	processRepo := process.NewRepository(cfg.DataPath, cfg.StatusPath)
	processService := process.NewService(processRepo, logger, metrics)
	generator := report.NewGenerator(cfg.ExportDir, logger, metrics)

	mailer := jobs.Mailer{Host: cfg.SMTPHost, Port: cfg.SMTPPort, From: cfg.SMTPFrom}

	exportTask, err := jobs.NewReportExportTask(jobs.ReportExportPayload{})
	if err != nil {
		logger.Error("build export task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypePeriodSweep, Handler: jobs.NewPeriodSweepHandler(processService, metrics, logger)},
			{Type: jobs.TaskTypeReportExport, Handler: jobs.NewReportExportHandler(processService, generator, metrics, logger)},
			{Type: jobs.TaskTypeSendEmail, Handler: jobs.NewSendEmailHandler(mailer, logger)},
			{Type: jobs.TaskTypeSendSMS, Handler: jobs.NewSendSMSHandler(logger)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 5 * * *", Task: jobs.NewPeriodSweepTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "30 5 * * 1", Task: exportTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}

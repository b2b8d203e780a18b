package jobs_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freightdesk/freightdesk/internal/observability"
	"github.com/freightdesk/freightdesk/internal/process"
	"github.com/freightdesk/freightdesk/internal/report"
	"github.com/freightdesk/freightdesk/jobs"
	_ "github.com/freightdesk/freightdesk/testing"
)

func newProcessService(t *testing.T) (*process.Service, string) {
	t.Helper()
	dir := t.TempDir()
	repo := process.NewRepository(filepath.Join(dir, "data.json"), filepath.Join(dir, "status.json"))
	return process.NewService(repo, nil, nil), dir
}

func TestPeriodSweepHandlerRollsExpiredPeriods(t *testing.T) {
	svc, _ := newProcessService(t)
	ctx := context.Background()

	today := process.Today()
	created, err := svc.Create(ctx, &process.Process{Ref: "SWEEP-1"}, "Admin")
	require.NoError(t, err)
	created.CurrentPeriodStart = today.AddDays(-45)
	created.CurrentPeriodExpiry = today.AddDays(-15)
	require.NoError(t, svc.Update(ctx, created, "Admin"))

	handler := jobs.NewPeriodSweepHandler(svc, observability.NewMetrics(), nil)
	require.NoError(t, handler(ctx, jobs.NewPeriodSweepTask()))

	p, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, p.CurrentPeriodExpiry.Before(today), "expiry should be rolled into the future")
}

func TestReportExportHandlerWritesArtifact(t *testing.T) {
	svc, dir := newProcessService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &process.Process{Ref: "EXPORT-1", Status: "Em andamento"}, "Admin")
	require.NoError(t, err)

	exportDir := filepath.Join(dir, "exports")
	generator := report.NewGenerator(exportDir, nil, nil)
	handler := jobs.NewReportExportHandler(svc, generator, observability.NewMetrics(), nil)

	task, err := jobs.NewReportExportTask(jobs.ReportExportPayload{})
	require.NoError(t, err)
	require.NoError(t, handler(ctx, task))

	entries, err := os.ReadDir(exportDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "processos"))
}

func TestReportExportHandlerSkipsEmptyStore(t *testing.T) {
	svc, dir := newProcessService(t)

	generator := report.NewGenerator(filepath.Join(dir, "exports"), nil, nil)
	handler := jobs.NewReportExportHandler(svc, generator, observability.NewMetrics(), nil)

	task, err := jobs.NewReportExportTask(jobs.ReportExportPayload{Archived: true})
	require.NoError(t, err)
	assert.NoError(t, handler(context.Background(), task))
}

func TestSendSMSHandlerDropsWithoutGateway(t *testing.T) {
	handler := jobs.NewSendSMSHandler(nil)
	task, err := jobs.NewSendSMSTask(jobs.SendSMSPayload{To: "+5511999999999", Message: "teste"})
	require.NoError(t, err)
	assert.NoError(t, handler(context.Background(), task))
}

func TestSendEmailHandlerSkipRetryOnBadPayload(t *testing.T) {
	handler := jobs.NewSendEmailHandler(jobs.Mailer{}, nil)
	task := asynq.NewTask(jobs.TaskTypeSendEmail, []byte("{not json"))
	err := handler(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypePeriodSweep is the task type for the storage period rollover
	// sweep.
	TaskTypePeriodSweep = "period:sweep"
	// TaskTypeReportExport is the task type for scheduled report exports.
	TaskTypeReportExport = "report:export"
	// TaskTypeSendEmail is the task type for sending transactional emails.
	TaskTypeSendEmail = "mail:send"
	// TaskTypeSendSMS is the task type for SMS notifications.
	TaskTypeSendSMS = "sms:send"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// SendSMSPayload describes the information required to send an SMS.
type SendSMSPayload struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

// NewSendSMSTask constructs an Asynq task.
func NewSendSMSTask(payload SendSMSPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendSMS, data), nil
}

// NewPeriodSweepTask constructs the periodic rollover sweep task.
func NewPeriodSweepTask() *asynq.Task {
	return asynq.NewTask(TaskTypePeriodSweep, nil)
}

// ReportExportPayload selects which rows a scheduled export covers.
type ReportExportPayload struct {
	Archived bool `json:"archived"`
}

// NewReportExportTask constructs a report export task.
func NewReportExportTask(payload ReportExportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeReportExport, data), nil
}

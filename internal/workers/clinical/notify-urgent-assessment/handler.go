// internal/workers/clinical/notify-urgent-assessment/handler.go
package notifyurgentassessment

import (
	"context"
	"encoding/json"
	"time"

	"woundcare-workers/internal/common/aws"
	"woundcare-workers/internal/common/errors"
	"woundcare-workers/internal/common/logger"
	"woundcare-workers/internal/common/metrics"
	"woundcare-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const TaskType = "notify-urgent-assessment"

const (
	SkippedDisabled   = "alerts disabled"
	SkippedNotUrgent  = "urgency below HIGH"
	alertOutcomeLabel = "published"
)

// Publisher sends one alert and returns the broker's message ID.
type Publisher interface {
	Publish(ctx context.Context, alert aws.Alert) (string, error)
}

type Handler struct {
	config     *Config
	publisher  Publisher
	errHandler *errors.ErrorHandler
	logger     logger.Logger
	newID      func() string
	now        func() time.Time
}

// NewHandler builds the handler. publisher may be nil when alerts are disabled.
func NewHandler(cfg *Config, publisher Publisher, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     cfg,
		publisher:  publisher,
		errHandler: errors.NewErrorHandler(scoped),
		logger:     scoped,
		newID:      uuid.NewString,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, errors.NewParseError(err), start)
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, err, start)
		return
	}
	h.completeJob(client, job, output, start)
}

// Execute publishes an alert for HIGH urgency assessments. Anything else
// completes without publishing and reports why.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Assessment.Urgency != models.UrgencyHigh {
		metrics.UrgentAlerts.WithLabelValues("not_urgent").Inc()
		return &Output{SkippedReason: SkippedNotUrgent}, nil
	}
	if !h.config.Enabled || h.publisher == nil {
		metrics.UrgentAlerts.WithLabelValues("disabled").Inc()
		h.logger.Warn("urgent assessment not alerted, alerts disabled", map[string]interface{}{
			"assessmentId": input.AssessmentID,
			"woundId":      input.WoundID,
		})
		return &Output{SkippedReason: SkippedDisabled}, nil
	}

	msg := AlertMessage{
		AlertID:          h.newID(),
		AssessmentID:     input.AssessmentID,
		PatientID:        input.PatientID,
		WoundID:          input.WoundID,
		RuleTable:        input.Assessment.RuleTable,
		Score:            input.Assessment.Score,
		Prognosis:        input.Assessment.Prognosis,
		Phase:            input.Assessment.Phase,
		Protocol:         input.Assessment.Protocol.Name,
		BiofilmSuspected: input.Assessment.BiofilmSuspected,
		Urgency:          input.Assessment.Urgency,
		RaisedAt:         h.now(),
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	messageID, err := h.publisher.Publish(ctx, aws.Alert{
		Subject:         h.config.Subject,
		Body:            string(body),
		GroupID:         input.WoundID,
		DeduplicationID: msg.AlertID,
		Attributes: map[string]string{
			"urgency":   string(msg.Urgency),
			"prognosis": msg.Prognosis,
			"phase":     msg.Phase,
		},
	})
	if err != nil {
		metrics.UrgentAlerts.WithLabelValues("error").Inc()
		return nil, errors.NewAlertPublishFailedError("sns", err).WithMetadata("assessmentId", input.AssessmentID)
	}

	metrics.UrgentAlerts.WithLabelValues(alertOutcomeLabel).Inc()
	h.logger.Info("urgent assessment alert published", map[string]interface{}{
		"alertId":      msg.AlertID,
		"messageId":    messageID,
		"assessmentId": input.AssessmentID,
		"woundId":      input.WoundID,
		"score":        msg.Score,
	})
	return &Output{AlertPublished: true, AlertID: msg.AlertID, AlertMessageID: messageID}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output, start time.Time) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.failJob(client, job, errors.NewInternalError(err), start)
		return
	}
	sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := cmd.Send(sendCtx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
		return
	}
	metrics.JobCompleted(TaskType, start)
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error, start time.Time) {
	metrics.JobFailed(TaskType, string(errors.Normalize(err).Code), start)
	h.errHandler.HandleJobError(context.Background(), client, job, err)
}

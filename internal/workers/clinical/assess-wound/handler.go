// internal/workers/clinical/assess-wound/handler.go
package assesswound

import (
	"context"
	"encoding/json"
	"time"

	"woundcare-workers/internal/clinical/assessment"
	"woundcare-workers/internal/common/errors"
	"woundcare-workers/internal/common/logger"
	"woundcare-workers/internal/common/metrics"
	"woundcare-workers/internal/common/observability"
	"woundcare-workers/internal/common/validation"
	"woundcare-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const TaskType = "assess-wound"

const commandTimeout = 10 * time.Second

type Dependencies struct {
	Engines       *assessment.Engines
	Observability *observability.Observability
}

type Handler struct {
	config     *Config
	engines    *assessment.Engines
	obs        *observability.Observability
	errHandler *errors.ErrorHandler
	logger     logger.Logger
	newID      func() string
}

func NewHandler(cfg *Config, deps Dependencies, log logger.Logger) *Handler {
	obs := deps.Observability
	if obs == nil {
		obs = observability.NewNoop()
	}
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     cfg,
		engines:    deps.Engines,
		obs:        obs,
		errHandler: errors.NewErrorHandler(scoped),
		logger:     scoped,
		newID:      uuid.NewString,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()
	ctx, span := h.obs.StartSpan(ctx, TaskType,
		attribute.Int64("zeebe.job_key", job.Key),
		attribute.Int64("zeebe.process_instance_key", job.ProcessInstanceKey),
	)
	defer span.End()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	input, err := h.parseInput(job)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid input")
		h.failJob(ctx, client, job, err, start)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "assessment failed")
		h.failJob(ctx, client, job, err, start)
		return
	}

	span.SetAttributes(
		attribute.Int("wound.score", output.Assessment.Score),
		attribute.String("wound.prognosis", string(output.Prognosis)),
		attribute.String("wound.urgency", string(output.Urgency)),
	)
	h.completeJob(ctx, client, job, output, start)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewParseError(err)
	}

	if result := validation.ValidateInput(variables, GetInputSchema()); !result.Valid {
		return nil, errors.NewInvalidAssessmentInputError(result.Error()).
			WithMetadata("validationErrors", result.GetErrorMessages())
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return nil, errors.NewParseError(err)
	}
	return &input, nil
}

// Execute assesses one wound observation.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	version := ""
	if h.config.AllowRuleTableOverride {
		version = input.RuleTable
	}
	engine, ok := h.engines.Get(version)
	if !ok {
		return nil, errors.NewRuleTableUnknownError(version).WithMetadata("woundId", input.WoundID)
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.NewAssessmentTimeoutError(err)
	}

	result := engine.Assess(assessment.Input{
		Parameters: input.Parameters,
		TissueType: input.TissueType,
	})

	if len(result.ScaleViolations) > 0 {
		violations := make([]string, len(result.ScaleViolations))
		for i, v := range result.ScaleViolations {
			violations[i] = v.String()
		}
		h.logger.Warn("parameters exceed scale maxima", map[string]interface{}{
			"woundId":    input.WoundID,
			"ruleTable":  result.RuleTable,
			"violations": violations,
		})
	}

	metrics.WoundAssessments.WithLabelValues(result.RuleTable, string(result.Prognosis), string(result.Urgency)).Inc()
	metrics.WoundSeverityScore.WithLabelValues(result.RuleTable).Observe(float64(result.Score))
	for _, p := range result.Recommendations.Misaligned {
		metrics.ProductsMisaligned.WithLabelValues(p.ID).Inc()
	}

	output := &Output{
		AssessmentID: h.newID(),
		Assessment:   result,
		Prognosis:    result.Prognosis,
		Urgency:      result.Urgency,
		UrgentReview: result.Urgency == models.UrgencyHigh,
	}

	h.logger.Info("wound assessed", map[string]interface{}{
		"assessmentId": output.AssessmentID,
		"patientId":    input.PatientID,
		"woundId":      input.WoundID,
		"score":        result.Score,
		"prognosis":    result.Prognosis,
		"phase":        result.Phase,
		"protocol":     result.Protocol.Name,
		"urgency":      result.Urgency,
		"recommended":  len(result.Recommendations.Recommended),
		"misaligned":   len(result.Recommendations.Misaligned),
	})
	return output, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output, start time.Time) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.failJob(ctx, client, job, errors.NewInternalError(err), start)
		return
	}

	sendCtx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	if _, err := cmd.Send(sendCtx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
		return
	}

	metrics.JobCompleted(TaskType, start)
	h.obs.RecordJob(ctx, TaskType, "completed", time.Since(start))
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) {
	stdErr := errors.Normalize(err)
	metrics.JobFailed(TaskType, string(stdErr.Code), start)
	h.obs.RecordJob(ctx, TaskType, "failed", time.Since(start))

	sendCtx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	h.errHandler.HandleJobError(sendCtx, client, job, stdErr)
}

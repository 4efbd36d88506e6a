// internal/workers/clinical/analyze-tissue/handler.go
package analyzetissue

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"woundcare-workers/internal/clinical/assessment"
	"woundcare-workers/internal/common/errors"
	"woundcare-workers/internal/common/logger"
	"woundcare-workers/internal/common/metrics"
	"woundcare-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "analyze-tissue"

// InputSchema describes the job variables.
var InputSchema = validation.JSONSchema{
	Type:     "object",
	Required: []string{"tissueType"},
	Properties: map[string]validation.Property{
		"patientId":  {Type: "string"},
		"woundId":    {Type: "string"},
		"tissueType": {Type: "string", MinLength: validation.IntPtr(1), MaxLength: validation.IntPtr(64)},
	},
}

type Handler struct {
	config     *Config
	engine     *assessment.Engine
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(cfg *Config, engine *assessment.Engine, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     cfg,
		engine:     engine,
		errHandler: errors.NewErrorHandler(scoped),
		logger:     scoped,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	variables, err := job.GetVariablesAsMap()
	if err != nil {
		h.failJob(ctx, client, job, errors.NewParseError(err), start)
		return
	}
	if result := validation.ValidateInput(variables, InputSchema); !result.Valid {
		h.failJob(ctx, client, job, errors.NewInvalidAssessmentInputError(result.Error()), start)
		return
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(ctx, client, job, errors.NewParseError(err), start)
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.failJob(ctx, client, job, err, start)
		return
	}
	h.completeJob(ctx, client, job, output, start)
}

// Execute reads the categorical tissue type. An unknown type is not an
// error: it yields the manual evaluation profile.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.TissueType) == "" {
		return nil, errors.NewInvalidAssessmentInputError("tissueType: must not be blank")
	}

	analysis := h.engine.AnalyzeTissue(input.TissueType)
	if !analysis.Recognized {
		h.logger.Warn("unrecognized tissue type", map[string]interface{}{
			"woundId":    input.WoundID,
			"tissueType": input.TissueType,
		})
	}

	return &Output{
		TissueAnalysis:       analysis,
		Urgency:              analysis.Urgency,
		ManualReviewRequired: !analysis.Recognized,
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output, start time.Time) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.failJob(ctx, client, job, errors.NewInternalError(err), start)
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
		return
	}
	metrics.JobCompleted(TaskType, start)
}

func (h *Handler) failJob(_ context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) {
	metrics.JobFailed(TaskType, string(errors.Normalize(err).Code), start)
	h.errHandler.HandleJobError(context.Background(), client, job, err)
}

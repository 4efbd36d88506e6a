// internal/workers/clinical/recommend-products/handler.go
package recommendproducts

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"woundcare-workers/internal/clinical/assessment"
	"woundcare-workers/internal/clinical/catalog"
	"woundcare-workers/internal/clinical/resvech"
	"woundcare-workers/internal/clinical/timers"
	"woundcare-workers/internal/common/errors"
	"woundcare-workers/internal/common/logger"
	"woundcare-workers/internal/common/metrics"
	"woundcare-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "recommend-products"

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

// Execute filters the catalog for one observation.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	axes, err := h.resolveAxes(input)
	if err != nil {
		return nil, err
	}

	score := resvech.Score(input.Parameters)
	if input.Score != nil {
		if *input.Score < 0 {
			return nil, errors.NewInvalidAssessmentInputError(fmt.Sprintf("score: %d is negative", *input.Score))
		}
		score = min(*input.Score, resvech.MaxScore)
	}

	cat := h.engine.Catalog()
	result := catalog.Filter(cat, axes, score, input.Parameters)

	out := &Output{
		Recommendations: result,
		RecommendedIDs:  make([]string, 0, len(result.Recommended)),
		MisalignedIDs:   make([]string, 0, len(result.Misaligned)),
		CatalogVersion:  cat.Version(),
	}
	for _, p := range result.Recommended {
		out.RecommendedIDs = append(out.RecommendedIDs, p.ID)
	}
	for _, p := range result.Misaligned {
		out.MisalignedIDs = append(out.MisalignedIDs, p.ID)
		metrics.ProductsMisaligned.WithLabelValues(p.ID).Inc()
	}

	h.logger.Info("products filtered", map[string]interface{}{
		"woundId":     input.WoundID,
		"score":       score,
		"recommended": out.RecommendedIDs,
		"misaligned":  out.MisalignedIDs,
	})
	return out, nil
}

func (h *Handler) resolveAxes(input *Input) (map[models.Axis]models.AxisAssessment, error) {
	if len(input.Axes) == 0 {
		return timers.Classify(input.Parameters, h.engine.RuleTable()), nil
	}

	axes := make(map[models.Axis]models.AxisAssessment, len(input.Axes))
	var problems []string
	for key, a := range input.Axes {
		axis, err := models.ParseAxis(key)
		if err != nil {
			problems = append(problems, fmt.Sprintf("axes.%s: %v", key, err))
			continue
		}
		a.Axis = axis
		axes[axis] = a
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return nil, errors.NewInvalidAssessmentInputError(fmt.Sprint(problems))
	}
	return axes, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output, start time.Time) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.failJob(client, job, errors.NewInternalError(err), start)
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

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error, start time.Time) {
	metrics.JobFailed(TaskType, string(errors.Normalize(err).Code), start)
	h.errHandler.HandleJobError(context.Background(), client, job, err)
}

// internal/workers/clinical/assess-wound/handler_test.go
package assesswound

import (
	"context"
	"testing"
	"time"

	"woundcare-workers/internal/clinical/assessment"
	"woundcare-workers/internal/clinical/resvech"
	"woundcare-workers/internal/common/errors"
	"woundcare-workers/internal/common/logger"
	"woundcare-workers/internal/models"
	"woundcare-workers/internal/workers/workertest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl.WithFields(map[string]interface{}{"error": err})
}

func newTestHandler(t *testing.T, allowOverride bool) *Handler {
	t.Helper()
	engines, err := assessment.NewEngines(resvech.VersionResvech20, nil)
	require.NoError(t, err)

	h := NewHandler(
		&Config{Timeout: 5 * time.Second, AllowRuleTableOverride: allowOverride},
		Dependencies{Engines: engines},
		&testLogger{t: t},
	)
	h.newID = func() string { return "11111111-2222-3333-4444-555555555555" }
	return h
}

func TestHandler_Execute_Scenarios(t *testing.T) {
	tests := []struct {
		name         string
		input        *Input
		score        int
		prognosis    resvech.Prognosis
		urgency      models.Urgency
		phase        string
		urgentReview bool
	}{
		{
			name: "critical infected wound",
			input: &Input{
				WoundID:    "w-1",
				TissueType: "INFECTED",
				Parameters: models.WoundParameters{Size: 6, Depth: 3, Edges: 4, TissueType: 4, Exudate: 3, InfectionInflammation: 12},
			},
			score:        32,
			prognosis:    resvech.PrognosisCritical,
			urgency:      models.UrgencyHigh,
			phase:        "Infection/Inflammation",
			urgentReview: true,
		},
		{
			name: "favorable epithelial wound",
			input: &Input{
				WoundID:    "w-2",
				TissueType: "EPITHELIAL",
				Parameters: models.WoundParameters{Size: 1, Edges: 1, TissueType: 1, InfectionInflammation: 2},
			},
			score:     5,
			prognosis: resvech.PrognosisFavorable,
			urgency:   models.UrgencyMedium,
			phase:     "Edge Advancement",
		},
		{
			name:      "empty parameters",
			input:     &Input{WoundID: "w-3"},
			score:     0,
			prognosis: resvech.PrognosisHealed,
			urgency:   models.UrgencyMedium,
			phase:     "Edge Advancement",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, false)

			out, err := h.Execute(context.Background(), tt.input)
			require.NoError(t, err)

			assert.Equal(t, "11111111-2222-3333-4444-555555555555", out.AssessmentID)
			assert.Equal(t, tt.score, out.Assessment.Score)
			assert.Equal(t, tt.prognosis, out.Prognosis)
			assert.Equal(t, tt.urgency, out.Urgency)
			assert.Equal(t, tt.phase, out.Assessment.Phase)
			assert.Equal(t, tt.urgentReview, out.UrgentReview)
		})
	}
}

func TestHandler_Execute_RuleTableOverride(t *testing.T) {
	input := &Input{
		RuleTable:  resvech.VersionTimersSimple,
		Parameters: models.WoundParameters{Size: 3, Depth: 2, Edges: 2, TissueType: 2, Exudate: 2, InfectionInflammation: 3},
	}

	out, err := newTestHandler(t, false).Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, resvech.VersionResvech20, out.Assessment.RuleTable, "override ignored when disabled")

	out, err = newTestHandler(t, true).Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, resvech.VersionTimersSimple, out.Assessment.RuleTable)
	assert.Equal(t, resvech.PrognosisDifficult, out.Prognosis)

	_, err = newTestHandler(t, true).Execute(context.Background(), &Input{RuleTable: "resvech-9"})
	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeRuleTableUnknown, stdErr.Code)
}

func TestHandler_Execute_ContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestHandler(t, false).Execute(ctx, &Input{})
	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeAssessmentTimeout, stdErr.Code)
}

func TestHandler_Handle_CompletesJob(t *testing.T) {
	client := workertest.NewJobClient()
	job := workertest.NewJob(t, TaskType, 3, map[string]interface{}{
		"patientId":  "p-1",
		"woundId":    "w-1",
		"tissueType": "GRANULATION",
		"parameters": map[string]interface{}{
			"size": 4, "depth": 1, "edges": 3, "tissueType": 3, "exudate": 2, "infectionInflammation": 5,
		},
	})

	newTestHandler(t, false).Handle(client, job)

	vars := client.CompletedVariables(t)
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", vars["assessmentId"])
	assert.Equal(t, "STAGNANT", vars["prognosis"])
	assert.Equal(t, "HIGH", vars["urgency"], "infection 5 triggers the infection axis")
	assert.Equal(t, true, vars["urgentReview"])

	result, ok := vars["assessment"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(18), result["score"])
	assert.Equal(t, true, result["biofilmSuspected"])

	proto := result["protocol"].(map[string]interface{})
	steps := proto["steps"].([]interface{})
	assert.Equal(t, "DEBRIDE", steps[0].(map[string]interface{})["action"])
}

func TestHandler_Handle_AcceptsWholeNumberFloats(t *testing.T) {
	client := workertest.NewJobClient()
	job := workertest.RawJob(TaskType, `{"woundId":"w-1","parameters":{"size":3.0,"depth":1.0,"infectionInflammation":2e0}}`)

	newTestHandler(t, false).Handle(client, job)

	assert.Empty(t, client.Thrown())
	vars := client.CompletedVariables(t)
	result, ok := vars["assessment"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(6), result["score"])
}

func TestHandler_Handle_InvalidInputThrows(t *testing.T) {
	client := workertest.NewJobClient()
	job := workertest.NewJob(t, TaskType, 3, map[string]interface{}{
		"woundId":    "w-1",
		"parameters": map[string]interface{}{"size": "large"},
	})

	newTestHandler(t, false).Handle(client, job)

	assert.Empty(t, client.Completed())
	assert.Empty(t, client.Failed())
	thrown := client.Thrown()
	require.Len(t, thrown, 1)
	assert.Equal(t, "INVALID_ASSESSMENT_INPUT", thrown[0].ErrorCode)
	assert.Contains(t, thrown[0].Variables, "parameters.size")
}

func TestHandler_Handle_MalformedVariablesThrowParseError(t *testing.T) {
	client := workertest.NewJobClient()

	newTestHandler(t, false).Handle(client, workertest.RawJob(TaskType, `{"parameters":`))

	thrown := client.Thrown()
	require.Len(t, thrown, 1)
	assert.Equal(t, "PARSE_ERROR", thrown[0].ErrorCode)
}

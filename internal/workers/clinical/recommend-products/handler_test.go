// internal/workers/clinical/recommend-products/handler_test.go
package recommendproducts

import (
	"context"
	"testing"
	"time"

	"woundcare-workers/internal/clinical/assessment"
	"woundcare-workers/internal/clinical/resvech"
	"woundcare-workers/internal/common/logger"
	"woundcare-workers/internal/models"
	"woundcare-workers/internal/workers/workertest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	engine, err := assessment.New(resvech.Default(), nil)
	require.NoError(t, err)
	return NewHandler(&Config{Timeout: time.Second}, engine, logger.NewTestLogger(t))
}

func intPtr(v int) *int { return &v }

func TestHandler_Execute_HighInfectionMisalignsRegenerativeGel(t *testing.T) {
	out, err := newTestHandler(t).Execute(context.Background(), &Input{
		Parameters: models.WoundParameters{InfectionInflammation: 10, TissueDescription: "healthy red granulation"},
	})
	require.NoError(t, err)

	assert.Contains(t, out.MisalignedIDs, "smith-regranex-01")
	assert.NotContains(t, out.RecommendedIDs, "smith-regranex-01")
	assert.Contains(t, out.RecommendedIDs, "s-n-acticoat-01")
	assert.Equal(t, "2024.1", out.CatalogVersion)
}

func TestHandler_Execute_UpstreamAxes(t *testing.T) {
	out, err := newTestHandler(t).Execute(context.Background(), &Input{
		Parameters: models.WoundParameters{TissueType: 5},
		Axes: map[string]models.AxisAssessment{
			"t": {Status: "Non-viable tissue present", Triggered: true},
		},
		Score: intPtr(12),
	})
	require.NoError(t, err)
	assert.Contains(t, out.RecommendedIDs, "s-n-versajet-01")
}

func TestHandler_Execute_InvalidInput(t *testing.T) {
	h := newTestHandler(t)

	_, err := h.Execute(context.Background(), &Input{Axes: map[string]models.AxisAssessment{"X": {}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_ASSESSMENT_INPUT")

	_, err = h.Execute(context.Background(), &Input{Score: intPtr(-1)})
	require.Error(t, err)
}

func TestHandler_Handle(t *testing.T) {
	client := workertest.NewJobClient()
	newTestHandler(t).Handle(client, workertest.NewJob(t, TaskType, 3, map[string]interface{}{
		"woundId":    "w-4",
		"parameters": map[string]interface{}{"infectionInflammation": 10},
	}))

	vars := client.CompletedVariables(t)
	misaligned := vars["misalignedProductIds"].([]interface{})
	assert.Contains(t, misaligned, "smith-regranex-01")
	recs := vars["recommendations"].(map[string]interface{})
	assert.NotNil(t, recs["recommended"])
}

func TestHandler_Handle_UnknownAxisThrows(t *testing.T) {
	client := workertest.NewJobClient()
	newTestHandler(t).Handle(client, workertest.NewJob(t, TaskType, 3, map[string]interface{}{
		"axes": map[string]interface{}{"Z": map[string]interface{}{"triggered": true}},
	}))

	thrown := client.Thrown()
	require.Len(t, thrown, 1)
	assert.Equal(t, "INVALID_ASSESSMENT_INPUT", thrown[0].ErrorCode)
}

// internal/workers/clinical/recommend-products/models.go
package recommendproducts

import (
	"woundcare-workers/internal/clinical/catalog"
	"woundcare-workers/internal/models"
)

// Input carries the observation and, optionally, axes classified upstream.
// Axes are keyed by letter (T, I, M, E, R, S); when absent they are derived
// from the parameters with the configured rule table.
type Input struct {
	WoundID    string                           `json:"woundId"`
	Parameters models.WoundParameters           `json:"parameters"`
	Axes       map[string]models.AxisAssessment `json:"axes"`
	Score      *int                             `json:"score"`
}

type Output struct {
	Recommendations catalog.Result `json:"recommendations"`
	RecommendedIDs  []string       `json:"recommendedProductIds"`
	MisalignedIDs   []string       `json:"misalignedProductIds"`
	CatalogVersion  string         `json:"catalogVersion"`
}

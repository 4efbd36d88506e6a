// internal/workers/clinical/analyze-tissue/models.go
package analyzetissue

import (
	"woundcare-workers/internal/clinical/assessment"
	"woundcare-workers/internal/models"
)

type Input struct {
	PatientID  string `json:"patientId"`
	WoundID    string `json:"woundId"`
	TissueType string `json:"tissueType"`
}

type Output struct {
	TissueAnalysis       assessment.TissueAnalysis `json:"tissueAnalysis"`
	Urgency              models.Urgency            `json:"urgency"`
	ManualReviewRequired bool                      `json:"manualReviewRequired"`
}

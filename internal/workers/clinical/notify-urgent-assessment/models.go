// internal/workers/clinical/notify-urgent-assessment/models.go
package notifyurgentassessment

import (
	"time"

	"woundcare-workers/internal/models"
)

// Input reads the variables written by assess-wound.
type Input struct {
	AssessmentID string             `json:"assessmentId"`
	PatientID    string             `json:"patientId"`
	WoundID      string             `json:"woundId"`
	Assessment   AssessmentSnapshot `json:"assessment"`
}

// AssessmentSnapshot is the part of an assessment result an alert needs.
type AssessmentSnapshot struct {
	RuleTable string         `json:"ruleTable"`
	Score     int            `json:"score"`
	Prognosis string         `json:"prognosis"`
	Phase     string         `json:"phase"`
	Urgency   models.Urgency `json:"urgency"`
	Protocol  struct {
		Name string `json:"name"`
	} `json:"protocol"`
	BiofilmSuspected bool `json:"biofilmSuspected"`
}

type Output struct {
	AlertPublished bool   `json:"alertPublished"`
	AlertID        string `json:"alertId,omitempty"`
	AlertMessageID string `json:"alertMessageId,omitempty"`
	SkippedReason  string `json:"alertSkippedReason,omitempty"`
}

// AlertMessage is the JSON body published to the topic.
type AlertMessage struct {
	AlertID          string         `json:"alertId"`
	AssessmentID     string         `json:"assessmentId"`
	PatientID        string         `json:"patientId,omitempty"`
	WoundID          string         `json:"woundId,omitempty"`
	RuleTable        string         `json:"ruleTable"`
	Score            int            `json:"score"`
	Prognosis        string         `json:"prognosis"`
	Phase            string         `json:"phase"`
	Protocol         string         `json:"protocol"`
	BiofilmSuspected bool           `json:"biofilmSuspected"`
	Urgency          models.Urgency `json:"urgency"`
	RaisedAt         time.Time      `json:"raisedAt"`
}

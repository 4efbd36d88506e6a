// Package clinical describes the wound care service tasks served by this process.
package clinical

import (
	"woundcare-workers/internal/common/config"
	"woundcare-workers/internal/common/errors"
	"woundcare-workers/pkg/registry"

	at "woundcare-workers/internal/workers/clinical/analyze-tissue"
	aw "woundcare-workers/internal/workers/clinical/assess-wound"
	nua "woundcare-workers/internal/workers/clinical/notify-urgent-assessment"
	rp "woundcare-workers/internal/workers/clinical/recommend-products"
)

const category = "clinical"

// Activities lists the four clinical service tasks with the timeouts, retry
// budgets and enablement taken from cfg.
func Activities(cfg *config.Config) *registry.ActivityRegistry {
	version := cfg.App.Version
	if version == "" {
		version = "dev"
	}

	reg := &registry.ActivityRegistry{
		Version: version,
		Activities: []registry.Activity{
			activity(cfg, registry.Activity{
				ID:          "assess-wound",
				DisplayName: "Assess Wound",
				Description: "Scores a wound observation, classifies TIMERS axes, selects a treatment protocol and filters the intervention catalog.",
				TaskType:    aw.TaskType,
				InputSchema: aw.GetInputSchema(),
				Outputs:     []string{"assessmentId", "assessment", "prognosis", "urgency", "urgentReview"},
				Tags:        []string{"resvech", "timers", "protocol"},
			}, errors.ErrCodeParseError, errors.ErrCodeInvalidAssessmentInput, errors.ErrCodeRuleTableUnknown, errors.ErrCodeAssessmentTimeout, errors.ErrCodeInternal),
			activity(cfg, registry.Activity{
				ID:          "analyze-tissue",
				DisplayName: "Analyze Tissue Type",
				Description: "Maps a categorical tissue type to its TIMERS phase, diagnosis and recommended care.",
				TaskType:    at.TaskType,
				InputSchema: at.InputSchema,
				Outputs:     []string{"tissueAnalysis", "urgency", "manualReviewRequired"},
				Tags:        []string{"timers"},
			}, errors.ErrCodeParseError, errors.ErrCodeInvalidAssessmentInput, errors.ErrCodeInternal),
			activity(cfg, registry.Activity{
				ID:          "recommend-products",
				DisplayName: "Recommend Products",
				Description: "Filters the intervention catalog against assessed axes and wound parameters.",
				TaskType:    rp.TaskType,
				Outputs:     []string{"recommendations", "recommendedProductIds", "misalignedProductIds", "catalogVersion"},
				Tags:        []string{"catalog"},
			}, errors.ErrCodeParseError, errors.ErrCodeInvalidAssessmentInput, errors.ErrCodeInternal),
			activity(cfg, registry.Activity{
				ID:          "notify-urgent-assessment",
				DisplayName: "Notify Urgent Assessment",
				Description: "Publishes an alert for HIGH urgency assessments.",
				TaskType:    nua.TaskType,
				Outputs:     []string{"alertPublished", "alertId", "alertMessageId", "alertSkippedReason"},
				Tags:        []string{"sns", "alerting"},
			}, errors.ErrCodeParseError, errors.ErrCodeAlertPublishFailed, errors.ErrCodeInternal),
		},
	}
	reg.Sort()
	return reg
}

func activity(cfg *config.Config, a registry.Activity, codes ...errors.ErrorCode) registry.Activity {
	wcfg := config.GetWorkerConfig(cfg, a.TaskType)
	a.Category = category
	a.Timeout = config.GetDuration(wcfg.Timeout).String()
	a.Retries = wcfg.MaxRetries
	a.Enabled = wcfg.Enabled
	a.ErrorCodes = bpmnCodes(codes)
	return a
}

// bpmnCodes maps internal codes to the BPMN codes the handlers throw, without duplicates.
func bpmnCodes(codes []errors.ErrorCode) []string {
	seen := make(map[string]bool, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		bpmn, ok := errors.BPMNErrorMapping[c]
		if !ok {
			bpmn = string(c)
		}
		if !seen[bpmn] {
			seen[bpmn] = true
			out = append(out, bpmn)
		}
	}
	return out
}

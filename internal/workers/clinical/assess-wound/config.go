// internal/workers/clinical/assess-wound/config.go
package assesswound

import (
	"time"

	"woundcare-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	// AllowRuleTableOverride lets a job pick a rule table through its ruleTable variable.
	AllowRuleTableOverride bool
}

func LoadConfig(cfg *config.Config) *Config {
	wcfg := config.GetWorkerConfig(cfg, TaskType)
	return &Config{
		Timeout:                config.GetDuration(wcfg.Timeout),
		AllowRuleTableOverride: cfg.Clinical.AllowRuleTableOverride,
	}
}

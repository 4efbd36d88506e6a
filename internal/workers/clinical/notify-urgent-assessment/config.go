// internal/workers/clinical/notify-urgent-assessment/config.go
package notifyurgentassessment

import (
	"time"

	"woundcare-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	Enabled bool
	Subject string
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Timeout: config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
		Enabled: cfg.Notifications.SNS.Enabled,
		Subject: "Urgent wound assessment",
	}
}

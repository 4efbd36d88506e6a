// internal/workers/clinical/recommend-products/config.go
package recommendproducts

import (
	"time"

	"woundcare-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{Timeout: config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout)}
}

// internal/workers/scorecard/calculate-score/config.go
package calculatescore

import (
	"time"

	"tca-workers/internal/scorecard"
)

type Config struct {
	Timeout    time.Duration
	Thresholds scorecard.ThresholdSet
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
		Thresholds: scorecard.ThresholdSet{
			string(scorecard.FrameworkGeneral): scorecard.DefaultThresholds,
			string(scorecard.FrameworkMedtech): scorecard.DefaultThresholds,
		},
	}
}

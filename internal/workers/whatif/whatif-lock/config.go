// internal/workers/whatif/whatif-lock/config.go
package whatiflock

import (
	"time"

	"tca-workers/internal/scorecard"
)

type Config struct {
	Timeout           time.Duration
	DefaultSessionKey string
	Thresholds        scorecard.ThresholdSet
}

func LoadConfig() *Config {
	return &Config{
		Timeout:           15 * time.Second,
		DefaultSessionKey: "analysisResult",
		Thresholds:        scorecard.ThresholdSet{},
	}
}

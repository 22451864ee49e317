// internal/workers/whatif/whatif-recalculate/config.go
package whatifrecalculate

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
		Timeout:           10 * time.Second,
		DefaultSessionKey: "analysisResult",
		Thresholds:        scorecard.ThresholdSet{},
	}
}

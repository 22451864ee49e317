// internal/workers/scorecard/normalize-weights/config.go
package normalizeweights

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}

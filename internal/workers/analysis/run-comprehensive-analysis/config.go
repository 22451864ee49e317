// internal/workers/analysis/run-comprehensive-analysis/config.go
package runanalysis

import "time"

type Config struct {
	// Timeout bounds the whole job; the backend call has its own timeout.
	Timeout           time.Duration
	DefaultSessionKey string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:           45 * time.Second,
		DefaultSessionKey: "analysisResult",
	}
}

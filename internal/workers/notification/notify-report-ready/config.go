// internal/workers/notification/notify-report-ready/config.go
package notifyreportready

import (
	"time"

	"tca-workers/internal/common/config"
)

type Config struct {
	EmailEnabled      bool
	SMSEnabled        bool
	FromEmail         string
	AWSRegion         string
	ReportBaseURL     string
	DefaultSessionKey string
	Timeout           time.Duration
}

func LoadConfig() *Config {
	return &Config{
		DefaultSessionKey: "analysisResult",
		Timeout:           30 * time.Second,
	}
}

// ConfigFrom maps the notifications section onto the worker config.
func ConfigFrom(n config.NotificationConfig) *Config {
	cfg := LoadConfig()
	cfg.EmailEnabled = n.Email.Enabled
	cfg.FromEmail = n.Email.FromEmail
	cfg.SMSEnabled = n.SMS.Enabled
	cfg.AWSRegion = n.AWS.Region
	cfg.ReportBaseURL = n.ReportBaseURL
	return cfg
}

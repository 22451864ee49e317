// internal/workers/notification/notify-report-ready/models.go
package notifyreportready

type Input struct {
	SessionKey     string `json:"sessionKey,omitempty"`
	RecipientEmail string `json:"recipientEmail,omitempty"`
	RecipientPhone string `json:"recipientPhone,omitempty"`
	CompanyName    string `json:"companyName,omitempty"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"`      // "sent", "disabled"
	EmailStatus    string `json:"emailStatus"` // "sent", "disabled"
	SMSStatus      string `json:"smsStatus"`   // "sent", "failed", "disabled"
	ReportURL      string `json:"reportUrl,omitempty"`
	SentAt         string `json:"sentAt"` // ISO 8601
}

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

var inputSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"sessionKey":     map[string]interface{}{"type": "string", "minLength": 1},
		"recipientEmail": map[string]interface{}{"type": "string", "format": "email"},
		"recipientPhone": map[string]interface{}{"type": "string", "pattern": `^\+[1-9][0-9]{6,14}$`},
		"companyName":    map[string]interface{}{"type": "string"},
	},
	"anyOf": []interface{}{
		map[string]interface{}{"required": []interface{}{"recipientEmail"}},
		map[string]interface{}{"required": []interface{}{"recipientPhone"}},
	},
}

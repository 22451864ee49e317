// internal/workers/notification/notify-report-ready/handler_test.go
package notifyreportready

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tca-workers/internal/common/config"
	"tca-workers/internal/common/errors"
	"tca-workers/internal/common/logger"
	"tca-workers/internal/report"
)

// ==========================
// Mock Implementations
// ==========================

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return m.SendEmailFunc(ctx, params, optFns...)
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return m.PublishFunc(ctx, params, optFns...)
}

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		EmailEnabled:      true,
		SMSEnabled:        true,
		FromEmail:         "reports@tca.example.com",
		AWSRegion:         "us-east-1",
		ReportBaseURL:     "https://app.tca.example.com/reports/",
		DefaultSessionKey: "analysisResult",
		Timeout:           30 * time.Second,
	}
}

func createTestInput() *Input {
	return &Input{
		RecipientEmail: "founder@acme.io",
		RecipientPhone: "+14155550100",
		CompanyName:    "Acme Robotics",
	}
}

func createTestProvider(t *testing.T, reportType report.ReportType) report.Provider {
	p := report.NewMemoryProvider()
	require.NoError(t, p.ForSession("analysisResult").Set(context.Background(), &report.AnalysisReport{
		ID:                       "analysis-1",
		Framework:                "general",
		ReportType:               reportType,
		InvestmentRecommendation: "Proceed with due diligence",
		TcaData: &report.TcaData{
			Categories:     []report.TcaCategory{{ID: "leadership", RawScore: 8.2, Weight: 100}},
			CompositeScore: 8.2,
			Flag:           "green",
		},
		RiskData: &report.RiskData{},
	}))
	return p
}

func okSES(captured **ses.SendEmailInput) *MockSESService {
	return &MockSESService{
		SendEmailFunc: func(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			if captured != nil {
				*captured = params
			}
			return &ses.SendEmailOutput{}, nil
		},
	}
}

func okSNS(captured **sns.PublishInput) *MockSNSService {
	return &MockSNSService{
		PublishFunc: func(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
			if captured != nil {
				*captured = params
			}
			return &sns.PublishOutput{}, nil
		},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_EmailAndSMS(t *testing.T) {
	var email *ses.SendEmailInput
	var sms *sns.PublishInput

	h := NewHandler(createTestConfig(), createTestProvider(t, report.ReportTypeTriage), okSES(&email), okSNS(&sms), logger.NewTestLogger(t))
	out, err := h.Execute(context.Background(), createTestInput())
	require.NoError(t, err)

	assert.NotEmpty(t, out.NotificationID)
	assert.Equal(t, StatusSent, out.Status)
	assert.Equal(t, StatusSent, out.EmailStatus)
	assert.Equal(t, StatusSent, out.SMSStatus)
	assert.Equal(t, "https://app.tca.example.com/reports/analysis-1", out.ReportURL)

	require.NotNil(t, email)
	assert.Equal(t, []string{"founder@acme.io"}, email.Destination.ToAddresses)
	assert.Equal(t, "reports@tca.example.com", *email.Source)
	assert.Equal(t, "Triage report ready: Acme Robotics", *email.Message.Subject.Data)
	assert.Contains(t, *email.Message.Body.Text.Data, "TCA composite: 8.2 (Strong & Investable)")
	assert.Contains(t, *email.Message.Body.Text.Data, "https://app.tca.example.com/reports/analysis-1")

	require.NotNil(t, sms)
	assert.Equal(t, "+14155550100", *sms.PhoneNumber)
	assert.Equal(t, "Acme Robotics report ready. TCA 8.2 (green). https://app.tca.example.com/reports/analysis-1", *sms.Message)
}

func TestHandler_Execute_DueDiligenceTemplate(t *testing.T) {
	var email *ses.SendEmailInput
	h := NewHandler(createTestConfig(), createTestProvider(t, report.ReportTypeDD), okSES(&email), okSNS(nil), logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), createTestInput())
	require.NoError(t, err)
	assert.Equal(t, "Due diligence report ready: Acme Robotics", *email.Message.Subject.Data)
	assert.Contains(t, *email.Message.Body.Text.Data, "2 modules analysed")
}

func TestHandler_Execute_Disabled(t *testing.T) {
	cfg := createTestConfig()
	cfg.EmailEnabled = false
	cfg.SMSEnabled = false

	calls := 0
	sesMock := &MockSESService{SendEmailFunc: func(context.Context, *ses.SendEmailInput, ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
		calls++
		return nil, nil
	}}

	h := NewHandler(cfg, createTestProvider(t, report.ReportTypeTriage), sesMock, okSNS(nil), logger.NewTestLogger(t))
	out, err := h.Execute(context.Background(), createTestInput())
	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, out.Status)
	assert.Equal(t, StatusDisabled, out.EmailStatus)
	assert.Equal(t, StatusDisabled, out.SMSStatus)
	assert.Equal(t, 0, calls)
}

func TestHandler_Execute_SMSFailureIsNotFatal(t *testing.T) {
	snsMock := &MockSNSService{PublishFunc: func(context.Context, *sns.PublishInput, ...func(*sns.Options)) (*sns.PublishOutput, error) {
		return nil, stderrors.New("throttled")
	}}

	h := NewHandler(createTestConfig(), createTestProvider(t, report.ReportTypeTriage), okSES(nil), snsMock, logger.NewTestLogger(t))
	out, err := h.Execute(context.Background(), createTestInput())
	require.NoError(t, err)
	assert.Equal(t, StatusSent, out.Status)
	assert.Equal(t, StatusFailed, out.SMSStatus)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_EmailFailureIsRetryable(t *testing.T) {
	sesMock := &MockSESService{SendEmailFunc: func(context.Context, *ses.SendEmailInput, ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
		return nil, stderrors.New("MessageRejected")
	}}

	h := NewHandler(createTestConfig(), createTestProvider(t, report.ReportTypeTriage), sesMock, okSNS(nil), logger.NewTestLogger(t))
	_, err := h.Execute(context.Background(), createTestInput())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotificationSendFailed))
	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.True(t, stdErr.Retryable)
}

func TestHandler_Execute_NoReport(t *testing.T) {
	h := NewHandler(createTestConfig(), report.NewMemoryProvider(), okSES(nil), okSNS(nil), logger.NewTestLogger(t))
	_, err := h.Execute(context.Background(), createTestInput())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeAnalysisRequired))
}

// ==========================
// Helpers
// ==========================

func TestRenderTemplate(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		data map[string]interface{}
		want string
	}{
		{"substitutes", "Hi {{name}}, {{n}} modules", map[string]interface{}{"name": "Ada", "n": 3}, "Hi Ada, 3 modules"},
		{"drops missing", "Score {{score}}{{missing}}", map[string]interface{}{"score": "7.5"}, "Score 7.5"},
		{"trims", "{{url}}\n", map[string]interface{}{}, ""},
		{"values are not rescanned", "{{companyName}} is {{flag}}",
			map[string]interface{}{"companyName": "Acme {{flag}}", "flag": "green"}, "Acme {{flag}} is green"},
		{"keeps literal braces in values", "Report for {{companyName}}",
			map[string]interface{}{"companyName": "{{Rocket}} Labs {x}"}, "Report for {{Rocket}} Labs {x}"},
		{"repeated placeholder", "{{a}}-{{a}}", map[string]interface{}{"a": 1.5}, "1.5-1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderTemplate(tt.tmpl, tt.data))
		})
	}
}

func TestConfigFrom(t *testing.T) {
	var n config.NotificationConfig
	n.Email.Enabled = true
	n.Email.FromEmail = "a@b.c"
	n.AWS.Region = "eu-west-1"
	n.ReportBaseURL = "https://x"

	cfg := ConfigFrom(n)
	assert.True(t, cfg.EmailEnabled)
	assert.False(t, cfg.SMSEnabled)
	assert.Equal(t, "a@b.c", cfg.FromEmail)
	assert.Equal(t, "eu-west-1", cfg.AWSRegion)
	assert.Equal(t, "analysisResult", cfg.DefaultSessionKey)
}

func TestInputSchema(t *testing.T) {
	assert.True(t, schema.ValidateJSON(`{"recipientEmail": "a@b.io"}`).Valid)
	assert.True(t, schema.ValidateJSON(`{"recipientPhone": "+14155550100"}`).Valid)
	assert.False(t, schema.ValidateJSON(`{}`).Valid)
	assert.False(t, schema.ValidateJSON(`{"recipientPhone": "555-0100"}`).Valid)
}

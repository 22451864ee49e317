// internal/workers/notification/notify-report-ready/handler.go
package notifyreportready

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"tca-workers/internal/common/camunda"
	"tca-workers/internal/common/errors"
	"tca-workers/internal/common/logger"
	"tca-workers/internal/common/validation"
	"tca-workers/internal/report"
	"tca-workers/internal/scorecard"
)

const (
	TaskType = "notify-report-ready"
)

var schema = validation.MustCompile(inputSchema)

// SESService and SNSService are the slices of the AWS clients the worker uses.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Handler struct {
	config       *Config
	reports      report.Provider
	sesClient    SESService
	snsClient    SNSService
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
	now          func() time.Time
}

func NewHandler(config *Config, reports report.Provider, sesClient SESService, snsClient SNSService, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		reports:      reports,
		sesClient:    sesClient,
		snsClient:    snsClient,
		logger:       log,
		errorHandler: errors.NewErrorHandler(log),
		now:          time.Now,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	if result := schema.ValidateJSON(job.Variables); !result.Valid {
		h.errorHandler.HandleJobError(ctx, client, job, errors.NewValidationError(result.Error()))
		return
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, errors.NewValidationError(err.Error()))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	camunda.CompleteJob(ctx, client, job, output, h.logger)
}

// execute fails the job only when the email cannot be sent. SMS is a
// best-effort follow-up so a retry never resends a delivered email.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	sessionKey := input.SessionKey
	if sessionKey == "" {
		sessionKey = h.config.DefaultSessionKey
	}

	r, err := h.reports.ForSession(sessionKey).Get(ctx)
	if err != nil {
		if stderrors.Is(err, report.ErrNotFound) {
			return nil, errors.NewAnalysisRequiredError(sessionKey)
		}
		return nil, errors.NewReportStoreError("get", err)
	}
	if !r.HasTcaData() {
		return nil, errors.NewAnalysisRequiredError(sessionKey)
	}

	reportURL := h.reportURL(r)
	data := templateData(r, input, reportURL)
	tmpl := templateFor(r)
	subject := renderTemplate(tmpl.subject, data)
	body := renderTemplate(tmpl.body, data)

	out := &Output{
		NotificationID: uuid.New().String(),
		Status:         StatusDisabled,
		EmailStatus:    StatusDisabled,
		SMSStatus:      StatusDisabled,
		ReportURL:      reportURL,
		SentAt:         h.now().UTC().Format(time.RFC3339),
	}

	if h.config.EmailEnabled && input.RecipientEmail != "" {
		if err := h.sendEmail(ctx, input.RecipientEmail, subject, body); err != nil {
			h.logger.Error("email send failed", map[string]interface{}{
				"error": err.Error(),
				"email": input.RecipientEmail,
			})
			return nil, errors.NewNotificationSendFailedError("email", err)
		}
		out.EmailStatus = StatusSent
	}

	if h.config.SMSEnabled && input.RecipientPhone != "" {
		if err := h.sendSMS(ctx, input.RecipientPhone, renderTemplate(smsTemplate, data)); err != nil {
			h.logger.Error("SMS send failed", map[string]interface{}{
				"error": err.Error(),
				"phone": input.RecipientPhone,
			})
			out.SMSStatus = StatusFailed
		} else {
			out.SMSStatus = StatusSent
		}
	}

	if out.EmailStatus == StatusSent || out.SMSStatus == StatusSent {
		out.Status = StatusSent
	}

	h.logger.Info("report notification processed", map[string]interface{}{
		"notificationId": out.NotificationID,
		"status":         out.Status,
		"emailStatus":    out.EmailStatus,
		"smsStatus":      out.SMSStatus,
	})
	return out, nil
}

func (h *Handler) reportURL(r *report.AnalysisReport) string {
	if h.config.ReportBaseURL == "" || r.ID == "" {
		return ""
	}
	return strings.TrimRight(h.config.ReportBaseURL, "/") + "/" + r.ID
}

func (h *Handler) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(h.config.FromEmail),
	})
	return err
}

func (h *Handler) sendSMS(ctx context.Context, to, message string) error {
	_, err := h.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	})
	return err
}

type template struct {
	subject string
	body    string
}

var templates = map[report.ReportType]template{
	report.ReportTypeTriage: {
		subject: "Triage report ready: {{companyName}}",
		body: "The {{framework}} triage scorecard for {{companyName}} is ready.\n" +
			"TCA composite: {{compositeScore}} ({{flagLabel}}).\n" +
			"{{recommendation}}\n{{reportUrl}}",
	},
	report.ReportTypeDD: {
		subject: "Due diligence report ready: {{companyName}}",
		body: "The {{framework}} due diligence report for {{companyName}} is ready.\n" +
			"TCA composite: {{compositeScore}} ({{flagLabel}}), {{modulesAvailable}} modules analysed.\n" +
			"{{recommendation}}\n{{reportUrl}}",
	},
}

const smsTemplate = "{{companyName}} report ready. TCA {{compositeScore}} ({{flag}}). {{reportUrl}}"

func templateFor(r *report.AnalysisReport) template {
	if t, ok := templates[r.ReportType]; ok {
		return t
	}
	return templates[report.ReportTypeTriage]
}

func templateData(r *report.AnalysisReport, input *Input, reportURL string) map[string]interface{} {
	company := input.CompanyName
	if company == "" {
		company = "your company"
	}
	score := r.TcaData.CompositeScore
	if r.IsLocked() {
		score = r.WhatIfAnalysis.TcaCompositeScore
	}
	return map[string]interface{}{
		"companyName":      company,
		"framework":        r.Framework,
		"compositeScore":   fmt.Sprintf("%.1f", score),
		"flag":             r.TcaData.Flag,
		"flagLabel":        scorecard.Flag(r.TcaData.Flag).Label(),
		"recommendation":   r.InvestmentRecommendation,
		"modulesAvailable": countModules(r),
		"reportUrl":        reportURL,
	}
}

func countModules(r *report.AnalysisReport) int {
	n := 0
	for _, present := range []bool{
		r.TcaData != nil, r.RiskData != nil, r.MacroData != nil,
		r.BenchmarkData != nil, r.GrowthData != nil, r.GapData != nil,
		r.FounderFitData != nil, r.TeamData != nil, r.StrategicFitData != nil,
	} {
		if present {
			n++
		}
	}
	return n
}

var placeholder = regexp.MustCompile(`\{\{\w+\}\}`)

// renderTemplate substitutes {{key}} placeholders in a single pass and drops
// any the data does not fill. Substituted values are never rescanned.
func renderTemplate(tmpl string, data map[string]interface{}) string {
	var pairs []string
	for _, token := range placeholder.FindAllString(tmpl, -1) {
		value := ""
		switch x := data[token[2:len(token)-2]].(type) {
		case string:
			value = x
		case int:
			value = fmt.Sprintf("%d", x)
		case nil:
		default:
			value = fmt.Sprintf("%v", x)
		}
		pairs = append(pairs, token, value)
	}
	return strings.TrimSpace(strings.NewReplacer(pairs...).Replace(tmpl))
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package notifications

import (
	"bytes"
	"context"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/qolzam/telar/apps/console/internal/pkg/log"
	platformemail "github.com/qolzam/telar/apps/console/internal/platform/email"
	"github.com/qolzam/telar/apps/console/users/models"
)

var validate = validator.New()

// EmailConfig configures the escalation email transports.
// BackendURL wins over the SMTP sender when both are present.
type EmailConfig struct {
	BackendURL string
	Timeout    time.Duration
	From       string
}

// EmailService sends escalation emails through the email backend or an SMTP sender
type EmailService struct {
	backendURL string
	from       string
	client     *http.Client
	sender     platformemail.Sender
}

// NewEmailService creates an EmailService. sender may be nil when a backend URL is configured.
func NewEmailService(cfg EmailConfig, sender platformemail.Sender) *EmailService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &EmailService{
		backendURL: strings.TrimSpace(cfg.BackendURL),
		from:       cfg.From,
		client:     &http.Client{Timeout: timeout},
		sender:     sender,
	}
}

type escalationEmailRequest struct {
	RecipientEmail string         `json:"recipientEmail"`
	UserName       string         `json:"userName"`
	UserStatus     string         `json:"userStatus"`
	PreviousStatus string         `json:"previousStatus"`
	ReportedPosts  []ReportedPost `json:"reportedPosts,omitempty"`
}

type escalationEmailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ValidateEmail reports whether address is a syntactically valid email address
func ValidateEmail(address string) error {
	return validate.Var(address, "required,email")
}

// SendEscalationEmail tells the user about their new status. The previous status in
// the message is derived from newStatus, not taken from the caller.
func (s *EmailService) SendEscalationEmail(ctx context.Context, recipientEmail, userName string, newStatus models.StatusLevel, reportedPosts []ReportedPost) Result {
	recipientEmail = strings.TrimSpace(recipientEmail)
	if err := ValidateEmail(recipientEmail); err != nil {
		return failed("invalid recipient email %q", recipientEmail)
	}

	req := escalationEmailRequest{
		RecipientEmail: recipientEmail,
		UserName:       userName,
		UserStatus:     newStatus.String(),
		PreviousStatus: newStatus.Previous().String(),
		ReportedPosts:  reportedPosts,
	}

	switch {
	case s.backendURL != "":
		return s.sendViaBackend(ctx, req)
	case s.sender != nil:
		return s.sendViaSMTP(ctx, req, newStatus)
	default:
		return failed("no email transport configured")
	}
}

func (s *EmailService) sendViaBackend(ctx context.Context, req escalationEmailRequest) Result {
	var resp escalationEmailResponse
	if err := postJSON(ctx, s.client, s.backendURL, req, &resp); err != nil {
		return failed("email backend: %v", err)
	}
	if !resp.Success {
		if resp.Message == "" {
			resp.Message = "email backend reported failure"
		}
		return failed("%s", resp.Message)
	}
	log.DebugWithContext(ctx, "escalation email accepted for %s: %s", req.RecipientEmail, resp.Message)
	return sent(resp.Message)
}

var escalationEmailTemplate = template.Must(template.New("escalation").Parse(`<p>Hello {{.UserName}},</p>
<p>Your account status has changed from <strong>{{.Previous}}</strong> to <strong>{{.Current}}</strong>.</p>
{{if .Posts}}<p>This decision relates to the following reported posts:</p>
<ul>{{range .Posts}}<li>{{.Title}} ({{.ReportCount}} reports)</li>{{end}}</ul>{{end}}
<p>Please review the community guidelines.</p>`))

func (s *EmailService) sendViaSMTP(ctx context.Context, req escalationEmailRequest, newStatus models.StatusLevel) Result {
	var body bytes.Buffer
	err := escalationEmailTemplate.Execute(&body, map[string]interface{}{
		"UserName": req.UserName,
		"Previous": newStatus.Previous().Label(),
		"Current":  newStatus.Label(),
		"Posts":    req.ReportedPosts,
	})
	if err != nil {
		return failed("failed to render email: %v", err)
	}

	msg := platformemail.Message{
		From:    s.from,
		To:      []string{req.RecipientEmail},
		Subject: "Your account status is now " + newStatus.Label(),
		Body:    body.String(),
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return failed("smtp: %v", err)
	}
	return sent("sent via smtp")
}

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	brevo "github.com/getbrevo/brevo-go/lib"
)

// Email is one transactional message
type Email struct {
	ToAddress string
	ToName    string
	Subject   string
	HTML      string
}

// Mailer delivers transactional email
type Mailer interface {
	Send(ctx context.Context, email Email) (messageID string, err error)
}

// BrevoMailer sends through the Brevo transactional email API
type BrevoMailer struct {
	SenderEmail string
	SenderName  string

	client *brevo.APIClient
}

// NewBrevoMailer returns nil when apiKey is empty so email is disabled
func NewBrevoMailer(apiKey, senderEmail, senderName string) *BrevoMailer {
	if apiKey == "" {
		return nil
	}

	cfg := brevo.NewConfiguration()
	cfg.AddDefaultHeader("api-key", apiKey)
	cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}

	return &BrevoMailer{
		SenderEmail: senderEmail,
		SenderName:  senderName,
		client:      brevo.NewAPIClient(cfg),
	}
}

// SetBasePath points the client at another API root, e.g. a test server
func (m *BrevoMailer) SetBasePath(basePath string) {
	m.client.ChangeBasePath(basePath)
}

// Send implements Mailer
func (m *BrevoMailer) Send(ctx context.Context, email Email) (string, error) {
	res, _, err := m.client.TransactionalEmailsApi.SendTransacEmail(ctx, brevo.SendSmtpEmail{
		Sender:      &brevo.SendSmtpEmailSender{Email: m.SenderEmail, Name: m.SenderName},
		To:          []brevo.SendSmtpEmailTo{{Email: email.ToAddress, Name: email.ToName}},
		Subject:     email.Subject,
		HtmlContent: email.HTML,
	})
	if err != nil {
		var apiErr brevo.GenericSwaggerError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("email provider returned %s: %s", apiErr.Error(), apiErr.Body())
		}
		return "", fmt.Errorf("email request failed: %w", err)
	}

	return res.MessageId, nil
}

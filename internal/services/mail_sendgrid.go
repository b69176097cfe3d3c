package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/focusup-app/focusup-backend/internal/logger"
)

type sendgridMailService struct {
	log        *logger.Logger
	key        string
	from       *sgmail.Email
	subjPrefix string
}

// NewSendgridMailService sends through the SendGrid v3 mail API.
func NewSendgridMailService(log *logger.Logger, apiKey, appName, fromEmail string) (MailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing SENDGRID_API_KEY")
	}
	serviceLog := log.With("service", "SendgridMailService")
	return &sendgridMailService{
		log:        serviceLog,
		key:        apiKey,
		from:       sgmail.NewEmail(appName, fromEmail),
		subjPrefix: "[" + appName + "] ",
	}, nil
}

func (sms *sendgridMailService) Send(ctx context.Context, to, subject, html string) error {
	message := sgmail.NewSingleEmail(sms.from, sms.subjPrefix+subject, sgmail.NewEmail("", to), "", html)

	client := sendgrid.NewSendClient(sms.key)
	resp, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		sms.log.Warn("Sendgrid returned error status", "status", resp.StatusCode, "body", resp.Body)
		return fmt.Errorf("sendgrid send failed with status %d", resp.StatusCode)
	}
	return nil
}

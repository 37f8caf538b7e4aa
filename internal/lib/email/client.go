// Package email sends transactional e-mail through Resend using the
// embedded HTML templates.
package email

import (
	"fmt"

	"github.com/deppfellow/lightweight-backend/internal/config"
	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

const sender = "Lightweight <onboarding@resend.dev>"

// Sender is the part of the Resend API the client needs.
type Sender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type Client struct {
	sender Sender
	logger *zerolog.Logger
}

func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	return NewClientWithSender(resend.NewClient(cfg.Integration.ResendAPIKey).Emails, logger)
}

func NewClientWithSender(sender Sender, logger *zerolog.Logger) *Client {
	return &Client{sender: sender, logger: logger}
}

// SendEmail renders templateName with data and sends it to a single
// recipient.
func (c *Client) SendEmail(to, subject string, templateName Template, data map[string]string) error {
	body, err := RenderTemplate(templateName, data)
	if err != nil {
		return err
	}

	resp, err := c.sender.Send(&resend.SendEmailRequest{
		From:    sender,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	})
	if err != nil {
		return errors.Wrap(err, "failed to send email")
	}

	c.logger.Debug().
		Str("template", string(templateName)).
		Str("email_id", resp.Id).
		Msg("email sent")
	return nil
}

func (c *Client) SendWelcomeEmail(to, firstName, username string) error {
	return c.SendEmail(
		to,
		fmt.Sprintf("Welcome aboard, %s!", firstName),
		TemplateWelcome,
		map[string]string{
			"UserFirstName": firstName,
			"Username":      username,
		},
	)
}

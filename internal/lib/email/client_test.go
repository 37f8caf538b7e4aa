package email

import (
	"errors"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []*resend.SendEmailRequest
	err  error
}

func (f *fakeSender) Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, params)
	return &resend.SendEmailResponse{Id: "email-1"}, nil
}

func TestRenderTemplate_Welcome(t *testing.T) {
	body, err := RenderTemplate(TemplateWelcome, map[string]string{
		"UserFirstName": "John",
		"Username":      "john",
	})
	require.NoError(t, err)

	assert.Contains(t, body, "John")
	assert.Contains(t, body, "john")
}

func TestRenderTemplate_EscapesHTML(t *testing.T) {
	body, err := RenderTemplate(TemplateWelcome, map[string]string{
		"UserFirstName": "<script>",
		"Username":      "x",
	})
	require.NoError(t, err)

	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestRenderTemplate_Unknown(t *testing.T) {
	_, err := RenderTemplate(Template("missing"), nil)
	assert.Error(t, err)
}

func TestSendWelcomeEmail(t *testing.T) {
	sender := &fakeSender{}
	logger := zerolog.Nop()
	client := NewClientWithSender(sender, &logger)

	require.NoError(t, client.SendWelcomeEmail("ada@example.com", "Ada", "ada"))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"ada@example.com"}, sender.sent[0].To)
	assert.Equal(t, "Welcome aboard, Ada!", sender.sent[0].Subject)
	assert.Contains(t, sender.sent[0].Html, "Welcome, Ada!")
}

func TestSendEmail_ProviderError(t *testing.T) {
	providerErr := errors.New("rate limited")
	logger := zerolog.Nop()
	client := NewClientWithSender(&fakeSender{err: providerErr}, &logger)

	err := client.SendWelcomeEmail("ada@example.com", "Ada", "ada")

	assert.ErrorIs(t, err, providerErr)
}

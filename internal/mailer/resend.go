package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// ResendMailer delivers through the Resend API.
type ResendMailer struct {
	client *resend.Client
	from   string
	logger zerolog.Logger
}

// NewResend builds a ResendMailer for the given API key.
func NewResend(apiKey, from string, logger zerolog.Logger) *ResendMailer {
	return &ResendMailer{
		client: resend.NewClient(apiKey),
		from:   from,
		logger: logger.With().Str("component", "mailer").Str("transport", "resend").Logger(),
	}
}

// Send submits the message to Resend and returns the id Resend assigned.
// Rate limit errors are reported with their reset window but are not
// retried.
func (m *ResendMailer) Send(ctx context.Context, to, subject, body string, html bool) (string, error) {
	if err := ValidateAddress(to); err != nil {
		return "", err
	}

	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
	}
	if html {
		params.Html = body
	} else {
		params.Text = body
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		var rateLimitErr *resend.RateLimitError
		if errors.As(err, &rateLimitErr) {
			m.logger.Warn().
				Str("limit", rateLimitErr.Limit).
				Str("remaining", rateLimitErr.Remaining).
				Str("reset", rateLimitErr.Reset).
				Msg("resend rate limit exceeded")
			return "", fmt.Errorf("email rate limit exceeded (resets in %s seconds): %w", rateLimitErr.Reset, err)
		}
		return "", fmt.Errorf("resend API error: %w", err)
	}

	m.logger.Info().Str("to", to).Str("message_id", sent.Id).Bool("html", html).Msg("email sent")
	return sent.Id, nil
}

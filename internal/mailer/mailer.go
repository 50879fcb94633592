// Package mailer implements the outbound send capability behind the email
// service: one interface, two transports (SMTP relay or the Resend API).
// Sending is synchronous and best-effort; there are no retries here.
package mailer

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"
)

// Mailer sends a single message and returns the provider's message id.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string, html bool) (string, error)
}

// ValidateAddress checks an address for format problems and header
// injection attempts (CR/LF smuggled into the address).
func ValidateAddress(address string) error {
	addr, err := mail.ParseAddress(address)
	if err != nil {
		return fmt.Errorf("invalid email address: %w", err)
	}
	if strings.ContainsAny(addr.Address, "\r\n") {
		return fmt.Errorf("invalid email address: contains newline characters")
	}
	return nil
}

// SMTPMailer delivers through a plain-auth SMTP relay (Gmail-style).
type SMTPMailer struct {
	host   string
	port   string
	user   string
	pass   string
	from   string
	logger zerolog.Logger
}

// NewSMTP builds an SMTPMailer.
func NewSMTP(host, port, user, pass, from string, logger zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{
		host:   host,
		port:   port,
		user:   user,
		pass:   pass,
		from:   from,
		logger: logger.With().Str("component", "mailer").Str("transport", "smtp").Logger(),
	}
}

// Send builds a MIME message and hands it to the relay.  SMTP has no
// provider-assigned id, so the generated Message-ID header is returned
// instead.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string, html bool) (string, error) {
	if err := ValidateAddress(to); err != nil {
		return "", err
	}
	// ctx is accepted for interface symmetry; net/smtp has no context
	// support and the relay connection applies its own OS-level timeouts.
	_ = ctx

	messageID, err := newMessageID(m.host)
	if err != nil {
		return "", fmt.Errorf("generate message id: %w", err)
	}

	contentType := "text/plain; charset=UTF-8"
	if html {
		contentType = "text/html; charset=UTF-8"
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	fmt.Fprintf(&msg, "Message-ID: %s\r\n", messageID)
	fmt.Fprintf(&msg, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: %s\r\n", contentType)
	msg.WriteString("\r\n")
	msg.WriteString(body)

	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	if err := smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{to}, msg.Bytes()); err != nil {
		return "", fmt.Errorf("smtp send: %w", err)
	}

	m.logger.Info().Str("to", to).Str("message_id", messageID).Bool("html", html).Msg("email sent")
	return messageID, nil
}

// newMessageID returns an RFC 5322 style Message-ID built from random
// bytes, e.g. "<9f86d081884c7d65@smtp.example.com>".
func newMessageID(host string) (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("<%s@%s>", hex.EncodeToString(buf), host), nil
}

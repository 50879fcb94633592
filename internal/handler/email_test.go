package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	to, subject, body string
	html              bool
	err               error
}

func (f *fakeMailer) Send(_ context.Context, to, subject, body string, html bool) (string, error) {
	f.to, f.subject, f.body, f.html = to, subject, body, html
	if f.err != nil {
		return "", f.err
	}
	return "msg-123", nil
}

func TestEmailSend(t *testing.T) {
	m := &fakeMailer{}
	h := NewEmailHandler(m)

	body := `{"to":"jane@example.com","subject":"Hi","body":"plain text"}`
	rec, err := request(t, h.Send, http.MethodPost, "/send", body, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var got map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "email sent", got["message"])
	assert.Equal(t, "msg-123", got["message_id"])

	assert.Equal(t, "jane@example.com", m.to)
	assert.Equal(t, "plain text", m.body)
	assert.False(t, m.html)
}

func TestEmailSendHTML(t *testing.T) {
	m := &fakeMailer{}
	h := NewEmailHandler(m)

	body := `{"to":"jane@example.com","subject":"Hi","html_body":"<b>rich</b>"}`
	rec, err := request(t, h.SendHTML, http.MethodPost, "/send-html", body, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<b>rich</b>", m.body)
	assert.True(t, m.html)
}

func TestEmailSendMissingFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no to", `{"subject":"Hi","body":"text"}`},
		{"no subject", `{"to":"jane@example.com","body":"text"}`},
		{"no body", `{"to":"jane@example.com","subject":"Hi"}`},
		{"html body on plain route", `{"to":"jane@example.com","subject":"Hi","html_body":"<b>x</b>"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewEmailHandler(&fakeMailer{})
			_, err := request(t, h.Send, http.MethodPost, "/send", tt.body, nil)
			var he *echo.HTTPError
			require.ErrorAs(t, err, &he)
			assert.Equal(t, http.StatusBadRequest, he.Code)
		})
	}
}

func TestEmailSendTransportFailure(t *testing.T) {
	h := NewEmailHandler(&fakeMailer{err: errors.New("smtp: connection refused")})

	body := `{"to":"jane@example.com","subject":"Hi","body":"text"}`
	_, err := request(t, h.Send, http.MethodPost, "/send", body, nil)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusInternalServerError, he.Code)
}

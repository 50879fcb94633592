package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-certification/internal/mailer"
)

// EmailHandler bundles dependencies for the email endpoints.  Both
// endpoints are attendant-only and synchronous: the response reports
// what the transport did, with no queueing or retries behind it.
type EmailHandler struct {
	Mailer mailer.Mailer
}

// NewEmailHandler constructs an EmailHandler.
func NewEmailHandler(m mailer.Mailer) *EmailHandler {
	return &EmailHandler{Mailer: m}
}

type sendReq struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	HTMLBody string `json:"html_body"`
}

// Send handles POST /send: plain text email.
func (h *EmailHandler) Send(c echo.Context) error {
	var req sendReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	if req.To == "" || req.Subject == "" || req.Body == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "required fields: to, subject, body")
	}
	return h.deliver(c, req.To, req.Subject, req.Body, false)
}

// SendHTML handles POST /send-html: HTML email.
func (h *EmailHandler) SendHTML(c echo.Context) error {
	var req sendReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	if req.To == "" || req.Subject == "" || req.HTMLBody == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "required fields: to, subject, html_body")
	}
	return h.deliver(c, req.To, req.Subject, req.HTMLBody, true)
}

func (h *EmailHandler) deliver(c echo.Context, to, subject, body string, html bool) error {
	messageID, err := h.Mailer.Send(c.Request().Context(), to, subject, body, html)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "email sent",
		"message_id": messageID,
	})
}

// Package handler contains the HTTP handlers for both services.  Handlers
// bind and validate payloads, call the store or a service and map domain
// errors to status codes; everything else (auth, caching, error bodies)
// lives in middleware and the router.
package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-certification/internal/enrollment"
	"github.com/iliyamo/event-certification/internal/middleware"
	"github.com/iliyamo/event-certification/internal/model"
	"github.com/iliyamo/event-certification/internal/queue"
	"github.com/iliyamo/event-certification/internal/repository"
	"github.com/iliyamo/event-certification/internal/service"
	"github.com/iliyamo/event-certification/internal/utils"
)

// EventStore is the slice of the record store the event handlers use.
// *repository.EventRepo satisfies it.
type EventStore interface {
	List(ctx context.Context) ([]model.Event, error)
	GetByID(ctx context.Context, id uint64) (*model.Event, error)
	Create(ctx context.Context, ev *model.Event) error
	Update(ctx context.Context, id uint64, patch repository.EventPatch) (*model.Event, error)
	Delete(ctx context.Context, id uint64) error
}

// EventFinisher runs the finish-event workflow.  *service.Issuer
// satisfies it.
type EventFinisher interface {
	FinishEvent(ctx context.Context, eventID uint64, token string) (*service.FinishResult, error)
}

// ValidationError carries the full list of payload problems; the router's
// error handler renders it as a 422 with the list attached.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string { return strings.Join(e.Problems, "; ") }

// EventHandler bundles dependencies for the event endpoints.
type EventHandler struct {
	Events    EventStore
	Finisher  EventFinisher
	Publisher *queue.Publisher // nil when the audit queue is disabled
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(events EventStore, finisher EventFinisher, publisher *queue.Publisher) *EventHandler {
	return &EventHandler{Events: events, Finisher: finisher, Publisher: publisher}
}

// eventID parses the :id route parameter.  Non-numeric ids look the same
// as unknown ones to the client: 404.
func eventID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, "event not found")
	}
	return id, nil
}

// List handles GET /events/ (public).
func (h *EventHandler) List(c echo.Context) error {
	events, err := h.Events.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

// Get handles GET /events/:id (public).
func (h *EventHandler) Get(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return err
	}
	ev, err := h.Events.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "event not found")
		}
		return err
	}
	return c.JSON(http.StatusOK, ev)
}

// Create handles POST /events/ (attendant only).
func (h *EventHandler) Create(c echo.Context) error {
	var in utils.EventInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	fields, problems := utils.ValidateEventCreate(in)
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}

	ev := &model.Event{
		Title:       fields.Title,
		Description: fields.Description,
		Location:    fields.Location,
		StartsAt:    fields.StartsAt,
		EndsAt:      fields.EndsAt,
	}
	if err := h.Events.Create(c.Request().Context(), ev); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ev)
}

// Update handles PUT /events/:id (attendant only).  Partial payloads are
// allowed; absent fields stay untouched.
func (h *EventHandler) Update(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return err
	}
	var in utils.EventInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	patch, problems := utils.ValidateEventUpdate(in)
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}

	ev, err := h.Events.Update(c.Request().Context(), id, *patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "event not found")
		}
		return err
	}
	return c.JSON(http.StatusOK, ev)
}

// Delete handles DELETE /events/:id (attendant only).
func (h *EventHandler) Delete(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return err
	}
	if err := h.Events.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "event not found")
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Finish handles POST /events/:id/finish (attendant only).  The caller's
// own bearer token is forwarded to the enrollments service.  Calling
// finish again on the same event is allowed: the run re-attempts every
// present attendee and reports zero generated when all certificates
// already exist.
func (h *EventHandler) Finish(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	result, err := h.Finisher.FinishEvent(ctx, id, middleware.TokenFrom(c))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "event not found")
		case errors.Is(err, enrollment.ErrUnavailable):
			return echo.NewHTTPError(http.StatusBadGateway, err.Error())
		default:
			return err
		}
	}

	h.publishFinished(ctx, result)

	return c.JSON(http.StatusOK, echo.Map{
		"message":                "finish workflow completed",
		"event_id":               result.EventID,
		"certificates_generated": result.CertificatesGenerated,
		"total_attended":         result.TotalAttended,
	})
}

// publishFinished emits the audit message for a completed run.  Best
// effort: a broker failure is logged by the publisher and never affects
// the HTTP response.
func (h *EventHandler) publishFinished(ctx context.Context, result *service.FinishResult) {
	if h.Publisher == nil {
		return
	}
	title := ""
	if ev, err := h.Events.GetByID(ctx, result.EventID); err == nil {
		title = ev.Title
	}
	if err := h.Publisher.PublishEventFinished(ctx, queue.EventFinishedMessage{
		EventID:               result.EventID,
		Title:                 title,
		TotalAttended:         result.TotalAttended,
		CertificatesGenerated: result.CertificatesGenerated,
		FinishedAt:            time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		log.Printf("finish: audit publish failed for event %d: %v", result.EventID, err)
	}
}

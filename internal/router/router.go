// Package router wires the HTTP surfaces of both services: route
// registration, CORS, the best-effort authentication perimeter and the
// error body renderer.
package router

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/event-certification/internal/auth"
	"github.com/iliyamo/event-certification/internal/handler"
	"github.com/iliyamo/event-certification/internal/middleware"
)

// RegisterEvents registers the events/certificates API.  Authentication
// is attempted on every request but only enforced by the per-route
// gates: reads are public, writes require the attendant claim and the
// certificate listing requires any identity.  Public GETs may be served
// from the redis response cache (rdb may be nil to disable it).
func RegisterEvents(e *echo.Echo, v *auth.Verifier, health *handler.HealthHandler, events *handler.EventHandler, certs *handler.CertificateHandler, rdb *redis.Client, cacheTTL time.Duration) {
	e.HTTPErrorHandler = HTTPErrorHandler
	e.Use(echomw.CORS())
	e.Use(middleware.Authenticate(v))

	e.GET("/", health.Root)
	e.GET("/ping", health.Ping)
	e.GET("/health", health.Health)

	cache := middleware.Cache(rdb, cacheTTL)
	attendant := middleware.RequireAttendant()

	ev := e.Group("/events")
	ev.GET("", events.List, cache)
	ev.GET("/", events.List, cache)
	ev.GET("/:id", events.Get, cache)
	ev.POST("", events.Create, attendant)
	ev.POST("/", events.Create, attendant)
	ev.PUT("/:id", events.Update, attendant)
	ev.DELETE("/:id", events.Delete, attendant)
	ev.POST("/:id/finish", events.Finish, attendant)

	ce := e.Group("/certificates")
	ce.GET("/me", certs.Me, middleware.RequireIdentity())
	ce.GET("/verify/:hash", certs.Verify, cache)
}

// RegisterEmail registers the email API.  Both send endpoints demand the
// attendant claim.
func RegisterEmail(e *echo.Echo, v *auth.Verifier, health *handler.HealthHandler, email *handler.EmailHandler) {
	e.HTTPErrorHandler = HTTPErrorHandler
	e.Use(echomw.CORS())
	e.Use(middleware.Authenticate(v))

	e.GET("/", health.Root)
	e.GET("/ping", health.Ping)
	e.GET("/health", health.Health)

	attendant := middleware.RequireAttendant()
	e.POST("/send", email.Send, attendant)
	e.POST("/send-html", email.SendHTML, attendant)
}

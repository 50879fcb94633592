package main // Entry point for the email service

import (
	"log"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/event-certification/internal/auth"
	"github.com/iliyamo/event-certification/internal/config"
	"github.com/iliyamo/event-certification/internal/handler"
	"github.com/iliyamo/event-certification/internal/mailer"
	"github.com/iliyamo/event-certification/internal/router"
)

const (
	appName    = "Email Service"
	appVersion = "1.0.0"
)

func main() {
	cfg := config.LoadEmail()
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "email").Logger()

	verifier, err := auth.NewVerifierFromFile(cfg.PublicKeyPath)
	if err != nil {
		log.Fatalf("load public key: %v", err)
	}

	var m mailer.Mailer
	switch cfg.Provider {
	case "smtp":
		m = mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.From, logger)
	case "resend":
		m = mailer.NewResend(cfg.ResendAPIKey, cfg.From, logger)
	}

	e := echo.New()
	router.RegisterEmail(e, verifier,
		handler.NewHealthHandler(appName, appVersion),
		handler.NewEmailHandler(m))

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

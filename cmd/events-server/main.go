package main // Entry point for the events/certificates service

import (
	"log"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/event-certification/internal/auth"
	"github.com/iliyamo/event-certification/internal/config"
	"github.com/iliyamo/event-certification/internal/database"
	"github.com/iliyamo/event-certification/internal/enrollment"
	"github.com/iliyamo/event-certification/internal/handler"
	"github.com/iliyamo/event-certification/internal/queue"
	"github.com/iliyamo/event-certification/internal/repository"
	"github.com/iliyamo/event-certification/internal/router"
	"github.com/iliyamo/event-certification/internal/service"
)

const (
	appName    = "Events API"
	appVersion = "1.0.0"
)

func main() {
	cfg := config.LoadEvents()
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "events").Logger()

	// A service that cannot verify tokens must not come up at all.
	verifier, err := auth.NewVerifierFromFile(cfg.PublicKeyPath)
	if err != nil {
		log.Fatalf("load public key: %v", err)
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	eventRepo := repository.NewEventRepo(db)
	certRepo := repository.NewCertificateRepo(db)
	enrollments := enrollment.NewClient(cfg.EnrollmentsURL, logger)
	issuer := service.NewIssuer(eventRepo, certRepo, enrollments, cfg.CertificateSalt, logger)

	publisher := queue.NewPublisher(cfg.AMQPURL, logger)
	if cfg.AMQPURL != "" {
		go func() {
			if err := queue.StartFinishedConsumer(cfg.AMQPURL); err != nil {
				log.Printf("finished-consumer stopped: %v", err)
			}
		}()
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, response cache disabled")
	}

	e := echo.New()
	router.RegisterEvents(e, verifier,
		handler.NewHealthHandler(appName, appVersion),
		handler.NewEventHandler(eventRepo, issuer, publisher),
		handler.NewCertificateHandler(certRepo),
		rdb, cfg.CacheTTL)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

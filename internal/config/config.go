package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time parses cache TTL durations

	"github.com/joho/godotenv" // godotenv loads a local .env file when present
)

// EventsConfig holds runtime configuration for the events/certificates
// service.  Each field corresponds to an environment variable.  Secrets
// (the certificate salt) and identifiers are strings; durations use
// time.Duration so callers never re-parse them.
type EventsConfig struct {
	Env             string        // application environment (e.g. "dev", "prod")
	Port            string        // HTTP port to listen on
	DBUser          string        // database username
	DBPass          string        // database password (optional)
	DBHost          string        // database host address
	DBPort          string        // database port number
	DBName          string        // database name
	PublicKeyPath   string        // path to the RS256 public key PEM used to verify tokens
	EnrollmentsURL  string        // base URL of the enrollments microservice
	CertificateSalt string        // shared secret salt mixed into certificate hashes
	CacheTTL        time.Duration // TTL for cached public responses
	AMQPURL         string        // RabbitMQ URL for issuance audit messages (optional)
}

// EmailConfig holds runtime configuration for the email service.  The
// provider field selects the outbound transport: "smtp" or "resend".
type EmailConfig struct {
	Env           string // application environment
	Port          string // HTTP port to listen on
	PublicKeyPath string // path to the RS256 public key PEM used to verify tokens
	Provider      string // outbound mail transport: "smtp" | "resend"
	From          string // sender address for all outgoing mail
	SMTPHost      string // SMTP relay host (provider=smtp)
	SMTPPort      string // SMTP relay port (provider=smtp)
	SMTPUser      string // SMTP username (provider=smtp)
	SMTPPass      string // SMTP password or app password (provider=smtp)
	ResendAPIKey  string // Resend API key (provider=resend)
}

// LoadEvents reads the events service configuration.  A .env file in the
// working directory is merged first; real environment variables win.
// Required variables are enforced by must() and missing values cause the
// process to exit with a fatal log message.
func LoadEvents() EventsConfig {
	_ = godotenv.Load() // best effort; absence of .env is fine

	return EventsConfig{
		Env:             must("APP_ENV"),
		Port:            must("APP_PORT"),
		DBUser:          must("DB_USER"),
		DBPass:          os.Getenv("DB_PASS"), // empty allowed
		DBHost:          must("DB_HOST"),
		DBPort:          must("DB_PORT"),
		DBName:          must("DB_NAME"),
		PublicKeyPath:   must("JWT_PUBLIC_KEY_PATH"),
		EnrollmentsURL:  must("ENROLLMENTS_SERVICE_URL"),
		CertificateSalt: must("CERTIFICATE_SALT"),
		CacheTTL:        seconds("CACHE_TTL_SECONDS", 60),
		AMQPURL:         os.Getenv("RABBITMQ_URL"), // optional; empty disables the audit queue
	}
}

// LoadEmail reads the email service configuration.  Transport credentials
// are validated here: only the variables for the selected provider are
// required.
func LoadEmail() EmailConfig {
	_ = godotenv.Load()

	cfg := EmailConfig{
		Env:           must("APP_ENV"),
		Port:          must("APP_PORT"),
		PublicKeyPath: must("JWT_PUBLIC_KEY_PATH"),
		Provider:      must("EMAIL_PROVIDER"),
		From:          must("EMAIL_FROM"),
	}
	switch cfg.Provider {
	case "smtp":
		cfg.SMTPHost = must("SMTP_HOST")
		cfg.SMTPPort = must("SMTP_PORT")
		cfg.SMTPUser = must("SMTP_USER")
		cfg.SMTPPass = must("SMTP_PASS")
	case "resend":
		cfg.ResendAPIKey = must("RESEND_API_KEY")
	default:
		log.Fatalf("unknown EMAIL_PROVIDER: %q (want smtp or resend)", cfg.Provider)
	}
	return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// seconds reads an optional integer variable and returns it as a duration
// in seconds, falling back to def when unset.  Invalid values are fatal.
func seconds(key string, def int) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return time.Duration(def) * time.Second
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return time.Duration(n) * time.Second
}

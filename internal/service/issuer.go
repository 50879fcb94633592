// Package service holds the certificate issuer, the one orchestration in
// the system with real failure semantics: finish an event, fetch its
// attendance from the enrollments service on the caller's credential and
// issue one certificate per attendee, tolerating per-record failures.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iliyamo/event-certification/internal/enrollment"
	"github.com/iliyamo/event-certification/internal/model"
	"github.com/iliyamo/event-certification/internal/repository"
)

// EventStore is the slice of the record store the issuer needs.
// *repository.EventRepo satisfies it.
type EventStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Event, error)
	MarkFinished(ctx context.Context, id uint64) error
}

// CertificateStore persists issued certificates.  Create must return
// repository.ErrDuplicate when the (user, event) pair already holds one.
// *repository.CertificateRepo satisfies it.
type CertificateStore interface {
	Create(ctx context.Context, userID, eventID uint64, hash string) error
}

// AttendanceFetcher supplies the filtered attendance list for an event.
// *enrollment.Client satisfies it.
type AttendanceFetcher interface {
	Attended(ctx context.Context, eventID uint64, token string) ([]enrollment.Attendance, error)
}

// FinishResult aggregates the outcome of one finish run.  TotalAttended
// counts present entries before dedup; CertificatesGenerated counts the
// inserts that actually succeeded this run.
type FinishResult struct {
	EventID               uint64 `json:"event_id"`
	CertificatesGenerated int    `json:"certificates_generated"`
	TotalAttended         int    `json:"total_attended"`
}

// Issuer runs the finish-event workflow.
type Issuer struct {
	events EventStore
	certs  CertificateStore
	enroll AttendanceFetcher
	salt   string
	logger zerolog.Logger
}

// NewIssuer wires the issuer with its collaborators.  salt is the shared
// secret mixed into every certificate hash.
func NewIssuer(events EventStore, certs CertificateStore, enroll AttendanceFetcher, salt string, logger zerolog.Logger) *Issuer {
	return &Issuer{
		events: events,
		certs:  certs,
		enroll: enroll,
		salt:   salt,
		logger: logger.With().Str("component", "issuer").Logger(),
	}
}

// CertificateHash derives the capability hash for a certificate:
// SHA256("<userID>:<eventID>:<salt>:<issuedAt RFC3339Nano>"), lowercase
// hex, 64 characters.  The wall-clock component makes the hash
// unpredictable and non-reproducible across retries; deduplication is the
// store's unique key, never the hash.
func CertificateHash(userID, eventID uint64, salt string, issuedAt time.Time) string {
	input := fmt.Sprintf("%d:%d:%s:%s", userID, eventID, salt, issuedAt.UTC().Format(time.RFC3339Nano))
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// FinishEvent marks the event finished and issues certificates for its
// attendees.  The caller's bearer token is forwarded to the enrollments
// service unchanged.
//
// Failure policy, in workflow order:
//   - unknown event: repository.ErrNotFound, nothing mutated;
//   - enrollments unreachable / non-2xx: enrollment.ErrUnavailable, the
//     event stays marked finished;
//   - 2xx with a non-list body: degraded to an empty attendance list and
//     logged, the call still succeeds;
//   - individual insert failures (duplicates included): swallowed, the
//     loop continues, the record is simply not counted as generated.
//
// Re-running on an already finished event is allowed and is the expected
// retry path: every present entry is attempted again and the unique key
// blocks the ones that already have certificates.
func (i *Issuer) FinishEvent(ctx context.Context, eventID uint64, token string) (*FinishResult, error) {
	ev, err := i.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if err := i.events.MarkFinished(ctx, ev.ID); err != nil {
		return nil, fmt.Errorf("mark event %d finished: %w", ev.ID, err)
	}

	attended, err := i.enroll.Attended(ctx, ev.ID, token)
	if err != nil {
		if errors.Is(err, enrollment.ErrBadResponse) {
			i.logger.Warn().
				Uint64("event_id", ev.ID).
				Msg("enrollments returned a non-list body, treating as empty attendance")
			attended = nil
		} else {
			return nil, err
		}
	}

	generated := 0
	for _, a := range attended {
		if a.UserID == 0 {
			// present but unidentifiable: counted attended, never issued
			continue
		}
		hash := CertificateHash(a.UserID, ev.ID, i.salt, time.Now())
		if err := i.certs.Create(ctx, a.UserID, ev.ID, hash); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				i.logger.Debug().
					Uint64("event_id", ev.ID).
					Uint64("user_id", a.UserID).
					Msg("certificate already issued")
			} else {
				i.logger.Warn().
					Err(err).
					Uint64("event_id", ev.ID).
					Uint64("user_id", a.UserID).
					Msg("certificate insert failed, continuing")
			}
			continue
		}
		generated++
	}

	i.logger.Info().
		Uint64("event_id", ev.ID).
		Int("total_attended", len(attended)).
		Int("certificates_generated", generated).
		Msg("finish workflow completed")

	return &FinishResult{
		EventID:               ev.ID,
		CertificatesGenerated: generated,
		TotalAttended:         len(attended),
	}, nil
}

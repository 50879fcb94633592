package model

import "time"

// Certificate proves that a user attended a finished event.  The hash is
// the primary key: anyone holding it can verify the certificate through
// the public lookup endpoint, so it doubles as a bearer capability.  A
// (UserID, EventID) pair carries at most one certificate, enforced by a
// unique key in the store rather than by the hash itself.
//
// Fields:
//
//	Hash     – 64 lowercase hex chars, SHA-256 of user, event, salt and
//	           issuance timestamp.  Unpredictable, not reproducible.
//	UserID   – user the certificate was issued to (identity provider id).
//	EventID  – event the certificate belongs to.
//	IssuedAt – insertion timestamp, assigned by the store.
type Certificate struct {
	Hash     string    `json:"hash"`      // certificates.hash (PK)
	UserID   uint64    `json:"user_id"`   // certificates.user_id
	EventID  uint64    `json:"event_id"`  // certificates.event_id
	IssuedAt time.Time `json:"issued_at"` // certificates.issued_at
}

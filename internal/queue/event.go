// Package queue defines message payloads exchanged over the message broker
// plus the publisher and consumer for the issuance audit trail.
package queue

// EventFinishedMessage is published after a finish-event run completes.
// It carries enough information for downstream consumers to log or notify
// without querying the primary database.  Publishing is best-effort: the
// issuance itself is already committed when this message is built.
type EventFinishedMessage struct {
	EventID               uint64 `json:"event_id"`
	Title                 string `json:"title"`
	TotalAttended         int    `json:"total_attended"`
	CertificatesGenerated int    `json:"certificates_generated"`
	FinishedAt            string `json:"finished_at"`
}

package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/event-certification/internal/model"
)

// CertificateRepo persists attendance certificates.  Certificates are
// insert-only from this service's point of view: the issuer creates them
// and the public endpoints read them.  The table carries a unique key on
// (user_id, event_id); that key, not the hash, is what prevents duplicate
// issuance under retries and concurrent finish calls.
type CertificateRepo struct{ DB *sql.DB }

// NewCertificateRepo returns a new CertificateRepo bound to the given database.
func NewCertificateRepo(db *sql.DB) *CertificateRepo { return &CertificateRepo{DB: db} }

// Create inserts a certificate.  issued_at is assigned by the database.
// A unique key violation is reported as ErrDuplicate so the issuance loop
// can swallow it per record and keep going.
func (r *CertificateRepo) Create(ctx context.Context, userID, eventID uint64, hash string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO certificates (hash, user_id, event_id) VALUES (?,?,?)",
		hash, userID, eventID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByHash returns the certificate with the given hash or ErrNotFound.
// This lookup is public: holding the hash is the proof.
func (r *CertificateRepo) GetByHash(ctx context.Context, hash string) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.DB.QueryRowContext(ctx,
		"SELECT hash, user_id, event_id, issued_at FROM certificates WHERE hash = ?",
		hash).Scan(&cert.Hash, &cert.UserID, &cert.EventID, &cert.IssuedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

// ListByUser returns all certificates issued to a user, newest first.
func (r *CertificateRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Certificate, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT hash, user_id, event_id, issued_at FROM certificates WHERE user_id = ? ORDER BY issued_at DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	certs := make([]model.Certificate, 0)
	for rows.Next() {
		var cert model.Certificate
		if err := rows.Scan(&cert.Hash, &cert.UserID, &cert.EventID, &cert.IssuedAt); err != nil {
			return nil, err
		}
		certs = append(certs, cert)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return certs, nil
}

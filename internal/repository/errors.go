// Package repository implements the record store over MySQL.  Sentinel
// errors defined here let handlers and the certificate issuer react to
// specific failure scenarios without inspecting driver error strings
// themselves.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a lookup matches no row.  Handlers
// translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a unique key, most
// importantly the (user_id, event_id) key on certificates.  The issuance
// loop swallows it per record; CRUD handlers translate it into 409.
var ErrDuplicate = errors.New("duplicate record")

// isDuplicateKey reports whether err is a MySQL unique key violation
// (error 1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

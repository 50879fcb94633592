// Package auth validates bearer tokens issued by the external identity
// provider.  Only verification happens here: tokens are signed elsewhere
// with the provider's private key and this service holds nothing but the
// public half.  Verification is a pure function of the header value, the
// configured key and the current time; no state is kept between calls.
package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated caller extracted from a verified token.
// It is built once per request and lives only for that request; nothing
// here is ever persisted.
type Identity struct {
	Subject     string // "sub" claim, opaque user id assigned by the identity provider
	Name        string // "name" claim, display name
	Email       string // "email" claim
	IsAttendant bool   // "is_attendant" claim, grants write privileges
}

// ErrorKind classifies verification failures.  All kinds surface as HTTP
// 401 but expired tokens are reported separately from other signature
// problems.
type ErrorKind int

const (
	KindMissingHeader    ErrorKind = iota // no Authorization header at all
	KindMalformedHeader                   // header present but not "Bearer <token>"
	KindExpiredToken                      // signature fine, exp in the past
	KindInvalidSignature                  // any other parse/verification failure
	KindMissingClaim                      // a required claim is absent or mistyped
)

// Error is the typed failure returned by the verifier.  Claim is set only
// for KindMissingClaim and names the offending claim.
type Error struct {
	Kind  ErrorKind
	Claim string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindMissingHeader:
		return "authorization header missing"
	case KindMalformedHeader:
		return "authorization header malformed, want: Bearer <token>"
	case KindExpiredToken:
		return "token expired"
	case KindMissingClaim:
		return fmt.Sprintf("required claim missing: %s", e.Claim)
	default:
		return "token invalid"
	}
}

// Verifier checks RS256 signatures against a single fixed public key.
type Verifier struct {
	key *rsa.PublicKey
}

// NewVerifier builds a Verifier from a PEM-encoded RSA public key.
func NewVerifier(pemBytes []byte) (*Verifier, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("parse RSA public key: %w", err)
	}
	return &Verifier{key: key}, nil
}

// NewVerifierFromFile reads the public key from disk.  Callers are
// expected to fail fast on error; a service without a key cannot
// authenticate anything.
func NewVerifierFromFile(path string) (*Verifier, error) {
	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read public key %s: %w", path, err)
	}
	return NewVerifier(pemBytes)
}

// TokenFromHeader extracts the raw token from an Authorization header.
// The header must consist of exactly two space-separated parts with a
// case-insensitive "Bearer" scheme; anything else is malformed.  An empty
// header is reported as missing so callers can treat absence as
// non-fatal on public routes.
func TokenFromHeader(header string) (string, *Error) {
	if strings.TrimSpace(header) == "" {
		return "", &Error{Kind: KindMissingHeader}
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", &Error{Kind: KindMalformedHeader}
	}
	return parts[1], nil
}

// VerifyHeader validates a full Authorization header value and returns
// the caller identity together with the raw token, which downstream
// calls forward verbatim to the enrollments service.
func (v *Verifier) VerifyHeader(header string) (*Identity, string, error) {
	token, aerr := TokenFromHeader(header)
	if aerr != nil {
		return nil, "", aerr
	}
	id, err := v.VerifyToken(token)
	if err != nil {
		return nil, "", err
	}
	return id, token, nil
}

// VerifyToken validates the signature and required claims of a raw token.
// The algorithm is pinned to RS256: "none" and symmetric algorithms are
// rejected before any key material is used.
func (v *Verifier) VerifyToken(raw string) (*Identity, error) {
	parsed, err := jwt.Parse(raw,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
			}
			return v.key, nil
		},
		jwt.WithValidMethods([]string{"RS256"}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, &Error{Kind: KindExpiredToken}
		}
		return nil, &Error{Kind: KindInvalidSignature}
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, &Error{Kind: KindInvalidSignature}
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, &Error{Kind: KindMissingClaim, Claim: "sub"}
	}
	name, ok := claims["name"].(string)
	if !ok {
		return nil, &Error{Kind: KindMissingClaim, Claim: "name"}
	}
	email, ok := claims["email"].(string)
	if !ok {
		return nil, &Error{Kind: KindMissingClaim, Claim: "email"}
	}
	isAttendant, ok := claims["is_attendant"].(bool)
	if !ok {
		return nil, &Error{Kind: KindMissingClaim, Claim: "is_attendant"}
	}

	return &Identity{
		Subject:     sub,
		Name:        name,
		Email:       email,
		IsAttendant: isAttendant,
	}, nil
}

package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestKeys generates a throwaway RSA pair and returns the private key
// plus the PEM-encoded public half the verifier consumes.
func newTestKeys(t *testing.T) (*rsa.PrivateKey, []byte) {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)

	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return priv, pemBytes
}

func signRS256(t *testing.T, priv *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(priv)
	require.NoError(t, err)
	return raw
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":          "42",
		"name":         "Jane Attendant",
		"email":        "jane@example.com",
		"is_attendant": true,
		"exp":          time.Now().Add(time.Hour).Unix(),
	}
}

func TestVerifyTokenValid(t *testing.T) {
	priv, pub := newTestKeys(t)
	v, err := NewVerifier(pub)
	require.NoError(t, err)

	id, err := v.VerifyToken(signRS256(t, priv, validClaims()))
	require.NoError(t, err)

	assert.Equal(t, "42", id.Subject)
	assert.Equal(t, "Jane Attendant", id.Name)
	assert.Equal(t, "jane@example.com", id.Email)
	assert.True(t, id.IsAttendant)
}

func TestVerifyTokenMissingClaims(t *testing.T) {
	priv, pub := newTestKeys(t)
	v, err := NewVerifier(pub)
	require.NoError(t, err)

	for _, claim := range []string{"sub", "name", "email", "is_attendant"} {
		t.Run(claim, func(t *testing.T) {
			claims := validClaims()
			delete(claims, claim)

			_, err := v.VerifyToken(signRS256(t, priv, claims))
			var aerr *Error
			require.ErrorAs(t, err, &aerr)
			assert.Equal(t, KindMissingClaim, aerr.Kind)
			assert.Equal(t, claim, aerr.Claim)
		})
	}
}

func TestVerifyTokenMistypedClaim(t *testing.T) {
	priv, pub := newTestKeys(t)
	v, err := NewVerifier(pub)
	require.NoError(t, err)

	claims := validClaims()
	claims["is_attendant"] = "yes" // string, not bool

	_, err = v.VerifyToken(signRS256(t, priv, claims))
	var aerr *Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, KindMissingClaim, aerr.Kind)
	assert.Equal(t, "is_attendant", aerr.Claim)
}

func TestVerifyTokenExpired(t *testing.T) {
	priv, pub := newTestKeys(t)
	v, err := NewVerifier(pub)
	require.NoError(t, err)

	claims := validClaims()
	claims["exp"] = time.Now().Add(-time.Hour).Unix()

	_, err = v.VerifyToken(signRS256(t, priv, claims))
	var aerr *Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, KindExpiredToken, aerr.Kind)
}

func TestVerifyTokenWrongKey(t *testing.T) {
	otherPriv, _ := newTestKeys(t)
	_, pub := newTestKeys(t)
	v, err := NewVerifier(pub)
	require.NoError(t, err)

	_, err = v.VerifyToken(signRS256(t, otherPriv, validClaims()))
	var aerr *Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, KindInvalidSignature, aerr.Kind)
}

func TestVerifyTokenRejectsHMAC(t *testing.T) {
	_, pub := newTestKeys(t)
	v, err := NewVerifier(pub)
	require.NoError(t, err)

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims()).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = v.VerifyToken(raw)
	var aerr *Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, KindInvalidSignature, aerr.Kind)
}

func TestTokenFromHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		token  string
		kind   ErrorKind
	}{
		{name: "well formed", header: "Bearer abc.def.ghi", token: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer abc.def.ghi", token: "abc.def.ghi"},
		{name: "empty", header: "", kind: KindMissingHeader},
		{name: "blank", header: "   ", kind: KindMissingHeader},
		{name: "token only", header: "abc.def.ghi", kind: KindMalformedHeader},
		{name: "three parts", header: "Bearer abc def", kind: KindMalformedHeader},
		{name: "wrong scheme", header: "Basic abc.def.ghi", kind: KindMalformedHeader},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, aerr := TokenFromHeader(tt.header)
			if tt.token != "" {
				require.Nil(t, aerr)
				assert.Equal(t, tt.token, token)
				return
			}
			require.NotNil(t, aerr)
			assert.Equal(t, tt.kind, aerr.Kind)
		})
	}
}

func TestVerifyHeaderReturnsRawToken(t *testing.T) {
	priv, pub := newTestKeys(t)
	v, err := NewVerifier(pub)
	require.NoError(t, err)

	raw := signRS256(t, priv, validClaims())
	id, token, err := v.VerifyHeader("Bearer " + raw)
	require.NoError(t, err)
	assert.Equal(t, raw, token)
	assert.Equal(t, "42", id.Subject)
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-certification/internal/middleware"
	"github.com/iliyamo/event-certification/internal/model"
	"github.com/iliyamo/event-certification/internal/repository"
)

// CertificateStore is the slice of the record store the certificate
// handlers use.  *repository.CertificateRepo satisfies it.
type CertificateStore interface {
	GetByHash(ctx context.Context, hash string) (*model.Certificate, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Certificate, error)
}

// CertificateHandler bundles dependencies for the certificate endpoints.
type CertificateHandler struct {
	Certs CertificateStore
}

// NewCertificateHandler constructs a CertificateHandler.
func NewCertificateHandler(certs CertificateStore) *CertificateHandler {
	return &CertificateHandler{Certs: certs}
}

// Me handles GET /certificates/me.  Any authenticated identity may list
// its own certificates; attendant privileges are not required.  The
// token's subject is the identity provider's user id and must parse as an
// integer to match the stored user_id column.
func (h *CertificateHandler) Me(c echo.Context) error {
	id := middleware.IdentityFrom(c) // non-nil, RequireIdentity ran
	userID, err := strconv.ParseUint(id.Subject, 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "subject claim is not a valid user id")
	}

	certs, err := h.Certs.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, certs)
}

// Verify handles GET /certificates/verify/:hash (public).  Possession of
// the hash is the whole credential: whoever holds it may confirm the
// certificate exists and see what it was issued for.
func (h *CertificateHandler) Verify(c echo.Context) error {
	cert, err := h.Certs.GetByHash(c.Request().Context(), c.Param("hash"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "certificate not found")
		}
		return err
	}
	return c.JSON(http.StatusOK, cert)
}

package httpapi

import (
	"errors"
	"net/http"

	"vivacondo-api/internal/authz"
	"vivacondo-api/internal/service"

	"go.uber.org/zap"
)

// writeError maps a service error to its HTTP answer. Business errors
// carry user-facing Portuguese messages; anything unrecognized is an
// infrastructure failure and stays opaque.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	if rej, ok := authz.AsRejection(err); ok {
		writeJSON(w, rej.HTTPStatus(), Fail(rej.Message()))
		return
	}

	switch {
	case service.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, Fail(err.Error()))
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, Fail(err.Error()))
	case errors.Is(err, service.ErrAccountDisabled),
		errors.Is(err, service.ErrNoActiveCondominium):
		writeJSON(w, http.StatusForbidden, Fail(err.Error()))
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrDeliveryAlreadyDone):
		writeJSON(w, http.StatusUnprocessableEntity, Fail(err.Error()))
	default:
		logger.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("Erro interno."))
	}
}

package httpapi

import (
	"net/http"

	"vivacondo-api/internal/service"

	"go.uber.org/zap"
)

type AuthHandler struct {
	auth   service.AuthService
	logger *zap.Logger
}

func NewAuthHandler(auth service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := readBodyJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("Requisição inválida."))
		return
	}
	req.IPAddress = clientIP(r)
	req.UserAgent = r.UserAgent()

	resp, err := h.auth.Login(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), bearerToken(r)); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}

// ValidateToken answers the caller's identity; reaching it at all means
// the token passed RequireAuth.
func (h *AuthHandler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	caller := CallerFrom(r.Context())
	payload := map[string]any{
		"id":        caller.ID,
		"name":      caller.Name,
		"last_name": caller.LastName,
		"email":     caller.Email,
		"role":      caller.Role,
	}
	if caller.CondominiumID.Valid {
		payload["condominium_id"] = caller.CondominiumID.Int64
	}
	if len(caller.LinkedCondominiumIDs) > 0 {
		payload["linked_condominium_ids"] = caller.LinkedCondominiumIDs
	}
	writeJSON(w, http.StatusOK, Ok(payload))
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	return r.RemoteAddr
}

package httpapi

import (
	"net/http"

	"vivacondo-api/internal/service"

	"go.uber.org/zap"
)

// CondominiumHandler serves the platform-level tenant management
// routes. The router wraps every route here in RequireSuporte; no
// condominium resolution applies because the target condominium is the
// subject, not the scope.
type CondominiumHandler struct {
	condos service.CondominiumService
	logger *zap.Logger
}

func NewCondominiumHandler(condos service.CondominiumService, logger *zap.Logger) *CondominiumHandler {
	return &CondominiumHandler{condos: condos, logger: logger}
}

// Collection serves /api/condominiums (list, create).
func (h *CondominiumHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		page, size := pageParams(r)
		req := service.ListCondominiumsRequest{
			Search: r.URL.Query().Get("search"),
			Page:   page,
			Size:   size,
		}
		if s := r.URL.Query().Get("active"); s != "" {
			active := s == "true"
			req.Active = &active
		}
		resp, err := h.condos.ListCondominiums(r.Context(), req)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(resp))

	case http.MethodPost:
		var req service.CondominiumRequest
		if err := readBodyJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("Requisição inválida."))
			return
		}
		detail, err := h.condos.CreateCondominium(r.Context(), req)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, Ok(detail))

	default:
		methodNotAllowed(w)
	}
}

// Item serves /api/condominiums/{id} and /api/condominiums/{id}/status.
func (h *CondominiumHandler) Item(w http.ResponseWriter, r *http.Request) {
	id, rest, ok := pathID(r.URL.Path, "/api/condominiums/")
	if !ok {
		writeJSON(w, http.StatusNotFound, Fail("Condomínio não encontrado."))
		return
	}

	switch {
	case rest == "" && r.Method == http.MethodGet:
		detail, err := h.condos.GetCondominium(r.Context(), id)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(detail))

	case rest == "" && r.Method == http.MethodPut:
		var req service.CondominiumRequest
		if err := readBodyJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("Requisição inválida."))
			return
		}
		detail, err := h.condos.UpdateCondominium(r.Context(), id, req)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(detail))

	case rest == "" && r.Method == http.MethodDelete:
		if err := h.condos.DeleteCondominium(r.Context(), id); err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok[any](nil))

	case rest == "status" && r.Method == http.MethodPatch:
		var req struct {
			Active bool `json:"active"`
		}
		if err := readBodyJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("Requisição inválida."))
			return
		}
		if err := h.condos.SetCondominiumStatus(r.Context(), id, req.Active); err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok[any](nil))

	default:
		methodNotAllowed(w)
	}
}

package httpapi

import (
	"net/http"

	"vivacondo-api/internal/service"

	"go.uber.org/zap"
)

type CommonSpaceHandler struct {
	spaces service.CommonSpaceService
	logger *zap.Logger
}

func NewCommonSpaceHandler(spaces service.CommonSpaceService, logger *zap.Logger) *CommonSpaceHandler {
	return &CommonSpaceHandler{spaces: spaces, logger: logger}
}

// Collection serves /api/common-spaces (list, create).
func (h *CommonSpaceHandler) Collection(w http.ResponseWriter, r *http.Request) {
	tenant := TenantFrom(r.Context())

	switch r.Method {
	case http.MethodGet:
		page, size := pageParams(r)
		resp, err := h.spaces.ListCommonSpaces(r.Context(), tenant.CondominiumID, page, size)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(resp))

	case http.MethodPost:
		var req service.CommonSpaceRequest
		if err := readBodyJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("Requisição inválida."))
			return
		}
		detail, err := h.spaces.CreateCommonSpace(r.Context(), CallerFrom(r.Context()), tenant.CondominiumID, req)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, Ok(detail))

	default:
		methodNotAllowed(w)
	}
}

// Item serves /api/common-spaces/{id}.
func (h *CommonSpaceHandler) Item(w http.ResponseWriter, r *http.Request) {
	tenant := TenantFrom(r.Context())
	id, rest, ok := pathID(r.URL.Path, "/api/common-spaces/")
	if !ok || rest != "" {
		writeJSON(w, http.StatusNotFound, Fail("Espaço comum não encontrado."))
		return
	}

	switch r.Method {
	case http.MethodGet:
		detail, err := h.spaces.GetCommonSpace(r.Context(), tenant.CondominiumID, id)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(detail))

	case http.MethodPut:
		var req service.CommonSpaceRequest
		if err := readBodyJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("Requisição inválida."))
			return
		}
		detail, err := h.spaces.UpdateCommonSpace(r.Context(), CallerFrom(r.Context()), tenant.CondominiumID, id, req)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(detail))

	case http.MethodDelete:
		if err := h.spaces.DeleteCommonSpace(r.Context(), CallerFrom(r.Context()), tenant.CondominiumID, id); err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok[any](nil))

	default:
		methodNotAllowed(w)
	}
}

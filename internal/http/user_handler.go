package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"vivacondo-api/internal/service"

	"go.uber.org/zap"
)

type UserHandler struct {
	users  service.UserService
	export service.ExportService
	logger *zap.Logger
}

func NewUserHandler(users service.UserService, export service.ExportService, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, export: export, logger: logger}
}

// Collection serves /api/users (list, create).
func (h *UserHandler) Collection(w http.ResponseWriter, r *http.Request) {
	tenant := TenantFrom(r.Context())

	switch r.Method {
	case http.MethodGet:
		page, size := pageParams(r)
		q := r.URL.Query()
		req := service.ListUsersRequest{
			Role:   q.Get("role"),
			Search: q.Get("search"),
			Page:   page,
			Size:   size,
		}
		if s := q.Get("status"); s != "" {
			active := s == "active" || s == "true"
			req.Status = &active
		}
		if ex := q.Get("exclude_roles"); ex != "" {
			req.ExcludeRoles = strings.Split(ex, ",")
		}
		resp, err := h.users.ListUsers(r.Context(), tenant.CondominiumID, req)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(resp))

	case http.MethodPost:
		var req service.CreateUserRequest
		if err := readBodyJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("Requisição inválida."))
			return
		}
		detail, err := h.users.CreateUser(r.Context(), CallerFrom(r.Context()), tenant.CondominiumID, req)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, Ok(detail))

	default:
		methodNotAllowed(w)
	}
}

// Item serves /api/users/{id} and its sub-resources.
func (h *UserHandler) Item(w http.ResponseWriter, r *http.Request) {
	tenant := TenantFrom(r.Context())
	id, rest, ok := pathID(r.URL.Path, "/api/users/")
	if !ok {
		writeJSON(w, http.StatusNotFound, Fail("Usuário não encontrado."))
		return
	}

	switch {
	case rest == "" && r.Method == http.MethodGet:
		detail, err := h.users.GetUser(r.Context(), tenant.CondominiumID, id)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(detail))

	case rest == "" && r.Method == http.MethodPut:
		var req service.UpdateUserRequest
		if err := readBodyJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("Requisição inválida."))
			return
		}
		detail, err := h.users.UpdateUser(r.Context(), CallerFrom(r.Context()), tenant.CondominiumID, id, req)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(detail))

	case rest == "" && r.Method == http.MethodDelete:
		if err := h.users.DeleteUser(r.Context(), CallerFrom(r.Context()), tenant.CondominiumID, id); err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok[any](nil))

	case rest == "status" && r.Method == http.MethodPatch:
		var req service.UpdateStatusRoleRequest
		if err := readBodyJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("Requisição inválida."))
			return
		}
		detail, err := h.users.UpdateStatusAndRole(r.Context(), CallerFrom(r.Context()), tenant.CondominiumID, id, req)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(detail))

	case rest == "settings" && r.Method == http.MethodPatch:
		var req service.UpdateSettingsRequest
		if err := readBodyJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("Requisição inválida."))
			return
		}
		if err := h.users.UpdateSettings(r.Context(), CallerFrom(r.Context()), tenant.CondominiumID, id, req); err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok[any](nil))

	default:
		methodNotAllowed(w)
	}
}

// Export serves GET /api/users/export as an XLSX download.
func (h *UserHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	tenant := TenantFrom(r.Context())
	data, err := h.export.ExportResidents(r.Context(), tenant.CondominiumID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeXLSX(w, fmt.Sprintf("moradores-%s.xlsx", time.Now().Format("2006-01-02")), data)
}

func writeXLSX(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

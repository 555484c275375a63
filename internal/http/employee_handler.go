package httpapi

import (
	"net/http"

	"vivacondo-api/internal/service"

	"go.uber.org/zap"
)

type EmployeeHandler struct {
	employees service.EmployeeService
	logger    *zap.Logger
}

func NewEmployeeHandler(employees service.EmployeeService, logger *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{employees: employees, logger: logger}
}

// Collection serves /api/employees (list, create).
func (h *EmployeeHandler) Collection(w http.ResponseWriter, r *http.Request) {
	tenant := TenantFrom(r.Context())

	switch r.Method {
	case http.MethodGet:
		page, size := pageParams(r)
		req := service.ListEmployeesRequest{
			Search: r.URL.Query().Get("search"),
			Page:   page,
			Size:   size,
		}
		if s := r.URL.Query().Get("status"); s != "" {
			active := s == "active" || s == "true"
			req.Status = &active
		}
		resp, err := h.employees.ListEmployees(r.Context(), tenant.CondominiumID, req)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(resp))

	case http.MethodPost:
		var req service.CreateEmployeeRequest
		if err := readBodyJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("Requisição inválida."))
			return
		}
		detail, err := h.employees.CreateEmployee(r.Context(), CallerFrom(r.Context()), tenant.CondominiumID, req)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, Ok(detail))

	default:
		methodNotAllowed(w)
	}
}

// Item serves /api/employees/{id}.
func (h *EmployeeHandler) Item(w http.ResponseWriter, r *http.Request) {
	tenant := TenantFrom(r.Context())
	id, rest, ok := pathID(r.URL.Path, "/api/employees/")
	if !ok || rest != "" {
		writeJSON(w, http.StatusNotFound, Fail("Funcionário não encontrado."))
		return
	}

	switch r.Method {
	case http.MethodGet:
		detail, err := h.employees.GetEmployee(r.Context(), tenant.CondominiumID, id)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(detail))

	case http.MethodPut:
		var req service.UpdateEmployeeRequest
		if err := readBodyJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("Requisição inválida."))
			return
		}
		detail, err := h.employees.UpdateEmployee(r.Context(), CallerFrom(r.Context()), tenant.CondominiumID, id, req)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(detail))

	case http.MethodDelete:
		if err := h.employees.DeleteEmployee(r.Context(), CallerFrom(r.Context()), tenant.CondominiumID, id); err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok[any](nil))

	default:
		methodNotAllowed(w)
	}
}

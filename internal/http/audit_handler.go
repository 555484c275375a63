package httpapi

import (
	"net/http"

	"vivacondo-api/internal/service"

	"go.uber.org/zap"
)

type AuditHandler struct {
	audit  service.AuditService
	logger *zap.Logger
}

func NewAuditHandler(audit service.AuditService, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{audit: audit, logger: logger}
}

// List serves GET /api/audit-logs.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	tenant := TenantFrom(r.Context())
	page, size := pageParams(r)
	resp, err := h.audit.ListAuditLogs(r.Context(), tenant.CondominiumID, page, size)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"vivacondo-api/internal/service"

	"go.uber.org/zap"
)

type DeliveryHandler struct {
	deliveries service.DeliveryService
	export     service.ExportService
	logger     *zap.Logger
}

func NewDeliveryHandler(deliveries service.DeliveryService, export service.ExportService, logger *zap.Logger) *DeliveryHandler {
	return &DeliveryHandler{deliveries: deliveries, export: export, logger: logger}
}

// Collection serves /api/deliveries (list, create).
func (h *DeliveryHandler) Collection(w http.ResponseWriter, r *http.Request) {
	tenant := TenantFrom(r.Context())

	switch r.Method {
	case http.MethodGet:
		page, size := pageParams(r)
		q := r.URL.Query()
		req := service.ListDeliveriesRequest{
			Status: q.Get("status"),
			Search: q.Get("search"),
			Page:   page,
			Size:   size,
		}
		if uid := q.Get("user_id"); uid != "" {
			if id, err := strconv.ParseInt(uid, 10, 64); err == nil {
				req.UserID = id
			}
		}
		resp, err := h.deliveries.ListDeliveries(r.Context(), tenant.CondominiumID, req)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(resp))

	case http.MethodPost:
		var req service.CreateDeliveryRequest
		if err := readBodyJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("Requisição inválida."))
			return
		}
		detail, err := h.deliveries.CreateDelivery(r.Context(), CallerFrom(r.Context()), tenant.CondominiumID, req)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, Ok(detail))

	default:
		methodNotAllowed(w)
	}
}

// Item serves /api/deliveries/{id} and /api/deliveries/{id}/confirm.
func (h *DeliveryHandler) Item(w http.ResponseWriter, r *http.Request) {
	tenant := TenantFrom(r.Context())
	id, rest, ok := pathID(r.URL.Path, "/api/deliveries/")
	if !ok {
		writeJSON(w, http.StatusNotFound, Fail("Entrega não encontrada."))
		return
	}

	switch {
	case rest == "" && r.Method == http.MethodGet:
		detail, err := h.deliveries.GetDelivery(r.Context(), tenant.CondominiumID, id)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(detail))

	case rest == "" && r.Method == http.MethodPut:
		var req service.UpdateDeliveryRequest
		if err := readBodyJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("Requisição inválida."))
			return
		}
		detail, err := h.deliveries.UpdateDelivery(r.Context(), CallerFrom(r.Context()), tenant.CondominiumID, id, req)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(detail))

	case rest == "" && r.Method == http.MethodDelete:
		if err := h.deliveries.DeleteDelivery(r.Context(), CallerFrom(r.Context()), tenant.CondominiumID, id); err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok[any](nil))

	case rest == "confirm" && r.Method == http.MethodPost:
		var req service.ConfirmDeliveryRequest
		if err := readBodyJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("Requisição inválida."))
			return
		}
		detail, err := h.deliveries.ConfirmDelivery(r.Context(), CallerFrom(r.Context()), tenant.CondominiumID, id, req)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(detail))

	default:
		methodNotAllowed(w)
	}
}

// Export serves GET /api/deliveries/export as an XLSX download.
func (h *DeliveryHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	tenant := TenantFrom(r.Context())
	data, err := h.export.ExportDeliveries(r.Context(), tenant.CondominiumID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeXLSX(w, fmt.Sprintf("entregas-%s.xlsx", time.Now().Format("2006-01-02")), data)
}

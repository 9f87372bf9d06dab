package handlers

import (
	"errors"
	"net/http"
	"strings"

	"delivery-allocation/internal/apperr"
	"delivery-allocation/internal/domain"
	"delivery-allocation/internal/logx"
)

// CatalogHandler serves warehouse and order listings.
type CatalogHandler struct {
	logger logx.Logger
	uc     catalogUsecase
}

// NewCatalogHandler wires a catalogUsecase into HTTP handlers.
func NewCatalogHandler(logger logx.Logger, uc catalogUsecase) *CatalogHandler {
	return &CatalogHandler{logger: logger, uc: uc}
}

// Warehouses handles GET /warehouses.
func (h *CatalogHandler) Warehouses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withDBTimeout(r.Context())
	defer cancel()

	list, err := h.uc.Warehouses(ctx)
	if err != nil {
		h.logger.Error("list warehouses failed", logx.Err(err))
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	resp := warehousesResponse{Warehouses: make([]warehouseDTO, 0, len(list))}
	for _, wh := range list {
		resp.Warehouses = append(resp.Warehouses, toWarehouseDTO(wh))
	}
	writeJSON(h.logger, w, r, http.StatusOK, resp)
}

// Orders handles GET /orders[?status=pending]. The status defaults to pending;
// status=all lists every order.
func (h *CatalogHandler) Orders(w http.ResponseWriter, r *http.Request) {
	status := domain.OrderPending
	if s := strings.TrimSpace(r.URL.Query().Get("status")); s != "" {
		status = domain.OrderStatus(s)
	}
	if strings.EqualFold(string(status), "all") {
		status = ""
	}

	ctx, cancel := withDBTimeout(r.Context())
	defer cancel()

	list, err := h.uc.Orders(ctx, status)
	switch {
	case err == nil:
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid order status")
		return
	default:
		h.logger.Error("list orders failed", logx.Err(err))
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}

	resp := ordersResponse{Orders: make([]orderDTO, 0, len(list))}
	for _, o := range list {
		resp.Orders = append(resp.Orders, toOrderDTO(o))
	}
	writeJSON(h.logger, w, r, http.StatusOK, resp)
}

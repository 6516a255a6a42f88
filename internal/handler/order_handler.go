package handler

import (
	"net/http"
	"strconv"

	"sales-order-booking/internal/model"
	"sales-order-booking/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// OrderHandler handles the order listing and detail views.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// List handles GET /api/orders?page=&pageSize=&field=&q= requests.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, ok := h.intParam(w, query.Get("page"), "page")
	if !ok {
		return
	}
	pageSize, ok := h.intParam(w, query.Get("pageSize"), "pageSize")
	if !ok {
		return
	}

	field := model.OrderFilterField(query.Get("field"))
	if field == "" {
		field = model.FilterStoreName
	}

	result, err := h.service.ListOrders(r.Context(), page, pageSize, model.OrderFilter{
		Field: field,
		Value: query.Get("q"),
	})
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetByID handles GET /api/orders/{orderID} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "orderID")
	orderID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || orderID <= 0 {
		writeError(w, http.StatusBadRequest, model.ErrCodeOrderNotFound, "invalid order ID format", h.logger)
		return
	}

	order, err := h.service.GetOrder(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, err, h.logger.With().Int64("order_id", orderID).Logger())
		return
	}

	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) intParam(w http.ResponseWriter, raw, name string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidationFailed, "invalid "+name+" parameter", h.logger)
		return 0, false
	}
	return n, true
}

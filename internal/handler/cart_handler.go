package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"sales-order-booking/internal/model"
	"sales-order-booking/internal/pricing"
	"sales-order-booking/internal/service"
	"sales-order-booking/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// CartView is the cart contents with their priced summary.
type CartView struct {
	Items   []model.LineItem `json:"items"`
	Summary pricing.Summary  `json:"summary"`
}

// AddItemRequest adds either a catalog product or a fully described line.
type AddItemRequest struct {
	ProductID string          `json:"productId"`
	Option    string          `json:"option"`
	Qty       int             `json:"qty"`
	Item      *model.LineItem `json:"item"`
}

// UpdateQtyRequest changes the quantity of one line.
type UpdateQtyRequest struct {
	Qty int `json:"qty"`
}

// UpdatePriceRequest sets the price of the selected option of one line.
// The price may be a JSON number or string; empty or null unsets it.
type UpdatePriceRequest struct {
	Price json.RawMessage `json:"price"`
}

// CartHandler handles cart edits for a session.
type CartHandler struct {
	registry *session.Registry
	products service.ProductService
	logger   zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(registry *session.Registry, products service.ProductService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		registry: registry,
		products: products,
		logger:   logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/sessions/{sessionID}/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupSession(w, r, h.registry, h.logger)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, cartView(s))
}

// Replace handles PUT /api/sessions/{sessionID}/cart.
func (h *CartHandler) Replace(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupSession(w, r, h.registry, h.logger)
	if !ok {
		return
	}

	var items []model.LineItem
	if err := decodeJSON(w, r, &items); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if err := s.Checkout.Edit(func() error { return s.Cart.ReplaceAll(items) }); err != nil {
		writeDomainError(w, err, h.logger.With().Str("session_id", s.ID).Logger())
		return
	}
	writeJSON(w, http.StatusOK, cartView(s))
}

// Clear handles DELETE /api/sessions/{sessionID}/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupSession(w, r, h.registry, h.logger)
	if !ok {
		return
	}
	err := s.Checkout.Edit(func() error {
		s.Cart.Clear()
		return nil
	})
	if err != nil {
		writeDomainError(w, err, h.logger.With().Str("session_id", s.ID).Logger())
		return
	}
	writeJSON(w, http.StatusOK, cartView(s))
}

// AddItem handles POST /api/sessions/{sessionID}/cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupSession(w, r, h.registry, h.logger)
	if !ok {
		return
	}
	logger := h.logger.With().Str("session_id", s.ID).Logger()

	var req AddItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", logger)
		return
	}

	var item model.LineItem
	switch {
	case req.Item != nil:
		item = *req.Item
	case strings.TrimSpace(req.ProductID) != "":
		mode, err := model.ParsePurchaseMode(req.Option)
		if err != nil {
			writeDomainError(w, err, logger)
			return
		}
		product, err := h.products.GetByID(r.Context(), req.ProductID)
		if err != nil {
			writeDomainError(w, err, logger)
			return
		}
		qty := req.Qty
		if qty == 0 {
			qty = 1
		}
		item = product.LineItem(mode, qty)
	default:
		writeError(w, http.StatusBadRequest, model.ErrCodeValidationFailed, "productId or item is required", logger)
		return
	}

	var added model.LineItem
	err := s.Checkout.Edit(func() error {
		var addErr error
		added, addErr = s.Cart.Add(item)
		return addErr
	})
	if err != nil {
		writeDomainError(w, err, logger)
		return
	}

	logger.Debug().Str("cart_id", added.CartID).Str("product_id", added.ProductID).Msg("line item added")
	writeJSON(w, http.StatusCreated, struct {
		Added model.LineItem `json:"added"`
		CartView
	}{Added: added, CartView: cartView(s)})
}

// UpdateQty handles PATCH /api/sessions/{sessionID}/cart/items/{cartID}.
func (h *CartHandler) UpdateQty(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupSession(w, r, h.registry, h.logger)
	if !ok {
		return
	}

	var req UpdateQtyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	cartID := chi.URLParam(r, "cartID")
	if err := s.Checkout.Edit(func() error { return s.Cart.UpdateQty(cartID, req.Qty) }); err != nil {
		writeDomainError(w, err, h.logger.With().Str("session_id", s.ID).Str("cart_id", cartID).Logger())
		return
	}
	writeJSON(w, http.StatusOK, cartView(s))
}

// RemoveItem handles DELETE /api/sessions/{sessionID}/cart/items/{cartID}.
// Removing a line that is not in the cart is not an error.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupSession(w, r, h.registry, h.logger)
	if !ok {
		return
	}
	cartID := chi.URLParam(r, "cartID")
	removed := false
	err := s.Checkout.Edit(func() error {
		removed = s.Cart.Remove(cartID)
		return nil
	})
	if err != nil {
		writeDomainError(w, err, h.logger.With().Str("session_id", s.ID).Str("cart_id", cartID).Logger())
		return
	}
	if !removed {
		h.logger.Debug().Str("session_id", s.ID).Str("cart_id", cartID).Msg("line item not in cart")
	}
	writeJSON(w, http.StatusOK, cartView(s))
}

// UpdatePrice handles PUT /api/sessions/{sessionID}/cart/prices/{index}.
func (h *CartHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupSession(w, r, h.registry, h.logger)
	if !ok {
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeLineItemNotFound, "invalid line index", h.logger)
		return
	}

	var req UpdatePriceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	raw := rawScalar(req.Price)
	if err := s.Checkout.Edit(func() error { return s.Cart.UpdatePrice(index, raw) }); err != nil {
		writeDomainError(w, err, h.logger.With().Str("session_id", s.ID).Int("index", index).Logger())
		return
	}
	writeJSON(w, http.StatusOK, cartView(s))
}

func cartView(s *session.Session) CartView {
	items := s.Cart.Items()
	return CartView{Items: items, Summary: pricing.Summarize(items)}
}

// rawScalar returns a JSON string unquoted, a number verbatim and null as "".
func rawScalar(raw json.RawMessage) string {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return ""
	}
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return text
		}
		return s
	}
	return text
}

package handler

import (
	"errors"
	"net/http"

	"sales-order-booking/internal/checkout"
	"sales-order-booking/internal/model"
	"sales-order-booking/internal/pricing"
	"sales-order-booking/internal/session"
	"sales-order-booking/internal/timefmt"

	"github.com/rs/zerolog"
)

// CheckoutPreview is everything the confirmation view shows before submit.
type CheckoutPreview struct {
	Profile              model.CustomerProfile `json:"profile"`
	ReceivingTimeDisplay string                `json:"receivingTimeDisplay"`
	Missing              []string              `json:"missing"`
	Items                []model.LineItem      `json:"items"`
	Summary              pricing.Summary       `json:"summary"`
	Unpriced             []pricing.Line        `json:"unpriced,omitempty"`
	State                checkout.State        `json:"state"`
	LastError            string                `json:"lastError,omitempty"`
	Ready                bool                  `json:"ready"`
}

// CheckoutHandler handles order review and submission.
type CheckoutHandler struct {
	registry *session.Registry
	logger   zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(registry *session.Registry, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		registry: registry,
		logger:   logger.With().Str("handler", "checkout").Logger(),
	}
}

// Preview handles GET /api/sessions/{sessionID}/checkout.
func (h *CheckoutHandler) Preview(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupSession(w, r, h.registry, h.logger)
	if !ok {
		return
	}

	profile := s.Profile.Profile()
	items := s.Cart.Items()
	summary := pricing.Summarize(items)
	missing := s.Profile.Missing()
	if missing == nil {
		missing = []string{}
	}
	state := s.Checkout.State()

	preview := CheckoutPreview{
		Profile:              profile,
		ReceivingTimeDisplay: timefmt.Display(profile.ReceivingTime),
		Missing:              missing,
		Items:                items,
		Summary:              summary,
		Unpriced:             summary.Flagged(),
		State:                state,
		Ready:                len(missing) == 0 && len(items) > 0 && state != checkout.StateSubmitting,
	}
	if err := s.Checkout.LastError(); err != nil {
		preview.LastError = "submission failed"
		var derr *model.DomainError
		if errors.As(err, &derr) {
			preview.LastError = derr.Message
		}
		h.logger.Debug().Err(err).Str("session_id", s.ID).Msg("previewing failed submission")
	}

	writeJSON(w, http.StatusOK, preview)
}

// Confirm handles POST /api/sessions/{sessionID}/checkout.
func (h *CheckoutHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupSession(w, r, h.registry, h.logger)
	if !ok {
		return
	}
	logger := h.logger.With().Str("session_id", s.ID).Logger()

	result, err := s.Checkout.Confirm(r.Context())
	if err != nil {
		writeDomainError(w, err, logger)
		return
	}

	logger.Info().Int64("order_id", result.OrderID).Msg("order confirmed")
	writeJSON(w, http.StatusCreated, result)
}

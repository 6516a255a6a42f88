package handler

import (
	"net/http"
	"time"

	"sales-order-booking/internal/checkout"
	"sales-order-booking/internal/model"
	"sales-order-booking/internal/pricing"
	"sales-order-booking/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// SessionView is the full state of one booking session.
type SessionView struct {
	ID        string                `json:"id"`
	CreatedAt time.Time             `json:"createdAt"`
	State     checkout.State        `json:"state"`
	Profile   model.CustomerProfile `json:"profile"`
	Missing   []string              `json:"missing"`
	Items     []model.LineItem      `json:"items"`
	Summary   pricing.Summary       `json:"summary"`
}

func newSessionView(s *session.Session) SessionView {
	items := s.Cart.Items()
	missing := s.Profile.Missing()
	if missing == nil {
		missing = []string{}
	}
	return SessionView{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		State:     s.Checkout.State(),
		Profile:   s.Profile.Profile(),
		Missing:   missing,
		Items:     items,
		Summary:   pricing.Summarize(items),
	}
}

// SessionHandler handles the lifecycle of booking sessions.
type SessionHandler struct {
	registry *session.Registry
	logger   zerolog.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(registry *session.Registry, logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		registry: registry,
		logger:   logger.With().Str("handler", "session").Logger(),
	}
}

// Create handles POST /api/sessions.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.registry.Create()
	h.logger.Info().Str("session_id", s.ID).Msg("session started")
	writeJSON(w, http.StatusCreated, newSessionView(s))
}

// Get handles GET /api/sessions/{sessionID}.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupSession(w, r, h.registry, h.logger)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newSessionView(s))
}

// Delete handles DELETE /api/sessions/{sessionID}.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.registry.Delete(chi.URLParam(r, "sessionID"))
	w.WriteHeader(http.StatusNoContent)
}

// Restart handles POST /api/sessions/{sessionID}/restart.
func (h *SessionHandler) Restart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	s, err := h.registry.Restart(id)
	if err != nil {
		writeDomainError(w, err, h.logger.With().Str("session_id", id).Logger())
		return
	}
	writeJSON(w, http.StatusOK, newSessionView(s))
}

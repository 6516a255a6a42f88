package handler

import (
	"errors"
	"io"
	"net/http"

	"sales-order-booking/internal/model"
	"sales-order-booking/internal/session"

	"github.com/rs/zerolog"
)

// MaxAttachmentSize is the largest file accepted as an order attachment.
const MaxAttachmentSize = 10 << 20

// ProfileView is the customer profile and the required fields still blank.
type ProfileView struct {
	Profile  model.CustomerProfile `json:"profile"`
	Missing  []string              `json:"missing"`
	Complete bool                  `json:"complete"`
}

// ProfileHandler handles customer detail capture for a session.
type ProfileHandler struct {
	registry *session.Registry
	logger   zerolog.Logger
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(registry *session.Registry, logger zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{
		registry: registry,
		logger:   logger.With().Str("handler", "profile").Logger(),
	}
}

// Patch handles PATCH /api/sessions/{sessionID}/profile. The body is an
// object of field name to value; fields not present are left alone.
func (h *ProfileHandler) Patch(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupSession(w, r, h.registry, h.logger)
	if !ok {
		return
	}

	var body map[string]string
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	values := make(map[model.CustomerField]string, len(body))
	for k, v := range body {
		values[model.CustomerField(k)] = v
	}
	if err := s.Checkout.Edit(func() error { return s.Profile.SetMany(values) }); err != nil {
		writeDomainError(w, err, h.logger.With().Str("session_id", s.ID).Logger())
		return
	}

	writeJSON(w, http.StatusOK, h.view(s))
}

// PutAttachment handles PUT /api/sessions/{sessionID}/profile/attachment with
// a multipart "file" field.
func (h *ProfileHandler) PutAttachment(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupSession(w, r, h.registry, h.logger)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxAttachmentSize+1<<20)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, model.ErrCodeValidationFailed, "attachment is too large", h.logger)
			return
		}
		writeError(w, http.StatusBadRequest, model.ErrCodeValidationFailed, "multipart field \"file\" is required", h.logger)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxAttachmentSize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidationFailed, "failed to read attachment", h.logger)
		return
	}
	if len(data) > MaxAttachmentSize {
		writeError(w, http.StatusRequestEntityTooLarge, model.ErrCodeValidationFailed, "attachment is too large", h.logger)
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidationFailed, "attachment is empty", h.logger)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	err = s.Checkout.Edit(func() error {
		s.Profile.SetAttachment(&model.Attachment{
			Filename:    header.Filename,
			ContentType: contentType,
			Data:        data,
		})
		return nil
	})
	if err != nil {
		writeDomainError(w, err, h.logger.With().Str("session_id", s.ID).Logger())
		return
	}

	h.logger.Debug().
		Str("session_id", s.ID).
		Str("filename", header.Filename).
		Int("size", len(data)).
		Msg("attachment stored")

	writeJSON(w, http.StatusOK, h.view(s))
}

// DeleteAttachment handles DELETE /api/sessions/{sessionID}/profile/attachment.
func (h *ProfileHandler) DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	s, ok := lookupSession(w, r, h.registry, h.logger)
	if !ok {
		return
	}
	err := s.Checkout.Edit(func() error {
		s.Profile.ClearAttachment()
		return nil
	})
	if err != nil {
		writeDomainError(w, err, h.logger.With().Str("session_id", s.ID).Logger())
		return
	}
	writeJSON(w, http.StatusOK, h.view(s))
}

func (h *ProfileHandler) view(s *session.Session) ProfileView {
	missing := s.Profile.Missing()
	if missing == nil {
		missing = []string{}
	}
	return ProfileView{
		Profile:  s.Profile.Profile(),
		Missing:  missing,
		Complete: len(missing) == 0,
	}
}

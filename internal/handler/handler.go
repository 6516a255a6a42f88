package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"sales-order-booking/internal/model"
	"sales-order-booking/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// maxJSONBody bounds request bodies that are decoded as JSON.
const maxJSONBody = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Str("code", code).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeDomainError maps err onto an HTTP status and writes it. Errors that
// carry no domain code are reported as internal errors without their text.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		logger.Warn().Err(err).Strs("fields", verr.Fields).Msg("validation failed")
		writeJSON(w, http.StatusUnprocessableEntity, model.ErrorResponse{
			Error:   model.ErrCodeValidationFailed,
			Message: verr.Error(),
			Fields:  verr.Fields,
		})
		return
	}

	var derr *model.DomainError
	if !errors.As(err, &derr) {
		logger.Error().Err(err).Msg("unexpected error")
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
			Error:   model.ErrCodeInternalError,
			Message: "internal server error",
		})
		return
	}

	status := statusForCode(derr.Code)
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).Str("code", derr.Code).Int("status", status).Msg("request failed")

	message := derr.Message
	if status < http.StatusInternalServerError {
		message = err.Error()
	}
	writeJSON(w, status, model.ErrorResponse{Error: derr.Code, Message: message})
}

func statusForCode(code string) int {
	switch code {
	case model.ErrCodeValidationFailed:
		return http.StatusUnprocessableEntity
	case model.ErrCodeUnknownField,
		model.ErrCodeInvalidField,
		model.ErrCodeInvalidQuantity,
		model.ErrCodeInvalidPrice,
		model.ErrCodeInvalidOption,
		model.ErrCodeMissingPrice:
		return http.StatusBadRequest
	case model.ErrCodeLineItemNotFound,
		model.ErrCodeProductNotFound,
		model.ErrCodeSessionNotFound,
		model.ErrCodeOrderNotFound:
		return http.StatusNotFound
	case model.ErrCodeSubmissionInProgress:
		return http.StatusConflict
	case model.ErrCodeInsertFailed,
		model.ErrCodeUploadFailed,
		model.ErrCodeNotifyFailed,
		model.ErrCodeQueryFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a JSON request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(dst)
}

// lookupSession resolves the {sessionID} path parameter, writing a 404 when
// the session does not exist.
func lookupSession(w http.ResponseWriter, r *http.Request, registry *session.Registry, logger zerolog.Logger) (*session.Session, bool) {
	id := chi.URLParam(r, "sessionID")
	s, err := registry.Get(id)
	if err != nil {
		writeDomainError(w, err, logger.With().Str("session_id", id).Logger())
		return nil, false
	}
	return s, true
}

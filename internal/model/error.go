package model

import (
	"fmt"
	"strings"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string   `json:"error"`
	Message       string   `json:"message"`
	Fields        []string `json:"fields,omitempty"`
	CorrelationID string   `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON          = "INVALID_JSON"
	ErrCodeValidationFailed     = "VALIDATION_FAILED"
	ErrCodeUnknownField         = "UNKNOWN_FIELD"
	ErrCodeInvalidField         = "INVALID_FIELD"
	ErrCodeInvalidQuantity      = "INVALID_QUANTITY"
	ErrCodeInvalidPrice         = "INVALID_PRICE"
	ErrCodeInvalidOption        = "INVALID_OPTION"
	ErrCodeMissingPrice         = "MISSING_PRICE"
	ErrCodeLineItemNotFound     = "LINE_ITEM_NOT_FOUND"
	ErrCodeProductNotFound      = "PRODUCT_NOT_FOUND"
	ErrCodeSessionNotFound      = "SESSION_NOT_FOUND"
	ErrCodeSubmissionInProgress = "SUBMISSION_IN_PROGRESS"
	ErrCodeUploadFailed         = "UPLOAD_FAILED"
	ErrCodeInsertFailed         = "INSERT_FAILED"
	ErrCodeNotifyFailed         = "NOTIFY_FAILED"
	ErrCodeQueryFailed          = "QUERY_FAILED"
	ErrCodeOrderNotFound        = "ORDER_NOT_FOUND"
	ErrCodeInternalError        = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrValidationFailed     = NewDomainError(ErrCodeValidationFailed, "Order is not ready to be submitted")
	ErrUnknownField         = NewDomainError(ErrCodeUnknownField, "Unknown customer field")
	ErrInvalidField         = NewDomainError(ErrCodeInvalidField, "Customer field has an invalid format")
	ErrInvalidQuantity      = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidPrice         = NewDomainError(ErrCodeInvalidPrice, "Price must be a non-negative number")
	ErrInvalidOption        = NewDomainError(ErrCodeInvalidOption, "Option must be pack or case")
	ErrMissingPrice         = NewDomainError(ErrCodeMissingPrice, "Line item has no price for its selected option")
	ErrLineItemNotFound     = NewDomainError(ErrCodeLineItemNotFound, "Line item not found")
	ErrProductNotFound      = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrSessionNotFound      = NewDomainError(ErrCodeSessionNotFound, "Session not found")
	ErrSubmissionInProgress = NewDomainError(ErrCodeSubmissionInProgress, "Order submission already in progress")
	ErrUploadFailed         = NewDomainError(ErrCodeUploadFailed, "Attachment upload failed")
	ErrInsertFailed         = NewDomainError(ErrCodeInsertFailed, "Something went wrong while saving the order")
	ErrNotifyFailed         = NewDomainError(ErrCodeNotifyFailed, "Order notification failed")
	ErrQueryFailed          = NewDomainError(ErrCodeQueryFailed, "Unable to fetch orders")
	ErrOrderNotFound        = NewDomainError(ErrCodeOrderNotFound, "Order not found")
)

// ValidationError reports which inputs block an order from moving forward.
// It unwraps to ErrValidationFailed.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Reason, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

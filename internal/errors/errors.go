package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidAmount is returned when an amount is outside 1..1,000,000 won.
	ErrInvalidAmount = errors.New("amount must be between 1 and 1,000,000")
	// ErrInvalidPurchaser is returned when the purchaser name is empty.
	ErrInvalidPurchaser = errors.New("purchaser name is required")
	// ErrInvalidPhone is returned when the purchaser phone is not a valid mobile number.
	ErrInvalidPhone = errors.New("invalid mobile phone number")
	// ErrNotesTooLong is returned when notes exceed 200 characters.
	ErrNotesTooLong = errors.New("notes must be 200 characters or less")
	// ErrGifticonNotFound is returned when a gifticon does not exist.
	ErrGifticonNotFound = errors.New("gifticon not found")
	// ErrGifticonBlocked is returned when a blocked gifticon is redeemed or recharged.
	ErrGifticonBlocked = errors.New("gifticon is blocked")
	// ErrGifticonExpired is returned when an expired gifticon is redeemed.
	ErrGifticonExpired = errors.New("gifticon has expired")
	// ErrInsufficientBalance is returned when a redemption exceeds the remaining balance.
	ErrInsufficientBalance = errors.New("insufficient remaining balance")
	// ErrAlreadyBlocked is returned when blocking an already blocked gifticon.
	ErrAlreadyBlocked = errors.New("gifticon is already blocked")
	// ErrNotBlocked is returned when unblocking a gifticon that is not blocked.
	ErrNotBlocked = errors.New("gifticon is not blocked")
	// ErrBlockReasonRequired is returned when a block or unblock carries no reason.
	ErrBlockReasonRequired = errors.New("a reason is required")
	// ErrConflict is returned when a mutation lost the race after the retry
	// budget. The caller should retry the whole operation, not assume failure.
	ErrConflict = errors.New("concurrent modification, please retry")
	// ErrIDCollision is returned when a freshly generated identifier already
	// exists. Creation fails closed; nothing is overwritten.
	ErrIDCollision = errors.New("gifticon id collision")
	// ErrPersistence is returned when the store is unavailable or a write fails.
	ErrPersistence = errors.New("persistence failure")
)

// BlockedError carries the administrative block reason so the register UI
// can show it. It matches ErrGifticonBlocked under errors.Is.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	if e.Reason == "" {
		return ErrGifticonBlocked.Error()
	}
	return fmt.Sprintf("gifticon is blocked: %s", e.Reason)
}

func (e *BlockedError) Unwrap() error { return ErrGifticonBlocked }

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_AMOUNT")
	case errors.Is(err, ErrInvalidPurchaser):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_PURCHASER")
	case errors.Is(err, ErrInvalidPhone):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_PHONE")
	case errors.Is(err, ErrNotesTooLong):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "NOTES_TOO_LONG")
	case errors.Is(err, ErrBlockReasonRequired):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "REASON_REQUIRED")
	case errors.Is(err, ErrGifticonNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "GIFTICON_NOT_FOUND")
	case errors.Is(err, ErrGifticonBlocked):
		return NewHTTPError(http.StatusForbidden, err.Error(), "GIFTICON_BLOCKED")
	case errors.Is(err, ErrGifticonExpired):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "GIFTICON_EXPIRED")
	case errors.Is(err, ErrInsufficientBalance):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INSUFFICIENT_BALANCE")
	case errors.Is(err, ErrAlreadyBlocked):
		return NewHTTPError(http.StatusConflict, err.Error(), "ALREADY_BLOCKED")
	case errors.Is(err, ErrNotBlocked):
		return NewHTTPError(http.StatusConflict, err.Error(), "NOT_BLOCKED")
	case errors.Is(err, ErrConflict):
		return NewHTTPError(http.StatusConflict, err.Error(), "CONFLICT")
	case errors.Is(err, ErrIDCollision):
		return NewHTTPError(http.StatusConflict, err.Error(), "ID_COLLISION")
	case errors.Is(err, ErrPersistence):
		return NewHTTPError(http.StatusServiceUnavailable, ErrPersistence.Error(), "PERSISTENCE_ERROR")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}

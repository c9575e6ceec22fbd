package utils

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v4"
)

// Domain-level errors used by the service layer to provide
// fine-grained failure reasons.
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotFound         = errors.New("not_found")
	ErrInvalidEmail     = errors.New("invalid_email")
	ErrInvalidPhone     = errors.New("invalid_phone")
	ErrEmailExists      = errors.New("email_exists")
	ErrEmailNotVerified = errors.New("email_not_verified")
	ErrPhoneNotVerified = errors.New("phone_not_verified")
	ErrEmptyReason      = errors.New("empty_rejection_reason")

	// For concurrency conflicts
	ErrRowVersionConflict = errors.New("row_version_conflict")

	// For external service failures (e.g., Twilio, SendGrid)
	ErrExternalServiceFailure = errors.New("external_service_failure")
)

// AppError for structured error handling from services to controllers.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError is the constructor used throughout the service layer.
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{StatusCode: status, Code: code, Message: message, Err: err}
}

// HandleAppError centralizes responding to AppErrors and the domain
// sentinels above. Anything unrecognized becomes a generic 500.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, nil, appErr.Err)
		return
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		RespondErrorWithCode(w, http.StatusForbidden, ErrCodeUnauthorized, "You are not allowed to do that", nil, err)
	case errors.Is(err, ErrNotFound), errors.Is(err, pgx.ErrNoRows):
		RespondErrorWithCode(w, http.StatusNotFound, ErrCodeNotFound, "Resource not found", nil, err)
	case errors.Is(err, ErrEmailExists):
		RespondErrorWithCode(w, http.StatusConflict, ErrCodeConflict, "An account with that email already exists", nil, err)
	case errors.Is(err, ErrInvalidEmail):
		RespondErrorWithCode(w, http.StatusBadRequest, ErrCodeInvalidPayload, "Email address failed validation", nil, err)
	case errors.Is(err, ErrInvalidPhone):
		RespondErrorWithCode(w, http.StatusBadRequest, ErrCodeInvalidPayload, "Phone number failed validation", nil, err)
	case errors.Is(err, ErrEmailNotVerified):
		RespondErrorWithCode(w, http.StatusForbidden, ErrCodeEmailNotVerified, "Email address is not verified", nil, err)
	case errors.Is(err, ErrPhoneNotVerified):
		RespondErrorWithCode(w, http.StatusForbidden, ErrCodePhoneNotVerified, "Phone number is not verified", nil, err)
	case errors.Is(err, ErrRowVersionConflict):
		RespondErrorWithCode(w, http.StatusConflict, ErrCodeRowVersionConflict, "The record was modified concurrently, try again", nil, err)
	case errors.Is(err, ErrExternalServiceFailure):
		RespondErrorWithCode(w, http.StatusBadGateway, ErrCodeInternal, "An upstream service failed", nil, err)
	default:
		RespondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", nil, err)
	}
}

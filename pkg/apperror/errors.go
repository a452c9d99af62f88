package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
// Code and the wrapped error stay server-side; only Message reaches
// the client.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Validation (VAL) ----

// Validation returns a 400 validation error with a caller-supplied message.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

func ErrMissingFields() *AppError {
	return New("VAL_002", "Missing required fields", http.StatusBadRequest)
}

func ErrMemberIDRequired() *AppError {
	return New("VAL_003", "member_id is required", http.StatusBadRequest)
}

func ErrMissingCallbackParams() *AppError {
	return New("VAL_004", "Missing external_id or secret", http.StatusBadRequest)
}

// ---- Authorization (AUTH) ----

func ErrInvalidSecretCode() *AppError {
	return New("AUTH_001", "Invalid secret code", http.StatusForbidden)
}

// ---- Lookup (REQ) ----

func ErrSettingsNotFound() *AppError {
	return New("REQ_001", "Settings not found", http.StatusNotFound)
}

func ErrTenantNotFound() *AppError {
	return New("REQ_002", "User settings not found", http.StatusNotFound)
}

// ErrBillNotFound covers both an unknown external_id and a wrong secret.
// The single message keeps the lookup from leaking which part mismatched.
func ErrBillNotFound() *AppError {
	return New("REQ_003", "Bill not found or invalid secret", http.StatusNotFound)
}

// ---- Conflict (CNF) ----

func ErrSettingsExist() *AppError {
	return New("CNF_001", "Settings already exist for this member_id", http.StatusConflict)
}

// ---- Upstream (UPS) ----

func ErrGatewayAuth(err error) *AppError {
	return Wrap("UPS_001", "Failed to get EcomKassa token", http.StatusInternalServerError, err)
}

func ErrGatewayRequest(err error) *AppError {
	return Wrap("UPS_002", "EcomKassa API error", http.StatusInternalServerError, err)
}

// CodeNotificationFailed marks a failed CRM notification. The callback
// handler matches on it to echo the correlation id back to the gateway.
const CodeNotificationFailed = "UPS_003"

func ErrNotificationFailed(err error) *AppError {
	return Wrap(CodeNotificationFailed, "Failed to mark payment in Bitrix24", http.StatusInternalServerError, err)
}

// ---- System (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

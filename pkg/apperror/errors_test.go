package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("REQ_003", "Bill not found or invalid secret", http.StatusNotFound),
			expected: "[REQ_003] Bill not found or invalid secret",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("UPS_002", "EcomKassa API error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[UPS_002] EcomKassa API error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
}

func TestAppError_IsNilUnwrap(t *testing.T) {
	appErr := New("VAL_001", "test", http.StatusBadRequest)
	assert.Nil(t, appErr.Unwrap())
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"MissingFields", ErrMissingFields(), "VAL_002", 400},
		{"MemberIDRequired", ErrMemberIDRequired(), "VAL_003", 400},
		{"MissingCallbackParams", ErrMissingCallbackParams(), "VAL_004", 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestLookupErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"SettingsNotFound", ErrSettingsNotFound(), "REQ_001", 404},
		{"TenantNotFound", ErrTenantNotFound(), "REQ_002", 404},
		{"BillNotFound", ErrBillNotFound(), "REQ_003", 404},
		{"SettingsExist", ErrSettingsExist(), "CNF_001", 409},
		{"InvalidSecretCode", ErrInvalidSecretCode(), "AUTH_001", 403},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestUpstreamErrors(t *testing.T) {
	inner := fmt.Errorf("timeout")

	tests := []struct {
		name    string
		err     *AppError
		code    string
		message string
	}{
		{"GatewayAuth", ErrGatewayAuth(inner), "UPS_001", "Failed to get EcomKassa token"},
		{"GatewayRequest", ErrGatewayRequest(inner), "UPS_002", "EcomKassa API error"},
		{"NotificationFailed", ErrNotificationFailed(inner), "UPS_003", "Failed to mark payment in Bitrix24"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, http.StatusInternalServerError, tt.err.HTTPStatus)
			assert.Equal(t, tt.message, tt.err.Message)
			assert.True(t, errors.Is(tt.err, inner))
		})
	}
}

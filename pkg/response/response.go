package response

import (
	"errors"
	"net/http"

	"fiscal-payment-bridge/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the JSON error envelope. Every failing endpoint answers
// with this shape; ExternalID is set only by the callback endpoint so a
// retrying gateway can correlate the failure.
type ErrorBody struct {
	Error      string `json:"error"`
	ExternalID string `json:"external_id,omitempty"`
}

// OK sends a 200 response with the payload serialized as-is.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 response with the payload serialized as-is.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Error sends an error response. It checks if err is an *apperror.AppError
// and maps its HTTP status and message, otherwise returns a generic 500.
// Internal detail (wrapped errors, codes) never reaches the body.
func Error(c *gin.Context, err error) {
	status, message := resolve(err)
	c.JSON(status, ErrorBody{Error: message})
}

// ErrorWithExternalID is Error with the bill correlation id echoed back.
func ErrorWithExternalID(c *gin.Context, err error, externalID string) {
	status, message := resolve(err)
	c.JSON(status, ErrorBody{Error: message, ExternalID: externalID})
}

func resolve(err error) (int, string) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus, appErr.Message
	}
	return http.StatusInternalServerError, "Internal server error"
}

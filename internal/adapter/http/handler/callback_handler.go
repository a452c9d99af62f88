package handler

import (
	"errors"

	"fiscal-payment-bridge/internal/adapter/http/dto"
	"fiscal-payment-bridge/internal/core/ports"
	"fiscal-payment-bridge/pkg/apperror"
	"fiscal-payment-bridge/pkg/response"

	"github.com/gin-gonic/gin"
)

// CallbackHandler handles gateway settlement callbacks.
type CallbackHandler struct {
	callbackSvc ports.CallbackService
}

// NewCallbackHandler creates a new CallbackHandler.
func NewCallbackHandler(callbackSvc ports.CallbackService) *CallbackHandler {
	return &CallbackHandler{callbackSvc: callbackSvc}
}

// ProcessCallback handles GET and POST /api/v1/callback. The gateway
// sends both verbs; parameters always travel in the query string
// because the URL was built at payment time.
func (h *CallbackHandler) ProcessCallback(c *gin.Context) {
	externalID := c.Query("external_id")
	secret := c.Query("secret")

	result, err := h.callbackSvc.ProcessCallback(c.Request.Context(), externalID, secret)
	if err != nil {
		// The correlation id is echoed on notification failures so the
		// retrying gateway can match the error to its payment.
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == apperror.CodeNotificationFailed {
			response.ErrorWithExternalID(c, err, externalID)
			return
		}
		response.Error(c, err)
		return
	}

	if result.AlreadyProcessed {
		response.OK(c, dto.CallbackResponse{Message: "Payment already processed"})
		return
	}
	response.OK(c, dto.CallbackResponse{
		Message:       "Payment processed successfully",
		PaymentMarked: true,
		ExternalID:    result.ExternalID,
	})
}

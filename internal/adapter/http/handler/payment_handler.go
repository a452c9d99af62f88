package handler

import (
	"fiscal-payment-bridge/internal/adapter/http/dto"
	"fiscal-payment-bridge/internal/core/ports"
	"fiscal-payment-bridge/pkg/apperror"
	"fiscal-payment-bridge/pkg/response"

	"github.com/gin-gonic/gin"
)

// PaymentHandler handles payment-initiation endpoints.
type PaymentHandler struct {
	paymentSvc ports.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentSvc ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

// CreatePayment handles POST /api/v1/payments.
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrMissingFields())
		return
	}

	result, err := h.paymentSvc.CreatePayment(c.Request.Context(), ports.CreatePaymentRequest{
		MemberID:    req.MemberID,
		PaymentID:   req.PaymentID,
		PaySystemID: req.PaySystemID,
		DealID:      req.DealID,
		SecretCode:  req.SecretCode,
		Amount:      req.Amount,
		ClientEmail: req.ClientEmail,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.CreatePaymentResponse{
		Success:    true,
		PaymentURL: result.PaymentURL,
		PaymentID:  result.PaymentID,
		ExternalID: result.ExternalID,
		BillID:     result.BillID,
	})
}

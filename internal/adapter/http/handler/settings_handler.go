package handler

import (
	"fiscal-payment-bridge/internal/adapter/http/dto"
	"fiscal-payment-bridge/internal/core/ports"
	"fiscal-payment-bridge/pkg/apperror"
	"fiscal-payment-bridge/pkg/response"

	"github.com/gin-gonic/gin"
)

// SettingsHandler handles tenant settings endpoints.
type SettingsHandler struct {
	settingsSvc ports.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsSvc ports.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsSvc: settingsSvc}
}

// Get handles GET /api/v1/settings?member_id=...
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settingsSvc.Get(c.Request.Context(), c.Query("member_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, settings)
}

// Create handles POST /api/v1/settings.
func (h *SettingsHandler) Create(c *gin.Context) {
	var req dto.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrMemberIDRequired())
		return
	}

	secretCode := ""
	if req.SecretCode != nil {
		secretCode = *req.SecretCode
	}

	created, err := h.settingsSvc.Create(c.Request.Context(), ports.CreateSettingsRequest{
		MemberID:   req.MemberID,
		SecretCode: secretCode,
		Update:     req.ToUpdate(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.SettingsMutationResponse{
		Success: true,
		Message: "Settings created successfully",
		Data:    created,
	})
}

// Update handles PUT /api/v1/settings.
func (h *SettingsHandler) Update(c *gin.Context) {
	var req dto.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrMemberIDRequired())
		return
	}

	if err := h.settingsSvc.Update(c.Request.Context(), req.MemberID, req.ToUpdate()); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.SettingsMutationResponse{
		Success: true,
		Message: "Settings updated successfully",
	})
}

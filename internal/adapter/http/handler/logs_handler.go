package handler

import (
	"strconv"

	"fiscal-payment-bridge/internal/adapter/http/dto"
	"fiscal-payment-bridge/internal/core/domain"
	"fiscal-payment-bridge/internal/core/ports"
	"fiscal-payment-bridge/pkg/response"

	"github.com/gin-gonic/gin"
)

// LogsHandler exposes the tenant-scoped integration log listing.
type LogsHandler struct {
	logSvc ports.LogService
}

// NewLogsHandler creates a new LogsHandler.
func NewLogsHandler(logSvc ports.LogService) *LogsHandler {
	return &LogsHandler{logSvc: logSvc}
}

// List handles GET /api/v1/logs?member_id=&log_type=&limit=&offset=.
func (h *LogsHandler) List(c *gin.Context) {
	params := ports.LogListParams{
		MemberID: c.Query("member_id"),
	}
	if raw := c.Query("log_type"); raw != "" {
		lt := domain.LogType(raw)
		params.LogType = &lt
	}
	params.Limit, _ = strconv.Atoi(c.Query("limit"))
	params.Offset, _ = strconv.Atoi(c.Query("offset"))

	logs, err := h.logSvc.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	if logs == nil {
		logs = []domain.IntegrationLog{}
	}

	response.OK(c, dto.LogListResponse{
		Logs:   logs,
		Limit:  params.Limit,
		Offset: params.Offset,
	})
}

package handler

import (
	"net/http"

	"fiscal-payment-bridge/internal/adapter/http/middleware"
	"fiscal-payment-bridge/internal/core/ports"
	"fiscal-payment-bridge/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	PaymentSvc     ports.PaymentService
	CallbackSvc    ports.CallbackService
	SettingsSvc    ports.SettingsService
	LogSvc         ports.LogService
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.CORS())
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Unsupported verbs on known paths answer 405, not 404.
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, response.ErrorBody{Error: "Method not allowed"})
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response.ErrorBody{Error: "Not found"})
	})

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := r.Group("/api/v1")

	paymentHandler := NewPaymentHandler(deps.PaymentSvc)
	v1.POST("/payments", paymentHandler.CreatePayment)

	// The gateway retries callbacks with either verb.
	callbackHandler := NewCallbackHandler(deps.CallbackSvc)
	v1.GET("/callback", callbackHandler.ProcessCallback)
	v1.POST("/callback", callbackHandler.ProcessCallback)

	settingsHandler := NewSettingsHandler(deps.SettingsSvc)
	settings := v1.Group("/settings")
	{
		settings.GET("", settingsHandler.Get)
		settings.POST("", settingsHandler.Create)
		settings.PUT("", settingsHandler.Update)
	}

	logsHandler := NewLogsHandler(deps.LogSvc)
	v1.GET("/logs", logsHandler.List)

	return r
}

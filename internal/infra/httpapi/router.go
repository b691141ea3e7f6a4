// internal/infra/httpapi/router.go
package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the HTTP surface: roster upload/preview/send on the
// root, the confirmation API under /api, and the platform webhook.
func NewRouter(h *Handler, mode string) *gin.Engine {
	gin.SetMode(mode)
	router := gin.New()
	router.Use(gin.Recovery(), MetricsMiddleware)

	router.POST("/upload", h.Upload)
	router.POST("/send_messages", h.SendMessages)
	router.POST("/clear_data", h.ClearData)
	router.POST("/webhook", h.Webhook)

	router.GET("/api/confirmations", h.ListConfirmations)
	router.POST("/api/confirmations/clear", h.ClearConfirmations)

	router.GET("/healthz", h.Healthz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

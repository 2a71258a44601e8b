package http

import (
	"semaforo-srv/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the alert scheduler routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, mw middleware.Middleware) {
	alerts := r.Group("/alerts")
	{
		alerts.GET("", h.List)
		alerts.POST("/:id/ignore", mw.InternalKey(), h.Ignore)
		alerts.POST("/:id/reschedule", mw.InternalKey(), h.Reschedule)
	}
}

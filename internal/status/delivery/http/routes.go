package http

import (
	"semaforo-srv/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the status engine routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, mw middleware.Middleware) {
	campaigns := r.Group("/campaigns")
	{
		campaigns.POST("/:id/recalculate", mw.InternalKey(), h.Recalculate)
		campaigns.DELETE("/:id/status", mw.InternalKey(), h.DeleteStatus)
		campaigns.GET("/:id/history", h.History)
	}

	r.POST("/recalculations", mw.InternalKey(), h.BulkRecalculate)

	st := r.Group("/status")
	{
		st.GET("/summary", h.Summary)
		st.POST("/summaries/recompute", mw.InternalKey(), h.RecomputeSummary)
	}
}

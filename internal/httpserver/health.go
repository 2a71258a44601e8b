package httpserver

import (
	"net/http"

	"semaforo-srv/pkg/errors"
	"semaforo-srv/pkg/response"

	"github.com/gin-gonic/gin"
)

// healthCheck handles health check requests
// @Summary Health Check
// @Description Check if the status engine and its dependencies are healthy
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "Service is healthy"
// @Failure 503 {object} map[string]interface{} "Service is unhealthy"
// @Router /health [get]
func (srv *HTTPServer) healthCheck(c *gin.Context) {
	ctx := c.Request.Context()

	if err := srv.dbHealth(); err != nil {
		response.HttpError(c, errors.NewHTTPError(50301, "Database connection failed", http.StatusServiceUnavailable))
		return
	}

	redisState := "disabled"
	if srv.redis != nil {
		if err := srv.redis.Ping(ctx); err != nil {
			response.HttpError(c, errors.NewHTTPError(50302, "Redis connection failed", http.StatusServiceUnavailable))
			return
		}
		redisState = "connected"
	}

	response.OK(c, gin.H{
		"status":   "healthy",
		"service":  "semaforo-srv",
		"version":  "1.0.0",
		"database": "connected",
		"redis":    redisState,
	})
}

// readyCheck handles readiness check requests
// @Summary Readiness Check
// @Description Check if the status engine is ready to serve traffic
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "Service is ready"
// @Failure 503 {object} map[string]interface{} "Service is not ready"
// @Router /ready [get]
func (srv *HTTPServer) readyCheck(c *gin.Context) {
	if err := srv.dbHealth(); err != nil {
		response.HttpError(c, errors.NewHTTPError(50301, "Database connection not available", http.StatusServiceUnavailable))
		return
	}

	response.OK(c, gin.H{
		"status":  "ready",
		"service": "semaforo-srv",
		"version": "1.0.0",
	})
}

// liveCheck handles liveness check requests
// @Summary Liveness Check
// @Description Check if the status engine process is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "Service is alive"
// @Router /live [get]
func (srv *HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "alive",
		"service": "semaforo-srv",
		"version": "1.0.0",
	})
}

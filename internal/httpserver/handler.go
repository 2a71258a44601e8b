package httpserver

import (
	"semaforo-srv/internal/middleware"

	// Import this to execute the init function in docs.go which sets up the Swagger docs.
	_ "semaforo-srv/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	// InternalApi is the route prefix for service-to-service endpoints.
	InternalApi = "/internal/api/v1"
)

func (srv *HTTPServer) mapHandlers() error {
	srv.gin.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	srv.gin.Use(middleware.Recovery(srv.logger, srv.discord))

	// Health check endpoints (no auth required)
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	// Swagger UI
	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	internal := srv.gin.Group(InternalApi)
	srv.statusHandler.RegisterRoutes(internal, srv.mw)
	srv.alertHandler.RegisterRoutes(internal, srv.mw)

	return nil
}

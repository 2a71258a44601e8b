package httpserver

import (
	"errors"

	alertHTTP "semaforo-srv/internal/alert/delivery/http"
	"semaforo-srv/internal/middleware"
	statusHTTP "semaforo-srv/internal/status/delivery/http"
	"semaforo-srv/pkg/discord"
	"semaforo-srv/pkg/log"
	pkgRedis "semaforo-srv/pkg/redis"

	"github.com/gin-gonic/gin"
)

// HTTPServer wires the gin engine with the delivery handlers.
// New only validates dependencies; Run starts serving.
type HTTPServer struct {
	gin         *gin.Engine
	logger      log.Logger
	port        int
	environment string

	statusHandler *statusHTTP.Handler
	alertHandler  *alertHTTP.Handler
	mw            middleware.Middleware

	// External services. Redis and Discord are optional.
	redis   pkgRedis.IRedis
	discord discord.IDiscord

	dbHealth func() error
}

// Config is the constructor input for HTTPServer.
type Config struct {
	Port        int
	Environment string
	Mode        string // gin mode: debug | release | test

	StatusHandler *statusHTTP.Handler
	AlertHandler  *alertHTTP.Handler
	Middleware    middleware.Middleware

	Redis   pkgRedis.IRedis
	Discord discord.IDiscord

	// DBHealth reports whether the database connection is usable.
	DBHealth func() error
}

// New creates a new HTTPServer instance. It does not start any goroutines;
// use (*HTTPServer).Run to serve.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	srv := &HTTPServer{
		gin:         gin.New(),
		logger:      logger,
		port:        cfg.Port,
		environment: cfg.Environment,

		statusHandler: cfg.StatusHandler,
		alertHandler:  cfg.AlertHandler,
		mw:            cfg.Middleware,

		redis:   cfg.Redis,
		discord: cfg.Discord,

		dbHealth: cfg.DBHealth,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (s *HTTPServer) validate() error {
	if s.logger == nil {
		return errors.New("logger is required")
	}
	if s.port == 0 {
		return errors.New("port is required")
	}
	if s.statusHandler == nil {
		return errors.New("status handler is required")
	}
	if s.alertHandler == nil {
		return errors.New("alert handler is required")
	}
	if s.dbHealth == nil {
		return errors.New("database health check is required")
	}

	return nil
}

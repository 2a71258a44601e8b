package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"semaforo-srv/config"
	configPostgre "semaforo-srv/config/postgre"
	configRedis "semaforo-srv/config/redis"
	alertHTTP "semaforo-srv/internal/alert/delivery/http"
	alertPostgre "semaforo-srv/internal/alert/repository/postgre"
	alertUsecase "semaforo-srv/internal/alert/usecase"
	"semaforo-srv/internal/campaign"
	"semaforo-srv/internal/dispatch"
	"semaforo-srv/internal/httpserver"
	"semaforo-srv/internal/middleware"
	"semaforo-srv/internal/status"
	statusHTTP "semaforo-srv/internal/status/delivery/http"
	statusPostgre "semaforo-srv/internal/status/repository/postgre"
	statusUsecase "semaforo-srv/internal/status/usecase"
	"semaforo-srv/pkg/discord"
	"semaforo-srv/pkg/locker"
	"semaforo-srv/pkg/log"
	pkgRedis "semaforo-srv/pkg/redis"
)

// @title       Semaforo Service
// @description Campaign status calculation and alert scheduling engine
// @version     1.0
// @host        localhost:8082
// @schemes     http
// @BasePath    /internal/api/v1
//
// @securityDefinitions.apikey InternalKey
// @in header
// @name X-Internal-Key
// @description Shared key for service-to-service calls
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config:", err)
		os.Exit(1)
	}

	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Semaforo Status Engine...")

	// PostgreSQL holds statuses, history, alerts and summaries.
	db, err := configPostgre.Connect(ctx, cfg.Postgres)
	if err != nil {
		logger.Errorf(ctx, "Failed to connect to PostgreSQL: %v", err)
		os.Exit(1)
	}
	defer configPostgre.Disconnect(context.Background(), db)
	logger.Info(ctx, "PostgreSQL client initialized")

	// Redis backs the per-campaign lock when several replicas run.
	// A single replica gets by with the in-process locker.
	var (
		redisClient pkgRedis.IRedis
		locks       locker.Locker
	)
	if cfg.Redis.Enabled {
		redisClient, err = configRedis.Connect(ctx, cfg.Redis)
		if err != nil {
			logger.Errorf(ctx, "Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		defer configRedis.Disconnect()
		locks = locker.NewRedis(redisClient)
		logger.Info(ctx, "Redis client initialized, using distributed locks")
	} else {
		locks = locker.NewLocal()
		logger.Info(ctx, "Redis disabled, using in-process locks")
	}

	// Discord webhook carries alerts to the traffic team channel (optional).
	var discordClient discord.IDiscord
	if cfg.Discord.Enabled {
		discordClient, err = discord.New(logger, cfg.Discord.WebhookURL)
		if err != nil {
			logger.Warnf(ctx, "Failed to initialize Discord webhook: %v", err)
		} else {
			defer discordClient.Close()
			logger.Info(ctx, "Discord webhook initialized")
		}
	}

	// The campaign provider reads snapshots, threshold configs and
	// responsibles from the record-management schema.
	provider := campaign.New(logger, db, cfg.Engine.DefaultRecipientRoles)

	alertUC := alertUsecase.New(logger, alertPostgre.New(logger, db))
	statusUC := statusUsecase.New(
		logger,
		statusPostgre.New(logger, db),
		provider,
		provider,
		alertUC,
		provider,
		locks,
		cfg.Engine.BatchWorkers,
	)

	// Dispatch pool drains due alerts to the configured transport.
	transport := dispatch.NewLogTransport(logger)
	if discordClient != nil {
		transport = dispatch.NewDiscordTransport(discordClient)
	}
	pool := dispatch.NewPool(logger, alertUC, transport, dispatch.Options{
		Workers:          cfg.Engine.DispatchWorkers,
		PollInterval:     cfg.Engine.DispatchPollInterval,
		SendTimeout:      cfg.Engine.TransportTimeout,
		DueBatchLimit:    cfg.Engine.DueBatchLimit,
		RetryBackoffBase: cfg.Engine.RetryBackoffBase,
	})
	go pool.Run(ctx)
	logger.Info(ctx, "Alert dispatch pool started")

	// Periodic sweep recomputes every campaign, catching date-driven
	// transitions no event announces.
	go runSweep(ctx, logger, statusUC, cfg.Engine.SweepInterval)

	mw := middleware.New(logger, cfg.InternalKey)
	srv, err := httpserver.New(logger, httpserver.Config{
		Port:          cfg.Server.Port,
		Environment:   cfg.Environment.Name,
		Mode:          cfg.Server.Mode,
		StatusHandler: statusHTTP.New(logger, statusUC),
		AlertHandler:  alertHTTP.New(logger, alertUC),
		Middleware:    mw,
		Redis:         redisClient,
		Discord:       discordClient,
		DBHealth: func() error {
			healthCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return configPostgre.HealthCheck(healthCtx)
		},
	})
	if err != nil {
		logger.Errorf(ctx, "Failed to create HTTP server: %v", err)
		os.Exit(1)
	}

	if err := srv.Run(ctx); err != nil {
		logger.Errorf(ctx, "HTTP server error: %v", err)
		os.Exit(1)
	}

	logger.Info(ctx, "Semaforo Status Engine stopped gracefully")
}

func runSweep(ctx context.Context, logger log.Logger, uc status.UseCase, interval time.Duration) {
	// First sweep right away so a fresh deployment starts consistent.
	if _, err := uc.RecalculateBatch(ctx, status.BatchFilter{}); err != nil {
		logger.Errorf(ctx, "cmd.engine.runSweep: %v", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := uc.RecalculateBatch(ctx, status.BatchFilter{}); err != nil {
				logger.Errorf(ctx, "cmd.engine.runSweep: %v", err)
			}
		}
	}
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	Environment EnvironmentConfig

	Server ServerConfig
	Logger LoggerConfig

	Postgres PostgresConfig
	Redis    RedisConfig

	Engine  EngineConfig
	Discord DiscordConfig

	// InternalKey guards the mutating internal endpoints.
	InternalKey string
}

// EnvironmentConfig is the configuration for the deployment environment.
type EnvironmentConfig struct {
	Name string
}

// ServerConfig is the configuration for the HTTP server.
type ServerConfig struct {
	Host string
	Port int
	Mode string
}

// LoggerConfig is the configuration for the logger.
type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// PostgresConfig is the configuration for PostgreSQL.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig is the configuration for Redis. Redis is optional: it is only
// needed when several engine replicas must share the per-campaign lock.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// EngineConfig tunes the recalculation and dispatch loops.
type EngineConfig struct {
	SweepInterval        time.Duration
	BatchWorkers         int
	DispatchWorkers      int
	DispatchPollInterval time.Duration
	TransportTimeout     time.Duration
	DueBatchLimit        int
	RetryBackoffBase     time.Duration

	// DefaultRecipientRoles receive alerts for campaigns without an
	// explicit responsible user.
	DefaultRecipientRoles []string
}

// DiscordConfig is the configuration for the Discord webhook transport.
type DiscordConfig struct {
	Enabled    bool
	WebhookURL string
}

// Load loads configuration using Viper
func Load() (*Config, error) {
	viper.SetConfigName("semaforo-config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/semaforo/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	// Config file is optional; env vars cover everything.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	cfg.Environment.Name = viper.GetString("environment.name")

	cfg.Server.Host = viper.GetString("server.host")
	cfg.Server.Port = viper.GetInt("server.port")
	cfg.Server.Mode = viper.GetString("server.mode")

	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	cfg.Postgres.Host = viper.GetString("postgres.host")
	cfg.Postgres.Port = viper.GetInt("postgres.port")
	cfg.Postgres.User = viper.GetString("postgres.user")
	cfg.Postgres.Password = viper.GetString("postgres.password")
	cfg.Postgres.DBName = viper.GetString("postgres.dbname")
	cfg.Postgres.SSLMode = viper.GetString("postgres.sslmode")

	cfg.Redis.Enabled = viper.GetBool("redis.enabled")
	cfg.Redis.Host = viper.GetString("redis.host")
	cfg.Redis.Port = viper.GetInt("redis.port")
	cfg.Redis.Password = viper.GetString("redis.password")
	cfg.Redis.DB = viper.GetInt("redis.db")

	cfg.Engine.SweepInterval = viper.GetDuration("engine.sweep_interval")
	cfg.Engine.BatchWorkers = viper.GetInt("engine.batch_workers")
	cfg.Engine.DispatchWorkers = viper.GetInt("engine.dispatch_workers")
	cfg.Engine.DispatchPollInterval = viper.GetDuration("engine.dispatch_poll_interval")
	cfg.Engine.TransportTimeout = viper.GetDuration("engine.transport_timeout")
	cfg.Engine.DueBatchLimit = viper.GetInt("engine.due_batch_limit")
	cfg.Engine.RetryBackoffBase = viper.GetDuration("engine.retry_backoff_base")
	cfg.Engine.DefaultRecipientRoles = viper.GetStringSlice("engine.default_recipient_roles")

	cfg.Discord.Enabled = viper.GetBool("discord.enabled")
	cfg.Discord.WebhookURL = viper.GetString("discord.webhook_url")

	cfg.InternalKey = viper.GetString("internal.key")

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "production")

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8082)
	viper.SetDefault("server.mode", "release")

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.mode", "production")
	viper.SetDefault("logger.encoding", "json")
	viper.SetDefault("logger.color_enabled", false)

	viper.SetDefault("postgres.host", "localhost")
	viper.SetDefault("postgres.port", 5432)
	viper.SetDefault("postgres.user", "semaforo")
	viper.SetDefault("postgres.dbname", "semaforo")
	viper.SetDefault("postgres.sslmode", "disable")

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("engine.sweep_interval", 6*time.Hour)
	viper.SetDefault("engine.batch_workers", 8)
	viper.SetDefault("engine.dispatch_workers", 4)
	viper.SetDefault("engine.dispatch_poll_interval", 30*time.Second)
	viper.SetDefault("engine.transport_timeout", 10*time.Second)
	viper.SetDefault("engine.due_batch_limit", 50)
	viper.SetDefault("engine.retry_backoff_base", time.Minute)
	viper.SetDefault("engine.default_recipient_roles", []string{"trafico"})

	viper.SetDefault("discord.enabled", false)
}

func validate(cfg *Config) error {
	if cfg.Postgres.Host == "" {
		return fmt.Errorf("postgres.host is required")
	}
	if cfg.Postgres.Port == 0 {
		return fmt.Errorf("postgres.port is required")
	}
	if cfg.Postgres.DBName == "" {
		return fmt.Errorf("postgres.dbname is required")
	}

	if cfg.Redis.Enabled {
		if cfg.Redis.Host == "" {
			return fmt.Errorf("redis.host is required when redis is enabled")
		}
		if cfg.Redis.Port == 0 {
			return fmt.Errorf("redis.port is required when redis is enabled")
		}
	}

	if cfg.Discord.Enabled && cfg.Discord.WebhookURL == "" {
		return fmt.Errorf("discord.webhook_url is required when discord is enabled")
	}

	if cfg.Engine.SweepInterval < time.Minute {
		return fmt.Errorf("engine.sweep_interval must be at least 1m")
	}

	return nil
}

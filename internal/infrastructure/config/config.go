package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/samvyt/rifa/internal/shared/config"
)

type Config struct {
	Server   sharedConfig.ServerConfig   `mapstructure:"server"`
	Database sharedConfig.DatabaseConfig `mapstructure:"database"`
	Logger   sharedConfig.LoggerConfig   `mapstructure:"logger"`
	Redis    sharedConfig.RedisConfig    `mapstructure:"redis"`
	Raffle   sharedConfig.RaffleConfig   `mapstructure:"raffle"`
	Payment  sharedConfig.PaymentConfig  `mapstructure:"payment"`
	Watchdog sharedConfig.WatchdogConfig `mapstructure:"watchdog"`
	Email    sharedConfig.EmailConfig    `mapstructure:"email"`
	Admin    sharedConfig.AdminConfig    `mapstructure:"admin"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables.
// configPath overrides the search paths when non-empty.
func Load(env string, configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
	}

	v.SetEnvPrefix("RIFA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// defaults + env are enough to boot against sqlite
	}

	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.timezone", "America/Sao_Paulo")
	v.SetDefault("server.rate_limit", 120)
	v.SetDefault("server.checkout_rate_limit", 10)

	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "rifa.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "rifa_dev")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Raffle defaults
	v.SetDefault("raffle.reservation_window", "15m")
	v.SetDefault("raffle.max_quotas_per_order", 100)
	v.SetDefault("raffle.number_width", 5)
	v.SetDefault("raffle.currency", "BRL")
	v.SetDefault("raffle.stats_cache_ttl", "30s")

	// Payment defaults
	v.SetDefault("payment.provider", "mock")
	v.SetDefault("payment.timeout", "15s")
	v.SetDefault("payment.poll_interval", "5s")
	v.SetDefault("payment.breaker.max_requests", 20)
	v.SetDefault("payment.breaker.interval", "60s")
	v.SetDefault("payment.breaker.timeout", "30s")
	v.SetDefault("payment.breaker.failure_ratio", 0.6)
	v.SetDefault("payment.mock.approval_delay", "30s")
	v.SetDefault("payment.mock.merchant_name", "SAMVYT RIFAS")
	v.SetDefault("payment.mock.merchant_city", "SAO PAULO")
	v.SetDefault("payment.mercadopago.base_url", "https://api.mercadopago.com")
	v.SetDefault("payment.asaas.base_url", "https://api.asaas.com/v3")
	v.SetDefault("payment.infinitepay.base_url", "https://api.infinitepay.io/v1")

	// Watchdog defaults
	v.SetDefault("watchdog.sweep_interval", "1m")

	// Email defaults
	v.SetDefault("email.enabled", false)
	v.SetDefault("email.smtp_host", "localhost")
	v.SetDefault("email.smtp_port", 1025)
	v.SetDefault("email.from_address", "noreply@rifa.local")
	v.SetDefault("email.from_name", "Rifa")

	// Admin defaults
	v.SetDefault("admin.jwt_secret", "change-me-in-production")
	v.SetDefault("admin.token_ttl", "12h")
}

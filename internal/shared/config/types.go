package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	Timezone       string   `mapstructure:"timezone"`
	// RateLimit is requests per minute per client IP on read endpoints;
	// CheckoutRateLimit applies to checkout and history lookups.
	RateLimit         int `mapstructure:"rate_limit"`
	CheckoutRateLimit int `mapstructure:"checkout_rate_limit"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig selects the gorm dialector. Driver "sqlite" uses Path; "mysql" uses the network fields.
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Path            string `mapstructure:"path"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	if d.Driver == "sqlite" {
		return d.Path
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_general_ci&parseTime=true&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// RedisConfig is optional; without it the stats cache, rate limiter and
// quota change fan-out stay in process.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// RaffleConfig holds the sale rules shared by every raffle.
type RaffleConfig struct {
	ReservationWindow time.Duration `mapstructure:"reservation_window"`
	MaxQuotasPerOrder int           `mapstructure:"max_quotas_per_order"`
	NumberWidth       int           `mapstructure:"number_width"`
	Currency          string        `mapstructure:"currency"`
	StatsCacheTTL     time.Duration `mapstructure:"stats_cache_ttl"`
}

type MercadoPagoConfig struct {
	AccessToken string `mapstructure:"access_token"`
	BaseURL     string `mapstructure:"base_url"`
}

type AsaasConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

type InfinitePayConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

type MockPaymentConfig struct {
	ApprovalDelay time.Duration `mapstructure:"approval_delay"`
	MerchantName  string        `mapstructure:"merchant_name"`
	MerchantCity  string        `mapstructure:"merchant_city"`
}

type BreakerConfig struct {
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
}

// PaymentConfig selects the PIX provider once at startup.
type PaymentConfig struct {
	Provider     string            `mapstructure:"provider"`
	Timeout      time.Duration     `mapstructure:"timeout"`
	PollInterval time.Duration     `mapstructure:"poll_interval"`
	Breaker      BreakerConfig     `mapstructure:"breaker"`
	Mock         MockPaymentConfig `mapstructure:"mock"`
	MercadoPago  MercadoPagoConfig `mapstructure:"mercadopago"`
	Asaas        AsaasConfig       `mapstructure:"asaas"`
	InfinitePay  InfinitePayConfig `mapstructure:"infinitepay"`
}

type WatchdogConfig struct {
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type EmailConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
}

type AdminConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

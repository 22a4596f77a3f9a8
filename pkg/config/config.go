package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App        AppConfig
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	Chain      ChainConfig
	EntryProof EntryProofConfig
	OTel       OTelConfig
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Debug       bool
	Version     string
	// PublicBaseURL is the externally reachable base URL, used when
	// building token metadata URIs.
	PublicBaseURL string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Addr returns the Redis address.
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// KafkaConfig holds Kafka/Redpanda connection settings.
type KafkaConfig struct {
	Brokers       []string
	ConsumerGroup string
	ClientID      string
}

// ChainConfig holds settings for the chain bridge the platform signs
// transactions through. The custody address is the platform-held wallet
// tickets live in until a holder claims them; the signer address is the
// key the bridge signs with and must be authorized to move locked tokens.
type ChainConfig struct {
	RPCEndpoint     string
	ContractAddress string
	CustodyAddress  string
	SignerAddress   string
	CallTimeout     time.Duration
	MaxRetries      int
	RetryInterval   time.Duration
}

// EntryProofConfig holds settings for signed entry-proof (QR) tokens.
// TokenTTL is the absolute expiry of an issued proof; RefreshInterval is
// the hint returned to clients for how often to request a fresh one and
// must be shorter than TokenTTL.
type EntryProofConfig struct {
	Secret          string
	TokenTTL        time.Duration
	RefreshInterval time.Duration
}

// OTelConfig holds OpenTelemetry settings.
type OTelConfig struct {
	Enabled       bool
	ServiceName   string
	CollectorAddr string
	SampleRatio   float64
}

// Load loads configuration from environment variables and an optional .env file.
func Load() (*Config, error) {
	return LoadWithPath(".env")
}

// LoadWithPath loads configuration from a specific env file path.
func LoadWithPath(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("env")

	// The .env file is optional; environment variables alone are fine.
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := bindConfig(v)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("APP_NAME", "blocktix")
	v.SetDefault("APP_ENVIRONMENT", "development")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("APP_VERSION", "1.0.0")
	v.SetDefault("APP_PUBLIC_BASE_URL", "http://localhost:8080")

	// Server defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_READ_TIMEOUT", "30s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "30s")
	v.SetDefault("SERVER_IDLE_TIMEOUT", "120s")

	// Database defaults
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "postgres")
	v.SetDefault("DATABASE_DBNAME", "blocktix")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 50)
	v.SetDefault("DATABASE_MAX_IDLE_CONNS", 10)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", "1h")
	v.SetDefault("DATABASE_CONN_MAX_IDLE_TIME", "30m")

	// Redis defaults
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 100)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", 10)
	v.SetDefault("REDIS_DIAL_TIMEOUT", "5s")
	v.SetDefault("REDIS_READ_TIMEOUT", "3s")
	v.SetDefault("REDIS_WRITE_TIMEOUT", "3s")

	// Kafka defaults
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_CONSUMER_GROUP", "blocktix")
	v.SetDefault("KAFKA_CLIENT_ID", "blocktix")

	// Chain defaults
	v.SetDefault("CHAIN_RPC_ENDPOINT", "http://localhost:8545")
	v.SetDefault("CHAIN_CONTRACT_ADDRESS", "")
	v.SetDefault("CHAIN_CUSTODY_ADDRESS", "")
	v.SetDefault("CHAIN_SIGNER_ADDRESS", "")
	v.SetDefault("CHAIN_CALL_TIMEOUT", "10s")
	v.SetDefault("CHAIN_MAX_RETRIES", 2)
	v.SetDefault("CHAIN_RETRY_INTERVAL", "500ms")

	// Entry-proof defaults
	v.SetDefault("ENTRYPROOF_SECRET", "dev-only-qr-secret")
	v.SetDefault("ENTRYPROOF_TOKEN_TTL", "60s")
	v.SetDefault("ENTRYPROOF_REFRESH_INTERVAL", "45s")

	// OTel defaults
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_SERVICE_NAME", "blocktix")
	v.SetDefault("OTEL_COLLECTOR_ADDR", "localhost:4317")
	v.SetDefault("OTEL_SAMPLE_RATIO", 1.0)
}

func bindConfig(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.App.Name = v.GetString("APP_NAME")
	cfg.App.Environment = v.GetString("APP_ENVIRONMENT")
	cfg.App.Debug = v.GetBool("APP_DEBUG")
	cfg.App.Version = v.GetString("APP_VERSION")
	cfg.App.PublicBaseURL = v.GetString("APP_PUBLIC_BASE_URL")

	cfg.Server.Host = v.GetString("SERVER_HOST")
	cfg.Server.Port = v.GetInt("SERVER_PORT")
	cfg.Server.ReadTimeout = v.GetDuration("SERVER_READ_TIMEOUT")
	cfg.Server.WriteTimeout = v.GetDuration("SERVER_WRITE_TIMEOUT")
	cfg.Server.IdleTimeout = v.GetDuration("SERVER_IDLE_TIMEOUT")

	cfg.Database.Host = v.GetString("DATABASE_HOST")
	cfg.Database.Port = v.GetInt("DATABASE_PORT")
	cfg.Database.User = v.GetString("DATABASE_USER")
	cfg.Database.Password = v.GetString("DATABASE_PASSWORD")
	cfg.Database.DBName = v.GetString("DATABASE_DBNAME")
	cfg.Database.SSLMode = v.GetString("DATABASE_SSLMODE")
	cfg.Database.MaxOpenConns = v.GetInt("DATABASE_MAX_OPEN_CONNS")
	cfg.Database.MaxIdleConns = v.GetInt("DATABASE_MAX_IDLE_CONNS")
	cfg.Database.ConnMaxLifetime = v.GetDuration("DATABASE_CONN_MAX_LIFETIME")
	cfg.Database.ConnMaxIdleTime = v.GetDuration("DATABASE_CONN_MAX_IDLE_TIME")

	cfg.Redis.Host = v.GetString("REDIS_HOST")
	cfg.Redis.Port = v.GetInt("REDIS_PORT")
	cfg.Redis.Password = v.GetString("REDIS_PASSWORD")
	cfg.Redis.DB = v.GetInt("REDIS_DB")
	cfg.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	cfg.Redis.MinIdleConns = v.GetInt("REDIS_MIN_IDLE_CONNS")
	cfg.Redis.DialTimeout = v.GetDuration("REDIS_DIAL_TIMEOUT")
	cfg.Redis.ReadTimeout = v.GetDuration("REDIS_READ_TIMEOUT")
	cfg.Redis.WriteTimeout = v.GetDuration("REDIS_WRITE_TIMEOUT")

	cfg.Kafka.Brokers = strings.Split(v.GetString("KAFKA_BROKERS"), ",")
	cfg.Kafka.ConsumerGroup = v.GetString("KAFKA_CONSUMER_GROUP")
	cfg.Kafka.ClientID = v.GetString("KAFKA_CLIENT_ID")

	cfg.Chain.RPCEndpoint = v.GetString("CHAIN_RPC_ENDPOINT")
	cfg.Chain.ContractAddress = v.GetString("CHAIN_CONTRACT_ADDRESS")
	cfg.Chain.CustodyAddress = v.GetString("CHAIN_CUSTODY_ADDRESS")
	cfg.Chain.SignerAddress = v.GetString("CHAIN_SIGNER_ADDRESS")
	cfg.Chain.CallTimeout = v.GetDuration("CHAIN_CALL_TIMEOUT")
	cfg.Chain.MaxRetries = v.GetInt("CHAIN_MAX_RETRIES")
	cfg.Chain.RetryInterval = v.GetDuration("CHAIN_RETRY_INTERVAL")

	cfg.EntryProof.Secret = v.GetString("ENTRYPROOF_SECRET")
	cfg.EntryProof.TokenTTL = v.GetDuration("ENTRYPROOF_TOKEN_TTL")
	cfg.EntryProof.RefreshInterval = v.GetDuration("ENTRYPROOF_REFRESH_INTERVAL")

	cfg.OTel.Enabled = v.GetBool("OTEL_ENABLED")
	cfg.OTel.ServiceName = v.GetString("OTEL_SERVICE_NAME")
	cfg.OTel.CollectorAddr = v.GetString("OTEL_COLLECTOR_ADDR")
	cfg.OTel.SampleRatio = v.GetFloat64("OTEL_SAMPLE_RATIO")

	return cfg
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.EntryProof.Secret == "" {
		return fmt.Errorf("entry-proof secret is required")
	}
	if c.IsProduction() && c.EntryProof.Secret == "dev-only-qr-secret" {
		return fmt.Errorf("entry-proof secret must be changed in production")
	}

	if c.EntryProof.TokenTTL <= 0 {
		return fmt.Errorf("entry-proof token TTL must be positive")
	}
	if c.EntryProof.RefreshInterval >= c.EntryProof.TokenTTL {
		return fmt.Errorf("entry-proof refresh interval (%s) must be shorter than token TTL (%s)",
			c.EntryProof.RefreshInterval, c.EntryProof.TokenTTL)
	}

	if c.Chain.CallTimeout <= 0 {
		return fmt.Errorf("chain call timeout must be positive")
	}

	return nil
}

// ValidateChain validates chain bridge configuration. The API server and
// the mint worker need this; tooling that never touches the chain does not.
func (c *Config) ValidateChain() error {
	if c.Chain.RPCEndpoint == "" {
		return fmt.Errorf("CHAIN_RPC_ENDPOINT is required")
	}
	if c.Chain.CustodyAddress == "" {
		return fmt.Errorf("CHAIN_CUSTODY_ADDRESS is required")
	}
	if c.Chain.SignerAddress == "" {
		return fmt.Errorf("CHAIN_SIGNER_ADDRESS is required")
	}
	return nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development environment.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// State backends for per-node subscription records.
const (
	StateMemory   = "memory"
	StateMongo    = "mongo"
	StatePostgres = "postgres"
	StateRedis    = "redis"
	StateSQLite   = "sqlite"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Linkly   LinklyConfig
	Trigger  TriggerConfig
	State    StateConfig
	MongoDB  MongoDBConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	SQLite   SQLiteConfig
	Kafka    KafkaConfig
	Stats    StatsConfig
	Security SecurityConfig
	OTel     OTelConfig
}

type AppConfig struct {
	Name     string
	Version  string
	Env      string
	LogLevel string
}

type ServerConfig struct {
	Port string
	Host string
}

// LinklyConfig holds the remote API location and the workspace credential.
type LinklyConfig struct {
	BaseURL     string
	APIKey      string
	WorkspaceID string
	Timeout     time.Duration

	// BreakerMaxFailures <= 0 disables the circuit breaker.
	BreakerMaxFailures  int
	BreakerResetTimeout time.Duration
}

type TriggerConfig struct {
	// PublicBaseURL is the externally reachable origin Linkly calls back on.
	PublicBaseURL string
	NodesFile     string
	EmitTimeout   time.Duration
}

type StateConfig struct {
	Backend string
}

type MongoDBConfig struct {
	URI      string
	Database string
}

type PostgresConfig struct {
	DSN string

	// MaxConns <= 0 keeps the pgx pool default.
	MaxConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SQLiteConfig struct {
	Path string
}

// StatsConfig enables the click stats route, backed by MongoDB.
type StatsConfig struct {
	Enabled bool
}

type KafkaConfig struct {
	Enabled       bool
	Brokers       []string
	ClickTopic    string
	ConsumerGroup string
}

type SecurityConfig struct {
	APIKeys []string
	// Empty allows any origin.
	AllowedOrigins []string

	// Webhook intake limit per node and window; 0 disables limiting.
	WebhookRateLimit  int64
	WebhookRateWindow time.Duration
}

type OTelConfig struct {
	Enabled  bool
	Endpoint string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: .env file not found, using environment variables")
	}

	cfg := &Config{
		App: AppConfig{
			Name:     GetEnv("APP_NAME", "linkly-connector"),
			Version:  GetEnv("APP_VERSION", "0.1.0"),
			Env:      GetEnv("APP_ENV", "development"),
			LogLevel: GetEnv("LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port: GetEnv("APP_PORT", "8080"),
			Host: GetEnv("APP_HOST", "localhost"),
		},
		Linkly: LinklyConfig{
			BaseURL:             GetEnv("LINKLY_BASE_URL", "https://app.linklyhq.com"),
			APIKey:              GetEnv("LINKLY_API_KEY", ""),
			WorkspaceID:         GetEnv("LINKLY_WORKSPACE_ID", ""),
			Timeout:             GetEnvDuration("LINKLY_TIMEOUT", 30*time.Second),
			BreakerMaxFailures:  GetEnvInt("LINKLY_BREAKER_MAX_FAILURES", 0),
			BreakerResetTimeout: GetEnvDuration("LINKLY_BREAKER_RESET_TIMEOUT", 30*time.Second),
		},
		Trigger: TriggerConfig{
			PublicBaseURL: strings.TrimRight(GetEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
			NodesFile:     GetEnv("TRIGGER_NODES_FILE", "nodes.yaml"),
			EmitTimeout:   GetEnvDuration("TRIGGER_EMIT_TIMEOUT", 5*time.Second),
		},
		State: StateConfig{
			Backend: strings.ToLower(GetEnv("STATE_BACKEND", StateMemory)),
		},
		MongoDB: MongoDBConfig{
			URI:      GetEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: GetEnv("MONGODB_DATABASE", "linkly"),
		},
		Postgres: PostgresConfig{
			DSN:      GetEnv("DATABASE_URL", DefaultPostgresDSN()),
			MaxConns: GetEnvInt("DB_MAX_CONNS", 0),
		},
		Redis: RedisConfig{
			Addr:     GetEnv("REDIS_ADDR", ""),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetEnvInt("REDIS_DB", 0),
		},
		SQLite: SQLiteConfig{
			Path: GetEnv("SQLITE_PATH", "linkly.db"),
		},
		Kafka: KafkaConfig{
			Enabled:       GetEnvBool("KAFKA_ENABLED", false),
			Brokers:       SplitCSV(GetEnv("KAFKA_BROKERS", "localhost:9092")),
			ClickTopic:    GetEnv("KAFKA_CLICK_TOPIC", "linkly.clicks"),
			ConsumerGroup: GetEnv("KAFKA_CONSUMER_GROUP", "linkly-click-consumer"),
		},
		Stats: StatsConfig{
			Enabled: GetEnvBool("CLICK_STATS_ENABLED", false),
		},
		Security: SecurityConfig{
			APIKeys:           SplitCSV(GetEnv("API_KEYS", "")),
			AllowedOrigins:    SplitCSV(GetEnv("CORS_ALLOWED_ORIGINS", "")),
			WebhookRateLimit:  GetEnvInt64("WEBHOOK_RATE_LIMIT", 600),
			WebhookRateWindow: GetEnvDuration("WEBHOOK_RATE_WINDOW", time.Minute),
		},
		OTel: OTelConfig{
			Enabled:  GetEnvBool("OTEL_ENABLED", false),
			Endpoint: GetEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints that env parsing cannot express.
func (c *Config) Validate() error {
	switch c.State.Backend {
	case StateMemory, StateMongo, StatePostgres, StateRedis, StateSQLite:
	default:
		return fmt.Errorf("STATE_BACKEND must be one of memory, mongo, postgres, redis, sqlite (got %q)", c.State.Backend)
	}
	if c.State.Backend == StateRedis && c.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required when STATE_BACKEND=redis")
	}
	if u, err := url.Parse(c.Linkly.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("LINKLY_BASE_URL must be an absolute URL (got %q)", c.Linkly.BaseURL)
	}
	if u, err := url.Parse(c.Trigger.PublicBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("PUBLIC_BASE_URL must be an absolute URL (got %q)", c.Trigger.PublicBaseURL)
	}
	if c.Linkly.Timeout <= 0 {
		return fmt.Errorf("LINKLY_TIMEOUT must be positive (got %s)", c.Linkly.Timeout)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED=true")
	}
	if c.Security.WebhookRateLimit < 0 {
		return fmt.Errorf("WEBHOOK_RATE_LIMIT must be >= 0 (got %d)", c.Security.WebhookRateLimit)
	}
	return nil
}

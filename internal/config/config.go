package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Database  DatabaseConfig
	Items     ItemsConfig
	Paging    PagingConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	Telemetry TelemetryConfig
	Swagger   SwaggerConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

// IsDevelopment reports whether the server runs outside production
func (c ServerConfig) IsDevelopment() bool {
	return c.Env != "production"
}

type LogConfig struct {
	Level string
}

type DatabaseConfig struct {
	Driver   string
	URL      string // full DSN, takes precedence over the discrete fields
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Path     string // sqlite file path, ":memory:" for a private in-memory database
	MaxConns int32
}

// DSN returns the PostgreSQL connection string
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Database,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

// ItemsConfig holds the item listing strategy switch
type ItemsConfig struct {
	JoinFetchEnabled bool
}

type PagingConfig struct {
	DefaultSize int
	MaxSize     int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

type TelemetryConfig struct {
	Endpoint    string
	ServiceName string
}

type SwaggerConfig struct {
	Enabled bool
}

// Load reads configuration from .env, an optional config file and the environment.
// Environment variables win; keys map to env names by upper-casing and replacing
// "." and "-" with "_" (app.items.join-fetch.enabled -> APP_ITEMS_JOIN_FETCH_ENABLED).
func Load() (*Config, error) {
	// A missing .env is fine
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance
func FromViper(v *viper.Viper) (*Config, error) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("server.port"),
			Env:  v.GetString("server.env"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(v.GetString("db.driver")),
			URL:      v.GetString("db.url"),
			Host:     v.GetString("db.host"),
			Port:     v.GetString("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			Database: v.GetString("db.database"),
			SSLMode:  v.GetString("db.sslmode"),
			Path:     v.GetString("db.path"),
			MaxConns: v.GetInt32("db.max_conns"),
		},
		Items: ItemsConfig{
			JoinFetchEnabled: v.GetBool("app.items.join-fetch.enabled"),
		},
		Paging: PagingConfig{
			DefaultSize: v.GetInt("app.paging.default-size"),
			MaxSize:     v.GetInt("app.paging.max-size"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
		},
		RateLimit: RateLimitConfig{
			Enabled:  v.GetBool("ratelimit.enabled"),
			Requests: v.GetInt("ratelimit.requests"),
			Window:   v.GetDuration("ratelimit.window"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetString("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Telemetry: TelemetryConfig{
			Endpoint:    v.GetString("otel.endpoint"),
			ServiceName: v.GetString("otel.service_name"),
		},
		Swagger: SwaggerConfig{
			Enabled: v.GetBool("swagger.enabled"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("log.level", "info")

	v.SetDefault("db.driver", DriverPostgres)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.database", "catalog")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.path", "catalog.db")
	v.SetDefault("db.max_conns", 25)

	v.SetDefault("app.items.join-fetch.enabled", false)
	v.SetDefault("app.paging.default-size", 20)
	v.SetDefault("app.paging.max-size", 200)

	v.SetDefault("ratelimit.enabled", false)
	v.SetDefault("ratelimit.requests", 100)
	v.SetDefault("ratelimit.window", time.Minute)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("otel.service_name", "catalog-api")
	v.SetDefault("swagger.enabled", true)
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Paging.DefaultSize < 1 {
		return fmt.Errorf("app.paging.default-size must be at least 1, got %d", c.Paging.DefaultSize)
	}
	if c.Paging.MaxSize < c.Paging.DefaultSize {
		return fmt.Errorf("app.paging.max-size (%d) must not be below default size (%d)", c.Paging.MaxSize, c.Paging.DefaultSize)
	}
	if c.RateLimit.Enabled && (c.RateLimit.Requests < 1 || c.RateLimit.Window <= 0) {
		return errors.New("rate limiting requires a positive request count and window")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

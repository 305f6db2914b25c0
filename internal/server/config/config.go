// Package config handles configuration for the server component:
// defaults, an optional JSON/YAML file, environment variables and
// command-line flags, applied in that order.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// Config holds runtime settings for the KrishiSahayak API server.
//
// Fields:
//   - Port: HTTP listen port, or a full host:port address.
//   - GRPCHealthAddr: bind address of the gRPC health probe; empty disables it.
//   - DatabaseDriver: "pgx" (PostgreSQL) or "sqlite".
//   - DatabaseDSN: explicit DSN; when empty it is derived from the DB* fields.
//   - JWTSecret: HMAC secret for signing session tokens (HS256).
//   - TokenValidityDuration: lifetime of an issued session token.
//   - GeminiAPIKey / GeminiModel: generative AI credentials and model name.
type Config struct {
	Port           string `mapstructure:"port"`
	GRPCHealthAddr string `mapstructure:"grpc_health_addr"`

	DatabaseDriver string `mapstructure:"database_driver"`
	DatabaseDSN    string `mapstructure:"database_dsn"`
	DBHost         string `mapstructure:"db_host"`
	DBPort         int    `mapstructure:"db_port"`
	DBUser         string `mapstructure:"db_user"`
	DBPassword     string `mapstructure:"db_password"`
	DBName         string `mapstructure:"db_name"`
	DBMaxOpenConns int    `mapstructure:"db_max_open_conns"`

	JWTSecret             string        `mapstructure:"jwt_secret"`
	TokenValidityDuration time.Duration `mapstructure:"token_validity_duration"`

	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	GeminiModel  string `mapstructure:"gemini_model"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: the JWT secret default is insecure and must be overridden in production.
func (c *Config) LoadDefaults() {
	c.Port = "3000"
	c.GRPCHealthAddr = ":50051"
	c.DatabaseDriver = DriverPostgres
	c.DBHost = "localhost"
	c.DBPort = 5432
	c.DBUser = "postgres"
	c.DBPassword = "postgres"
	c.DBName = "krishi"
	c.DBMaxOpenConns = 10
	c.JWTSecret = "secretKey"
	c.TokenValidityDuration = 24 * time.Hour
	c.GeminiModel = "gemini-2.5-flash"
	c.LogLevel = "info"
	c.LogFormat = "json"
}

// LoadConfig builds a Config by applying defaults, then overlaying the
// optional config file and environment, and finally command-line flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFileAndEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.GeminiAPIKey) == "" {
		errs = append(errs, errors.New("gemini_api_key is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt_secret must not be empty"))
	}
	if c.TokenValidityDuration <= 0 {
		errs = append(errs, errors.New("token_validity_duration must be positive"))
	}
	switch c.DatabaseDriver {
	case DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown database_driver %q", c.DatabaseDriver))
	}
	if c.DBMaxOpenConns <= 0 {
		errs = append(errs, errors.New("db_max_open_conns must be positive"))
	}

	return errors.Join(errs...)
}

// Addr returns the HTTP listen address. A bare port becomes ":port".
func (c *Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// DSN returns DatabaseDSN when set, otherwise a DSN built for the driver.
func (c *Config) DSN() string {
	if c.DatabaseDSN != "" {
		return c.DatabaseDSN
	}
	if c.DatabaseDriver == DriverSQLite {
		return "krishi.db"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, fmt.Sprint(c.DBPort)),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

package config

import (
	"fmt"

	"github.com/dmitrijs2005/krishisahayak/internal/flagx"
	"github.com/spf13/viper"
)

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"port":                    "PORT",
	"grpc_health_addr":        "GRPC_HEALTH_ADDR",
	"database_driver":         "DB_DRIVER",
	"database_dsn":            "DATABASE_DSN",
	"db_host":                 "DB_HOST",
	"db_port":                 "DB_PORT",
	"db_user":                 "DB_USER",
	"db_password":             "DB_PASSWORD",
	"db_name":                 "DB_NAME",
	"db_max_open_conns":       "DB_MAX_OPEN_CONNS",
	"jwt_secret":              "JWT_SECRET",
	"token_validity_duration": "TOKEN_VALIDITY_DURATION",
	"gemini_api_key":          "GEMINI_API_KEY",
	"gemini_model":            "GEMINI_MODEL",
	"log_level":               "LOG_LEVEL",
	"log_format":              "LOG_FORMAT",
}

// parseFileAndEnv overlays config with values from the file named by
// -c/-config (JSON or YAML, chosen by extension) and then from the
// environment. Keys absent from both keep their current values.
func parseFileAndEnv(config *Config) error {
	return overlay(config, flagx.ConfigFileFlag())
}

func overlay(config *Config, path string) error {
	v := viper.New()

	// current values act as defaults so that Unmarshal never zeroes them
	v.SetDefault("port", config.Port)
	v.SetDefault("grpc_health_addr", config.GRPCHealthAddr)
	v.SetDefault("database_driver", config.DatabaseDriver)
	v.SetDefault("database_dsn", config.DatabaseDSN)
	v.SetDefault("db_host", config.DBHost)
	v.SetDefault("db_port", config.DBPort)
	v.SetDefault("db_user", config.DBUser)
	v.SetDefault("db_password", config.DBPassword)
	v.SetDefault("db_name", config.DBName)
	v.SetDefault("db_max_open_conns", config.DBMaxOpenConns)
	v.SetDefault("jwt_secret", config.JWTSecret)
	v.SetDefault("token_validity_duration", config.TokenValidityDuration)
	v.SetDefault("gemini_api_key", config.GeminiAPIKey)
	v.SetDefault("gemini_model", config.GeminiModel)
	v.SetDefault("log_level", config.LogLevel)
	v.SetDefault("log_format", config.LogFormat)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

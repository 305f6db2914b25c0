package config

import (
	"fmt"

	"github.com/dmitrijs2005/krishisahayak/internal/flagx"
	"github.com/spf13/viper"
)

var envBindings = map[string]string{
	"server_url":      "KRISHI_SERVER_URL",
	"request_timeout": "KRISHI_REQUEST_TIMEOUT",
	"token_file":      "KRISHI_TOKEN_FILE",
}

// parseFileAndEnv overlays cfg with the file named by -c/-config (JSON or
// YAML) and then with KRISHI_* environment variables.
func parseFileAndEnv(cfg *Config) error {
	return overlay(cfg, flagx.ConfigFileFlag())
}

func overlay(cfg *Config, path string) error {
	v := viper.New()

	v.SetDefault("server_url", cfg.ServerURL)
	v.SetDefault("request_timeout", cfg.RequestTimeout)
	v.SetDefault("token_file", cfg.TokenFile)

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

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/krishisahayak/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP port or address (e.g. "3000", ":8080")
//	-g string   gRPC health probe address, empty disables it
//	-d string   database driver, "pgx" or "sqlite"
//	-dsn string database DSN
//	-s string   JWT HMAC secret key
//	-t int      session token validity, minutes
//	-k string   Gemini API key
//	-m string   Gemini model name
//
// os.Args is first filtered with flagx.FilterArgs so that -c/-config and
// flags meant for other components do not fail parsing.
func parseFlags(config *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-d", "-dsn", "-s", "-t", "-k", "-m"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.Port, "a", config.Port, "HTTP port or address to listen on")
	fs.StringVar(&config.GRPCHealthAddr, "g", config.GRPCHealthAddr, "gRPC health probe address")
	fs.StringVar(&config.DatabaseDriver, "d", config.DatabaseDriver, "database driver (pgx|sqlite)")
	fs.StringVar(&config.DatabaseDSN, "dsn", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.JWTSecret, "s", config.JWTSecret, "secret key")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token_validity_duration (in minutes)")

	fs.StringVar(&config.GeminiAPIKey, "k", config.GeminiAPIKey, "Gemini API key")
	fs.StringVar(&config.GeminiModel, "m", config.GeminiModel, "Gemini model")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// only an explicit -t overrides, so sub-minute file values survive
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
		}
	})
	return nil
}

// Package config loads runtime configuration for the KrishiSahayak CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file selected with -c/-config (or $CONFIG).
//  3. Environment: KRISHI_SERVER_URL, KRISHI_REQUEST_TIMEOUT, KRISHI_TOKEN_FILE.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the API server
//	-t int      request timeout (seconds)
//	-f string   session token file
//
// # File schema
//
//	{
//	  "server_url": "http://localhost:3000",
//	  "request_timeout": "60s",
//	  "token_file": "/home/farmer/.krishi-token"
//	}
package config

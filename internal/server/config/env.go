package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable read by the server.
const EnvPrefix = "CERTIFIER"

// parseEnv loads dotenv (when the file exists) without overriding variables
// already set, then overlays CERTIFIER_* variables onto config. Unset
// variables leave the current value untouched.
func parseEnv(config *Config, dotenv string) error {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", dotenv, err)
		}
	}
	if err := envconfig.Process(EnvPrefix, config); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	return nil
}

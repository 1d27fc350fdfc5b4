package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable read by the CLI.
const EnvPrefix = "CERTIFIER_CLI"

// Config holds runtime settings for the certifier CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the server's gRPC endpoint.
//   - SessionFile: SQLite file keeping the login session between invocations.
//   - RequestTimeout: deadline applied to every call.
type Config struct {
	ServerEndpointAddr string        `envconfig:"SERVER_ADDR"`
	SessionFile        string        `envconfig:"SESSION_FILE"`
	RequestTimeout     time.Duration `envconfig:"TIMEOUT"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.SessionFile = "certifier-session.db"
	c.RequestTimeout = 15 * time.Second
}

// Load builds a Config from defaults, the JSON file at path (skipped when
// empty) and CERTIFIER_CLI_* environment variables, in that order. Command
// flags are applied on top by the caller.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, path); err != nil {
		return nil, err
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	return cfg, nil
}

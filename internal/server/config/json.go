package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/certifier/internal/flagx"
	"github.com/dmitrijs2005/certifier/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations accept
// strings such as "15m" or integer nanoseconds. Absent fields keep their
// current value.
type JsonConfig struct {
	EndpointAddrGRPC             *string         `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP             *string         `json:"endpoint_addr_http"`
	PublicBaseURL                *string         `json:"public_base_url"`
	Storage                      *string         `json:"storage"`
	DatabaseDSN                  *string         `json:"database_dsn"`
	SecretKey                    *string         `json:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	S3AccessKey                  *string         `json:"s3_access_key"`
	S3SecretKey                  *string         `json:"s3_secret_key"`
	S3Bucket                     *string         `json:"s3_bucket"`
	S3Region                     *string         `json:"s3_region"`
	S3BaseEndpoint               *string         `json:"s3_base_endpoint"`
	AssetURLExpiry               *timex.Duration `json:"asset_url_expiry"`
	ShutdownTimeout              *timex.Duration `json:"shutdown_timeout"`
	Debug                        *bool           `json:"debug"`
}

// parseJson overlays the file named by -c/-config in args onto config.
// Without the flag nothing is loaded.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.PublicBaseURL, c.PublicBaseURL)
	setString(&config.Storage, c.Storage)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.AssetURLExpiry != nil {
		config.AssetURLExpiry = c.AssetURLExpiry.Duration
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.Debug != nil {
		config.Debug = *c.Debug
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// envPrefix namespaces every variable, e.g. SHOPKEEPER_DATABASE_DSN.
const envPrefix = "SHOPKEEPER"

// EnvConfig lists the environment variables understood by the server.
// Unset variables stay nil and do not touch the config.
type EnvConfig struct {
	EndpointAddrHTTP            *string        `envconfig:"ENDPOINT_ADDR_HTTP"`
	DatabaseDSN                 *string        `envconfig:"DATABASE_DSN"`
	SecretKey                   *string        `envconfig:"SECRET_KEY"`
	AccessTokenValidityDuration *time.Duration `envconfig:"ACCESS_TOKEN_VALIDITY_DURATION"`
	BcryptCost                  *int           `envconfig:"BCRYPT_COST"`
	ProtectResources            *bool          `envconfig:"PROTECT_RESOURCES"`
	LogLevel                    *string        `envconfig:"LOG_LEVEL"`
	ShutdownTimeout             *time.Duration `envconfig:"SHUTDOWN_TIMEOUT"`
	S3RootUser                  *string        `envconfig:"S3_ROOT_USER"`
	S3RootPassword              *string        `envconfig:"S3_ROOT_PASSWORD"`
	S3Bucket                    *string        `envconfig:"S3_BUCKET"`
	S3Region                    *string        `envconfig:"S3_REGION"`
	S3BaseEndpoint              *string        `envconfig:"S3_BASE_ENDPOINT"`
}

// parseEnv loads an optional .env file from the working directory and then
// overlays SHOPKEEPER_* variables onto config. Variables already present in
// the process environment win over the .env file. Malformed values panic.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	e := &EnvConfig{}
	if err := envconfig.Process(envPrefix, e); err != nil {
		panic(err)
	}

	overlay(&config.EndpointAddrHTTP, e.EndpointAddrHTTP)
	overlay(&config.DatabaseDSN, e.DatabaseDSN)
	overlay(&config.SecretKey, e.SecretKey)
	overlay(&config.AccessTokenValidityDuration, e.AccessTokenValidityDuration)
	overlay(&config.BcryptCost, e.BcryptCost)
	overlay(&config.ProtectResources, e.ProtectResources)
	overlay(&config.LogLevel, e.LogLevel)
	overlay(&config.ShutdownTimeout, e.ShutdownTimeout)
	overlay(&config.S3RootUser, e.S3RootUser)
	overlay(&config.S3RootPassword, e.S3RootPassword)
	overlay(&config.S3Bucket, e.S3Bucket)
	overlay(&config.S3Region, e.S3Region)
	overlay(&config.S3BaseEndpoint, e.S3BaseEndpoint)
}

func overlay[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

package config // package config loads application configuration from environment variables

import (
	"errors" // errors reports invalid combinations of settings
	"fmt"    // fmt wraps loading errors
	"io/fs"  // fs identifies a missing .env file
	"os"     // os provides access to environment variables
	"time"   // time resolves the showtime location

	"github.com/joho/godotenv" // godotenv loads KEY=VALUE pairs from a .env file
)

// Config holds all runtime configuration values.  Every field has a default
// so that the box office runs without any configuration at all; the
// optional outer surfaces (HTTP API, broker, rate limiter) stay off until
// their variables are set.
type Config struct {
	Env                  string          // application environment (e.g. "dev", "prod")
	LogLevel             string          // zap level: debug, info, warn, error
	Timezone             string          // IANA name used for showtimes; empty means local time
	HTTPAddr             string          // operator API listen address; empty disables the API
	JWTSecret            string          // secret used to sign operator access tokens
	AccessTTLMin         int             // access token time-to-live in minutes
	OperatorPasswordHash string          // bcrypt hash of the operator password
	BcryptCost           int             // bcrypt cost used by hash-password
	AMQPURL              string          // RabbitMQ URL; empty disables sales events
	SalesLogDir          string          // directory the consumer appends sales.log to
	Redis                RedisConfig     // rate limiter store
	RateLimit            RateLimitConfig // token bucket settings for the operator API
}

// ErrHTTPAuthNotConfigured is returned by ValidateHTTP when the operator API
// is enabled without the secrets it needs to authenticate operators.
var ErrHTTPAuthNotConfigured = errors.New("operator API needs JWT_SECRET and OPERATOR_PASSWORD_HASH")

// Load reads an optional .env file and then the environment.  A missing
// env file is not an error; an unreadable one is.  Variables already set in
// the environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := Config{
		Env:                  envStr("APP_ENV", "dev"),                      // environment (dev/test/prod)
		LogLevel:             envStr("LOG_LEVEL", "warn"),                   // quiet by default so shell output stays clean
		Timezone:             os.Getenv("TIMEZONE"),                         // empty: local time
		HTTPAddr:             os.Getenv("HTTP_ADDR"),                        // empty: API disabled
		JWTSecret:            os.Getenv("JWT_SECRET"),                       // secret used for signing JWTs
		AccessTTLMin:         envInt("ACCESS_TOKEN_TTL_MIN", 60),            // TTL for access tokens in minutes
		OperatorPasswordHash: os.Getenv("OPERATOR_PASSWORD_HASH"),           // bcrypt hash checked on login
		BcryptCost:           envInt("BCRYPT_COST", 10),                     // bcrypt cost factor
		AMQPURL:              envStr("AMQP_URL", os.Getenv("RABBITMQ_URL")), // broker URL
		SalesLogDir:          envStr("SALES_LOG_DIR", "logs"),               // consumer output
		Redis:                LoadRedisConfig(),
		RateLimit:            LoadRateLimitConfig(),
	}
	if cfg.AccessTTLMin < 1 {
		cfg.AccessTTLMin = 60
	}
	return cfg, nil
}

// Location resolves Timezone.  An empty Timezone means local time.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// HTTPEnabled reports whether the operator API should be started.
func (c Config) HTTPEnabled() bool { return c.HTTPAddr != "" }

// ValidateHTTP checks that the operator API can authenticate operators.
func (c Config) ValidateHTTP() error {
	if c.JWTSecret == "" || c.OperatorPasswordHash == "" {
		return ErrHTTPAuthNotConfigured
	}
	return nil
}

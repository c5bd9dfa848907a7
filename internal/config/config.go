package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"apigw-agent-bridge/internal/runtime"
)

// Config holds all configuration for the application
type Config struct {
	Environment     string
	Port            string
	Log             LogConfig
	Runtime         RuntimeConfig
	RateLimit       RateLimitConfig
	MaxRequestBytes int64
	JWT             JWTConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string // "text" or "json"
}

// RuntimeConfig controls which invocation shapes the dispatcher serves
type RuntimeConfig struct {
	// Accept is the raw RUNTIME_ACCEPT value. Empty means every payload is
	// passed to the handler untouched.
	Accept      string
	Accepted    runtime.AcceptedShapes
	ContentType string
}

// RateLimitConfig holds local server rate limiting configuration
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// JWTConfig holds bearer token configuration. An empty secret disables auth.
type JWTConfig struct {
	Secret string
	Issuer string
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Set up Viper
	viper.AutomaticEnv()
	viper.SetDefault("PORT", "8081")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("RUNTIME_ACCEPT", "")
	viper.SetDefault("AGENT_CONTENT_TYPE", "application/json")
	viper.SetDefault("RATE_LIMIT_RPS", 20)
	viper.SetDefault("RATE_LIMIT_BURST", 40)
	viper.SetDefault("MAX_REQUEST_BYTES", 1<<20)
	viper.SetDefault("JWT_ISSUER", "apigw-agent-bridge")

	accept := viper.GetString("RUNTIME_ACCEPT")
	accepted, err := runtime.ParseAcceptedShapes(accept)
	if err != nil {
		return nil, fmt.Errorf("invalid RUNTIME_ACCEPT: %w", err)
	}

	config := &Config{
		Environment: viper.GetString("ENVIRONMENT"),
		Port:        viper.GetString("PORT"),
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
		Runtime: RuntimeConfig{
			Accept:      accept,
			Accepted:    accepted,
			ContentType: viper.GetString("AGENT_CONTENT_TYPE"),
		},
		RateLimit: RateLimitConfig{
			RPS:   viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst: viper.GetInt("RATE_LIMIT_BURST"),
		},
		MaxRequestBytes: viper.GetInt64("MAX_REQUEST_BYTES"),
		JWT: JWTConfig{
			Secret: viper.GetString("JWT_SECRET"),
			Issuer: viper.GetString("JWT_ISSUER"),
		},
	}

	return config, nil
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

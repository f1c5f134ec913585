package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Env    string
	Server ServerConfig
	API    APIConfig
	Cookie CookieConfig
	OTEL   OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// APIConfig holds the Haunted BnB REST API client configuration
type APIConfig struct {
	BaseURL string
	// TimeoutSeconds of 0 leaves outbound calls bounded only by the request context.
	TimeoutSeconds int
}

// CookieConfig holds token cookie configuration
type CookieConfig struct {
	Secure bool
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables. A .env file in the
// working directory is applied first when present; real environment
// variables win over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{
		Env: getEnv("ENV", "production"),
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8000),
		},
		API: APIConfig{
			BaseURL:        getEnv("API_BASE_URL", "http://localhost:5000/api/v1"),
			TimeoutSeconds: getEnvAsInt("API_TIMEOUT_SECONDS", 0),
		},
		Cookie: CookieConfig{
			Secure: getEnvAsBool("COOKIE_SECURE", false),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "haunted-bnb-web"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if cfg.API.TimeoutSeconds < 0 {
		return nil, fmt.Errorf("API_TIMEOUT_SECONDS must not be negative, got %d", cfg.API.TimeoutSeconds)
	}

	return cfg, nil
}

// Addr returns the listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Timeout returns the outbound client timeout, zero meaning none
func (c *APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

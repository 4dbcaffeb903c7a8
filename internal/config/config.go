package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// AuthConfig holds JWT verification configuration for the identity provider.
type AuthConfig struct {
	Domain   string // e.g., "your-tenant.auth0.com"
	Audience string // e.g., "https://api.flashdeck.app"
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // seconds
}

// OpenRouterConfig holds configuration for the AI text-completion service.
type OpenRouterConfig struct {
	APIKey string
	Model  string
}

type Config struct {
	Port        string
	Environment string
	Database    DatabaseConfig
	Auth        AuthConfig
	OpenRouter  OpenRouterConfig
	RedisAddr   string // optional; candidate store falls back to memory when empty
}

// Load reads configuration from environment variables.
// It fails fast with clear errors for missing required values.
func Load() (*Config, error) {
	var missing []string

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	env := os.Getenv("ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "staging" && env != "production" {
		return nil, fmt.Errorf("invalid ENV value %q: must be development, staging, or production", env)
	}

	// Database configuration (required)
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	// Identity provider configuration (required)
	authDomain := os.Getenv("AUTH_DOMAIN")
	if authDomain == "" {
		missing = append(missing, "AUTH_DOMAIN")
	}

	authAudience := os.Getenv("AUTH_AUDIENCE")
	if authAudience == "" {
		missing = append(missing, "AUTH_AUDIENCE")
	}

	// OpenRouter API key (required)
	openRouterKey := os.Getenv("OPENROUTER_API_KEY")
	if openRouterKey == "" {
		missing = append(missing, "OPENROUTER_API_KEY")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %v", missing)
	}

	// Validate database URL format
	if err := validateDatabaseURL(databaseURL); err != nil {
		return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
	}

	// Validate identity provider domain format
	if err := validateAuthDomain(authDomain); err != nil {
		return nil, fmt.Errorf("invalid AUTH_DOMAIN: %w", err)
	}

	model := os.Getenv("OPENROUTER_MODEL")
	if model == "" {
		model = "anthropic/claude-3-haiku:beta"
	}

	dbConfig := DatabaseConfig{
		URL:             databaseURL,
		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvInt("DB_CONN_MAX_LIFETIME", 300),
	}

	return &Config{
		Port:        port,
		Environment: env,
		Database:    dbConfig,
		Auth: AuthConfig{
			Domain:   authDomain,
			Audience: authAudience,
		},
		OpenRouter: OpenRouterConfig{
			APIKey: openRouterKey,
			Model:  model,
		},
		RedisAddr: os.Getenv("REDIS_ADDR"),
	}, nil
}

// validateAuthDomain ensures the identity provider domain is properly formatted.
func validateAuthDomain(domain string) error {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return fmt.Errorf("domain cannot be empty")
	}

	// Should not include protocol
	if strings.HasPrefix(domain, "http://") || strings.HasPrefix(domain, "https://") {
		return fmt.Errorf("domain should not include protocol (http:// or https://)")
	}

	// Should look like a domain
	if !strings.Contains(domain, ".") {
		return fmt.Errorf("domain must be a valid hostname (e.g., your-tenant.auth0.com)")
	}

	return nil
}

// validateDatabaseURL ensures the database URL is a valid PostgreSQL connection string.
func validateDatabaseURL(dbURL string) error {
	parsed, err := url.Parse(dbURL)
	if err != nil {
		return fmt.Errorf("malformed URL: %w", err)
	}

	if parsed.Scheme != "postgres" && parsed.Scheme != "postgresql" {
		return fmt.Errorf("URL must use postgres or postgresql scheme, got %q", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("URL must include a host")
	}

	return nil
}

// getEnvInt reads an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

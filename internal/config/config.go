package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ModeDevelopment = "development"
	ModeProduction  = "production"

	// ProductionAPIBaseURL is the backend's address inside the deployment
	// network.
	ProductionAPIBaseURL = "http://finance-api:80"
)

type Config struct {
	// HTTP server
	Port string
	Mode string

	// Backend
	APIBaseURL          string // empty: derived from Mode, see ResolveAPIBaseURL
	APIProxyTarget      string
	APIProxyStripPrefix bool
	APITimeout          time.Duration

	// Logging
	LogLevel  string
	LogFormat string
	LogFile   string

	RateLimitPerMinute int
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "3000"),
		Mode: strings.ToLower(getEnv("FINBOARD_MODE", ModeDevelopment)),

		APIBaseURL:          getEnv("API_BASE_URL", ""),
		APIProxyTarget:      getEnv("API_PROXY_TARGET", "http://localhost:8000"),
		APIProxyStripPrefix: getEnvBool("API_PROXY_STRIP_PREFIX", true),
		APITimeout:          getEnvDuration("API_TIMEOUT", 0),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogFile:   getEnv("FINBOARD_LOG_FILE", ""),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
	}
}

// IsDevelopment reports whether the /api proxy should be mounted.
func (c *Config) IsDevelopment() bool { return c.Mode == ModeDevelopment }

// ResolveAPIBaseURL returns the base every backend call is made against.
// API_BASE_URL wins; otherwise development talks to this server's own /api
// proxy and production to the in-cluster service.
func (c *Config) ResolveAPIBaseURL() string {
	if c.APIBaseURL != "" {
		return c.APIBaseURL
	}
	if c.IsDevelopment() {
		return "http://localhost:" + c.Port + "/api"
	}
	return ProductionAPIBaseURL
}

// BackendURL is the base for calls made by this process itself. In
// development it goes straight to the proxy target so server-side fetches
// neither loop through the /api proxy nor count against its rate limit.
func (c *Config) BackendURL() string {
	if c.APIBaseURL != "" {
		return c.APIBaseURL
	}
	if c.IsDevelopment() {
		target := strings.TrimRight(c.APIProxyTarget, "/")
		if !c.APIProxyStripPrefix {
			target += "/api"
		}
		return target
	}
	return ProductionAPIBaseURL
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.Mode != ModeDevelopment && c.Mode != ModeProduction {
		errors = append(errors, fmt.Sprintf("invalid mode '%s': must be one of [%s %s]", c.Mode, ModeDevelopment, ModeProduction))
	}

	if c.APIBaseURL != "" {
		if err := validateHTTPURL(c.APIBaseURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid API_BASE_URL '%s': %v", c.APIBaseURL, err))
		}
	}

	if c.IsDevelopment() {
		if c.APIProxyTarget == "" {
			errors = append(errors, "API_PROXY_TARGET cannot be empty in development mode")
		} else if err := validateHTTPURL(c.APIProxyTarget); err != nil {
			errors = append(errors, fmt.Sprintf("invalid API_PROXY_TARGET '%s': %v", c.APIProxyTarget, err))
		}
	}

	if c.APITimeout < 0 {
		errors = append(errors, fmt.Sprintf("invalid API timeout %v: must not be negative", c.APITimeout))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be text or json", c.LogFormat))
	}

	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1", c.RateLimitPerMinute))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

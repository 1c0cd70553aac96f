package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:               "3000",
		Mode:               ModeDevelopment,
		APIProxyTarget:     "http://localhost:8000",
		LogLevel:           "info",
		LogFormat:          "text",
		RateLimitPerMinute: 120,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid development config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "valid production config without proxy",
			mutate: func(c *Config) {
				c.Mode = ModeProduction
				c.APIProxyTarget = ""
			},
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid mode",
			mutate:      func(c *Config) { c.Mode = "staging" },
			wantErr:     true,
			errorString: "invalid mode 'staging'",
		},
		{
			name:        "api base url without scheme",
			mutate:      func(c *Config) { c.APIBaseURL = "finance-api:80" },
			wantErr:     true,
			errorString: "invalid API_BASE_URL",
		},
		{
			name:        "development requires proxy target",
			mutate:      func(c *Config) { c.APIProxyTarget = "" },
			wantErr:     true,
			errorString: "API_PROXY_TARGET cannot be empty",
		},
		{
			name:        "negative timeout",
			mutate:      func(c *Config) { c.APITimeout = -time.Second },
			wantErr:     true,
			errorString: "must not be negative",
		},
		{
			name:        "unknown log level",
			mutate:      func(c *Config) { c.LogLevel = "loud" },
			wantErr:     true,
			errorString: "invalid log level 'loud'",
		},
		{
			name:        "unknown log format",
			mutate:      func(c *Config) { c.LogFormat = "xml" },
			wantErr:     true,
			errorString: "invalid log format 'xml'",
		},
		{
			name:        "rate limit too low",
			mutate:      func(c *Config) { c.RateLimitPerMinute = 0 },
			wantErr:     true,
			errorString: "invalid rate limit 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else if err != nil {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "x"
	cfg.LogFormat = "xml"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if got := strings.Count(err.Error(), "\n- "); got != 2 {
		t.Errorf("expected 2 problems, got %d in %q", got, err.Error())
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, key := range []string{"PORT", "FINBOARD_MODE", "API_BASE_URL", "API_PROXY_TARGET",
			"API_PROXY_STRIP_PREFIX", "API_TIMEOUT", "LOG_LEVEL", "LOG_FORMAT", "FINBOARD_LOG_FILE", "RATE_LIMIT_PER_MINUTE"} {
			t.Setenv(key, "")
		}

		cfg := Load()
		if cfg.Port != "3000" {
			t.Errorf("Load() Port = %v, want 3000", cfg.Port)
		}
		if cfg.Mode != ModeDevelopment {
			t.Errorf("Load() Mode = %v, want development", cfg.Mode)
		}
		if cfg.APITimeout != 0 {
			t.Errorf("Load() APITimeout = %v, want 0", cfg.APITimeout)
		}
		if !cfg.APIProxyStripPrefix {
			t.Errorf("Load() APIProxyStripPrefix = false, want true")
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("defaults should validate: %v", err)
		}
	})

	t.Run("custom values", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("FINBOARD_MODE", "Production")
		t.Setenv("API_TIMEOUT", "15s")
		t.Setenv("API_PROXY_STRIP_PREFIX", "false")
		t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")

		cfg := Load()
		if cfg.Port != "9090" {
			t.Errorf("Load() Port = %v, want 9090", cfg.Port)
		}
		if cfg.Mode != ModeProduction {
			t.Errorf("Load() Mode = %v, want production", cfg.Mode)
		}
		if cfg.APITimeout != 15*time.Second {
			t.Errorf("Load() APITimeout = %v, want 15s", cfg.APITimeout)
		}
		if cfg.APIProxyStripPrefix {
			t.Errorf("Load() APIProxyStripPrefix = true, want false")
		}
		if cfg.RateLimitPerMinute != 120 {
			t.Errorf("Load() RateLimitPerMinute = %v, want fallback 120", cfg.RateLimitPerMinute)
		}
	})
}

func TestResolveAPIBaseURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"development uses own proxy", Config{Mode: ModeDevelopment, Port: "3000"}, "http://localhost:3000/api"},
		{"production uses service host", Config{Mode: ModeProduction, Port: "3000"}, ProductionAPIBaseURL},
		{"explicit override", Config{Mode: ModeDevelopment, Port: "3000", APIBaseURL: "https://api.example.com"}, "https://api.example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.ResolveAPIBaseURL(); got != tt.want {
				t.Errorf("ResolveAPIBaseURL() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBackendURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"development strips prefix", Config{Mode: ModeDevelopment, APIProxyTarget: "http://localhost:8000/", APIProxyStripPrefix: true}, "http://localhost:8000"},
		{"development keeps prefix", Config{Mode: ModeDevelopment, APIProxyTarget: "http://localhost:8000", APIProxyStripPrefix: false}, "http://localhost:8000/api"},
		{"production", Config{Mode: ModeProduction, APIProxyTarget: "http://localhost:8000"}, ProductionAPIBaseURL},
		{"explicit override", Config{Mode: ModeProduction, APIBaseURL: "https://api.example.com"}, "https://api.example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.BackendURL(); got != tt.want {
				t.Errorf("BackendURL() = %v, want %v", got, tt.want)
			}
		})
	}
}

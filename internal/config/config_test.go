package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 3001, Timeout: 30 * time.Second},
		Security: SecConfig{
			JWTSecret:              "secret",
			TokenTTL:               72 * time.Hour,
			SessionCleanupInterval: time.Hour,
		},
	}
}

func TestValidate(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}

	cases := map[string]struct {
		mutate func(*Config)
		want   string
	}{
		"zero_cleanup_interval": {
			mutate: func(c *Config) { c.Security.SessionCleanupInterval = 0 },
			want:   "SESSION_CLEANUP_INTERVAL",
		},
		"negative_cleanup_interval": {
			mutate: func(c *Config) { c.Security.SessionCleanupInterval = -time.Minute },
			want:   "SESSION_CLEANUP_INTERVAL",
		},
		"zero_token_ttl": {
			mutate: func(c *Config) { c.Security.TokenTTL = 0 },
			want:   "TOKEN_TTL",
		},
		"zero_http_timeout": {
			mutate: func(c *Config) { c.HTTP.Timeout = 0 },
			want:   "HTTP_TIMEOUT",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected an error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected error to name %s, got %v", tc.want, err)
			}
		})
	}
}

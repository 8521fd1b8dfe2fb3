package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Defaults().Validate() error = %v", err)
	}
	if cfg.SessionTTL() != 7*24*time.Hour || cfg.Phase2TTL() != 24*time.Hour {
		t.Fatalf("ttls = %v / %v", cfg.SessionTTL(), cfg.Phase2TTL())
	}
	if cfg.Jobs.StandingsCron == "" {
		t.Fatal("standings reconcile disabled by default")
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"db driver", func(c *Config) { c.DB.Driver = "mysql" }},
		{"mail driver", func(c *Config) { c.Mail.Driver = "smtp" }},
		{"expiry", func(c *Config) { c.JWT.Phase2ExpiryHours = 0 }},
		{"secret", func(c *Config) { c.JWT.SessionSecret = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("Validate() accepted an invalid config")
			}
		})
	}
}

func TestOverlayOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := []byte("app:\n  port: \"9000\"\n  frontend_url: https://league.example.com\n  phone_region: UG\n")
	if err := os.WriteFile(path, yaml, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := Defaults()
	if err := cfg.overlayFile(path); err != nil {
		t.Fatalf("overlayFile() error = %v", err)
	}
	t.Setenv("PORT", "9100")
	t.Setenv("JWT_PHASE2_EXPIRY_HOURS", "48")
	if err := cfg.overlayEnv(); err != nil {
		t.Fatalf("overlayEnv() error = %v", err)
	}

	if cfg.App.Port != "9100" {
		t.Fatalf("port = %q, want environment to win", cfg.App.Port)
	}
	if cfg.App.FrontendURL != "https://league.example.com" || cfg.App.PhoneRegion != "UG" {
		t.Fatalf("file values lost: %+v", cfg)
	}
	if cfg.Phase2TTL() != 48*time.Hour {
		t.Fatalf("phase 2 ttl = %v, want 48h", cfg.Phase2TTL())
	}
}

func TestOverlayEnvRejectsBadInteger(t *testing.T) {
	t.Setenv("JWT_SESSION_EXPIRY_HOURS", "soon")
	if err := Defaults().overlayEnv(); err == nil {
		t.Fatal("overlayEnv() accepted a non-integer expiry")
	}
}

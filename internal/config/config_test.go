package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{URL: "postgres://localhost/insights"},
		Redis:    RedisConfig{URL: "redis://localhost:6379"},
		Reporting: ReportingConfig{
			Timezone:      "UTC",
			DefaultPeriod: "30d",
			MaxWindowDays: 180,
			CacheTTL:      time.Minute,
		},
		Admin: AdminConfig{Session: AdminSessionConfig{
			JWTSecret:       "secret",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 24 * time.Hour,
			CookieName:      "insights_session",
		}},
	}
}

func TestValidate(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cfg = validConfig()
	cfg.Database.URL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database url")
	}

	cfg = validConfig()
	cfg.Reporting.Timezone = "Not/AZone"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for bad timezone")
	}

	cfg = validConfig()
	cfg.Admin.Session.JWTSecret = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing jwt secret")
	}
}

func TestValidateDefaultsTimezone(t *testing.T) {
	cfg := validConfig()
	cfg.Reporting.Timezone = "  "
	if err := cfg.Validate(); err != nil {
		t.Fatalf("blank timezone should default: %v", err)
	}
	if cfg.Reporting.Timezone != "UTC" {
		t.Fatalf("expected UTC default, got %s", cfg.Reporting.Timezone)
	}
	if cfg.Reporting.Location() != time.UTC {
		t.Fatalf("expected UTC location")
	}
}

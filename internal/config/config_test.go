package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SLOT_ALLOCATION", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.SlotAllocation != 10 {
		t.Fatalf("expected default slot allocation, got %d", cfg.SlotAllocation)
	}
	if cfg.ProgressTTL != 24*time.Hour {
		t.Fatalf("expected default progress TTL, got %s", cfg.ProgressTTL)
	}
	if cfg.UpstreamTimeout != 12*time.Second {
		t.Fatalf("expected default upstream timeout, got %s", cfg.UpstreamTimeout)
	}
	if cfg.SchedulingDays != 14 {
		t.Fatalf("expected default scheduling window, got %d", cfg.SchedulingDays)
	}
	if cfg.CRMBaseURL == "" {
		t.Fatalf("expected default CRM base URL")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://user@host/db")
	t.Setenv("REDIS_ADDR", "localhost:6380")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("SLOT_ALLOCATION", "25")
	t.Setenv("PROGRESS_TTL", "48h")
	t.Setenv("UPSTREAM_TIMEOUT", "5s")
	t.Setenv("SCHEDULING_SLOT_MINS", "45")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Fatalf("expected env override, got %s", cfg.Env)
	}
	if cfg.DatabaseURL != "postgres://user@host/db" {
		t.Fatalf("expected db override, got %s", cfg.DatabaseURL)
	}
	if cfg.RedisAddr != "localhost:6380" {
		t.Fatalf("expected redis override, got %s", cfg.RedisAddr)
	}
	if !cfg.RedisTLS {
		t.Fatalf("expected redis TLS enabled")
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("expected CORS origins override, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.SlotAllocation != 25 {
		t.Fatalf("expected slot allocation override, got %d", cfg.SlotAllocation)
	}
	if cfg.ProgressTTL != 48*time.Hour {
		t.Fatalf("expected progress TTL override, got %s", cfg.ProgressTTL)
	}
	if cfg.UpstreamTimeout != 5*time.Second {
		t.Fatalf("expected upstream timeout override, got %s", cfg.UpstreamTimeout)
	}
	if cfg.SchedulingSlotMins != 45 {
		t.Fatalf("expected slot length override, got %d", cfg.SchedulingSlotMins)
	}
}

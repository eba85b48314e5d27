package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "prod" {
		t.Fatalf("expected App.Env to be prod, got %q", cfg.App.Env)
	}

	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Fatalf("unexpected Redis URL: %q", cfg.Redis.URL)
	}

	if got := cfg.Checkout.FreeShippingThreshold; got != 50000 {
		t.Fatalf("expected default free shipping threshold 50000, got %d", got)
	}
	if got := cfg.Checkout.StandardShippingFee; got != 3000 {
		t.Fatalf("expected default shipping fee 3000, got %d", got)
	}
	if got := cfg.Checkout.SessionTTL; got != time.Hour {
		t.Fatalf("expected default session ttl 1h, got %v", got)
	}
	if got := cfg.Backend.Timeout; got != 10*time.Second {
		t.Fatalf("expected default backend timeout 10s, got %v", got)
	}
	if got := cfg.Session.TokenTTL(); got != 60*time.Minute {
		t.Fatalf("expected default token ttl 60m, got %v", got)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv("MALL_PG_SECRET_KEY"); err != nil {
		t.Fatalf("failed to unset MALL_PG_SECRET_KEY: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_RejectsNegativeShippingFee(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("MALL_STANDARD_SHIPPING_FEE", "-1")

	if _, err := Load(); err == nil {
		t.Fatal("expected negative shipping fee to be rejected")
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
	if prodConfig.IsDev() {
		t.Fatalf("expected IsDev false for %q", prodConfig.Env)
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv("MALL_APP_ENV", "prod")
	t.Setenv("MALL_APP_PORT", "8080")
	t.Setenv("MALL_APP_BASE_URL", "https://shop.example.com")
	t.Setenv("MALL_BACKEND_BASE_URL", "https://api.shop.example.com")
	t.Setenv("MALL_PG_CLIENT_KEY", "test_ck_123")
	t.Setenv("MALL_PG_SECRET_KEY", "test_sk_123")
	t.Setenv("MALL_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("MALL_SESSION_SECRET", "secret")
}

package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":8080")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load returned nil config")
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":8080")
	}
	if cfg.JWTIssuer != "bas-auth" {
		t.Errorf("JWTIssuer = %q, want %q", cfg.JWTIssuer, "bas-auth")
	}
	if cfg.JWTAudience != "bas-api" {
		t.Errorf("JWTAudience = %q, want %q", cfg.JWTAudience, "bas-api")
	}
	if cfg.JWTAccessTTL != "15m" {
		t.Errorf("JWTAccessTTL = %q, want %q", cfg.JWTAccessTTL, "15m")
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if cfg.RateLimitMax != 100 {
		t.Errorf("RateLimitMax = %d, want 100", cfg.RateLimitMax)
	}
	if cfg.RateLimitWindow != "15m" {
		t.Errorf("RateLimitWindow = %q, want %q", cfg.RateLimitWindow, "15m")
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":9090")
	os.Setenv("JWT_ISSUER", "custom-issuer")
	os.Setenv("BCRYPT_COST", "14")
	os.Setenv("RATE_LIMIT_MAX", "50")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":9090")
	}
	if cfg.JWTIssuer != "custom-issuer" {
		t.Errorf("JWTIssuer = %q, want %q", cfg.JWTIssuer, "custom-issuer")
	}
	if cfg.BcryptCost != 14 {
		t.Errorf("BcryptCost = %d, want 14", cfg.BcryptCost)
	}
	if cfg.RateLimitMax != 50 {
		t.Errorf("RateLimitMax = %d, want 50", cfg.RateLimitMax)
	}
}

func TestLoad_InvalidBcryptCost(t *testing.T) {
	testCases := []struct {
		name string
		cost string
	}{
		{"too low", "3"},
		{"too high", "32"},
		{"negative", "-1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			os.Clearenv()
			os.Setenv("HTTP_ADDR", ":8080")
			os.Setenv("BCRYPT_COST", tc.cost)

			_, err := Load()
			if err == nil {
				t.Errorf("Load with BCRYPT_COST=%s should return error", tc.cost)
			}
		})
	}
}

func TestLoad_InvalidRateLimitMax(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":8080")
	os.Setenv("RATE_LIMIT_MAX", "-5")

	_, err := Load()
	if err == nil {
		t.Error("Load with negative RATE_LIMIT_MAX should return error")
	}
}

func TestAccessTTL(t *testing.T) {
	testCases := []struct {
		name string
		ttl  string
		want time.Duration
	}{
		{"valid", "30m", 30 * time.Minute},
		{"empty falls back", "", 15 * time.Minute},
		{"invalid falls back", "not-a-duration", 15 * time.Minute},
		{"negative falls back", "-5m", 15 * time.Minute},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{JWTAccessTTL: tc.ttl}
			if got := cfg.AccessTTL(); got != tc.want {
				t.Errorf("AccessTTL() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRateWindow(t *testing.T) {
	testCases := []struct {
		name   string
		window string
		want   time.Duration
	}{
		{"valid", "5m", 5 * time.Minute},
		{"empty falls back", "", 15 * time.Minute},
		{"invalid falls back", "soon", 15 * time.Minute},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{RateLimitWindow: tc.window}
			if got := cfg.RateWindow(); got != tc.want {
				t.Errorf("RateWindow() = %v, want %v", got, tc.want)
			}
		})
	}
}

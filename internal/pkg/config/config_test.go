package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.API.URL != "http://localhost:3000/api/v1" || cfg.API.Timeout != 30*time.Second {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Navigation.LoginPath != "/login" || cfg.Navigation.LandingPath != "/dashboard" {
		t.Fatalf("unexpected navigation defaults: %+v", cfg.Navigation)
	}
	if cfg.Credential.Store != StoreFile || cfg.Credential.Namespace != "learnhub" {
		t.Fatalf("unexpected credential defaults: %+v", cfg.Credential)
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("default env should be development")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"API_URL":          "https://api.learnhub.test",
		"API_TIMEOUT":      "5s",
		"CREDENTIAL_STORE": "redis",
		"REDIS_DB":         "3",
		"ENV":              "production",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.URL != "https://api.learnhub.test" || cfg.API.Timeout != 5*time.Second {
		t.Fatalf("api overrides not applied: %+v", cfg.API)
	}
	if cfg.Credential.Store != StoreRedis || cfg.Redis.DB != 3 || cfg.IsDevelopment() {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoad_RejectsInvalid(t *testing.T) {
	cases := []map[string]string{
		{"CREDENTIAL_STORE": "sqlite"},
		{"LOGIN_PATH": "/home", "LANDING_PATH": "/home"},
		{"API_TIMEOUT": "0s"},
		{"API_TIMEOUT": "soon"},
	}
	for _, env := range cases {
		if _, err := load(context.Background(), envconfig.MapLookuper(env)); err == nil {
			t.Fatalf("expected error for %v", env)
		}
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
app:
  name: "washdesk"
  environment: "test"
backend:
  base_url: "http://backend.local:9000"
  timeout_sec: 3
web:
  port: 8090
session:
  ttl_minutes: 30
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Backend.BaseURL != "http://backend.local:9000" {
		t.Errorf("expected backend base_url, got %s", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout() != 3*time.Second {
		t.Errorf("expected 3s backend timeout, got %s", cfg.Backend.Timeout())
	}
	if cfg.Web.Port != 8090 {
		t.Errorf("expected port 8090, got %d", cfg.Web.Port)
	}
	if cfg.Session.TTL() != 30*time.Minute {
		t.Errorf("expected 30m session ttl, got %s", cfg.Session.TTL())
	}
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	t.Setenv("TEST_BACKEND_URL", "http://expanded:1234")

	yamlContent := `
backend:
  base_url: "${TEST_BACKEND_URL}"
web:
  port: 8080
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Backend.BaseURL != "http://expanded:1234" {
		t.Errorf("env substitution failed, got %s", cfg.Backend.BaseURL)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{Backend: BackendConfig{BaseURL: "http://b"}}
	cfg.applyDefaults()

	if cfg.Web.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Web.Port)
	}
	if cfg.Web.CookieName != "washdesk_session" {
		t.Errorf("expected default cookie name, got %s", cfg.Web.CookieName)
	}
	if cfg.Backend.TimeoutSec != 10 {
		t.Errorf("expected default backend timeout 10s, got %d", cfg.Backend.TimeoutSec)
	}
	if cfg.Session.TTLMinutes != 720 {
		t.Errorf("expected default session ttl 720m, got %d", cfg.Session.TTLMinutes)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "valid config",
			cfg:     Config{Backend: BackendConfig{BaseURL: "http://b"}, Web: WebConfig{Port: 8080}},
			wantErr: false,
		},
		{
			name:    "missing backend url",
			cfg:     Config{Web: WebConfig{Port: 8080}},
			wantErr: true,
		},
		{
			name:    "bad port",
			cfg:     Config{Backend: BackendConfig{BaseURL: "http://b"}, Web: WebConfig{Port: 70000}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

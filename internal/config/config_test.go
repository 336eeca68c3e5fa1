package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config", "test.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	writeConfig(t, `
elasticsearch:
  addresses: ["http://localhost:9200"]
`)

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("port = %d, want default 9090", cfg.HTTP.Port)
	}
	if cfg.Elasticsearch.TimeoutSec != 30 {
		t.Errorf("timeout = %d, want default 30", cfg.Elasticsearch.TimeoutSec)
	}
	if cfg.Catalog.Path != "index.yaml" {
		t.Errorf("catalog path = %q, want default", cfg.Catalog.Path)
	}
	if cfg.Cache.TTLSec != 60 {
		t.Errorf("cache ttl = %d, want default 60", cfg.Cache.TTLSec)
	}
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_ES_URL", "http://es.internal:9200")
	t.Setenv("TEST_ES_USER", "reader")
	writeConfig(t, `
elasticsearch:
  addresses: ["${TEST_ES_URL}"]
  username: ${TEST_ES_USER}
  password: ${TEST_UNSET_VAR:-fallback}
`)

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Elasticsearch.Addresses[0] != "http://es.internal:9200" {
		t.Errorf("address = %q", cfg.Elasticsearch.Addresses[0])
	}
	if cfg.Elasticsearch.Username != "reader" {
		t.Errorf("username = %q", cfg.Elasticsearch.Username)
	}
	if cfg.Elasticsearch.Password != "fallback" {
		t.Errorf("password = %q, want default value", cfg.Elasticsearch.Password)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := Load("test")
	if err == nil || !strings.Contains(err.Error(), "read config") {
		t.Errorf("err = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"port too large", func(c *Config) { c.HTTP.Port = 70000 }, "http.port"},
		{"no addresses", func(c *Config) { c.Elasticsearch.Addresses = nil }, "addresses is required"},
		{"empty address", func(c *Config) { c.Elasticsearch.Addresses = []string{""} }, "empty entry"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				Elasticsearch: ElasticsearchConfig{Addresses: []string{"http://localhost:9200"}},
			}
			cfg.ApplyDefaults()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("GetEnv() = %q, want local", got)
	}
	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("GetEnv() = %q, want prod", got)
	}
}

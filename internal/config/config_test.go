package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	cfg := Config{HTTP: HTTPConfig{Port: 8080}}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_Database(t *testing.T) {
	tests := []struct {
		name    string
		db      DatabaseConfig
		wantErr bool
	}{
		{"sqlite with path", DatabaseConfig{Driver: "sqlite", Path: "data/x.db"}, false},
		{"sqlite without path", DatabaseConfig{Driver: "sqlite"}, true},
		{"redis with addrs", DatabaseConfig{Driver: "redis", Addrs: []string{"localhost:6379"}}, false},
		{"redis without addrs", DatabaseConfig{Driver: "redis"}, true},
		{"unknown driver", DatabaseConfig{Driver: "valkey", Addrs: []string{"localhost:6379"}}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Database = tc.db
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidate_Search(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SearchConfig)
	}{
		{"negative minimum length", func(s *SearchConfig) { s.MinimumLength = -1 }},
		{"unknown mode", func(s *SearchConfig) { s.DefaultMode = "fuzzy" }},
		{"page size above max", func(s *SearchConfig) { s.DefaultPageSize = 500 }},
		{"zero weight", func(s *SearchConfig) {
			s.Weights = map[string]map[string]float64{"post": {"title": 0}}
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg.Search)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("expected Driver=sqlite, got %q", cfg.Database.Driver)
	}
	if cfg.Database.Path != "data/textdex.db" {
		t.Errorf("expected default sqlite path, got %q", cfg.Database.Path)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Search.DefaultMode != "natural_language" {
		t.Errorf("expected DefaultMode=natural_language, got %q", cfg.Search.DefaultMode)
	}
	if cfg.Search.Workers != 4 {
		t.Errorf("expected Workers=4, got %d", cfg.Search.Workers)
	}
	if cfg.Search.DefaultPageSize != 20 {
		t.Errorf("expected DefaultPageSize=20, got %d", cfg.Search.DefaultPageSize)
	}
	if cfg.Search.MaxPageSize != 100 {
		t.Errorf("expected MaxPageSize=100, got %d", cfg.Search.MaxPageSize)
	}
	if cfg.Search.MaxBatchSize != 500 {
		t.Errorf("expected MaxBatchSize=500, got %d", cfg.Search.MaxBatchSize)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Database: DatabaseConfig{Driver: "redis", ReadinessTimeout: 15},
		Search:   SearchConfig{DefaultMode: "boolean", Workers: 8, DefaultPageSize: 50, MaxPageSize: 500},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Database.Path != "" {
		t.Errorf("expected no sqlite path for redis, got %q", cfg.Database.Path)
	}
	if cfg.Search.DefaultMode != "boolean" {
		t.Errorf("expected DefaultMode=boolean, got %q", cfg.Search.DefaultMode)
	}
	if cfg.Search.Workers != 8 {
		t.Errorf("expected Workers=8, got %d", cfg.Search.Workers)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEXTDEX_TEST_PORT", "9090")

	got := string(expandEnvVars([]byte("port: ${TEXTDEX_TEST_PORT}\npath: ${TEXTDEX_TEST_UNSET:-data/x.db}\n")))
	want := "port: 9090\npath: data/x.db\n"
	if got != want {
		t.Errorf("expandEnvVars() = %q, want %q", got, want)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	data := []byte(`
http:
  port: 8081
database:
  driver: sqlite
  path: ${TEXTDEX_TEST_DB:-data/test.db}
search:
  filters: [strip_tags, html_entity_decode]
  stopwords: [le, la]
  minimum_length: 2
  stemmer: french
  default_mode: boolean
  weights:
    post:
      title: 2
      body: 1
`)
	if err := os.WriteFile(filepath.Join(dir, "config", "test.yaml"), data, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 8081 || cfg.Database.Path != "data/test.db" {
		t.Errorf("http/database = %+v / %+v", cfg.HTTP, cfg.Database)
	}
	if cfg.Search.Stemmer != "french" || len(cfg.Search.Filters) != 2 || cfg.Search.MinimumLength != 2 {
		t.Errorf("search = %+v", cfg.Search)
	}
	if cfg.Search.Weights["post"]["title"] != 2 {
		t.Errorf("weights = %v", cfg.Search.Weights)
	}
}

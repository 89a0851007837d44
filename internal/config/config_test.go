package config_test

import (
	"testing"

	"github.com/mwhite-io/docsearch/internal/config"
)

func TestServerConfigDefaults(t *testing.T) {
	cfg := config.ServerConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.Addr() != "127.0.0.1:8000" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
	if cfg.APIKey != "" {
		t.Errorf("APIKey = %q, want empty (auth disabled)", cfg.APIKey)
	}
	if cfg.ShutdownTimeoutDuration() <= 0 {
		t.Error("ShutdownTimeoutDuration() not positive")
	}
}

func TestServerConfigEnvOverrides(t *testing.T) {
	t.Setenv(config.EnvServerHost, "0.0.0.0")
	t.Setenv(config.EnvServerPort, "9000")
	t.Setenv(config.EnvServerAPIKey, "secret")

	cfg := config.ServerConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.Addr() != "0.0.0.0:9000" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
	if cfg.APIKey != "secret" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
}

func TestServerConfigValidation(t *testing.T) {
	cfg := config.ServerConfig{Port: 99999}
	if err := cfg.Finalize(); err == nil {
		t.Error("Finalize() accepted invalid port")
	}

	cfg = config.ServerConfig{ReadTimeout: "soon"}
	if err := cfg.Finalize(); err == nil {
		t.Error("Finalize() accepted invalid read_timeout")
	}
}

func TestDatabaseConfigDefaults(t *testing.T) {
	cfg := config.DatabaseConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	want := "host=localhost port=5432 dbname=docsearch user=docsearch password=docsearch sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
	if cfg.MaxOpenConns != 25 || cfg.MaxIdleConns != 5 {
		t.Errorf("conns = %d/%d", cfg.MaxOpenConns, cfg.MaxIdleConns)
	}
}

func TestDatabaseConfigRejectsIdleAboveOpen(t *testing.T) {
	cfg := config.DatabaseConfig{MaxOpenConns: 2, MaxIdleConns: 10}
	if err := cfg.Finalize(); err == nil {
		t.Error("Finalize() accepted max_idle_conns > max_open_conns")
	}
}

func TestSearchConfigDefaults(t *testing.T) {
	cfg := config.SearchConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.DefaultRanking != "bm25" {
		t.Errorf("DefaultRanking = %q", cfg.DefaultRanking)
	}
	if cfg.AllowWildcard {
		t.Error("AllowWildcard = true, want false")
	}
}

func TestSearchConfigEnvOverrides(t *testing.T) {
	t.Setenv(config.EnvSearchAllowWildcard, "true")
	t.Setenv(config.EnvSearchDefaultRanking, "simple")

	cfg := config.SearchConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if !cfg.AllowWildcard {
		t.Error("AllowWildcard = false")
	}
	if cfg.DefaultRanking != "simple" {
		t.Errorf("DefaultRanking = %q", cfg.DefaultRanking)
	}
}

func TestSearchConfigRejectsUnknownRanking(t *testing.T) {
	cfg := config.SearchConfig{DefaultRanking: "cosine"}
	if err := cfg.Finalize(); err == nil {
		t.Error("Finalize() accepted unknown ranking")
	}
}

func TestStorageConfigDefaults(t *testing.T) {
	cfg := config.StorageConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.BasePath != "data/blobs" {
		t.Errorf("BasePath = %q", cfg.BasePath)
	}
	if cfg.MaxUploadSize != "32MB" {
		t.Errorf("MaxUploadSize = %q", cfg.MaxUploadSize)
	}
	if cfg.MaxUploadSizeBytes() != 32_000_000 {
		t.Errorf("MaxUploadSizeBytes() = %d", cfg.MaxUploadSizeBytes())
	}
}

func TestStorageConfigRejectsBadSize(t *testing.T) {
	cfg := config.StorageConfig{MaxUploadSize: "plenty"}
	if err := cfg.Finalize(); err == nil {
		t.Error("Finalize() accepted unparseable max_upload_size")
	}
}

func TestConfigMerge(t *testing.T) {
	base := &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 8000},
		Search: config.SearchConfig{DefaultRanking: "bm25"},
	}
	overlay := &config.Config{
		Server: config.ServerConfig{Port: 9000, APIKey: "secret"},
		Search: config.SearchConfig{DefaultRanking: "simple"},
	}

	base.Merge(overlay)

	if base.Server.Host != "127.0.0.1" {
		t.Errorf("Host = %q, want base value preserved", base.Server.Host)
	}
	if base.Server.Port != 9000 {
		t.Errorf("Port = %d, want overlay value", base.Server.Port)
	}
	if base.Server.APIKey != "secret" {
		t.Errorf("APIKey = %q", base.Server.APIKey)
	}
	if base.Search.DefaultRanking != "simple" {
		t.Errorf("DefaultRanking = %q", base.Search.DefaultRanking)
	}
}

func TestConfigFinalizeCascades(t *testing.T) {
	cfg := &config.Config{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("Database.Host = %q", cfg.Database.Host)
	}
	if cfg.Pagination.PageSize != 50 {
		t.Errorf("Pagination.PageSize = %d", cfg.Pagination.PageSize)
	}
	if cfg.Search.DefaultRanking != "bm25" {
		t.Errorf("Search.DefaultRanking = %q", cfg.Search.DefaultRanking)
	}
}

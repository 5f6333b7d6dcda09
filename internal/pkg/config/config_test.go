package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"maxelo/attendance/internal/pkg/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestNewConfig(t *testing.T) {
	path := writeConfig(t, `
environment: production
server_port: ":4040"
db_username: attendance
db_password: secret
db_host: 10.0.0.5
db_name: attendance
disable_tls: false
redis_addr: 10.0.0.6:6379
jwt_key: signing-key
time_zone: Africa/Johannesburg
`)

	cfg, err := config.NewConfig(path)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}

	if cfg.ServerPort != ":4040" {
		t.Errorf("ServerPort = %q, want :4040", cfg.ServerPort)
	}
	if cfg.DBPort != "5432" {
		t.Errorf("DBPort = %q, want the 5432 default", cfg.DBPort)
	}
	if cfg.TimeZone != "Africa/Johannesburg" {
		t.Errorf("TimeZone = %q", cfg.TimeZone)
	}
}

func TestNewConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
db_username: attendance
db_password: secret
db_host: localhost
db_name: attendance
jwt_key: signing-key
`)

	cfg, err := config.NewConfig(path)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}

	if cfg.ServerPort != ":8080" {
		t.Errorf("ServerPort = %q, want the :8080 default", cfg.ServerPort)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q, want the localhost default", cfg.RedisAddr)
	}
	if cfg.TimeZone != "Africa/Johannesburg" {
		t.Errorf("TimeZone = %q, want the SAST default", cfg.TimeZone)
	}
}

func TestNewConfigMissingDatabase(t *testing.T) {
	path := writeConfig(t, `
db_username: attendance
jwt_key: signing-key
`)

	if _, err := config.NewConfig(path); err == nil {
		t.Fatal("expected an error for missing database configuration")
	}
}

func TestNewConfigMissingJWTKey(t *testing.T) {
	path := writeConfig(t, `
db_username: attendance
db_password: secret
db_host: localhost
db_name: attendance
`)

	if _, err := config.NewConfig(path); err == nil {
		t.Fatal("expected an error for a missing jwt_key")
	}
}

func TestNewConfigMissingFile(t *testing.T) {
	if _, err := config.NewConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

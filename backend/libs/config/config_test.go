package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	Port     int    `yaml:"port" env:"TESTCFG_PORT"`
	LogLevel string `yaml:"log_level" env:"TESTCFG_LOG_LEVEL"`
	Debug    bool   `yaml:"debug" env:"TESTCFG_DEBUG"`
	DB       struct {
		DSN     string        `yaml:"dsn" env:"TESTCFG_DB_DSN"`
		Timeout time.Duration `yaml:"timeout" env:"TESTCFG_DB_TIMEOUT"`
	} `yaml:"db"`
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("TESTCFG_PORT", "8091")
	t.Setenv("TESTCFG_LOG_LEVEL", "debug")
	t.Setenv("TESTCFG_DEBUG", "true")
	t.Setenv("TESTCFG_DB_DSN", "postgres://localhost/test")
	t.Setenv("TESTCFG_DB_TIMEOUT", "45s")

	var cfg testConfig
	if err := LoadConfig(&cfg); err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != 8091 {
		t.Fatalf("port = %d, want 8091", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log_level = %s, want debug", cfg.LogLevel)
	}
	if !cfg.Debug {
		t.Fatal("debug should be true")
	}
	if cfg.DB.DSN != "postgres://localhost/test" {
		t.Fatalf("dsn = %s", cfg.DB.DSN)
	}
	if cfg.DB.Timeout != 45*time.Second {
		t.Fatalf("timeout = %s, want 45s", cfg.DB.Timeout)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("port: 9000\nlog_level: info\ndb:\n  dsn: postgres://file/db\n  timeout: 10s\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("TESTCFG_PORT", "8092")

	var cfg testConfig
	if err := LoadConfig(&cfg); err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != 8092 {
		t.Fatalf("env must override file, port = %d", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("file value lost, log_level = %s", cfg.LogLevel)
	}
	if cfg.DB.Timeout != 10*time.Second {
		t.Fatalf("timeout = %s, want 10s from file", cfg.DB.Timeout)
	}
}

func TestLoadConfigBadValues(t *testing.T) {
	t.Setenv("TESTCFG_PORT", "not-a-number")
	var cfg testConfig
	if err := LoadConfig(&cfg); err == nil {
		t.Fatal("expected parse error for bad int")
	}
}

func TestLoadConfigRejectsNonPointer(t *testing.T) {
	var cfg testConfig
	if err := LoadConfig(cfg); err == nil {
		t.Fatal("expected error for non-pointer target")
	}
	if err := LoadConfig(nil); err == nil {
		t.Fatal("expected error for nil target")
	}
}

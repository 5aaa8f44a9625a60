package config

import (
	"errors"
	"fmt"
	"strings"

	libconfig "boatwatch/backend/libs/config"
)

// Config defines ingest service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"INGEST_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"INGEST_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"INGEST_REDIS_ADDR"`
		Password string `yaml:"password" env:"INGEST_REDIS_PASSWORD"`
	} `yaml:"redis"`
	Ingest struct {
		// Policy is "strict" (reject unknown identities) or "lenient"
		// (auto-provision on first sight). The two are mutually incompatible
		// and must be an explicit deployment choice.
		Policy string `yaml:"policy" env:"INGEST_POLICY"`
		// AllowAnonymous enables the single-tenant fallback for requests
		// without an identity header.
		AllowAnonymous bool `yaml:"allow_anonymous" env:"INGEST_ALLOW_ANONYMOUS"`
		// VerifySecret requires devices to present X-Device-Secret matching
		// the boat's secret. Requires the strict policy.
		VerifySecret        bool   `yaml:"verify_secret" env:"INGEST_VERIFY_SECRET"`
		DefaultBoatName     string `yaml:"default_boat_name" env:"INGEST_DEFAULT_BOAT_NAME"`
		DefaultDeviceSecret string `yaml:"default_device_secret" env:"INGEST_DEFAULT_DEVICE_SECRET"`
	} `yaml:"ingest"`
}

// Load configuration using shared helper.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8091"
	cfg.Ingest.Policy = "strict"
	cfg.Ingest.DefaultBoatName = "My Boat"

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	if cfg.Ingest.Policy != "strict" && cfg.Ingest.Policy != "lenient" {
		return nil, fmt.Errorf("config: unknown ingest policy %q", cfg.Ingest.Policy)
	}
	if cfg.Ingest.VerifySecret && cfg.Ingest.Policy != "strict" {
		return nil, errors.New("config: secret verification requires the strict policy")
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8091"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads runtime configuration for the demo agents from
// environment variables and an optional .env file.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every tunable the demo binaries read at startup.
type Config struct {
	// Model selection. ModelName is resolved through the model registry,
	// so both gemini-* and claude-* names work here.
	ModelName    string `mapstructure:"model_name"`
	GoogleAPIKey string `mapstructure:"google_api_key"`

	// External data tools.
	SearchAPIKey   string `mapstructure:"search_api_key"`
	SearchEngineID string `mapstructure:"search_engine_id"`
	MapsAPIKey     string `mapstructure:"maps_api_key"`

	// Code execution sandbox.
	Sandbox        string        `mapstructure:"sandbox"` // "container" or "local"
	SandboxTimeout time.Duration `mapstructure:"sandbox_timeout"`

	// Upper bound on a single conversational turn, including every
	// pipeline stage and fan-out branch it runs. A branch that outlives
	// the deadline is reported failed instead of blocking the join.
	RunTimeout time.Duration `mapstructure:"run_timeout"`

	// Artifact storage: "memory", "file" or "gcs".
	ArtifactBackend string `mapstructure:"artifact_backend"`
	ArtifactDir     string `mapstructure:"artifact_dir"`
	GCSBucket       string `mapstructure:"gcs_bucket"`

	// Seed database.
	SeedDBPath string `mapstructure:"seed_db_path"`

	// Logging.
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Load reads .env (when present), then the ADK_DEMOS_* environment, and
// returns the merged configuration with defaults applied.
func Load() (*Config, error) {
	// Missing .env is fine; environment variables still apply.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ADK_DEMOS")
	v.AutomaticEnv()

	v.SetDefault("model_name", "gemini-2.0-flash")
	v.SetDefault("sandbox", "local")
	v.SetDefault("sandbox_timeout", 30*time.Second)
	v.SetDefault("run_timeout", 5*time.Minute)
	v.SetDefault("artifact_backend", "file")
	v.SetDefault("artifact_dir", "artifacts")
	v.SetDefault("seed_db_path", "demo_seed.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	// AutomaticEnv alone does not surface env-only keys through Unmarshal,
	// so bind each key explicitly.
	for _, key := range []string{
		"model_name", "google_api_key",
		"search_api_key", "search_engine_id", "maps_api_key",
		"sandbox", "sandbox_timeout", "run_timeout",
		"artifact_backend", "artifact_dir", "gcs_bucket",
		"seed_db_path", "log_level", "log_format",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Sandbox {
	case "local", "container":
	default:
		return fmt.Errorf("unknown sandbox %q (want local or container)", c.Sandbox)
	}
	switch c.ArtifactBackend {
	case "memory", "file", "gcs":
	default:
		return fmt.Errorf("unknown artifact backend %q (want memory, file or gcs)", c.ArtifactBackend)
	}
	if c.ArtifactBackend == "gcs" && c.GCSBucket == "" {
		return fmt.Errorf("artifact backend gcs requires ADK_DEMOS_GCS_BUCKET")
	}
	if c.RunTimeout <= 0 {
		return fmt.Errorf("run_timeout must be positive, got %s", c.RunTimeout)
	}
	return nil
}

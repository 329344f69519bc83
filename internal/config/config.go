// Package config loads process configuration from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/biilim/biilim/internal/llm"
	"github.com/biilim/biilim/internal/store"
)

// DefaultHTTPAddr is the listen address when BIILIM_HTTP_ADDR is unset.
const DefaultHTTPAddr = ":8080"

// Config is the resolved process configuration.
type Config struct {
	DBPath      string
	HTTPAddr    string
	LogMode     string
	CORSOrigins []string
	LLM         llm.Config
}

// Load reads envFile (".env" when empty) into the environment without
// overriding variables that are already set, then resolves the
// configuration. A missing default .env is not an error; a missing
// explicit file is.
func Load(envFile string) (*Config, error) {
	explicit := envFile != ""
	if !explicit {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	return FromEnv()
}

// FromEnv resolves the configuration from BIILIM_* variables.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DBPath:      os.Getenv("BIILIM_DB"),
		HTTPAddr:    getEnvOrDefault("BIILIM_HTTP_ADDR", DefaultHTTPAddr),
		LogMode:     getEnvOrDefault("BIILIM_LOG_MODE", "dev"),
		CORSOrigins: splitList(os.Getenv("BIILIM_CORS_ORIGINS")),
		LLM:         llm.ResolveConfig(),
	}
	if cfg.DBPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
		cfg.DBPath = p
	}
	return cfg, nil
}

func getEnvOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

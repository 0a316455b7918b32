// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides configuration management for notes-fetcher with
// support for multiple configuration sources and a well-defined precedence
// order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags (applied by the caller)
//  2. Environment variables
//  3. .env file
//  4. YAML configuration file
//  5. Built-in defaults
//
// The only mandatory setting is the notes API base URL (API_BASE_URL).
// Validate reports its absence as errors.ErrConfiguration so the command can
// stop before touching state, network or output.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	fetcherrors "github.com/DeveloperDowny/notes-data-fetcher/internal/errors"
)

// Environment variable names recognised by LoadConfig.
const (
	EnvBaseURL      = "API_BASE_URL"
	EnvUserAgent    = "NOTES_USER_AGENT"
	EnvStateFile    = "NOTES_STATE_FILE"
	EnvOutputDir    = "NOTES_OUTPUT_DIR"
	EnvOutputFormat = "NOTES_OUTPUT_FORMAT"
	EnvTopics       = "NOTES_TOPICS"
	EnvLogLevel     = "NOTES_LOG_LEVEL"
	EnvLogFormat    = "NOTES_LOG_FORMAT"
	EnvMetadataDir  = "NOTES_METADATA_DIR"
)

// DefaultEnvFile is read when no explicit .env path is given. A missing
// default file is not an error.
const DefaultEnvFile = ".env"

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from
// that specific file. Otherwise, it searches standard locations:
//   - .notes-fetcher.yaml (current directory)
//   - .notes-fetcher.yml (current directory)
//   - ~/.notes-fetcher/config.yaml
//   - ~/.notes-fetcher/config.yml
//
// envFile names a dotenv file whose values sit between the YAML file and
// the process environment. An empty envFile means DefaultEnvFile.
//
// LoadConfig does not validate; call Validate before using the result.
func LoadConfig(configPath, envFile string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		home := os.Getenv("HOME")
		defaultPaths := []string{
			".notes-fetcher.yaml",
			".notes-fetcher.yml",
			filepath.Join(home, ".notes-fetcher", "config.yaml"),
			filepath.Join(home, ".notes-fetcher", "config.yml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	dotenv, err := readEnvFile(envFile)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg, func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	})

	cfg.State.File = expandPath(cfg.State.File)
	cfg.Output.Dir = expandPath(cfg.Output.Dir)
	cfg.Metadata.Dir = expandPath(cfg.Metadata.Dir)

	return cfg, nil
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// readEnvFile parses a dotenv file without touching the process environment.
func readEnvFile(path string) (map[string]string, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}

	values, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return values, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config, getenv func(string) string) {
	if v := getenv(EnvBaseURL); v != "" {
		cfg.API.BaseURL = v
	}
	if v := getenv(EnvUserAgent); v != "" {
		cfg.API.UserAgent = v
	}
	if v := getenv(EnvStateFile); v != "" {
		cfg.State.File = v
	}
	if v := getenv(EnvOutputDir); v != "" {
		cfg.Output.Dir = v
	}
	if v := getenv(EnvOutputFormat); v != "" {
		cfg.Output.Format = strings.ToLower(v)
	}
	if v := getenv(EnvTopics); v != "" {
		cfg.Defaults.Topics = splitList(v)
	}
	if v := getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = v
	}
	if v := getenv(EnvMetadataDir); v != "" {
		cfg.Metadata.Dir = v
	}
}

// splitList splits a comma separated list, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home := os.Getenv("HOME")
		if home == "" {
			home = os.Getenv("USERPROFILE") // Windows
		}
		path = filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// Validate checks if the configuration contains valid values. A missing or
// malformed base URL, an unknown output format, or an unknown log format is
// reported as errors.ErrConfiguration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("%w: %s environment variable is not set", fetcherrors.ErrConfiguration, EnvBaseURL)
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s must be an absolute http(s) URL, got %q",
			fetcherrors.ErrConfiguration, EnvBaseURL, c.API.BaseURL)
	}
	return c.ValidateLocal()
}

// ValidateLocal checks every setting except the remote service. Commands
// that only touch local files use it instead of Validate.
func (c *Config) ValidateLocal() error {
	if c.State.File == "" {
		return fmt.Errorf("%w: state file path cannot be empty", fetcherrors.ErrConfiguration)
	}
	switch c.Output.Format {
	case FormatXLSX, FormatNDJSON:
	default:
		return fmt.Errorf("%w: unsupported output format %q (want %s or %s)",
			fetcherrors.ErrConfiguration, c.Output.Format, FormatXLSX, FormatNDJSON)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: unsupported log format %q (want text or json)",
			fetcherrors.ErrConfiguration, c.Logging.Format)
	}
	return nil
}

// TopicsOrDefault returns args when any are given, otherwise the configured
// default topics.
func (c *Config) TopicsOrDefault(args []string) []string {
	if len(args) > 0 {
		return args
	}
	return c.Defaults.Topics
}

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

// Package config types define the configuration structures used throughout
// notes-fetcher. These types represent settings that can be loaded from
// YAML configuration files, .env files, environment variables, or
// command-line flags.
package config

import "github.com/DeveloperDowny/notes-data-fetcher/internal/output"

// Supported output formats.
const (
	FormatXLSX   = output.FormatXLSX
	FormatNDJSON = output.FormatNDJSON
)

// DefaultTopic is the topic exported when no topic identifiers are given.
const DefaultTopic = "TDS"

// Config represents the complete configuration for notes-fetcher.
type Config struct {
	API      APIConfig      `yaml:"api"`
	State    StateConfig    `yaml:"state"`
	Output   OutputConfig   `yaml:"output"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metadata MetadataConfig `yaml:"metadata"`
}

// APIConfig describes the remote notes service. BaseURL has no default:
// a run cannot start without it.
type APIConfig struct {
	BaseURL   string `yaml:"base_url"`
	UserAgent string `yaml:"user_agent"`
}

// StateConfig locates the workbook holding the last-fetch timestamp.
type StateConfig struct {
	File string `yaml:"file"`
}

// OutputConfig controls where exported notes are written and in which format.
// Dir must already exist; it is never created on the user's behalf.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"`
}

// DefaultsConfig contains settings used when the command line leaves them out.
type DefaultsConfig struct {
	Topics []string `yaml:"topics"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetadataConfig controls run records. An empty Dir disables them.
type MetadataConfig struct {
	Dir string `yaml:"dir"`
}

// DefaultConfig returns a Config with the built-in defaults. The API base URL
// has no default.
func DefaultConfig() *Config {
	return &Config{
		State: StateConfig{
			File: "config.xlsx",
		},
		Output: OutputConfig{
			Dir:    "output",
			Format: FormatXLSX,
		},
		Defaults: DefaultsConfig{
			Topics: []string{DefaultTopic},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

package config

import (
	"path/filepath"

	"github.com/nibzard/todolist-go/internal/todolistdir"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultBackend    = "file"
	DefaultStorageKey = "todolist.tasks"
	DefaultIDFormat   = "xid"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
)

// DefaultDataDir is the file backend directory before ~ expansion.
var DefaultDataDir = filepath.Join("~", todolistdir.Dir, todolistdir.DataSubdir)

// Config holds the full configuration for todolist.
type Config struct {
	// Storage
	Backend    string `toml:"backend"`
	DataDir    string `toml:"data_dir"`
	StorageKey string `toml:"storage_key"`
	MySQLDSN   string `toml:"mysql_dsn"`

	// Task identifiers: xid or uuid
	IDFormat string `toml:"id_format"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"backend",
		"data_dir",
		"storage_key",
		"mysql_dsn",
		"id_format",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.Backend = DefaultBackend
	cfg.DataDir = DefaultDataDir
	cfg.StorageKey = DefaultStorageKey
	cfg.IDFormat = DefaultIDFormat
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}

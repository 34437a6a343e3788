package config

import (
	"os"
	"strings"
)

// loadFromEnv overrides config from TODOLIST_* environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	track := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	strVars := []struct {
		env    string
		field  string
		target *string
	}{
		{"TODOLIST_BACKEND", "backend", &cfg.Backend},
		{"TODOLIST_DATA_DIR", "data_dir", &cfg.DataDir},
		{"TODOLIST_STORAGE_KEY", "storage_key", &cfg.StorageKey},
		{"TODOLIST_MYSQL_DSN", "mysql_dsn", &cfg.MySQLDSN},
		{"TODOLIST_ID_FORMAT", "id_format", &cfg.IDFormat},
		{"TODOLIST_LOG_LEVEL", "log_level", &cfg.LogLevel},
		{"TODOLIST_LOG_FORMAT", "log_format", &cfg.LogFormat},
	}
	for _, v := range strVars {
		if val := os.Getenv(v.env); val != "" {
			*v.target = val
			track(v.field)
		}
	}

	boolVars := []struct {
		env    string
		field  string
		target *bool
	}{
		{"TODOLIST_LOG_TIMESTAMPS", "log_timestamps", &cfg.LogTimestamps},
		{"TODOLIST_LOG_CALLER", "log_caller", &cfg.LogCaller},
	}
	for _, v := range boolVars {
		if val := os.Getenv(v.env); val != "" {
			*v.target = boolFromString(val)
			track(v.field)
		}
	}
}

func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

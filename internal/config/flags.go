package config

import (
	"flag"
)

// flagFields maps flag names to config field names for source tracking.
var flagFields = map[string]string{
	"backend":        "backend",
	"data-dir":       "data_dir",
	"key":            "storage_key",
	"mysql-dsn":      "mysql_dsn",
	"id-format":      "id_format",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// parseFlags defines the global flags on fs and parses args into cfg.
// If sources is non-nil, explicitly set flags are attributed to SourceFlag.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("todolist", flag.ContinueOnError)
	}

	// Storage
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "Storage backend (file|mysql|memory)")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Data directory for the file backend")
	fs.StringVar(&cfg.StorageKey, "key", cfg.StorageKey, "Storage slot key")
	fs.StringVar(&cfg.MySQLDSN, "mysql-dsn", cfg.MySQLDSN, "MySQL DSN for the mysql backend")
	fs.StringVar(&cfg.IDFormat, "id-format", cfg.IDFormat, "Task ID format (xid|uuid)")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Include caller in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagFields[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}

package config

import (
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/todolist-go/internal/storage"
	"github.com/nibzard/todolist-go/internal/todo"
	"github.com/nibzard/todolist-go/internal/utils"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file
// 3. Project config file
// 4. Environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := load(fs, args, nil)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	sources := make(map[string]ConfigSource)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}
	return load(fs, args, sources)
}

// load is the shared implementation. If sources is non-nil, it records
// which layer supplied each value.
func load(fs *flag.FlagSet, args []string, sources map[string]ConfigSource) (*ConfigWithSources, error) {
	cfg := &Config{}
	cws := &ConfigWithSources{Config: cfg, Sources: sources}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. User config file
	if path := findUserConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
		cws.Files = append(cws.Files, path)
	}

	// 3. Project config file (overrides user config)
	if path := findProjectConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path, sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", path, err)
		}
		cws.Files = append(cws.Files, path)
	}

	// 4. Environment
	loadFromEnv(cfg, sources)

	// 5. CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Normalize and validate
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cws, nil
}

// loadConfigFile decodes TOML from path on top of cfg. Keys the file
// defines are attributed to source. Unknown keys are an error.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}

	if sources != nil {
		for _, field := range configFields() {
			if md.IsDefined(field) {
				sources[field] = source
			}
		}
	}
	return nil
}

// finalizeConfig normalizes enum values, expands paths, and rejects
// unknown backends and ID formats.
func finalizeConfig(cfg *Config) error {
	cfg.Backend = utils.NormalizeName(cfg.Backend)
	cfg.IDFormat = utils.NormalizeName(cfg.IDFormat)
	cfg.LogLevel = utils.NormalizeName(cfg.LogLevel)
	cfg.LogFormat = utils.NormalizeName(cfg.LogFormat)
	cfg.DataDir = expandPath(cfg.DataDir)

	switch cfg.Backend {
	case storage.BackendFile, storage.BackendMySQL, storage.BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q (expected file, mysql, or memory)", cfg.Backend)
	}
	if _, err := todo.IDGenerator(cfg.IDFormat); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.StorageKey) == "" {
		return fmt.Errorf("storage_key is empty")
	}
	return nil
}

// StorageOptions returns the storage backend options for cfg.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend:  c.Backend,
		DataDir:  c.DataDir,
		MySQLDSN: c.MySQLDSN,
	}
}

// GetConfigFile returns the highest priority config file that was read.
func (cws *ConfigWithSources) GetConfigFile() string {
	if len(cws.Files) == 0 {
		return ""
	}
	return cws.Files[len(cws.Files)-1]
}

package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/nibzard/todolist-go/internal/todolistdir"
)

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	for _, name := range []string{todolistdir.ConfigFile, todolistdir.HiddenConfigFile} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// findUserConfigFile looks for a user-level config file.
// Checks ~/.todolist/todolist.toml first, then the OS-specific config
// directory.
func findUserConfigFile() string {
	if home, err := os.UserHomeDir(); err == nil {
		path := todolistdir.ConfigPath(filepath.Join(home, todolistdir.Dir))
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	if cfgDir := osUserConfigDir(); cfgDir != "" {
		path := filepath.Join(cfgDir, "todolist", todolistdir.ConfigFile)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	case "linux", "openbsd", "freebsd", "netbsd":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

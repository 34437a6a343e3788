// Package todolistdir provides constants and helpers for the .todolist
// state directory.
package todolistdir

import (
	"os"
	"path/filepath"
)

const (
	// Dir is the name of the state directory.
	Dir = ".todolist"

	// ConfigFile is the config file name, both inside Dir and in a project root.
	ConfigFile = "todolist.toml"

	// HiddenConfigFile is the alternative project-level config file name.
	HiddenConfigFile = ".todolist.toml"

	// DataSubdir holds slot files for the file backend.
	DataSubdir = "data"
)

// Home returns ~/.todolist, or Dir relative to the working directory when
// the home directory cannot be determined.
func Home() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return Dir
	}
	return filepath.Join(home, Dir)
}

// ConfigPath returns the config file path inside a state directory.
func ConfigPath(stateDir string) string {
	return filepath.Join(stateDir, ConfigFile)
}

// DataPath returns the data directory inside a state directory.
func DataPath(stateDir string) string {
	return filepath.Join(stateDir, DataSubdir)
}

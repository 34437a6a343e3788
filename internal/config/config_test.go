// Package config tests configuration loading.
package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points HOME and the config directories at empty temp dirs,
// moves into a fresh working directory, and clears TODOLIST_* variables.
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home = t.TempDir()
	work = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "TODOLIST_") {
			name := strings.SplitN(kv, "=", 2)[0]
			t.Setenv(name, "")
		}
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(work); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return home, work
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))
	return fs
}

func TestDefaults(t *testing.T) {
	home, _ := isolate(t)

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != DefaultBackend {
		t.Errorf("Backend: got %q, want %q", cfg.Backend, DefaultBackend)
	}
	if want := filepath.Join(home, ".todolist", "data"); cfg.DataDir != want {
		t.Errorf("DataDir: got %q, want %q", cfg.DataDir, want)
	}
	if cfg.StorageKey != DefaultStorageKey {
		t.Errorf("StorageKey: got %q, want %q", cfg.StorageKey, DefaultStorageKey)
	}
	if cfg.IDFormat != DefaultIDFormat {
		t.Errorf("IDFormat: got %q, want %q", cfg.IDFormat, DefaultIDFormat)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("logging: got %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLayering(t *testing.T) {
	home, work := isolate(t)

	writeFile(t, filepath.Join(home, ".todolist", "todolist.toml"), `
backend = "memory"
storage_key = "user-key"
log_level = "debug"
`)
	writeFile(t, filepath.Join(work, "todolist.toml"), `
storage_key = "project-key"
id_format = "uuid"
`)
	t.Setenv("TODOLIST_LOG_LEVEL", "warn")
	t.Setenv("TODOLIST_LOG_CALLER", "yes")

	cws, err := LoadWithSources(newFlagSet(), []string{"--log-format", "json", "ls"})
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config

	checks := []struct {
		field  string
		got    string
		want   string
		source ConfigSource
	}{
		{"backend", cfg.Backend, "memory", SourceUserFile},
		{"storage_key", cfg.StorageKey, "project-key", SourceProjFile},
		{"id_format", cfg.IDFormat, "uuid", SourceProjFile},
		{"log_level", cfg.LogLevel, "warn", SourceEnv},
		{"log_format", cfg.LogFormat, "json", SourceFlag},
		{"data_dir", cfg.DataDir, filepath.Join(home, ".todolist", "data"), SourceDefault},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %q, want %q", c.field, c.got, c.want)
		}
		if cws.Sources[c.field] != c.source {
			t.Errorf("%s source: got %q, want %q", c.field, cws.Sources[c.field], c.source)
		}
	}
	if !cfg.LogCaller || cws.Sources["log_caller"] != SourceEnv {
		t.Errorf("log_caller: got %v from %q", cfg.LogCaller, cws.Sources["log_caller"])
	}
	if len(cws.Files) != 2 || cws.GetConfigFile() != "todolist.toml" {
		t.Errorf("Files: got %v", cws.Files)
	}
}

func TestHiddenProjectFile(t *testing.T) {
	_, work := isolate(t)
	writeFile(t, filepath.Join(work, ".todolist.toml"), `data_dir = "$TODOLIST_TEST_ROOT/tasks"`)
	t.Setenv("TODOLIST_TEST_ROOT", "/srv/todo")

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataDir != "/srv/todo/tasks" {
		t.Errorf("DataDir: got %q, want /srv/todo/tasks", cfg.DataDir)
	}
}

func TestXDGUserFile(t *testing.T) {
	home, _ := isolate(t)
	writeFile(t, filepath.Join(home, ".config", "todolist", "todolist.toml"), `backend = "memory"`)
	if path := findUserConfigFile(); path == "" {
		t.Skip("no XDG config directory on this platform")
	}

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend != "memory" {
		t.Errorf("Backend: got %q, want memory", cfg.Backend)
	}
}

func TestFlagsOverrideEverything(t *testing.T) {
	isolate(t)
	t.Setenv("TODOLIST_BACKEND", "mysql")

	fs := newFlagSet()
	cfg, err := Load(fs, []string{"--backend", "MEMORY", "--key", "k1", "--data-dir", "/tmp/x", "add", "title"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend != "memory" || cfg.StorageKey != "k1" || cfg.DataDir != "/tmp/x" {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if rest := fs.Args(); len(rest) != 2 || rest[0] != "add" {
		t.Errorf("remaining args: got %v", rest)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "unknown backend",
			env:     map[string]string{"TODOLIST_BACKEND": "redis"},
			wantErr: "unknown backend",
		},
		{
			name:    "unknown id format",
			env:     map[string]string{"TODOLIST_ID_FORMAT": "snowflake"},
			wantErr: "unknown id format",
		},
		{
			name:    "unknown key in file",
			file:    "colour = \"blue\"\n",
			wantErr: "unknown keys: colour",
		},
		{
			name:    "invalid toml",
			file:    "backend = \n",
			wantErr: "loading project config file",
		},
		{
			name:    "empty storage key",
			file:    "storage_key = \"  \"\n",
			wantErr: "storage_key is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, work := isolate(t)
			if tt.file != "" {
				writeFile(t, filepath.Join(work, "todolist.toml"), tt.file)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(newFlagSet(), nil)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Load: got %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestExampleConfigParses(t *testing.T) {
	_, work := isolate(t)
	writeFile(t, filepath.Join(work, "todolist.toml"), ExampleConfig())

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("example config does not load: %v", err)
	}
	if cfg.Backend != "file" || cfg.IDFormat != "xid" {
		t.Errorf("unexpected example values: %+v", cfg)
	}
}

func TestBoolFromString(t *testing.T) {
	for _, s := range []string{"1", "true", "TRUE", "yes", "on"} {
		if !boolFromString(s) {
			t.Errorf("boolFromString(%q): want true", s)
		}
	}
	for _, s := range []string{"0", "false", "no", "off", "maybe"} {
		if boolFromString(s) {
			t.Errorf("boolFromString(%q): want false", s)
		}
	}
}

func TestStorageOptions(t *testing.T) {
	cfg := &Config{Backend: "mysql", DataDir: "/d", MySQLDSN: "u@tcp(h)/db"}
	opts := cfg.StorageOptions()
	if opts.Backend != "mysql" || opts.DataDir != "/d" || opts.MySQLDSN != "u@tcp(h)/db" {
		t.Errorf("StorageOptions: got %+v", opts)
	}
}

package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todolist configuration file
# Values can be overridden by TODOLIST_* environment variables or CLI flags

# Storage backend: file, mysql, or memory
backend = "file"

# Directory holding slot files for the file backend (supports ~ and $VAR)
data_dir = "~/.todolist/data"

# Slot key the task list is stored under
storage_key = "todolist.tasks"

# MySQL DSN for the mysql backend
# mysql_dsn = "todo:secret@tcp(127.0.0.1:3306)/todolist"

# Task ID format: xid (default) or uuid (version 7)
id_format = "xid"

# Logging
log_level = "info"     # debug, info, warn, error
log_format = "text"    # text, json, logfmt
log_timestamps = false
log_caller = false
`
}

package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# taskmgr configuration file
# Values can be overridden by TASKMGR_* environment variables or CLI flags

# Tasks file (relative to the working directory, supports ~ expansion)
tasks_file = "tasks.json"

# JSON Schema used by "taskmgr doctor" (empty uses the built-in schema)
# schema_file = "tasks.schema.json"

# Id assignment for new tasks:
#   "max"  - largest existing id + 1
#   "last" - id of the last task in the file + 1
id_policy = "max"

# Logging (written to stderr)
log_level = "warn"        # debug, info, warn, error
log_format = "text"       # text, json, logfmt
log_timestamps = false
log_caller = false
`
}

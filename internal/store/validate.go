package store

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaURL identifies the embedded task file schema.
const SchemaURL = "https://github.com/nibzard/taskmgr/tasks.schema.json"

//go:embed tasks.schema.json
var schemaJSON []byte

// Schema returns the embedded JSON Schema for the task file.
func Schema() []byte {
	out := make([]byte, len(schemaJSON))
	copy(out, schemaJSON)
	return out
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // Path to the error location, e.g. "[0].id"
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationOptions controls validation behavior.
type ValidationOptions struct {
	// SchemaPath is the path to a JSON Schema file.
	// If empty, the embedded schema is used.
	SchemaPath string
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema string // schema location used, empty if schema validation did not run
}

func (r *ValidationResult) fail(err error) {
	r.Valid = false
	r.Errors = append(r.Errors, err)
}

// Validate checks the task file at path. Unlike Load, it reports unreadable
// and malformed files as errors. A missing file is valid with a warning.
func Validate(path string, opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("tasks file not found: %s", path))
			return result
		}
		result.fail(fmt.Errorf("read tasks file: %w", err))
		return result
	}
	if len(bytes.TrimSpace(data)) == 0 {
		result.Warnings = append(result.Warnings, "tasks file is empty")
		return result
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		result.fail(fmt.Errorf("parse tasks file: %w", err))
		return result
	}

	schema, location, warnings := compileSchema(opts.SchemaPath)
	result.Warnings = append(result.Warnings, warnings...)
	if schema != nil {
		result.UsedSchema = location
		if err := schema.Validate(doc); err != nil {
			result.Valid = false
			appendSchemaErrors(result, err)
		}
	}

	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		// The schema errors above already describe the shape problem.
		if schema == nil {
			result.fail(fmt.Errorf("decode tasks: %w", err))
		}
		return result
	}
	validateMinimal(tasks, result)

	return result
}

// compileSchema compiles the schema at schemaPath, falling back to the
// embedded schema when the path is empty or unusable.
func compileSchema(schemaPath string) (*jsonschema.Schema, string, []string) {
	var warnings []string

	if schemaPath != "" {
		absPath, err := filepath.Abs(schemaPath)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("invalid schema path: %v", err))
		} else if _, err := os.Stat(absPath); err != nil {
			if os.IsNotExist(err) {
				warnings = append(warnings, fmt.Sprintf("schema file not found: %s", absPath))
			} else {
				warnings = append(warnings, fmt.Sprintf("failed to read schema file: %v", err))
			}
		} else {
			compiler := jsonschema.NewCompiler()
			compiler.AssertFormat = true
			schema, err := compiler.Compile(absPath)
			if err == nil {
				return schema, absPath, warnings
			}
			warnings = append(warnings, fmt.Sprintf("invalid schema file: %v", err))
		}
		warnings = append(warnings, "using embedded schema")
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(SchemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, "", append(warnings, fmt.Sprintf("embedded schema unavailable: %v", err))
	}
	schema, err := compiler.Compile(SchemaURL)
	if err != nil {
		return nil, "", append(warnings, fmt.Sprintf("embedded schema unavailable: %v", err))
	}
	return schema, "embedded", warnings
}

// validateMinimal checks the invariants the schema cannot express.
func validateMinimal(tasks []Task, result *ValidationResult) {
	seen := make(map[int]int, len(tasks))
	for i, task := range tasks {
		path := fmt.Sprintf("[%d].id", i)
		if task.ID <= 0 {
			result.fail(&ValidationError{
				Path: path,
				Err:  fmt.Errorf("must be a positive integer, got %d", task.ID),
			})
			continue
		}
		if first, ok := seen[task.ID]; ok {
			result.fail(&ValidationError{
				Path: path,
				Err:  fmt.Errorf("duplicate id %d (first at [%d])", task.ID, first),
			})
			continue
		}
		seen[task.ID] = i
	}
}

func appendSchemaErrors(result *ValidationResult, err error) {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

// jsonPointerToPath converts "/0/id" to "[0].id".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

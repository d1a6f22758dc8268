package store

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantValid bool
		wantPath  string
	}{
		{
			name:      "valid file",
			content:   `[{"id": 1, "description": "a", "completed": false}, {"id": 2, "description": "", "completed": true}]`,
			wantValid: true,
		},
		{
			name:      "empty array",
			content:   `[]`,
			wantValid: true,
		},
		{
			name:      "not json",
			content:   `buy milk`,
			wantValid: false,
		},
		{
			name:      "object instead of array",
			content:   `{"tasks": []}`,
			wantValid: false,
		},
		{
			name:      "missing description",
			content:   `[{"id": 1, "completed": false}]`,
			wantValid: false,
			wantPath:  "[0]",
		},
		{
			name:      "string id",
			content:   `[{"id": "1", "description": "a", "completed": false}]`,
			wantValid: false,
			wantPath:  "[0].id",
		},
		{
			name:      "zero id",
			content:   `[{"id": 0, "description": "a", "completed": false}]`,
			wantValid: false,
			wantPath:  "[0].id",
		},
		{
			name:      "unknown field",
			content:   `[{"id": 1, "description": "a", "completed": false, "due": "today"}]`,
			wantValid: false,
			wantPath:  "[0]",
		},
		{
			name:      "duplicate ids",
			content:   `[{"id": 1, "description": "a", "completed": false}, {"id": 1, "description": "b", "completed": false}]`,
			wantValid: false,
			wantPath:  "[1].id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tasks.json")
			writeFile(t, path, tt.content)

			result := Validate(path, ValidationOptions{})
			if result.Valid != tt.wantValid {
				t.Fatalf("Validate() valid = %v, want %v (errors: %v)", result.Valid, tt.wantValid, result.Errors)
			}
			if !tt.wantValid && len(result.Errors) == 0 {
				t.Error("Validate() invalid but reported no errors")
			}
			if tt.wantPath != "" && !hasErrorPath(result.Errors, tt.wantPath) {
				t.Errorf("expected an error at %q, got %v", tt.wantPath, result.Errors)
			}
		})
	}
}

func hasErrorPath(errs []error, path string) bool {
	for _, err := range errs {
		var ve *ValidationError
		if errors.As(err, &ve) && ve.Path == path {
			return true
		}
	}
	return false
}

func TestValidateUsesEmbeddedSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	writeFile(t, path, `[]`)

	result := Validate(path, ValidationOptions{})
	if result.UsedSchema != "embedded" {
		t.Errorf("UsedSchema: got %q, want embedded", result.UsedSchema)
	}
}

func TestValidateMissingFile(t *testing.T) {
	result := Validate(filepath.Join(t.TempDir(), "missing.json"), ValidationOptions{})
	if !result.Valid {
		t.Errorf("Validate() valid = false, want true")
	}
	if len(result.Warnings) == 0 || !strings.Contains(result.Warnings[0], "not found") {
		t.Errorf("expected not-found warning, got %v", result.Warnings)
	}
}

func TestValidateCustomSchema(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "strict.schema.json")
	writeFile(t, schemaPath, `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "maxItems": 1
}`)
	path := filepath.Join(dir, "tasks.json")
	writeFile(t, path, `[{"id": 1, "description": "a", "completed": false}, {"id": 2, "description": "b", "completed": false}]`)

	result := Validate(path, ValidationOptions{SchemaPath: schemaPath})
	if result.Valid {
		t.Error("Validate() valid = true, want false for maxItems violation")
	}
	if result.UsedSchema != schemaPath {
		t.Errorf("UsedSchema: got %q, want %q", result.UsedSchema, schemaPath)
	}
}

func TestValidateMissingCustomSchemaFallsBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.json")
	writeFile(t, path, `[{"id": 1, "description": "a", "completed": false}]`)

	result := Validate(path, ValidationOptions{SchemaPath: filepath.Join(dir, "nope.json")})
	if !result.Valid {
		t.Errorf("Validate() valid = false, errors: %v", result.Errors)
	}
	if result.UsedSchema != "embedded" {
		t.Errorf("UsedSchema: got %q, want embedded", result.UsedSchema)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "schema file not found") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected schema-not-found warning, got %v", result.Warnings)
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := []struct {
		ptr  string
		want string
	}{
		{"", ""},
		{"/", ""},
		{"/0", "[0]"},
		{"/0/id", "[0].id"},
		{"#/12/description", "[12].description"},
		{"/a~1b/c~0d", "a/b.c~d"},
	}

	for _, tt := range tests {
		if got := jsonPointerToPath(tt.ptr); got != tt.want {
			t.Errorf("jsonPointerToPath(%q) = %q, want %q", tt.ptr, got, tt.want)
		}
	}
}

func TestSchemaIsCopy(t *testing.T) {
	s := Schema()
	s[0] = 'X'
	if Schema()[0] == 'X' {
		t.Error("Schema() must return a copy")
	}
}

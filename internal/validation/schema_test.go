package validation

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestPackSchemaJSON(t *testing.T) {
	raw, err := PackSchemaJSON()
	if err != nil {
		t.Fatalf("PackSchemaJSON: %v", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("schema is not JSON: %v", err)
	}
	props, ok := doc["properties"].(map[string]interface{})
	if !ok {
		t.Fatalf("schema has no properties: %s", raw)
	}
	for _, key := range []string{"version", "styles"} {
		if _, ok := props[key]; !ok {
			t.Errorf("schema missing property %q", key)
		}
	}
	if _, ok := props["Path"]; ok {
		t.Error("Path must not appear in the schema")
	}
}

func TestPackValidator(t *testing.T) {
	pv, err := NewPackValidator()
	if err != nil {
		t.Fatalf("NewPackValidator: %v", err)
	}
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		valid   bool
	}{
		{
			name: "valid json",
			file: "10_cinema.json",
			content: `{"version": 1, "styles": [{"id": "cin_film_noir", "name": "Film Noir", "category": "Cinema",
				"default": {"prefix": "noir", "suffix": "grain"},
				"models": {"flux_2_klein": {"prefix": "", "suffix": "Style: noir."}}, "tags": ["cinema"]}]}`,
			valid: true,
		},
		{
			name:    "valid yaml",
			file:    "20_user.yaml",
			content: "version: 1\nstyles:\n  - id: a\n    name: A\n    default: {prefix: x, suffix: y}\n",
			valid:   true,
		},
		{
			name:    "missing default",
			file:    "30_bad.json",
			content: `{"version": 1, "styles": [{"id": "a", "name": "A"}]}`,
			valid:   false,
		},
		{
			name:    "empty id",
			file:    "40_bad.json",
			content: `{"version": 1, "styles": [{"id": "", "name": "A", "default": {"prefix": "", "suffix": ""}}]}`,
			valid:   false,
		},
		{
			name:    "zero version",
			file:    "50_bad.json",
			content: `{"version": 0, "styles": []}`,
			valid:   false,
		},
		{
			name:    "fractional version",
			file:    "55_bad.json",
			content: `{"version": 1.5, "styles": []}`,
			valid:   false,
		},
		{
			name:    "large integer version",
			file:    "56_big.json",
			content: `{"version": 12345678901234567890, "styles": []}`,
			valid:   true,
		},
		{
			name:    "tags not strings",
			file:    "60_bad.json",
			content: `{"version": 1, "styles": [{"id": "a", "name": "A", "default": {"prefix": "", "suffix": ""}, "tags": [1]}]}`,
			valid:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			err := pv.ValidateFile(path)
			if tt.valid && err != nil {
				t.Errorf("Expected valid pack, got %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("Expected schema violation")
			}
		})
	}
}

package validation

import (
	"strings"
	"testing"

	"github.com/dpshade/pocket-styler/internal/errors"
)

func TestValidateCompose(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name  string
		data  map[string]interface{}
		valid bool
		code  string
	}{
		{"minimal", map[string]interface{}{"prompt": "a cat"}, true, ""},
		{"known variant", map[string]interface{}{"variant": "flux_2_klein", "apply_style": "true"}, true, ""},
		{"unknown variant", map[string]interface{}{"variant": "sdxl"}, false, "INVALID_OPTION"},
		{"bad bool", map[string]interface{}{"apply_style": "maybe"}, false, "INVALID_TYPE"},
		{"long prompt", map[string]interface{}{"prompt": strings.Repeat("a cat, ", 3000)}, true, ""},
		{"long override", map[string]interface{}{"style_id_override": strings.Repeat("x", 201)}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.Validate("compose", tt.data)
			if result.Valid != tt.valid {
				t.Fatalf("Expected valid=%v, got %v (%v)", tt.valid, result.Valid, result.Errors)
			}
			if !tt.valid && result.Errors[0].Code != tt.code {
				t.Errorf("Expected code %s, got %s", tt.code, result.Errors[0].Code)
			}
		})
	}
}

func TestValidateAddStyle(t *testing.T) {
	v := NewValidator()

	result := v.Validate("add_style", map[string]interface{}{
		"name":     "Moody Forest",
		"category": "User/Forest",
		"id":       "user_moody_forest",
		"core":     "fog, moss",
		"tags":     []string{"forest", "moody"},
	})
	if !result.Valid {
		t.Fatalf("Expected valid input, got %v", result.Errors)
	}
	if core := result.GetValidatedData()["core"].([]interface{}); len(core) != 2 {
		t.Errorf("Expected core split into 2 phrases, got %v", core)
	}

	result = v.Validate("add_style", map[string]interface{}{"id": "Bad-ID"})
	if result.Valid {
		t.Fatal("Expected missing name and bad id to fail")
	}
	codes := map[string]bool{}
	for _, e := range result.Errors {
		codes[e.Code] = true
	}
	if !codes["REQUIRED_FIELD_MISSING"] || !codes["PATTERN_MISMATCH"] {
		t.Errorf("Unexpected errors: %v", result.Errors)
	}

	result = v.Validate("add_style", map[string]interface{}{"name": "x", "category": "Vector", "tags": []interface{}{"ok", 3}})
	if result.Valid || result.Errors[0].Code != "SCHEMA_RULE_VIOLATION" {
		t.Errorf("Expected tag rule violation, got %v", result.Errors)
	}
}

func TestValidateListStylesExpression(t *testing.T) {
	v := NewValidator()

	if r := v.Validate("list_styles", map[string]interface{}{"tags": "(cinema AND noir"}); r.Valid {
		t.Error("Expected unbalanced parentheses to fail")
	}
	if r := v.Validate("list_styles", map[string]interface{}{"tags": "(cinema AND noir) OR photo", "format": "labels"}); !r.Valid {
		t.Errorf("Expected valid expression, got %v", r.Errors)
	}
}

func TestUnknownSchema(t *testing.T) {
	result := NewValidator().Validate("nope", nil)
	if result.Valid || result.Errors[0].Code != "SCHEMA_NOT_FOUND" {
		t.Errorf("Expected SCHEMA_NOT_FOUND, got %v", result.Errors)
	}
}

func TestToAppError(t *testing.T) {
	result := NewValidator().Validate("search_styles", map[string]interface{}{})
	appErr := result.ToAppError()
	if appErr == nil {
		t.Fatal("Expected an AppError")
	}
	if appErr.Code != errors.ErrCodeValidation {
		t.Errorf("Expected VALIDATION_ERROR, got %s", appErr.Code)
	}
	if !strings.Contains(appErr.Details, "query") {
		t.Errorf("Expected details to mention query, got %q", appErr.Details)
	}

	ok := NewValidator().Validate("search_styles", map[string]interface{}{"query": "noir"})
	if ok.ToAppError() != nil {
		t.Error("Expected nil AppError for a valid result")
	}
}

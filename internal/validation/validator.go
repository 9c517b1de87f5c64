// Package validation checks user input against field schemas, and style
// libraries against the rules the composer and authoring tools rely on.
//
// Three layers live here:
//   - Validator: schema-based checks for command parameters (compose,
//     add_style, list_styles, search_styles), with type conversion and
//     per-field error reporting. Results convert to AppError via ToAppError.
//   - ValidateLibrary / Audit: whole-library checks over loaded records.
//     Validation failures block; audit findings are warnings only.
//   - PackValidator: strict JSON-schema check of individual pack files,
//     using a schema reflected from models.PackFile.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dpshade/pocket-styler/internal/errors"
	"github.com/dpshade/pocket-styler/internal/models"
)

// StyleIDPattern is the snake_case shape expected of style ids.
var StyleIDPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// FieldValidator is the rule set for one request field.
type FieldValidator struct {
	Name      string
	Required  bool
	Type      string
	MinLength int
	MaxLength int
	Pattern   *regexp.Regexp
	Options   []string
	Custom    func(interface{}) error
}

// ValidationResult collects per-field failures and the converted values.
type ValidationResult struct {
	Valid    bool                   `json:"valid"`
	Errors   []ValidationError      `json:"errors,omitempty"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

// ValidationError is one failed field check.
type ValidationError struct {
	Field   string      `json:"field"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Schema names the fields and cross-field rules of one request kind.
type Schema struct {
	Name   string
	Fields map[string]FieldValidator
	Rules  []func(map[string]interface{}) error
}

// Validator holds the registered schemas
type Validator struct {
	schemas map[string]*Schema
}

// NewValidator creates a validator with the built-in schemas registered
func NewValidator() *Validator {
	v := &Validator{schemas: make(map[string]*Schema)}
	v.registerBuiltinSchemas()
	return v
}

// RegisterSchema registers a validation schema, replacing any schema of the
// same name.
func (v *Validator) RegisterSchema(schema *Schema) {
	v.schemas[schema.Name] = schema
}

// Validate checks data against the named schema. An unknown name fails.
func (v *Validator) Validate(schemaName string, data map[string]interface{}) *ValidationResult {
	schema, exists := v.schemas[schemaName]
	if !exists {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "schema",
				Code:    "SCHEMA_NOT_FOUND",
				Message: fmt.Sprintf("no validation schema named %q", schemaName),
			}},
		}
	}

	result := &ValidationResult{Valid: true, Data: make(map[string]interface{})}

	for fieldName, fv := range schema.Fields {
		v.validateField(fieldName, fv, data, result)
	}

	for _, rule := range schema.Rules {
		if err := rule(data); err != nil {
			result.fail("schema", "SCHEMA_RULE_VIOLATION", err.Error(), nil)
		}
	}

	return result
}

func (r *ValidationResult) fail(field, code, message string, value interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{Field: field, Code: code, Message: message, Value: value})
}

func (v *Validator) validateField(fieldName string, fv FieldValidator, data map[string]interface{}, result *ValidationResult) {
	value, exists := data[fieldName]

	if fv.Required && (!exists || value == nil || value == "") {
		result.fail(fieldName, "REQUIRED_FIELD_MISSING", fmt.Sprintf("Field '%s' is required", fieldName), nil)
		return
	}
	if !exists || value == nil {
		return
	}

	converted, err := convertType(fieldName, fv.Type, value)
	if err != nil {
		result.fail(fieldName, "INVALID_TYPE", err.Error(), value)
		return
	}
	result.Data[fieldName] = converted

	if s, ok := converted.(string); ok && fv.Type == "string" {
		checkString(fieldName, fv, s, result)
	}

	if fv.Custom != nil {
		if err := fv.Custom(converted); err != nil {
			result.fail(fieldName, "CUSTOM_VALIDATION_FAILED", fmt.Sprintf("Field '%s': %s", fieldName, err.Error()), converted)
		}
	}
}

func checkString(fieldName string, fv FieldValidator, s string, result *ValidationResult) {
	if fv.MinLength > 0 && len(s) < fv.MinLength {
		result.fail(fieldName, "MIN_LENGTH_VIOLATION",
			fmt.Sprintf("Field '%s' must be at least %d characters long", fieldName, fv.MinLength), s)
	}
	if fv.MaxLength > 0 && len(s) > fv.MaxLength {
		result.fail(fieldName, "MAX_LENGTH_VIOLATION",
			fmt.Sprintf("Field '%s' must be at most %d characters long", fieldName, fv.MaxLength), s)
	}
	// Patterns and options apply to values that were actually supplied.
	if s == "" {
		return
	}
	if fv.Pattern != nil && !fv.Pattern.MatchString(s) {
		result.fail(fieldName, "PATTERN_MISMATCH",
			fmt.Sprintf("Field '%s' does not match required pattern %s", fieldName, fv.Pattern), s)
	}
	if len(fv.Options) > 0 {
		for _, option := range fv.Options {
			if s == option {
				return
			}
		}
		result.fail(fieldName, "INVALID_OPTION",
			fmt.Sprintf("Field '%s' must be one of: %s", fieldName, strings.Join(fv.Options, ", ")), s)
	}
}

func convertType(fieldName, expectedType string, value interface{}) (interface{}, error) {
	switch expectedType {
	case "string":
		if str, ok := value.(string); ok {
			return str, nil
		}
		return fmt.Sprintf("%v", value), nil

	case "int":
		switch val := value.(type) {
		case int:
			return val, nil
		case float64:
			return int(val), nil
		case string:
			if n, err := strconv.Atoi(val); err == nil {
				return n, nil
			}
		}
		return nil, fmt.Errorf("field '%s' must be an integer", fieldName)

	case "bool":
		switch val := value.(type) {
		case bool:
			return val, nil
		case string:
			if b, err := strconv.ParseBool(val); err == nil {
				return b, nil
			}
		}
		return nil, fmt.Errorf("field '%s' must be a boolean", fieldName)

	case "array":
		switch val := value.(type) {
		case []interface{}:
			return val, nil
		case []string:
			out := make([]interface{}, len(val))
			for i, s := range val {
				out[i] = s
			}
			return out, nil
		case string:
			out := []interface{}{}
			for _, part := range strings.Split(val, ",") {
				if part = strings.TrimSpace(part); part != "" {
					out = append(out, part)
				}
			}
			return out, nil
		}
		return nil, fmt.Errorf("field '%s' must be an array", fieldName)

	default:
		return value, nil
	}
}

func balancedParentheses(value interface{}) error {
	expr, ok := value.(string)
	if !ok {
		return fmt.Errorf("expression must be a string")
	}
	depth := 0
	for _, r := range expr {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return fmt.Errorf("unbalanced parentheses in expression")
			}
		}
	}
	if depth != 0 {
		return fmt.Errorf("unbalanced parentheses in expression")
	}
	return nil
}

func (v *Validator) registerBuiltinSchemas() {
	v.RegisterSchema(&Schema{
		Name: "compose",
		Fields: map[string]FieldValidator{
			"prompt": {
				Name: "prompt",
				Type: "string",
			},
			"apply_style": {
				Name: "apply_style",
				Type: "bool",
			},
			"style": {
				Name: "style",
				Type: "string",
			},
			"style_id_override": {
				Name: "style_id_override",
				Type: "string",
			},
			"variant": {
				Name:    "variant",
				Type:    "string",
				Options: models.VariantNames(),
			},
		},
	})

	v.RegisterSchema(&Schema{
		Name: "add_style",
		Fields: map[string]FieldValidator{
			"name": {
				Name:      "name",
				Type:      "string",
				Required:  true,
				MinLength: 1,
				MaxLength: 200,
			},
			"category": {
				Name:      "category",
				Type:      "string",
				Required:  true,
				MinLength: 1,
				MaxLength: 200,
			},
			"id": {
				Name:      "id",
				Type:      "string",
				MaxLength: 200,
				Pattern:   StyleIDPattern,
			},
			"core": {
				Name: "core",
				Type: "array",
			},
			"details": {
				Name: "details",
				Type: "array",
			},
			"tags": {
				Name: "tags",
				Type: "array",
			},
			"flux": {
				Name:      "flux",
				Type:      "string",
				MaxLength: 5000,
			},
		},
		Rules: []func(map[string]interface{}) error{
			func(data map[string]interface{}) error {
				tags, ok := data["tags"].([]interface{})
				if !ok {
					return nil
				}
				for i, tag := range tags {
					s, ok := tag.(string)
					if !ok {
						return fmt.Errorf("tag at position %d is not a string", i)
					}
					if len(s) > 50 {
						return fmt.Errorf("tag at position %d is too long (max 50 characters)", i)
					}
				}
				return nil
			},
		},
	})

	v.RegisterSchema(&Schema{
		Name: "list_styles",
		Fields: map[string]FieldValidator{
			"category": {
				Name:      "category",
				Type:      "string",
				MaxLength: 200,
			},
			"tags": {
				Name:      "tags",
				Type:      "string",
				MaxLength: 1000,
				Custom:    balancedParentheses,
			},
			"format": {
				Name:    "format",
				Type:    "string",
				Options: []string{"table", "labels", "ids", "json"},
			},
		},
	})

	v.RegisterSchema(&Schema{
		Name: "search_styles",
		Fields: map[string]FieldValidator{
			"query": {
				Name:      "query",
				Type:      "string",
				Required:  true,
				MinLength: 1,
				MaxLength: 1000,
			},
			"limit": {
				Name: "limit",
				Type: "int",
			},
		},
	})
}

// ToAppError returns nil for a passing result, or a VALIDATION_ERROR led
// by the first failure with every failure in its details.
func (r *ValidationResult) ToAppError() *errors.AppError {
	if r.Valid {
		return nil
	}
	if len(r.Errors) == 0 {
		return errors.ValidationError("Validation failed")
	}

	appErr := errors.ValidationError(r.Errors[0].Message)

	var details []string
	for _, ve := range r.Errors {
		details = append(details, fmt.Sprintf("%s: %s", ve.Field, ve.Message))
	}
	appErr.WithDetails(strings.Join(details, "; "))

	return appErr.WithContext("validation_errors", r.Errors)
}

// GetValidatedData returns the converted field values of a passing result.
func (r *ValidationResult) GetValidatedData() map[string]interface{} {
	if !r.Valid {
		return nil
	}
	return r.Data
}

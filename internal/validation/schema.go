package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	invopop "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/dpshade/pocket-styler/internal/models"
)

const packSchemaURL = "pack.schema.json"

// PackSchema reflects the JSON schema of a style pack from models.PackFile.
func PackSchema() *invopop.Schema {
	reflector := invopop.Reflector{
		Anonymous:                 true,
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(&models.PackFile{})
	schema.Title = "pocket-styler style pack"
	return schema
}

// PackSchemaJSON returns the indented pack schema.
func PackSchemaJSON() ([]byte, error) {
	data, err := json.MarshalIndent(PackSchema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode pack schema: %w", err)
	}
	return append(data, '\n'), nil
}

// PackValidator checks pack documents against the compiled pack schema.
type PackValidator struct {
	schema *jsonschema.Schema
}

// NewPackValidator compiles the pack schema.
func NewPackValidator() (*PackValidator, error) {
	raw, err := PackSchemaJSON()
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(packSchemaURL, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to load pack schema: %w", err)
	}
	schema, err := compiler.Compile(packSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile pack schema: %w", err)
	}
	return &PackValidator{schema: schema}, nil
}

// ValidateFile reads a JSON or YAML pack and validates it.
func (p *PackValidator) ValidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read pack: %w", err)
	}

	var doc interface{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		doc, err = yamlToJSONDocument(data)
	default:
		doc, err = decodeJSON(data)
	}
	if err != nil {
		return fmt.Errorf("failed to parse pack %s: %w", path, err)
	}

	if err := p.ValidateDocument(doc); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// ValidateDocument validates an already decoded JSON document.
func (p *PackValidator) ValidateDocument(doc interface{}) error {
	if err := p.schema.Validate(doc); err != nil {
		return fmt.Errorf("pack does not match schema: %w", err)
	}
	return nil
}

// yamlToJSONDocument decodes YAML and round-trips it through JSON so the
// validator sees the same value types it would for a JSON pack.
func yamlToJSONDocument(data []byte) (interface{}, error) {
	var v interface{}
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return decodeJSON(raw)
}

// decodeJSON keeps numbers as json.Number so integer checks stay exact.
func decodeJSON(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

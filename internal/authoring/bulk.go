package authoring

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dpshade/pocket-styler/internal/storage"
)

// ReadBulkCSV reads styles from a CSV file with a header row. Recognized
// columns: name, category, core, details, tags, id, flux (or flux_suffix),
// prefix_extra and suffix_extra. List columns are comma-separated.
func ReadBulkCSV(path string) ([]StyleInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var items []StyleInput
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		fields := make(map[string]interface{}, len(header))
		for i, col := range header {
			if col != "" && i < len(row) {
				fields[col] = strings.TrimSpace(row[i])
			}
		}
		items = append(items, inputFromFields(fields))
	}
	return items, nil
}

// ReadBulkJSON reads styles from a JSON list, or an object with a styles
// list. Non-object items are ignored. List fields may be strings or arrays.
func ReadBulkJSON(path string) ([]StyleInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON: %w", err)
	}

	var root interface{}
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if obj, ok := root.(map[string]interface{}); ok {
		if styles, present := obj["styles"]; present {
			root = styles
		}
	}
	list, ok := root.([]interface{})
	if !ok {
		return nil, fmt.Errorf("JSON bulk file must be a list (or an object with a 'styles' list)")
	}

	var items []StyleInput
	for _, item := range list {
		if fields, ok := storage.AsMap(item); ok {
			items = append(items, inputFromFields(fields))
		}
	}
	return items, nil
}

func inputFromFields(f map[string]interface{}) StyleInput {
	flux := stringField(f, "flux")
	if flux == "" {
		flux = stringField(f, "flux_suffix")
	}
	return StyleInput{
		Name:     stringField(f, "name"),
		Category: stringField(f, "category"),
		Core:     append(listField(f, "core"), listField(f, "prefix_extra")...),
		Details:  append(listField(f, "details"), listField(f, "suffix_extra")...),
		Tags:     listField(f, "tags"),
		ID:       stringField(f, "id"),
		Flux:     flux,
	}
}

func stringField(f map[string]interface{}, key string) string {
	switch v := f[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func listField(f map[string]interface{}, key string) []string {
	switch v := f[key].(type) {
	case string:
		return SplitList(v)
	case []interface{}:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, SplitList(s)...)
			}
		}
		return out
	default:
		return nil
	}
}

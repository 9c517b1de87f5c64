package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dpshade/pocket-styler/internal/models"
)

// LoadOrInitPack reads the pack at path, or returns an empty pack bound to
// path when the file does not exist.
func LoadOrInitPack(path string) (*models.PackFile, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &models.PackFile{Version: models.PackVersion, Styles: []models.StyleRecord{}, Path: path}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read pack: %w", err)
	}

	var pack models.PackFile
	if isYAML(path) {
		err = yaml.Unmarshal(data, &pack)
	} else {
		err = json.Unmarshal(data, &pack)
	}
	if err != nil {
		return nil, fmt.Errorf("pack is not a valid style pack: %s: %w", path, err)
	}

	if pack.Version == 0 {
		pack.Version = models.PackVersion
	}
	if pack.Styles == nil {
		pack.Styles = []models.StyleRecord{}
	}
	pack.Path = path
	return &pack, nil
}

// SortRecords orders records by category and name (case-folded), then id.
func SortRecords(records []models.StyleRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if ca, cb := strings.ToLower(a.Category), strings.ToLower(b.Category); ca != cb {
			return ca < cb
		}
		if na, nb := strings.ToLower(a.Name), strings.ToLower(b.Name); na != nb {
			return na < nb
		}
		return a.ID < b.ID
	})
}

// SavePack sorts the pack's styles and writes it to pack.Path, as indented
// JSON (or YAML for .yaml/.yml paths) ending in a newline.
func SavePack(pack *models.PackFile) error {
	if pack.Path == "" {
		return fmt.Errorf("pack path not set")
	}
	if err := os.MkdirAll(filepath.Dir(pack.Path), 0755); err != nil {
		return fmt.Errorf("failed to create pack directory: %w", err)
	}

	SortRecords(pack.Styles)

	data, err := encodePack(pack)
	if err != nil {
		return err
	}
	if err := os.WriteFile(pack.Path, data, 0644); err != nil {
		return fmt.Errorf("failed to write pack: %w", err)
	}
	return nil
}

func encodePack(pack *models.PackFile) ([]byte, error) {
	var buf bytes.Buffer
	if isYAML(pack.Path) {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(pack); err != nil {
			return nil, fmt.Errorf("failed to encode pack: %w", err)
		}
		return buf.Bytes(), nil
	}

	data, err := json.MarshalIndent(pack, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode pack: %w", err)
	}
	buf.Write(data)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

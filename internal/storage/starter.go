package storage

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed starter/styles_v1.json
var starterLibrary []byte

// StarterLibrary returns the bundled legacy styles file.
func StarterLibrary() []byte {
	return starterLibrary
}

// WriteStarterLibrary writes the bundled styles file to path unless a file
// already exists there. It reports whether it wrote anything.
func WriteStarterLibrary(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("failed to create styles directory: %w", err)
	}
	if err := os.WriteFile(path, starterLibrary, 0644); err != nil {
		return false, fmt.Errorf("failed to write starter library: %w", err)
	}
	return true, nil
}

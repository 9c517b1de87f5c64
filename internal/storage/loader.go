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

	"github.com/dpshade/pocket-styler/internal/errors"
	"github.com/dpshade/pocket-styler/internal/logger"
)

// RawRecord is one element of a file's styles list, exactly as decoded.
type RawRecord struct {
	Fields map[string]interface{}
	Source string
}

// Sources names the files the library is read from.
type Sources struct {
	PacksDir   string
	LegacyFile string
	Extensions []string
}

// DefaultExtensions are the pack file suffixes recognized when Sources
// does not list any.
var DefaultExtensions = []string{".json", ".yaml", ".yml"}

// SkippedSource records a source the loader passed over.
type SkippedSource struct {
	Path     string
	Strategy string
	Cause    error
}

// LoadReport describes the outcome of one load.
type LoadReport struct {
	Records  []RawRecord
	Strategy string
	Skipped  []SkippedSource
}

// Loader reads style records from a pack directory with a legacy file as
// fallback.
type Loader struct {
	sources Sources
	log     *logger.Logger
}

// NewLoader creates a loader over sources
func NewLoader(sources Sources, log *logger.Logger) *Loader {
	if len(sources.Extensions) == 0 {
		sources.Extensions = DefaultExtensions
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Loader{sources: sources, log: log.With("component", "loader")}
}

// Sources returns the loader's configured sources
func (l *Loader) Sources() Sources {
	return l.sources
}

// LoadStyleFile parses path and returns the object elements of its top-level
// styles list. A root that is not an object or a styles value that is not a
// list yields no records. Read and parse failures are returned.
func LoadStyleFile(path string) ([]RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.SourceReadError(path, err)
	}

	root, err := decodeDocument(path, data)
	if err != nil {
		return nil, errors.SourceReadError(path, err)
	}

	doc, ok := asMap(root)
	if !ok {
		return nil, nil
	}
	list, ok := doc["styles"].([]interface{})
	if !ok {
		return nil, nil
	}

	records := make([]RawRecord, 0, len(list))
	for _, item := range list {
		if fields, ok := asMap(item); ok {
			records = append(records, RawRecord{Fields: fields, Source: path})
		}
	}
	return records, nil
}

// DiscoverPackPaths lists files in dir whose suffix matches one of exts
// (case-insensitive), in lexicographic filename order. A missing directory
// yields no paths.
func DiscoverPackPaths(dir string, exts []string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !hasExtension(entry.Name(), exts) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	paths := make([]string, 0, len(names))
	for _, name := range names {
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths
}

// PackPaths returns the pack files currently present
func (l *Loader) PackPaths() []string {
	return DiscoverPackPaths(l.sources.PacksDir, l.sources.Extensions)
}

// SourcePaths returns every file that can contribute to a load: all packs
// plus the legacy file when packs exist, the legacy file alone otherwise.
func (l *Loader) SourcePaths() []string {
	packs := l.PackPaths()
	if len(packs) == 0 {
		return []string{l.sources.LegacyFile}
	}
	return append(packs, l.sources.LegacyFile)
}

// LoadAllSources returns the records of the first strategy that produces
// any. It never fails; problems are logged.
func (l *Loader) LoadAllSources() []RawRecord {
	return l.Load().Records
}

type loadStrategy struct {
	name string
	load func(report *LoadReport) ([]RawRecord, error)
}

// Load runs the fallback chain and reports which strategy produced the
// records and what was skipped on the way.
func (l *Loader) Load() LoadReport {
	var report LoadReport

	packs := l.PackPaths()
	var strategies []loadStrategy
	if len(packs) > 0 {
		strategies = append(strategies, loadStrategy{
			name: "packs",
			load: func(r *LoadReport) ([]RawRecord, error) { return l.loadPacks(packs, r), nil },
		})
	}
	strategies = append(strategies, loadStrategy{
		name: "legacy",
		load: func(*LoadReport) ([]RawRecord, error) { return LoadStyleFile(l.sources.LegacyFile) },
	})

	for i, s := range strategies {
		records, err := s.load(&report)
		last := i == len(strategies)-1
		if err != nil {
			report.Skipped = append(report.Skipped, SkippedSource{Path: l.sources.LegacyFile, Strategy: s.name, Cause: err})
			if last {
				l.log.Error("unable to read styles file", "strategy", s.name, "path", l.sources.LegacyFile, "cause", err.Error())
			} else {
				l.log.Warn("style source unavailable", "strategy", s.name, "cause", err.Error())
			}
			continue
		}
		if len(records) == 0 {
			continue
		}
		if i > 0 {
			l.log.Warn("no styles loaded from packs; falling back to legacy file", "strategy", s.name, "path", l.sources.LegacyFile)
		}
		report.Records = records
		report.Strategy = s.name
		return report
	}

	return report
}

func (l *Loader) loadPacks(paths []string, report *LoadReport) []RawRecord {
	var merged []RawRecord
	for _, path := range paths {
		records, err := LoadStyleFile(path)
		if err != nil {
			report.Skipped = append(report.Skipped, SkippedSource{Path: path, Strategy: "packs", Cause: err})
			l.log.Warn("unable to read style pack", "strategy", "packs", "path", path, "cause", err.Error())
			continue
		}
		merged = append(merged, records...)
	}
	return merged
}

func decodeDocument(path string, data []byte) (interface{}, error) {
	var root interface{}
	if isYAML(path) {
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		return root, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("failed to parse JSON: trailing data after document")
	}
	return root, nil
}

// asMap accepts both decoded JSON objects and YAML mappings with non-string keys.
func asMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

// AsMap exposes the loader's object coercion to record mappers.
func AsMap(v interface{}) (map[string]interface{}, bool) {
	return asMap(v)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func hasExtension(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

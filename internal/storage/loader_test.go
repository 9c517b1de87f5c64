package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dpshade/pocket-styler/internal/errors"
	"github.com/dpshade/pocket-styler/internal/logger"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func observedLogger() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logger.FromZap(zap.New(core)), logs
}

func ids(records []RawRecord) []string {
	var out []string
	for _, r := range records {
		out = append(out, r.Fields["id"].(string))
	}
	return out
}

func TestLoadStyleFileCoercesShapes(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"list root", `[{"id": "a"}]`, nil},
		{"null root", `null`, nil},
		{"styles not a list", `{"styles": {"id": "a"}}`, nil},
		{"missing styles", `{"version": 1}`, nil},
		{"mixed elements", `{"styles": [{"id": "a"}, "junk", 3, null, {"id": "b"}]}`, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".json")
			writeFile(t, path, tt.content)

			records, err := LoadStyleFile(path)
			if err != nil {
				t.Fatalf("LoadStyleFile: %v", err)
			}
			if got := ids(records); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ids = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadStyleFilePropagatesErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadStyleFile(filepath.Join(dir, "missing.json")); !errors.HasCode(err, errors.ErrCodeSourceRead) {
		t.Errorf("missing file: expected SOURCE_READ_ERROR, got %v", err)
	}

	broken := filepath.Join(dir, "broken.json")
	writeFile(t, broken, `{"styles": [`)
	if _, err := LoadStyleFile(broken); !errors.HasCode(err, errors.ErrCodeSourceRead) {
		t.Errorf("broken file: expected SOURCE_READ_ERROR, got %v", err)
	}
}

func TestLoadStyleFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "50_user.yaml")
	writeFile(t, path, `version: 1
styles:
  - id: yaml_style
    name: YAML Style
    default:
      prefix: "a, b"
      suffix: "c"
`)

	records, err := LoadStyleFile(path)
	if err != nil {
		t.Fatalf("LoadStyleFile: %v", err)
	}
	if len(records) != 1 || records[0].Fields["id"] != "yaml_style" {
		t.Fatalf("unexpected records: %#v", records)
	}
	if _, ok := AsMap(records[0].Fields["default"]); !ok {
		t.Error("expected default to decode as an object")
	}
	if records[0].Source != path {
		t.Errorf("source = %q, want %q", records[0].Source, path)
	}
}

func TestDiscoverPackPaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"20_photo.json", "10_cinema.JSON", "README.md", "30_user.yaml"} {
		writeFile(t, filepath.Join(dir, name), "{}")
	}
	if err := os.Mkdir(filepath.Join(dir, "05_dir.json"), 0755); err != nil {
		t.Fatal(err)
	}

	got := DiscoverPackPaths(dir, DefaultExtensions)
	want := []string{
		filepath.Join(dir, "10_cinema.JSON"),
		filepath.Join(dir, "20_photo.json"),
		filepath.Join(dir, "30_user.yaml"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DiscoverPackPaths = %v, want %v", got, want)
	}

	if got := DiscoverPackPaths(filepath.Join(dir, "nope"), DefaultExtensions); len(got) != 0 {
		t.Errorf("missing dir should yield nothing, got %v", got)
	}
	if got := DiscoverPackPaths(dir, []string{".json"}); len(got) != 2 {
		t.Errorf("json-only filter returned %v", got)
	}
}

func TestLoadSkipsBrokenPack(t *testing.T) {
	root := t.TempDir()
	packs := filepath.Join(root, "packs")
	writeFile(t, filepath.Join(packs, "10_good.json"), `{"styles": [{"id": "good", "name": "Good"}]}`)
	writeFile(t, filepath.Join(packs, "20_bad.json"), `{"styles": [{"id": "bad",`)

	log, logs := observedLogger()
	loader := NewLoader(Sources{PacksDir: packs, LegacyFile: filepath.Join(root, "legacy.json")}, log)

	report := loader.Load()
	if got := ids(report.Records); !reflect.DeepEqual(got, []string{"good"}) {
		t.Fatalf("records = %v, want [good]", got)
	}
	if report.Strategy != "packs" {
		t.Errorf("strategy = %q, want packs", report.Strategy)
	}
	if len(report.Skipped) != 1 || report.Skipped[0].Path != filepath.Join(packs, "20_bad.json") {
		t.Errorf("unexpected skipped: %#v", report.Skipped)
	}

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).FilterField(zap.String("path", filepath.Join(packs, "20_bad.json")))
	if warnings.Len() != 1 {
		t.Errorf("expected one warning for the broken pack, got %d", warnings.Len())
	}
}

func TestLoadFallsBackToLegacy(t *testing.T) {
	root := t.TempDir()
	packs := filepath.Join(root, "packs")
	legacy := filepath.Join(root, "styles_v1.json")
	writeFile(t, filepath.Join(packs, "10_empty.json"), `{"styles": []}`)
	writeFile(t, filepath.Join(packs, "20_bad.json"), `not json`)
	writeFile(t, legacy, `{"styles": [{"id": "legacy", "name": "Legacy"}]}`)

	log, logs := observedLogger()
	loader := NewLoader(Sources{PacksDir: packs, LegacyFile: legacy}, log)

	report := loader.Load()
	if got := ids(report.Records); !reflect.DeepEqual(got, []string{"legacy"}) {
		t.Fatalf("records = %v, want [legacy]", got)
	}
	if report.Strategy != "legacy" {
		t.Errorf("strategy = %q, want legacy", report.Strategy)
	}
	if logs.FilterMessageSnippet("falling back to legacy file").Len() != 1 {
		t.Error("expected a fallback warning")
	}

	wantSources := []string{filepath.Join(packs, "10_empty.json"), filepath.Join(packs, "20_bad.json"), legacy}
	if got := loader.SourcePaths(); !reflect.DeepEqual(got, wantSources) {
		t.Errorf("SourcePaths = %v, want %v", got, wantSources)
	}
}

func TestLoadLegacyOnly(t *testing.T) {
	root := t.TempDir()
	legacy := filepath.Join(root, "styles_v1.json")
	writeFile(t, legacy, `{"styles": [{"id": "a", "name": "A"}, {"id": "b", "name": "B"}]}`)

	loader := NewLoader(Sources{PacksDir: filepath.Join(root, "packs"), LegacyFile: legacy}, nil)
	if got := ids(loader.LoadAllSources()); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("records = %v", got)
	}
	if got := loader.SourcePaths(); !reflect.DeepEqual(got, []string{legacy}) {
		t.Errorf("SourcePaths = %v", got)
	}
}

func TestLoadMissingLegacyNeverFails(t *testing.T) {
	root := t.TempDir()
	log, logs := observedLogger()
	loader := NewLoader(Sources{PacksDir: filepath.Join(root, "packs"), LegacyFile: filepath.Join(root, "missing.json")}, log)

	report := loader.Load()
	if len(report.Records) != 0 {
		t.Errorf("expected no records, got %d", len(report.Records))
	}
	if logs.FilterLevelExact(zapcore.ErrorLevel).Len() != 1 {
		t.Error("expected the legacy read failure to be logged as an error")
	}
}

func TestStarterLibraryLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styles", "styles_v1.json")

	wrote, err := WriteStarterLibrary(path)
	if err != nil || !wrote {
		t.Fatalf("WriteStarterLibrary = %v, %v", wrote, err)
	}
	wrote, err = WriteStarterLibrary(path)
	if err != nil || wrote {
		t.Errorf("second write should be skipped, got %v, %v", wrote, err)
	}

	records, err := LoadStyleFile(path)
	if err != nil {
		t.Fatalf("LoadStyleFile: %v", err)
	}
	if len(records) == 0 {
		t.Fatal("starter library has no styles")
	}
}

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dpshade/pocket-styler/internal/config"
)

// run executes the command tree against a temporary library
func run(t *testing.T, lib string, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv(config.DirEnv, lib)
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), append([]string{"--library", lib}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func initLibrary(t *testing.T) string {
	t.Helper()
	lib := t.TempDir()
	if code, _, stderr := run(t, lib, "init"); code != 0 {
		t.Fatalf("init failed: %s", stderr)
	}
	return lib
}

func TestInitAndList(t *testing.T) {
	lib := t.TempDir()

	code, out, _ := run(t, lib, "init")
	if code != 0 || !strings.Contains(out, "Wrote starter styles") {
		t.Fatalf("Unexpected init output (%d): %s", code, out)
	}
	if _, err := os.Stat(filepath.Join(lib, "config.yaml")); err != nil {
		t.Errorf("Expected config.yaml: %v", err)
	}

	code, out, _ = run(t, lib, "init")
	if code != 0 || !strings.Contains(out, "Already initialized.") {
		t.Errorf("Expected second init to be a no-op, got: %s", out)
	}

	code, out, _ = run(t, lib, "list", "--format", "ids")
	if code != 0 {
		t.Fatalf("list failed")
	}
	if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) != 8 {
		t.Errorf("Expected 8 ids, got %d: %s", len(lines), out)
	}

	_, out, _ = run(t, lib, "list", "--category", "cinema", "--tags", "NOT noir", "--format", "ids")
	if strings.TrimSpace(out) != "cin_blockbuster_teal_orange" {
		t.Errorf("Expected filtered list, got %q", out)
	}
}

func TestComposeCommand(t *testing.T) {
	lib := initLibrary(t)

	code, out, _ := run(t, lib, "compose", "--id", "cin_film_noir", "a", "detective")
	if code != 0 {
		t.Fatalf("compose failed")
	}
	if !strings.HasPrefix(out, "cinematic film still") || !strings.Contains(out, ", a detective, ") {
		t.Errorf("Unexpected styled prompt: %s", out)
	}

	_, out, _ = run(t, lib, "compose", "--no-style", "a detective")
	if strings.TrimSpace(out) != "a detective" {
		t.Errorf("Expected prompt unchanged, got %q", out)
	}

	_, out, _ = run(t, lib, "compose", "--style", "Cinema | Film Noir | cin_film_noir", "--variant", "flux_2_klein", "a detective")
	if !strings.HasPrefix(out, "a detective Style: film noir") {
		t.Errorf("Expected prose variant, got %q", out)
	}
}

func TestComposeJSONWithEncoding(t *testing.T) {
	lib := initLibrary(t)

	code, out, _ := run(t, lib, "compose", "--id", "gd_swiss_poster", "--encode", "-f", "json", "a bicycle")
	if code != 0 {
		t.Fatalf("compose failed")
	}
	var c struct {
		StyleID      string    `json:"style_id"`
		Variant      string    `json:"variant"`
		Conditioning []float32 `json:"conditioning"`
	}
	if err := json.Unmarshal([]byte(out), &c); err != nil {
		t.Fatalf("Invalid JSON: %v\n%s", err, out)
	}
	if c.StyleID != "gd_swiss_poster" || c.Variant != "default" || len(c.Conditioning) != 64 {
		t.Errorf("Unexpected composition: %+v", c)
	}
}

func TestComposeSelectionErrors(t *testing.T) {
	lib := initLibrary(t)

	code, _, stderr := run(t, lib, "compose", "--id", "missing", "x")
	if code != 1 || !strings.Contains(stderr, "Unknown style_id_override: missing") {
		t.Errorf("Expected unknown override error, got %d %q", code, stderr)
	}

	code, _, stderr = run(t, lib, "compose", "x")
	if code != 1 || !strings.Contains(stderr, "No style selected.") {
		t.Errorf("Expected no style selected, got %d %q", code, stderr)
	}

	code, _, _ = run(t, lib, "compose", "--variant", "sdxl", "--id", "cin_film_noir", "x")
	if code != 1 {
		t.Error("Expected unknown variant to fail")
	}
}

func TestShowAndSearch(t *testing.T) {
	lib := initLibrary(t)

	_, out, _ := run(t, lib, "show", "-f", "json", "cin_film_noir")
	if !strings.Contains(out, `"label": "Cinema | Film Noir | cin_film_noir"`) {
		t.Errorf("Unexpected show output: %s", out)
	}

	code, _, stderr := run(t, lib, "show", "nope")
	if code != 1 || !strings.Contains(stderr, "not found") {
		t.Errorf("Expected not found, got %q", stderr)
	}

	_, out, _ = run(t, lib, "search", "-n", "1", "pixel")
	if !strings.Contains(out, "ill_pixel_16bit") {
		t.Errorf("Expected pixel style, got %q", out)
	}
}

func TestAddAndBulk(t *testing.T) {
	lib := initLibrary(t)

	code, out, _ := run(t, lib, "add", "--name", "Foggy Harbor", "--category", "Cinema", "--core", "fog", "--dry-run")
	if code != 0 || !strings.Contains(out, `"id": "user_foggy_harbor"`) {
		t.Fatalf("Unexpected dry run output: %s", out)
	}
	userPack := filepath.Join(lib, "styles", "packs", "99_user_custom.json")
	if _, err := os.Stat(userPack); !os.IsNotExist(err) {
		t.Error("Dry run must not write the pack")
	}

	code, _, stderr := run(t, lib, "add", "--name", "Foggy Harbor", "--category", "Cinema", "--core", "fog")
	if code != 0 {
		t.Fatalf("add failed: %s", stderr)
	}

	bulk := filepath.Join(t.TempDir(), "bulk.json")
	content := `{"styles": [{"name": "Ink Wash", "category": "Illustration"}, {"name": "No Category"}]}`
	if err := os.WriteFile(bulk, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	code, out, _ = run(t, lib, "bulk", "--json", bulk)
	if code != 0 || !strings.Contains(out, "Added 1 styles") || !strings.Contains(out, "skipped 1") {
		t.Errorf("Unexpected bulk output: %s", out)
	}

	// The user pack now shadows the legacy starter file.
	_, out, _ = run(t, lib, "list", "--format", "ids")
	if strings.TrimSpace(out) != "user_foggy_harbor\nuser_ink_wash" {
		t.Errorf("Expected both user styles, got %q", out)
	}

	code, _, _ = run(t, lib, "bulk")
	if code != 1 {
		t.Error("Expected bulk without input to fail")
	}
}

func TestValidateAuditSchema(t *testing.T) {
	lib := initLibrary(t)

	code, out, _ := run(t, lib, "validate", "--strict")
	if code != 0 || !strings.Contains(out, "8 styles; 8 unique ids; 8 unique names") {
		t.Errorf("Unexpected validate output (%d): %s", code, out)
	}

	code, out, _ = run(t, lib, "audit", "-f", "json")
	if code != 0 || !strings.Contains(out, `"styles": 8`) {
		t.Errorf("Unexpected audit output: %s", out)
	}

	_, out, _ = run(t, lib, "schema")
	if !strings.Contains(out, `"styles"`) {
		t.Errorf("Unexpected schema output: %s", out)
	}
}

func TestVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), []string{"version"}, &stdout, &stderr)
	if code != 0 || strings.TrimSpace(stdout.String()) != "pocket-styler "+Version {
		t.Errorf("Unexpected version output: %q", stdout.String())
	}
}

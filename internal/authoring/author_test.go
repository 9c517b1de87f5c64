package authoring

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dpshade/pocket-styler/internal/errors"
	"github.com/dpshade/pocket-styler/internal/storage"
)

func newTestAuthor(t *testing.T) (*Author, string) {
	t.Helper()
	root := t.TempDir()
	packs := filepath.Join(root, "packs")
	if err := os.MkdirAll(packs, 0755); err != nil {
		t.Fatal(err)
	}
	existing := `{"version": 1, "styles": [
		{"id": "cin_film_noir", "name": "Film Noir", "category": "Cinema", "default": {"prefix": "", "suffix": ""}},
		{"id": "user_moody_forest", "name": "Moody Forest", "category": "User/Forest", "default": {"prefix": "", "suffix": ""}},
		{"id": "photo_a", "name": "Photo A", "category": "Photography", "default": {"prefix": "", "suffix": ""}},
		{"id": "photo_b", "name": "Photo B", "category": "Photography", "default": {"prefix": "", "suffix": ""}}
	]}`
	if err := os.WriteFile(filepath.Join(packs, "10_base.json"), []byte(existing), 0644); err != nil {
		t.Fatal(err)
	}
	loader := storage.NewLoader(storage.Sources{PacksDir: packs, LegacyFile: filepath.Join(root, "styles_v1.json")}, nil)
	return New(loader, "user", nil), filepath.Join(packs, "99_user_custom.json")
}

func TestAddAvoidsLibraryCollisions(t *testing.T) {
	author, packPath := newTestAuthor(t)

	entry, err := author.Add(packPath, StyleInput{Name: "Moody Forest", Category: "User/Forest", Core: []string{"fog"}})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if entry.ID != "user_moody_forest_2" || entry.Name != "Moody Forest (2)" {
		t.Errorf("expected collision suffixes, got %q / %q", entry.ID, entry.Name)
	}

	pack, err := storage.LoadOrInitPack(packPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(pack.Styles) != 1 || pack.Styles[0].ID != entry.ID {
		t.Errorf("pack holds %#v", pack.Styles)
	}

	again, err := author.Add(packPath, StyleInput{Name: "Moody Forest", Category: "User/Forest"})
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != "user_moody_forest_3" {
		t.Errorf("expected the new pack entry to be reserved, got %q", again.ID)
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	author, packPath := newTestAuthor(t)

	_, err := author.Add(packPath, StyleInput{Name: "No Category"})
	if !errors.HasCode(err, errors.ErrCodeValidation) {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
	_, err = author.Add(packPath, StyleInput{Name: "Bad", Category: "X", ID: "Bad ID"})
	if !errors.HasCode(err, errors.ErrCodeValidation) {
		t.Errorf("expected VALIDATION_ERROR for a bad id, got %v", err)
	}
	if _, statErr := os.Stat(packPath); !os.IsNotExist(statErr) {
		t.Error("no pack should be written for invalid input")
	}
}

func TestDraftDoesNotWrite(t *testing.T) {
	author, packPath := newTestAuthor(t)

	d, err := author.Draft(packPath, StyleInput{Name: "Preview Only", Category: "Vector"})
	if err != nil {
		t.Fatal(err)
	}
	if d.Entry.ID != "user_preview_only" {
		t.Errorf("ID = %q", d.Entry.ID)
	}
	if _, err := os.Stat(packPath); !os.IsNotExist(err) {
		t.Error("Draft must not write the pack")
	}
	if err := d.Save(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(packPath); err != nil {
		t.Errorf("Save should write the pack: %v", err)
	}
}

func TestBulk(t *testing.T) {
	author, packPath := newTestAuthor(t)

	res, err := author.Bulk(packPath, []StyleInput{
		{Name: "Zeta", Category: "Vector"},
		{Name: "Alpha", Category: "Vector", Tags: []string{"flat"}},
		{Name: "", Category: "Vector"},
		{Name: "No Category"},
		{Name: "Bad Id", Category: "Vector", ID: "Bad Id"},
	})
	if err != nil {
		t.Fatalf("Bulk: %v", err)
	}
	if len(res.Added) != 2 || res.Skipped != 3 {
		t.Errorf("added %d, skipped %d", len(res.Added), res.Skipped)
	}

	pack, _ := storage.LoadOrInitPack(packPath)
	if pack.Styles[0].Name != "Alpha" || pack.Styles[1].Name != "Zeta" {
		t.Errorf("pack should be sorted by name, got %s, %s", pack.Styles[0].Name, pack.Styles[1].Name)
	}
}

func TestCategoriesAndStats(t *testing.T) {
	author, _ := newTestAuthor(t)

	cats := author.Categories()
	counts := map[string]int{}
	var names []string
	for _, c := range cats {
		counts[c.Category] = c.Count
		names = append(names, c.Category)
	}
	if counts["Cinema"] != 1 || counts["Photography"] != 2 || counts["User/Forest"] != 1 {
		t.Errorf("unexpected counts %v", counts)
	}
	if _, ok := counts["Nature"]; !ok {
		t.Error("base categories should be listed even when empty")
	}
	if names[len(names)-1] != "Vector" && names[len(names)-1] != "User/Forest" {
		t.Errorf("unexpected order: %s", strings.Join(names, ", "))
	}

	total, stats := author.Stats()
	if total != 4 {
		t.Errorf("total = %d", total)
	}
	if stats[0].Category != "Photography" || stats[0].Count != 2 {
		t.Errorf("largest category first, got %v", stats)
	}
}

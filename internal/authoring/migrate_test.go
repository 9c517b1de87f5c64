package authoring

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dpshade/pocket-styler/internal/models"
	"github.com/dpshade/pocket-styler/internal/storage"
)

func TestPlanMigration(t *testing.T) {
	packs := t.TempDir()
	existing := `{"version": 1, "styles": [{"id": "cin_film_noir", "name": "Film Noir", "category": "Cinema", "default": {"prefix": "a", "suffix": "b"}}]}`
	if err := os.WriteFile(filepath.Join(packs, "10_cinema.json"), []byte(existing), 0644); err != nil {
		t.Fatal(err)
	}

	legacy := &models.PackFile{Version: 1, Styles: []models.StyleRecord{
		{ID: "cin_film_noir", Name: "Film Noir", Category: "Cinema"},
		{ID: "cin_blockbuster", Name: "Blockbuster", Category: "Cinema"},
		{ID: "ill_ink", Name: "Ink", Category: "Illustration"},
		{ID: "odd", Name: "Odd One", Category: "My Things"},
	}}

	plan, err := PlanMigration(legacy, packs)
	if err != nil {
		t.Fatal(err)
	}
	if plan.Existing != 1 {
		t.Errorf("Expected 1 existing record skipped, got %d", plan.Existing)
	}
	if len(plan.Packs) != 3 {
		t.Fatalf("Expected 3 packs, got %d", len(plan.Packs))
	}
	if err := plan.Apply(); err != nil {
		t.Fatal(err)
	}

	cinema, err := storage.LoadOrInitPack(filepath.Join(packs, "10_cinema.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(cinema.Styles) != 2 || cinema.Styles[0].ID != "cin_blockbuster" {
		t.Errorf("Expected merged, sorted cinema pack, got %+v", cinema.Styles)
	}
	if _, err := os.Stat(filepath.Join(packs, "98_my_things.json")); err != nil {
		t.Errorf("Expected slug pack for unknown category: %v", err)
	}
}

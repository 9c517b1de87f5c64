package authoring

import (
	"path/filepath"
	"sort"

	"github.com/dpshade/pocket-styler/internal/models"
	"github.com/dpshade/pocket-styler/internal/storage"
)

// MigrationPlan groups a legacy library into the packs its categories
// belong in.
type MigrationPlan struct {
	Packs []*models.PackFile
	// Existing counts records skipped because their id is already in the
	// target pack.
	Existing int
}

// PlanMigration splits legacy into per-category packs under packsDir,
// merged with whatever those packs already hold.
func PlanMigration(legacy *models.PackFile, packsDir string) (*MigrationPlan, error) {
	plan := &MigrationPlan{}
	byPath := make(map[string]*models.PackFile)
	seen := make(map[string]map[string]struct{})

	for _, rec := range legacy.Styles {
		category := rec.Category
		if category == "" {
			category = models.DefaultCategory
		}
		path := filepath.Join(packsDir, PackFileName(category))

		pack, ok := byPath[path]
		if !ok {
			var err error
			if pack, err = storage.LoadOrInitPack(path); err != nil {
				return nil, err
			}
			byPath[path] = pack
			seen[path] = make(map[string]struct{}, len(pack.Styles))
			for _, existing := range pack.Styles {
				seen[path][existing.ID] = struct{}{}
			}
		}

		if _, dup := seen[path][rec.ID]; dup {
			plan.Existing++
			continue
		}
		seen[path][rec.ID] = struct{}{}
		pack.Styles = append(pack.Styles, rec)
	}

	for _, pack := range byPath {
		plan.Packs = append(plan.Packs, pack)
	}
	sort.Slice(plan.Packs, func(i, j int) bool { return plan.Packs[i].Path < plan.Packs[j].Path })
	return plan, nil
}

// Apply writes every planned pack.
func (p *MigrationPlan) Apply() error {
	for _, pack := range p.Packs {
		if err := storage.SavePack(pack); err != nil {
			return err
		}
	}
	return nil
}

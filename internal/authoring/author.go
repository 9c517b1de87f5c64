package authoring

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dpshade/pocket-styler/internal/errors"
	"github.com/dpshade/pocket-styler/internal/logger"
	"github.com/dpshade/pocket-styler/internal/models"
	"github.com/dpshade/pocket-styler/internal/storage"
	"github.com/dpshade/pocket-styler/internal/validation"
)

// Author adds styles to packs, keeping ids and names unique across the
// whole library.
type Author struct {
	loader    *storage.Loader
	validator *validation.Validator
	idPrefix  string
	log       *logger.Logger
}

// New creates an author reading the library through loader. Generated ids
// start with idPrefix.
func New(loader *storage.Loader, idPrefix string, log *logger.Logger) *Author {
	if log == nil {
		log = logger.Nop()
	}
	if idPrefix == "" {
		idPrefix = DefaultTag
	}
	return &Author{
		loader:    loader,
		validator: validation.NewValidator(),
		idPrefix:  idPrefix,
		log:       log.With("component", "authoring"),
	}
}

// Draft is a built entry not yet written to its pack.
type Draft struct {
	Pack  *models.PackFile
	Entry models.StyleRecord
}

// Save appends the entry and writes the pack.
func (d *Draft) Save() error {
	d.Pack.Styles = append(d.Pack.Styles, d.Entry)
	if err := storage.SavePack(d.Pack); err != nil {
		return errors.StorageError("save pack", err)
	}
	return nil
}

// Draft validates in and builds its entry for the pack at packPath.
func (a *Author) Draft(packPath string, in StyleInput) (*Draft, error) {
	if err := a.check(in); err != nil {
		return nil, err
	}
	pack, err := a.openPack(packPath)
	if err != nil {
		return nil, err
	}
	entry := MakeEntry(in, a.idPrefix, a.registry(pack))
	return &Draft{Pack: pack, Entry: entry}, nil
}

// Add builds and writes one style.
func (a *Author) Add(packPath string, in StyleInput) (models.StyleRecord, error) {
	d, err := a.Draft(packPath, in)
	if err != nil {
		return models.StyleRecord{}, err
	}
	if err := d.Save(); err != nil {
		return models.StyleRecord{}, err
	}
	a.log.Info("style added", "id", d.Entry.ID, "path", d.Pack.Path)
	return d.Entry, nil
}

// BulkResult reports what Bulk did.
type BulkResult struct {
	Added   []models.StyleRecord
	Skipped int
	Path    string
}

// Bulk adds every item with a name and category to the pack at packPath and
// writes it once. Other items are skipped.
func (a *Author) Bulk(packPath string, items []StyleInput) (*BulkResult, error) {
	pack, err := a.openPack(packPath)
	if err != nil {
		return nil, err
	}
	reg := a.registry(pack)

	res := &BulkResult{Path: pack.Path}
	for i, in := range items {
		if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Category) == "" {
			res.Skipped++
			continue
		}
		in.Name = strings.TrimSpace(in.Name)
		in.Category = strings.TrimSpace(in.Category)
		if err := a.check(in); err != nil {
			a.log.Warn("skipping bulk item", "index", i, "cause", err.Error())
			res.Skipped++
			continue
		}
		entry := MakeEntry(in, a.idPrefix, reg)
		pack.Styles = append(pack.Styles, entry)
		res.Added = append(res.Added, entry)
	}

	if err := storage.SavePack(pack); err != nil {
		return nil, errors.StorageError("save pack", err)
	}
	a.log.Info("bulk add finished", "added", len(res.Added), "skipped", res.Skipped, "path", pack.Path)
	return res, nil
}

// Categories lists every category in the library or with base fragments,
// in case-folded order, with its style count.
func (a *Author) Categories() []validation.CategoryCount {
	counts := categoryCounts(a.loader.LoadAllSources())

	names := BaseCategories()
	for c := range counts {
		if strings.TrimSpace(c) != "" {
			if _, isBase := categoryBases[c]; !isBase {
				names = append(names, c)
			}
		}
	}
	sortFolded(names)

	out := make([]validation.CategoryCount, 0, len(names))
	for _, c := range names {
		out = append(out, validation.CategoryCount{Category: c, Count: counts[c]})
	}
	return out
}

// Stats returns the total style count and per-category counts, largest first.
func (a *Author) Stats() (int, []validation.CategoryCount) {
	records := a.loader.LoadAllSources()
	counts := categoryCounts(records)

	out := make([]validation.CategoryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, validation.CategoryCount{Category: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return strings.ToLower(out[i].Category) < strings.ToLower(out[j].Category)
	})
	return len(records), out
}

func (a *Author) check(in StyleInput) error {
	result := a.validator.Validate("add_style", map[string]interface{}{
		"name":     in.Name,
		"category": in.Category,
		"id":       in.ID,
		"tags":     in.Tags,
		"flux":     in.Flux,
	})
	if appErr := result.ToAppError(); appErr != nil {
		return appErr
	}
	return nil
}

func (a *Author) openPack(packPath string) (*models.PackFile, error) {
	abs, err := filepath.Abs(packPath)
	if err != nil {
		return nil, errors.InvalidInputError(fmt.Sprintf("invalid pack path: %s", packPath))
	}
	pack, err := storage.LoadOrInitPack(abs)
	if err != nil {
		return nil, errors.StorageError("open pack", err)
	}
	return pack, nil
}

// registry reserves every id and name in the library and in pack, which
// may live outside the pack directory.
func (a *Author) registry(pack *models.PackFile) *Registry {
	reg := NewRegistry()
	for _, rec := range a.loader.LoadAllSources() {
		id, _ := rec.Fields["id"].(string)
		name, _ := rec.Fields["name"].(string)
		reg.Reserve(id, name)
	}
	for _, s := range pack.Styles {
		reg.Reserve(s.ID, s.Name)
	}
	return reg
}

func categoryCounts(records []storage.RawRecord) map[string]int {
	counts := make(map[string]int)
	for _, rec := range records {
		category := models.DefaultCategory
		if c, ok := rec.Fields["category"].(string); ok {
			category = c
		}
		counts[category]++
	}
	return counts
}

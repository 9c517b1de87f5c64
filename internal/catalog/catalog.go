package catalog

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/dpshade/pocket-styler/internal/logger"
	"github.com/dpshade/pocket-styler/internal/models"
	"github.com/dpshade/pocket-styler/internal/storage"
	"github.com/dpshade/pocket-styler/internal/text"
)

// EmptyLabel is the single choice offered when no style could be loaded.
const EmptyLabel = "(no styles found) | (no styles) | __none__"

// Catalog is the addressable view of the style library. It is built once
// and replaced, never modified.
type Catalog struct {
	// Templates are sorted by category and name (case-folded), then id.
	Templates []models.StyleTemplate
	ByID      map[string]models.StyleTemplate
	// Labels parallels Templates, or holds only EmptyLabel.
	Labels []string

	Signature Signature
	Strategy  string
	Skipped   []storage.SkippedSource
}

// Empty reports whether the catalog holds no templates.
func (c *Catalog) Empty() bool {
	return len(c.Templates) == 0
}

// Lookup finds a template by exact id.
func (c *Catalog) Lookup(id string) (models.StyleTemplate, bool) {
	t, ok := c.ByID[id]
	return t, ok
}

// Resolve finds the template a choice label names.
func (c *Catalog) Resolve(label string) (models.StyleTemplate, bool) {
	return ResolveByChoiceLabel(c.Templates, label)
}

// Categories returns each distinct category with its template count.
func (c *Catalog) Categories() map[string]int {
	counts := make(map[string]int)
	for _, t := range c.Templates {
		counts[t.Category]++
	}
	return counts
}

// ResolveByChoiceLabel takes the id after the last separator in label and
// scans templates for it. Malformed labels simply fail to resolve.
func ResolveByChoiceLabel(templates []models.StyleTemplate, label string) (models.StyleTemplate, bool) {
	if label == "" {
		return models.StyleTemplate{}, false
	}
	id := label
	if i := strings.LastIndex(label, models.LabelSeparator); i >= 0 {
		id = label[i+len(models.LabelSeparator):]
	}
	id = strings.TrimSpace(id)

	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return models.StyleTemplate{}, false
}

// Build maps raw records into a catalog. Records without an id or name are
// skipped. A later record with an already seen id replaces the earlier one
// in both the index and the template list, with a warning.
func Build(records []storage.RawRecord, log *logger.Logger) *Catalog {
	if log == nil {
		log = logger.Nop()
	}

	var templates []models.StyleTemplate
	position := make(map[string]int)
	for _, raw := range records {
		tmpl, err := MapRecord(raw)
		if err != nil {
			log.Debug("skipping style record", "path", raw.Source, "cause", err.Error())
			continue
		}
		if i, seen := position[tmpl.ID]; seen {
			log.Warn("duplicate style id; keeping the later record",
				"id", tmpl.ID, "path", tmpl.Source, "previous", templates[i].Source)
			templates[i] = tmpl
			continue
		}
		position[tmpl.ID] = len(templates)
		templates = append(templates, tmpl)
	}

	SortTemplates(templates)

	c := &Catalog{
		Templates: templates,
		ByID:      make(map[string]models.StyleTemplate, len(templates)),
		Labels:    make([]string, 0, len(templates)),
	}
	for _, t := range templates {
		c.ByID[t.ID] = t
		c.Labels = append(c.Labels, t.Label())
	}
	if len(templates) == 0 {
		c.Labels = []string{EmptyLabel}
	}
	return c
}

// SortTemplates orders templates by category and name (case-folded), then id.
func SortTemplates(templates []models.StyleTemplate) {
	sort.SliceStable(templates, func(i, j int) bool {
		a, b := templates[i], templates[j]
		if ca, cb := fold(a.Category), fold(b.Category); ca != cb {
			return ca < cb
		}
		if na, nb := fold(a.Name), fold(b.Name); na != nb {
			return na < nb
		}
		return a.ID < b.ID
	})
}

func fold(s string) string {
	return text.Fold(s)
}

// MapRecord converts one raw record into a template. It fails only when id
// or name is missing; every other malformed field is coerced to empty.
func MapRecord(raw storage.RawRecord) (models.StyleTemplate, error) {
	f := raw.Fields
	id, ok := scalar(f["id"])
	if !ok {
		return models.StyleTemplate{}, fmt.Errorf("record has no id")
	}
	name, ok := scalar(f["name"])
	if !ok {
		return models.StyleTemplate{}, fmt.Errorf("record %q has no name", id)
	}

	category, _ := scalar(f["category"])
	if strings.TrimSpace(category) == "" {
		category = models.DefaultCategory
	}

	def := fragments(f["default"])
	tmpl := models.StyleTemplate{
		ID:       id,
		Name:     name,
		Category: category,
		Prefix:   def.Prefix,
		Suffix:   def.Suffix,
		Tags:     tags(f["tags"]),
		Source:   raw.Source,
	}

	if modelMap, ok := storage.AsMap(f["models"]); ok {
		for _, v := range models.Variants() {
			if !v.IsAlternate() {
				continue
			}
			frag := fragments(modelMap[string(v)])
			if frag == (models.Fragments{}) {
				continue
			}
			if tmpl.Variants == nil {
				tmpl.Variants = make(map[models.Variant]models.Fragments)
			}
			tmpl.Variants[v] = frag
		}
	}
	return tmpl, nil
}

func fragments(v interface{}) models.Fragments {
	m, ok := storage.AsMap(v)
	if !ok {
		return models.Fragments{}
	}
	prefix, _ := scalar(m["prefix"])
	suffix, _ := scalar(m["suffix"])
	return models.Fragments{Prefix: prefix, Suffix: suffix}
}

func tags(v interface{}) []string {
	list, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := scalar(item); ok {
			out = append(out, s)
		}
	}
	return out
}

// scalar stringifies strings, numbers and booleans. Null, objects and lists
// are not scalars.
func scalar(v interface{}) (string, bool) {
	switch s := v.(type) {
	case nil:
		return "", false
	case string:
		return s, true
	case json.Number:
		return s.String(), true
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(s), true
	default:
		return "", false
	}
}

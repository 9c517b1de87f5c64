// Package authoring builds new style records and writes them into packs.
package authoring

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dpshade/pocket-styler/internal/models"
	"github.com/dpshade/pocket-styler/internal/text"
)

// UserCategoryRoot prefixes the category of every wizard-created style.
const UserCategoryRoot = "User"

// DefaultTag is applied to entries created without tags.
const DefaultTag = "user"

// hintLimit caps how many phrases go into the generated variant prose.
const hintLimit = 12

// StyleInput is what an author supplies for one new style.
type StyleInput struct {
	Name     string
	Category string
	// Core phrases go into the prefix after the category base.
	Core []string
	// Details go into the suffix before the category base.
	Details []string
	Tags    []string
	// ID is used verbatim (made unique) when set.
	ID string
	// Flux replaces the generated alternate-variant prose when set.
	Flux string
}

// Registry tracks ids and names already taken in the library.
type Registry struct {
	ids   map[string]struct{}
	names map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ids: make(map[string]struct{}), names: make(map[string]struct{})}
}

// Reserve marks id and name as taken. Empty values are ignored.
func (r *Registry) Reserve(id, name string) {
	if id != "" {
		r.ids[id] = struct{}{}
	}
	if name != "" {
		r.names[name] = struct{}{}
	}
}

// HasID reports whether id is taken.
func (r *Registry) HasID(id string) bool {
	_, ok := r.ids[id]
	return ok
}

// UniqueID returns base, or base_2, base_3... whichever is free first.
func (r *Registry) UniqueID(base string) string {
	if _, taken := r.ids[base]; !taken {
		return base
	}
	for i := 2; ; i++ {
		cand := fmt.Sprintf("%s_%d", base, i)
		if _, taken := r.ids[cand]; !taken {
			return cand
		}
	}
}

// UniqueName returns name, or "name (2)", "name (3)"... whichever is free first.
func (r *Registry) UniqueName(name string) string {
	if _, taken := r.names[name]; !taken {
		return name
	}
	for i := 2; ; i++ {
		cand := fmt.Sprintf("%s (%d)", name, i)
		if _, taken := r.names[cand]; !taken {
			return cand
		}
	}
}

// Slugify lowercases letters and digits and turns every other run of
// characters into a single underscore. An empty result becomes "style".
func Slugify(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteByte('_')
		}
	}
	slug := strings.Trim(b.String(), "_")
	for strings.Contains(slug, "__") {
		slug = strings.ReplaceAll(slug, "__", "_")
	}
	if slug == "" {
		return "style"
	}
	return slug
}

// NormalizeSubcategory keeps letters, digits and spaces, collapsing the
// rest. An empty result becomes "Custom".
func NormalizeSubcategory(value string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, value)
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if cleaned == "" {
		return "Custom"
	}
	return cleaned
}

// UserCategory returns "User/<subcategory>" for a raw subcategory.
func UserCategory(subcategory string) string {
	return UserCategoryRoot + "/" + NormalizeSubcategory(subcategory)
}

// SplitList splits a comma-separated list, trimming and dropping blanks.
func SplitList(value string) []string {
	var out []string
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// MakeEntry builds the record for in, claiming a unique id and name in reg.
func MakeEntry(in StyleInput, idPrefix string, reg *Registry) models.StyleRecord {
	baseID := strings.TrimSpace(in.ID)
	if baseID == "" {
		baseID = idPrefix + "_" + Slugify(in.Name)
	}
	id := reg.UniqueID(baseID)
	name := reg.UniqueName(strings.TrimSpace(in.Name))
	reg.Reserve(id, name)

	basePrefix, baseSuffix := BaseFragments(in.Category)

	var tags []string
	for _, t := range in.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	tags = text.DedupePhrases(tags)
	if len(tags) == 0 {
		tags = []string{DefaultTag}
	}

	flux := strings.TrimSpace(in.Flux)
	if flux == "" {
		flux = FluxSentences(name, in.Core, in.Details)
	} else if !strings.ContainsAny(flux[len(flux)-1:], ".!?") {
		flux += "."
	}

	return models.StyleRecord{
		ID:       id,
		Name:     name,
		Category: in.Category,
		Default: models.Fragments{
			Prefix: text.JoinPhrases(concat(basePrefix, in.Core)),
			Suffix: text.JoinPhrases(concat(in.Details, baseSuffix)),
		},
		Models: map[string]models.Fragments{
			string(models.VariantFlux2Klein): {Prefix: "", Suffix: flux},
		},
		Tags: tags,
	}
}

// FluxSentences generates the prose suffix used by the flux_2_klein variant.
func FluxSentences(name string, core, details []string) string {
	parts := []string{"Style: " + name}
	if hint := text.JoinPhrases(head(core, hintLimit)); hint != "" {
		parts = append(parts, "Core cues: "+hint)
	}
	if hint := text.JoinPhrases(head(details, hintLimit)); hint != "" {
		parts = append(parts, "Details: "+hint)
	}
	parts = append(parts, "Lighting: coherent and intentional", "Mood: consistent with the user prompt")
	return text.JoinSentences(parts)
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func concat(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	return append(append(out, a...), b...)
}

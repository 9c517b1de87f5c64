package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dpshade/pocket-styler/internal/models"
	"github.com/dpshade/pocket-styler/internal/storage"
)

// LibraryIssue is one blocking problem found by ValidateLibrary.
type LibraryIssue struct {
	Index   int    `json:"index"`
	Source  string `json:"source,omitempty"`
	Message string `json:"message"`
}

// LibraryReport is the result of ValidateLibrary.
type LibraryReport struct {
	Styles      int            `json:"styles"`
	UniqueIDs   int            `json:"unique_ids"`
	UniqueNames int            `json:"unique_names"`
	Issues      []LibraryIssue `json:"issues,omitempty"`
}

// OK reports whether the library passed.
func (r *LibraryReport) OK() bool {
	return len(r.Issues) == 0
}

// Summary returns the one-line count summary.
func (r *LibraryReport) Summary() string {
	return fmt.Sprintf("%d styles; %d unique ids; %d unique names", r.Styles, r.UniqueIDs, r.UniqueNames)
}

// ValidateLibrary checks that every record has a non-empty id and name, that
// ids and names are unique, and that default is an object carrying prefix
// and suffix. Sources the loader could not read are issues too.
func ValidateLibrary(report storage.LoadReport) *LibraryReport {
	out := &LibraryReport{Styles: len(report.Records)}

	for _, s := range report.Skipped {
		out.Issues = append(out.Issues, LibraryIssue{Index: -1, Source: s.Path, Message: fmt.Sprintf("unreadable source: %v", s.Cause)})
	}

	ids := make(map[string]struct{})
	names := make(map[string]struct{})
	for i, rec := range report.Records {
		issue := func(format string, args ...interface{}) {
			out.Issues = append(out.Issues, LibraryIssue{Index: i, Source: rec.Source, Message: fmt.Sprintf(format, args...)})
		}

		id := stringify(rec.Fields["id"])
		name := stringify(rec.Fields["name"])
		if id == "" || name == "" {
			issue("styles[%d] missing id or name", i)
			continue
		}
		if _, dup := ids[id]; dup {
			issue("duplicate id: %s", id)
		}
		if _, dup := names[name]; dup {
			issue("duplicate name: %s", name)
		}
		ids[id] = struct{}{}
		names[name] = struct{}{}

		def, ok := storage.AsMap(rec.Fields["default"])
		if !ok {
			issue("styles[%d].default must be an object", i)
			continue
		}
		for _, key := range []string{"prefix", "suffix"} {
			if _, present := def[key]; !present {
				issue("styles[%d].default missing %s", i, key)
			}
		}
	}

	out.UniqueIDs = len(ids)
	out.UniqueNames = len(names)
	return out
}

var commaWithoutSpace = regexp.MustCompile(`,\S`)

// CategoryCount is one row of the audit's category breakdown.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// FieldRef names one fragment of one style.
type FieldRef struct {
	ID    string `json:"id"`
	Field string `json:"field"`
}

// AuditReport collects style-quality findings. None of them block loading.
type AuditReport struct {
	Styles            int             `json:"styles"`
	Packs             int             `json:"packs"`
	Categories        []CategoryCount `json:"categories"`
	BadPacks          []string        `json:"bad_packs,omitempty"`
	BadIDs            []string        `json:"bad_ids,omitempty"`
	MissingDefault    int             `json:"missing_default"`
	EmptyPrefix       int             `json:"empty_prefix"`
	EmptySuffix       int             `json:"empty_suffix"`
	CommaWithoutSpace []FieldRef      `json:"comma_without_space,omitempty"`
	MissingTags       int             `json:"missing_tags"`
	MissingVariant    int             `json:"missing_variant"`
	DuplicateIDs      bool            `json:"duplicate_ids"`
	DuplicateNames    bool            `json:"duplicate_names"`
}

// Audit inspects the loaded records for style-quality problems: ids that
// are not snake_case, blank fragments, commas the composer will not split
// on, missing tags and missing alternate-variant fragments.
func Audit(report storage.LoadReport, packs int) *AuditReport {
	out := &AuditReport{Styles: len(report.Records), Packs: packs}
	for _, s := range report.Skipped {
		out.BadPacks = append(out.BadPacks, s.Path)
	}

	counts := make(map[string]int)
	var order []string
	ids := make(map[string]struct{})
	names := make(map[string]struct{})

	for _, rec := range report.Records {
		f := rec.Fields
		id := stringify(f["id"])
		name := stringify(f["name"])

		category := models.DefaultCategory
		if c, present := f["category"]; present {
			category = stringify(c)
		}
		if _, seen := counts[category]; !seen {
			order = append(order, category)
		}
		counts[category]++

		if id != "" && !StyleIDPattern.MatchString(id) {
			out.BadIDs = append(out.BadIDs, id)
		}
		if _, dup := ids[id]; dup {
			out.DuplicateIDs = true
		}
		if _, dup := names[name]; dup {
			out.DuplicateNames = true
		}
		ids[id] = struct{}{}
		names[name] = struct{}{}

		def, ok := storage.AsMap(f["default"])
		if !ok {
			out.MissingDefault++
			continue
		}

		prefix := stringify(def["prefix"])
		suffix := stringify(def["suffix"])
		if strings.TrimSpace(prefix) == "" {
			out.EmptyPrefix++
		}
		if strings.TrimSpace(suffix) == "" {
			out.EmptySuffix++
		}
		if commaWithoutSpace.MatchString(prefix) || strings.HasSuffix(prefix, ",") {
			out.CommaWithoutSpace = append(out.CommaWithoutSpace, FieldRef{ID: id, Field: "prefix"})
		}
		if commaWithoutSpace.MatchString(suffix) || strings.HasSuffix(suffix, ",") {
			out.CommaWithoutSpace = append(out.CommaWithoutSpace, FieldRef{ID: id, Field: "suffix"})
		}

		if !hasTags(f["tags"]) {
			out.MissingTags++
		}
		if m, ok := storage.AsMap(f["models"]); !ok || m[string(models.VariantFlux2Klein)] == nil {
			out.MissingVariant++
		}
	}

	for _, c := range order {
		out.Categories = append(out.Categories, CategoryCount{Category: c, Count: counts[c]})
	}
	sort.SliceStable(out.Categories, func(i, j int) bool {
		return out.Categories[i].Count > out.Categories[j].Count
	})
	return out
}

// Warnings renders the findings as short lines, empty when there are none.
func (a *AuditReport) Warnings() []string {
	var w []string
	add := func(n int, format string) {
		if n > 0 {
			w = append(w, fmt.Sprintf(format, n))
		}
	}
	add(len(a.BadPacks), "unreadable_packs: %d")
	add(len(a.BadIDs), "bad_ids: %d (expected snake_case [a-z0-9_])")
	add(a.MissingDefault, "missing_or_bad_default: %d")
	add(a.EmptyPrefix, "empty_prefix: %d")
	add(a.EmptySuffix, "empty_suffix: %d")
	add(len(a.CommaWithoutSpace), "comma_without_space: %d (phrases split on \", \")")
	add(a.MissingTags, "missing_tags: %d")
	add(a.MissingVariant, "missing_models."+string(models.VariantFlux2Klein)+": %d")
	if a.DuplicateIDs {
		w = append(w, "duplicate_ids: detected")
	}
	if a.DuplicateNames {
		w = append(w, "duplicate_names: detected")
	}
	return w
}

func hasTags(v interface{}) bool {
	list, ok := v.([]interface{})
	if !ok {
		return false
	}
	for _, t := range list {
		if strings.TrimSpace(stringify(t)) != "" {
			return true
		}
	}
	return false
}

func stringify(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

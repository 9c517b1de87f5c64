package models

import (
	"fmt"
	"strings"
)

// DefaultCategory is used when a style record carries no category.
const DefaultCategory = "Uncategorized"

// LabelSeparator separates the fields of a choice label.
const LabelSeparator = "|"

// StyleTemplate is one named style from the library. Values are never mutated
// after the catalog builds them.
type StyleTemplate struct {
	ID       string
	Name     string
	Category string
	Prefix   string
	Suffix   string
	Variants map[Variant]Fragments
	Tags     []string

	// Source is the file the template was loaded from.
	Source string
}

// Fragments is a prefix/suffix pair of phrase text.
type Fragments struct {
	Prefix string `json:"prefix" yaml:"prefix"`
	Suffix string `json:"suffix" yaml:"suffix"`
}

// IsBlank reports whether both fragments are empty after trimming.
func (f Fragments) IsBlank() bool {
	return strings.TrimSpace(f.Prefix) == "" && strings.TrimSpace(f.Suffix) == ""
}

// VariantFragments returns the fragments for v, or empty fragments when the
// template defines none.
func (s StyleTemplate) VariantFragments(v Variant) Fragments {
	return s.Variants[v]
}

// Label returns the choice label "category | name | id".
func (s StyleTemplate) Label() string {
	return fmt.Sprintf("%s %s %s %s %s", s.Category, LabelSeparator, s.Name, LabelSeparator, s.ID)
}

// HasTag reports whether the template carries tag, ignoring case.
func (s StyleTemplate) HasTag(tag string) bool {
	return containsTag(s.Tags, tag)
}

// FilterValue satisfies the bubbles list.Item interface.
func (s StyleTemplate) FilterValue() string {
	return s.Label()
}

// Title satisfies the bubbles list.DefaultItem interface.
func (s StyleTemplate) Title() string {
	return s.Name
}

// Description satisfies the bubbles list.DefaultItem interface.
func (s StyleTemplate) Description() string {
	desc := s.Category + " • " + s.ID
	if len(s.Tags) > 0 {
		desc += " • " + strings.Join(s.Tags, ", ")
	}
	return desc
}

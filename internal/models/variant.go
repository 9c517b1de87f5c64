package models

import (
	"fmt"
	"strings"
)

// Variant selects which fragment set the composer applies.
type Variant string

const (
	// VariantDefault splices the default prefix/suffix phrases.
	VariantDefault Variant = "default"
	// VariantFlux2Klein targets the FLUX.2 Klein text encoder, which prefers prose.
	VariantFlux2Klein Variant = "flux_2_klein"
)

// Variants lists every known variant in display order.
func Variants() []Variant {
	return []Variant{VariantDefault, VariantFlux2Klein}
}

// VariantNames returns the variant names as strings.
func VariantNames() []string {
	names := make([]string, 0, len(Variants()))
	for _, v := range Variants() {
		names = append(names, string(v))
	}
	return names
}

// ParseVariant maps a name to a Variant. An empty name is the default variant.
func ParseVariant(name string) (Variant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return VariantDefault, nil
	}
	for _, v := range Variants() {
		if string(v) == name {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown template variant %q (expected one of: %s)", name, strings.Join(VariantNames(), ", "))
}

// IsAlternate reports whether v is a named alternate rather than the default.
func (v Variant) IsAlternate() bool {
	return v != "" && v != VariantDefault
}

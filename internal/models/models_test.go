package models

import "testing"

func TestStyleTemplateLabel(t *testing.T) {
	s := StyleTemplate{ID: "cin_film_noir", Name: "Film Noir", Category: "Cinema"}
	if got, want := s.Label(), "Cinema | Film Noir | cin_film_noir"; got != want {
		t.Errorf("Label() = %q, want %q", got, want)
	}
}

func TestStyleRecordLabelDefaultsCategory(t *testing.T) {
	r := StyleRecord{ID: "x", Name: "X"}
	if got, want := r.Label(), "Uncategorized | X | x"; got != want {
		t.Errorf("Label() = %q, want %q", got, want)
	}
}

func TestParseVariant(t *testing.T) {
	tests := []struct {
		in      string
		want    Variant
		wantErr bool
	}{
		{"", VariantDefault, false},
		{"default", VariantDefault, false},
		{" flux_2_klein ", VariantFlux2Klein, false},
		{"sdxl", "", true},
	}

	for _, tt := range tests {
		got, err := ParseVariant(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseVariant(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseVariant(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if VariantDefault.IsAlternate() {
		t.Error("default variant should not be alternate")
	}
	if !VariantFlux2Klein.IsAlternate() {
		t.Error("flux_2_klein should be alternate")
	}
}

func TestFragmentsIsBlank(t *testing.T) {
	if !(Fragments{Prefix: "  ", Suffix: "\t"}).IsBlank() {
		t.Error("whitespace fragments should be blank")
	}
	if (Fragments{Suffix: "Style: noir."}).IsBlank() {
		t.Error("fragments with a suffix should not be blank")
	}
}

func TestParseTagExpression(t *testing.T) {
	tests := []struct {
		query string
		tags  []string
		want  bool
	}{
		{"anime", []string{"Anime", "manga"}, true},
		{"anime AND pixel", []string{"anime"}, false},
		{"anime OR pixel", []string{"pixel"}, true},
		{"NOT pixel", []string{"anime"}, true},
		{"(anime OR manga) AND NOT pixel", []string{"manga"}, true},
		{"(anime OR manga) AND NOT pixel", []string{"manga", "pixel"}, false},
		{"anime XOR manga", []string{"anime", "manga"}, false},
		{"anime xor manga", []string{"manga"}, true},
		{"a OR b AND c", []string{"a"}, true},
		{"a OR b AND c", []string{"b"}, false},
	}

	for _, tt := range tests {
		expr, err := ParseTagExpression(tt.query)
		if err != nil {
			t.Errorf("ParseTagExpression(%q) error: %v", tt.query, err)
			continue
		}
		if got := expr.Evaluate(tt.tags); got != tt.want {
			t.Errorf("%q on %v = %v, want %v (parsed %s)", tt.query, tt.tags, got, tt.want, expr)
		}
	}
}

func TestParseTagExpressionErrors(t *testing.T) {
	for _, query := range []string{"(anime", "anime)", "AND anime", "anime OR", "NOT"} {
		if _, err := ParseTagExpression(query); err == nil {
			t.Errorf("ParseTagExpression(%q) expected error", query)
		}
	}

	expr, err := ParseTagExpression("   ")
	if err != nil || expr != nil {
		t.Errorf("empty query should give nil expression, got %v, %v", expr, err)
	}
	if !expr.Evaluate(nil) {
		t.Error("nil expression should match everything")
	}
}

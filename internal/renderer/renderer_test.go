package renderer

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/dpshade/pocket-styler/internal/composer"
	"github.com/dpshade/pocket-styler/internal/models"
	"github.com/dpshade/pocket-styler/internal/validation"
)

func sampleTemplates() []models.StyleTemplate {
	return []models.StyleTemplate{
		{
			ID: "cin_film_noir", Name: "Film Noir", Category: "Cinema",
			Prefix: "film noir", Suffix: "hard shadows",
			Variants: map[models.Variant]models.Fragments{
				models.VariantFlux2Klein: {Suffix: "Style: film noir."},
			},
			Tags: []string{"cinema", "noir"},
		},
		{ID: "gd_swiss_poster", Name: "Swiss Poster", Category: "Graphic Design", Prefix: "swiss poster"},
	}
}

func TestStyleMarkdown(t *testing.T) {
	md := StyleMarkdown(sampleTemplates()[0])

	for _, want := range []string{"# Film Noir", "`cin_film_noir`", "**Tags:** cinema, noir", "## default", "## flux_2_klein", "Style: film noir."} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected markdown to contain %q, got:\n%s", want, md)
		}
	}

	out, err := RenderStyle(nil, sampleTemplates()[1])
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "**Suffix**") {
		t.Error("Blank suffix should not be rendered")
	}
}

func TestRenderList(t *testing.T) {
	templates := sampleTemplates()

	ids, err := RenderList(templates, FormatIDs)
	if err != nil {
		t.Fatal(err)
	}
	if ids != "cin_film_noir\ngd_swiss_poster" {
		t.Errorf("Unexpected ids output: %q", ids)
	}

	labels, err := RenderList(templates, FormatLabels)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(labels, "Cinema | Film Noir | cin_film_noir") {
		t.Errorf("Unexpected labels output: %q", labels)
	}

	tbl, err := RenderList(templates, FormatTable)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(tbl, "CATEGORY") || !strings.Contains(tbl, "Swiss Poster") {
		t.Errorf("Unexpected table output:\n%s", tbl)
	}

	raw, err := RenderList(templates, FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	var views []StyleView
	if err := json.Unmarshal([]byte(raw), &views); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(views) != 2 || views[0].Models["flux_2_klein"].Suffix != "Style: film noir." {
		t.Errorf("Unexpected JSON views: %+v", views)
	}

	if _, err := RenderList(templates, "xml"); err == nil {
		t.Error("Expected unknown format to fail")
	}
}

func TestNewComposition(t *testing.T) {
	tmpl := sampleTemplates()[0]
	req := composer.Request{Prompt: "a dog", ApplyStyle: true}
	res := &composer.Result{Conditioning: composer.Conditioning{0.5, -0.5}, StyledPrompt: "film noir, a dog"}

	c := NewComposition(req, res.StyledPrompt, &tmpl, res)
	if c.Variant != "default" {
		t.Errorf("Expected default variant, got %q", c.Variant)
	}
	if c.StyleID != "cin_film_noir" || len(c.Conditioning) != 2 {
		t.Errorf("Unexpected composition: %+v", c)
	}
}

func TestAuditText(t *testing.T) {
	clean := AuditText(&validation.AuditReport{Styles: 2, Packs: 1})
	if !strings.Contains(clean, "OK: no audit warnings") {
		t.Errorf("Expected OK line, got:\n%s", clean)
	}

	dirty := AuditText(&validation.AuditReport{Styles: 1, BadIDs: []string{"Bad-ID"}, MissingTags: 1})
	if !strings.Contains(dirty, "WARNINGS:") || !strings.Contains(dirty, "bad id: Bad-ID") {
		t.Errorf("Expected warnings, got:\n%s", dirty)
	}
}

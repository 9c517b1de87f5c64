// Package renderer formats styles, composed prompts and reports for the
// terminal and for scripts.
package renderer

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"

	"github.com/dpshade/pocket-styler/internal/composer"
	"github.com/dpshade/pocket-styler/internal/models"
	"github.com/dpshade/pocket-styler/internal/validation"
)

// List output formats.
const (
	FormatTable  = "table"
	FormatLabels = "labels"
	FormatIDs    = "ids"
	FormatJSON   = "json"
)

// NewMarkdownRenderer creates a glamour renderer that keeps contrast on both
// dark and light terminals. GLAMOUR_STYLE overrides the detection.
func NewMarkdownRenderer(wordWrap int) (*glamour.TermRenderer, error) {
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		return glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wordWrap),
		)
	}

	var styleOption glamour.TermRendererOption
	switch termenv.ColorProfile() {
	case termenv.TrueColor, termenv.ANSI256:
		if lipgloss.HasDarkBackground() {
			styleOption = glamour.WithStandardStyle("dark")
		} else {
			styleOption = glamour.WithStandardStyle("light")
		}
	default:
		styleOption = glamour.WithAutoStyle()
	}

	return glamour.NewTermRenderer(styleOption, glamour.WithWordWrap(wordWrap))
}

// StyleMarkdown describes t as a markdown card.
func StyleMarkdown(t models.StyleTemplate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", t.Name)
	fmt.Fprintf(&b, "**Category:** %s  \n**ID:** `%s`\n", t.Category, t.ID)
	if len(t.Tags) > 0 {
		fmt.Fprintf(&b, "**Tags:** %s\n", strings.Join(t.Tags, ", "))
	}

	writeFragments(&b, string(models.VariantDefault), models.Fragments{Prefix: t.Prefix, Suffix: t.Suffix})

	variants := make([]string, 0, len(t.Variants))
	for v := range t.Variants {
		variants = append(variants, string(v))
	}
	sort.Strings(variants)
	for _, v := range variants {
		writeFragments(&b, v, t.Variants[models.Variant(v)])
	}

	if t.Source != "" {
		fmt.Fprintf(&b, "\n*Source: %s*\n", t.Source)
	}
	return b.String()
}

func writeFragments(b *strings.Builder, title string, f models.Fragments) {
	fmt.Fprintf(b, "\n## %s\n\n", title)
	if strings.TrimSpace(f.Prefix) != "" {
		fmt.Fprintf(b, "**Prefix**\n\n```\n%s\n```\n\n", f.Prefix)
	}
	if strings.TrimSpace(f.Suffix) != "" {
		fmt.Fprintf(b, "**Suffix**\n\n```\n%s\n```\n", f.Suffix)
	}
}

// RenderStyle renders t through glamour. Without a renderer the raw
// markdown is returned.
func RenderStyle(r *glamour.TermRenderer, t models.StyleTemplate) (string, error) {
	md := StyleMarkdown(t)
	if r == nil {
		return md, nil
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render style: %w", err)
	}
	return out, nil
}

// StyleView is the JSON shape of a style template.
type StyleView struct {
	ID       string                      `json:"id"`
	Name     string                      `json:"name"`
	Category string                      `json:"category"`
	Label    string                      `json:"label"`
	Default  models.Fragments            `json:"default"`
	Models   map[string]models.Fragments `json:"models,omitempty"`
	Tags     []string                    `json:"tags,omitempty"`
	Source   string                      `json:"source,omitempty"`
}

// ViewOf converts t to its JSON shape.
func ViewOf(t models.StyleTemplate) StyleView {
	v := StyleView{
		ID:       t.ID,
		Name:     t.Name,
		Category: t.Category,
		Label:    t.Label(),
		Default:  models.Fragments{Prefix: t.Prefix, Suffix: t.Suffix},
		Tags:     t.Tags,
		Source:   t.Source,
	}
	if len(t.Variants) > 0 {
		v.Models = make(map[string]models.Fragments, len(t.Variants))
		for name, f := range t.Variants {
			v.Models[string(name)] = f
		}
	}
	return v
}

// RenderList formats templates in one of the list formats.
func RenderList(templates []models.StyleTemplate, format string) (string, error) {
	switch format {
	case "", FormatTable:
		return renderTable(templates), nil
	case FormatLabels:
		return joinLines(templates, models.StyleTemplate.Label), nil
	case FormatIDs:
		return joinLines(templates, func(t models.StyleTemplate) string { return t.ID }), nil
	case FormatJSON:
		views := make([]StyleView, 0, len(templates))
		for _, t := range templates {
			views = append(views, ViewOf(t))
		}
		return JSON(views)
	default:
		return "", fmt.Errorf("unknown list format %q", format)
	}
}

func joinLines(templates []models.StyleTemplate, field func(models.StyleTemplate) string) string {
	lines := make([]string, 0, len(templates))
	for _, t := range templates {
		lines = append(lines, field(t))
	}
	return strings.Join(lines, "\n")
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func renderTable(templates []models.StyleTemplate) string {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("CATEGORY", "NAME", "ID", "TAGS").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, t := range templates {
		tbl.Row(t.Category, t.Name, t.ID, strings.Join(t.Tags, ", "))
	}
	return tbl.String()
}

// Composition is the JSON shape of a compose result.
type Composition struct {
	Prompt       string    `json:"prompt"`
	StyledPrompt string    `json:"styled_prompt"`
	StyleID      string    `json:"style_id,omitempty"`
	Variant      string    `json:"variant"`
	Conditioning []float32 `json:"conditioning,omitempty"`
}

// NewComposition describes one compose call. res may be nil when nothing
// was encoded.
func NewComposition(req composer.Request, styled string, tmpl *models.StyleTemplate, res *composer.Result) Composition {
	c := Composition{Prompt: req.Prompt, StyledPrompt: styled, Variant: string(req.Variant)}
	if c.Variant == "" {
		c.Variant = string(models.VariantDefault)
	}
	if tmpl != nil {
		c.StyleID = tmpl.ID
	}
	if res != nil {
		c.Conditioning = res.Conditioning
	}
	return c
}

// JSON marshals v with two-space indentation.
func JSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal to JSON: %w", err)
	}
	return string(data), nil
}

// AuditText renders an audit report as plain lines.
func AuditText(a *validation.AuditReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "styles: %d\n", a.Styles)
	fmt.Fprintf(&b, "packs: %d\n", a.Packs)
	if len(a.Categories) > 0 {
		b.WriteString("categories:\n")
		for _, c := range a.Categories {
			fmt.Fprintf(&b, "  %s: %d\n", c.Category, c.Count)
		}
	}
	warnings := a.Warnings()
	if len(warnings) == 0 {
		b.WriteString("OK: no audit warnings\n")
		return b.String()
	}
	b.WriteString("WARNINGS:\n")
	for _, w := range warnings {
		fmt.Fprintf(&b, "  - %s\n", w)
	}
	for _, id := range a.BadIDs {
		fmt.Fprintf(&b, "    bad id: %s\n", id)
	}
	for _, ref := range a.CommaWithoutSpace {
		fmt.Fprintf(&b, "    comma without space: %s.%s\n", ref.ID, ref.Field)
	}
	for _, p := range a.BadPacks {
		fmt.Fprintf(&b, "    unreadable: %s\n", p)
	}
	return b.String()
}

// CategoriesText renders category counts one per line.
func CategoriesText(counts []validation.CategoryCount) string {
	lines := make([]string, 0, len(counts))
	for _, c := range counts {
		lines = append(lines, fmt.Sprintf("%s (%d)", c.Category, c.Count))
	}
	return strings.Join(lines, "\n")
}

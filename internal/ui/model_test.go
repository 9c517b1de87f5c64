package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dpshade/pocket-styler/internal/config"
	"github.com/dpshade/pocket-styler/internal/models"
	"github.com/dpshade/pocket-styler/internal/service"
)

func newTestService(t *testing.T) *service.Service {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.LibraryDir = t.TempDir()
	if err := cfg.Resolve(); err != nil {
		t.Fatal(err)
	}
	svc, err := service.NewService(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.InitLibrary(); err != nil {
		t.Fatal(err)
	}
	return svc
}

func loadedPicker(t *testing.T, opts PickerOptions) Picker {
	t.Helper()
	p := newPicker(newTestService(t), opts)
	msg := p.Init()()
	model, _ := p.Update(msg)
	return model.(Picker)
}

func TestPickerPreviewsHighlightedStyle(t *testing.T) {
	p := loadedPicker(t, PickerOptions{Prompt: "a lighthouse"})

	if p.loading {
		t.Fatal("Expected picker to finish loading")
	}
	first, ok := p.selected()
	if !ok {
		t.Fatal("Expected a highlighted style")
	}
	if !strings.Contains(p.Styled(), "a lighthouse") {
		t.Errorf("Expected styled preview to contain the prompt, got %q", p.Styled())
	}
	if !strings.Contains(p.viewport.View(), first.Name) {
		t.Errorf("Expected preview to show %s", first.Name)
	}
}

func TestPickerEnterChoosesStyle(t *testing.T) {
	p := loadedPicker(t, PickerOptions{Prompt: "a lighthouse"})
	want, _ := p.selected()

	model, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	p = model.(Picker)
	if cmd == nil {
		t.Fatal("Expected enter to quit the picker")
	}
	if p.Chosen() == nil || p.Chosen().ID != want.ID {
		t.Errorf("Expected %s to be chosen, got %v", want.ID, p.Chosen())
	}
}

func TestPickerTogglesVariant(t *testing.T) {
	p := loadedPicker(t, PickerOptions{Prompt: "a lighthouse"})

	model, _ := p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("v")})
	p = model.(Picker)
	if p.Variant() != models.VariantFlux2Klein {
		t.Errorf("Expected flux variant after toggle, got %s", p.Variant())
	}

	model, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("v")})
	p = model.(Picker)
	if p.Variant() != models.VariantDefault {
		t.Errorf("Expected toggle to wrap to default, got %s", p.Variant())
	}
}

func TestPickerQuitWithoutChoice(t *testing.T) {
	p := loadedPicker(t, PickerOptions{})

	model, cmd := p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("Expected q to quit")
	}
	if model.(Picker).Chosen() != nil {
		t.Error("Expected no style to be chosen")
	}
}

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dpshade/pocket-styler/internal/authoring"
	"github.com/dpshade/pocket-styler/internal/errors"
	"github.com/dpshade/pocket-styler/internal/models"
	"github.com/dpshade/pocket-styler/internal/renderer"
	"github.com/dpshade/pocket-styler/internal/service"
)

// Form field indices
const (
	nameField = iota
	categoryField
	coreField
	detailsField
	tagsField
	fluxField
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Name",
	"Subcategory (saved under User/)",
	"Core phrases (comma separated, go in the prefix)",
	"Details (comma separated, go in the suffix)",
	"Tags (comma separated)",
	"FLUX prose (optional, generated when blank)",
}

type wizardStage int

const (
	stageEdit wizardStage = iota
	stageReview
	stageDone
)

var (
	nextKey   = key.NewBinding(key.WithKeys("tab", "down"))
	prevKey   = key.NewBinding(key.WithKeys("shift+tab", "up"))
	submitKey = key.NewBinding(key.WithKeys("ctrl+s"))
	cancelKey = key.NewBinding(key.WithKeys("esc", "ctrl+c"))
)

// Wizard collects one new style, previews its entry and writes it to a pack
type Wizard struct {
	service  *service.Service
	packPath string

	inputs  []textinput.Model
	focused int
	stage   wizardStage

	draft   *authoring.Draft
	saved   *models.StyleRecord
	err     error
	width   int
	aborted bool
}

// NewWizard creates the wizard. An empty packPath writes to the user pack.
func NewWizard(svc *service.Service, packPath string) *Wizard {
	initializeColors()
	return newWizard(svc, packPath)
}

func newWizard(svc *service.Service, packPath string) *Wizard {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].CharLimit = 500
		inputs[i].Width = 60
	}
	inputs[nameField].CharLimit = 200
	inputs[nameField].Placeholder = "Moody Forest"
	inputs[categoryField].Placeholder = "Forest"
	inputs[coreField].Placeholder = "foggy pines, muted greens"
	inputs[detailsField].Placeholder = "soft diffused light"
	inputs[tagsField].Placeholder = "forest, moody"

	var suggestions []string
	for _, c := range svc.Categories() {
		if sub, ok := strings.CutPrefix(c.Category, authoring.UserCategoryRoot+"/"); ok {
			suggestions = append(suggestions, sub)
		}
	}
	inputs[categoryField].ShowSuggestions = true
	inputs[categoryField].SetSuggestions(suggestions)

	inputs[nameField].Focus()

	return &Wizard{service: svc, packPath: packPath, inputs: inputs}
}

// Init starts the cursor blinking
func (w Wizard) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the wizard
func (w Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		return w, nil
	case tea.KeyMsg:
		switch w.stage {
		case stageReview:
			return w.updateReview(msg)
		case stageDone:
			return w, tea.Quit
		}

		switch {
		case key.Matches(msg, cancelKey):
			w.aborted = true
			return w, tea.Quit
		case key.Matches(msg, submitKey):
			w.submit()
			return w, nil
		case msg.String() == "enter":
			if w.focused == fieldCount-1 {
				w.submit()
				return w, nil
			}
			w.focus(w.focused + 1)
			return w, nil
		case key.Matches(msg, nextKey):
			w.focus((w.focused + 1) % fieldCount)
			return w, nil
		case key.Matches(msg, prevKey):
			w.focus((w.focused + fieldCount - 1) % fieldCount)
			return w, nil
		}
	}

	var cmd tea.Cmd
	w.inputs[w.focused], cmd = w.inputs[w.focused].Update(msg)
	return w, cmd
}

func (w Wizard) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		if err := w.service.SaveDraft(w.draft); err != nil {
			w.err = err
			w.stage = stageEdit
			return w, nil
		}
		entry := w.draft.Entry
		w.saved = &entry
		w.stage = stageDone
		return w, tea.Quit
	case "n", "esc":
		w.stage = stageEdit
		w.draft = nil
	case "ctrl+c":
		w.aborted = true
		return w, tea.Quit
	}
	return w, nil
}

func (w *Wizard) focus(i int) {
	w.inputs[w.focused].Blur()
	w.focused = i
	w.inputs[w.focused].Focus()
}

// Input returns the form contents as authoring input. Wizard styles live
// under User/<subcategory> and are tagged with user and the subcategory.
func (w *Wizard) Input() authoring.StyleInput {
	sub := authoring.NormalizeSubcategory(w.inputs[categoryField].Value())
	tags := append([]string{authoring.DefaultTag, authoring.Slugify(sub)}, authoring.SplitList(w.inputs[tagsField].Value())...)
	return authoring.StyleInput{
		Name:     strings.TrimSpace(w.inputs[nameField].Value()),
		Category: authoring.UserCategory(sub),
		Core:     authoring.SplitList(w.inputs[coreField].Value()),
		Details:  authoring.SplitList(w.inputs[detailsField].Value()),
		Tags:     tags,
		Flux:     strings.TrimSpace(w.inputs[fluxField].Value()),
	}
}

// submit drafts the entry and moves to review, or records the error
func (w *Wizard) submit() {
	draft, err := w.service.DraftStyle(w.packPath, w.Input())
	if err != nil {
		w.err = err
		return
	}
	w.err = nil
	w.draft = draft
	w.stage = stageReview
}

// View renders the wizard
func (w Wizard) View() string {
	title := CreateMainHeader("New Style")

	switch w.stage {
	case stageReview:
		entry, err := renderer.JSON(w.draft.Entry)
		if err != nil {
			entry = err.Error()
		}
		return AddMainPadding(lipgloss.JoinVertical(lipgloss.Left,
			title,
			CreateMetadata("Pack: "+w.draft.Pack.Path),
			StyleContentContainer.Render(entry),
			CreateHelp(w.width, "y save", "n edit", "ctrl+c quit"),
		))
	case stageDone:
		return AddMainPadding(CreateStatus(fmt.Sprintf("Saved %s", w.saved.Label()), "success"))
	}

	var rows []string
	rows = append(rows, title)
	for i, in := range w.inputs {
		label := StyleFormLabel.Render(fieldLabels[i])
		if i == w.focused {
			label = StyleFocused.Render(fieldLabels[i])
		}
		rows = append(rows, label, in.View(), "")
	}
	if w.err != nil {
		h := errors.NewTUIErrorHandler(true)
		icon, color := h.GetErrorStyle(w.err)
		rows = append(rows, lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true).Render(icon+" "+h.FormatError(w.err)))
	}
	rows = append(rows, CreateHelp(w.width, "tab next", "shift+tab prev", "ctrl+s preview", "esc cancel"))
	return AddMainPadding(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// Saved returns the written entry, or nil if nothing was saved
func (w Wizard) Saved() *models.StyleRecord {
	return w.saved
}

// Aborted reports whether the user cancelled
func (w Wizard) Aborted() bool {
	return w.aborted
}

// RunWizard runs the wizard and returns the saved entry, nil when cancelled
func RunWizard(svc *service.Service, packPath string) (*models.StyleRecord, error) {
	final, err := tea.NewProgram(*NewWizard(svc, packPath)).Run()
	if err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}
	return final.(Wizard).Saved(), nil
}

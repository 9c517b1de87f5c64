// Package ui holds the terminal style picker and the style authoring wizard.
package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/dpshade/pocket-styler/internal/clipboard"
	"github.com/dpshade/pocket-styler/internal/composer"
	"github.com/dpshade/pocket-styler/internal/models"
	"github.com/dpshade/pocket-styler/internal/renderer"
	"github.com/dpshade/pocket-styler/internal/service"
)

type loadCompleteMsg struct {
	templates []models.StyleTemplate
	empty     bool
}

// loadStylesCmd reads the catalog; the cache makes repeat loads cheap
func loadStylesCmd(svc *service.Service) tea.Cmd {
	return func() tea.Msg {
		cat := svc.Catalog()
		return loadCompleteMsg{templates: cat.Templates, empty: cat.Empty()}
	}
}

// tickMsg is sent to clear the status message
type tickMsg time.Time

func clearStatusCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// KeyMap defines the picker key bindings
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Enter   key.Binding
	Variant key.Binding
	Copy    key.Binding
	Quit    key.Binding
	Search  key.Binding
}

// ShortHelp returns keybindings to show in the mini help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Search, k.Variant, k.Copy, k.Quit}
}

// FullHelp returns keybindings to show in the full help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Search, k.Variant, k.Copy, k.Quit},
	}
}

var keys = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "move down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Variant: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "variant"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
}

// PickerOptions seeds the picker.
type PickerOptions struct {
	// Prompt is previewed through the highlighted style.
	Prompt  string
	Variant models.Variant
}

// Picker browses the catalog and previews a prompt in the highlighted style
type Picker struct {
	service *service.Service
	opts    PickerOptions

	list     list.Model
	viewport viewport.Model
	help     help.Model
	keys     KeyMap

	glamourRenderer *glamour.TermRenderer
	copier          *clipboard.Copier

	loading bool
	empty   bool
	width   int
	height  int

	styled string
	chosen *models.StyleTemplate

	statusMsg     string
	statusTimeout int
}

// NewPicker creates the picker model
func NewPicker(svc *service.Service, opts PickerOptions) (*Picker, error) {
	initializeColors()

	r, err := renderer.NewMarkdownRenderer(60)
	if err != nil {
		return nil, fmt.Errorf("failed to create glamour renderer: %w", err)
	}
	p := newPicker(svc, opts)
	p.glamourRenderer = r
	p.copier = clipboard.Default()
	return p, nil
}

func newPicker(svc *service.Service, opts PickerOptions) *Picker {
	if opts.Variant == "" {
		opts.Variant = models.VariantDefault
	}

	l := list.New(nil, list.NewDefaultDelegate(), 40, 20)
	l.Title = ""
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(40, 20)
	vp.Style = lipgloss.NewStyle()

	return &Picker{
		service:  svc,
		opts:     opts,
		list:     l,
		viewport: vp,
		help:     help.New(),
		keys:     keys,
		loading:  true,
	}
}

// Init loads the catalog
func (m Picker) Init() tea.Cmd {
	return loadStylesCmd(m.service)
}

// Update handles messages and updates the model
func (m Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tickMsg:
		if m.statusTimeout > 0 {
			m.statusTimeout--
			if m.statusTimeout == 0 {
				m.statusMsg = ""
			} else {
				return m, clearStatusCmd()
			}
		}
		return m, nil

	case loadCompleteMsg:
		m.loading = false
		m.empty = msg.empty
		items := make([]list.Item, len(msg.templates))
		for i, t := range msg.templates {
			items[i] = t
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.refreshPreview()
		return m, tea.Batch(cmds...)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refreshPreview()
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		if msg.String() == "esc" && m.list.FilterState() == list.FilterApplied {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Enter):
			if t, ok := m.selected(); ok {
				m.chosen = &t
				return m, tea.Quit
			}
			return m, nil
		case key.Matches(msg, m.keys.Variant):
			m.opts.Variant = nextVariant(m.opts.Variant)
			m.refreshPreview()
			return m.withStatus("Variant: "+string(m.opts.Variant), "info")
		case key.Matches(msg, m.keys.Copy):
			if m.styled == "" || m.copier == nil {
				return m, nil
			}
			route, err := m.copier.Copy(m.styled)
			if err != nil {
				return m.withStatus(fmt.Sprintf("Copy failed: %v", err), "error")
			}
			return m.withStatus("Copied styled prompt ("+route+")", "success")
		}
	}

	before := m.list.Index()
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)
	if m.list.Index() != before || m.list.FilterState() != list.Unfiltered {
		m.refreshPreview()
	}

	return m, tea.Batch(cmds...)
}

func (m Picker) withStatus(text, kind string) (tea.Model, tea.Cmd) {
	m.statusMsg = CreateStatus(text, kind)
	m.statusTimeout = 3
	return m, clearStatusCmd()
}

func (m *Picker) resize(width, height int) {
	m.width = width
	m.height = height

	// title, help and status lines
	const reserved = 5
	avail := height - reserved
	if avail < 5 {
		avail = 5
	}
	listWidth := width * 2 / 5
	if listWidth < 30 {
		listWidth = 30
	}
	m.list.SetSize(listWidth, avail)

	vpWidth := width - listWidth - 8
	if vpWidth < 30 {
		vpWidth = 30
	}
	m.viewport.Width = vpWidth
	m.viewport.Height = avail - 2
	if m.glamourRenderer != nil {
		if r, err := renderer.NewMarkdownRenderer(vpWidth - 2); err == nil {
			m.glamourRenderer = r
		}
	}
}

func (m Picker) selected() (models.StyleTemplate, bool) {
	item, ok := m.list.SelectedItem().(models.StyleTemplate)
	return item, ok
}

// refreshPreview renders the highlighted style and the prompt styled by it
func (m *Picker) refreshPreview() {
	t, ok := m.selected()
	if !ok {
		m.styled = ""
		m.viewport.SetContent(StyleTextDim.Render("No style selected."))
		return
	}

	m.styled = composer.StylePrompt(t, m.opts.Prompt, m.opts.Variant)
	card, err := renderer.RenderStyle(m.glamourRenderer, t)
	if err != nil {
		card = renderer.StyleMarkdown(t)
	}
	preview := lipgloss.JoinVertical(lipgloss.Left,
		card,
		StyleFormLabel.Render("Styled prompt ("+string(m.opts.Variant)+")"),
		StyleCode.Render(m.styled),
	)
	m.viewport.SetContent(preview)
	m.viewport.GotoTop()
}

// View renders the picker
func (m Picker) View() string {
	title := CreateMainHeader("Pocket Styler")

	var body string
	switch {
	case m.loading:
		body = StyleInfo.Render("Loading styles...")
	case m.empty:
		body = StyleWarning.Render("No styles found. Run `pocket-styler init` to create a starter library.")
	default:
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			m.list.View(),
			StyleContentContainer.Render(m.viewport.View()),
		)
	}

	elements := []string{title, body, m.help.View(m.keys)}
	if m.statusMsg != "" {
		elements = append(elements, m.statusMsg)
	}
	return AddMainPadding(lipgloss.JoinVertical(lipgloss.Left, elements...))
}

// Chosen returns the style picked with enter, or nil if the picker was quit.
func (m Picker) Chosen() *models.StyleTemplate {
	return m.chosen
}

// Styled returns the prompt styled by the last highlighted style.
func (m Picker) Styled() string {
	return m.styled
}

// Variant returns the variant the picker ended on.
func (m Picker) Variant() models.Variant {
	return m.opts.Variant
}

func nextVariant(v models.Variant) models.Variant {
	all := models.Variants()
	for i, candidate := range all {
		if candidate == v {
			return all[(i+1)%len(all)]
		}
	}
	return models.VariantDefault
}

// RunPicker runs the picker full-screen and returns its final state
func RunPicker(svc *service.Service, opts PickerOptions) (Picker, error) {
	m, err := NewPicker(svc, opts)
	if err != nil {
		return Picker{}, err
	}
	final, err := tea.NewProgram(*m, tea.WithAltScreen()).Run()
	if err != nil {
		return Picker{}, fmt.Errorf("picker failed: %w", err)
	}
	return final.(Picker), nil
}

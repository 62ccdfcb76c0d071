package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/skilldock/skilldock/internal/core"
	"github.com/skilldock/skilldock/internal/core/manifest"
)

// appView represents the active screen.
type appView int

const (
	viewList    appView = iota // Skill table (default)
	viewPreview                // SKILL.md preview overlay
	viewInstall                // Install overlay
)

// App is the root Bubbletea model.
type App struct {
	// Core dependencies.
	registry  *core.Registry
	installer *core.Installer

	// View state.
	activeView appView
	width      int
	height     int
	ready      bool

	// Skill table.
	records []core.SkillRecord
	cursor  int

	// SKILL.md preview.
	previewViewport viewport.Model
	previewTitle    string
	previewLoading  bool
	previewSpinner  spinner.Model

	// Cached glamour renderer (lazy-initialized on first preview).
	glamourRenderer *glamour.TermRenderer

	// Install overlay.
	install installModel

	// Help bar.
	help help.Model

	// Last error shown under the table.
	errText string
}

// NewApp creates the root model.
func NewApp(registry *core.Registry, installer *core.Installer) App {
	h := help.New()
	h.ShortSeparator = "  |  "

	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(spinnerStyle),
	)

	return App{
		registry:       registry,
		installer:      installer,
		install:        newInstallModel(),
		help:           h,
		previewSpinner: s,
	}
}

// --- Messages ---

type loadedDataMsg struct {
	records []core.SkillRecord
}

type errMsg struct {
	err error
}

type toggledMsg struct {
	err error
}

type previewRenderedMsg struct {
	title   string
	content string
}

// --- Init / Update / View ---

func (a App) Init() tea.Cmd {
	return a.loadDataCmd
}

// loadDataCmd re-reads the registry.
func (a App) loadDataCmd() tea.Msg {
	records, err := a.registry.List()
	if err != nil {
		return errMsg{err: err}
	}
	return loadedDataMsg{records: records}
}

// toggleCmd flips one skill/target pair, then triggers a reload.
func (a App) toggleCmd(skillID, targetID string) tea.Cmd {
	return func() tea.Msg {
		return toggledMsg{err: a.registry.Toggle(skillID, targetID)}
	}
}

// previewCmd reads and renders the selected skill's SKILL.md.
func (a *App) previewCmd(rec core.SkillRecord) tea.Cmd {
	width := a.width - 4
	renderer := a.glamourRenderer
	return func() tea.Msg {
		m, err := manifest.Parse(filepath.Join(rec.Path, manifest.FileName))
		if err != nil {
			return errMsg{err: err}
		}
		content := m.Body
		if content == "" {
			content = mutedStyle.Render("(no body)")
			return previewRenderedMsg{title: rec.Name, content: content}
		}

		r := renderer
		if r == nil {
			r, err = glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(width),
			)
			if err != nil {
				return previewRenderedMsg{title: rec.Name, content: content}
			}
		}
		rendered, err := r.Render(content)
		if err != nil {
			return previewRenderedMsg{title: rec.Name, content: content}
		}
		return previewRenderedMsg{title: rec.Name, content: rendered}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.previewViewport = viewport.New(msg.Width-4, msg.Height-6)
		a.install = a.install.setSize(msg.Width, msg.Height)
		a.glamourRenderer = nil // re-created at the new width
		return a, nil

	case loadedDataMsg:
		a.records = msg.records
		if a.cursor >= len(a.records) {
			a.cursor = max(0, len(a.records)-1)
		}
		a.errText = ""
		return a, nil

	case errMsg:
		a.errText = msg.err.Error()
		return a, nil

	case toggledMsg:
		if msg.err != nil {
			a.errText = msg.err.Error()
			return a, nil
		}
		return a, a.loadDataCmd

	case previewRenderedMsg:
		a.previewLoading = false
		a.previewTitle = msg.title
		a.previewViewport.SetContent(msg.content)
		a.previewViewport.GotoTop()
		return a, nil

	case spinner.TickMsg:
		if a.activeView == viewInstall {
			var cmd tea.Cmd
			a.install, cmd = a.install.update(msg, &a)
			return a, cmd
		}
		if a.previewLoading {
			var cmd tea.Cmd
			a.previewSpinner, cmd = a.previewSpinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case installEventMsg, installDoneMsg:
		var cmd tea.Cmd
		a.install, cmd = a.install.update(msg, &a)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	if a.activeView == viewInstall {
		var cmd tea.Cmd
		a.install, cmd = a.install.update(msg, &a)
		return a, cmd
	}
	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global quit, except while typing in the install input.
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.activeView {
	case viewInstall:
		var cmd tea.Cmd
		a.install, cmd = a.install.update(msg, &a)
		return a, cmd

	case viewPreview:
		switch msg.String() {
		case "esc", "q":
			a.activeView = viewList
			return a, nil
		}
		var cmd tea.Cmd
		a.previewViewport, cmd = a.previewViewport.Update(msg)
		return a, cmd
	}

	// Skill list view.
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.records)-1 {
			a.cursor++
		}
	case "r":
		return a, a.loadDataCmd
	case "i":
		a.activeView = viewInstall
		var cmd tea.Cmd
		a.install, cmd = a.install.activate()
		return a, cmd
	case "enter":
		if len(a.records) == 0 {
			return a, nil
		}
		rec := a.records[a.cursor]
		a.activeView = viewPreview
		a.previewLoading = true
		a.previewTitle = rec.Name
		return a, tea.Batch(a.previewSpinner.Tick, a.previewCmd(rec))
	case "1", "2", "3", "4":
		if len(a.records) == 0 {
			return a, nil
		}
		rec := a.records[a.cursor]
		idx := int(msg.String()[0] - '1')
		if idx >= len(rec.Targets) {
			return a, nil
		}
		return a, a.toggleCmd(rec.ID, rec.Targets[idx].Target)
	}
	return a, nil
}

func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	switch a.activeView {
	case viewInstall:
		return a.chrome(a.install.view(), installHelpKeyMap{running: a.install.running})
	case viewPreview:
		return a.chrome(a.previewView(), previewHelpKeyMap{})
	default:
		return a.chrome(a.listView(), listHelpKeyMap{})
	}
}

// chrome wraps a view body with the header and help bar.
func (a App) chrome(body string, km help.KeyMap) string {
	header := logoStyle.Render("Skilldock") +
		headerInfoStyle.Render(fmt.Sprintf("%d skills", len(a.records)))

	footer := helpStyle.Render(a.help.View(km))
	if a.errText != "" {
		footer = errorStyle.Render(a.errText) + "\n" + footer
	}
	return header + "\n\n" + body + "\n\n" + footer
}

func (a App) listView() string {
	if len(a.records) == 0 {
		return mutedStyle.Render("No skills found. Press i to install one.")
	}
	var b strings.Builder
	for i, rec := range a.records {
		b.WriteString(renderSkillRow(rec, i == a.cursor, a.width))
		b.WriteString("\n")
	}
	return b.String()
}

func (a App) previewView() string {
	title := viewportTitleStyle.Render(" " + a.previewTitle + " ")
	if a.previewLoading {
		return title + "\n\n" + a.previewSpinner.View() + " Rendering..."
	}
	return title + "\n" + a.previewViewport.View()
}

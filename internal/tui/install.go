package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/skilldock/skilldock/internal/core"
)

// maxInstallLines bounds how much subprocess output stays on screen.
const maxInstallLines = 8

// installEventMsg carries one installer progress event.
type installEventMsg core.ProgressEvent

// installDoneMsg carries the final install result.
type installDoneMsg struct {
	result *core.InstallResult
}

// installModel is the install overlay: a repo input, then live
// progress while the installer runs.
type installModel struct {
	width  int
	height int

	input   textinput.Model
	spinner spinner.Model

	running bool
	stage   core.Stage
	lines   []string
	msgs    chan tea.Msg

	// Result of the last finished install, shown until dismissed.
	result *core.InstallResult
}

func newInstallModel() installModel {
	ti := textinput.New()
	ti.Placeholder = "owner/repo or git URL"
	ti.CharLimit = 200
	ti.Width = 48

	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(spinnerStyle),
	)

	return installModel{
		input:   ti,
		spinner: s,
	}
}

func (m installModel) setSize(width, height int) installModel {
	m.width = width
	m.height = height
	return m
}

// activate resets the overlay for a fresh install.
func (m installModel) activate() (installModel, tea.Cmd) {
	m.running = false
	m.result = nil
	m.lines = nil
	m.input.SetValue("")
	return m, m.input.Focus()
}

// start launches the install in the background and begins draining its
// event stream.
func (m installModel) start(installer *core.Installer, repo string) (installModel, tea.Cmd) {
	msgs := make(chan tea.Msg, 64)
	go func() {
		res := installer.Install(core.InstallRequest{
			Source: "tui",
			Repo:   repo,
		}, func(ev core.ProgressEvent) {
			msgs <- installEventMsg(ev)
		})
		msgs <- installDoneMsg{result: res}
		close(msgs)
	}()

	m.running = true
	m.result = nil
	m.lines = nil
	m.msgs = msgs
	m.input.Blur()
	return m, tea.Batch(m.spinner.Tick, m.waitForMsg())
}

// waitForMsg receives the next message from the running install.
func (m installModel) waitForMsg() tea.Cmd {
	msgs := m.msgs
	return func() tea.Msg {
		return <-msgs
	}
}

func (m installModel) update(msg tea.Msg, app *App) (installModel, tea.Cmd) {
	switch msg := msg.(type) {
	case installEventMsg:
		m.stage = msg.Stage
		if msg.Line != "" {
			m.lines = append(m.lines, msg.Line)
			if len(m.lines) > maxInstallLines {
				m.lines = m.lines[len(m.lines)-maxInstallLines:]
			}
		}
		return m, m.waitForMsg()

	case installDoneMsg:
		m.running = false
		m.result = msg.result
		return m, nil

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.running {
			return m, nil // no input while the install runs
		}
		switch msg.String() {
		case "enter":
			if m.result != nil {
				// Dismiss the result view.
				app.activeView = viewList
				return m, app.loadDataCmd
			}
			repo := strings.TrimSpace(m.input.Value())
			if repo == "" {
				return m, nil
			}
			return m.start(app.installer, repo)
		case "esc":
			app.activeView = viewList
			return m, app.loadDataCmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m installModel) view() string {
	var b strings.Builder

	switch {
	case m.running:
		b.WriteString(m.spinner.View() + " Installing (" + string(m.stage) + ")\n\n")
		for _, line := range m.lines {
			b.WriteString(mutedStyle.Render(ansi.Truncate(line, max(10, m.width-12), "…")) + "\n")
		}
	case m.result != nil:
		if m.result.Status == core.InstallStatusDone {
			b.WriteString(enabledBadgeStyle.Render("Done") + "\n\n")
			for _, name := range m.result.Installed {
				b.WriteString("  " + name + "\n")
			}
			b.WriteString("\n" + mutedStyle.Render(m.result.Message) + "\n")
		} else {
			b.WriteString(errorStyle.Render("Install failed") + "\n\n")
			b.WriteString(m.result.Message + "\n")
		}
		b.WriteString("\n" + helpStyle.Render("enter to continue"))
	default:
		b.WriteString("Install from repository\n\n")
		b.WriteString(m.input.View() + "\n")
	}

	return dialogBoxStyle.Render(b.String())
}

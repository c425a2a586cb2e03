// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screen

import (
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/tgl/internal/terminal"
	"github.com/jeranaias/tgl/internal/ui/styles"
)

// tabWidth is how many spaces a tab expands to in the viewport.
const tabWidth = 4

// =============================================================================
// MESSAGES
// =============================================================================

// writeMsg appends text. done, if set, runs after the text is applied.
type writeMsg struct {
	text string
	done func()
}

// clearMsg empties the page.
type clearMsg struct{}

// copyMsg asks the hosting terminal to put text on its clipboard.
type copyMsg struct {
	text string
}

// finishedMsg reports that the engine has returned.
type finishedMsg struct {
	err error
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model behind Screen.
type Model struct {
	theme    *styles.Theme
	viewport viewport.Model
	page     *strings.Builder
	slot     *terminal.KeySlot
	title    string

	interrupt func()
	finished  bool
	failed    bool
}

func newModel(theme *styles.Theme, slot *terminal.KeySlot, title string, interrupt func()) Model {
	if theme == nil {
		theme = styles.NewTheme()
	}
	if interrupt == nil {
		interrupt = func() {}
	}
	m := Model{
		theme:     theme,
		page:      &strings.Builder{},
		slot:      slot,
		title:     title,
		interrupt: interrupt,
	}
	w, h := m.viewportSize()
	m.viewport = viewport.New(w, h)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.theme.SetSize(msg.Width, msg.Height)
		m.viewport.Width, m.viewport.Height = m.viewportSize()
		m.refresh()
		return m, nil

	case writeMsg:
		m.page.WriteString(normalize(msg.text))
		m.refresh()
		if msg.done != nil {
			msg.done()
		}
		return m, nil

	case clearMsg:
		m.page.Reset()
		m.refresh()
		return m, nil

	case copyMsg:
		return m, tea.Exec(&osc52Command{text: msg.text}, nil)

	case finishedMsg:
		m.finished = true
		m.failed = msg.err != nil
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.interrupt()
		return m, tea.Quit
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.finished {
		return m, tea.Quit
	}
	m.slot.Offer(terminal.KeyEvent{Key: msg.String()})
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	status := "pgup/pgdn scroll • ctrl+c quit"
	if m.finished {
		status = "press any key to close"
		if m.failed {
			status = m.theme.Alert.Render("stopped") + "  " + status
		}
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render(m.title),
		m.viewport.View(),
		m.theme.StatusBar.Render(status),
	)
	frame := m.theme.Frame
	if m.theme.Width > 2 {
		frame = frame.Width(m.theme.Width - frame.GetHorizontalBorderSize())
	}
	return frame.Render(body)
}

// viewportSize is the frame content area minus the title row.
func (m Model) viewportSize() (int, int) {
	w, h := m.theme.ContentSize()
	if h > 1 {
		h--
	}
	return w, h
}

// refresh re-wraps the page into the viewport and follows the cursor.
func (m *Model) refresh() {
	wrapped := lipgloss.NewStyle().Width(m.viewport.Width).Render(m.page.String())
	m.viewport.SetContent(wrapped)
	m.viewport.GotoBottom()
}

// normalize adapts raw terminal text to the viewport: carriage returns are
// dropped and tabs expanded.
func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r", "")
	return strings.ReplaceAll(text, "\t", strings.Repeat(" ", tabWidth))
}

// =============================================================================
// OSC 52
// =============================================================================

// osc52Command writes a clipboard escape sequence to the program output.
// It runs through tea.Exec, which holds the renderer off while it writes.
type osc52Command struct {
	text string
	out  io.Writer
}

func (c *osc52Command) SetStdin(io.Reader) {}
func (c *osc52Command) SetStdout(out io.Writer) { c.out = out }
func (c *osc52Command) SetStderr(io.Writer) {}

// Run implements tea.ExecCommand.
func (c *osc52Command) Run() error {
	if c.out == nil {
		return nil
	}
	termenv.NewOutput(c.out).Copy(c.text)
	return nil
}

// Package tui is the terminal version of the lookup UI: a tag input with
// per-character results above a table of every known character.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/guildtag/internal/core"
)

/* ----------------------------------------
	MESSAGES
---------------------------------------- */

// loadedMsg reports the outcome of the startup load.
type loadedMsg struct {
	table *core.Table
	err   error
}

func waitForLoad(ctx context.Context, catalog *core.Catalog) tea.Cmd {
	return func() tea.Msg {
		err := catalog.Load(ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		t, err := catalog.Table()
		return loadedMsg{table: t, err: err}
	}
}

/* ----------------------------------------
	MODEL
---------------------------------------- */

type state int

const (
	stateLoading state = iota
	stateReady
	stateFailed
)

type focus int

const (
	focusInput focus = iota
	focusTable
)

// defaultTableHeight is used until the first window size message.
const defaultTableHeight = 12

// Model is the bubbletea model for the lookup screen.
type Model struct {
	ctx     context.Context
	catalog *core.Catalog

	state state
	err   error
	table *core.Table

	input textinput.Model
	chars table.Model
	focus focus
	view  core.TagView

	width int
}

// New creates a model that loads catalog when the program starts.
func New(ctx context.Context, catalog *core.Catalog) Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "tag"
	ti.CharLimit = core.MaxTagLength
	ti.Width = core.MaxTagLength + 1
	ti.Focus()

	chars := table.New(
		table.WithColumns([]table.Column{
			{Title: "Char", Width: 6},
			{Title: "Maps", Width: 60},
		}),
		table.WithHeight(defaultTableHeight),
	)
	chars.SetStyles(tableStyles())

	return Model{
		ctx:     ctx,
		catalog: catalog,
		input:   ti,
		chars:   chars,
		view:    core.Build(nil).Lookup(""),
	}
}

// Init starts the cursor blink and the data load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForLoad(m.ctx, m.catalog))
}

// Tag returns the tag currently entered.
func (m Model) Tag() string {
	return m.input.Value()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		return m.loaded(msg), nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		}
		if m.state != stateReady {
			return m, nil
		}
		return m.handleKey(msg)
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) loaded(msg loadedMsg) Model {
	if msg.err != nil {
		m.state = stateFailed
		m.err = msg.err
		m.input.Blur()
		return m
	}

	m.state = stateReady
	m.table = msg.table

	entries := msg.table.Entries()
	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		rows[i] = table.Row{e.Char, strings.Join(e.Maps, ", ")}
	}
	m.chars.SetRows(rows)
	m.refresh()
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab":
		return m.toggleFocus(), nil

	case "enter":
		if m.focus == focusTable {
			if row := m.chars.SelectedRow(); len(row) > 0 {
				m.setTag(core.AppendToTag(m.input.Value(), row[0]))
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.focus == focusInput {
		m.input, cmd = m.input.Update(msg)
		if tag := core.NormalizeTag(m.input.Value()); tag != m.input.Value() {
			m.input.SetValue(tag)
		}
		m.refresh()
		return m, cmd
	}

	m.chars, cmd = m.chars.Update(msg)
	return m, cmd
}

func (m Model) toggleFocus() Model {
	if m.focus == focusInput {
		m.focus = focusTable
		m.input.Blur()
		m.chars.Focus()
		return m
	}
	m.focus = focusInput
	m.chars.Blur()
	m.input.Focus()
	return m
}

func (m *Model) setTag(tag string) {
	m.input.SetValue(tag)
	m.input.CursorEnd()
	m.refresh()
}

func (m *Model) refresh() {
	if m.table == nil {
		return
	}
	m.view = m.table.Lookup(m.input.Value())
}

func (m *Model) resize(width, height int) {
	// Header, input, status, up to six results, table title, help
	reserved := 16
	if h := height - reserved; h > 3 {
		m.chars.SetHeight(h)
	}
	if width > 12 {
		cols := m.chars.Columns()
		cols[1].Width = width - cols[0].Width - 6
		m.chars.SetColumns(cols)
	}
}

/* ----------------------------------------
	VIEW
---------------------------------------- */

// View renders the screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(core.AppName))
	b.WriteString("\n\n")

	switch m.state {
	case stateLoading:
		b.WriteString(statusStyle.Render("Loading map data…"))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("esc: quit"))
		return b.String()
	case stateFailed:
		b.WriteString(errorStyle.Render(core.LoadFailureMessage))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("esc: quit"))
		return b.String()
	}

	b.WriteString(labelStyle.Render("Guild tag: "))
	b.WriteString(m.input.View())
	b.WriteString("  ")
	b.WriteString(counterStyle.Render(m.view.Counter()))
	b.WriteString("\n")

	if len(m.view.Unknown) > 0 {
		b.WriteString(warningStyle.Render(m.view.Status))
	} else {
		b.WriteString(statusStyle.Render(m.view.Status))
	}
	b.WriteString("\n")

	for _, res := range m.view.Results {
		if res.Found {
			b.WriteString("  " + res.String())
		} else {
			b.WriteString("  " + missingStyle.Render(res.String()))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("Characters (%d)", len(m.chars.Rows()))))
	b.WriteString("\n")
	b.WriteString(m.chars.View())
	b.WriteString("\n")

	if m.focus == focusTable {
		b.WriteString(helpStyle.Render("tab: edit tag • ↑/↓: select • enter: add character • esc: quit"))
	} else {
		b.WriteString(helpStyle.Render("tab: character table • esc: quit"))
	}
	return b.String()
}

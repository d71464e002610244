package tui

import (
	"context"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/guildtag/internal/core"
	"github.com/JonMunkholm/guildtag/internal/tabular"
)

const testCSV = "Map,Guild tag character\nAlpha,A\nBeta,A\nZeta,z\nNine,9\n"

func readyModel(t *testing.T) Model {
	t.Helper()
	table := core.Build(tabular.Parse(testCSV))
	m := New(context.Background(), core.NewLoadedCatalog(table))
	return update(t, m, loadedMsg{table: table})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func TestInitLoadsCatalog(t *testing.T) {
	table := core.Build(tabular.Parse(testCSV))
	m := New(context.Background(), core.NewLoadedCatalog(table))

	msg := waitForLoad(context.Background(), m.catalog)()
	loaded, ok := msg.(loadedMsg)
	require.True(t, ok)
	require.NoError(t, loaded.err)
	assert.Same(t, table, loaded.table)
}

func TestLoadingView(t *testing.T) {
	m := New(context.Background(), core.NewCatalog("maps.csv", core.LoadOptions{}))

	assert.Contains(t, m.View(), "Loading map data")

	// Typing is ignored until the table is loaded
	m = typeText(t, m, "A")
	assert.Empty(t, m.Tag())
}

func TestLoadFailureView(t *testing.T) {
	catalog := core.NewCatalog(filepath.Join(t.TempDir(), "absent.csv"), core.LoadOptions{MaxBytes: 1024})
	m := New(context.Background(), catalog)

	msg := waitForLoad(context.Background(), catalog)()
	m = update(t, m, msg)

	view := m.View()
	assert.Contains(t, view, core.LoadFailureMessage)
	assert.NotContains(t, view, "Guild tag:")
	assert.NotContains(t, view, "Characters (")
}

func TestEmptyTag(t *testing.T) {
	m := readyModel(t)

	view := m.View()
	assert.Contains(t, view, core.EmptyTagMessage)
	assert.Contains(t, view, "0/6")
	assert.Contains(t, view, "Characters (3)")
}

func TestTypingLooksUpEachCharacter(t *testing.T) {
	m := readyModel(t)
	m = typeText(t, m, "Az9")

	assert.Equal(t, "Az9", m.Tag())
	view := m.View()
	assert.Contains(t, view, "3/6")
	assert.Contains(t, view, "A → Alpha, Beta")
	assert.Contains(t, view, "z → Zeta")
	assert.Contains(t, view, "9 → Nine")
}

func TestTypingUnknownCharacter(t *testing.T) {
	m := readyModel(t)
	m = typeText(t, m, "q")

	view := m.View()
	assert.Contains(t, view, "q → No map found")
	assert.Contains(t, view, "Unknown character(s): q")
}

func TestTagLimitedToSixCharacters(t *testing.T) {
	m := readyModel(t)
	m = typeText(t, m, "AAAAAAAA")

	assert.Equal(t, "AAAAAA", m.Tag())
	assert.Contains(t, m.View(), "6/6")
}

func TestBackspace(t *testing.T) {
	m := readyModel(t)
	m = typeText(t, m, "Az")
	m = update(t, m, key(tea.KeyBackspace))

	assert.Equal(t, "A", m.Tag())
	assert.NotContains(t, m.View(), "z → Zeta")
}

func TestEnterOnTableAppendsCharacter(t *testing.T) {
	m := readyModel(t)
	m = typeText(t, m, "9")

	m = update(t, m, key(tea.KeyTab))
	assert.Equal(t, focusTable, m.focus)

	// First row is A
	m = update(t, m, key(tea.KeyEnter))
	assert.Equal(t, "9A", m.Tag())

	// Move to z and add it
	m = update(t, m, key(tea.KeyDown))
	m = update(t, m, key(tea.KeyEnter))
	assert.Equal(t, "9Az", m.Tag())

	// Typing while the table has focus does not edit the tag
	m = typeText(t, m, "Q")
	assert.Equal(t, "9Az", m.Tag())

	m = update(t, m, key(tea.KeyTab))
	assert.Equal(t, focusInput, m.focus)
	m = typeText(t, m, "Q")
	assert.Equal(t, "9AzQ", m.Tag())
}

func TestEnterOnFullTagIsNoop(t *testing.T) {
	m := readyModel(t)
	m = typeText(t, m, "zzzzzz")
	m = update(t, m, key(tea.KeyTab))
	m = update(t, m, key(tea.KeyEnter))

	assert.Equal(t, "zzzzzz", m.Tag())
}

func TestQuitKeys(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		m := readyModel(t)
		_, cmd := m.Update(key(k))
		require.NotNil(t, cmd)
		_, ok := cmd().(tea.QuitMsg)
		assert.True(t, ok, "key %v should quit", k)
	}
}

func TestWindowResize(t *testing.T) {
	m := readyModel(t)
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	assert.Equal(t, 100-6-6, m.chars.Columns()[1].Width)
}

func TestRunStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	table := core.Build(tabular.Parse(testCSV))
	err := Run(ctx, core.NewLoadedCatalog(table), tea.WithInput(nil), tea.WithOutput(discard{}))
	assert.NoError(t, err, "cancellation is not an error")
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

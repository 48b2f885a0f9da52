// Package tui hosts the shopping list in a bubbletea program. It renders the
// rows the presenter publishes and forwards add/remove intents; it never
// touches the store directly.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/shoplist/internal/model"
	"github.com/jask/shoplist/internal/presenter"
)

// Intents is the part of the presenter the UI drives.
type Intents interface {
	OnAddRequested(ctx context.Context, name string) <-chan error
	OnRowRemoveRequested(ctx context.Context, id int64) <-chan error
}

const msgEmptyName = "Name cannot be empty"

// App is the list screen.
type App struct {
	ctx     context.Context
	intents Intents
	feed    *Feed
	keys    *KeyRegistry
	title   string

	rows     []presenter.Row
	cursor   int
	offset   int
	removing map[int64]bool

	adding bool
	input  textinput.Model

	status    string
	statusErr bool

	width  int
	height int
}

func New(ctx context.Context, intents Intents, feed *Feed, title string) *App {
	inp := textinput.New()
	inp.Placeholder = "Item name"
	inp.Prompt = "add> "
	inp.CharLimit = model.MaxNameLength
	if title == "" {
		title = "Shopping list"
	}
	return &App{
		ctx:      ctx,
		intents:  intents,
		feed:     feed,
		keys:     DefaultKeys(),
		title:    title,
		input:    inp,
		removing: make(map[int64]bool),
	}
}

func (a *App) Init() tea.Cmd {
	return a.feed.Wait()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case rowsMsg:
		a.rows = []presenter.Row(m)
		a.clampCursor()
		return a, a.feed.Wait()
	case statusMsg:
		a.setStatus(string(m), false)
		return a, nil
	case errMsg:
		a.setStatus(m.Error(), true)
		return a, nil
	case removedMsg:
		delete(a.removing, m.row.ID)
		if m.err != nil {
			a.setStatus(m.err.Error(), true)
		} else {
			a.setStatus(fmt.Sprintf("Removed %q", m.row.Label), false)
		}
		return a, nil
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.input.Width = max(10, m.Width-12)
		a.clampCursor()
		return a, nil
	case tea.KeyMsg:
		if a.adding {
			return a.handleInputKey(m)
		}
		return a.handleListKey(m)
	}
	if a.adding {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleListKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.keys.Action(m, scopeList) {
	case actionQuit:
		return a, tea.Quit
	case actionAdd:
		a.adding = true
		a.input.Reset()
		a.setStatus("", false)
		return a, a.input.Focus()
	case actionRemove:
		row, ok := a.selected()
		if !ok || a.removing[row.ID] {
			return a, nil
		}
		// one request per row until its result is back
		a.removing[row.ID] = true
		errc := a.intents.OnRowRemoveRequested(a.ctx, row.ID)
		return a, removeCmd(errc, row)
	case actionUp:
		if a.cursor > 0 {
			a.cursor--
		}
	case actionDown:
		if a.cursor < len(a.rows)-1 {
			a.cursor++
		}
	case actionTop:
		a.cursor = 0
	case actionBottom:
		a.cursor = max(0, len(a.rows)-1)
	}
	a.clampCursor()
	return a, nil
}

func (a *App) handleInputKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.keys.Action(m, scopeInput) {
	case actionQuit:
		return a, tea.Quit
	case actionCancel:
		a.closeInput()
		return a, nil
	case actionSubmit:
		name := strings.TrimSpace(a.input.Value())
		if name == "" {
			a.setStatus(msgEmptyName, true)
			return a, nil
		}
		errc := a.intents.OnAddRequested(a.ctx, name)
		a.closeInput()
		return a, awaitCmd(errc, fmt.Sprintf("Added %q", name))
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(m)
	return a, cmd
}

func (a *App) closeInput() {
	a.adding = false
	a.input.Blur()
	a.input.Reset()
}

func (a *App) setStatus(text string, isErr bool) {
	a.status = text
	a.statusErr = isErr
}

func (a *App) selected() (presenter.Row, bool) {
	if a.cursor < 0 || a.cursor >= len(a.rows) {
		return presenter.Row{}, false
	}
	return a.rows[a.cursor], true
}

func (a *App) clampCursor() {
	if a.cursor >= len(a.rows) {
		a.cursor = len(a.rows) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
	visible := a.visibleRows()
	if visible <= 0 {
		a.offset = 0
		return
	}
	if a.cursor < a.offset {
		a.offset = a.cursor
	}
	if a.cursor >= a.offset+visible {
		a.offset = a.cursor - visible + 1
	}
	if a.offset > max(0, len(a.rows)-visible) {
		a.offset = max(0, len(a.rows)-visible)
	}
}

// visibleRows is the list height left after header, input, status and help.
// Zero means the terminal size is not known yet and every row is shown.
func (a *App) visibleRows() int {
	if a.height <= 0 {
		return 0
	}
	chrome := 4
	if a.adding {
		chrome += 3
	}
	return max(1, a.height-chrome)
}

func (a *App) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(a.title))
	b.WriteString(countStyle.Render(fmt.Sprintf("  %d %s", len(a.rows), plural(len(a.rows), "item", "items"))))
	b.WriteString("\n\n")

	if len(a.rows) == 0 {
		b.WriteString(emptyStyle.Render("no items yet"))
		b.WriteString("\n")
	} else {
		start, end := 0, len(a.rows)
		if visible := a.visibleRows(); visible > 0 {
			start = a.offset
			end = min(len(a.rows), start+visible)
		}
		for i := start; i < end; i++ {
			b.WriteString(a.renderRow(i))
			b.WriteString("\n")
		}
	}

	if a.adding {
		b.WriteString(inputBoxStyle.Render(a.input.View()))
		b.WriteString("\n")
	}

	if a.status != "" {
		if a.statusErr {
			b.WriteString(statusErrStyle.Render(a.status))
		} else {
			b.WriteString(statusStyle.Render(a.status))
		}
	}
	b.WriteString("\n")
	b.WriteString(a.renderHelp())
	return b.String()
}

func (a *App) renderRow(i int) string {
	label := a.rows[i].Label
	if a.width > 4 {
		label = ansi.Truncate(label, a.width-4, "…")
	}
	if i == a.cursor {
		return cursorStyle.Render("> ") + selectedStyle.Render(label)
	}
	return "  " + rowStyle.Render(label)
}

func (a *App) renderHelp() string {
	scope := scopeList
	if a.adding {
		scope = scopeInput
	}
	space := helpSepStyle.Render(" ")
	sep := helpSepStyle.Render("  ")
	var parts []string
	for _, kb := range a.keys.Help(scope) {
		h := kb.Help()
		parts = append(parts, keyStyle.Render(h.Key)+space+helpDescStyle.Render(h.Desc))
	}
	line := strings.Join(parts, sep)
	if a.width > 0 {
		line = ansi.Truncate(line, a.width, "")
	}
	return line
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

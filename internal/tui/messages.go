package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/shoplist/internal/presenter"
)

type rowsMsg []presenter.Row

type statusMsg string

type errMsg struct{ error }

// removedMsg reports the outcome of one remove request.
type removedMsg struct {
	row presenter.Row
	err error
}

// awaitCmd blocks on a presenter result off the UI goroutine.
func awaitCmd(errc <-chan error, ok string) tea.Cmd {
	return func() tea.Msg {
		if err := <-errc; err != nil {
			return errMsg{err}
		}
		return statusMsg(ok)
	}
}

func removeCmd(errc <-chan error, row presenter.Row) tea.Cmd {
	return func() tea.Msg {
		return removedMsg{row: row, err: <-errc}
	}
}

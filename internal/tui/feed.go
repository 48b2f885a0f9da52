package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/shoplist/internal/presenter"
)

// Feed carries rendered rows from the presenter to the bubbletea loop. Only
// the newest row list is kept; a render that arrives before the App reads the
// previous one replaces it.
type Feed struct {
	ch   chan []presenter.Row
	done chan struct{}
	once sync.Once
}

func NewFeed() *Feed {
	return &Feed{
		ch:   make(chan []presenter.Row, 1),
		done: make(chan struct{}),
	}
}

// Render implements presenter.Renderer. The presenter calls it from a single
// goroutine, so the drain and send below never race another producer.
func (f *Feed) Render(rows []presenter.Row) {
	select {
	case <-f.ch:
	default:
	}
	select {
	case f.ch <- rows:
	case <-f.done:
	}
}

// Wait returns a command that delivers the next row list as a rowsMsg.
func (f *Feed) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case rows := <-f.ch:
			return rowsMsg(rows)
		case <-f.done:
			return nil
		}
	}
}

// Close releases any pending Wait.
func (f *Feed) Close() {
	f.once.Do(func() { close(f.done) })
}

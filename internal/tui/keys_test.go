package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestKeyRegistryScopeMatch(t *testing.T) {
	reg := NewKeyRegistry([]KeyBinding{
		{Keys: []string{"a"}, Action: actionAdd, Scopes: []string{scopeList}},
		{Keys: []string{"ctrl+c"}, Action: actionQuit, Scopes: []string{"*"}},
	})
	if got := reg.Action(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}, scopeList); got != actionAdd {
		t.Fatalf("expected a to add in list scope, got %q", got)
	}
	if got := reg.Action(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}, scopeInput); got != "" {
		t.Fatalf("did not expect a to be bound in input scope, got %q", got)
	}
	if got := reg.Action(tea.KeyMsg{Type: tea.KeyCtrlC}, scopeInput); got != actionQuit {
		t.Fatalf("expected ctrl+c to match wildcard scope, got %q", got)
	}
}

func TestDefaultKeysKeepCase(t *testing.T) {
	reg := DefaultKeys()
	if got := reg.Action(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}}, scopeList); got != actionTop {
		t.Fatalf("g: got %q", got)
	}
	if got := reg.Action(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}}, scopeList); got != actionBottom {
		t.Fatalf("G: got %q", got)
	}
}

func TestHelpSkipsUndescribed(t *testing.T) {
	reg := DefaultKeys()
	for _, kb := range reg.Help(scopeList) {
		if kb.Help().Key == "ctrl+c" {
			t.Fatalf("ctrl+c has no description and should not be listed")
		}
	}
	if n := len(reg.Help(scopeInput)); n != 2 {
		t.Fatalf("expected enter and esc in input help, got %d", n)
	}
}

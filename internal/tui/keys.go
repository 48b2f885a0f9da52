package tui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	scopeList  = "list"
	scopeInput = "input"
)

const (
	actionAdd    = "add"
	actionRemove = "remove"
	actionUp     = "up"
	actionDown   = "down"
	actionTop    = "top"
	actionBottom = "bottom"
	actionQuit   = "quit"
	actionSubmit = "submit"
	actionCancel = "cancel"
)

type KeyBinding struct {
	Keys        []string
	Action      string
	Description string
	Scopes      []string
}

type KeyRegistry struct {
	bindings []KeyBinding
}

func NewKeyRegistry(bindings []KeyBinding) *KeyRegistry {
	return &KeyRegistry{bindings: slices.Clone(bindings)}
}

// DefaultKeys returns the bindings the list app ships with.
func DefaultKeys() *KeyRegistry {
	return NewKeyRegistry([]KeyBinding{
		{Keys: []string{"a"}, Action: actionAdd, Description: "add", Scopes: []string{scopeList}},
		{Keys: []string{"d", "x", "delete"}, Action: actionRemove, Description: "remove", Scopes: []string{scopeList}},
		{Keys: []string{"up", "k"}, Action: actionUp, Description: "up", Scopes: []string{scopeList}},
		{Keys: []string{"down", "j"}, Action: actionDown, Description: "down", Scopes: []string{scopeList}},
		{Keys: []string{"g"}, Action: actionTop, Description: "top", Scopes: []string{scopeList}},
		{Keys: []string{"G"}, Action: actionBottom, Description: "bottom", Scopes: []string{scopeList}},
		{Keys: []string{"q"}, Action: actionQuit, Description: "quit", Scopes: []string{scopeList}},
		{Keys: []string{"ctrl+c"}, Action: actionQuit, Scopes: []string{"*"}},
		{Keys: []string{"enter"}, Action: actionSubmit, Description: "save", Scopes: []string{scopeInput}},
		{Keys: []string{"esc"}, Action: actionCancel, Description: "cancel", Scopes: []string{scopeInput}},
	})
}

func (r *KeyRegistry) BindingsForScope(scope string) []KeyBinding {
	out := make([]KeyBinding, 0, len(r.bindings))
	for _, b := range r.bindings {
		if scopeMatch(scope, b.Scopes) {
			out = append(out, b)
		}
	}
	return out
}

// Action returns the action bound to msg in scope, or "".
func (r *KeyRegistry) Action(msg tea.KeyMsg, scope string) string {
	pressed := normalizeKey(msg.String())
	for _, b := range r.bindings {
		if !scopeMatch(scope, b.Scopes) {
			continue
		}
		for _, k := range b.Keys {
			if normalizeKey(k) == pressed {
				return b.Action
			}
		}
	}
	return ""
}

// Help renders the described bindings of scope as key.Binding help entries.
func (r *KeyRegistry) Help(scope string) []key.Binding {
	var out []key.Binding
	for _, b := range r.BindingsForScope(scope) {
		if len(b.Keys) == 0 || b.Description == "" {
			continue
		}
		out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(strings.Join(b.Keys, "/"), b.Description)))
	}
	return out
}

// normalizeKey folds named keys like "Enter" but keeps single runes as typed,
// so "g" and "G" stay distinct.
func normalizeKey(k string) string {
	k = strings.TrimSpace(k)
	if len([]rune(k)) == 1 {
		return k
	}
	return strings.ToLower(k)
}

func scopeMatch(scope string, scopes []string) bool {
	if len(scopes) == 0 {
		return true
	}
	for _, s := range scopes {
		if s == "*" || s == scope {
			return true
		}
	}
	return false
}

// Package model defines the shopping list domain types.
package model

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// Validation errors for item names.
var (
	ErrEmptyName     = errors.New("name cannot be empty")
	ErrNameTooLong   = errors.New("name cannot exceed 200 characters")
	ErrDuplicateName = errors.New("an item with this name already exists")
)

// MaxNameLength is the longest accepted name, in runes.
const MaxNameLength = 200

// Item is one shopping list entry.
type Item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NormalizeName trims raw and checks it is a usable item name.
func NormalizeName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", ErrNameTooLong
	}
	return name, nil
}

// Snapshot is an immutable, ordered view of the items at one point in time.
// The zero value is an empty snapshot.
type Snapshot struct {
	items []Item
}

// NewSnapshot copies items into a new snapshot.
func NewSnapshot(items []Item) Snapshot {
	if len(items) == 0 {
		return Snapshot{}
	}
	cp := make([]Item, len(items))
	copy(cp, items)
	return Snapshot{items: cp}
}

func (s Snapshot) Len() int { return len(s.items) }

// At returns the item at position i. It panics if i is out of range.
func (s Snapshot) At(i int) Item { return s.items[i] }

// Items returns a copy of the items in order.
func (s Snapshot) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Find returns the item with the given id.
func (s Snapshot) Find(id int64) (Item, bool) {
	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

func (s Snapshot) Contains(id int64) bool {
	_, ok := s.Find(id)
	return ok
}

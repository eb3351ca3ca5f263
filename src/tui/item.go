package tui

import "cirunner/src/provider"

// Item wraps a check so it can be displayed by bubbles/list.
type Item struct {
	Check provider.Check
}

// FilterValue is the value used for fuzzy filtering.
func (i Item) FilterValue() string { return i.Check.Name }

// Title returns the primary text for the item (required by list.Item).
func (i Item) Title() string { return i.Check.DisplayName() }

// Description returns the secondary text for the item (required by list.Item).
func (i Item) Description() string { return i.Check.ProviderName() }

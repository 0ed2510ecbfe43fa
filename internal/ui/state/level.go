package state

import (
	"github.com/atomicstack/kafka2i/internal/menu"
)

// Level holds the list state of one pane: entries, filter, highlighted
// index and viewport. Cursor is always within [0, len(Items)) or -1 when
// the list is empty.
type Level struct {
	Pane           menu.Pane
	Title          string
	Items          []menu.Item
	Full           []menu.Item
	Filter         string
	Cursor         int
	ViewportOffset int

	// restoreID is the entry highlighted when the current filter began.
	restoreID string
}

// NewLevel constructs a Level with the first entry highlighted.
func NewLevel(pane menu.Pane, title string, items []menu.Item) *Level {
	l := &Level{
		Pane:   pane,
		Title:  title,
		Cursor: -1,
	}
	l.UpdateItems(items)
	return l
}

// IndexOf returns the index for a given item identifier.
func (l *Level) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, item := range l.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Current returns the highlighted entry.
func (l *Level) Current() (menu.Item, bool) {
	if l == nil || l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return menu.Item{}, false
	}
	return l.Items[l.Cursor], true
}

// CurrentID returns the highlighted entry's ID, or "".
func (l *Level) CurrentID() string {
	item, _ := l.Current()
	return item.ID
}

// UpdateItems replaces the entries. The highlighted entry is kept when it
// still exists; otherwise the index is clamped into the new list.
func (l *Level) UpdateItems(items []menu.Item) {
	prevID := l.CurrentID()
	prevOffset := l.ViewportOffset
	l.Full = cloneItems(items)
	l.applyFilter()
	if len(l.Items) == 0 {
		l.ViewportOffset = 0
		return
	}
	if idx := l.IndexOf(prevID); idx >= 0 {
		l.Cursor = idx
	}
	if l.Cursor < 0 {
		l.Cursor = 0
	}
	if prevOffset < 0 || prevOffset > len(l.Items)-1 {
		prevOffset = 0
	}
	l.ViewportOffset = prevOffset
}

func cloneItems(items []menu.Item) []menu.Item {
	return append([]menu.Item(nil), items...)
}

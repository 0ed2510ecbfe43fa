package state

import (
	"testing"

	"github.com/atomicstack/kafka2i/internal/menu"
)

func newTestLevel(ids ...string) *Level {
	items := make([]menu.Item, len(ids))
	for i, id := range ids {
		items[i] = menu.Item{ID: id, Label: id}
	}
	return NewLevel(menu.PaneTopics, "Test", items)
}

func TestStepSaturates(t *testing.T) {
	l := newTestLevel("a", "b", "c")
	if l.Cursor != 0 {
		t.Fatalf("expected first entry highlighted, got %d", l.Cursor)
	}
	if l.Step(-1) || l.Cursor != 0 {
		t.Fatalf("expected no movement above the first entry, got %d", l.Cursor)
	}
	for i := 0; i < 5; i++ {
		l.Step(1)
	}
	if l.Cursor != 2 {
		t.Fatalf("expected cursor to stop at 2, got %d", l.Cursor)
	}
	if l.Step(1) {
		t.Fatalf("expected no movement past the last entry")
	}
	if !l.Step(-1) || l.Cursor != 1 {
		t.Fatalf("expected cursor 1, got %d", l.Cursor)
	}
}

func TestEmptyLevelHasNoHighlight(t *testing.T) {
	l := newTestLevel()
	if l.Cursor != -1 {
		t.Fatalf("expected -1, got %d", l.Cursor)
	}
	if l.Step(1) || l.Step(-1) || l.Jump(0) || l.StepPage(3, 1) {
		t.Fatalf("expected no movement on an empty level")
	}
	if l.Cursor != -1 {
		t.Fatalf("expected -1 after movement attempts, got %d", l.Cursor)
	}
}

func TestJumpClamps(t *testing.T) {
	l := newTestLevel("a", "b", "c")
	if !l.Jump(len(l.Items) - 1) || l.Cursor != 2 {
		t.Fatalf("expected cursor 2, got %d", l.Cursor)
	}
	if l.Jump(99) {
		t.Fatalf("expected clamped jump to report no change")
	}
	if !l.Jump(-5) || l.Cursor != 0 {
		t.Fatalf("expected cursor 0, got %d", l.Cursor)
	}
}

func TestStepPage(t *testing.T) {
	l := newTestLevel("a", "b", "c", "d", "e")
	cases := []struct {
		rows, dir int
		moved     bool
		want      int
	}{
		{2, 1, true, 2},
		{2, 1, true, 4},
		{2, 1, false, 4},
		{2, -1, true, 2},
		{10, -1, true, 0},
		{0, 1, true, 4},
		{3, 0, false, 4},
	}
	for i, tc := range cases {
		if moved := l.StepPage(tc.rows, tc.dir); moved != tc.moved || l.Cursor != tc.want {
			t.Fatalf("case %d: expected moved=%v cursor %d, got moved=%v cursor %d", i, tc.moved, tc.want, moved, l.Cursor)
		}
	}
}

func TestRevealScrollsMinimally(t *testing.T) {
	l := newTestLevel("a", "b", "c", "d", "e")
	l.Cursor = 4
	l.Reveal(2)
	if l.ViewportOffset != 3 {
		t.Fatalf("expected offset 3, got %d", l.ViewportOffset)
	}

	l.Cursor = -1
	l.Reveal(2)
	if l.Cursor != 0 || l.ViewportOffset != 0 {
		t.Fatalf("expected cursor and offset 0, got %d/%d", l.Cursor, l.ViewportOffset)
	}

	l.ViewportOffset = 4
	l.Reveal(0)
	if l.ViewportOffset != 0 {
		t.Fatalf("expected offset reset without rows, got %d", l.ViewportOffset)
	}

	l.ViewportOffset = 4
	l.Cursor = 1
	l.Reveal(3)
	if l.ViewportOffset != 1 {
		t.Fatalf("expected offset aligned with cursor, got %d", l.ViewportOffset)
	}

	l.ViewportOffset = 1
	l.Cursor = 2
	l.Reveal(3)
	if l.ViewportOffset != 1 {
		t.Fatalf("expected visible cursor to leave offset alone, got %d", l.ViewportOffset)
	}
}

func TestUpdateItemsKeepsHighlightedEntry(t *testing.T) {
	l := newTestLevel("a", "b", "c")
	l.Cursor = 1
	l.UpdateItems([]menu.Item{{ID: "z", Label: "z"}, {ID: "a", Label: "a"}, {ID: "b", Label: "b"}})
	if l.CurrentID() != "b" {
		t.Fatalf("expected highlight to follow entry b, got %q", l.CurrentID())
	}

	l.UpdateItems([]menu.Item{{ID: "x", Label: "x"}})
	if l.Cursor != 0 || l.CurrentID() != "x" {
		t.Fatalf("expected highlight clamped into shorter list, got %d", l.Cursor)
	}

	l.UpdateItems(nil)
	if l.Cursor != -1 {
		t.Fatalf("expected no highlight for empty list, got %d", l.Cursor)
	}

	l.UpdateItems([]menu.Item{{ID: "y", Label: "y"}})
	if l.Cursor != 0 {
		t.Fatalf("expected first entry highlighted when list refills, got %d", l.Cursor)
	}
}

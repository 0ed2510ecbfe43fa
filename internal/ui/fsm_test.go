package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	kerrors "github.com/atomicstack/kafka2i/internal/errors"
	"github.com/atomicstack/kafka2i/internal/kafka"
	"github.com/atomicstack/kafka2i/internal/menu"
)

func TestInitialState(t *testing.T) {
	m := NewModel(Options{})
	if m.mode != ModeNormal {
		t.Fatalf("expected normal mode, got %s", m.mode)
	}
	if m.appMode != AppConsumer {
		t.Fatalf("expected consumer mode, got %s", m.appMode)
	}
	if m.focus != menu.PaneBrokers {
		t.Fatalf("expected brokers focused, got %s", m.focus)
	}
	for pane, lvl := range m.levels {
		if lvl.Cursor != -1 {
			t.Fatalf("expected no highlight on empty %s pane, got %d", pane, lvl.Cursor)
		}
	}
}

func TestTransitionTableCoversEveryMode(t *testing.T) {
	m := NewModel(Options{})
	for _, mode := range []Mode{ModeNormal, ModeEdit, ModeHelp} {
		if len(m.transitions[mode]) == 0 {
			t.Fatalf("expected transitions for %s", mode)
		}
	}
	if _, ok := m.transitions[ModeEdit][actQuit]; ok {
		t.Fatalf("expected no quit action in edit mode")
	}
	if len(m.transitions[ModeHelp]) != 2 {
		t.Fatalf("expected help to accept only toggle and quit, got %d actions", len(m.transitions[ModeHelp]))
	}
}

func TestTabCyclesConsumerRing(t *testing.T) {
	m, _ := loadedModel(t, Options{})
	want := []menu.Pane{menu.PaneGroups, menu.PaneTopics, menu.PanePartitions, menu.PaneMessage, menu.PaneBrokers}
	for i, pane := range want {
		send(m, keyType(tea.KeyTab))
		if m.focus != pane {
			t.Fatalf("step %d: expected %s, got %s", i, pane, m.focus)
		}
	}
	send(m, keyType(tea.KeyShiftTab))
	if m.focus != menu.PaneMessage {
		t.Fatalf("expected shift+tab to wrap to message, got %s", m.focus)
	}
}

func TestProducerModeRestrictsFocusRing(t *testing.T) {
	m, _ := loadedModel(t, Options{})
	send(m, keyRunes("p"))
	if m.appMode != AppProducer {
		t.Fatalf("expected producer mode")
	}
	if m.focus != menu.PaneTopics {
		t.Fatalf("expected focus moved to topics, got %s", m.focus)
	}
	send(m, keyType(tea.KeyTab))
	if m.focus != menu.PanePartitions {
		t.Fatalf("expected partitions, got %s", m.focus)
	}
	send(m, keyType(tea.KeyTab))
	if m.focus != menu.PaneTopics {
		t.Fatalf("expected ring to wrap to topics, got %s", m.focus)
	}
	send(m, keyRunes("c"))
	if m.appMode != AppConsumer || m.focus != menu.PaneTopics {
		t.Fatalf("expected consumer mode keeping topics focus, got %s/%s", m.appMode, m.focus)
	}
}

func TestListMovementSaturates(t *testing.T) {
	m, _ := loadedModel(t, Options{})
	focusPane(t, m, menu.PaneTopics)
	lvl := m.levels[menu.PaneTopics]
	for i := 0; i < 4; i++ {
		send(m, keyType(tea.KeyDown))
	}
	if lvl.Cursor != 1 {
		t.Fatalf("expected cursor to stop at 1, got %d", lvl.Cursor)
	}
	for i := 0; i < 4; i++ {
		send(m, keyType(tea.KeyUp))
	}
	if lvl.Cursor != 0 {
		t.Fatalf("expected cursor to stop at 0, got %d", lvl.Cursor)
	}
}

func TestLoadSelectsFirstPartition(t *testing.T) {
	m, rec := loadedModel(t, Options{})
	parts := m.levels[menu.PanePartitions]
	if len(parts.Items) != 2 || parts.Items[0].Label != "orders/0" {
		t.Fatalf("expected orders partitions, got %#v", parts.Items)
	}
	if len(rec.selects) != 1 || rec.selects[0] != "orders/0" {
		t.Fatalf("expected orders/0 selected, got %v", rec.selects)
	}
}

func TestTopicChangeSelectsItsFirstPartition(t *testing.T) {
	m, rec := loadedModel(t, Options{})
	focusPane(t, m, menu.PaneTopics)
	send(m, keyType(tea.KeyDown))
	parts := m.levels[menu.PanePartitions]
	if len(parts.Items) != 1 || parts.CurrentID() != "payments/0" {
		t.Fatalf("expected payments partitions, got %#v", parts.Items)
	}
	if last := rec.selects[len(rec.selects)-1]; last != "payments/0" {
		t.Fatalf("expected payments/0 selected, got %v", rec.selects)
	}
}

func TestPartitionHighlightSelectsPartition(t *testing.T) {
	m, rec := loadedModel(t, Options{})
	focusPane(t, m, menu.PanePartitions)
	send(m, keyType(tea.KeyDown))
	if len(rec.selects) != 2 || rec.selects[1] != "orders/1" {
		t.Fatalf("expected orders/1 selected, got %v", rec.selects)
	}
	send(m, keyType(tea.KeyDown))
	if len(rec.selects) != 2 {
		t.Fatalf("expected no reselect at the end of the list, got %v", rec.selects)
	}
}

func TestRefreshKeepsHighlightAndSelection(t *testing.T) {
	m, rec := loadedModel(t, Options{})
	focusPane(t, m, menu.PanePartitions)
	send(m, keyType(tea.KeyDown))
	send(m, backendEventMsg{event: backendEvent(fixtureSnapshot(), nil)})
	if got := m.levels[menu.PanePartitions].CurrentID(); got != "orders/1" {
		t.Fatalf("expected highlight kept on orders/1, got %q", got)
	}
	if len(rec.selects) != 2 {
		t.Fatalf("expected no extra selection after refresh, got %v", rec.selects)
	}
}

func TestCommandRequiresPartitionOrMessageFocus(t *testing.T) {
	m, _ := loadedModel(t, Options{})
	send(m, keyRunes(":"))
	if m.mode != ModeNormal {
		t.Fatalf("expected ':' ignored on brokers, got %s", m.mode)
	}
	focusPane(t, m, menu.PanePartitions)
	send(m, keyRunes(":"))
	if m.mode != ModeEdit {
		t.Fatalf("expected edit mode on partitions, got %s", m.mode)
	}
	send(m, keyType(tea.KeyEsc))
	focusPane(t, m, menu.PaneMessage)
	send(m, keyRunes(":"))
	if m.mode != ModeEdit {
		t.Fatalf("expected edit mode on message view, got %s", m.mode)
	}
}

func TestCommandNotAvailableInProducerMode(t *testing.T) {
	m, _ := loadedModel(t, Options{})
	send(m, keyRunes("p"))
	focusPane(t, m, menu.PanePartitions)
	send(m, keyRunes(":"))
	if m.mode != ModeNormal {
		t.Fatalf("expected ':' ignored in producer mode, got %s", m.mode)
	}
}

func TestSubmitDispatchesSeek(t *testing.T) {
	cases := []struct {
		text string
		want kafka.Position
	}{
		{"offset!7656", kafka.AtOffset(7656)},
		{"ts!1760597487571", kafka.AtTimestamp(1760597487571)},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			m, rec := loadedModel(t, Options{})
			focusPane(t, m, menu.PanePartitions)
			send(m, keyRunes(":"))
			typeText(m, tc.text)
			send(m, keyType(tea.KeyEnter))
			if m.mode != ModeNormal {
				t.Fatalf("expected normal mode after submit, got %s", m.mode)
			}
			if len(rec.seeks) != 1 || rec.seeks[0] != tc.want {
				t.Fatalf("expected seek %v, got %v", tc.want, rec.seeks)
			}
			if m.edit.Len() != 0 {
				t.Fatalf("expected buffer discarded, got %q", m.edit.String())
			}
		})
	}
}

func TestParseErrorKeepsBuffer(t *testing.T) {
	for _, text := range []string{"offset!abc", "bogus"} {
		t.Run(text, func(t *testing.T) {
			m, rec := loadedModel(t, Options{})
			focusPane(t, m, menu.PaneMessage)
			send(m, keyRunes(":"))
			typeText(m, text)
			send(m, keyType(tea.KeyEnter))
			if m.mode != ModeEdit {
				t.Fatalf("expected to stay in edit mode, got %s", m.mode)
			}
			if m.edit.String() != text {
				t.Fatalf("expected buffer %q preserved, got %q", text, m.edit.String())
			}
			if !kerrors.Is(m.editErr, kerrors.KindParse) {
				t.Fatalf("expected parse error, got %v", m.editErr)
			}
			if len(rec.seeks) != 0 {
				t.Fatalf("expected no seek, got %v", rec.seeks)
			}
			send(m, keyType(tea.KeyBackspace))
			if m.editErr != nil {
				t.Fatalf("expected error cleared once the text changes")
			}
		})
	}
}

func TestEscapeDiscardsCommand(t *testing.T) {
	m, rec := loadedModel(t, Options{})
	focusPane(t, m, menu.PanePartitions)
	send(m, keyRunes(":"))
	typeText(m, "offset!1")
	send(m, keyType(tea.KeyEsc))
	if m.mode != ModeNormal {
		t.Fatalf("expected normal mode, got %s", m.mode)
	}
	if len(rec.seeks) != 0 {
		t.Fatalf("expected no seek after escape, got %v", rec.seeks)
	}
	send(m, keyRunes(":"))
	if m.edit.Len() != 0 {
		t.Fatalf("expected a fresh buffer, got %q", m.edit.String())
	}
}

func TestQuitIsLiteralInEditMode(t *testing.T) {
	m, _ := loadedModel(t, Options{})
	focusPane(t, m, menu.PanePartitions)
	send(m, keyRunes(":"))
	send(m, keyRunes("q"))
	if m.quitting || m.edit.String() != "q" {
		t.Fatalf("expected 'q' typed into the buffer, got %q", m.edit.String())
	}
}

func TestQuitInNormalMode(t *testing.T) {
	m, _ := loadedModel(t, Options{})
	send(m, keyRunes("q"))
	if !m.quitting {
		t.Fatalf("expected quitting")
	}
	if m.View() != "" {
		t.Fatalf("expected empty view after quit")
	}
}

func TestQuitCommand(t *testing.T) {
	m := NewModel(Options{})
	cmd := m.quit(tea.KeyMsg{})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestHelpSuspendsKeys(t *testing.T) {
	m, rec := loadedModel(t, Options{})
	focusPane(t, m, menu.PanePartitions)
	send(m, keyRunes("h"))
	if m.mode != ModeHelp {
		t.Fatalf("expected help mode, got %s", m.mode)
	}
	send(m, keyType(tea.KeyTab))
	send(m, keyRunes(":"))
	send(m, keyType(tea.KeyRight))
	if m.focus != menu.PanePartitions || m.mode != ModeHelp || len(rec.navs) != 0 {
		t.Fatalf("expected keys suspended in help, got focus %s mode %s navs %v", m.focus, m.mode, rec.navs)
	}
	send(m, keyRunes("h"))
	if m.mode != ModeNormal {
		t.Fatalf("expected help toggled off, got %s", m.mode)
	}
	send(m, keyRunes("h"))
	send(m, keyRunes("q"))
	if !m.quitting {
		t.Fatalf("expected quit from help")
	}
}

func TestLeftRightNavigate(t *testing.T) {
	m, rec := loadedModel(t, Options{})
	send(m, keyType(tea.KeyRight))
	if len(rec.navs) != 0 {
		t.Fatalf("expected no navigation with brokers focused, got %v", rec.navs)
	}
	focusPane(t, m, menu.PanePartitions)
	send(m, keyType(tea.KeyLeft))
	send(m, keyType(tea.KeyRight))
	focusPane(t, m, menu.PaneMessage)
	send(m, keyType(tea.KeyRight))
	want := []kafka.Direction{kafka.Previous, kafka.Next, kafka.Next}
	if len(rec.navs) != len(want) {
		t.Fatalf("expected %v, got %v", want, rec.navs)
	}
	for i := range want {
		if rec.navs[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, rec.navs)
		}
	}
}

func TestFilterNarrowsAndEscapeClears(t *testing.T) {
	m, rec := loadedModel(t, Options{})
	focusPane(t, m, menu.PaneTopics)
	send(m, keyRunes("/"))
	if m.mode != ModeEdit || m.editPurpose != editFilter {
		t.Fatalf("expected filter edit, got %s", m.mode)
	}
	typeText(m, "pay")
	topics := m.levels[menu.PaneTopics]
	if len(topics.Items) != 1 || topics.CurrentID() != "payments" {
		t.Fatalf("expected payments only, got %#v", topics.Items)
	}
	if last := rec.selects[len(rec.selects)-1]; last != "payments/0" {
		t.Fatalf("expected payments/0 selected while filtering, got %v", rec.selects)
	}
	send(m, keyType(tea.KeyEnter))
	if m.mode != ModeNormal || topics.Filter != "pay" {
		t.Fatalf("expected filter kept after enter, got %q", topics.Filter)
	}
	send(m, keyRunes("/"))
	if m.edit.String() != "pay" {
		t.Fatalf("expected buffer seeded with the filter, got %q", m.edit.String())
	}
	send(m, keyType(tea.KeyEsc))
	if topics.Filter != "" || len(topics.Items) != 2 {
		t.Fatalf("expected filter cleared, got %q with %d items", topics.Filter, len(topics.Items))
	}
}

func TestRefreshFailureKeepsPanes(t *testing.T) {
	m, _ := loadedModel(t, Options{})
	for i := 0; i < 3; i++ {
		send(m, backendEventMsg{event: backendEvent(nil, kerrors.ConnectionFailed("refresh", errBrokerDown))})
	}
	if got := len(m.levels[menu.PaneTopics].Items); got != 2 {
		t.Fatalf("expected topics kept, got %d", got)
	}
	if got := len(m.levels[menu.PaneBrokers].Items); got != 2 {
		t.Fatalf("expected brokers kept, got %d", got)
	}
	if !m.status.Warning() {
		t.Fatalf("expected persistent warning after repeated failures")
	}
	if m.quitting {
		t.Fatalf("expected refresh failures never to quit")
	}
}

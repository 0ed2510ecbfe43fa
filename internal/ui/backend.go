package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/kafka2i/internal/backend"
	"github.com/atomicstack/kafka2i/internal/format/message"
	"github.com/atomicstack/kafka2i/internal/kafka"
	"github.com/atomicstack/kafka2i/internal/logging/events"
	"github.com/atomicstack/kafka2i/internal/session"
)

const tickInterval = time.Second

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

func waitForSessionUpdate(updates <-chan session.Cursor) tea.Cmd {
	return func() tea.Msg {
		c, ok := <-updates
		if !ok {
			return sessionDoneMsg{}
		}
		return sessionUpdateMsg{cursor: c}
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg{at: t}
	})
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

type sessionUpdateMsg struct {
	cursor session.Cursor
}

type sessionDoneMsg struct{}

type tickMsg struct {
	at time.Time
}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	m.applyBackendEvent(eventMsg.event)
	if m.watcher != nil {
		return waitForBackendEvent(m.watcher)
	}
	return nil
}

func (m *Model) handleBackendDoneMsg(tea.Msg) tea.Cmd {
	m.watcher = nil
	return nil
}

// applyBackendEvent records the refresh outcome. A failed refresh leaves
// every pane as it was.
func (m *Model) applyBackendEvent(evt backend.Event) {
	res := m.dispatcher.Handle(evt)
	m.status = res.Status
	m.now = m.clock()
	if !res.Updated {
		return
	}
	m.snapshot = m.store.Snapshot()
	m.reloadPanes()
	m.syncSelection()
}

func (m *Model) handleSessionUpdateMsg(msg tea.Msg) tea.Cmd {
	update, ok := msg.(sessionUpdateMsg)
	if !ok {
		return nil
	}
	m.applyCursor(update.cursor)
	if m.updates != nil {
		return waitForSessionUpdate(m.updates)
	}
	return nil
}

func (m *Model) handleSessionDoneMsg(tea.Msg) tea.Cmd {
	m.updates = nil
	return nil
}

func (m *Model) handleTickMsg(tea.Msg) tea.Cmd {
	m.now = m.clock()
	return tick()
}

// applyCursor adopts a published cursor unless an equal or newer one has
// already been applied.
func (m *Model) applyCursor(c session.Cursor) bool {
	if c.Version < m.cursor.Version {
		return false
	}
	prev := m.cursor.Message
	m.cursor = c
	if !sameMessage(prev, c.Message) {
		m.messageLines = messageLines(c.Message, m.highlight)
		m.messageScroll = 0
	}
	return true
}

func sameMessage(a, b *kafka.Message) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Topic == b.Topic && a.Partition == b.Partition && a.Offset == b.Offset
}

func messageLines(msg *kafka.Message, highlight bool) []string {
	if msg == nil {
		return nil
	}
	text := message.Text(*msg)
	if highlight {
		text = message.Highlighted(*msg)
	}
	return splitLines(text)
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	m.help.Width = m.width
	events.UI.Resize(m.width, m.height)
	return nil
}

package ui

import (
	"slices"

	"github.com/atomicstack/kafka2i/internal/logging/events"
	"github.com/atomicstack/kafka2i/internal/menu"
	"github.com/atomicstack/kafka2i/internal/ui/command"
)

var (
	consumerRing = []menu.Pane{menu.PaneBrokers, menu.PaneGroups, menu.PaneTopics, menu.PanePartitions, menu.PaneMessage}
	producerRing = []menu.Pane{menu.PaneTopics, menu.PanePartitions}
)

func (m *Model) focusRing() []menu.Pane {
	if m.appMode == AppProducer {
		return producerRing
	}
	return consumerRing
}

// visibleLists returns the list panes shown in the left column.
func (m *Model) visibleLists() []menu.Pane {
	if m.appMode == AppProducer {
		return producerRing
	}
	return menu.ListPanes
}

func (m *Model) cycleFocus(step int) {
	ring := m.focusRing()
	idx := slices.Index(ring, m.focus)
	if idx < 0 {
		m.setFocus(ring[0])
		return
	}
	m.setFocus(ring[(idx+step+len(ring))%len(ring)])
}

func (m *Model) setFocus(p menu.Pane) {
	if m.focus == p {
		return
	}
	events.UI.Focus(m.focus.String(), p.String())
	m.focus = p
}

func (m *Model) setAppMode(mode AppMode) {
	if m.appMode == mode {
		return
	}
	events.UI.AppMode(mode.String())
	m.appMode = mode
	if ring := m.focusRing(); !slices.Contains(ring, m.focus) {
		m.setFocus(ring[0])
	}
	m.syncSelection()
}

func (m *Model) menuContext() menu.Context {
	return menu.Context{
		Snapshot: m.snapshot,
		Topic:    m.levels[menu.PaneTopics].CurrentID(),
	}
}

// reloadPanes rebuilds every list from the current snapshot, keeping each
// pane's highlighted entry where it still exists.
func (m *Model) reloadPanes() {
	loaders := menu.Loaders()
	ctx := m.menuContext()
	for _, pane := range []menu.Pane{menu.PaneBrokers, menu.PaneGroups, menu.PaneTopics} {
		m.levels[pane].UpdateItems(loaders[pane](ctx))
	}
	m.reloadPartitions()
}

// reloadPartitions scopes the partitions pane to the highlighted topic. A
// topic change highlights the topic's first partition.
func (m *Model) reloadPartitions() {
	ctx := m.menuContext()
	lvl := m.levels[menu.PanePartitions]
	if ctx.Topic != m.partitionsTopic {
		lvl.Cursor = 0
		lvl.ViewportOffset = 0
		m.partitionsTopic = ctx.Topic
	}
	lvl.UpdateItems(menu.Loaders()[menu.PanePartitions](ctx))
}

func (m *Model) moveList(move func(*level) bool) {
	lvl := m.levels[m.focus]
	if lvl == nil || !move(lvl) {
		return
	}
	m.afterHighlight(m.focus)
}

// afterHighlight propagates a highlight change of pane to the panes and the
// session that depend on it.
func (m *Model) afterHighlight(pane menu.Pane) {
	if pane == menu.PaneTopics {
		m.reloadPartitions()
	}
	m.syncSelection()
}

// syncSelection hands the highlighted partition to the session when it
// differs from the one last selected.
func (m *Model) syncSelection() {
	if m.appMode != AppConsumer {
		return
	}
	id := m.levels[menu.PanePartitions].CurrentID()
	if id == "" || id == m.selected {
		return
	}
	topic, index, ok := menu.ParsePartitionID(id)
	if !ok {
		return
	}
	m.selected = id
	m.bus.Dispatch(command.Select{Topic: topic, Partition: index})
}

func (m *Model) scrollMessage(delta int) {
	m.messageScroll = clampScroll(m.messageScroll+delta, len(m.messageLines), m.layout().messageRows())
}

func (m *Model) pageSize() int {
	lay := m.layout()
	if m.focus == menu.PaneMessage {
		return max(lay.messageRows()-1, 1)
	}
	return max(lay.listRows(m.focus), 1)
}

// syncViewports keeps each highlighted entry and the message scroll inside
// the space the current layout gives them.
func (m *Model) syncViewports() {
	lay := m.layout()
	for pane, lvl := range m.levels {
		if rows := lay.listRows(pane); rows > 0 {
			lvl.Reveal(rows)
		}
	}
	m.messageScroll = clampScroll(m.messageScroll, len(m.messageLines), lay.messageRows())
}

func clampScroll(offset, total, visible int) int {
	return min(max(offset, 0), max(total-visible, 0))
}

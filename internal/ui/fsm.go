package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/kafka2i/internal/kafka"
	"github.com/atomicstack/kafka2i/internal/logging/events"
	"github.com/atomicstack/kafka2i/internal/menu"
	"github.com/atomicstack/kafka2i/internal/ui/command"
)

// Mode is the key-handling state of the UI.
type Mode int

const (
	ModeNormal Mode = iota
	ModeEdit
	ModeHelp
)

func (m Mode) String() string {
	switch m {
	case ModeEdit:
		return "edit"
	case ModeHelp:
		return "help"
	default:
		return "normal"
	}
}

// AppMode is the top-level mode. Producer is a placeholder.
type AppMode int

const (
	AppConsumer AppMode = iota
	AppProducer
)

func (a AppMode) String() string {
	if a == AppProducer {
		return "producer"
	}
	return "consumer"
}

type editPurpose int

const (
	editCommand editPurpose = iota
	editFilter
)

func (p editPurpose) String() string {
	if p == editFilter {
		return "filter"
	}
	return "command"
}

// action is what a key press means in the current mode.
type action int

const (
	actIgnore action = iota
	actQuit
	actHelp
	actFocusNext
	actFocusPrev
	actUp
	actDown
	actPageUp
	actPageDown
	actTop
	actBottom
	actPrevious
	actNext
	actScrollDown
	actScrollUp
	actCommand
	actFilter
	actRefresh
	actConsumer
	actProducer
	actSubmit
	actCancel
	actInput
	actInterrupt
)

type transition func(*Model, tea.KeyMsg) tea.Cmd

// registerTransitions builds the transition table. A (mode, action) pair
// missing from the table is a no-op.
func (m *Model) registerTransitions() {
	m.transitions = map[Mode]map[action]transition{
		ModeNormal: {
			actQuit:       (*Model).quit,
			actHelp:       (*Model).openHelp,
			actFocusNext:  (*Model).focusNext,
			actFocusPrev:  (*Model).focusPrev,
			actUp:         (*Model).moveUp,
			actDown:       (*Model).moveDown,
			actPageUp:     (*Model).pageUp,
			actPageDown:   (*Model).pageDown,
			actTop:        (*Model).moveTop,
			actBottom:     (*Model).moveBottom,
			actPrevious:   (*Model).navigatePrevious,
			actNext:       (*Model).navigateNext,
			actScrollDown: (*Model).scrollDown,
			actScrollUp:   (*Model).scrollUp,
			actCommand:    (*Model).openCommand,
			actFilter:     (*Model).openFilter,
			actRefresh:    (*Model).requestRefresh,
			actConsumer:   (*Model).consumerMode,
			actProducer:   (*Model).producerMode,
		},
		ModeEdit: {
			actSubmit:    (*Model).submitEdit,
			actCancel:    (*Model).cancelEdit,
			actInput:     (*Model).editInput,
			actInterrupt: (*Model).quit,
		},
		ModeHelp: {
			actHelp: (*Model).closeHelp,
			actQuit: (*Model).quit,
		},
	}
}

// resolveAction maps a key to an action. In Edit mode every key other than
// Enter, Escape and ctrl+c is text input.
func (m *Model) resolveAction(msg tea.KeyMsg) action {
	if m.mode == ModeEdit {
		switch msg.Type {
		case tea.KeyEnter:
			return actSubmit
		case tea.KeyEsc:
			return actCancel
		case tea.KeyCtrlC:
			return actInterrupt
		}
		return actInput
	}
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return actQuit
	case key.Matches(msg, k.Help):
		return actHelp
	case key.Matches(msg, k.FocusNext):
		return actFocusNext
	case key.Matches(msg, k.FocusPrev):
		return actFocusPrev
	case key.Matches(msg, k.Up):
		return actUp
	case key.Matches(msg, k.Down):
		return actDown
	case key.Matches(msg, k.PageUp):
		return actPageUp
	case key.Matches(msg, k.PageDown):
		return actPageDown
	case key.Matches(msg, k.Top):
		return actTop
	case key.Matches(msg, k.Bottom):
		return actBottom
	case key.Matches(msg, k.Previous):
		return actPrevious
	case key.Matches(msg, k.Next):
		return actNext
	case key.Matches(msg, k.ScrollDown):
		return actScrollDown
	case key.Matches(msg, k.ScrollUp):
		return actScrollUp
	case key.Matches(msg, k.Command):
		return actCommand
	case key.Matches(msg, k.Filter):
		return actFilter
	case key.Matches(msg, k.Refresh):
		return actRefresh
	case key.Matches(msg, k.Consumer):
		return actConsumer
	case key.Matches(msg, k.Producer):
		return actProducer
	}
	return actIgnore
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	events.UI.Key(m.mode.String(), m.focus.String(), keyMsg.String())
	t, ok := m.transitions[m.mode][m.resolveAction(keyMsg)]
	if !ok {
		return nil
	}
	return t(m, keyMsg)
}

func (m *Model) setMode(to Mode) {
	if m.mode == to {
		return
	}
	events.UI.Mode(m.mode.String(), to.String())
	m.mode = to
}

// commandAllowed reports whether ':' may open the command prompt.
func (m *Model) commandAllowed() bool {
	if m.appMode != AppConsumer {
		return false
	}
	return m.focus == menu.PanePartitions || m.focus == menu.PaneMessage
}

// navigationAllowed reports whether Left/Right step through messages.
func (m *Model) navigationAllowed() bool {
	return m.commandAllowed()
}

func (m *Model) quit(tea.KeyMsg) tea.Cmd {
	m.quitting = true
	return tea.Quit
}

func (m *Model) openHelp(tea.KeyMsg) tea.Cmd {
	m.setMode(ModeHelp)
	return nil
}

func (m *Model) closeHelp(tea.KeyMsg) tea.Cmd {
	m.setMode(ModeNormal)
	return nil
}

func (m *Model) focusNext(tea.KeyMsg) tea.Cmd {
	m.cycleFocus(1)
	return nil
}

func (m *Model) focusPrev(tea.KeyMsg) tea.Cmd {
	m.cycleFocus(-1)
	return nil
}

func (m *Model) moveUp(tea.KeyMsg) tea.Cmd {
	if m.focus == menu.PaneMessage {
		m.scrollMessage(-1)
		return nil
	}
	m.moveList(func(l *level) bool { return l.Step(-1) })
	return nil
}

func (m *Model) moveDown(tea.KeyMsg) tea.Cmd {
	if m.focus == menu.PaneMessage {
		m.scrollMessage(1)
		return nil
	}
	m.moveList(func(l *level) bool { return l.Step(1) })
	return nil
}

func (m *Model) pageUp(tea.KeyMsg) tea.Cmd {
	page := m.pageSize()
	if m.focus == menu.PaneMessage {
		m.scrollMessage(-page)
		return nil
	}
	m.moveList(func(l *level) bool { return l.StepPage(page, -1) })
	return nil
}

func (m *Model) pageDown(tea.KeyMsg) tea.Cmd {
	page := m.pageSize()
	if m.focus == menu.PaneMessage {
		m.scrollMessage(page)
		return nil
	}
	m.moveList(func(l *level) bool { return l.StepPage(page, 1) })
	return nil
}

func (m *Model) moveTop(tea.KeyMsg) tea.Cmd {
	if m.focus == menu.PaneMessage {
		m.messageScroll = 0
		return nil
	}
	m.moveList(func(l *level) bool { return l.Jump(0) })
	return nil
}

func (m *Model) moveBottom(tea.KeyMsg) tea.Cmd {
	if m.focus == menu.PaneMessage {
		m.scrollMessage(len(m.messageLines))
		return nil
	}
	m.moveList(func(l *level) bool { return l.Jump(len(l.Items) - 1) })
	return nil
}

func (m *Model) navigatePrevious(tea.KeyMsg) tea.Cmd {
	if m.navigationAllowed() {
		m.bus.Dispatch(command.Navigate{Direction: kafka.Previous})
	}
	return nil
}

func (m *Model) navigateNext(tea.KeyMsg) tea.Cmd {
	if m.navigationAllowed() {
		m.bus.Dispatch(command.Navigate{Direction: kafka.Next})
	}
	return nil
}

func (m *Model) scrollDown(tea.KeyMsg) tea.Cmd {
	m.scrollMessage(1)
	return nil
}

func (m *Model) scrollUp(tea.KeyMsg) tea.Cmd {
	m.scrollMessage(-1)
	return nil
}

func (m *Model) openCommand(tea.KeyMsg) tea.Cmd {
	if !m.commandAllowed() {
		return nil
	}
	return m.beginEdit(editCommand, "")
}

func (m *Model) openFilter(tea.KeyMsg) tea.Cmd {
	lvl := m.levels[m.focus]
	if lvl == nil {
		return nil
	}
	return m.beginEdit(editFilter, lvl.Filter)
}

func (m *Model) requestRefresh(tea.KeyMsg) tea.Cmd {
	m.bus.Dispatch(command.Refresh{})
	return nil
}

func (m *Model) consumerMode(tea.KeyMsg) tea.Cmd {
	m.setAppMode(AppConsumer)
	return nil
}

func (m *Model) producerMode(tea.KeyMsg) tea.Cmd {
	m.setAppMode(AppProducer)
	return nil
}

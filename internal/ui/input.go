package ui

import (
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/kafka2i/internal/logging/events"
	"github.com/atomicstack/kafka2i/internal/ui/command"
	uistate "github.com/atomicstack/kafka2i/internal/ui/state"
)

func (m *Model) beginEdit(purpose editPurpose, initial string) tea.Cmd {
	m.edit = uistate.NewEditBuffer(initial)
	m.editPurpose = purpose
	m.editErr = nil
	m.setMode(ModeEdit)
	events.Edit.Begin(purpose.String())
	return m.caret.Focus()
}

// endEdit discards the buffer and returns to Normal.
func (m *Model) endEdit() {
	m.edit.Reset()
	m.editErr = nil
	m.caret.Blur()
	m.setMode(ModeNormal)
}

// submitEdit runs the buffer. A command that fails to parse keeps Edit mode
// and the buffer so it can be corrected.
func (m *Model) submitEdit(tea.KeyMsg) tea.Cmd {
	text := m.edit.String()
	events.Edit.Submit(m.editPurpose.String(), text)
	if m.editPurpose == editFilter {
		m.endEdit()
		return nil
	}
	intent, err := command.Parse(text)
	if err != nil {
		m.editErr = err
		events.Command.Rejected(text, err)
		return nil
	}
	events.Command.Parsed(text, intent.Position.String())
	m.endEdit()
	m.bus.Dispatch(intent)
	return nil
}

func (m *Model) cancelEdit(tea.KeyMsg) tea.Cmd {
	events.Edit.Cancel(m.editPurpose.String())
	if m.editPurpose == editFilter {
		m.applyFilter("")
	}
	m.endEdit()
	return nil
}

func (m *Model) editInput(msg tea.KeyMsg) tea.Cmd {
	before := m.edit.String()
	if !m.handleTextInput(msg) {
		return nil
	}
	m.caretDirty = true
	text := m.edit.String()
	if text == before {
		return nil
	}
	m.editErr = nil
	if m.editPurpose == editFilter {
		m.applyFilter(text)
	}
	return nil
}

// applyFilter narrows the focused pane live while the filter is edited.
func (m *Model) applyFilter(query string) {
	lvl := m.levels[m.focus]
	if lvl == nil {
		return
	}
	lvl.SetFilter(query)
	m.afterHighlight(m.focus)
}

func (m *Model) handleTextInput(msg tea.KeyMsg) bool {
	b := &m.edit
	switch msg.String() {
	case "ctrl+u":
		if b.Len() == 0 {
			return false
		}
		b.Reset()
		return true
	case "ctrl+w":
		return b.DeleteWordBackward()
	case "ctrl+a":
		return b.MoveStart()
	case "ctrl+e":
		return b.MoveEnd()
	case "alt+b":
		return b.MoveWordBackward()
	case "alt+f":
		return b.MoveWordForward()
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		return b.DeleteBackward()
	case tea.KeyDelete:
		return b.DeleteForward()
	case tea.KeyLeft:
		return b.MoveRuneBackward()
	case tea.KeyRight:
		return b.MoveRuneForward()
	case tea.KeyHome:
		return b.MoveStart()
	case tea.KeyEnd:
		return b.MoveEnd()
	case tea.KeySpace:
		return b.Insert(" ")
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return false
		}
		for _, r := range msg.Runes {
			if unicode.IsControl(r) {
				return false
			}
		}
		return b.Insert(string(msg.Runes))
	}
	return false
}

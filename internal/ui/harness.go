package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Harness drives the UI model programmatically for integration tests.
// Commands run on their own goroutines, as they would under a tea.Program;
// their messages are only applied to the model by Await, on the caller's
// goroutine.
type Harness struct {
	model *Model
	msgs  chan tea.Msg
	quit  bool
}

// NewHarness creates a harness for the provided model and runs its Init
// command.
func NewHarness(model *Model) *Harness {
	h := &Harness{model: model, msgs: make(chan tea.Msg, 256)}
	if model != nil {
		h.run(model.Init())
	}
	return h
}

// Send routes a message through the model. Returned commands run in the
// background.
func (h *Harness) Send(msg tea.Msg) {
	if h.model == nil {
		return
	}
	h.deliver(msg)
}

// Await applies background messages until cond holds or timeout elapses,
// and reports whether cond was met.
func (h *Harness) Await(cond func(*Model) bool, timeout time.Duration) bool {
	if h.model == nil {
		return false
	}
	deadline := time.After(timeout)
	for !cond(h.model) {
		select {
		case msg := <-h.msgs:
			h.deliver(msg)
		case <-deadline:
			return false
		}
	}
	return true
}

func (h *Harness) deliver(msg tea.Msg) {
	switch msg := msg.(type) {
	case tea.BatchMsg:
		for _, cmd := range msg {
			h.run(cmd)
		}
		return
	case tea.QuitMsg:
		h.quit = true
		return
	}
	mdl, cmd := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	h.run(cmd)
}

func (h *Harness) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	go func() {
		if msg := cmd(); msg != nil {
			h.msgs <- msg
		}
	}()
}

// Quit reports whether a tea.Quit command has been delivered.
func (h *Harness) Quit() bool {
	return h.quit
}

// View returns the current view string.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

// Model exposes the underlying model.
func (h *Harness) Model() *Model {
	return h.model
}

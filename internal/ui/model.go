package ui

import (
	"reflect"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/kafka2i/internal/backend"
	"github.com/atomicstack/kafka2i/internal/data/dispatcher"
	"github.com/atomicstack/kafka2i/internal/menu"
	"github.com/atomicstack/kafka2i/internal/session"
	"github.com/atomicstack/kafka2i/internal/state"
	"github.com/atomicstack/kafka2i/internal/theme"
	"github.com/atomicstack/kafka2i/internal/ui/command"
	uistate "github.com/atomicstack/kafka2i/internal/ui/state"
)

type level = uistate.Level

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Session is the controller surface the UI drives. Its methods must not
// block; results arrive on Updates.
type Session interface {
	command.Session
	Updates() <-chan session.Cursor
}

// Options configures a Model. Every collaborator is optional.
type Options struct {
	Width      int
	Height     int
	ShowFooter bool
	Highlight  bool
	Store      *state.Store
	Watcher    *backend.Watcher
	Session    Session
	// Clock defaults to time.Now; it feeds the refresh age in the status line.
	Clock func() time.Time
}

// Model implements the Bubble Tea model for the cluster browser.
type Model struct {
	mode    Mode
	appMode AppMode
	focus   menu.Pane
	levels  map[menu.Pane]*level
	// partitionsTopic is the topic the partitions pane was last loaded for.
	partitionsTopic string
	// selected is the partition ID last handed to the session.
	selected string

	edit        uistate.EditBuffer
	editPurpose editPurpose
	editErr     error
	caret       cursor.Model
	caretDirty  bool

	cursor        session.Cursor
	messageLines  []string
	messageScroll int

	snapshot *state.ClusterSnapshot
	status   state.Status

	keys        keyMap
	help        help.Model
	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	highlight   bool
	quitting    bool
	now         time.Time
	clock       func() time.Time

	store      *state.Store
	watcher    *backend.Watcher
	updates    <-chan session.Cursor
	dispatcher *dispatcher.Dispatcher
	bus        *command.Bus

	handlers    map[reflect.Type]msgHandler
	transitions map[Mode]map[action]transition
}

// NewModel initialises the UI with empty panes and Brokers focused.
func NewModel(opts Options) *Model {
	store := opts.Store
	if store == nil {
		store = state.NewStore(0)
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	var (
		sess      command.Session
		refresher command.Refresher
		updates   <-chan session.Cursor
	)
	if opts.Session != nil {
		sess = opts.Session
		updates = opts.Session.Updates()
	}
	if opts.Watcher != nil {
		refresher = opts.Watcher
	}
	m := &Model{
		mode:       ModeNormal,
		appMode:    AppConsumer,
		focus:      menu.PaneBrokers,
		levels:     make(map[menu.Pane]*level, len(menu.ListPanes)),
		keys:       defaultKeyMap(),
		help:       help.New(),
		showFooter: opts.ShowFooter,
		highlight:  opts.Highlight,
		clock:      clock,
		now:        clock(),
		store:      store,
		snapshot:   store.Snapshot(),
		status:     store.Status(),
		watcher:    opts.Watcher,
		updates:    updates,
		dispatcher: dispatcher.New(store),
		bus:        command.New(sess, refresher),
	}
	for _, pane := range menu.ListPanes {
		m.levels[pane] = uistate.NewLevel(pane, pane.String(), nil)
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.help.ShowAll = true
	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = *styles.Cursor
	}
	if styles.Input != nil {
		c.TextStyle = *styles.Input
	}
	m.caret = c
	m.reloadPanes()
	m.registerHandlers()
	m.registerTransitions()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tick()}
	if m.watcher != nil {
		cmds = append(cmds, waitForBackendEvent(m.watcher))
	}
	if m.updates != nil {
		cmds = append(cmds, waitForSessionUpdate(m.updates))
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if cmd := m.updateCaret(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
		reflect.TypeOf(sessionUpdateMsg{}):  m.handleSessionUpdateMsg,
		reflect.TypeOf(sessionDoneMsg{}):    m.handleSessionDoneMsg,
		reflect.TypeOf(tickMsg{}):           m.handleTickMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	m.syncViewports()
	if m.caretDirty {
		m.caretDirty = false
		m.caret.Blink = false
		if m.mode == ModeEdit {
			if cmd := m.caret.BlinkCmd(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) updateCaret(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.caret, cmd = m.caret.Update(msg)
	return cmd
}

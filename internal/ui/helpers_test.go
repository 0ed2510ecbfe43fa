package ui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/kafka2i/internal/backend"
	"github.com/atomicstack/kafka2i/internal/kafka"
	"github.com/atomicstack/kafka2i/internal/menu"
	"github.com/atomicstack/kafka2i/internal/session"
	"github.com/atomicstack/kafka2i/internal/state"
)

type recordingSession struct {
	selects []string
	seeks   []kafka.Position
	navs    []kafka.Direction
	updates chan session.Cursor
}

func newRecordingSession() *recordingSession {
	return &recordingSession{updates: make(chan session.Cursor, 1)}
}

func (r *recordingSession) SelectPartition(topic string, partition int32) {
	r.selects = append(r.selects, kafka.PartitionName(topic, partition))
}

func (r *recordingSession) Seek(pos kafka.Position) {
	r.seeks = append(r.seeks, pos)
}

func (r *recordingSession) Navigate(dir kafka.Direction) {
	r.navs = append(r.navs, dir)
}

func (r *recordingSession) Updates() <-chan session.Cursor {
	return r.updates
}

func fixtureSnapshot() *state.ClusterSnapshot {
	return &state.ClusterSnapshot{
		Brokers: []kafka.Broker{
			{ID: 1, Host: "localhost", Port: 9092, Controller: true},
			{ID: 2, Host: "localhost", Port: 9093},
		},
		Groups: []kafka.ConsumerGroup{
			{ID: "billing", State: "Stable", ProtocolType: "consumer", Members: 2, Coordinator: 1},
		},
		Topics: []kafka.Topic{
			{Name: "orders", Partitions: 2},
			{Name: "payments", Partitions: 1},
		},
		Partitions: []kafka.Partition{
			{Topic: "orders", Index: 0, Leader: 1, Replicas: []int32{1, 2}, ISR: []int32{1, 2}, Low: 0, High: 10},
			{Topic: "orders", Index: 1, Leader: 2, Replicas: []int32{1, 2}, ISR: []int32{2}, Low: 5, High: 5},
			{Topic: "payments", Index: 0, Leader: 1, Replicas: []int32{1}, ISR: []int32{1}, Low: 0, High: 3},
		},
		FetchedAt: time.Now(),
	}
}

var errBrokerDown = errors.New("broker down")

func backendEvent(snap *state.ClusterSnapshot, err error) backend.Event {
	return backend.Event{Trigger: backend.TriggerTick, Snapshot: snap, Err: err}
}

// loadedModel returns a model fed with the fixture snapshot.
func loadedModel(t *testing.T, opts Options) (*Model, *recordingSession) {
	t.Helper()
	rec := newRecordingSession()
	opts.Session = rec
	if opts.Width == 0 {
		opts.Width = 120
	}
	if opts.Height == 0 {
		opts.Height = 30
	}
	m := NewModel(opts)
	send(m, backendEventMsg{event: backendEvent(fixtureSnapshot(), nil)})
	return m, rec
}

// send applies msg without running the returned commands.
func send(m *Model, msg tea.Msg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyType(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func typeText(m *Model, text string) {
	for _, r := range text {
		send(m, keyRunes(string(r)))
	}
}

// focusPane tabs until target holds focus.
func focusPane(t *testing.T, m *Model, target menu.Pane) {
	t.Helper()
	for i := 0; i < len(consumerRing); i++ {
		if m.focus == target {
			return
		}
		send(m, keyType(tea.KeyTab))
	}
	if m.focus != target {
		t.Fatalf("expected to reach %s, focus is %s", target, m.focus)
	}
}

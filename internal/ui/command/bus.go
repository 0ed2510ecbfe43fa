package command

import (
	"github.com/atomicstack/kafka2i/internal/kafka"
	"github.com/atomicstack/kafka2i/internal/logging/events"
)

// Intent is an outbound request from the UI.
type Intent interface {
	Name() string
}

// Seek moves the cursor to an explicit position.
type Seek struct {
	Position kafka.Position
}

// Navigate steps the cursor one message.
type Navigate struct {
	Direction kafka.Direction
}

// Select makes a partition the active one.
type Select struct {
	Topic     string
	Partition int32
}

// Refresh asks for fresh cluster metadata.
type Refresh struct{}

func (Seek) Name() string     { return "seek" }
func (Navigate) Name() string { return "navigate" }
func (Select) Name() string   { return "select" }
func (Refresh) Name() string  { return "refresh" }

// Session is the part of the session controller the bus drives. Every
// method must return without blocking.
type Session interface {
	SelectPartition(topic string, partition int32)
	Seek(pos kafka.Position)
	Navigate(dir kafka.Direction)
}

// Refresher triggers an out-of-band metadata refresh.
type Refresher interface {
	RequestRefresh()
}

// Bus routes intents to their handlers in call order.
type Bus struct {
	session   Session
	refresher Refresher
}

// New initialises a command bus. Either collaborator may be nil, in which
// case intents for it are dropped.
func New(session Session, refresher Refresher) *Bus {
	return &Bus{session: session, refresher: refresher}
}

// Dispatch delivers intent and reports whether a handler accepted it.
func (b *Bus) Dispatch(intent Intent) bool {
	if b == nil || intent == nil {
		return false
	}
	events.Command.Dispatch(intent.Name(), intent)
	switch in := intent.(type) {
	case Seek:
		if b.session == nil {
			return false
		}
		b.session.Seek(in.Position)
	case Navigate:
		if b.session == nil {
			return false
		}
		b.session.Navigate(in.Direction)
	case Select:
		if b.session == nil {
			return false
		}
		b.session.SelectPartition(in.Topic, in.Partition)
	case Refresh:
		if b.refresher == nil {
			return false
		}
		b.refresher.RequestRefresh()
	default:
		return false
	}
	return true
}

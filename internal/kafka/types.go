package kafka

import (
	"fmt"
	"time"
)

// Config is the connection descriptor handed to the core. Everything
// credential-related stays inside this package.
type Config struct {
	BootstrapServers []string
	ClientID         string
	SASLMechanism    string
	Username         string
	Password         string
	TLSEnabled       bool
	TLSCertFile      string
	TLSKeyFile       string
	TLSCAFile        string
	Timeout          time.Duration
}

// Broker describes a cluster member.
type Broker struct {
	ID         int32
	Host       string
	Port       int32
	Rack       string
	Controller bool
}

// Addr returns host:port.
func (b Broker) Addr() string {
	return fmt.Sprintf("%s:%d", b.Host, b.Port)
}

// ConsumerGroup describes a group known to the cluster.
type ConsumerGroup struct {
	ID           string
	State        string
	ProtocolType string
	Members      int
	Coordinator  int32
}

// Topic describes a topic and its partition count.
type Topic struct {
	Name       string
	Partitions int
	Internal   bool
}

// Partition describes one partition with its watermarks.
type Partition struct {
	Topic    string
	Index    int32
	Leader   int32
	Replicas []int32
	ISR      []int32
	Low      int64
	High     int64
}

// Name returns the "topic/index" label.
func (p Partition) Name() string {
	return PartitionName(p.Topic, p.Index)
}

// Watermarks returns the partition's low and high watermark.
func (p Partition) Watermarks() Watermarks {
	return Watermarks{Low: p.Low, High: p.High}
}

// PartitionName formats a partition identity.
func PartitionName(topic string, index int32) string {
	return fmt.Sprintf("%s/%d", topic, index)
}

// Watermarks bounds the available offsets of a partition: [Low, High).
type Watermarks struct {
	Low  int64
	High int64
}

// Empty reports whether the partition holds no messages.
func (w Watermarks) Empty() bool {
	return w.High <= w.Low
}

// Contains reports whether offset addresses an existing message.
func (w Watermarks) Contains(offset int64) bool {
	return offset >= w.Low && offset < w.High
}

// PositionKind selects how a Position is interpreted.
type PositionKind int

const (
	PositionOffset PositionKind = iota
	PositionTimestamp
)

// Position is where AssignAndFetch starts reading.
type Position struct {
	Kind  PositionKind
	Value int64
}

// AtOffset returns an explicit offset position.
func AtOffset(offset int64) Position {
	return Position{Kind: PositionOffset, Value: offset}
}

// AtTimestamp returns a position resolving to the first message whose
// timestamp is at or after ms.
func AtTimestamp(ms int64) Position {
	return Position{Kind: PositionTimestamp, Value: ms}
}

func (p Position) String() string {
	if p.Kind == PositionTimestamp {
		return fmt.Sprintf("ts %d", p.Value)
	}
	return fmt.Sprintf("offset %d", p.Value)
}

// Direction is used when stepping through a partition.
type Direction int

const (
	Previous Direction = iota
	Next
)

func (d Direction) String() string {
	if d == Next {
		return "next"
	}
	return "previous"
}

// Step returns the offset adjacent to offset in this direction.
func (d Direction) Step(offset int64) int64 {
	if d == Next {
		return offset + 1
	}
	return offset - 1
}

// Header is a record header.
type Header struct {
	Key   string
	Value []byte
}

// Message is a single fetched record.
type Message struct {
	Topic     string
	Partition int32
	Offset    int64
	Timestamp time.Time
	Key       []byte
	Value     []byte
	Headers   []Header
}

// TimestampMillis returns the record timestamp in epoch milliseconds.
func (m Message) TimestampMillis() int64 {
	if m.Timestamp.IsZero() {
		return 0
	}
	return m.Timestamp.UnixMilli()
}

// Package testutil provides an in-memory kafka.Cluster for tests across
// packages.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/atomicstack/kafka2i/internal/kafka"
	"github.com/twmb/franz-go/pkg/kerr"
)

// Method names accepted by SetError and Calls.
const (
	MethodListBrokers    = "ListBrokers"
	MethodListGroups     = "ListConsumerGroups"
	MethodListTopics     = "ListTopicsAndPartitions"
	MethodWatermarks     = "Watermarks"
	MethodAssignAndFetch = "AssignAndFetch"
	MethodFetchAdjacent  = "FetchAdjacent"
)

type partitionLog struct {
	leader   int32
	low      int64
	messages []kafka.Message
}

func (p *partitionLog) high() int64 {
	return p.low + int64(len(p.messages))
}

// Cluster is a fake kafka.Cluster. Messages are addressed by offset and
// retention is simulated by raising the low watermark.
type Cluster struct {
	mu      sync.Mutex
	brokers []kafka.Broker
	groups  []kafka.ConsumerGroup
	topics  map[string][]*partitionLog
	errs    map[string]error
	gates   map[int64]chan struct{}
	calls   map[string]int
	closed  bool
}

var _ kafka.Cluster = (*Cluster)(nil)

// NewCluster returns an empty fake cluster with a single broker.
func NewCluster() *Cluster {
	return &Cluster{
		brokers: []kafka.Broker{{ID: 1, Host: "localhost", Port: 9092, Controller: true}},
		topics:  make(map[string][]*partitionLog),
		errs:    make(map[string]error),
		gates:   make(map[int64]chan struct{}),
		calls:   make(map[string]int),
	}
}

// SetBrokers replaces the broker list.
func (c *Cluster) SetBrokers(brokers ...kafka.Broker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.brokers = append([]kafka.Broker(nil), brokers...)
}

// AddGroup registers a consumer group.
func (c *Cluster) AddGroup(id, state string, members int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.groups = append(c.groups, kafka.ConsumerGroup{ID: id, State: state, ProtocolType: "consumer", Members: members, Coordinator: 1})
}

// AddTopic creates a topic with the given number of empty partitions.
func (c *Cluster) AddTopic(name string, partitions int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	logs := make([]*partitionLog, partitions)
	for i := range logs {
		logs[i] = &partitionLog{leader: 1}
	}
	c.topics[name] = logs
}

// Produce appends a message and returns its offset.
func (c *Cluster) Produce(topic string, partition int32, ts time.Time, key, value string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	log := c.topics[topic][partition]
	offset := log.high()
	log.messages = append(log.messages, kafka.Message{
		Topic:     topic,
		Partition: partition,
		Offset:    offset,
		Timestamp: ts,
		Key:       []byte(key),
		Value:     []byte(value),
	})
	return offset
}

// ProduceN appends n messages with timestamps one second apart starting at
// base and values "msg-<offset>".
func (c *Cluster) ProduceN(topic string, partition int32, n int, base time.Time) {
	for i := 0; i < n; i++ {
		c.mu.Lock()
		next := c.topics[topic][partition].high()
		c.mu.Unlock()
		c.Produce(topic, partition, base.Add(time.Duration(i)*time.Second), fmt.Sprintf("key-%d", next), fmt.Sprintf("msg-%d", next))
	}
}

// Truncate drops messages below low, as retention would.
func (c *Cluster) Truncate(topic string, partition int32, low int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	log := c.topics[topic][partition]
	drop := low - log.low
	if drop <= 0 {
		return
	}
	if drop > int64(len(log.messages)) {
		drop = int64(len(log.messages))
	}
	log.messages = log.messages[drop:]
	log.low += drop
}

// SetError makes method fail with err until cleared with a nil error.
func (c *Cluster) SetError(method string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		delete(c.errs, method)
		return
	}
	c.errs[method] = err
}

// Hold blocks fetches targeting offset until the returned release func is
// called or the fetch context ends.
func (c *Cluster) Hold(offset int64) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	gate := make(chan struct{})
	c.gates[offset] = gate
	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			if c.gates[offset] == gate {
				delete(c.gates, offset)
			}
			c.mu.Unlock()
			close(gate)
		})
	}
}

// Calls returns how often method was invoked.
func (c *Cluster) Calls(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[method]
}

// Closed reports whether Close was called.
func (c *Cluster) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Cluster) enter(method string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[method]++
	return c.errs[method]
}

func (c *Cluster) ListBrokers(ctx context.Context) ([]kafka.Broker, error) {
	if err := c.enter(MethodListBrokers); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]kafka.Broker(nil), c.brokers...), nil
}

func (c *Cluster) ListConsumerGroups(ctx context.Context) ([]kafka.ConsumerGroup, error) {
	if err := c.enter(MethodListGroups); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	groups := append([]kafka.ConsumerGroup(nil), c.groups...)
	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
	return groups, nil
}

func (c *Cluster) ListTopicsAndPartitions(ctx context.Context) ([]kafka.Topic, []kafka.Partition, error) {
	if err := c.enter(MethodListTopics); err != nil {
		return nil, nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.topics))
	for name := range c.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	var topics []kafka.Topic
	var partitions []kafka.Partition
	for _, name := range names {
		logs := c.topics[name]
		topics = append(topics, kafka.Topic{Name: name, Partitions: len(logs)})
		for i, log := range logs {
			partitions = append(partitions, kafka.Partition{
				Topic:    name,
				Index:    int32(i),
				Leader:   log.leader,
				Replicas: []int32{log.leader},
				ISR:      []int32{log.leader},
				Low:      log.low,
				High:     log.high(),
			})
		}
	}
	return topics, partitions, nil
}

func (c *Cluster) Watermarks(ctx context.Context, topic string, partition int32) (kafka.Watermarks, error) {
	if err := c.enter(MethodWatermarks); err != nil {
		return kafka.Watermarks{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	log, err := c.lookup(topic, partition)
	if err != nil {
		return kafka.Watermarks{}, err
	}
	return kafka.Watermarks{Low: log.low, High: log.high()}, nil
}

func (c *Cluster) AssignAndFetch(ctx context.Context, topic string, partition int32, pos kafka.Position) (kafka.Message, error) {
	if err := c.enter(MethodAssignAndFetch); err != nil {
		return kafka.Message{}, err
	}
	offset := pos.Value
	if pos.Kind == kafka.PositionTimestamp {
		resolved, err := c.resolveTimestamp(topic, partition, pos.Value)
		if err != nil {
			return kafka.Message{}, err
		}
		offset = resolved
	}
	return c.fetch(ctx, topic, partition, offset)
}

func (c *Cluster) FetchAdjacent(ctx context.Context, topic string, partition int32, offset int64, dir kafka.Direction) (kafka.Message, error) {
	if err := c.enter(MethodFetchAdjacent); err != nil {
		return kafka.Message{}, err
	}
	return c.fetch(ctx, topic, partition, dir.Step(offset))
}

func (c *Cluster) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *Cluster) lookup(topic string, partition int32) (*partitionLog, error) {
	logs, ok := c.topics[topic]
	if !ok || partition < 0 || int(partition) >= len(logs) {
		return nil, kafka.ErrPartitionNotFound
	}
	return logs[partition], nil
}

func (c *Cluster) resolveTimestamp(topic string, partition int32, ms int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	log, err := c.lookup(topic, partition)
	if err != nil {
		return 0, err
	}
	for _, msg := range log.messages {
		if msg.Timestamp.UnixMilli() >= ms {
			return msg.Offset, nil
		}
	}
	return 0, kafka.ErrNoMessageAtTimestamp
}

func (c *Cluster) fetch(ctx context.Context, topic string, partition int32, offset int64) (kafka.Message, error) {
	c.mu.Lock()
	gate := c.gates[offset]
	c.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return kafka.Message{}, ctx.Err()
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	log, err := c.lookup(topic, partition)
	if err != nil {
		return kafka.Message{}, err
	}
	if offset < log.low || offset >= log.high() {
		return kafka.Message{}, kerr.OffsetOutOfRange
	}
	return log.messages[offset-log.low], nil
}

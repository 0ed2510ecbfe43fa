package state

import (
	"time"

	"github.com/atomicstack/kafka2i/internal/kafka"
)

// ClusterSnapshot is an immutable view of the cluster. A snapshot is built
// once by Refresh and then only read; refreshes publish a new one.
type ClusterSnapshot struct {
	Brokers    []kafka.Broker
	Groups     []kafka.ConsumerGroup
	Topics     []kafka.Topic
	Partitions []kafka.Partition
	FetchedAt  time.Time
}

var emptySnapshot = &ClusterSnapshot{}

// Empty reports whether the snapshot has never been filled.
func (s *ClusterSnapshot) Empty() bool {
	return s == nil || s.FetchedAt.IsZero()
}

// PartitionsFor returns the partitions of topic in index order.
func (s *ClusterSnapshot) PartitionsFor(topic string) []kafka.Partition {
	if s == nil {
		return nil
	}
	var out []kafka.Partition
	for _, p := range s.Partitions {
		if p.Topic == topic {
			out = append(out, p)
		}
	}
	return out
}

// Partition looks up a single partition.
func (s *ClusterSnapshot) Partition(topic string, index int32) (kafka.Partition, bool) {
	if s == nil {
		return kafka.Partition{}, false
	}
	for _, p := range s.Partitions {
		if p.Topic == topic && p.Index == index {
			return p, true
		}
	}
	return kafka.Partition{}, false
}

// Topic looks up a topic by name.
func (s *ClusterSnapshot) Topic(name string) (kafka.Topic, bool) {
	if s == nil {
		return kafka.Topic{}, false
	}
	for _, t := range s.Topics {
		if t.Name == name {
			return t, true
		}
	}
	return kafka.Topic{}, false
}

// LeaderCount returns how many partitions broker id leads.
func (s *ClusterSnapshot) LeaderCount(id int32) int {
	if s == nil {
		return 0
	}
	n := 0
	for _, p := range s.Partitions {
		if p.Leader == id {
			n++
		}
	}
	return n
}

// MessageCount sums high-low over the partitions of topic.
func (s *ClusterSnapshot) MessageCount(topic string) int64 {
	var total int64
	for _, p := range s.PartitionsFor(topic) {
		if p.High > p.Low {
			total += p.High - p.Low
		}
	}
	return total
}

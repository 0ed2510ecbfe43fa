package kafka

import (
	"context"
	"errors"
)

var (
	// ErrNoMessageAtTimestamp is returned when a timestamp resolves past the
	// last message of a partition.
	ErrNoMessageAtTimestamp = errors.New("no message at or after timestamp")
	// ErrPartitionNotFound is returned when the cluster does not know the
	// requested partition.
	ErrPartitionNotFound = errors.New("partition not found")
	// ErrNoRecord is returned when a fetch produced no record before the
	// request timeout elapsed.
	ErrNoRecord = errors.New("no record received before timeout")
)

// Cluster is the connection capability consumed by the metadata cache and
// the session controller.
type Cluster interface {
	ListBrokers(ctx context.Context) ([]Broker, error)
	ListConsumerGroups(ctx context.Context) ([]ConsumerGroup, error)
	ListTopicsAndPartitions(ctx context.Context) ([]Topic, []Partition, error)
	Watermarks(ctx context.Context, topic string, partition int32) (Watermarks, error)
	AssignAndFetch(ctx context.Context, topic string, partition int32, pos Position) (Message, error)
	FetchAdjacent(ctx context.Context, topic string, partition int32, offset int64, dir Direction) (Message, error)
	Close()
}

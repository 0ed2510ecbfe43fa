package state

import (
	"context"
	"time"

	kerrors "github.com/atomicstack/kafka2i/internal/errors"
	"github.com/atomicstack/kafka2i/internal/kafka"
)

// Refresh queries the cluster and builds a complete snapshot. Any failing
// listing fails the refresh as a whole.
func Refresh(ctx context.Context, cluster kafka.Cluster) (*ClusterSnapshot, error) {
	brokers, err := cluster.ListBrokers(ctx)
	if err != nil {
		return nil, kerrors.ConnectionFailed("state.Refresh", err)
	}
	groups, err := cluster.ListConsumerGroups(ctx)
	if err != nil {
		return nil, kerrors.ConnectionFailed("state.Refresh", err)
	}
	topics, partitions, err := cluster.ListTopicsAndPartitions(ctx)
	if err != nil {
		return nil, kerrors.ConnectionFailed("state.Refresh", err)
	}
	return &ClusterSnapshot{
		Brokers:    brokers,
		Groups:     groups,
		Topics:     topics,
		Partitions: partitions,
		FetchedAt:  time.Now(),
	}, nil
}

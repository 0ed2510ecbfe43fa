package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
)

const defaultTimeout = 30 * time.Second

// Client implements Cluster on top of franz-go. Metadata goes through a
// kadm admin client; message fetches use a separate consuming client that is
// explicitly assigned one partition at a time and never joins a group.
type Client struct {
	cfg    Config
	opts   []kgo.Opt
	client *kgo.Client
	admin  *kadm.Client

	// mu serializes fetches on the consuming client.
	mu       sync.Mutex
	consumer *kgo.Client
	assigned assignment
}

type assignment struct {
	topic     string
	partition int32
}

var _ Cluster = (*Client)(nil)

// NewClient builds the admin client. No connection is made until the first
// request, so an unreachable cluster surfaces as a refresh failure rather
// than a startup error.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	opts, err := clientOptions(cfg)
	if err != nil {
		return nil, err
	}
	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka client: %w", err)
	}
	return &Client{
		cfg:    cfg,
		opts:   opts,
		client: client,
		admin:  kadm.NewClient(client),
	}, nil
}

// Close closes the admin and consuming clients.
func (c *Client) Close() {
	c.mu.Lock()
	if c.consumer != nil {
		c.consumer.Close()
		c.consumer = nil
	}
	c.mu.Unlock()
	if c.client != nil {
		c.client.Close()
	}
}

func (c *Client) ListBrokers(ctx context.Context) ([]Broker, error) {
	var md kadm.Metadata
	if err := withRetry(ctx, "fetch broker metadata", func() error {
		var metaErr error
		md, metaErr = c.admin.BrokerMetadata(ctx)
		return metaErr
	}); err != nil {
		return nil, fmt.Errorf("failed to fetch broker metadata: %w", err)
	}
	return brokersFromMetadata(md), nil
}

func (c *Client) ListConsumerGroups(ctx context.Context) ([]ConsumerGroup, error) {
	var listed kadm.ListedGroups
	if err := withRetry(ctx, "list consumer groups", func() error {
		var listErr error
		listed, listErr = c.admin.ListGroups(ctx)
		return listErr
	}); err != nil {
		return nil, fmt.Errorf("failed to list consumer groups: %w", err)
	}
	if len(listed) == 0 {
		return nil, nil
	}
	described, err := c.admin.DescribeGroups(ctx, listed.Groups()...)
	if err != nil {
		// The listing alone still fills the pane.
		slog.Warn("failed to describe consumer groups", "error", err, "consumer_group_count", len(listed))
		described = nil
	}
	return groupsFromListing(listed, described), nil
}

func (c *Client) ListTopicsAndPartitions(ctx context.Context) ([]Topic, []Partition, error) {
	var md kadm.Metadata
	if err := withRetry(ctx, "fetch topic metadata", func() error {
		var metaErr error
		md, metaErr = c.admin.Metadata(ctx)
		return metaErr
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to fetch topic metadata: %w", err)
	}
	if len(md.Topics) == 0 {
		return nil, nil, nil
	}
	names := md.Topics.Names()
	var starts, ends kadm.ListedOffsets
	if err := withRetry(ctx, "list start offsets", func() error {
		var listErr error
		starts, listErr = c.admin.ListStartOffsets(ctx, names...)
		return listErr
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to list start offsets: %w", err)
	}
	if err := withRetry(ctx, "list end offsets", func() error {
		var listErr error
		ends, listErr = c.admin.ListEndOffsets(ctx, names...)
		return listErr
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to list end offsets: %w", err)
	}
	topics, partitions := topicsFromMetadata(md, starts, ends)
	return topics, partitions, nil
}

func (c *Client) Watermarks(ctx context.Context, topic string, partition int32) (Watermarks, error) {
	var starts, ends kadm.ListedOffsets
	if err := withRetry(ctx, "list watermarks", func() error {
		var listErr error
		if starts, listErr = c.admin.ListStartOffsets(ctx, topic); listErr != nil {
			return listErr
		}
		ends, listErr = c.admin.ListEndOffsets(ctx, topic)
		return listErr
	}); err != nil {
		return Watermarks{}, fmt.Errorf("failed to list watermarks for %s: %w", PartitionName(topic, partition), err)
	}
	low, err := listedOffset(starts, topic, partition)
	if err != nil {
		return Watermarks{}, err
	}
	high, err := listedOffset(ends, topic, partition)
	if err != nil {
		return Watermarks{}, err
	}
	return Watermarks{Low: low, High: high}, nil
}

func (c *Client) AssignAndFetch(ctx context.Context, topic string, partition int32, pos Position) (Message, error) {
	offset := pos.Value
	if pos.Kind == PositionTimestamp {
		resolved, err := c.resolveTimestamp(ctx, topic, partition, pos.Value)
		if err != nil {
			return Message{}, err
		}
		offset = resolved
	}
	return c.fetchAt(ctx, topic, partition, offset)
}

func (c *Client) FetchAdjacent(ctx context.Context, topic string, partition int32, offset int64, dir Direction) (Message, error) {
	return c.fetchAt(ctx, topic, partition, dir.Step(offset))
}

func (c *Client) resolveTimestamp(ctx context.Context, topic string, partition int32, ms int64) (int64, error) {
	var listed kadm.ListedOffsets
	if err := withRetry(ctx, "list offsets after timestamp", func() error {
		var listErr error
		listed, listErr = c.admin.ListOffsetsAfterMilli(ctx, ms, topic)
		return listErr
	}); err != nil {
		return 0, fmt.Errorf("failed to resolve timestamp %d: %w", ms, err)
	}
	offset, err := listedOffset(listed, topic, partition)
	if err != nil {
		return 0, err
	}
	wm, err := c.Watermarks(ctx, topic, partition)
	if err != nil {
		return 0, err
	}
	return resolveTimestampOffset(offset, wm)
}

// fetchAt returns the first record at or after offset.
func (c *Client) fetchAt(ctx context.Context, topic string, partition int32, offset int64) (Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var msg Message
	err := retry(ctx, fetchBackoff, "fetch "+PartitionName(topic, partition), func() error {
		consumer, err := c.assign(topic, partition, offset)
		if err != nil {
			return err
		}
		msg, err = c.poll(ctx, consumer, topic, partition, offset)
		return err
	})
	return msg, err
}

// assign points the consuming client at offset. Seeks within the current
// partition reuse the client; any other partition replaces it.
func (c *Client) assign(topic string, partition int32, offset int64) (*kgo.Client, error) {
	target := assignment{topic: topic, partition: partition}
	if c.consumer != nil && c.assigned == target {
		c.consumer.SetOffsets(map[string]map[int32]kgo.EpochOffset{
			topic: {partition: {Epoch: -1, Offset: offset}},
		})
		return c.consumer, nil
	}
	if c.consumer != nil {
		c.consumer.Close()
		c.consumer = nil
	}
	opts := append(append([]kgo.Opt(nil), c.opts...),
		kgo.ConsumePartitions(map[string]map[int32]kgo.Offset{
			topic: {partition: kgo.NewOffset().At(offset)},
		}),
		kgo.ConsumeResetOffset(kgo.NoResetOffset()),
		kgo.FetchMaxWait(500*time.Millisecond),
	)
	consumer, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to assign %s: %w", PartitionName(topic, partition), err)
	}
	c.consumer = consumer
	c.assigned = target
	return consumer, nil
}

func (c *Client) poll(ctx context.Context, consumer *kgo.Client, topic string, partition int32, offset int64) (Message, error) {
	pollCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()
	for {
		fetches := consumer.PollFetches(pollCtx)
		if err := ctx.Err(); err != nil {
			return Message{}, err
		}
		if pollCtx.Err() != nil {
			return Message{}, fmt.Errorf("%s at offset %d: %w", PartitionName(topic, partition), offset, ErrNoRecord)
		}
		if fetches.IsClientClosed() {
			return Message{}, kgo.ErrClientClosed
		}
		var fetchErr error
		fetches.EachError(func(t string, p int32, err error) {
			if t == topic && p == partition && fetchErr == nil && !errors.Is(err, context.Canceled) {
				fetchErr = err
			}
		})
		if fetchErr != nil {
			return Message{}, fetchErr
		}
		var found *kgo.Record
		fetches.EachRecord(func(r *kgo.Record) {
			if found == nil && r.Topic == topic && r.Partition == partition && r.Offset >= offset {
				found = r
			}
		})
		if found != nil {
			return messageFromRecord(found), nil
		}
	}
}

package session

import (
	"github.com/atomicstack/kafka2i/internal/kafka"
)

// Cursor is a published, immutable view of the active partition. The
// controller replaces it wholesale on every change.
type Cursor struct {
	Topic     string
	Partition int32
	// Selected is false until a partition has been chosen.
	Selected bool

	Offset    int64
	HasOffset bool
	Message   *kafka.Message
	Err       error

	// Seq is the latest request sequence number issued for this cursor.
	Seq uint64
	// Version increases with every publication, across partitions.
	Version uint64

	Pending bool
	// Target is where the pending request is headed. It is only meaningful
	// when Pending and TargetKnown are set.
	Target      kafka.Position
	TargetKnown bool
}

// Name returns "topic/index", or "" when nothing is selected.
func (c Cursor) Name() string {
	if !c.Selected {
		return ""
	}
	return kafka.PartitionName(c.Topic, c.Partition)
}

// Is reports whether the cursor belongs to the given partition.
func (c Cursor) Is(topic string, partition int32) bool {
	return c.Selected && c.Topic == topic && c.Partition == partition
}

// pendingOffset returns the offset a pending request will land on, if known.
func (c Cursor) pendingOffset() (int64, bool) {
	if !c.Pending || !c.TargetKnown || c.Target.Kind != kafka.PositionOffset {
		return 0, false
	}
	return c.Target.Value, true
}

// base returns the offset navigation steps from: the pending target when a
// request is in flight, otherwise the loaded offset.
func (c Cursor) base() (int64, bool) {
	if off, ok := c.pendingOffset(); ok {
		return off, true
	}
	if c.HasOffset {
		return c.Offset, true
	}
	return 0, false
}

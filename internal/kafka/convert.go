package kafka

import (
	"sort"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
)

func brokersFromMetadata(md kadm.Metadata) []Broker {
	brokers := make([]Broker, 0, len(md.Brokers))
	for _, b := range md.Brokers {
		rack := ""
		if b.Rack != nil {
			rack = *b.Rack
		}
		brokers = append(brokers, Broker{
			ID:         b.NodeID,
			Host:       b.Host,
			Port:       b.Port,
			Rack:       rack,
			Controller: b.NodeID == md.Controller,
		})
	}
	sort.Slice(brokers, func(i, j int) bool { return brokers[i].ID < brokers[j].ID })
	return brokers
}

// groupsFromListing merges the group listing with descriptions when they are
// available; described may be nil.
func groupsFromListing(listed kadm.ListedGroups, described kadm.DescribedGroups) []ConsumerGroup {
	groups := make([]ConsumerGroup, 0, len(listed))
	for id, lg := range listed {
		group := ConsumerGroup{
			ID:           id,
			State:        lg.State,
			ProtocolType: lg.ProtocolType,
			Coordinator:  lg.Coordinator,
		}
		if dg, ok := described[id]; ok && dg.Err == nil {
			if dg.State != "" {
				group.State = dg.State
			}
			group.Members = len(dg.Members)
			group.Coordinator = dg.Coordinator.NodeID
		}
		groups = append(groups, group)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
	return groups
}

// topicsFromMetadata converts topic metadata and listed watermarks. Topics
// that failed to load in the metadata response are skipped.
func topicsFromMetadata(md kadm.Metadata, starts, ends kadm.ListedOffsets) ([]Topic, []Partition) {
	topics := make([]Topic, 0, len(md.Topics))
	var partitions []Partition
	for name, detail := range md.Topics {
		if detail.Err != nil {
			continue
		}
		topics = append(topics, Topic{
			Name:       name,
			Partitions: len(detail.Partitions),
			Internal:   detail.IsInternal,
		})
		for idx, pd := range detail.Partitions {
			p := Partition{
				Topic:    name,
				Index:    idx,
				Leader:   pd.Leader,
				Replicas: append([]int32(nil), pd.Replicas...),
				ISR:      append([]int32(nil), pd.ISR...),
			}
			if lo, ok := lookupOffset(starts, name, idx); ok {
				p.Low = lo
			}
			if hi, ok := lookupOffset(ends, name, idx); ok {
				p.High = hi
			}
			partitions = append(partitions, p)
		}
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].Name < topics[j].Name })
	sort.Slice(partitions, func(i, j int) bool {
		if partitions[i].Topic != partitions[j].Topic {
			return partitions[i].Topic < partitions[j].Topic
		}
		return partitions[i].Index < partitions[j].Index
	})
	return topics, partitions
}

func lookupOffset(listed kadm.ListedOffsets, topic string, partition int32) (int64, bool) {
	byPartition, ok := listed[topic]
	if !ok {
		return 0, false
	}
	lo, ok := byPartition[partition]
	if !ok || lo.Err != nil {
		return 0, false
	}
	return lo.Offset, true
}

// listedOffset returns the listed offset for one partition, surfacing its
// per-partition error.
func listedOffset(listed kadm.ListedOffsets, topic string, partition int32) (int64, error) {
	byPartition, ok := listed[topic]
	if !ok {
		return 0, ErrPartitionNotFound
	}
	lo, ok := byPartition[partition]
	if !ok {
		return 0, ErrPartitionNotFound
	}
	if lo.Err != nil {
		return 0, lo.Err
	}
	return lo.Offset, nil
}

// resolveTimestampOffset maps a listed offset for a timestamp lookup onto the
// first message at or after it. Brokers answer -1, or the end offset, when no
// such message exists.
func resolveTimestampOffset(offset int64, wm Watermarks) (int64, error) {
	if offset < 0 || offset >= wm.High {
		return 0, ErrNoMessageAtTimestamp
	}
	if offset < wm.Low {
		return wm.Low, nil
	}
	return offset, nil
}

func messageFromRecord(r *kgo.Record) Message {
	msg := Message{
		Topic:     r.Topic,
		Partition: r.Partition,
		Offset:    r.Offset,
		Timestamp: r.Timestamp,
		Key:       append([]byte(nil), r.Key...),
		Value:     append([]byte(nil), r.Value...),
	}
	if len(r.Headers) > 0 {
		msg.Headers = make([]Header, 0, len(r.Headers))
		for _, h := range r.Headers {
			msg.Headers = append(msg.Headers, Header{Key: h.Key, Value: append([]byte(nil), h.Value...)})
		}
	}
	return msg
}

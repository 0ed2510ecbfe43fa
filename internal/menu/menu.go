// Package menu builds the entries of the list panes and the rows of the
// details panel from a cluster snapshot.
package menu

import (
	"strconv"
	"strings"

	"github.com/atomicstack/kafka2i/internal/format/table"
	"github.com/atomicstack/kafka2i/internal/kafka"
	"github.com/atomicstack/kafka2i/internal/state"
)

// Item represents a selectable list entry.
type Item struct {
	ID    string
	Label string
}

// Pane identifies one of the focusable panes.
type Pane int

const (
	PaneBrokers Pane = iota
	PaneGroups
	PaneTopics
	PanePartitions
	PaneMessage
)

// ListPanes are the panes backed by an item list, in display order.
var ListPanes = []Pane{PaneBrokers, PaneGroups, PaneTopics, PanePartitions}

func (p Pane) String() string {
	switch p {
	case PaneBrokers:
		return "Brokers"
	case PaneGroups:
		return "Consumer Groups"
	case PaneTopics:
		return "Topics"
	case PanePartitions:
		return "Partitions"
	case PaneMessage:
		return "Message"
	default:
		return "unknown"
	}
}

// IsList reports whether the pane shows an item list.
func (p Pane) IsList() bool {
	return p != PaneMessage
}

// Context carries the data loaders read from.
type Context struct {
	Snapshot *state.ClusterSnapshot
	// Topic is the highlighted topic; it scopes the partitions pane.
	Topic string
}

func (c Context) snapshot() *state.ClusterSnapshot {
	if c.Snapshot == nil {
		return &state.ClusterSnapshot{}
	}
	return c.Snapshot
}

// Loader populates a pane's entries.
type Loader func(Context) []Item

// Describer returns the details rows for an entry of a pane.
type Describer func(Context, Item) []table.Field

// Loaders lists the item loader of every list pane.
func Loaders() map[Pane]Loader {
	return map[Pane]Loader{
		PaneBrokers:    loadBrokers,
		PaneGroups:     loadGroups,
		PaneTopics:     loadTopics,
		PanePartitions: loadPartitions,
	}
}

// Describers lists the details builder of every list pane.
func Describers() map[Pane]Describer {
	return map[Pane]Describer{
		PaneBrokers:    describeBroker,
		PaneGroups:     describeGroup,
		PaneTopics:     describeTopic,
		PanePartitions: describePartition,
	}
}

func loadBrokers(ctx Context) []Item {
	brokers := ctx.snapshot().Brokers
	items := make([]Item, 0, len(brokers))
	for _, b := range brokers {
		items = append(items, Item{ID: strconv.Itoa(int(b.ID)), Label: b.Addr()})
	}
	return items
}

func loadGroups(ctx Context) []Item {
	groups := ctx.snapshot().Groups
	items := make([]Item, 0, len(groups))
	for _, g := range groups {
		items = append(items, Item{ID: g.ID, Label: g.ID})
	}
	return items
}

func loadTopics(ctx Context) []Item {
	topics := ctx.snapshot().Topics
	items := make([]Item, 0, len(topics))
	for _, t := range topics {
		items = append(items, Item{ID: t.Name, Label: t.Name})
	}
	return items
}

func loadPartitions(ctx Context) []Item {
	if ctx.Topic == "" {
		return nil
	}
	partitions := ctx.snapshot().PartitionsFor(ctx.Topic)
	items := make([]Item, 0, len(partitions))
	for _, p := range partitions {
		name := kafka.PartitionName(ctx.Topic, p.Index)
		items = append(items, Item{ID: name, Label: name})
	}
	return items
}

// ParsePartitionID splits a partitions pane item ID into topic and index.
// It inverts kafka.PartitionName.
func ParsePartitionID(id string) (string, int32, bool) {
	idx := strings.LastIndex(id, "/")
	if idx <= 0 || idx == len(id)-1 {
		return "", 0, false
	}
	n, err := strconv.ParseInt(id[idx+1:], 10, 32)
	if err != nil || n < 0 {
		return "", 0, false
	}
	return id[:idx], int32(n), true
}

func describeBroker(ctx Context, item Item) []table.Field {
	id, err := strconv.ParseInt(item.ID, 10, 32)
	if err != nil {
		return nil
	}
	for _, b := range ctx.snapshot().Brokers {
		if b.ID != int32(id) {
			continue
		}
		rack := b.Rack
		if rack == "" {
			rack = "-"
		}
		return []table.Field{
			{Label: "ID", Value: item.ID},
			{Label: "Host", Value: b.Host},
			{Label: "Port", Value: strconv.Itoa(int(b.Port))},
			{Label: "Rack", Value: rack},
			{Label: "Controller", Value: strconv.FormatBool(b.Controller)},
			{Label: "Leader of", Value: strconv.Itoa(ctx.snapshot().LeaderCount(b.ID)) + " partitions"},
		}
	}
	return nil
}

func describeGroup(ctx Context, item Item) []table.Field {
	for _, g := range ctx.snapshot().Groups {
		if g.ID != item.ID {
			continue
		}
		protocol := g.ProtocolType
		if protocol == "" {
			protocol = "-"
		}
		return []table.Field{
			{Label: "Group", Value: g.ID},
			{Label: "State", Value: g.State},
			{Label: "Members", Value: strconv.Itoa(g.Members)},
			{Label: "Protocol", Value: protocol},
			{Label: "Coordinator", Value: strconv.Itoa(int(g.Coordinator))},
		}
	}
	return nil
}

func describeTopic(ctx Context, item Item) []table.Field {
	t, ok := ctx.snapshot().Topic(item.ID)
	if !ok {
		return nil
	}
	return []table.Field{
		{Label: "Topic", Value: t.Name},
		{Label: "Partitions", Value: strconv.Itoa(t.Partitions)},
		{Label: "Internal", Value: strconv.FormatBool(t.Internal)},
		{Label: "Messages", Value: strconv.FormatInt(ctx.snapshot().MessageCount(t.Name), 10)},
	}
}

func describePartition(ctx Context, item Item) []table.Field {
	topic, index, ok := ParsePartitionID(item.ID)
	if !ok {
		return nil
	}
	p, ok := ctx.snapshot().Partition(topic, index)
	if !ok {
		return nil
	}
	return []table.Field{
		{Label: "Partition", Value: p.Name()},
		{Label: "Leader", Value: strconv.Itoa(int(p.Leader))},
		{Label: "ISR", Value: strconv.Itoa(len(p.ISR)) + "/" + strconv.Itoa(len(p.Replicas))},
		{Label: "LWM", Value: strconv.FormatInt(p.Low, 10)},
		{Label: "HWM", Value: strconv.FormatInt(p.High, 10)},
	}
}

package kafka

import (
	"errors"
	"testing"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

func TestBrokersFromMetadataSortsAndMarksController(t *testing.T) {
	rack := "eu-1a"
	md := kadm.Metadata{
		Controller: 2,
		Brokers: kadm.BrokerDetails{
			{NodeID: 3, Host: "c", Port: 9094},
			{NodeID: 1, Host: "a", Port: 9092, Rack: &rack},
			{NodeID: 2, Host: "b", Port: 9093},
		},
	}
	brokers := brokersFromMetadata(md)
	if len(brokers) != 3 {
		t.Fatalf("expected 3 brokers, got %d", len(brokers))
	}
	for i, want := range []int32{1, 2, 3} {
		if brokers[i].ID != want {
			t.Fatalf("expected broker %d at %d, got %d", want, i, brokers[i].ID)
		}
	}
	if brokers[0].Rack != "eu-1a" {
		t.Fatalf("expected rack eu-1a, got %q", brokers[0].Rack)
	}
	if !brokers[1].Controller || brokers[0].Controller {
		t.Fatalf("expected only broker 2 to be controller, got %+v", brokers)
	}
	if got := brokers[1].Addr(); got != "b:9093" {
		t.Fatalf("expected addr b:9093, got %s", got)
	}
}

func TestGroupsFromListing(t *testing.T) {
	listed := kadm.ListedGroups{
		"zeta":  {Group: "zeta", State: "Empty", ProtocolType: "consumer", Coordinator: 1},
		"alpha": {Group: "alpha", State: "Stable", ProtocolType: "consumer", Coordinator: 2},
	}
	described := kadm.DescribedGroups{
		"alpha": {
			Group:       "alpha",
			State:       "Stable",
			Coordinator: kadm.BrokerDetail{NodeID: 3},
			Members:     []kadm.DescribedGroupMember{{MemberID: "m1"}, {MemberID: "m2"}},
		},
	}
	groups := groupsFromListing(listed, described)
	if len(groups) != 2 || groups[0].ID != "alpha" || groups[1].ID != "zeta" {
		t.Fatalf("expected sorted groups [alpha zeta], got %+v", groups)
	}
	if groups[0].Members != 2 || groups[0].Coordinator != 3 {
		t.Fatalf("expected described members and coordinator, got %+v", groups[0])
	}
	if groups[1].Members != 0 || groups[1].State != "Empty" || groups[1].Coordinator != 1 {
		t.Fatalf("expected listing-only data for zeta, got %+v", groups[1])
	}

	fallback := groupsFromListing(listed, nil)
	if fallback[0].Members != 0 || fallback[0].Coordinator != 2 {
		t.Fatalf("expected listing data without descriptions, got %+v", fallback[0])
	}
}

func TestTopicsFromMetadata(t *testing.T) {
	md := kadm.Metadata{
		Topics: kadm.TopicDetails{
			"orders": {
				Topic: "orders",
				Partitions: kadm.PartitionDetails{
					1: {Topic: "orders", Partition: 1, Leader: 2, Replicas: []int32{1, 2}, ISR: []int32{2}},
					0: {Topic: "orders", Partition: 0, Leader: 1, Replicas: []int32{1, 2}, ISR: []int32{1, 2}},
				},
			},
			"__consumer_offsets": {
				Topic:      "__consumer_offsets",
				IsInternal: true,
				Partitions: kadm.PartitionDetails{
					0: {Topic: "__consumer_offsets", Partition: 0, Leader: 1},
				},
			},
			"broken": {Topic: "broken", Err: kerr.UnknownTopicOrPartition},
		},
	}
	starts := kadm.ListedOffsets{
		"orders": {
			0: {Topic: "orders", Partition: 0, Offset: 5},
			1: {Topic: "orders", Partition: 1, Offset: 0},
		},
	}
	ends := kadm.ListedOffsets{
		"orders": {
			0: {Topic: "orders", Partition: 0, Offset: 12},
			1: {Topic: "orders", Partition: 1, Err: kerr.NotLeaderForPartition},
		},
	}

	topics, partitions := topicsFromMetadata(md, starts, ends)
	if len(topics) != 2 || topics[0].Name != "__consumer_offsets" || topics[1].Name != "orders" {
		t.Fatalf("expected two sorted topics without the failed one, got %+v", topics)
	}
	if !topics[0].Internal || topics[1].Partitions != 2 {
		t.Fatalf("unexpected topic details %+v", topics)
	}
	if len(partitions) != 3 {
		t.Fatalf("expected 3 partitions, got %d", len(partitions))
	}
	orders0 := partitions[1]
	if orders0.Name() != "orders/0" || orders0.Low != 5 || orders0.High != 12 || orders0.Leader != 1 {
		t.Fatalf("unexpected partition %+v", orders0)
	}
	orders1 := partitions[2]
	if orders1.Name() != "orders/1" || orders1.High != 0 || len(orders1.ISR) != 1 {
		t.Fatalf("expected failed end offset to leave high at 0, got %+v", orders1)
	}
}

func TestListedOffset(t *testing.T) {
	listed := kadm.ListedOffsets{
		"orders": {
			0: {Offset: 7},
			1: {Err: kerr.NotLeaderForPartition},
		},
	}
	if got, err := listedOffset(listed, "orders", 0); err != nil || got != 7 {
		t.Fatalf("expected 7, got %d (%v)", got, err)
	}
	if _, err := listedOffset(listed, "orders", 1); !errors.Is(err, kerr.NotLeaderForPartition) {
		t.Fatalf("expected partition error, got %v", err)
	}
	if _, err := listedOffset(listed, "orders", 9); !errors.Is(err, ErrPartitionNotFound) {
		t.Fatalf("expected ErrPartitionNotFound, got %v", err)
	}
	if _, err := listedOffset(listed, "missing", 0); !errors.Is(err, ErrPartitionNotFound) {
		t.Fatalf("expected ErrPartitionNotFound for missing topic, got %v", err)
	}
}

func TestResolveTimestampOffset(t *testing.T) {
	wm := Watermarks{Low: 10, High: 20}
	cases := []struct {
		name    string
		offset  int64
		want    int64
		wantErr error
	}{
		{name: "inside", offset: 15, want: 15},
		{name: "first", offset: 10, want: 10},
		{name: "last", offset: 19, want: 19},
		{name: "before-retention", offset: 3, want: 10},
		{name: "unknown", offset: -1, wantErr: ErrNoMessageAtTimestamp},
		{name: "end", offset: 20, wantErr: ErrNoMessageAtTimestamp},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := resolveTimestampOffset(tc.offset, wm)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Fatalf("expected %d, got %d (%v)", tc.want, got, err)
			}
		})
	}
}

func TestMessageFromRecordCopiesBuffers(t *testing.T) {
	ts := time.UnixMilli(1760597487571)
	rec := &kgo.Record{
		Topic:     "orders",
		Partition: 2,
		Offset:    42,
		Timestamp: ts,
		Key:       []byte("k"),
		Value:     []byte(`{"a":1}`),
		Headers:   []kgo.RecordHeader{{Key: "trace", Value: []byte("abc")}},
	}
	msg := messageFromRecord(rec)
	rec.Value[0] = 'X'
	if string(msg.Value) != `{"a":1}` {
		t.Fatalf("expected value to be copied, got %q", msg.Value)
	}
	if msg.TimestampMillis() != 1760597487571 || msg.Offset != 42 || msg.Partition != 2 {
		t.Fatalf("unexpected message %+v", msg)
	}
	if len(msg.Headers) != 1 || msg.Headers[0].Key != "trace" || string(msg.Headers[0].Value) != "abc" {
		t.Fatalf("unexpected headers %+v", msg.Headers)
	}
}

func TestDirectionStepAndWatermarks(t *testing.T) {
	if Next.Step(5) != 6 || Previous.Step(5) != 4 {
		t.Fatalf("unexpected step results")
	}
	wm := Watermarks{Low: 3, High: 5}
	if !wm.Contains(3) || !wm.Contains(4) || wm.Contains(5) || wm.Contains(2) {
		t.Fatalf("unexpected containment for %+v", wm)
	}
	if wm.Empty() || !(Watermarks{Low: 5, High: 5}).Empty() {
		t.Fatalf("unexpected emptiness")
	}
	if AtTimestamp(9).String() != "ts 9" || AtOffset(4).String() != "offset 4" {
		t.Fatalf("unexpected position strings")
	}
}

package state

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/atomicstack/kafka2i/internal/kafka"
)

func sampleSnapshot(topics ...string) *ClusterSnapshot {
	snap := &ClusterSnapshot{
		Brokers:   []kafka.Broker{{ID: 1, Host: "localhost", Port: 9092}},
		FetchedAt: time.Now(),
	}
	for _, name := range topics {
		snap.Topics = append(snap.Topics, kafka.Topic{Name: name, Partitions: 2})
		snap.Partitions = append(snap.Partitions,
			kafka.Partition{Topic: name, Index: 0, Leader: 1, Low: 0, High: 10},
			kafka.Partition{Topic: name, Index: 1, Leader: 2, Low: 5, High: 5},
		)
	}
	return snap
}

func TestStoreStartsEmpty(t *testing.T) {
	s := NewStore(0)
	snap := s.Snapshot()
	if snap == nil || !snap.Empty() {
		t.Fatalf("expected empty non-nil snapshot, got %+v", snap)
	}
	if s.Status().WarnAfter != defaultWarnAfter {
		t.Fatalf("expected default threshold %d, got %d", defaultWarnAfter, s.Status().WarnAfter)
	}
}

func TestStoreFailureKeepsLastGoodSnapshot(t *testing.T) {
	s := NewStore(3)
	good := sampleSnapshot("orders")
	s.Update(good, nil)

	boom := errors.New("broker down")
	status := s.Update(nil, boom)
	if s.Snapshot() != good {
		t.Fatalf("expected previous snapshot to remain published")
	}
	if len(s.Snapshot().Topics) != 1 {
		t.Fatalf("expected topics to survive failure, got %+v", s.Snapshot().Topics)
	}
	if !status.Degraded() || status.ConsecutiveFailures != 1 {
		t.Fatalf("expected one recorded failure, got %+v", status)
	}
	if !errors.Is(status.LastError, boom) {
		t.Fatalf("expected last error %v, got %v", boom, status.LastError)
	}
}

func TestStoreEscalatesToWarningAndRecovers(t *testing.T) {
	s := NewStore(2)
	s.Update(sampleSnapshot("orders"), nil)
	boom := errors.New("timeout")

	if s.Update(nil, boom).Warning() {
		t.Fatalf("expected no warning after a single failure")
	}
	if !s.Update(nil, boom).Warning() {
		t.Fatalf("expected warning once threshold is reached")
	}
	if !s.Update(nil, boom).Warning() {
		t.Fatalf("expected warning to persist")
	}

	status := s.Update(sampleSnapshot("orders", "payments"), nil)
	if status.Warning() || status.Degraded() || status.ConsecutiveFailures != 0 {
		t.Fatalf("expected recovery to clear failure state, got %+v", status)
	}
	if status.LastSuccess.IsZero() {
		t.Fatalf("expected last success to be recorded")
	}
	if len(s.Snapshot().Topics) != 2 {
		t.Fatalf("expected new snapshot to be published")
	}
}

func TestStoreConcurrentReadersSeeWholeSnapshots(t *testing.T) {
	s := NewStore(3)
	a := sampleSnapshot("a")
	b := sampleSnapshot("b1", "b2")
	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			if i%2 == 0 {
				s.Update(a, nil)
			} else {
				s.Update(b, nil)
			}
		}
	}()
	for i := 0; i < 1000; i++ {
		snap := s.Snapshot()
		if snap.Empty() {
			continue
		}
		if len(snap.Partitions) != 2*len(snap.Topics) {
			t.Fatalf("observed torn snapshot: %d topics, %d partitions", len(snap.Topics), len(snap.Partitions))
		}
	}
	close(stop)
	wg.Wait()
}

func TestSnapshotLookups(t *testing.T) {
	snap := sampleSnapshot("orders", "payments")
	if got := snap.PartitionsFor("orders"); len(got) != 2 || got[1].Index != 1 {
		t.Fatalf("unexpected partitions %+v", got)
	}
	if _, ok := snap.Partition("orders", 7); ok {
		t.Fatalf("expected missing partition")
	}
	p, ok := snap.Partition("payments", 0)
	if !ok || p.High != 10 {
		t.Fatalf("expected payments/0, got %+v", p)
	}
	if _, ok := snap.Topic("payments"); !ok {
		t.Fatalf("expected topic lookup to succeed")
	}
	if got := snap.LeaderCount(1); got != 2 {
		t.Fatalf("expected broker 1 to lead 2 partitions, got %d", got)
	}
	if got := snap.MessageCount("orders"); got != 10 {
		t.Fatalf("expected 10 messages, got %d", got)
	}

	var nilSnap *ClusterSnapshot
	if nilSnap.PartitionsFor("x") != nil || nilSnap.LeaderCount(1) != 0 || !nilSnap.Empty() {
		t.Fatalf("expected nil snapshot to behave as empty")
	}
}

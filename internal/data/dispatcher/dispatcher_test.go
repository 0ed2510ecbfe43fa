package dispatcher

import (
	"errors"
	"testing"
	"time"

	"github.com/atomicstack/kafka2i/internal/backend"
	"github.com/atomicstack/kafka2i/internal/kafka"
	"github.com/atomicstack/kafka2i/internal/state"
)

func snapshot(topics ...string) *state.ClusterSnapshot {
	snap := &state.ClusterSnapshot{FetchedAt: time.Now()}
	for _, name := range topics {
		snap.Topics = append(snap.Topics, kafka.Topic{Name: name, Partitions: 1})
		snap.Partitions = append(snap.Partitions, kafka.Partition{Topic: name})
	}
	return snap
}

func TestHandleAppliesSnapshot(t *testing.T) {
	store := state.NewStore(3)
	d := New(store)
	res := d.Handle(backend.Event{Snapshot: snapshot("orders")})
	if !res.Updated || res.Failed {
		t.Fatalf("expected update, got %+v", res)
	}
	if got := store.Snapshot().Topics; len(got) != 1 || got[0].Name != "orders" {
		t.Fatalf("expected orders topic, got %+v", got)
	}
}

func TestHandleFailureKeepsSnapshotAndEscalatesOnce(t *testing.T) {
	store := state.NewStore(2)
	d := New(store)
	d.Handle(backend.Event{Snapshot: snapshot("orders")})

	failure := backend.Event{Err: errors.New("timeout")}
	first := d.Handle(failure)
	if !first.Failed || first.Escalated {
		t.Fatalf("expected non-escalated failure, got %+v", first)
	}
	second := d.Handle(failure)
	if !second.Escalated {
		t.Fatalf("expected escalation on second failure, got %+v", second)
	}
	third := d.Handle(failure)
	if third.Escalated {
		t.Fatalf("expected escalation to be reported once, got %+v", third)
	}
	if !third.Status.Warning() {
		t.Fatalf("expected warning status to persist")
	}
	if got := store.Snapshot().Topics; len(got) != 1 {
		t.Fatalf("expected last good snapshot to survive, got %+v", got)
	}

	recovered := d.Handle(backend.Event{Snapshot: snapshot("orders", "payments")})
	if !recovered.Updated || recovered.Status.Degraded() {
		t.Fatalf("expected recovery, got %+v", recovered)
	}
}

package dispatcher

import (
	"log/slog"

	"github.com/atomicstack/kafka2i/internal/backend"
	"github.com/atomicstack/kafka2i/internal/logging/events"
	"github.com/atomicstack/kafka2i/internal/state"
)

// Result summarises what applying an event changed.
type Result struct {
	Updated   bool
	Failed    bool
	Escalated bool
	Status    state.Status
}

// Dispatcher applies watcher events to the metadata store.
type Dispatcher struct {
	store *state.Store
}

func New(store *state.Store) *Dispatcher {
	return &Dispatcher{store: store}
}

// Handle publishes a successful refresh or records a failed one. A failure
// leaves the previous snapshot in place.
func (d *Dispatcher) Handle(evt backend.Event) Result {
	prev := d.store.Status()
	status := d.store.Update(evt.Snapshot, evt.Err)
	res := Result{Status: status}
	if evt.Err != nil {
		res.Failed = true
		res.Escalated = status.Warning() && !prev.Warning()
		events.Metadata.Degraded(status.ConsecutiveFailures, status.Warning(), evt.Err)
		if res.Escalated {
			slog.Warn("metadata refresh keeps failing", "failures", status.ConsecutiveFailures, "err", evt.Err)
		} else {
			slog.Info("metadata refresh failed", "trigger", evt.Trigger.String(), "err", evt.Err)
		}
		return res
	}
	res.Updated = true
	snap := d.store.Snapshot()
	events.Metadata.Applied(len(snap.Brokers), len(snap.Groups), len(snap.Topics), len(snap.Partitions))
	if prev.Degraded() {
		slog.Info("metadata refresh recovered", "after_failures", prev.ConsecutiveFailures)
	}
	return res
}

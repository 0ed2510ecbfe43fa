package backend

import (
	"context"
	"sync"
	"time"

	"github.com/atomicstack/kafka2i/internal/kafka"
	"github.com/atomicstack/kafka2i/internal/logging/events"
	"github.com/atomicstack/kafka2i/internal/state"
)

// Trigger records why a refresh ran.
type Trigger int

const (
	TriggerTick Trigger = iota
	TriggerManual
)

func (t Trigger) String() string {
	if t == TriggerManual {
		return "manual"
	}
	return "tick"
}

// Event conveys a refreshed snapshot or the error that prevented one.
type Event struct {
	Trigger  Trigger
	Snapshot *state.ClusterSnapshot
	Err      error
}

// Watcher refreshes cluster metadata at a fixed interval and on request,
// publishing one event per refresh.
type Watcher struct {
	cluster  kafka.Cluster
	interval time.Duration
	timeout  time.Duration
	throttle *throttle

	ctx    context.Context
	cancel context.CancelFunc

	requests chan struct{}
	events   chan Event
	wg       sync.WaitGroup
}

// NewWatcher starts a watcher that refreshes immediately and then every
// interval. timeout bounds a single refresh; zero means the interval.
func NewWatcher(cluster kafka.Cluster, interval, timeout time.Duration) *Watcher {
	if timeout <= 0 {
		timeout = interval
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		cluster:  cluster,
		interval: interval,
		timeout:  timeout,
		throttle: newThrottle(250 * time.Millisecond),
		ctx:      ctx,
		cancel:   cancel,
		requests: make(chan struct{}, 1),
		events:   make(chan Event, 16),
	}

	w.wg.Add(1)
	go w.poll()

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns a channel of refresh events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// RequestRefresh asks for an out-of-band refresh. Requests made while one
// is already queued are coalesced.
func (w *Watcher) RequestRefresh() {
	select {
	case w.requests <- struct{}{}:
	default:
	}
}

// Stop cancels the watcher. The poller exits after its current refresh
// completes; use Wait if a clean drain is required (e.g. in tests).
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the poller has exited and the events channel is closed.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) poll() {
	defer w.wg.Done()

	emit := func(trigger Trigger) bool {
		if trigger == TriggerManual && !w.throttle.wait(w.ctx) {
			return false
		}
		w.throttle.mark()
		ctx, cancel := context.WithTimeout(w.ctx, w.timeout)
		snap, err := state.Refresh(ctx, w.cluster)
		cancel()
		if w.ctx.Err() != nil {
			return false
		}
		events.Metadata.Refresh(trigger.String(), err)
		evt := Event{Trigger: trigger, Snapshot: snap, Err: err}
		select {
		case <-w.ctx.Done():
			return false
		case w.events <- evt:
			return true
		}
	}

	if !emit(TriggerTick) {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if !emit(TriggerTick) {
				return
			}
		case <-w.requests:
			if !emit(TriggerManual) {
				return
			}
			ticker.Reset(w.interval)
		}
	}
}

package state

import (
	"sync"
	"sync/atomic"
	"time"
)

const defaultWarnAfter = 3

// Status describes the health of the refresh path.
type Status struct {
	LastError           error
	ConsecutiveFailures int
	LastSuccess         time.Time
	LastAttempt         time.Time
	WarnAfter           int
}

// Degraded reports whether the most recent refresh failed.
func (s Status) Degraded() bool {
	return s.LastError != nil
}

// Warning reports whether failures have persisted long enough to escalate
// to a persistent warning.
func (s Status) Warning() bool {
	threshold := s.WarnAfter
	if threshold <= 0 {
		threshold = defaultWarnAfter
	}
	return s.LastError != nil && s.ConsecutiveFailures >= threshold
}

// Store publishes the latest ClusterSnapshot. The snapshot pointer is
// swapped atomically so readers never observe a partially applied refresh.
type Store struct {
	snapshot atomic.Pointer[ClusterSnapshot]

	mu     sync.RWMutex
	status Status
}

// NewStore creates an empty store that escalates after warnAfter
// consecutive failures.
func NewStore(warnAfter int) *Store {
	if warnAfter <= 0 {
		warnAfter = defaultWarnAfter
	}
	s := &Store{status: Status{WarnAfter: warnAfter}}
	s.snapshot.Store(emptySnapshot)
	return s
}

// Update publishes snap when err is nil. When err is non-nil the previous
// snapshot is kept and the failure is recorded.
func (s *Store) Update(snap *ClusterSnapshot, err error) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.status.LastAttempt = now
	if err != nil {
		s.status.LastError = err
		s.status.ConsecutiveFailures++
		return s.status
	}
	if snap == nil {
		snap = emptySnapshot
	}
	s.snapshot.Store(snap)
	s.status.LastError = nil
	s.status.ConsecutiveFailures = 0
	s.status.LastSuccess = now
	return s.status
}

// Snapshot returns the published snapshot. It is never nil and must not be
// modified.
func (s *Store) Snapshot() *ClusterSnapshot {
	if s == nil {
		return emptySnapshot
	}
	return s.snapshot.Load()
}

// Status returns a copy of the refresh status.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

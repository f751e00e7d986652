// Package cache tracks datasets fetched from an asynchronous source with
// at-most-one-fetch-in-flight semantics. An Entry never calls the backend
// itself; it only decides whether its owner must.
package cache

import "sync"

// Status is the fetch state of a cached dataset
type Status string

const (
	StatusEmpty   Status = "empty"   // never fetched
	StatusPending Status = "pending" // fetch in flight, waiting for the backend
	StatusReady   Status = "ready"   // last fetch succeeded, data usable
	StatusFailed  Status = "failed"  // last fetch failed, next poll refetches
)

// Entry holds one logical dataset and its fetch status. Transitions only
// Empty|Failed -> Pending -> Ready|Failed; Pending is never skipped, which
// is what keeps concurrent pollers from issuing duplicate backend calls.
type Entry[T any] struct {
	mu     sync.Mutex
	data   T
	status Status
}

// NewEntry creates an empty cache entry
func NewEntry[T any]() *Entry[T] {
	return &Entry[T]{status: StatusEmpty}
}

// Status returns the current fetch status
func (e *Entry[T]) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// NeedsFetch reports whether a fresh fetch must be triggered
func (e *Entry[T]) NeedsFetch() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status == StatusEmpty || e.status == StatusFailed
}

// MarkPending transitions Empty|Failed to Pending and reports whether the
// caller must issue the fetch. Returns false when a fetch is already in
// flight or the data is already ready.
func (e *Entry[T]) MarkPending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status == StatusPending || e.status == StatusReady {
		return false
	}
	e.status = StatusPending
	return true
}

// Complete stores the fetched data and transitions to Ready
func (e *Entry[T]) Complete(data T) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.data = data
	e.status = StatusReady
}

// Fail transitions to Failed and discards any previous data, forcing a full
// refetch on the next poll
func (e *Entry[T]) Fail() {
	e.mu.Lock()
	defer e.mu.Unlock()
	var zero T
	e.data = zero
	e.status = StatusFailed
}

// Reset discards data and status, returning the entry to Empty. Used by
// refresh paths that must guarantee a backend round trip.
func (e *Entry[T]) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	var zero T
	e.data = zero
	e.status = StatusEmpty
}

// Read returns the cached data without blocking. ready is false for any
// status other than Ready.
func (e *Entry[T]) Read() (T, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status != StatusReady {
		var zero T
		return zero, false
	}
	return e.data, true
}

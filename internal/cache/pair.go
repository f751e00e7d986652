package cache

import (
	"playbridge/internal/types"
)

// Pair is the dual-kind variant of Entry used by every query family the
// billing backend serves: one independent entry per product kind, merged
// into a combined view at read time. The two halves may become Ready at
// different times; the combined view is the logical AND of both.
type Pair[T any] struct {
	inApp *Entry[[]T]
	subs  *Entry[[]T]
}

// NewPair creates a pair of empty entries
func NewPair[T any]() *Pair[T] {
	return &Pair[T]{
		inApp: NewEntry[[]T](),
		subs:  NewEntry[[]T](),
	}
}

// Entry returns the entry for one product kind
func (p *Pair[T]) Entry(kind types.ProductKind) *Entry[[]T] {
	if kind == types.KindSubscription {
		return p.subs
	}
	return p.inApp
}

// Ready reports whether both halves are Ready
func (p *Pair[T]) Ready() bool {
	return p.inApp.Status() == StatusReady && p.subs.Status() == StatusReady
}

// Read returns the concatenation of both halves. ready is false unless both
// halves are Ready; the items of a not-ready half are never fabricated.
func (p *Pair[T]) Read() ([]T, bool) {
	inApp, inAppReady := p.inApp.Read()
	subs, subsReady := p.subs.Read()
	if !inAppReady || !subsReady {
		return nil, false
	}
	items := make([]T, 0, len(inApp)+len(subs))
	items = append(items, inApp...)
	items = append(items, subs...)
	return items, true
}

// Reset returns both halves to Empty, cancelling any Ready status. The next
// poll is then guaranteed to issue backend fetches for both kinds.
func (p *Pair[T]) Reset() {
	p.inApp.Reset()
	p.subs.Reset()
}

// MarkPendingKinds marks every half that needs a fetch as Pending and
// returns the kinds the caller must now query on the backend. Halves that
// are already Pending or Ready are left alone, so concurrent pollers never
// issue duplicate requests.
func (p *Pair[T]) MarkPendingKinds() []types.ProductKind {
	var kinds []types.ProductKind
	if p.inApp.MarkPending() {
		kinds = append(kinds, types.KindInApp)
	}
	if p.subs.MarkPending() {
		kinds = append(kinds, types.KindSubscription)
	}
	return kinds
}

// Package events carries the bridge's outward events to the host
// application. The session manager emits one event per billing callback it
// demultiplexes; the host subscribes on the configured NATS subject.
package events

import (
	"time"

	"playbridge/internal/types"
)

// Kind identifies an outward event. The set is closed: the manager
// dispatches backend callbacks through typed constructors, never through
// free-form tags.
type Kind string

const (
	KindConnectionStatusChanged Kind = "connection-status-changed"
	KindProductDetailsReady     Kind = "product-details-ready"
	KindProductDetailsFailed    Kind = "product-details-failed"
	KindPurchasesReady          Kind = "purchases-ready"
	KindPurchasesFailed         Kind = "purchases-failed"
	KindPurchaseHistoryReady    Kind = "purchase-history-ready"
	KindPurchaseHistoryFailed   Kind = "purchase-history-failed"
	KindPurchaseReady           Kind = "purchase-ready"
	KindPurchasePending         Kind = "purchase-pending"
	KindPurchaseFailed          Kind = "purchase-failed"
	KindAcknowledgeResult       Kind = "acknowledge-result"
	KindConsumeResult           Kind = "consume-result"
)

// Event is the envelope published to the host application
type Event struct {
	Kind        Kind                        `json:"kind"`
	Timestamp   int64                       `json:"timestamp"`
	Status      types.ConnectionStatus      `json:"status,omitempty"`
	ProductKind types.ProductKind           `json:"product_kind,omitempty"`
	Code        types.ResponseCode          `json:"code,omitempty"`
	Reason      types.PurchaseFailureReason `json:"reason,omitempty"`
	Token       string                      `json:"token,omitempty"`
	Purchase    *types.Purchase             `json:"purchase,omitempty"`
}

// Sender delivers outward events. Implementations must never block the
// session manager for long and must swallow their own delivery errors.
type Sender interface {
	Send(event Event) error
	IsConnected() bool
	Close()
}

func newEvent(kind Kind) Event {
	return Event{Kind: kind, Timestamp: time.Now().Unix()}
}

// ConnectionStatusChanged builds a connection-status event
func ConnectionStatusChanged(status types.ConnectionStatus) Event {
	ev := newEvent(KindConnectionStatusChanged)
	ev.Status = status
	return ev
}

// QueryReady builds the ready event for one query family and kind
func QueryReady(kind Kind, productKind types.ProductKind) Event {
	ev := newEvent(kind)
	ev.ProductKind = productKind
	return ev
}

// QueryFailed builds the failed event for one query family and kind
func QueryFailed(kind Kind, productKind types.ProductKind, code types.ResponseCode) Event {
	ev := newEvent(kind)
	ev.ProductKind = productKind
	ev.Code = code
	return ev
}

// PurchaseReady builds a purchase-ready event carrying the full record
func PurchaseReady(purchase types.Purchase) Event {
	ev := newEvent(KindPurchaseReady)
	ev.Purchase = &purchase
	ev.Token = purchase.PurchaseToken
	return ev
}

// PurchasePending builds a purchase-pending event carrying the full record
func PurchasePending(purchase types.Purchase) Event {
	ev := newEvent(KindPurchasePending)
	ev.Purchase = &purchase
	ev.Token = purchase.PurchaseToken
	return ev
}

// PurchaseFailed builds a purchase-failed event
func PurchaseFailed(reason types.PurchaseFailureReason) Event {
	ev := newEvent(KindPurchaseFailed)
	ev.Reason = reason
	return ev
}

// CommandResult builds an acknowledge-result or consume-result event
func CommandResult(kind Kind, token string, code types.ResponseCode) Event {
	ev := newEvent(kind)
	ev.Token = token
	ev.Code = code
	return ev
}

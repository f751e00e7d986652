package billing

import (
	"log"

	"playbridge/internal/events"
	"playbridge/internal/types"
)

// GetProductDetails returns the combined catalogue of both product kinds.
// If either kind-cache is not ready the call returns ready=false
// immediately, kicking a deduplicated fetch for every half that needs one.
func (m *Manager) GetProductDetails() ([]types.ProductDetails, bool) {
	if items, ready := m.products.Read(); ready {
		return items, true
	}
	for _, kind := range m.products.MarkPendingKinds() {
		m.requestProductDetails(kind)
	}
	return nil, false
}

// GetUserPurchases returns the combined active purchases of both kinds.
// refresh=true cancels both halves' Ready status first, guaranteeing a
// gateway round trip before the next ready read.
func (m *Manager) GetUserPurchases(refresh bool) ([]types.Purchase, bool) {
	if refresh {
		m.purchases.Reset()
	}
	if items, ready := m.purchases.Read(); ready {
		return items, true
	}
	for _, kind := range m.purchases.MarkPendingKinds() {
		m.requestPurchases(kind)
	}
	return nil, false
}

// GetUserPurchaseHistory returns the purchase history of both kinds. When
// exactly one kind has records, only that side is returned; an empty half is
// never fabricated into the result.
func (m *Manager) GetUserPurchaseHistory(refresh bool) ([]types.PurchaseHistoryRecord, bool) {
	if refresh {
		m.history.Reset()
	}
	if m.history.Ready() {
		inApp, _ := m.history.Entry(types.KindInApp).Read()
		subs, _ := m.history.Entry(types.KindSubscription).Read()
		switch {
		case len(inApp) == 0:
			return subs, true
		case len(subs) == 0:
			return inApp, true
		default:
			records := make([]types.PurchaseHistoryRecord, 0, len(inApp)+len(subs))
			records = append(records, inApp...)
			records = append(records, subs...)
			return records, true
		}
	}
	for _, kind := range m.history.MarkPendingKinds() {
		m.requestPurchaseHistory(kind)
	}
	return nil, false
}

// triggerProductDetailsFetch marks one catalogue half pending and issues the
// gateway query, unless a fetch is already in flight or the data is ready
func (m *Manager) triggerProductDetailsFetch(kind types.ProductKind) {
	if !m.products.Entry(kind).MarkPending() {
		return
	}
	m.requestProductDetails(kind)
}

// triggerPurchasesFetch is triggerProductDetailsFetch for the purchases family
func (m *Manager) triggerPurchasesFetch(kind types.ProductKind) {
	if !m.purchases.Entry(kind).MarkPending() {
		return
	}
	m.requestPurchases(kind)
}

// requestProductDetails issues the catalogue query for one kind. The entry
// must already be Pending.
func (m *Manager) requestProductDetails(kind types.ProductKind) {
	log.Printf("Querying product details for kind %s", kind)
	m.client.QueryProductDetails(kind, m.idsForKind(kind), func(code types.ResponseCode, items []types.ProductDetails) {
		entry := m.products.Entry(kind)
		if code != types.ResponseOK {
			log.Printf("Failed to get product details for kind %s: %s", kind, code)
			entry.Fail()
			m.emit(events.QueryFailed(events.KindProductDetailsFailed, kind, code))
			return
		}

		log.Printf("Got %d product details for kind %s", len(items), kind)
		entry.Complete(items)
		m.emit(events.QueryReady(events.KindProductDetailsReady, kind))
	})
}

// requestPurchases issues the active-purchases query for one kind
func (m *Manager) requestPurchases(kind types.ProductKind) {
	log.Printf("Querying purchases for kind %s", kind)
	m.client.QueryPurchases(kind, func(code types.ResponseCode, items []types.Purchase) {
		entry := m.purchases.Entry(kind)
		if code != types.ResponseOK {
			log.Printf("Failed to get purchases for kind %s: %s", kind, code)
			entry.Fail()
			m.emit(events.QueryFailed(events.KindPurchasesFailed, kind, code))
			return
		}

		log.Printf("Got %d purchases for kind %s", len(items), kind)
		entry.Complete(items)
		m.emit(events.QueryReady(events.KindPurchasesReady, kind))
	})
}

// requestPurchaseHistory issues the purchase-history query for one kind
func (m *Manager) requestPurchaseHistory(kind types.ProductKind) {
	log.Printf("Querying purchase history for kind %s", kind)
	m.client.QueryPurchaseHistory(kind, func(code types.ResponseCode, items []types.PurchaseHistoryRecord) {
		entry := m.history.Entry(kind)
		if code != types.ResponseOK {
			log.Printf("Failed to get purchase history for kind %s: %s", kind, code)
			entry.Fail()
			m.emit(events.QueryFailed(events.KindPurchaseHistoryFailed, kind, code))
			return
		}

		log.Printf("Got %d purchase history records for kind %s", len(items), kind)
		entry.Complete(items)
		m.emit(events.QueryReady(events.KindPurchaseHistoryReady, kind))
	})
}

package billing

import (
	"fmt"
	"log"

	"github.com/thoas/go-funk"

	"playbridge/internal/backend"
	"playbridge/internal/cache"
	"playbridge/internal/events"
	"playbridge/internal/types"
	"playbridge/internal/verify"
)

// PurchaseError is a synchronous purchase validation failure. The caller
// corrects its input and retries; nothing was sent to the gateway.
type PurchaseError struct {
	Reason types.PurchaseFailureReason
}

func (e *PurchaseError) Error() string {
	return fmt.Sprintf("purchase rejected: %s", e.Reason)
}

func purchaseFailure(reason types.PurchaseFailureReason) error {
	return &PurchaseError{Reason: reason}
}

// PurchaseProduct validates a purchase request and launches the gateway
// purchase flow. Validation short-circuits on the first failure, in a fixed
// order, so the same bad input always yields the same reason. The terminal
// purchase result arrives later through OnPurchasesUpdated, never here.
func (m *Manager) PurchaseProduct(productID, basePlanID, offerID string) error {
	log.Printf("Purchasing product of ID: %s", productID)

	if m.State() != StateConnected {
		return purchaseFailure(types.ReasonBillingClientNotReady)
	}

	m.mu.RLock()
	registered := funk.ContainsString(m.allIDs, productID)
	m.mu.RUnlock()
	if !registered {
		return purchaseFailure(types.ReasonProductNotDefined)
	}
	kind, _ := m.kindOf(productID)

	entry := m.products.Entry(kind)
	if entry.Status() != cache.StatusReady {
		// Kick the catalogue fetch so a retry after the ready event succeeds.
		m.triggerProductDetailsFetch(kind)
		return purchaseFailure(types.ReasonProductDetailsNotSet)
	}

	if kind == types.KindInApp && (basePlanID != "" || offerID != "") {
		return purchaseFailure(types.ReasonSubscriptionDetailsGivenForInAppProduct)
	}
	if kind == types.KindSubscription && basePlanID == "" {
		return purchaseFailure(types.ReasonSubscriptionDetailsNotGiven)
	}

	details, found := m.lookupDetails(kind, productID)
	if !found {
		return purchaseFailure(types.ReasonProductDetailsNotFound)
	}

	var offerToken string
	if kind == types.KindSubscription {
		offer, found := resolveOffer(details.SubscriptionOfferDetails, basePlanID, offerID)
		if !found {
			return purchaseFailure(types.ReasonSubscriptionOfferOrPlanNotFound)
		}
		offerToken = offer.OfferToken
	}

	m.mu.RLock()
	accountID, profileID := m.obfuscatedAccountID, m.obfuscatedProfileID
	m.mu.RUnlock()

	log.Println("Starting purchase flow")
	m.client.LaunchPurchase(backend.LaunchParams{
		Details:             details,
		OfferToken:          offerToken,
		ObfuscatedAccountID: accountID,
		ObfuscatedProfileID: profileID,
	})
	return nil
}

func (m *Manager) lookupDetails(kind types.ProductKind, productID string) (types.ProductDetails, bool) {
	items, ready := m.products.Entry(kind).Read()
	if !ready {
		return types.ProductDetails{}, false
	}
	for _, details := range items {
		if details.ProductID == productID {
			return details, true
		}
	}
	return types.ProductDetails{}, false
}

// resolveOffer picks the offer for a base plan. An empty offerID selects the
// bare base plan, never a named offer of the same plan.
func resolveOffer(offers []types.SubscriptionOfferDetails, basePlanID, offerID string) (types.SubscriptionOfferDetails, bool) {
	for _, offer := range offers {
		if offer.BasePlanID != basePlanID {
			continue
		}
		if offer.OfferID == offerID {
			return offer, true
		}
	}
	return types.SubscriptionOfferDetails{}, false
}

// OnPurchasesUpdated demultiplexes the gateway's real-time purchase update.
// Purchased records become purchase-ready events, pending records become
// purchase-pending events, anything else is left to the purchase-query path.
func (m *Manager) OnPurchasesUpdated(code types.ResponseCode, purchases []types.Purchase) {
	log.Println("Updating purchases")
	if code != types.ResponseOK {
		log.Printf("Purchase failed: %s", code)
		m.emit(events.PurchaseFailed(failureReasonFromCode(code)))
		return
	}

	for _, purchase := range purchases {
		switch purchase.State {
		case types.PurchaseStatePurchased:
			log.Println("Product has been purchased")
			m.emit(events.PurchaseReady(purchase))
		case types.PurchaseStatePending:
			log.Println("Purchase is currently pending")
			m.emit(events.PurchasePending(purchase))
		}
	}
}

// AcknowledgePurchase fires the acknowledge command for a purchase token.
// The gateway's result code is relayed as an event; the local purchase cache
// is untouched until the next query.
func (m *Manager) AcknowledgePurchase(token string) {
	log.Printf("Acknowledging purchase %s", token)
	m.client.Acknowledge(token, func(code types.ResponseCode) {
		m.emit(events.CommandResult(events.KindAcknowledgeResult, token, code))
	})
}

// ConsumePurchase fires the consume command for a purchase token
func (m *Manager) ConsumePurchase(token string) {
	log.Printf("Consuming purchase %s", token)
	m.client.Consume(token, func(code types.ResponseCode) {
		m.emit(events.CommandResult(events.KindConsumeResult, token, code))
	})
}

// CheckPurchaseValidity verifies a purchase payload against the configured
// verification key. Without a key the answer is KeyNotFound; every
// verification error collapses to Failed.
func (m *Manager) CheckPurchaseValidity(payload, signature string) types.PurchaseValidity {
	m.mu.RLock()
	key := m.verificationKey
	m.mu.RUnlock()

	if key == "" {
		return types.ValidityKeyNotFound
	}
	if verify.VerifySignature(key, payload, signature) {
		return types.ValidityValid
	}
	return types.ValidityFailed
}

func failureReasonFromCode(code types.ResponseCode) types.PurchaseFailureReason {
	switch code {
	case types.ResponseUserCancelled:
		return types.ReasonUserCancelled
	case types.ResponseServiceUnavailable:
		return types.ReasonServiceUnavailable
	case types.ResponseBillingUnavailable:
		return types.ReasonBillingUnavailable
	case types.ResponseItemUnavailable:
		return types.ReasonItemUnavailable
	case types.ResponseDeveloperError:
		return types.ReasonDeveloperError
	case types.ResponseItemAlreadyOwned:
		return types.ReasonItemAlreadyOwned
	case types.ResponseItemNotOwned:
		return types.ReasonItemNotOwned
	case types.ResponseNetworkError:
		return types.ReasonNetworkError
	default:
		return types.ReasonError
	}
}

package billing

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playbridge/internal/events"
	"playbridge/internal/types"
)

func purchaseReason(t *testing.T, err error) types.PurchaseFailureReason {
	t.Helper()
	require.Error(t, err)
	purchaseErr, ok := err.(*PurchaseError)
	require.True(t, ok, "expected *PurchaseError, got %T", err)
	return purchaseErr.Reason
}

func TestPurchaseRequiresConnection(t *testing.T) {
	client := newFakeClient()
	m := newTestManager(client, &recordingSender{})

	err := m.PurchaseProduct("coin_100", "", "")
	assert.Equal(t, types.ReasonBillingClientNotReady, purchaseReason(t, err))
	assert.Empty(t, client.launched)
}

func TestPurchaseUnknownProduct(t *testing.T) {
	client := newFakeClient()
	m := newTestManager(client, &recordingSender{})
	m.SetupBillingClient(testProducts(), "")

	err := m.PurchaseProduct("diamond_999", "", "")
	assert.Equal(t, types.ReasonProductNotDefined, purchaseReason(t, err))
}

func TestPurchaseBeforeCatalogueReady(t *testing.T) {
	client := newFakeClient()
	client.hold = true
	m := newTestManager(client, &recordingSender{})
	m.SetupBillingClient(testProducts(), "")

	// Connected, but the catalogue fetch has not completed yet.
	err := m.PurchaseProduct("coin_100", "", "")
	assert.Equal(t, types.ReasonProductDetailsNotSet, purchaseReason(t, err))

	// The rejection re-arms nothing extra: the setup fetch is still in flight.
	assert.Equal(t, 1, client.detailsQueries[types.KindInApp])

	client.release()
	err = m.PurchaseProduct("coin_100", "", "")
	assert.NoError(t, err)
}

func TestPurchaseInAppRejectsSubscriptionArgs(t *testing.T) {
	client := newFakeClient()
	m := newTestManager(client, &recordingSender{})
	m.SetupBillingClient(testProducts(), "")

	err := m.PurchaseProduct("coin_100", "monthly", "")
	assert.Equal(t, types.ReasonSubscriptionDetailsGivenForInAppProduct, purchaseReason(t, err))

	err = m.PurchaseProduct("coin_100", "", "promo")
	assert.Equal(t, types.ReasonSubscriptionDetailsGivenForInAppProduct, purchaseReason(t, err))
}

func TestPurchaseSubscriptionRequiresBasePlan(t *testing.T) {
	client := newFakeClient()
	m := newTestManager(client, &recordingSender{})
	m.SetupBillingClient(testProducts(), "")

	err := m.PurchaseProduct("gold_tier", "", "")
	assert.Equal(t, types.ReasonSubscriptionDetailsNotGiven, purchaseReason(t, err))

	// An offer without its base plan is just as invalid.
	err = m.PurchaseProduct("gold_tier", "", "promo")
	assert.Equal(t, types.ReasonSubscriptionDetailsNotGiven, purchaseReason(t, err))
}

func TestPurchaseRegisteredButMissingFromCatalogue(t *testing.T) {
	client := newFakeClient()
	m := newTestManager(client, &recordingSender{})
	m.SetupBillingClient(append(testProducts(),
		types.Product{ID: "coin_500", Kind: types.KindInApp}), "")

	// coin_500 is registered but the backend returned no details for it.
	err := m.PurchaseProduct("coin_500", "", "")
	assert.Equal(t, types.ReasonProductDetailsNotFound, purchaseReason(t, err))
}

func TestPurchaseOfferResolution(t *testing.T) {
	client := newFakeClient()
	m := newTestManager(client, &recordingSender{})
	m.SetupBillingClient(testProducts(), "")

	// Empty offer id selects the bare base plan, never a named offer.
	require.NoError(t, m.PurchaseProduct("gold_tier", "monthly", ""))
	require.Len(t, client.launched, 1)
	assert.Equal(t, "token-bare", client.launched[0].OfferToken)

	require.NoError(t, m.PurchaseProduct("gold_tier", "monthly", "promo"))
	require.Len(t, client.launched, 2)
	assert.Equal(t, "token-promo", client.launched[1].OfferToken)

	err := m.PurchaseProduct("gold_tier", "yearly", "")
	assert.Equal(t, types.ReasonSubscriptionOfferOrPlanNotFound, purchaseReason(t, err))

	err = m.PurchaseProduct("gold_tier", "monthly", "expired")
	assert.Equal(t, types.ReasonSubscriptionOfferOrPlanNotFound, purchaseReason(t, err))
}

func TestPurchaseCarriesFraudDetectionIds(t *testing.T) {
	client := newFakeClient()
	m := newTestManager(client, &recordingSender{})
	m.SetupBillingClient(testProducts(), "")
	m.SetupFraudDetection("acct-ob", "prof-ob")

	require.NoError(t, m.PurchaseProduct("coin_100", "", ""))
	require.Len(t, client.launched, 1)
	assert.Equal(t, "acct-ob", client.launched[0].ObfuscatedAccountID)
	assert.Equal(t, "prof-ob", client.launched[0].ObfuscatedProfileID)
	assert.Equal(t, "coin_100", client.launched[0].Details.ProductID)
}

func TestOnPurchasesUpdatedDemultiplexes(t *testing.T) {
	client := newFakeClient()
	sender := &recordingSender{}
	m := newTestManager(client, sender)

	m.OnPurchasesUpdated(types.ResponseOK, []types.Purchase{
		{PurchaseToken: "tok-1", State: types.PurchaseStatePurchased},
		{PurchaseToken: "tok-2", State: types.PurchaseStatePending},
		{PurchaseToken: "tok-3", State: types.PurchaseStateUnspecified},
	})

	kinds := sender.kinds()
	assert.Equal(t, []events.Kind{events.KindPurchaseReady, events.KindPurchasePending}, kinds)
	require.NotNil(t, sender.events[0].Purchase)
	assert.Equal(t, "tok-1", sender.events[0].Purchase.PurchaseToken)
	assert.Equal(t, "tok-2", sender.events[1].Token)
}

func TestOnPurchasesUpdatedFailure(t *testing.T) {
	client := newFakeClient()
	sender := &recordingSender{}
	m := newTestManager(client, sender)

	m.OnPurchasesUpdated(types.ResponseUserCancelled, nil)
	require.Len(t, sender.events, 1)
	assert.Equal(t, events.KindPurchaseFailed, sender.events[0].Kind)
	assert.Equal(t, types.ReasonUserCancelled, sender.events[0].Reason)

	m.OnPurchasesUpdated(types.ResponseCode("something_new"), nil)
	assert.Equal(t, types.ReasonError, sender.last().Reason)
}

func TestAcknowledgeAndConsumeRelayResults(t *testing.T) {
	client := newFakeClient()
	client.commandCode = types.ResponseItemNotOwned
	sender := &recordingSender{}
	m := newTestManager(client, sender)

	m.AcknowledgePurchase("tok-ack")
	m.ConsumePurchase("tok-con")

	assert.Equal(t, []string{"tok-ack"}, client.acked)
	assert.Equal(t, []string{"tok-con"}, client.consumed)

	require.Len(t, sender.events, 2)
	assert.Equal(t, events.KindAcknowledgeResult, sender.events[0].Kind)
	assert.Equal(t, "tok-ack", sender.events[0].Token)
	assert.Equal(t, types.ResponseItemNotOwned, sender.events[0].Code)
	assert.Equal(t, events.KindConsumeResult, sender.events[1].Kind)
}

func signedPayload(t *testing.T) (keyBase64, payload, signature string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	payload = `{"productId":"coin_100","purchaseToken":"tok-1"}`
	digest := sha1.Sum([]byte(payload))
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA1, digest[:])
	require.NoError(t, err)

	pub, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	return base64.StdEncoding.EncodeToString(pub),
		payload,
		base64.StdEncoding.EncodeToString(sig)
}

func TestCheckPurchaseValidity(t *testing.T) {
	client := newFakeClient()
	m := newTestManager(client, &recordingSender{})
	keyBase64, payload, signature := signedPayload(t)

	// No key configured yet.
	assert.Equal(t, types.ValidityKeyNotFound, m.CheckPurchaseValidity(payload, signature))

	m.SetupBillingClient(testProducts(), keyBase64)
	assert.Equal(t, types.ValidityValid, m.CheckPurchaseValidity(payload, signature))
	assert.Equal(t, types.ValidityFailed, m.CheckPurchaseValidity(payload+"tampered", signature))
	assert.Equal(t, types.ValidityFailed, m.CheckPurchaseValidity(payload, "not-base64!"))
	assert.Equal(t, types.ValidityFailed, m.CheckPurchaseValidity(payload, ""))
}

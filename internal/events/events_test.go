package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playbridge/internal/types"
)

func TestEventConstructors(t *testing.T) {
	ev := ConnectionStatusChanged(types.StatusConnected)
	assert.Equal(t, KindConnectionStatusChanged, ev.Kind)
	assert.Equal(t, types.StatusConnected, ev.Status)
	assert.NotZero(t, ev.Timestamp)

	ev = QueryFailed(KindPurchasesFailed, types.KindSubscription, types.ResponseNetworkError)
	assert.Equal(t, KindPurchasesFailed, ev.Kind)
	assert.Equal(t, types.KindSubscription, ev.ProductKind)
	assert.Equal(t, types.ResponseNetworkError, ev.Code)

	purchase := types.Purchase{PurchaseToken: "tok-1", State: types.PurchaseStatePending}
	ev = PurchasePending(purchase)
	assert.Equal(t, KindPurchasePending, ev.Kind)
	assert.Equal(t, "tok-1", ev.Token)
	require.NotNil(t, ev.Purchase)
	assert.Equal(t, types.PurchaseStatePending, ev.Purchase.State)

	ev = CommandResult(KindConsumeResult, "tok-2", types.ResponseOK)
	assert.Equal(t, "tok-2", ev.Token)
	assert.Equal(t, types.ResponseOK, ev.Code)
}

func TestEventEnvelopeOmitsUnsetFields(t *testing.T) {
	data, err := json.Marshal(QueryReady(KindProductDetailsReady, types.KindInApp))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "kind")
	assert.Contains(t, decoded, "product_kind")
	assert.NotContains(t, decoded, "purchase")
	assert.NotContains(t, decoded, "token")
	assert.NotContains(t, decoded, "reason")
}

func TestDataSenderDisabledInDevelopment(t *testing.T) {
	t.Setenv("GO_ENV", "development")

	sender, err := NewDataSender()
	require.NoError(t, err)
	assert.False(t, sender.IsConnected())

	// Sends are logged no-ops without a broker.
	assert.NoError(t, sender.Send(ConnectionStatusChanged(types.StatusConnected)))
	sender.Close()
}

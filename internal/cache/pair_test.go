package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playbridge/internal/types"
)

func TestPairReadRequiresBothHalves(t *testing.T) {
	pair := NewPair[string]()
	assert.False(t, pair.Ready())

	pair.Entry(types.KindInApp).MarkPending()
	pair.Entry(types.KindInApp).Complete([]string{"coin"})

	// One ready half is not enough.
	_, ready := pair.Read()
	assert.False(t, ready)
	assert.False(t, pair.Ready())

	pair.Entry(types.KindSubscription).MarkPending()
	pair.Entry(types.KindSubscription).Complete([]string{"gold"})

	items, ready := pair.Read()
	require.True(t, ready)
	assert.Equal(t, []string{"coin", "gold"}, items)
	assert.True(t, pair.Ready())
}

func TestPairMarkPendingKinds(t *testing.T) {
	pair := NewPair[string]()

	kinds := pair.MarkPendingKinds()
	assert.Equal(t, []types.ProductKind{types.KindInApp, types.KindSubscription}, kinds)

	// Both halves are now in flight, nothing left to fetch.
	assert.Empty(t, pair.MarkPendingKinds())

	pair.Entry(types.KindInApp).Complete([]string{"coin"})
	pair.Entry(types.KindSubscription).Fail()

	// Only the failed half re-arms.
	kinds = pair.MarkPendingKinds()
	assert.Equal(t, []types.ProductKind{types.KindSubscription}, kinds)
}

func TestPairResetCancelsReady(t *testing.T) {
	pair := NewPair[string]()
	pair.Entry(types.KindInApp).MarkPending()
	pair.Entry(types.KindInApp).Complete([]string{"coin"})
	pair.Entry(types.KindSubscription).MarkPending()
	pair.Entry(types.KindSubscription).Complete(nil)
	require.True(t, pair.Ready())

	pair.Reset()
	assert.False(t, pair.Ready())
	assert.Equal(t, StatusEmpty, pair.Entry(types.KindInApp).Status())
	assert.Equal(t, StatusEmpty, pair.Entry(types.KindSubscription).Status())
	assert.Equal(t, []types.ProductKind{types.KindInApp, types.KindSubscription}, pair.MarkPendingKinds())
}

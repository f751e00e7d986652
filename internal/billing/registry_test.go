package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitManagerReplacesCurrent(t *testing.T) {
	t.Cleanup(func() { Teardown(GetManager()) })

	first := InitManager(newFakeClient(), &recordingSender{})
	assert.Same(t, first, GetManager())

	second := InitManager(newFakeClient(), &recordingSender{})
	assert.Same(t, second, GetManager())
	assert.NotSame(t, first, second)

	// The replaced manager still works for callers that hold it.
	first.SetupBillingClient(testProducts(), "")
	assert.Equal(t, StateConnected, first.State())
	assert.Same(t, second, GetManager())
}

func TestTeardownOnlyClearsLiveManager(t *testing.T) {
	t.Cleanup(func() { Teardown(GetManager()) })

	first := InitManager(newFakeClient(), &recordingSender{})
	second := InitManager(newFakeClient(), &recordingSender{})

	// Tearing down a replaced manager is a no-op.
	Teardown(first)
	require.Same(t, second, GetManager())

	Teardown(second)
	assert.Nil(t, GetManager())
}

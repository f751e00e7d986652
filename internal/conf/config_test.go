package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitDefaults(t *testing.T) {
	t.Setenv("BILLING_GATEWAY_HOST", "")
	t.Setenv("BILLING_GATEWAY_PORT", "")
	t.Setenv("BILLING_REMOTE_VERIFY", "")

	Init()

	assert.Equal(t, "localhost", GetGatewayHost())
	assert.Equal(t, "8090", GetGatewayPort())
	assert.False(t, GetRemoteVerify())
	assert.Empty(t, GetVerificationKey())
}

func TestInitFromEnv(t *testing.T) {
	t.Setenv("BILLING_GATEWAY_HOST", "gateway.local")
	t.Setenv("BILLING_GATEWAY_PORT", "9000")
	t.Setenv("BILLING_APP_KEY", "key")
	t.Setenv("BILLING_APP_SECRET", "secret")
	t.Setenv("BILLING_VERIFICATION_KEY", "base64key")
	t.Setenv("BILLING_PACKAGE_NAME", "io.bytetrade.app")
	t.Setenv("BILLING_REMOTE_VERIFY", "true")
	t.Setenv("BILLING_PRODUCTS_MANIFEST", "/etc/playbridge/products.yaml")

	Init()

	assert.Equal(t, "gateway.local", GetGatewayHost())
	assert.Equal(t, "9000", GetGatewayPort())
	assert.Equal(t, "key", GetAppKey())
	assert.Equal(t, "secret", GetAppSecret())
	assert.Equal(t, "base64key", GetVerificationKey())
	assert.Equal(t, "io.bytetrade.app", GetPackageName())
	assert.True(t, GetRemoteVerify())
	assert.Equal(t, "/etc/playbridge/products.yaml", GetProductsManifest())
}

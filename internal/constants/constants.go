package constants

const (
	APIServerListenAddress = ":81"

	APIRootPath = "/billing"
)

const (
	GatewayAccessURLTempl = "http://%s:%s/permission/v1alpha1/access"
	GatewayInfoURLTempl   = "http://%s:%s/billing-gateway/v1/info"

	GatewayProductsQueryURLTempl        = "http://%s:%s/billing-gateway/v1/products/query"
	GatewayPurchasesQueryURLTempl       = "http://%s:%s/billing-gateway/v1/purchases/query"
	GatewayPurchaseHistoryQueryURLTempl = "http://%s:%s/billing-gateway/v1/purchases/history/query"
	GatewayPurchaseLaunchURLTempl       = "http://%s:%s/billing-gateway/v1/purchases/launch"
	GatewayAcknowledgeURLTempl          = "http://%s:%s/billing-gateway/v1/purchases/%s/acknowledge"
	GatewayConsumeURLTempl              = "http://%s:%s/billing-gateway/v1/purchases/%s/consume"
)

// MinGatewayAPIVersion is the oldest gateway API this bridge can talk to.
// Older gateways are reported as FeatureNotSupported at connect time.
const MinGatewayAPIVersion = "1.2.0"

package types

// ProductKind represents the two product classes the billing service knows about
type ProductKind string

const (
	KindInApp        ProductKind = "inapp" // one-time in-app products
	KindSubscription ProductKind = "subs"  // auto-renewing subscriptions
)

// Valid reports whether the kind is one of the two known product classes
func (k ProductKind) Valid() bool {
	return k == KindInApp || k == KindSubscription
}

// ConnectionStatus represents the status reported by the billing backend
// for a connection attempt or an established connection
type ConnectionStatus string

const (
	StatusConnected           ConnectionStatus = "connected"
	StatusFeatureNotSupported ConnectionStatus = "feature_not_supported"
	StatusServiceDisconnected ConnectionStatus = "service_disconnected"
	StatusServiceUnavailable  ConnectionStatus = "service_unavailable"
	StatusBillingUnavailable  ConnectionStatus = "billing_unavailable"
	StatusDeveloperError      ConnectionStatus = "developer_error"
	StatusNetworkError        ConnectionStatus = "network_error"
	StatusError               ConnectionStatus = "error"
)

// ResponseCode represents a backend-defined result code for a query or command
type ResponseCode string

const (
	ResponseOK                 ResponseCode = "ok"
	ResponseUserCancelled      ResponseCode = "user_cancelled"
	ResponseServiceUnavailable ResponseCode = "service_unavailable"
	ResponseBillingUnavailable ResponseCode = "billing_unavailable"
	ResponseItemUnavailable    ResponseCode = "item_unavailable"
	ResponseDeveloperError     ResponseCode = "developer_error"
	ResponseError              ResponseCode = "error"
	ResponseItemAlreadyOwned   ResponseCode = "item_already_owned"
	ResponseItemNotOwned       ResponseCode = "item_not_owned"
	ResponseNetworkError       ResponseCode = "network_error"
)

// PurchaseFailureReason represents why a purchase attempt was rejected or failed
type PurchaseFailureReason string

const (
	// Validation failures detected before the backend is contacted
	ReasonBillingClientNotReady                   PurchaseFailureReason = "billing_client_not_ready"
	ReasonProductNotDefined                       PurchaseFailureReason = "product_not_defined"
	ReasonProductDetailsNotSet                    PurchaseFailureReason = "product_details_not_set"
	ReasonProductDetailsNotFound                  PurchaseFailureReason = "product_details_not_found"
	ReasonSubscriptionDetailsGivenForInAppProduct PurchaseFailureReason = "subscription_details_given_for_inapp_product"
	ReasonSubscriptionDetailsNotGiven             PurchaseFailureReason = "subscription_details_not_given"
	ReasonSubscriptionOfferOrPlanNotFound         PurchaseFailureReason = "subscription_offer_or_plan_not_found"

	// Failures relayed from the backend purchase-update callback
	ReasonFeatureNotSupported PurchaseFailureReason = "feature_not_supported"
	ReasonServiceDisconnected PurchaseFailureReason = "service_disconnected"
	ReasonUserCancelled       PurchaseFailureReason = "user_cancelled"
	ReasonServiceUnavailable  PurchaseFailureReason = "service_unavailable"
	ReasonBillingUnavailable  PurchaseFailureReason = "billing_unavailable"
	ReasonItemUnavailable     PurchaseFailureReason = "item_unavailable"
	ReasonDeveloperError      PurchaseFailureReason = "developer_error"
	ReasonError               PurchaseFailureReason = "error"
	ReasonItemAlreadyOwned    PurchaseFailureReason = "item_already_owned"
	ReasonItemNotOwned        PurchaseFailureReason = "item_not_owned"
	ReasonNetworkError        PurchaseFailureReason = "network_error"
)

// PurchaseState represents the state of a purchase reported by the backend
type PurchaseState string

const (
	PurchaseStateUnspecified PurchaseState = "unspecified"
	PurchaseStatePurchased   PurchaseState = "purchased"
	PurchaseStatePending     PurchaseState = "pending"
)

// ParsePurchaseState converts the backend's numeric purchase state
// (1 purchased, 2 pending, anything else unspecified)
func ParsePurchaseState(code int) PurchaseState {
	switch code {
	case 1:
		return PurchaseStatePurchased
	case 2:
		return PurchaseStatePending
	default:
		return PurchaseStateUnspecified
	}
}

// PurchaseValidity represents the result of a purchase signature check
type PurchaseValidity string

const (
	ValidityValid       PurchaseValidity = "valid"
	ValidityFailed      PurchaseValidity = "failed"
	ValidityKeyNotFound PurchaseValidity = "key_not_found"
)

// RecurrenceMode represents the recurrence mode of a subscription pricing phase
type RecurrenceMode string

const (
	RecurrenceInfinite RecurrenceMode = "infinite" // recurs until cancelled
	RecurrenceFinite   RecurrenceMode = "finite"   // recurs for BillingCycleCount periods
	RecurrenceNone     RecurrenceMode = "none"     // one time charge
)

// ParseRecurrenceMode converts the backend's numeric recurrence mode
// (1 infinite, 2 finite, 3 none)
func ParseRecurrenceMode(code int) RecurrenceMode {
	switch code {
	case 1:
		return RecurrenceInfinite
	case 2:
		return RecurrenceFinite
	default:
		return RecurrenceNone
	}
}

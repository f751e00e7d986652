package types

import "time"

// Product is a registered product: the id/kind pair the host application
// declared at session setup. The registry built from these is the authority
// for which ids are purchasable.
type Product struct {
	ID   string      `json:"id"`
	Kind ProductKind `json:"kind"`
}

// OneTimePurchaseOfferDetails holds the pricing of a one-time in-app product
type OneTimePurchaseOfferDetails struct {
	FormattedPrice    string `json:"formatted_price"`
	PriceAmountMicros int64  `json:"price_amount_micros"`
	PriceCurrencyCode string `json:"price_currency_code"`
}

// PricingPhase is one phase of a subscription base plan or offer
type PricingPhase struct {
	BillingCycleCount int            `json:"billing_cycle_count"`
	BillingPeriod     string         `json:"billing_period"` // ISO-8601, e.g. P1M
	FormattedPrice    string         `json:"formatted_price"`
	PriceAmountMicros int64          `json:"price_amount_micros"`
	PriceCurrencyCode string         `json:"price_currency_code"`
	RecurrenceMode    RecurrenceMode `json:"recurrence_mode"`
}

// SubscriptionOfferDetails is one purchasable offer of a subscription
// product. An entry with an empty OfferID is the bare base plan.
type SubscriptionOfferDetails struct {
	BasePlanID    string         `json:"base_plan_id"`
	OfferID       string         `json:"offer_id,omitempty"`
	OfferTags     []string       `json:"offer_tags,omitempty"`
	OfferToken    string         `json:"offer_token"`
	PricingPhases []PricingPhase `json:"pricing_phases"`
}

// ProductDetails is the backend-supplied pricing and metadata for a
// registered product. Exactly one of OneTimePurchaseOfferDetails and
// SubscriptionOfferDetails is set, matching Kind; the record is replaced
// wholesale on each successful catalogue fetch.
type ProductDetails struct {
	ProductID                   string                       `json:"product_id"`
	Kind                        ProductKind                  `json:"kind"`
	Name                        string                       `json:"name"`
	Title                       string                       `json:"title"`
	Description                 string                       `json:"description"`
	OneTimePurchaseOfferDetails *OneTimePurchaseOfferDetails `json:"one_time_purchase_offer_details,omitempty"`
	SubscriptionOfferDetails    []SubscriptionOfferDetails   `json:"subscription_offer_details,omitempty"`
}

// AccountIdentifiers are the obfuscated account/profile ids attached to a
// purchase for the platform's own fraud detection
type AccountIdentifiers struct {
	ObfuscatedAccountID string `json:"obfuscated_account_id"`
	ObfuscatedProfileID string `json:"obfuscated_profile_id"`
}

// Purchase is a completed or pending transaction reported by the backend.
// PurchaseToken is the stable identity used for acknowledge/consume/refresh;
// records are never mutated locally, only replaced by a fresh query.
type Purchase struct {
	OrderID            string              `json:"order_id"`
	PurchaseToken      string              `json:"purchase_token"`
	ProductIDs         []string            `json:"product_ids"`
	Quantity           int                 `json:"quantity"`
	PurchaseTime       time.Time           `json:"purchase_time"`
	State              PurchaseState       `json:"state"`
	IsAcknowledged     bool                `json:"is_acknowledged"`
	IsAutoRenewing     bool                `json:"is_auto_renewing"`
	PackageName        string              `json:"package_name"`
	DeveloperPayload   string              `json:"developer_payload,omitempty"`
	OriginalJSON       string              `json:"original_json"`
	Signature          string              `json:"signature"`
	AccountIdentifiers *AccountIdentifiers `json:"account_identifiers,omitempty"`
}

// PurchaseHistoryRecord is the last known transaction for a product,
// regardless of current validity. It is a Purchase stripped of order id,
// state, acknowledgement and renewal information.
type PurchaseHistoryRecord struct {
	PurchaseToken    string    `json:"purchase_token"`
	ProductIDs       []string  `json:"product_ids"`
	Quantity         int       `json:"quantity"`
	PurchaseTime     time.Time `json:"purchase_time"`
	DeveloperPayload string    `json:"developer_payload,omitempty"`
	OriginalJSON     string    `json:"original_json"`
	Signature        string    `json:"signature"`
}

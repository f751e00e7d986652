package backend

import (
	"time"

	"playbridge/internal/types"
)

// Wire shapes of the billing gateway API. Timestamps travel as Unix
// milliseconds; enum-like fields travel as the gateway's numeric codes and
// are widened to the typed constants on conversion.

type AccessTokenRequest struct {
	AppKey    string            `json:"app_key"`
	Timestamp int64             `json:"timestamp"`
	Token     string            `json:"token"`
	Perm      PermissionRequire `json:"perm"`
}

type PermissionRequire struct {
	Group    string   `json:"group"`
	Version  string   `json:"version"`
	DataType string   `json:"dataType"`
	Ops      []string `json:"ops"`
}

type AccessTokenResp struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		AccessToken string `json:"access_token"`
	} `json:"data"`
}

type GatewayInfoResp struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		APIVersion string `json:"api_version"`
		Status     string `json:"status"`
	} `json:"data"`
}

type QueryRequest struct {
	Kind       types.ProductKind `json:"kind"`
	ProductIDs []string          `json:"product_ids,omitempty"`
}

type LaunchRequest struct {
	ProductID           string            `json:"product_id"`
	Kind                types.ProductKind `json:"kind"`
	OfferToken          string            `json:"offer_token,omitempty"`
	ObfuscatedAccountID string            `json:"obfuscated_account_id,omitempty"`
	ObfuscatedProfileID string            `json:"obfuscated_profile_id,omitempty"`
}

type CommandResp struct {
	Code types.ResponseCode `json:"code"`
}

type ProductDetailsRaw struct {
	ProductID                   string                             `json:"product_id"`
	Kind                        types.ProductKind                  `json:"kind"`
	Name                        string                             `json:"name"`
	Title                       string                             `json:"title"`
	Description                 string                             `json:"description"`
	OneTimePurchaseOfferDetails *types.OneTimePurchaseOfferDetails `json:"one_time_purchase_offer_details,omitempty"`
	SubscriptionOfferDetails    []SubscriptionOfferDetailsRaw      `json:"subscription_offer_details,omitempty"`
}

type SubscriptionOfferDetailsRaw struct {
	BasePlanID    string            `json:"base_plan_id"`
	OfferID       string            `json:"offer_id,omitempty"`
	OfferTags     []string          `json:"offer_tags,omitempty"`
	OfferToken    string            `json:"offer_token"`
	PricingPhases []PricingPhaseRaw `json:"pricing_phases"`
}

type PricingPhaseRaw struct {
	BillingCycleCount int    `json:"billing_cycle_count"`
	BillingPeriod     string `json:"billing_period"`
	FormattedPrice    string `json:"formatted_price"`
	PriceAmountMicros int64  `json:"price_amount_micros"`
	PriceCurrencyCode string `json:"price_currency_code"`
	RecurrenceMode    int    `json:"recurrence_mode"`
}

type ProductDetailsQueryResp struct {
	Code  types.ResponseCode  `json:"code"`
	Items []ProductDetailsRaw `json:"items"`
}

type PurchaseRaw struct {
	AccountIdentifiers *types.AccountIdentifiers `json:"account_identifiers,omitempty"`
	DeveloperPayload   string                    `json:"developer_payload,omitempty"`
	OrderID            string                    `json:"order_id"`
	OriginalJSON       string                    `json:"original_json"`
	PackageName        string                    `json:"package_name"`
	ProductIDs         []string                  `json:"product_ids"`
	PurchaseState      int                       `json:"purchase_state"`
	PurchaseTimeMillis int64                     `json:"purchase_time_millis"`
	PurchaseToken      string                    `json:"purchase_token"`
	Quantity           int                       `json:"quantity"`
	Signature          string                    `json:"signature"`
	IsAcknowledged     bool                      `json:"is_acknowledged"`
	IsAutoRenewing     bool                      `json:"is_auto_renewing"`
}

type PurchasesQueryResp struct {
	Code  types.ResponseCode `json:"code"`
	Items []PurchaseRaw      `json:"items"`
}

type PurchaseHistoryRecordRaw struct {
	DeveloperPayload   string   `json:"developer_payload,omitempty"`
	OriginalJSON       string   `json:"original_json"`
	ProductIDs         []string `json:"product_ids"`
	PurchaseTimeMillis int64    `json:"purchase_time_millis"`
	PurchaseToken      string   `json:"purchase_token"`
	Quantity           int      `json:"quantity"`
	Signature          string   `json:"signature"`
}

type PurchaseHistoryQueryResp struct {
	Code  types.ResponseCode         `json:"code"`
	Items []PurchaseHistoryRecordRaw `json:"items"`
}

// ConvertProductDetails widens a wire catalogue record to the domain type
func ConvertProductDetails(raw ProductDetailsRaw) types.ProductDetails {
	details := types.ProductDetails{
		ProductID:                   raw.ProductID,
		Kind:                        raw.Kind,
		Name:                        raw.Name,
		Title:                       raw.Title,
		Description:                 raw.Description,
		OneTimePurchaseOfferDetails: raw.OneTimePurchaseOfferDetails,
	}
	for _, offer := range raw.SubscriptionOfferDetails {
		converted := types.SubscriptionOfferDetails{
			BasePlanID: offer.BasePlanID,
			OfferID:    offer.OfferID,
			OfferTags:  offer.OfferTags,
			OfferToken: offer.OfferToken,
		}
		for _, phase := range offer.PricingPhases {
			converted.PricingPhases = append(converted.PricingPhases, types.PricingPhase{
				BillingCycleCount: phase.BillingCycleCount,
				BillingPeriod:     phase.BillingPeriod,
				FormattedPrice:    phase.FormattedPrice,
				PriceAmountMicros: phase.PriceAmountMicros,
				PriceCurrencyCode: phase.PriceCurrencyCode,
				RecurrenceMode:    types.ParseRecurrenceMode(phase.RecurrenceMode),
			})
		}
		details.SubscriptionOfferDetails = append(details.SubscriptionOfferDetails, converted)
	}
	return details
}

// ConvertPurchase widens a wire purchase record to the domain type
func ConvertPurchase(raw PurchaseRaw) types.Purchase {
	return types.Purchase{
		OrderID:            raw.OrderID,
		PurchaseToken:      raw.PurchaseToken,
		ProductIDs:         raw.ProductIDs,
		Quantity:           raw.Quantity,
		PurchaseTime:       time.UnixMilli(raw.PurchaseTimeMillis).UTC(),
		State:              types.ParsePurchaseState(raw.PurchaseState),
		IsAcknowledged:     raw.IsAcknowledged,
		IsAutoRenewing:     raw.IsAutoRenewing,
		PackageName:        raw.PackageName,
		DeveloperPayload:   raw.DeveloperPayload,
		OriginalJSON:       raw.OriginalJSON,
		Signature:          raw.Signature,
		AccountIdentifiers: raw.AccountIdentifiers,
	}
}

// ConvertPurchaseHistoryRecord widens a wire history record to the domain type
func ConvertPurchaseHistoryRecord(raw PurchaseHistoryRecordRaw) types.PurchaseHistoryRecord {
	return types.PurchaseHistoryRecord{
		PurchaseToken:    raw.PurchaseToken,
		ProductIDs:       raw.ProductIDs,
		Quantity:         raw.Quantity,
		PurchaseTime:     time.UnixMilli(raw.PurchaseTimeMillis).UTC(),
		DeveloperPayload: raw.DeveloperPayload,
		OriginalJSON:     raw.OriginalJSON,
		Signature:        raw.Signature,
	}
}

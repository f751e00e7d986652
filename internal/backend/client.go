// Package backend talks to the platform billing gateway. The gateway is an
// opaque asynchronous collaborator: every query and command eventually
// delivers a result code through a callback, never a synchronous return.
package backend

import (
	"playbridge/internal/types"
)

// LaunchParams carries everything the gateway needs to start a purchase flow
type LaunchParams struct {
	Details             types.ProductDetails
	OfferToken          string
	ObfuscatedAccountID string
	ObfuscatedProfileID string
}

// Client is the asynchronous billing gateway contract. Callbacks are invoked
// on gateway goroutines; callers must do their own serialization.
type Client interface {
	// Connect opens the gateway connection. onStatus is invoked exactly once
	// with the setup result; onDisconnected whenever an established
	// connection is lost.
	Connect(onStatus func(types.ConnectionStatus), onDisconnected func())

	// QueryProductDetails fetches catalogue data for the given ids of one kind
	QueryProductDetails(kind types.ProductKind, ids []string, cb func(types.ResponseCode, []types.ProductDetails))

	// QueryPurchases fetches the active purchases of one kind
	QueryPurchases(kind types.ProductKind, cb func(types.ResponseCode, []types.Purchase))

	// QueryPurchaseHistory fetches the most recent transaction per product of one kind
	QueryPurchaseHistory(kind types.ProductKind, cb func(types.ResponseCode, []types.PurchaseHistoryRecord))

	// LaunchPurchase starts the purchase flow. Fire and forget: the terminal
	// result arrives later through the purchase-update callback path.
	LaunchPurchase(params LaunchParams)

	// Acknowledge confirms a purchase by token
	Acknowledge(token string, cb func(types.ResponseCode))

	// Consume consumes a one-time purchase by token
	Consume(token string, cb func(types.ResponseCode))
}

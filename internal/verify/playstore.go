package verify

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/androidpublisher/v3"
)

// PlayChecker validates purchase tokens server-side through the Play
// Developer API. It is an optional second line of defense behind the local
// signature check; credentials come from the application default mechanism.
type PlayChecker struct {
	service     *androidpublisher.Service
	packageName string
}

// NewPlayChecker builds a checker for one package name
func NewPlayChecker(ctx context.Context, packageName string) (*PlayChecker, error) {
	service, err := androidpublisher.NewService(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to init androidpublisher service: %w", err)
	}

	return &PlayChecker{
		service:     service,
		packageName: packageName,
	}, nil
}

// CheckProduct reports whether a one-time product purchase token is valid
// and in the purchased state
func (c *PlayChecker) CheckProduct(ctx context.Context, productID, token string) (bool, error) {
	purchase, err := c.service.Purchases.Products.
		Get(c.packageName, productID, token).
		Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("failed to get product purchase: %w", err)
	}

	// 0 is purchased; 1 canceled, 2 pending.
	return purchase.PurchaseState == 0, nil
}

// CheckSubscription reports whether a subscription purchase token is valid
// and not yet expired
func (c *PlayChecker) CheckSubscription(ctx context.Context, subscriptionID, token string) (bool, error) {
	purchase, err := c.service.Purchases.Subscriptions.
		Get(c.packageName, subscriptionID, token).
		Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("failed to get subscription purchase: %w", err)
	}

	return purchase.ExpiryTimeMillis >= time.Now().UnixMilli(), nil
}

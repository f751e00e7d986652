package backend

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/go-resty/resty/v2"
	"golang.org/x/crypto/bcrypt"

	"playbridge/internal/conf"
	"playbridge/internal/constants"
	"playbridge/internal/types"
)

const (
	GroupID           = "billing-gateway.system-server"
	PermVersion       = "v1"
	AccessTokenHeader = "X-Access-Token"
)

// GatewayClient is the production Client implementation: an HTTP adapter
// against the platform billing gateway.
type GatewayClient struct {
	HttpClient *resty.Client

	host string
	port string

	mu             sync.Mutex
	onDisconnected func()
}

// NewGatewayClient builds a client against the configured gateway address
func NewGatewayClient() *GatewayClient {
	c := resty.New()

	return &GatewayClient{
		HttpClient: c.SetTimeout(10 * time.Second),
		host:       conf.GetGatewayHost(),
		port:       conf.GetGatewayPort(),
	}
}

// GetAccessToken requests a short-lived gateway token. The password is the
// app key and secret bracketing the current second, bcrypt-hashed, which is
// the platform's standard service-to-service handshake.
func (c *GatewayClient) GetAccessToken() (string, error) {
	url := fmt.Sprintf(constants.GatewayAccessURLTempl, c.host, c.port)
	now := time.Now().UnixMilli() / 1000

	password := conf.GetAppKey() + strconv.Itoa(int(now)) + conf.GetAppSecret()
	encode, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	perm := AccessTokenRequest{
		AppKey:    conf.GetAppKey(),
		Timestamp: now,
		Token:     string(encode),
		Perm: PermissionRequire{
			Group:    GroupID,
			Version:  PermVersion,
			DataType: "billing",
			Ops: []string{
				"Query",
				"Command",
			},
		},
	}

	resp, err := c.HttpClient.R().
		SetHeader("Content-Type", "application/json").
		SetBody(perm).
		SetResult(&AccessTokenResp{}).
		Post(url)

	if err != nil {
		return "", err
	}

	if resp.StatusCode() != http.StatusOK {
		return "", errors.New(string(resp.Body()))
	}

	token := resp.Result().(*AccessTokenResp)

	if token.Code != 0 {
		return "", errors.New(token.Message)
	}

	return token.Data.AccessToken, nil
}

// Connect probes the gateway info endpoint and reports the setup result.
// A gateway older than MinGatewayAPIVersion is usable for nothing, so it is
// surfaced as FeatureNotSupported.
func (c *GatewayClient) Connect(onStatus func(types.ConnectionStatus), onDisconnected func()) {
	c.mu.Lock()
	c.onDisconnected = onDisconnected
	c.mu.Unlock()

	go func() {
		url := fmt.Sprintf(constants.GatewayInfoURLTempl, c.host, c.port)

		resp, err := c.HttpClient.R().
			SetResult(&GatewayInfoResp{}).
			Get(url)
		if err != nil {
			log.Printf("Gateway connect failed: %v", err)
			onStatus(types.StatusNetworkError)
			return
		}
		if resp.StatusCode() == http.StatusServiceUnavailable {
			onStatus(types.StatusServiceUnavailable)
			return
		}
		if resp.StatusCode() != http.StatusOK {
			onStatus(types.StatusBillingUnavailable)
			return
		}

		info := resp.Result().(*GatewayInfoResp)
		if !gatewayVersionSupported(info.Data.APIVersion) {
			log.Printf("Gateway API version %s below minimum %s", info.Data.APIVersion, constants.MinGatewayAPIVersion)
			onStatus(types.StatusFeatureNotSupported)
			return
		}

		onStatus(types.StatusConnected)
	}()
}

// NotifyDisconnected relays a gateway-reported disconnection to the handler
// registered at connect time. The apiserver callback ingress calls this.
func (c *GatewayClient) NotifyDisconnected() {
	c.mu.Lock()
	handler := c.onDisconnected
	c.mu.Unlock()
	if handler != nil {
		handler()
	}
}

func gatewayVersionSupported(version string) bool {
	vGot, err := semver.NewVersion(version)
	if err != nil {
		log.Printf("invalid gateway version:%s %s", version, err.Error())
		return false
	}
	vMin, err := semver.NewVersion(constants.MinGatewayAPIVersion)
	if err != nil {
		return false
	}
	return !vGot.LessThan(vMin)
}

func (c *GatewayClient) QueryProductDetails(kind types.ProductKind, ids []string, cb func(types.ResponseCode, []types.ProductDetails)) {
	go func() {
		url := fmt.Sprintf(constants.GatewayProductsQueryURLTempl, c.host, c.port)
		result := &ProductDetailsQueryResp{}

		code := c.postQuery(url, QueryRequest{Kind: kind, ProductIDs: ids}, result)
		if code != types.ResponseOK {
			cb(code, nil)
			return
		}

		items := make([]types.ProductDetails, 0, len(result.Items))
		for _, raw := range result.Items {
			items = append(items, ConvertProductDetails(raw))
		}
		cb(result.Code, items)
	}()
}

func (c *GatewayClient) QueryPurchases(kind types.ProductKind, cb func(types.ResponseCode, []types.Purchase)) {
	go func() {
		url := fmt.Sprintf(constants.GatewayPurchasesQueryURLTempl, c.host, c.port)
		result := &PurchasesQueryResp{}

		code := c.postQuery(url, QueryRequest{Kind: kind}, result)
		if code != types.ResponseOK {
			cb(code, nil)
			return
		}

		items := make([]types.Purchase, 0, len(result.Items))
		for _, raw := range result.Items {
			items = append(items, ConvertPurchase(raw))
		}
		cb(result.Code, items)
	}()
}

func (c *GatewayClient) QueryPurchaseHistory(kind types.ProductKind, cb func(types.ResponseCode, []types.PurchaseHistoryRecord)) {
	go func() {
		url := fmt.Sprintf(constants.GatewayPurchaseHistoryQueryURLTempl, c.host, c.port)
		result := &PurchaseHistoryQueryResp{}

		code := c.postQuery(url, QueryRequest{Kind: kind}, result)
		if code != types.ResponseOK {
			cb(code, nil)
			return
		}

		items := make([]types.PurchaseHistoryRecord, 0, len(result.Items))
		for _, raw := range result.Items {
			items = append(items, ConvertPurchaseHistoryRecord(raw))
		}
		cb(result.Code, items)
	}()
}

func (c *GatewayClient) LaunchPurchase(params LaunchParams) {
	go func() {
		url := fmt.Sprintf(constants.GatewayPurchaseLaunchURLTempl, c.host, c.port)

		req := LaunchRequest{
			ProductID:           params.Details.ProductID,
			Kind:                params.Details.Kind,
			OfferToken:          params.OfferToken,
			ObfuscatedAccountID: params.ObfuscatedAccountID,
			ObfuscatedProfileID: params.ObfuscatedProfileID,
		}

		// Fire and forget: the terminal result comes back through the
		// purchase-update callback ingress, not this response.
		if code := c.postQuery(url, req, &CommandResp{}); code != types.ResponseOK {
			log.Printf("Gateway purchase launch for %s not accepted: %s", params.Details.ProductID, code)
		}
	}()
}

func (c *GatewayClient) Acknowledge(token string, cb func(types.ResponseCode)) {
	c.command(constants.GatewayAcknowledgeURLTempl, token, cb)
}

func (c *GatewayClient) Consume(token string, cb func(types.ResponseCode)) {
	c.command(constants.GatewayConsumeURLTempl, token, cb)
}

func (c *GatewayClient) command(urlTempl, token string, cb func(types.ResponseCode)) {
	go func() {
		url := fmt.Sprintf(urlTempl, c.host, c.port, token)
		result := &CommandResp{}

		code := c.postQuery(url, nil, result)
		if code != types.ResponseOK {
			cb(code)
			return
		}
		cb(result.Code)
	}()
}

// postQuery sends one authenticated request and maps transport and HTTP
// failures to backend response codes. The parsed body lands in result.
func (c *GatewayClient) postQuery(url string, body interface{}, result interface{}) types.ResponseCode {
	accessToken, err := c.GetAccessToken()
	if err != nil {
		log.Printf("Gateway access token request failed: %v", err)
		return types.ResponseNetworkError
	}

	req := c.HttpClient.R().
		SetHeader("Content-Type", "application/json").
		SetHeader(AccessTokenHeader, accessToken).
		SetResult(result)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Post(url)
	if err != nil {
		log.Printf("Gateway request to %s failed: %v", url, err)
		return types.ResponseNetworkError
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return types.ResponseOK
	case http.StatusServiceUnavailable:
		return types.ResponseServiceUnavailable
	case http.StatusBadRequest:
		return types.ResponseDeveloperError
	default:
		return types.ResponseError
	}
}

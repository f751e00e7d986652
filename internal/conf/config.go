package conf

import (
	"os"
	"strconv"

	"k8s.io/klog/v2"
)

const (
	gatewayHostEnv      = "BILLING_GATEWAY_HOST"
	gatewayPortEnv      = "BILLING_GATEWAY_PORT"
	appKeyEnv           = "BILLING_APP_KEY"
	appSecretEnv        = "BILLING_APP_SECRET"
	verificationKeyEnv  = "BILLING_VERIFICATION_KEY"
	packageNameEnv      = "BILLING_PACKAGE_NAME"
	productsManifestEnv = "BILLING_PRODUCTS_MANIFEST"
	remoteVerifyEnv     = "BILLING_REMOTE_VERIFY"
)

type config struct {
	GatewayHost string
	GatewayPort string

	AppKey    string
	AppSecret string

	// Base64-encoded RSA public key used for local purchase signature checks.
	// Empty means CheckPurchaseValidity answers KeyNotFound.
	VerificationKey string

	// Package name and remote-verify switch for the Play Developer API check
	PackageName  string
	RemoteVerify bool

	// Optional YAML manifest of products registered at boot
	ProductsManifest string
}

var Config config

func Init() {
	initFromEnv()
}

func initFromEnv() {
	Config.GatewayHost = envOrDefault(gatewayHostEnv, "localhost")
	Config.GatewayPort = envOrDefault(gatewayPortEnv, "8090")
	Config.AppKey = os.Getenv(appKeyEnv)
	Config.AppSecret = os.Getenv(appSecretEnv)
	Config.VerificationKey = os.Getenv(verificationKeyEnv)
	Config.PackageName = os.Getenv(packageNameEnv)
	Config.RemoteVerify, _ = strconv.ParseBool(os.Getenv(remoteVerifyEnv))
	Config.ProductsManifest = os.Getenv(productsManifestEnv)

	klog.Infof("Config.GatewayHost:%s Config.GatewayPort:%s Config.RemoteVerify:%t",
		Config.GatewayHost, Config.GatewayPort, Config.RemoteVerify)
}

func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetGatewayHost() string {
	return Config.GatewayHost
}

func GetGatewayPort() string {
	return Config.GatewayPort
}

func GetAppKey() string {
	return Config.AppKey
}

func GetAppSecret() string {
	return Config.AppSecret
}

func GetVerificationKey() string {
	return Config.VerificationKey
}

func GetPackageName() string {
	return Config.PackageName
}

func GetRemoteVerify() bool {
	return Config.RemoteVerify
}

func GetProductsManifest() string {
	return Config.ProductsManifest
}

// Package verify checks purchase authenticity: locally against the
// app's licensing public key, and optionally against the Play Developer API.
package verify

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"encoding/base64"
	"log"
)

// VerifySignature reports whether signature is a valid SHA1-with-RSA
// signature of payload under the base64-encoded X.509 public key. Empty or
// malformed inputs are a failed verification, never an error or a panic.
func VerifySignature(publicKeyBase64, payload, signature string) bool {
	if publicKeyBase64 == "" || payload == "" || signature == "" {
		return false
	}

	key, err := decodePublicKey(publicKeyBase64)
	if err != nil {
		log.Printf("Purchase verification key rejected: %v", err)
		return false
	}

	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		log.Printf("Purchase signature is not valid base64: %v", err)
		return false
	}

	digest := sha1.Sum([]byte(payload))
	if err := rsa.VerifyPKCS1v15(key, crypto.SHA1, digest[:], sig); err != nil {
		return false
	}
	return true
}

func decodePublicKey(encoded string) (*rsa.PublicKey, error) {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}

	parsed, err := x509.ParsePKIXPublicKey(decoded)
	if err != nil {
		return nil, err
	}

	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, x509.ErrUnsupportedAlgorithm
	}
	return key, nil
}

package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"strings"
)

// VerifySignature checks the webhook HMAC-SHA256 over the exact raw body
// bytes. PayTabs integrations have shipped both hex and base64 digests, so
// both encodings are accepted. Comparison is constant-time and fails closed
// on a missing header or secret.
func VerifySignature(rawBody []byte, signature, secret string) bool {
	sig := strings.TrimSpace(signature)
	if sig == "" || secret == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	digest := mac.Sum(nil)

	expectedHex := hex.EncodeToString(digest)
	expectedB64 := base64.StdEncoding.EncodeToString(digest)

	okHex := subtle.ConstantTimeCompare([]byte(sig), []byte(expectedHex)) == 1
	okB64 := subtle.ConstantTimeCompare([]byte(sig), []byte(expectedB64)) == 1
	return okHex || okB64
}

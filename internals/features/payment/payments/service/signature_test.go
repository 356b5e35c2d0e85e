package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"testing"
)

func signHex(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func signB64(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerifySignatureHex(t *testing.T) {
	body := []byte(`{"tran_ref":"TST0001","cart_id":"abc"}`)
	secret := "server-key-123"

	if !VerifySignature(body, signHex(body, secret), secret) {
		t.Error("expected hex signature to verify")
	}
}

func TestVerifySignatureBase64(t *testing.T) {
	body := []byte(`{"tran_ref":"TST0001","cart_id":"abc"}`)
	secret := "server-key-123"

	if !VerifySignature(body, signB64(body, secret), secret) {
		t.Error("expected base64 signature to verify")
	}
}

func TestVerifySignatureTrimsWhitespace(t *testing.T) {
	body := []byte(`{}`)
	secret := "k"

	if !VerifySignature(body, "  "+signHex(body, secret)+"\n", secret) {
		t.Error("expected signature with surrounding whitespace to verify")
	}
}

func TestVerifySignatureRejectsTamperedBody(t *testing.T) {
	body := []byte(`{"cart_amount":"100.00"}`)
	secret := "server-key-123"
	sig := signHex(body, secret)

	tampered := []byte(`{"cart_amount":"1.00"}`)
	if VerifySignature(tampered, sig, secret) {
		t.Error("expected signature over a different body to fail")
	}
}

func TestVerifySignatureRejectsWrongSecret(t *testing.T) {
	body := []byte(`{}`)
	if VerifySignature(body, signHex(body, "right"), "wrong") {
		t.Error("expected signature with the wrong secret to fail")
	}
}

func TestVerifySignatureFailsClosed(t *testing.T) {
	body := []byte(`{}`)
	if VerifySignature(body, "", "secret") {
		t.Error("expected missing signature to fail")
	}
	if VerifySignature(body, signHex(body, ""), "") {
		t.Error("expected empty secret to fail")
	}
}

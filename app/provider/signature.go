package provider

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

func computeHMAC(secret string, message []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(message)
	return mac.Sum(nil)
}

// verifyHexSignature compares a hex-encoded candidate signature against the
// HMAC-SHA256 of message under secret. Decode failures and length mismatches
// collapse to false; hmac.Equal keeps the comparison constant-time.
func verifyHexSignature(secret string, message []byte, signature string) bool {
	signature = strings.TrimSpace(signature)
	if signature == "" {
		return false
	}
	candidate, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(candidate, computeHMAC(secret, message))
}

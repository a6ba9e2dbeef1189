package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// SignBase64HMAC returns base64(HMAC-SHA256(secret, body)).
func SignBase64HMAC(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifyBase64HMAC compares a provided signature against the body digest in
// constant time. An empty secret or signature never verifies.
func VerifyBase64HMAC(secret string, body []byte, provided string) bool {
	provided = strings.TrimSpace(provided)
	if secret == "" || provided == "" {
		return false
	}
	expected := SignBase64HMAC(secret, body)
	return hmac.Equal([]byte(expected), []byte(provided))
}

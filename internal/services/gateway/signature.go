package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
)

func hmacHex(newHash func() hash.Hash, secret string, payload []byte) string {
	mac := hmac.New(newHash, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignSHA512 returns the hex HMAC-SHA512 of payload, the Paystack scheme.
func SignSHA512(secret string, payload []byte) string {
	return hmacHex(sha512.New, secret, payload)
}

// SignSHA256 returns the hex HMAC-SHA256 of payload, the Razorpay scheme.
func SignSHA256(secret string, payload []byte) string {
	return hmacHex(sha256.New, secret, payload)
}

func equalHex(expected, got string) bool {
	return hmac.Equal([]byte(expected), []byte(got))
}

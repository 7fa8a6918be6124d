package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifySignature checks a payment-capture callback. Razorpay signs the
// string "<orderID>|<paymentID>" with HMAC-SHA256 over the key secret and
// sends the hex digest; the callback is genuine only when the recomputed
// digest matches exactly.
func VerifySignature(orderID, paymentID, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

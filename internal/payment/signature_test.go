package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func signFor(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignatureAcceptsValidDigest(t *testing.T) {
	sig := signFor("order_ABC123", "pay_XYZ789", "topsecret")
	if !VerifySignature("order_ABC123", "pay_XYZ789", sig, "topsecret") {
		t.Fatal("expected valid signature to be accepted")
	}
}

func TestVerifySignatureRejectsAnySingleCharMutation(t *testing.T) {
	sig := signFor("order_ABC123", "pay_XYZ789", "topsecret")

	for i := 0; i < len(sig); i++ {
		mutated := []byte(sig)
		if mutated[i] == 'a' {
			mutated[i] = 'b'
		} else {
			mutated[i] = 'a'
		}
		if VerifySignature("order_ABC123", "pay_XYZ789", string(mutated), "topsecret") {
			t.Fatalf("expected mutated signature at index %d to be rejected", i)
		}
	}
}

func TestVerifySignatureRejectsWrongSecret(t *testing.T) {
	sig := signFor("order_ABC123", "pay_XYZ789", "topsecret")
	if VerifySignature("order_ABC123", "pay_XYZ789", sig, "othersecret") {
		t.Fatal("expected signature under wrong secret to be rejected")
	}
}

func TestVerifySignatureRejectsSwappedIDs(t *testing.T) {
	sig := signFor("order_ABC123", "pay_XYZ789", "topsecret")
	if VerifySignature("pay_XYZ789", "order_ABC123", sig, "topsecret") {
		t.Fatal("expected signature over swapped ids to be rejected")
	}
}

func TestVerifySignatureRejectsEmptySignature(t *testing.T) {
	if VerifySignature("order_ABC123", "pay_XYZ789", "", "topsecret") {
		t.Fatal("expected empty signature to be rejected")
	}
}

func TestVerifySignatureRejectsUppercasedDigest(t *testing.T) {
	// Hex compare is case-sensitive; an uppercased but otherwise correct
	// digest must not pass.
	sig := signFor("order_ABC123", "pay_XYZ789", "topsecret")
	upper := ""
	for _, r := range sig {
		if r >= 'a' && r <= 'f' {
			upper += string(r - 32)
		} else {
			upper += string(r)
		}
	}
	if upper != sig && VerifySignature("order_ABC123", "pay_XYZ789", upper, "topsecret") {
		t.Fatal("expected uppercased digest to be rejected")
	}
}

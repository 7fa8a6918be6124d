package handlers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"jewelme/internal/payment"
)

// The signature check runs before any database access, so these paths can be
// exercised with a nil database handle.

func captureRouter(gateway *payment.Gateway) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/orders/capturePayment", CapturePayment(nil, gateway))
	return r
}

func TestCapturePaymentRejectsForgedSignature(t *testing.T) {
	gateway := payment.NewGateway("key_id", "key_secret")
	r := captureRouter(gateway)

	body := `{"paymentId":"pay_1","orderId":"order_1","signature":"deadbeef"}`
	req := httptest.NewRequest("POST", "/api/orders/capturePayment", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 400 {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid signature") {
		t.Fatalf("expected invalid-signature error, got %s", w.Body.String())
	}
}

func TestCapturePaymentRejectsMutatedValidSignature(t *testing.T) {
	gateway := payment.NewGateway("key_id", "key_secret")
	r := captureRouter(gateway)

	mac := hmac.New(sha256.New, []byte("key_secret"))
	mac.Write([]byte("order_1|pay_1"))
	sig := hex.EncodeToString(mac.Sum(nil))

	// Flip one character of an otherwise valid digest.
	mutated := []byte(sig)
	if mutated[0] == 'a' {
		mutated[0] = 'b'
	} else {
		mutated[0] = 'a'
	}

	body := `{"paymentId":"pay_1","orderId":"order_1","signature":"` + string(mutated) + `"}`
	req := httptest.NewRequest("POST", "/api/orders/capturePayment", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 400 {
		t.Fatalf("expected 400 for mutated signature, got %d", w.Code)
	}
}

func TestCapturePaymentRequiresAllFields(t *testing.T) {
	gateway := payment.NewGateway("key_id", "key_secret")
	r := captureRouter(gateway)

	body := `{"paymentId":"pay_1"}`
	req := httptest.NewRequest("POST", "/api/orders/capturePayment", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 400 {
		t.Fatalf("expected 400 for missing fields, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "validation failed") {
		t.Fatalf("expected validation failure, got %s", w.Body.String())
	}
}

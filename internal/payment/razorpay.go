package payment

import (
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// Gateway wraps the Razorpay SDK. Only order creation goes through the SDK;
// callback signatures are verified locally (see signature.go) so the check
// never depends on anything client-supplied.
type Gateway struct {
	client *razorpay.Client
	secret string
}

func NewGateway(keyID, keySecret string) *Gateway {
	return &Gateway{
		client: razorpay.NewClient(keyID, keySecret),
		secret: keySecret,
	}
}

// Secret returns the shared key secret used for signature verification.
func (g *Gateway) Secret() string {
	return g.secret
}

// CreateOrder creates a gateway order for the given amount in minor units and
// returns its id.
func (g *Gateway) CreateOrder(amountMinor int64, currency, receipt string) (string, error) {
	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("razorpay order create: %w", err)
	}

	id, ok := body["id"].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("razorpay order create: response missing id")
	}
	return id, nil
}

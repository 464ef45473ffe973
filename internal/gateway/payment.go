package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// PaymentClient talks to the Payment Gateway, which fronts Stripe.
type PaymentClient struct {
	base string
	hc   *http.Client
}

// NewPaymentClient returns a client rooted at base.
func NewPaymentClient(base string, hc *http.Client) *PaymentClient {
	return &PaymentClient{base: base, hc: hc}
}

// Refund is the gateway's view of a processed refund.
type Refund struct {
	ID     string  `json:"id"`
	Amount float64 `json:"amount"`
	Status string  `json:"status"`
}

// Refund requests a refund against a payment intent. When amount is
// nil the full payment is refunded.
func (c *PaymentClient) Refund(ctx context.Context, paymentID string, amount *float64) (*Refund, error) {
	body := map[string]interface{}{"payment_id": paymentID}
	if amount != nil {
		body["amount"] = *amount
	}
	raw, err := do(ctx, c.hc, "payment-gateway", http.MethodPost, c.base+"/api/payment/refund", body)
	if err != nil {
		return nil, err
	}
	// The payment service wraps the refund under its own key rather
	// than the data envelope.
	var resp struct {
		Refund Refund `json:"refund"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &CollaboratorError{Service: "payment-gateway", Message: fmt.Sprintf("decode response: %v", err)}
	}
	return &resp.Refund, nil
}
